// Package main is the entrypoint for the service-rpc command-line client.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/morezero/service-rpc/internal/client"
)

const usage = `Usage: service-rpc <command>

Commands:
  call <service> <method> [argsJSON] [kwargsJSON]
              Invoke a remote method over COMMS and print the result.
  migrate     Apply the call journal schema (requires DATABASE_URL).

Environment: COMMS_URL, RPC_SERVICES, RPC_REQUEST_TIMEOUT, RPC_TRACING_ENABLED,
WORKER_CONTEXT, JOURNAL_ENABLED, DATABASE_URL, LOG_LEVEL. See README for details.
`

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "call":
		if len(args) < 3 {
			fmt.Fprintf(os.Stderr, "call requires <service> and <method>.\n%s", usage)
			os.Exit(1)
		}
		argsJSON, kwargsJSON := "", ""
		if len(args) > 3 {
			argsJSON = args[3]
		}
		if len(args) > 4 {
			kwargsJSON = args[4]
		}
		if err := client.RunCall(args[1], args[2], argsJSON, kwargsJSON); err != nil {
			log.Fatalf("service-rpc call: %v", err)
		}
	case "migrate":
		if err := client.RunMigrate(); err != nil {
			log.Fatalf("service-rpc migrate: %v", err)
		}
	case "help", "-h", "--help":
		fmt.Print(usage)
	case "":
		fmt.Print(usage)
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n%s", cmd, usage)
		os.Exit(1)
	}
}
