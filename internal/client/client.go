// Package client orchestrates a one-shot RPC invocation: config, COMMS
// connection, session, proxy, call, result printing.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/morezero/service-rpc/internal/config"
	"github.com/morezero/service-rpc/pkg/codec"
	"github.com/morezero/service-rpc/pkg/commsutil"
	"github.com/morezero/service-rpc/pkg/journal"
	"github.com/morezero/service-rpc/pkg/propagate"
	"github.com/morezero/service-rpc/pkg/proxy"
	"github.com/morezero/service-rpc/pkg/session"
)

const logPrefix = "client:client"

// RunCall invokes one remote method and prints the decoded result as JSON.
func RunCall(service, method, argsJSON, kwargsJSON string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("%s - failed to load config: %w", logPrefix, err)
	}
	setupLogging(cfg.LogLevel)

	if err := cfg.ValidateForCall(); err != nil {
		return err
	}

	decls, err := proxy.ParseDecls(cfg.Services)
	if err != nil {
		return err
	}

	env := &codec.CallEnvelope{}
	if argsJSON != "" {
		if err := json.Unmarshal([]byte(argsJSON), &env.Args); err != nil {
			return fmt.Errorf("%s - invalid args JSON: %w", logPrefix, err)
		}
	}
	if kwargsJSON != "" {
		if err := json.Unmarshal([]byte(kwargsJSON), &env.Kwargs); err != nil {
			return fmt.Errorf("%s - invalid kwargs JSON: %w", logPrefix, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	nc, err := commsutil.Connect(cfg.COMMSURL, cfg.COMMSName)
	if err != nil {
		return err
	}
	defer nc.Close()

	var recorder journal.Recorder = &journal.NoOpRecorder{}
	if cfg.JournalEnabled {
		pool, err := journal.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		recorder = journal.NewPGRecorder(pool)
	}

	s := session.NewSession(session.NewSessionParams{
		Transport: commsutil.NewCommsTransport(nc),
		Services:  decls,
		Recorder:  recorder,
		Options: session.Options{
			RequestTimeout: cfg.RequestTimeout,
			TracingEnabled: cfg.TracingEnabled,
		},
	})
	if err := s.Connect(ctx); err != nil {
		return err
	}
	defer s.Close()

	p, err := s.BuildRpcProxy(propagate.WorkerContext(cfg.WorkerContext))
	if err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("%s - Calling %s.%s", logPrefix, service, method))
	result, err := p.Call(ctx, service, method, env)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("%s - failed to render result: %w", logPrefix, err)
	}
	fmt.Println(string(out))
	return nil
}

// RunMigrate applies the call journal schema.
func RunMigrate() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("%s - failed to load config: %w", logPrefix, err)
	}
	setupLogging(cfg.LogLevel)

	if err := cfg.ValidateForDB(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := journal.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	return journal.Migrate(ctx, pool)
}

func setupLogging(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}
