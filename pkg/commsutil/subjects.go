package commsutil

import (
	"fmt"
	"strings"
)

// SubjectPrefix is the leading token of every RPC call subject.
const SubjectPrefix = "rpc"

// HeaderCorrelationID is the header key carrying the correlation id of a call
// and its matching reply.
const HeaderCorrelationID = "correlationId"

// BuildCallSubject builds the COMMS subject addressing one method of a
// service at a given major version, e.g. rpc.orders.v2.create.
func BuildCallSubject(service, method string, major int) string {
	safe := strings.ReplaceAll(service, ".", "_")
	return fmt.Sprintf("%s.%s.v%d.%s", SubjectPrefix, safe, major, method)
}
