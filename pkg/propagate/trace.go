package propagate

import (
	"context"
	"fmt"
	"regexp"

	"github.com/morezero/service-rpc/pkg/commsutil"
)

// HeaderTraceparent is the W3C trace-propagation header key.
const HeaderTraceparent = "traceparent"

// traceparentRe matches the W3C version-traceid-spanid-flags form.
var traceparentRe = regexp.MustCompile(`^[0-9a-f]{2}-[0-9a-f]{32}-[0-9a-f]{16}-[0-9a-f]{2}$`)

// TraceContext carries an active trace in W3C traceparent form.
type TraceContext struct {
	Traceparent string
}

// ParseTraceparent validates a traceparent header value.
func ParseTraceparent(value string) (*TraceContext, error) {
	if !traceparentRe.MatchString(value) {
		return nil, fmt.Errorf("propagate:trace - invalid traceparent %q", value)
	}
	return &TraceContext{Traceparent: value}, nil
}

// ExtractInboundTrace returns the trace context a callee echoed back on a
// reply, if any. Observability only; replies route by correlation id.
func ExtractInboundTrace(headers commsutil.Headers) (*TraceContext, bool) {
	value := headers.Get(HeaderTraceparent)
	if value == "" {
		return nil, false
	}
	tc, err := ParseTraceparent(value)
	if err != nil {
		return nil, false
	}
	return tc, true
}

type traceContextKey struct{}

// ContextWithTrace attaches an active trace to ctx. Call sites propagate the
// trace explicitly through the context so span scoping stays testable.
func ContextWithTrace(ctx context.Context, tc *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, tc)
}

// TraceFromContext returns the active trace at call time, or nil when the
// calling context carries none.
func TraceFromContext(ctx context.Context) *TraceContext {
	tc, _ := ctx.Value(traceContextKey{}).(*TraceContext)
	return tc
}
