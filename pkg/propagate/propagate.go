// Package propagate derives outbound call headers from the ambient worker
// context and an optional active trace, and extracts trace info echoed back.
package propagate

import (
	"github.com/morezero/service-rpc/pkg/commsutil"
)

// Well-known worker context keys. Worker context keys are free-form; these are
// the ones every service in the fleet understands.
const (
	KeyAuthorization = "authorization"
	KeyLanguage      = "language"
	KeyLocale        = "locale"
)

// WorkerContext is caller identity and locale metadata attached verbatim to
// every outbound call and echoed back by the callee.
type WorkerContext map[string]string

// Clone returns an independent copy. Proxies hold a clone so that later
// mutation of the caller's source map never leaks into in-flight calls.
func (w WorkerContext) Clone() WorkerContext {
	out := make(WorkerContext, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// BuildOutboundHeaders builds the headers for one outbound call: every worker
// context entry under its own key, plus traceparent when tc is non-nil. The
// caller decides per call whether tracing applies; a nil tc attaches nothing,
// not a placeholder.
func BuildOutboundHeaders(wctx WorkerContext, tc *TraceContext) commsutil.Headers {
	headers := make(commsutil.Headers, len(wctx)+1)
	for k, v := range wctx {
		headers.Set(k, v)
	}
	if tc != nil && tc.Traceparent != "" {
		headers.Set(HeaderTraceparent, tc.Traceparent)
	}
	return headers
}
