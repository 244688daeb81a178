// Package hooks runs optional observer and transformer callbacks around the
// request and response paths of an RPC call.
package hooks

import (
	"fmt"

	"github.com/morezero/service-rpc/pkg/codec"
)

// HookSet holds the optional interception points for one session. Any field
// may be nil; a nil hook is simply skipped.
type HookSet struct {
	// OnRequest observes the outbound envelope before publish. Observation
	// only; it must not mutate the envelope.
	OnRequest func(service, method string, env *codec.CallEnvelope)
	// OnResponse observes the raw decoded result of a successful reply,
	// before any transformation.
	OnResponse func(result interface{})
	// ProcessResponse transforms the result; its return value is what the
	// caller receives. An error rejects the call.
	ProcessResponse func(result interface{}) (interface{}, error)
}

// Pipeline wraps a possibly-absent hook set so call sites never nil-check.
type Pipeline struct {
	set HookSet
}

// NewPipeline creates a pipeline from hooks. A nil hooks is the no-hook
// pipeline, where every stage is a pass-through.
func NewPipeline(hooks *HookSet) *Pipeline {
	p := &Pipeline{}
	if hooks != nil {
		p.set = *hooks
	}
	return p
}

// Request runs the outbound observation hook.
func (p *Pipeline) Request(service, method string, env *codec.CallEnvelope) {
	if p.set.OnRequest != nil {
		p.set.OnRequest(service, method, env)
	}
}

// Response runs the success-path hooks in order: OnResponse observes the raw
// result, then ProcessResponse replaces it. Never called on failure replies.
func (p *Pipeline) Response(result interface{}) (interface{}, error) {
	if p.set.OnResponse != nil {
		p.set.OnResponse(result)
	}
	if p.set.ProcessResponse != nil {
		transformed, err := p.set.ProcessResponse(result)
		if err != nil {
			return nil, fmt.Errorf("hooks: processResponse failed: %w", err)
		}
		return transformed, nil
	}
	return result, nil
}
