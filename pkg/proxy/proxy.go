// Package proxy turns service and method addressing into call envelopes
// dispatched through a session, without a compile-time method registry.
package proxy

import (
	"context"
	"fmt"

	"github.com/morezero/service-rpc/pkg/codec"
	"github.com/morezero/service-rpc/pkg/propagate"
)

// UnknownServiceError reports an access to a service name that was never
// declared. Raised at member access time, before anything is published.
type UnknownServiceError struct {
	Service string
}

// Error implements the error interface.
func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("proxy: unknown service %q", e.Service)
}

// CallTarget addresses one method of one declared service.
type CallTarget struct {
	Service string
	Method  string
	Major   int
}

// Dispatcher publishes a call and awaits its reply. Implemented by the
// session; the proxy stays free of transport concerns.
type Dispatcher interface {
	DispatchCall(ctx context.Context, target CallTarget, env *codec.CallEnvelope, wctx propagate.WorkerContext) (interface{}, error)
}

// Proxy is a dispatch table over the declared services, bound to one session
// and one immutable worker context snapshot.
type Proxy struct {
	dispatcher Dispatcher
	services   map[string]*ServiceProxy
	wctx       propagate.WorkerContext
}

// New builds a proxy from the declared services. The dispatch table is built
// here, once; service name lookups never touch reflection. The worker context
// is snapshotted, so mutating the source map afterwards has no effect.
func New(decls []ServiceDecl, dispatcher Dispatcher, wctx propagate.WorkerContext) (*Proxy, error) {
	p := &Proxy{
		dispatcher: dispatcher,
		services:   make(map[string]*ServiceProxy, len(decls)),
		wctx:       wctx.Clone(),
	}
	for _, decl := range decls {
		major, err := decl.major()
		if err != nil {
			return nil, err
		}
		p.services[decl.Name] = &ServiceProxy{name: decl.Name, major: major, proxy: p}
	}
	return p, nil
}

// Service returns the callable member for a declared service name.
func (p *Proxy) Service(name string) (*ServiceProxy, error) {
	sp, ok := p.services[name]
	if !ok {
		return nil, &UnknownServiceError{Service: name}
	}
	return sp, nil
}

// Call is the flat form of Service(service).Call(ctx, method, env).
func (p *Proxy) Call(ctx context.Context, service, method string, env *codec.CallEnvelope) (interface{}, error) {
	sp, err := p.Service(service)
	if err != nil {
		return nil, err
	}
	return sp.Call(ctx, method, env)
}

// WorkerContext returns a copy of the snapshot attached to every call made
// through this proxy.
func (p *Proxy) WorkerContext() propagate.WorkerContext {
	return p.wctx.Clone()
}

// ServiceProxy is the callable member for one declared service. Method names
// are not known ahead of time; any name is accepted and resolved by the
// callee.
type ServiceProxy struct {
	name  string
	major int
	proxy *Proxy
}

// Name returns the declared service name.
func (sp *ServiceProxy) Name() string { return sp.name }

// Major returns the routing major version of the declared service.
func (sp *ServiceProxy) Major() int { return sp.major }

// Call invokes method with the given envelope and awaits the result. A nil
// envelope, or nil args or kwargs within it, defaults to empty.
func (sp *ServiceProxy) Call(ctx context.Context, method string, env *codec.CallEnvelope) (interface{}, error) {
	if method == "" {
		return nil, fmt.Errorf("proxy: empty method name on service %q", sp.name)
	}
	target := CallTarget{Service: sp.name, Method: method, Major: sp.major}
	return sp.proxy.dispatcher.DispatchCall(ctx, target, env.Normalize(), sp.proxy.wctx)
}
