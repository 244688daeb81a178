// Package session owns one connected RPC client session: the transport
// handle, the reply queue, the pending-call registry, and proxy construction.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nuid"

	"github.com/morezero/service-rpc/pkg/codec"
	"github.com/morezero/service-rpc/pkg/commsutil"
	"github.com/morezero/service-rpc/pkg/correlation"
	"github.com/morezero/service-rpc/pkg/hooks"
	"github.com/morezero/service-rpc/pkg/journal"
	"github.com/morezero/service-rpc/pkg/propagate"
	"github.com/morezero/service-rpc/pkg/proxy"
)

const logPrefix = "session:session"

type sessionState int

const (
	stateNew sessionState = iota
	stateConnected
	stateClosed
)

// Options tunes per-session call behavior.
type Options struct {
	// RequestTimeout bounds each call awaiting its reply. Zero disables the
	// deadline.
	RequestTimeout time.Duration
	// TracingEnabled turns on traceparent propagation. The active trace is
	// still looked up per call; enabling this without an active trace in the
	// calling context attaches nothing.
	TracingEnabled bool
}

// NewSessionParams holds parameters for NewSession.
type NewSessionParams struct {
	Transport commsutil.Transport
	Services  []proxy.ServiceDecl
	Hooks     *hooks.HookSet
	Recorder  journal.Recorder
	Options   Options
}

// Session is a connected RPC client session. One reply queue, many
// concurrent outstanding calls.
type Session struct {
	transport commsutil.Transport
	services  []proxy.ServiceDecl
	pipeline  *hooks.Pipeline
	recorder  journal.Recorder
	opts      Options
	registry  *correlation.Registry

	mu         sync.Mutex
	state      sessionState
	replyQueue string
	sub        commsutil.Subscription
}

// NewSession creates a session. Call Connect before issuing calls.
func NewSession(params NewSessionParams) *Session {
	recorder := params.Recorder
	if recorder == nil {
		recorder = &journal.NoOpRecorder{}
	}
	return &Session{
		transport: params.Transport,
		services:  params.Services,
		pipeline:  hooks.NewPipeline(params.Hooks),
		recorder:  recorder,
		opts:      params.Options,
		registry:  correlation.NewRegistry(),
	}
}

// Connect provisions the session's reply queue and starts the reply
// consumption loop. A session connects at most once; it is not restartable
// after Close.
func (s *Session) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &ConnectionError{Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateConnected:
		return &ConnectionError{Err: fmt.Errorf("session already connected")}
	case stateClosed:
		return &ConnectionClosedError{}
	}

	queue := s.transport.NewReplyQueue()
	sub, err := s.transport.Consume(queue, s.handleReply)
	if err != nil {
		return &ConnectionError{Err: err}
	}

	s.replyQueue = queue
	s.sub = sub
	s.state = stateConnected
	slog.Info(fmt.Sprintf("%s - Session connected, reply queue %s", logPrefix, queue))
	return nil
}

// Close releases the reply queue. Every call still outstanding settles as a
// failure with ConnectionClosedError. Idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state != stateConnected {
		s.state = stateClosed
		s.mu.Unlock()
		return nil
	}
	s.state = stateClosed
	sub := s.sub
	s.mu.Unlock()

	err := sub.Unsubscribe()
	s.registry.FailAll(&ConnectionClosedError{})
	slog.Info(fmt.Sprintf("%s - Session closed", logPrefix))
	if err != nil {
		return fmt.Errorf("%s - failed to release reply queue: %w", logPrefix, err)
	}
	return nil
}

// ReplyQueue returns the session's reply queue identity, empty before Connect.
func (s *Session) ReplyQueue() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replyQueue
}

// DroppedReplies returns how many replies arrived for unknown or
// already-settled correlation ids.
func (s *Session) DroppedReplies() int64 {
	return s.registry.Dropped()
}

// BuildRpcProxy builds a proxy over the declared services, bound to this
// session and to an immutable snapshot of wctx. Each call returns a fresh
// proxy instance.
func (s *Session) BuildRpcProxy(wctx propagate.WorkerContext) (*proxy.Proxy, error) {
	return proxy.New(s.services, s, wctx)
}

// DispatchCall implements proxy.Dispatcher: publish one call, await its
// reply, run the success-path hooks, journal the outcome.
func (s *Session) DispatchCall(ctx context.Context, target proxy.CallTarget, env *codec.CallEnvelope, wctx propagate.WorkerContext) (interface{}, error) {
	s.mu.Lock()
	state := s.state
	replyQueue := s.replyQueue
	s.mu.Unlock()

	switch state {
	case stateNew:
		return nil, &ConnectionError{Err: fmt.Errorf("session not connected")}
	case stateClosed:
		return nil, &ConnectionClosedError{}
	}

	start := time.Now()
	env = env.Normalize()
	s.pipeline.Request(target.Service, target.Method, env)

	// Tracing is evaluated per call: the feature flag may toggle between
	// calls and spans are call-scoped.
	var tc *propagate.TraceContext
	if s.opts.TracingEnabled {
		tc = propagate.TraceFromContext(ctx)
	}
	headers := propagate.BuildOutboundHeaders(wctx, tc)

	data, err := codec.EncodeEnvelope(env)
	if err != nil {
		return nil, err
	}

	id := nuid.Next()
	headers.Set(commsutil.HeaderCorrelationID, id)

	handle, err := s.registry.Register(id)
	if err != nil {
		return nil, err
	}

	if s.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RequestTimeout)
		defer cancel()
	}

	subject := commsutil.BuildCallSubject(target.Service, target.Method, target.Major)
	if err := s.transport.Publish(ctx, subject, data, headers, replyQueue); err != nil {
		s.registry.Settle(id, nil, err)
	}

	value, err := handle.Await(ctx)
	if err != nil {
		s.record(target, id, start, err)
		return nil, err
	}

	result, err := s.pipeline.Response(value)
	s.record(target, id, start, err)
	return result, err
}

// handleReply is the reply consumption loop body: decode and route strictly
// by correlation id.
func (s *Session) handleReply(d commsutil.Delivery) {
	if d.CorrelationID == "" {
		slog.Debug(fmt.Sprintf("%s - Dropping reply without correlation id", logPrefix))
		return
	}

	reply, err := codec.DecodeReply(d.Data)
	if err != nil {
		s.registry.Settle(d.CorrelationID, nil, err)
		return
	}

	var settled bool
	if reply.Success {
		settled = s.registry.Settle(d.CorrelationID, reply.Result, nil)
	} else {
		settled = s.registry.Settle(d.CorrelationID, nil, reply.Err)
	}
	if !settled {
		slog.Debug(fmt.Sprintf("%s - Dropped reply for unknown or settled id %s", logPrefix, d.CorrelationID))
	}
}

// record journals one settled call. Best-effort: a failing recorder is
// logged, never surfaced to the caller.
func (s *Session) record(target proxy.CallTarget, id string, start time.Time, callErr error) {
	rec := &journal.CallRecord{
		CorrelationID: id,
		Service:       target.Service,
		Method:        target.Method,
		Success:       callErr == nil,
		Duration:      time.Since(start),
		StartedAt:     start,
	}
	if remoteErr, ok := callErr.(*codec.RemoteError); ok {
		rec.ExceptionPath = remoteErr.ExceptionPath
	}
	if err := s.recorder.RecordCall(context.Background(), rec); err != nil {
		slog.Warn(fmt.Sprintf("%s - Failed to journal call %s: %v", logPrefix, id, err))
	}
}
