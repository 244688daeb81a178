// Package correlation maps correlation ids to pending calls and settles each
// exactly once when its reply arrives.
package correlation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// TimeoutError reports a call whose deadline expired before its reply. The
// correlation id is invalidated; a late reply for it is dropped.
type TimeoutError struct {
	CorrelationID string
	Elapsed       time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("correlation: call %s timed out after %s", e.CorrelationID, e.Elapsed)
}

// settlement is the terminal outcome of one pending call.
type settlement struct {
	value interface{}
	err   error
}

type entry struct {
	ch        chan settlement
	createdAt time.Time
}

// Handle is the caller side of one pending call. The caller suspends on
// Await until the registry settles the call.
type Handle struct {
	id  string
	ch  chan settlement
	reg *Registry
}

// ID returns the correlation id of the pending call.
func (h *Handle) ID() string { return h.id }

// Await suspends until the call settles or ctx expires. A deadline expiry
// yields a TimeoutError and discards the id so a late reply cannot settle a
// caller that already gave up.
func (h *Handle) Await(ctx context.Context) (interface{}, error) {
	select {
	case s := <-h.ch:
		return s.value, s.err
	case <-ctx.Done():
		createdAt, removed := h.reg.discard(h.id)
		if !removed {
			// Settlement raced the deadline; the buffered send is already
			// committed, so honor it.
			s := <-h.ch
			return s.value, s.err
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{CorrelationID: h.id, Elapsed: time.Since(createdAt)}
		}
		return nil, ctx.Err()
	}
}

// Registry owns every pending call of one session. All methods are safe for
// concurrent use; settling one id never blocks unrelated pending calls.
type Registry struct {
	mu      sync.Mutex
	pending map[string]*entry
	dropped atomic.Int64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{pending: make(map[string]*entry)}
}

// Register creates a pending call for id and returns the handle the caller
// awaits on. A correlation id is never reused while a call is outstanding, so
// a duplicate registration is a programming error.
func (r *Registry) Register(id string) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pending[id]; exists {
		return nil, fmt.Errorf("correlation: id %s already pending", id)
	}

	e := &entry{ch: make(chan settlement, 1), createdAt: time.Now()}
	r.pending[id] = e
	return &Handle{id: id, ch: e.ch, reg: r}, nil
}

// Settle resolves or rejects the pending call for id. The entry is removed
// before the waiter is notified, so a second reply for the same id can never
// double-settle. Unknown or already-settled ids are dropped and counted;
// duplicate and late delivery is normal for the transport, not an error.
func (r *Registry) Settle(id string, value interface{}, err error) bool {
	r.mu.Lock()
	e, ok := r.pending[id]
	if ok {
		delete(r.pending, id)
	}
	r.mu.Unlock()

	if !ok {
		r.dropped.Add(1)
		return false
	}
	e.ch <- settlement{value: value, err: err}
	return true
}

// FailAll rejects every outstanding call with err. Used when the session
// closes mid-flight.
func (r *Registry) FailAll(err error) {
	r.mu.Lock()
	entries := r.pending
	r.pending = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range entries {
		e.ch <- settlement{err: err}
	}
}

// discard removes a pending call without notifying the waiter. Reports the
// creation time and whether the entry was still present.
func (r *Registry) discard(id string) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.pending[id]
	if !ok {
		return time.Time{}, false
	}
	delete(r.pending, id)
	return e.createdAt, true
}

// Pending returns the number of outstanding calls.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Dropped returns how many replies were dropped for unknown or
// already-settled correlation ids.
func (r *Registry) Dropped() int64 {
	return r.dropped.Load()
}
