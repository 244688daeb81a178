// Package journal records completed RPC calls for audit and diagnostics.
package journal

import (
	"context"
	"time"
)

// CallRecord describes one settled call.
type CallRecord struct {
	CorrelationID string
	Service       string
	Method        string
	Success       bool
	// ExceptionPath is the dotted remote exception path, empty on success
	// and for local failures.
	ExceptionPath string
	Duration      time.Duration
	StartedAt     time.Time
}

// Recorder is the interface for persisting call records. Recording is
// best-effort; a failing recorder never fails the call itself.
type Recorder interface {
	RecordCall(ctx context.Context, rec *CallRecord) error
}

// NoOpRecorder is a Recorder that does nothing (sessions without a journal).
type NoOpRecorder struct{}

// RecordCall is a no-op.
func (r *NoOpRecorder) RecordCall(_ context.Context, _ *CallRecord) error {
	return nil
}

// CallbackRecorder is a Recorder that calls a callback function (for testing).
type CallbackRecorder struct {
	callback func(ctx context.Context, rec *CallRecord) error
}

// NewCallbackRecorder creates a new CallbackRecorder.
func NewCallbackRecorder(cb func(ctx context.Context, rec *CallRecord) error) *CallbackRecorder {
	return &CallbackRecorder{callback: cb}
}

// RecordCall calls the callback.
func (r *CallbackRecorder) RecordCall(ctx context.Context, rec *CallRecord) error {
	return r.callback(ctx, rec)
}
