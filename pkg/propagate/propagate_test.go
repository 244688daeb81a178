package propagate

import (
	"context"
	"testing"

	"github.com/morezero/service-rpc/pkg/commsutil"
)

const testTraceparent = "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01"

func TestBuildOutboundHeaders_WorkerContext(t *testing.T) {
	wctx := WorkerContext{
		KeyAuthorization: "testAuthorization",
		KeyLanguage:      "en-us",
		KeyLocale:        "en-us",
	}

	headers := BuildOutboundHeaders(wctx, nil)

	for key, want := range wctx {
		if got := headers.Get(key); got != want {
			t.Errorf("propagate:propagate_test - header %s = %q, want %q", key, got, want)
		}
	}
	if headers.Get(HeaderTraceparent) != "" {
		t.Error("propagate:propagate_test - traceparent must be absent without an active trace")
	}
}

func TestBuildOutboundHeaders_Traceparent(t *testing.T) {
	tests := []struct {
		name string
		tc   *TraceContext
		want string
	}{
		{
			name: "active trace attaches header",
			tc:   &TraceContext{Traceparent: testTraceparent},
			want: testTraceparent,
		},
		{
			name: "nil trace attaches nothing",
			tc:   nil,
			want: "",
		},
		{
			name: "empty traceparent attaches nothing",
			tc:   &TraceContext{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := BuildOutboundHeaders(WorkerContext{}, tt.tc)
			if got := headers.Get(HeaderTraceparent); got != tt.want {
				t.Errorf("propagate:propagate_test - traceparent = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWorkerContext_CloneIsIndependent(t *testing.T) {
	source := WorkerContext{KeyAuthorization: "original"}
	snapshot := source.Clone()

	source[KeyAuthorization] = "mutated"
	source[KeyLanguage] = "de-de"

	if snapshot[KeyAuthorization] != "original" {
		t.Errorf("propagate:propagate_test - snapshot followed source mutation: %v", snapshot)
	}
	if _, ok := snapshot[KeyLanguage]; ok {
		t.Error("propagate:propagate_test - snapshot grew a key added after Clone")
	}
}

func TestParseTraceparent(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid", value: testTraceparent},
		{name: "uppercase hex rejected", value: "00-0AF7651916CD43DD8448EB211C80319C-B7AD6B7169203331-01", wantErr: true},
		{name: "missing segment", value: "00-0af7651916cd43dd8448eb211c80319c-01", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, err := ParseTraceparent(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatal("propagate:trace_test - expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("propagate:trace_test - unexpected error: %v", err)
			}
			if tc.Traceparent != tt.value {
				t.Errorf("propagate:trace_test - Traceparent = %q, want %q", tc.Traceparent, tt.value)
			}
		})
	}
}

func TestExtractInboundTrace(t *testing.T) {
	headers := commsutil.Headers{}
	if _, ok := ExtractInboundTrace(headers); ok {
		t.Error("propagate:trace_test - extracted trace from empty headers")
	}

	headers.Set(HeaderTraceparent, "garbage")
	if _, ok := ExtractInboundTrace(headers); ok {
		t.Error("propagate:trace_test - extracted invalid traceparent")
	}

	headers.Set(HeaderTraceparent, testTraceparent)
	tc, ok := ExtractInboundTrace(headers)
	if !ok || tc.Traceparent != testTraceparent {
		t.Errorf("propagate:trace_test - ExtractInboundTrace = %v, %v", tc, ok)
	}
}

func TestTraceFromContext(t *testing.T) {
	ctx := context.Background()
	if TraceFromContext(ctx) != nil {
		t.Error("propagate:trace_test - expected nil trace on bare context")
	}

	tc := &TraceContext{Traceparent: testTraceparent}
	ctx = ContextWithTrace(ctx, tc)
	if got := TraceFromContext(ctx); got != tc {
		t.Errorf("propagate:trace_test - TraceFromContext = %v, want %v", got, tc)
	}
}
