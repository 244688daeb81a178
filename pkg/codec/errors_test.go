package codec

import (
	"reflect"
	"testing"
)

func TestWireError_ToRemoteError(t *testing.T) {
	tests := []struct {
		name string
		wire *wireError
		want *RemoteError
	}{
		{
			name: "fully specified",
			wire: &wireError{
				Message:       "custom exception",
				Args:          []string{"custom exception"},
				ExceptionType: "CustomException",
				ExceptionPath: "service.CustomException",
			},
			want: &RemoteError{
				Message:       "custom exception",
				Args:          []string{"custom exception"},
				ExceptionType: "CustomException",
				ExceptionPath: "service.CustomException",
			},
		},
		{
			name: "no custom fields falls back to generic path",
			wire: &wireError{Message: "boom"},
			want: &RemoteError{
				Message:       "boom",
				Args:          []string{"boom"},
				ExceptionType: "Exception",
				ExceptionPath: "builtins.Exception",
			},
		},
		{
			name: "type derived from path",
			wire: &wireError{Message: "denied", ExceptionPath: "service.auth.Unauthorized"},
			want: &RemoteError{
				Message:       "denied",
				Args:          []string{"denied"},
				ExceptionType: "Unauthorized",
				ExceptionPath: "service.auth.Unauthorized",
			},
		},
		{
			name: "multiple constructor args preserved in order",
			wire: &wireError{
				Message:       "bad value",
				Args:          []string{"bad value", "field", "42"},
				ExceptionPath: "service.ValidationError",
			},
			want: &RemoteError{
				Message:       "bad value",
				Args:          []string{"bad value", "field", "42"},
				ExceptionType: "ValidationError",
				ExceptionPath: "service.ValidationError",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.wire.toRemoteError()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("codec:errors_test - toRemoteError() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRemoteError_Error(t *testing.T) {
	err := &RemoteError{Message: "custom exception"}
	if err.Error() != "custom exception" {
		t.Errorf("codec:errors_test - Error() = %q, want %q", err.Error(), "custom exception")
	}
}
