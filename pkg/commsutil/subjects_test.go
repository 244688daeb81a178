package commsutil

import "testing"

func TestBuildCallSubject(t *testing.T) {
	tests := []struct {
		name    string
		service string
		method  string
		major   int
		want    string
	}{
		{
			name:    "simple",
			service: "orders",
			method:  "create",
			major:   2,
			want:    "rpc.orders.v2.create",
		},
		{
			name:    "dotted service name is normalized",
			service: "billing.invoices",
			method:  "get",
			major:   1,
			want:    "rpc.billing_invoices.v1.get",
		},
		{
			name:    "major zero",
			service: "echo",
			method:  "ping",
			major:   0,
			want:    "rpc.echo.v0.ping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildCallSubject(tt.service, tt.method, tt.major)
			if got != tt.want {
				t.Errorf("commsutil:subjects_test - BuildCallSubject() = %q, want %q", got, tt.want)
			}
		})
	}
}
