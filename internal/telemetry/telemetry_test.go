package telemetry

import (
	"context"
	"testing"
)

func TestInitTelemetry(t *testing.T) {
	// Test with empty endpoint (should not fail, just no telemetry)
	shutdown, err := InitTelemetry(context.Background(), "test-service", "v1.0.0", "test", "", nil)
	if err != nil {
		t.Fatalf("InitTelemetry failed: %v", err)
	}
	if shutdown != nil {
		defer shutdown(context.Background())
	}
}

func TestTracer(t *testing.T) {
	tracer := Tracer("test-tracer")
	if tracer == nil {
		t.Fatal("Tracer returned nil")
	}
}

func TestMiddleware(t *testing.T) {
	mw := Middleware()
	if mw == nil {
		t.Fatal("Middleware returned nil")
	}
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		raw  string
		want Endpoint
	}{
		{
			raw:  "http://localhost:4318",
			want: Endpoint{Host: "localhost:4318", TracePath: "/v1/traces", LogPath: "/v1/logs", Insecure: true},
		},
		{
			raw:  "https://otlp-gateway.grafana.net/otlp",
			want: Endpoint{Host: "otlp-gateway.grafana.net", TracePath: "/otlp/v1/traces", LogPath: "/otlp/v1/logs"},
		},
		{
			raw:  "https://collector.example.com/custom/v1/traces",
			want: Endpoint{Host: "collector.example.com", TracePath: "/custom/v1/traces", LogPath: "/custom/v1/logs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseEndpoint(tt.raw); got != tt.want {
				t.Errorf("ParseEndpoint(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders("Authorization=Basic abc, x-scope = tenant ,broken")
	if len(got) != 2 {
		t.Fatalf("expected 2 headers, got %v", got)
	}
	if got["Authorization"] != "Basic abc" || got["x-scope"] != "tenant" {
		t.Errorf("unexpected headers: %v", got)
	}
}
