package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fadegor05/PROD-hack-moscow/internal/auth"
	"github.com/fadegor05/PROD-hack-moscow/internal/models"
)

type ping struct{}

func okHandler(_ context.Context, _ connect.AnyRequest) (connect.AnyResponse, error) {
	return connect.NewResponse(&ping{}), nil
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	user := models.NewUser("+79001112233", "Alice", "", "hash")
	issued, err := jwtManager.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	tests := []struct {
		name     string
		header   string
		wantCode connect.Code
	}{
		{name: "valid bearer token", header: "Bearer " + issued.Value},
		{name: "lowercase scheme", header: "bearer " + issued.Value},
		{name: "missing header", header: "", wantCode: connect.CodeUnauthenticated},
		{name: "wrong scheme", header: "Basic " + issued.Value, wantCode: connect.CodeUnauthenticated},
		{name: "garbage token", header: "Bearer nope", wantCode: connect.CodeUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seenUser, seenPhone string
			next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
				seenUser = GetUserID(ctx)
				seenPhone = GetPhone(ctx)
				return okHandler(ctx, req)
			}

			req := connect.NewRequest(&ping{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}
			_, err := RequireAuth(jwtManager)(next)(context.Background(), req)

			if tt.wantCode != 0 {
				if connect.CodeOf(err) != tt.wantCode {
					t.Fatalf("code = %v, want %v (err %v)", connect.CodeOf(err), tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if seenUser != user.ID || seenPhone != user.Phone {
				t.Errorf("context carried %q/%q, want %q/%q", seenUser, seenPhone, user.ID, user.Phone)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("burst requests should be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("third request should be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("other peers must have their own bucket")
	}

	unlimited := NewRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		if !unlimited.Allow("10.0.0.1") {
			t.Fatalf("request %d limited with limiting disabled", i)
		}
	}
}

func TestPeerKey(t *testing.T) {
	if got := peerKey("127.0.0.1:5555"); got != "127.0.0.1" {
		t.Errorf("peerKey = %q", got)
	}
	if got := peerKey("[::1]:80"); got != "::1" {
		t.Errorf("peerKey = %q", got)
	}
	if got := peerKey("pipe"); got != "pipe" {
		t.Errorf("peerKey = %q", got)
	}
}

func TestMetricsInterceptor(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	failing := func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("missing"))
	}

	interceptor := m.Interceptor()
	for i := 0; i < 2; i++ {
		if _, err := interceptor(okHandler)(context.Background(), connect.NewRequest(&ping{})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	_, _ = interceptor(failing)(context.Background(), connect.NewRequest(&ping{}))

	if got := requestCount(t, reg, "ok"); got != 2 {
		t.Errorf("ok count = %v, want 2", got)
	}
	if got := requestCount(t, reg, "not_found"); got != 1 {
		t.Errorf("not_found count = %v, want 1", got)
	}
}

// requestCount reads splitbill_rpc_requests_total for the given code label.
func requestCount(t *testing.T, reg *prometheus.Registry, code string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "splitbill_rpc_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "code" && label.GetValue() == code {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestLoggingInterceptor(t *testing.T) {
	base := slog.New(slog.NewTextHandler(io.Discard, nil))

	var scoped *slog.Logger
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		scoped = Logger(ctx)
		return okHandler(ctx, req)
	}

	t.Run("generates a request ID", func(t *testing.T) {
		resp, err := LoggingInterceptor(base)(next)(context.Background(), connect.NewRequest(&ping{}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Header().Get(RequestIDHeader) == "" {
			t.Error("response should carry a request ID")
		}
		if scoped == nil || scoped == slog.Default() {
			t.Error("handler should receive a request-scoped logger")
		}
	})

	t.Run("echoes the caller's request ID", func(t *testing.T) {
		req := connect.NewRequest(&ping{})
		req.Header().Set(RequestIDHeader, "abc-123")
		resp, err := LoggingInterceptor(base)(next)(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := resp.Header().Get(RequestIDHeader); got != "abc-123" {
			t.Errorf("request ID = %q, want abc-123", got)
		}
	})

	if a, b := NewRequestID(), NewRequestID(); a == b || a > b {
		t.Errorf("request IDs should be unique and increasing: %s, %s", a, b)
	}
}
