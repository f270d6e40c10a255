package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/core/service"
	"github.com/yndnr/teataster-go/internal/server/httpserver/handler"
	"github.com/yndnr/teataster-go/internal/telemetry/logger"
	"github.com/yndnr/teataster-go/internal/telemetry/metric"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body handler.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Code
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	Chain(ok, mark("a"), mark("b"), mark("c")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if strings.Join(order, ",") != "a,b,c" {
		t.Errorf("order = %v", order)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestIDFromContext(r.Context())
		if _, ok := r.Context().Value(ContextKeyStartTime).(time.Time); !ok {
			t.Error("expected start time in context")
		}
	}))

	t.Run("generates request ID when not provided", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))

		requestID := rec.Header().Get("X-Request-ID")
		if !strings.HasPrefix(requestID, "req-") {
			t.Errorf("expected request ID to start with 'req-', got %s", requestID)
		}
		if seen != requestID {
			t.Errorf("context id %q != header id %q", seen, requestID)
		}
	})

	t.Run("preserves existing request ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", "existing-id-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if got := rec.Header().Get("X-Request-ID"); got != "existing-id-123" {
			t.Errorf("expected existing-id-123, got %s", got)
		}
	})
}

func TestAuth(t *testing.T) {
	accounts := service.NewAccountService(service.AccountConfig{
		Hash: service.HashParams{Time: 1, MemoryKiB: 64, Threads: 1, KeyLen: 32},
	})
	user, _ := accounts.AddUser(domain.User{FirstName: "Joe", Email: "joe@ionic.io"}, "secret")
	tok, _, err := accounts.Login(context.Background(), "joe@ionic.io", "secret")
	if err != nil {
		t.Fatal(err)
	}

	var got domain.User
	h := Auth(accounts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = handler.UserFromContext(r.Context())
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + tok, http.StatusOK},
		{"no header", "", http.StatusUnauthorized},
		{"unknown token", "Bearer tt_AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + tok, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = domain.User{}
			req := httptest.NewRequest("GET", "/users/current", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if got != user {
					t.Errorf("context user = %+v, want %+v", got, user)
				}
				return
			}
			if code := errorCode(t, rec); code != domain.ErrUnauthenticated.Code {
				t.Errorf("code = %s", code)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(service.NewRateLimiterRegistry(), 2)(ok)

	serve := func(ip string) int {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := serve("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, code)
		}
	}
	if code := serve("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 over the limit, got %d", code)
	}
	if code := serve("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other client should not be limited, got %d", code)
	}
}

func TestRecover(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), Recover(discard), RequestID())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := errorCode(t, rec); code != domain.ErrInternal.Code {
		t.Errorf("code = %s", code)
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		origin     string
		method     string
		wantHeader string
		wantStatus int
	}{
		{"allow all", nil, "http://localhost:8100", "GET", "http://localhost:8100", http.StatusOK},
		{"listed origin", []string{"http://localhost:8100"}, "http://localhost:8100", "GET", "http://localhost:8100", http.StatusOK},
		{"unlisted origin", []string{"http://localhost:8100"}, "http://evil.example", "GET", "", http.StatusOK},
		{"wildcard", []string{"*"}, "http://any.example", "GET", "http://any.example", http.StatusOK},
		{"preflight", nil, "http://localhost:8100", "OPTIONS", "http://localhost:8100", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/tea-categories", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			CORS(tt.allowed)(ok).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantHeader {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantHeader)
			}
		})
	}
}

func TestLatency(t *testing.T) {
	h := Latency(30 * time.Millisecond)(ok)

	start := time.Now()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("expected delay, took %v", elapsed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	Latency(time.Hour)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil).WithContext(ctx))
	if called {
		t.Error("cancelled request should not reach the handler")
	}

	if Latency(0)(ok) == nil {
		t.Error("zero latency must pass through")
	}
}

func TestMetrics(t *testing.T) {
	reg := metric.NewRegistry()
	mux := http.NewServeMux()
	mux.Handle("GET /tea-categories", Metrics(reg)(ok))

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/tea-categories", nil))

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	want := `teataster_http_requests_total{method="GET",route="/tea-categories",status="200"} 1`
	if !strings.Contains(rec.Body.String(), want) {
		t.Errorf("missing %s", want)
	}
}

func TestAccessLog_RecordsUser(t *testing.T) {
	var buf strings.Builder
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setUserID(w, 42)
		w.WriteHeader(http.StatusNotFound)
	}), RequestID(), AccessLog(log), Metrics(metric.NewRegistry()))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/user-tasting-notes/9", nil))

	line := buf.String()
	for _, want := range []string{`"level":"WARN"`, `"status":404`, `"user_id":42`, `"request_id":"req-`} {
		if !strings.Contains(line, want) {
			t.Errorf("access log %s missing %s", line, want)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		header map[string]string
		want   string
	}{
		{"remote addr", "192.0.2.1:1234", nil, "192.0.2.1"},
		{"ipv6", "[::1]:8080", nil, "::1"},
		{"forwarded for", "192.0.2.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "203.0.113.5"},
		{"real ip", "192.0.2.1:1234", map[string]string{"X-Real-IP": "203.0.113.9"}, "203.0.113.9"},
		{"no port", "192.0.2.1", nil, "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
