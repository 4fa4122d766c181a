package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAllowedOriginsFromEnv(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example/ ,https://b.example,, ")

	got := AllowedOrigins()

	assert.Len(t, got, 2)
	assert.Contains(t, got, "https://a.example")
	assert.Contains(t, got, "https://b.example")
}

func TestAllowedOriginsDefault(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	assert.Contains(t, AllowedOrigins(), "http://localhost:5173")
}

func TestCORS(t *testing.T) {
	h := CORS(map[string]struct{}{"https://ok.example": {}})(okHandler())

	testCases := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{"allowed_origin", http.MethodGet, "https://ok.example", http.StatusOK, "https://ok.example"},
		{"unknown_origin", http.MethodGet, "https://evil.example", http.StatusOK, ""},
		{"preflight", http.MethodOptions, "https://ok.example", http.StatusNoContent, "https://ok.example"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/performance", nil)
			req.Header.Set("Origin", tc.origin)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantAllow, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "X-Data-Source")
		})
	}
}

func TestCORSWildcard(t *testing.T) {
	h := CORS(map[string]struct{}{"*": {}})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://any.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://any.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestClientLimiterPerIP(t *testing.T) {
	l := NewClientLimiter(1, 2)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	h := l.Handler(okHandler())

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"), "burst exhausted")
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1000"), "other clients unaffected")

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1003"), "token refilled")
}

func TestClientLimiterSweep(t *testing.T) {
	l := NewClientLimiter(1, 1)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.allow("a")
	now = now.Add(5 * time.Minute)
	l.allow("b")
	now = now.Add(6 * time.Minute)

	assert.Equal(t, 1, l.Sweep())
	assert.Len(t, l.clients, 1)
}

func TestClientLimiterFromEnv(t *testing.T) {
	t.Setenv("CLIENT_RPS", "")
	assert.Nil(t, ClientLimiterFromEnv())

	t.Setenv("CLIENT_RPS", "5")
	t.Setenv("CLIENT_BURST", "")
	l := ClientLimiterFromEnv()
	require.NotNil(t, l)
	assert.Equal(t, 6, l.burst)
}
