package datagov

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmpoweredVote/EV-Performance/internal/performance/provider"
)

const testResource = "ee03643a-ee4c-48c2-ac30-9f2ff26ab722"

func newTestClient(baseURL string) *Client {
	return NewClient("secret-key", baseURL, 3, time.Millisecond, 2*time.Second)
}

func TestBuildURL(t *testing.T) {
	c := newTestClient("https://api.data.gov.in/resource/")

	raw := c.BuildURL(testResource, provider.Filters{
		State:    "Uttar Pradesh",
		District: " Lucknow ",
		FinYear:  "2024-2025",
	})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/resource/"+testResource, u.Path)

	q := u.Query()
	assert.Equal(t, "secret-key", q.Get("api-key"))
	assert.Equal(t, "json", q.Get("format"))
	assert.Equal(t, "100", q.Get("limit"), "default limit")
	assert.Equal(t, "Uttar Pradesh", q.Get("filters[state_name]"))
	assert.Equal(t, "Lucknow", q.Get("filters[district_name]"))
	assert.Equal(t, "2024-2025", q.Get("filters[fin_year]"))
	_, hasMonth := q["filters[month]"]
	assert.False(t, hasMonth, "blank filters are omitted")
	assert.Contains(t, raw, "filters%5Bstate_name%5D")
}

func TestFetchMissingCredentialSkipsNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c := NewClient("", srv.URL, 3, time.Millisecond, time.Second)
	_, err := c.Fetch(context.Background(), testResource, provider.Filters{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, provider.ErrMissingCredential))
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total": 1, "records": [{"state_name": "Bihar", "district_name": "Patna"}]}`))
	}))
	defer srv.Close()

	payload, err := newTestClient(srv.URL).Fetch(context.Background(), testResource, provider.Filters{State: "Bihar"})

	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	records, ok := payload["records"].([]any)
	require.True(t, ok)
	assert.Len(t, records, 1)
}

func TestFetchExhaustsRetries(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), testResource, provider.Filters{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, provider.ErrTransientFetch))
	assert.Equal(t, int32(4), atomic.LoadInt32(&hits), "first attempt plus 3 retries")

	var fe *provider.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 4, fe.Attempts)
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestFetchClassifiesBodies(t *testing.T) {
	testCases := []struct {
		name string
		body string
		want error
	}{
		{name: "empty_body", body: "  ", want: provider.ErrEmptyResponse},
		{name: "not_json", body: "<html>maintenance</html>", want: provider.ErrMalformedPayload},
		{name: "json_array", body: `[1,2,3]`, want: provider.ErrMalformedPayload},
		{name: "error_field", body: `{"error": "Invalid API key"}`, want: provider.ErrUpstreamError},
		{name: "status_error", body: `{"status": "error", "message": "quota"}`, want: provider.ErrUpstreamError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var hits int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&hits, 1)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Fetch(context.Background(), testResource, provider.Filters{})

			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "bodies from a 2xx are not retried")
		})
	}
}

func TestFetchStopsOnContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient("secret-key", srv.URL, 5, time.Hour, time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Fetch(ctx, testResource, provider.Filters{})

	require.Error(t, err)
	assert.Equal(t, provider.KindTransientFetch, provider.KindOf(err))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRedactHidesKey(t *testing.T) {
	c := NewClient("k+y/secret", "https://example.test", 0, 0, time.Second)
	redacted := c.redact(c.BuildURL(testResource, provider.Filters{}))

	assert.NotContains(t, redacted, url.QueryEscape("k+y/secret"))
	assert.NotContains(t, redacted, "k+y/secret")
	assert.True(t, strings.Contains(redacted, "api-key=***("))
}
