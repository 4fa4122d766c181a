package datagov

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/EmpoweredVote/EV-Performance/internal/performance/metrics"
	"github.com/EmpoweredVote/EV-Performance/internal/performance/provider"
)

const (
	// DefaultLimit is the row limit sent when the caller does not set one.
	DefaultLimit = 100

	name = "datagov"
)

// Client is an HTTP client for the data.gov.in resource API.
type Client struct {
	apiKey      string
	baseURL     string
	maxRetries  int
	backoffBase time.Duration
	httpClient  *http.Client
}

// NewClient creates a new data.gov.in API client.
func NewClient(apiKey, baseURL string, maxRetries int, backoffBase, timeout time.Duration) *Client {
	return &Client{
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BuildURL returns the request URL for resourceID with the given filters.
// The URL embeds the API key and must be passed through provider.Redact
// before it is logged.
func (c *Client) BuildURL(resourceID string, f provider.Filters) string {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	params := url.Values{}
	params.Set("api-key", c.apiKey)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))
	setFilter(params, "state_name", f.State)
	setFilter(params, "district_name", f.District)
	setFilter(params, "month", f.Month)
	setFilter(params, "fin_year", f.FinYear)

	return fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(resourceID), params.Encode())
}

func setFilter(params url.Values, field, value string) {
	if v := strings.TrimSpace(value); v != "" {
		params.Set("filters["+field+"]", v)
	}
}

// Fetch retrieves one page of resourceID. Transport errors, timeouts and
// non-2xx statuses are retried with exponential backoff; every failure is
// returned as a *provider.FetchError.
func (c *Client) Fetch(ctx context.Context, resourceID string, f provider.Filters) (provider.RawPayload, error) {
	if c.apiKey == "" {
		provider.LogError(name, "fetch", provider.ErrMissingCredential)
		return nil, provider.NewFetchError(provider.KindMissingCredential, "datagov fetch", nil)
	}

	fullURL := c.BuildURL(resourceID, f)
	provider.LogRequest(name, http.MethodGet, c.redact(fullURL), nil)

	start := time.Now()
	defer func() {
		metrics.UpstreamDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	maxAttempts := c.maxRetries + 1
	delay := c.backoffBase

	var body []byte
	var lastErr error
	attempt := 1
	for ; attempt <= maxAttempts; attempt++ {
		body, lastErr = c.get(ctx, fullURL)
		if lastErr == nil {
			metrics.UpstreamAttempts.WithLabelValues(name, "ok").Inc()
			break
		}
		metrics.UpstreamAttempts.WithLabelValues(name, "error").Inc()

		if ctx.Err() != nil || attempt == maxAttempts {
			break
		}
		provider.LogRetry(name, attempt, maxAttempts, delay, lastErr)
		if err := sleep(ctx, delay); err != nil {
			lastErr = err
			break
		}
		delay *= 2
	}

	if lastErr != nil {
		provider.LogError(name, "fetch", fmt.Errorf("giving up after %d attempts: %w", attempt, lastErr))
		fe := provider.NewFetchError(provider.KindTransientFetch, "datagov fetch", lastErr)
		fe.Attempts = attempt
		return nil, fe
	}

	return decodePayload(body)
}

// get performs a single attempt and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error repeats the URL, which carries the key.
		return nil, errors.New(c.redact(fmt.Sprintf("datagov request: %v", err)))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	provider.LogResponse(name, resp.StatusCode, time.Since(start), len(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("datagov status %d", resp.StatusCode)
	}
	return body, nil
}

// decodePayload classifies a successful body: empty, not a JSON object, an
// upstream error document, or a usable payload.
func decodePayload(body []byte) (provider.RawPayload, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, provider.NewFetchError(provider.KindEmptyResponse, "datagov decode", nil)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload provider.RawPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, provider.NewFetchError(provider.KindMalformedPayload, "datagov decode", err)
	}
	if payload == nil {
		return nil, provider.NewFetchError(provider.KindEmptyResponse, "datagov decode", nil)
	}

	if msg, ok := upstreamError(payload); ok {
		return nil, provider.NewFetchError(provider.KindUpstreamError, "datagov response", errors.New(msg))
	}
	return payload, nil
}

// upstreamError detects an error document returned with a 2xx status.
func upstreamError(p provider.RawPayload) (string, bool) {
	if v, ok := p["error"]; ok && v != nil {
		return fmt.Sprint(v), true
	}
	if s, ok := p["status"].(string); ok && strings.EqualFold(s, "error") {
		if m, ok := p["message"]; ok {
			return fmt.Sprint(m), true
		}
		return "status=error", true
	}
	return "", false
}

// HealthCheck verifies the API key is accepted with a one-row request.
func (c *Client) HealthCheck(ctx context.Context, resourceID string) error {
	if c.apiKey == "" {
		return provider.NewFetchError(provider.KindMissingCredential, "datagov health", nil)
	}
	_, err := c.get(ctx, c.BuildURL(resourceID, provider.Filters{Limit: 1}))
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

func (c *Client) redact(s string) string {
	s = provider.Redact(s, url.QueryEscape(c.apiKey))
	return provider.Redact(s, c.apiKey)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
