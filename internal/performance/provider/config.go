package provider

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ProviderType identifies which data source to use.
type ProviderType string

const (
	ProviderDataGov ProviderType = "datagov"
	ProviderFixture ProviderType = "fixture"
)

// Defaults mirror the data.gov.in MGNREGA district resource.
const (
	DefaultBaseURL     = "https://api.data.gov.in/resource"
	DefaultResourceID  = "ee03643a-ee4c-48c2-ac30-9f2ff26ab722"
	DefaultMaxRetries  = 3
	DefaultBackoffBase = 2 * time.Second
	DefaultTimeout     = 30 * time.Second
	DefaultCacheTTL    = 15 * time.Minute
	DefaultRateWindow  = time.Minute
	DefaultRateLimit   = 10
)

// Config holds configuration for the performance data pipeline.
type Config struct {
	// Provider type: "datagov" or "fixture"
	Provider ProviderType `validate:"oneof=datagov fixture"`

	// data.gov.in config. APIKey may be empty: a missing key is reported per
	// fetch so cached and stored data can still be served.
	APIKey      string
	BaseURL     string        `validate:"required,url"`
	ResourceID  string        `validate:"required"`
	MaxRetries  int           `validate:"min=0,max=10"`
	BackoffBase time.Duration `validate:"min=0s"`
	Timeout     time.Duration `validate:"gt=0s"`

	// Pipeline config
	CacheTTL     time.Duration `validate:"gt=0s"`
	RateWindow   time.Duration `validate:"gt=0s"`
	RateCapacity int           `validate:"min=1"`
	UseDatabase  bool

	// Fixture-specific config
	FixturePath string `validate:"required_if=Provider fixture"`
}

var validate = validator.New()

// LoadFromEnv loads pipeline configuration from environment variables.
//
// Environment variables:
//   - PERFORMANCE_PROVIDER: "datagov" or "fixture" (default: "datagov")
//   - DATAGOV_API_KEY: API key for data.gov.in
//   - DATAGOV_BASE_URL: resource endpoint (default: https://api.data.gov.in/resource)
//   - DATAGOV_RESOURCE_ID: MGNREGA district resource id
//   - DATAGOV_MAX_RETRIES: retries after the first attempt (default: 3)
//   - DATAGOV_BACKOFF_BASE_MS: first backoff delay (default: 2000)
//   - DATAGOV_TIMEOUT_SECONDS: per-attempt HTTP timeout (default: 30)
//   - CACHE_TTL_SECONDS: response cache TTL (default: 900)
//   - RATE_LIMIT_WINDOW_SECONDS / RATE_LIMIT_CAPACITY: upstream admission (default: 60 / 10)
//   - USE_DATABASE: persist and serve from the local store (default: true)
//   - FIXTURE_PATH: JSON file served by the fixture provider
func LoadFromEnv() Config {
	var p ProviderType
	switch strings.ToLower(strings.TrimSpace(os.Getenv("PERFORMANCE_PROVIDER"))) {
	case "fixture":
		p = ProviderFixture
	default:
		p = ProviderDataGov
	}

	return Config{
		Provider:     p,
		APIKey:       strings.TrimSpace(os.Getenv("DATAGOV_API_KEY")),
		BaseURL:      strings.TrimRight(getenv("DATAGOV_BASE_URL", DefaultBaseURL), "/"),
		ResourceID:   getenv("DATAGOV_RESOURCE_ID", DefaultResourceID),
		MaxRetries:   getenvInt("DATAGOV_MAX_RETRIES", DefaultMaxRetries),
		BackoffBase:  time.Duration(getenvInt("DATAGOV_BACKOFF_BASE_MS", int(DefaultBackoffBase/time.Millisecond))) * time.Millisecond,
		Timeout:      time.Duration(getenvInt("DATAGOV_TIMEOUT_SECONDS", int(DefaultTimeout/time.Second))) * time.Second,
		CacheTTL:     time.Duration(getenvInt("CACHE_TTL_SECONDS", int(DefaultCacheTTL/time.Second))) * time.Second,
		RateWindow:   time.Duration(getenvInt("RATE_LIMIT_WINDOW_SECONDS", int(DefaultRateWindow/time.Second))) * time.Second,
		RateCapacity: getenvInt("RATE_LIMIT_CAPACITY", DefaultRateLimit),
		UseDatabase:  getenvBool("USE_DATABASE", true),
		FixturePath:  os.Getenv("FIXTURE_PATH"),
	}
}

// Validate checks that the configuration is structurally valid.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
