// Package fixture serves performance records from a local JSON file, for
// offline development and demos without a data.gov.in key.
package fixture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/EmpoweredVote/EV-Performance/internal/performance/normalize"
	"github.com/EmpoweredVote/EV-Performance/internal/performance/provider"
)

const (
	name         = "fixture"
	defaultLimit = 100
)

// FixtureProvider implements provider.Source over a JSON file. The file holds
// either a data.gov.in style document or a bare array of entries.
type FixtureProvider struct {
	path       string
	normalizer *normalize.Normalizer
}

// Ensure FixtureProvider implements Source.
var _ provider.Source = (*FixtureProvider)(nil)

func init() {
	provider.RegisterProvider(provider.ProviderFixture, func(cfg provider.Config) (provider.Source, error) {
		return NewProvider(cfg.FixturePath)
	})
}

// NewProvider creates a FixtureProvider reading path on every fetch.
func NewProvider(path string) (*FixtureProvider, error) {
	n, err := normalize.New()
	if err != nil {
		return nil, err
	}
	return &FixtureProvider{path: path, normalizer: n}, nil
}

// Name returns the provider name.
func (p *FixtureProvider) Name() string {
	return name
}

// Fetch loads the fixture and applies filters locally, case-insensitively.
func (p *FixtureProvider) Fetch(ctx context.Context, f provider.Filters) (provider.RawPayload, error) {
	if err := ctx.Err(); err != nil {
		return nil, provider.NewFetchError(provider.KindTransientFetch, "fixture fetch", err)
	}
	start := time.Now()
	provider.LogRequest(name, "READ", p.path, nil)

	doc, err := p.load()
	if err != nil {
		return nil, err
	}
	key, entries, err := p.normalizer.Entries(doc)
	if err != nil {
		return nil, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	matched := make([]any, 0, len(entries))
	for _, e := range entries {
		if len(matched) >= limit {
			break
		}
		obj, ok := e.(map[string]any)
		if !ok || !p.matches(obj, f) {
			continue
		}
		matched = append(matched, obj)
	}

	provider.LogResponse(name, 200, time.Since(start), len(matched))
	return provider.RawPayload{
		key:     matched,
		"total": len(matched),
		"count": len(matched),
		"limit": limit,
	}, nil
}

// HealthCheck verifies the fixture file is readable and well formed.
func (p *FixtureProvider) HealthCheck(ctx context.Context) error {
	doc, err := p.load()
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if _, _, err := p.normalizer.Entries(doc); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

func (p *FixtureProvider) load() (provider.RawPayload, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, provider.NewFetchError(provider.KindTransientFetch, "fixture read", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, provider.NewFetchError(provider.KindEmptyResponse, "fixture read", nil)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if data[0] == '[' {
		var entries []any
		if err := dec.Decode(&entries); err != nil {
			return nil, provider.NewFetchError(provider.KindMalformedPayload, "fixture decode", err)
		}
		return provider.RawPayload{"records": entries}, nil
	}

	var doc provider.RawPayload
	if err := dec.Decode(&doc); err != nil {
		return nil, provider.NewFetchError(provider.KindMalformedPayload, "fixture decode", err)
	}
	return doc, nil
}

func (p *FixtureProvider) matches(entry map[string]any, f provider.Filters) bool {
	return p.fieldMatches(entry, normalize.FieldStateName, f.State) &&
		p.fieldMatches(entry, normalize.FieldDistrictName, f.District) &&
		p.fieldMatches(entry, normalize.FieldMonth, f.Month) &&
		p.fieldMatches(entry, normalize.FieldFinYear, f.FinYear)
}

func (p *FixtureProvider) fieldMatches(entry map[string]any, field, want string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return true
	}
	got, ok := p.normalizer.Lookup(entry, field)
	return ok && strings.EqualFold(got, want)
}
