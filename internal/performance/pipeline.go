package performance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/EmpoweredVote/EV-Performance/internal/performance/cache"
	"github.com/EmpoweredVote/EV-Performance/internal/performance/fallback"
	"github.com/EmpoweredVote/EV-Performance/internal/performance/metrics"
	"github.com/EmpoweredVote/EV-Performance/internal/performance/normalize"
	"github.com/EmpoweredVote/EV-Performance/internal/performance/provider"
)

// Source tags where a Result came from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceStore    Source = "store"
	SourceUpstream Source = "upstream"
)

// storeFallbackLimit bounds rows served from the store when the upstream
// cannot be reached.
const storeFallbackLimit = 100

// Result is what GetOrFetch returns.
type Result struct {
	Records   []provider.CanonicalRecord `json:"records"`
	Raw       json.RawMessage            `json:"-"`
	Source    Source                     `json:"source"`
	Stage     fallback.Stage             `json:"stage,omitempty"`
	Broadened bool                       `json:"broadened"`
	Narrowed  bool                       `json:"narrowed,omitempty"`
	Rejected  int                        `json:"rejected"`
	Note      string                     `json:"note,omitempty"`
}

// PipelineConfig wires a Pipeline. Store may be nil to run without a local
// store.
type PipelineConfig struct {
	Fetcher    Fetcher
	Store      Store
	Limiter    Limiter
	Normalizer *normalize.Normalizer
	Cache      *cache.Cache[string, Result]
	CacheTTL   time.Duration
	// LimitKey is the limiter key shared by every upstream call.
	LimitKey string
}

// Pipeline serves queries from cache, store or upstream, in that order.
type Pipeline struct {
	fetcher    Fetcher
	store      Store
	limiter    Limiter
	normalizer *normalize.Normalizer
	resolver   *fallback.Resolver
	cache      *cache.Cache[string, Result]
	ttl        time.Duration
	limitKey   string
}

// NewPipeline builds a Pipeline.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	c := cfg.Cache
	if c == nil {
		c = cache.New[string, Result]()
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = provider.DefaultCacheTTL
	}
	return &Pipeline{
		fetcher:    cfg.Fetcher,
		store:      cfg.Store,
		limiter:    cfg.Limiter,
		normalizer: cfg.Normalizer,
		resolver:   fallback.NewResolver(cfg.Fetcher.Fetch, cfg.Normalizer),
		cache:      c,
		ttl:        ttl,
		limitKey:   cfg.LimitKey,
	}
}

// GetOrFetch answers q. Degraded answers (stored rows standing in for a
// failed upstream call) carry a Note; errors are returned only when no data
// can be served at all.
func (p *Pipeline) GetOrFetch(ctx context.Context, q Query) (Result, error) {
	if err := q.Validate(); err != nil {
		return Result{}, err
	}
	key := Fingerprint(q)
	f := q.Filters()
	scoped := f.HasState() && f.HasDistrict()

	if res, ok := p.cache.Get(key); ok {
		metrics.Requests.WithLabelValues(string(SourceCache)).Inc()
		res.Source = SourceCache
		return res, nil
	}

	if p.store != nil && scoped {
		recs, err := p.store.FindByDistrict(ctx, f.State, f.District, f.Limit)
		if err != nil {
			log.Printf("[pipeline] store lookup failed for %s: %v", key, err)
		} else if len(recs) > 0 {
			metrics.Requests.WithLabelValues(string(SourceStore)).Inc()
			return Result{Records: recs, Source: SourceStore}, nil
		}
	}

	if !p.limiter.Allow(p.limitKey) {
		metrics.RateLimited.Inc()
		if res, ok := p.fromStore(ctx, f, "rate limited: serving stored data"); ok {
			return res, nil
		}
		metrics.Requests.WithLabelValues("rate_limited").Inc()
		return Result{}, ErrRateLimited
	}

	out, err := p.fetch(ctx, f, scoped)
	if err != nil {
		return p.degrade(ctx, f, key, err)
	}

	batch, err := p.normalizer.NormalizeBatch(out.Payload)
	if err != nil {
		return p.degrade(ctx, f, key, err)
	}
	for i := range batch.Records {
		batch.Records[i].Source = p.fetcher.Name()
	}

	if len(batch.Records) == 0 {
		if res, ok := p.fromStore(ctx, f, "upstream returned no rows: serving stored data"); ok {
			return res, nil
		}
		metrics.Requests.WithLabelValues("no_data").Inc()
		return Result{Stage: out.Stage, Broadened: out.Broadened, Rejected: batch.Rejected}, ErrNoData
	}

	p.persist(ctx, key, f, out, batch)

	raw, err := json.Marshal(out.Payload)
	if err != nil {
		log.Printf("[pipeline] encode raw payload for %s: %v", key, err)
	}

	res := Result{
		Records:   batch.Records,
		Raw:       raw,
		Source:    SourceUpstream,
		Stage:     out.Stage,
		Broadened: out.Broadened,
		Narrowed:  out.Narrowed,
		Rejected:  batch.Rejected,
	}
	if out.Broadened {
		res.Note = fmt.Sprintf("no exact match; results widened to %s", out.Stage)
	}
	p.cache.Put(key, res, p.ttl)

	metrics.Requests.WithLabelValues(string(SourceUpstream)).Inc()
	return res, nil
}

// Invalidate drops the cached answer for q so the next call refetches.
func (p *Pipeline) Invalidate(q Query) {
	p.cache.Invalidate(Fingerprint(q))
}

// fetch runs state+district queries through the fallback stages; anything
// broader is fetched once as given.
func (p *Pipeline) fetch(ctx context.Context, f provider.Filters, scoped bool) (fallback.Outcome, error) {
	if scoped {
		return p.resolver.Resolve(ctx, f)
	}
	payload, err := p.fetcher.Fetch(ctx, f)
	if provider.KindOf(err) == provider.KindEmptyResponse {
		return fallback.Outcome{Payload: provider.RawPayload{"records": []any{}}, Stage: fallback.StageScoped}, nil
	}
	if err != nil {
		return fallback.Outcome{}, err
	}
	return fallback.Outcome{Payload: payload, Stage: fallback.StageScoped}, nil
}

func (p *Pipeline) persist(ctx context.Context, key string, f provider.Filters, out fallback.Outcome, batch normalize.Batch) {
	if p.store == nil {
		return
	}
	run := &IngestionRun{
		Fingerprint: key,
		Filters:     filtersJSON(f),
		Source:      p.fetcher.Name(),
		Stage:       string(out.Stage),
		Fetched:     len(batch.Records) + batch.Rejected,
		Rejected:    batch.Rejected,
	}
	if err := p.store.SaveBatch(ctx, run, batch.Records); err != nil {
		log.Printf("[pipeline] persist %d records for %s failed: %v", len(batch.Records), key, err)
	}
}

// degrade serves stored rows in place of a failed fetch, or returns the
// fetch error when there are none.
func (p *Pipeline) degrade(ctx context.Context, f provider.Filters, key string, fetchErr error) (Result, error) {
	kind := provider.KindOf(fetchErr)
	if kind == "" {
		kind = "error"
	}
	provider.LogError("pipeline", key, fetchErr)

	if res, ok := p.fromStore(ctx, f, fmt.Sprintf("upstream %s: serving stored data", kind)); ok {
		return res, nil
	}
	metrics.Requests.WithLabelValues(string(kind)).Inc()

	var fe *provider.FetchError
	if errors.As(fetchErr, &fe) {
		return Result{}, fetchErr
	}
	return Result{}, provider.NewFetchError(provider.KindTransientFetch, "pipeline", fetchErr)
}

// fromStore looks up the district, then the whole state.
func (p *Pipeline) fromStore(ctx context.Context, f provider.Filters, note string) (Result, bool) {
	if p.store == nil || !f.HasState() {
		return Result{}, false
	}

	var recs []provider.CanonicalRecord
	var err error
	if f.HasDistrict() {
		recs, err = p.store.FindByDistrict(ctx, f.State, f.District, storeFallbackLimit)
	}
	if err == nil && len(recs) == 0 {
		recs, err = p.store.FindByState(ctx, f.State, storeFallbackLimit)
	}
	if err != nil {
		log.Printf("[pipeline] store fallback failed: %v", err)
		return Result{}, false
	}
	if len(recs) == 0 {
		return Result{}, false
	}

	log.Printf("[pipeline] %s (%d records)", note, len(recs))
	metrics.Requests.WithLabelValues(string(SourceStore)).Inc()
	return Result{Records: recs, Source: SourceStore, Note: note}, true
}

func filtersJSON(f provider.Filters) map[string]any {
	return map[string]any{
		"state_name":    f.State,
		"district_name": f.District,
		"month":         f.Month,
		"fin_year":      f.FinYear,
		"limit":         f.Limit,
	}
}
