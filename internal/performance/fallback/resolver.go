// Package fallback widens an empty scoped query in fixed stages until the
// upstream returns usable rows.
package fallback

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/EmpoweredVote/EV-Performance/internal/performance/metrics"
	"github.com/EmpoweredVote/EV-Performance/internal/performance/normalize"
	"github.com/EmpoweredVote/EV-Performance/internal/performance/provider"
)

// Stage names a step of the widening sequence.
type Stage string

const (
	StageScoped     Stage = "scoped"
	StageStateOnly  Stage = "state_only"
	StageUnfiltered Stage = "unfiltered"
	StageExhausted  Stage = "exhausted"
)

// Row limits for the widened stages.
const (
	StateOnlyLimit  = 100
	UnfilteredLimit = 500
)

// FetchFunc issues one upstream query.
type FetchFunc func(ctx context.Context, f provider.Filters) (provider.RawPayload, error)

// Outcome is the payload a resolution settled on.
type Outcome struct {
	Payload provider.RawPayload
	Stage   Stage

	// Broadened is set for every stage after Scoped.
	Broadened bool
	// Narrowed is set when unfiltered rows were cut down to the requested state.
	Narrowed bool
	// Entries is the number of usable rows in Payload.
	Entries int
}

// Resolver runs the stages against an injected fetch.
type Resolver struct {
	fetch      FetchFunc
	normalizer *normalize.Normalizer
}

// NewResolver creates a Resolver.
func NewResolver(fetch FetchFunc, n *normalize.Normalizer) *Resolver {
	return &Resolver{fetch: fetch, normalizer: n}
}

// Resolve fetches f as given and widens while the result is empty. A failed
// scoped fetch is returned as the error, except an empty body which counts
// as zero rows; failures of later stages count as empty. Running out of
// stages is not an error.
func (r *Resolver) Resolve(ctx context.Context, f provider.Filters) (Outcome, error) {
	scoped, err := r.fetch(ctx, f)
	if provider.KindOf(err) == provider.KindEmptyResponse {
		scoped, err = emptyPayload(), nil
	}
	if err != nil {
		return Outcome{}, err
	}
	n, err := r.usable(scoped)
	if err != nil {
		return Outcome{}, err
	}
	provider.LogFallback(string(StageScoped), n, f)
	if n > 0 {
		return r.done(Outcome{Payload: scoped, Stage: StageScoped, Entries: n}), nil
	}
	last := scoped

	if f.HasDistrict() {
		sf := provider.Filters{State: f.State, Limit: StateOnlyLimit}
		if p, n, ok := r.try(ctx, StageStateOnly, sf); ok {
			last = p
			if n > 0 {
				return r.done(Outcome{Payload: p, Stage: StageStateOnly, Broadened: true, Entries: n}), nil
			}
		}
	}

	if f.HasState() || f.HasDistrict() || f.Month != "" || f.FinYear != "" {
		if p, n, ok := r.try(ctx, StageUnfiltered, provider.Filters{Limit: UnfilteredLimit}); ok {
			last = p
			if n > 0 {
				out := Outcome{Payload: p, Stage: StageUnfiltered, Broadened: true, Entries: n}
				if f.HasState() {
					if narrowed, m := r.narrowToState(p, f.State); m > 0 {
						out.Payload, out.Entries, out.Narrowed = narrowed, m, true
					}
				}
				return r.done(out), nil
			}
		}
	}

	n, _ = r.usable(last)
	return r.done(Outcome{Payload: last, Stage: StageExhausted, Broadened: true, Entries: n}), nil
}

func emptyPayload() provider.RawPayload {
	return provider.RawPayload{"records": []any{}}
}

func (r *Resolver) try(ctx context.Context, stage Stage, f provider.Filters) (provider.RawPayload, int, bool) {
	if ctx.Err() != nil {
		return nil, 0, false
	}
	p, err := r.fetch(ctx, f)
	if err != nil {
		provider.LogError("fallback", string(stage), err)
		return nil, 0, false
	}
	n, err := r.usable(p)
	if err != nil {
		provider.LogError("fallback", string(stage), err)
		return nil, 0, false
	}
	provider.LogFallback(string(stage), n, f)
	return p, n, true
}

func (r *Resolver) done(out Outcome) Outcome {
	metrics.FallbackStages.WithLabelValues(string(out.Stage)).Inc()
	return out
}

// usable counts the entries that survive normalization.
func (r *Resolver) usable(p provider.RawPayload) (int, error) {
	_, entries, err := r.normalizer.Entries(p)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if obj, ok := e.(map[string]any); ok {
			if _, ok := r.normalizer.Normalize(obj); ok {
				n++
			}
		}
	}
	return n, nil
}

// narrowToState keeps the usable rows whose state equals state under case
// folding.
func (r *Resolver) narrowToState(p provider.RawPayload, state string) (provider.RawPayload, int) {
	key, entries, err := r.normalizer.Entries(p)
	if err != nil {
		return nil, 0
	}

	matched := make([]any, 0)
	for _, e := range entries {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		rec, ok := r.normalizer.Normalize(obj)
		if ok && SameState(rec.StateName, state) {
			matched = append(matched, obj)
		}
	}
	if len(matched) == 0 {
		return nil, 0
	}
	return provider.RawPayload{key: matched, "total": len(matched), "count": len(matched)}, len(matched)
}

// SameState compares state names after trimming and Unicode case folding.
func SameState(a, b string) bool {
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}
