package performance

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

import (
	"context"

	"github.com/EmpoweredVote/EV-Performance/internal/performance/provider"
)

// Fetcher issues one upstream query. provider.Source satisfies it.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, f provider.Filters) (provider.RawPayload, error)
}

// Limiter admits upstream calls per key.
type Limiter interface {
	Allow(key string) bool
}

// Store is the local record store the pipeline reads and writes.
type Store interface {
	// SaveBatch inserts run and every record in one transaction.
	SaveBatch(ctx context.Context, run *IngestionRun, records []provider.CanonicalRecord) error
	FindByState(ctx context.Context, state string, limit int) ([]provider.CanonicalRecord, error)
	FindByDistrict(ctx context.Context, state, district string, limit int) ([]provider.CanonicalRecord, error)
}

// ComparativeStore adds the lookups used by the comparison endpoints.
type ComparativeStore interface {
	Store
	FindByStateFold(ctx context.Context, state string, limit int) ([]provider.CanonicalRecord, error)
	FindStates(ctx context.Context) ([]string, error)
}

// Catalogue lists known districts.
type Catalogue interface {
	ListDistricts(ctx context.Context, state string) ([]District, error)
}
