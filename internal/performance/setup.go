package performance

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/EmpoweredVote/EV-Performance/internal/db"
	"github.com/EmpoweredVote/EV-Performance/internal/performance/cache"
	"github.com/EmpoweredVote/EV-Performance/internal/performance/normalize"
	"github.com/EmpoweredVote/EV-Performance/internal/performance/provider"
	"github.com/EmpoweredVote/EV-Performance/internal/performance/ratelimit"

	// Import providers to register them via init()
	_ "github.com/EmpoweredVote/EV-Performance/internal/performance/datagov"
	_ "github.com/EmpoweredVote/EV-Performance/internal/performance/fixture"
)

// Init builds the service from the environment. With USE_DATABASE enabled
// it expects db.Connect to have run.
func Init() *Service {
	cfg := provider.LoadFromEnv()

	src, err := provider.NewProvider(cfg)
	if err != nil {
		log.Fatalf("[performance] failed to initialize %s provider: %v", cfg.Provider, err)
	}
	if cfg.Provider == provider.ProviderDataGov && cfg.APIKey == "" {
		log.Printf("[performance] WARNING: DATAGOV_API_KEY is not set; only cached and stored data can be served")
	}
	log.Printf("[performance] initialized %s provider", src.Name())

	n, err := normalize.New()
	if err != nil {
		log.Fatal("Failed to load synonym table: ", err)
	}

	var store ComparativeStore
	var catalogue Catalogue
	if cfg.UseDatabase {
		gs := migrate()
		store, catalogue = gs, gs
	} else {
		districts, err := DefaultCatalogue()
		if err != nil {
			log.Fatal("Failed to load district catalogue: ", err)
		}
		catalogue = staticCatalogue(districts)
		log.Printf("[performance] running without a local store")
	}

	limiter := ratelimit.New(cfg.RateWindow, cfg.RateCapacity)
	responses := cache.New[string, Result]()

	svc := &Service{
		Pipeline: NewPipeline(PipelineConfig{
			Fetcher:    src,
			Store:      store,
			Limiter:    limiter,
			Normalizer: n,
			Cache:      responses,
			CacheTTL:   cfg.CacheTTL,
			LimitKey:   string(cfg.Provider) + ":" + cfg.ResourceID,
		}),
		Catalogue:  catalogue,
		Source:     src,
		RetryAfter: cfg.RateWindow,
		janitor: func() {
			if n := responses.PurgeExpired(); n > 0 {
				log.Printf("[performance] purged %d expired cache entries", n)
			}
			limiter.Purge()
		},
		janitorEvery: cfg.RateWindow,
	}
	if store != nil {
		svc.Comparator = NewComparator(store)
	}
	return svc
}

func migrate() *GormStore {
	if err := db.EnsureSchema(db.DB, "performance"); err != nil {
		log.Fatal("Failed to ensure schema performance: ", err)
	}
	if err := db.EnableExtension(db.DB, "uuid-ossp"); err != nil {
		log.Fatal("Failed to enable uuid-ossp extension:", err)
	}
	if err := db.DB.AutoMigrate(
		&PerformanceRecord{},
		&District{},
		&IngestionRun{},
	); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}

	gs := NewGormStore(db.DB)

	districts, err := DefaultCatalogue()
	if err != nil {
		log.Fatal("Failed to load district catalogue: ", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := gs.UpsertDistricts(ctx, districts); err != nil {
		log.Printf("[performance] WARNING: seeding district catalogue failed: %v", err)
	}
	return gs
}

// StartJanitor purges expired cache entries and idle rate windows until ctx
// is done.
func (s *Service) StartJanitor(ctx context.Context) {
	if s.janitor == nil || s.janitorEvery <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(s.janitorEvery)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.janitor()
			}
		}
	}()
}

// staticCatalogue serves the embedded catalogue when no database is used.
type staticCatalogue []District

func (c staticCatalogue) ListDistricts(_ context.Context, state string) ([]District, error) {
	state = strings.TrimSpace(state)
	if state == "" {
		return c, nil
	}
	var out []District
	for _, d := range c {
		if strings.EqualFold(d.State, state) {
			out = append(out, d)
		}
	}
	return out, nil
}
