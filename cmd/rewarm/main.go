package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/EmpoweredVote/EV-Performance/internal/db"
	"github.com/EmpoweredVote/EV-Performance/internal/performance"
	"github.com/joho/godotenv"
)

var (
	state    = flag.String("state", "", "Only warm districts of this state")
	district = flag.String("district", "", "Only warm this district (requires -state)")
	year     = flag.String("year", "", "Financial year filter, e.g. 2024-2025")
	dryRun   = flag.Bool("dry-run", false, "List the districts that would be fetched")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	if *district != "" && *state == "" {
		log.Fatal("-district requires -state")
	}
	if os.Getenv("DATABASE_URL") == "" {
		log.Fatal("DATABASE_URL not set")
	}
	os.Setenv("USE_DATABASE", "true")

	db.Connect()
	svc := performance.Init()

	ctx := context.Background()
	if err := svc.Source.HealthCheck(ctx); err != nil {
		log.Fatalf("%s health check failed: %v", svc.Source.Name(), err)
	}
	fmt.Printf("%s: OK\n", svc.Source.Name())

	targets, err := targetsFor(ctx, svc)
	if err != nil {
		log.Fatalf("list districts: %v", err)
	}
	fmt.Printf("Warming %d districts\n\n", len(targets))

	var warmed, stored, failed int
	for _, q := range targets {
		if *dryRun {
			fmt.Printf("  would fetch %s / %s\n", q.State, q.District)
			continue
		}

		res, err := fetch(ctx, svc, q)
		if err != nil {
			log.Printf("  ERROR %s / %s: %v", q.State, q.District, err)
			failed++
			continue
		}
		if res.Source == performance.SourceStore {
			if res.Note != "" {
				// Degraded store answer: upstream was not reached.
				log.Printf("  SKIP %s / %s: %s", q.State, q.District, res.Note)
				failed++
				continue
			}
			stored++
			continue
		}
		fmt.Printf("  %s / %s: %d records (stage %s)\n", q.State, q.District, len(res.Records), res.Stage)
		warmed++
	}

	fmt.Printf("\nDone: warmed=%d already_stored=%d failed=%d\n", warmed, stored, failed)
}

func targetsFor(ctx context.Context, svc *performance.Service) ([]performance.Query, error) {
	if *district != "" {
		return []performance.Query{{State: *state, District: *district, FinYear: *year}}, nil
	}

	districts, err := svc.Catalogue.ListDistricts(ctx, *state)
	if err != nil {
		return nil, err
	}
	out := make([]performance.Query, 0, len(districts))
	for _, d := range districts {
		out = append(out, performance.Query{State: d.State, District: d.Name, FinYear: strings.TrimSpace(*year)})
	}
	return out, nil
}

// fetch waits out the shared rate window once before giving up.
func fetch(ctx context.Context, svc *performance.Service, q performance.Query) (performance.Result, error) {
	res, err := svc.Pipeline.GetOrFetch(ctx, q)
	if !errors.Is(err, performance.ErrRateLimited) {
		return res, err
	}

	wait := svc.RetryAfter
	if wait <= 0 {
		wait = time.Minute
	}
	log.Printf("  rate limited, waiting %s", wait)
	select {
	case <-ctx.Done():
		return performance.Result{}, ctx.Err()
	case <-time.After(wait):
	}
	return svc.Pipeline.GetOrFetch(ctx, q)
}
