package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/EmpoweredVote/EV-Performance/internal/performance"
)

// CLI flags
var (
	yamlPath    = flag.String("yaml", "", "Path to a district catalogue YAML (default: embedded catalogue)")
	dsn         = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	dryRun      = flag.Bool("dry-run", false, "Parse + validate only; no DB writes")
	advisoryKey = flag.Int64("advisory-lock", 0, "Optional Postgres advisory lock key (e.g., 424242). 0 = disabled")
)

type Counts struct {
	Inserted int
	Updated  int
}

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	districts, err := loadCatalogue(*yamlPath)
	if err != nil {
		fatalf("catalogue error: %v", err)
	}
	fmt.Printf("Loaded %d districts\n", len(districts))

	if *dryRun {
		printPlan(districts)
		fmt.Println("Dry run complete. No changes made.")
		return
	}
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		fatalf("begin tx: %v", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op if already committed
	}()

	if *advisoryKey != 0 {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, *advisoryKey); err != nil {
			fatalf("advisory lock: %v", err)
		}
	}

	counts, err := seedAll(ctx, tx, districts)
	if err != nil {
		fatalf("seed districts: %v", err)
	}

	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}
	fmt.Printf("Done: inserted=%d updated=%d\n", counts.Inserted, counts.Updated)
}

func loadCatalogue(path string) ([]performance.District, error) {
	if path == "" {
		return performance.DefaultCatalogue()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return performance.ParseCatalogue(data)
}

// execer is the part of *sql.Tx the seeder uses.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// seedAll inserts each district under its own savepoint so an existing
// state/name pair only refreshes its aliases.
func seedAll(ctx context.Context, tx execer, districts []performance.District) (Counts, error) {
	var c Counts
	for _, d := range districts {
		if _, err := tx.ExecContext(ctx, `SAVEPOINT seed_district`); err != nil {
			return c, err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO performance.districts (id, state, name, aliases)
			VALUES (uuid_generate_v4(), $1, $2, $3)`,
			d.State, d.Name, d.Aliases,
		)
		if err == nil {
			if _, err := tx.ExecContext(ctx, `RELEASE SAVEPOINT seed_district`); err != nil {
				return c, err
			}
			c.Inserted++
			continue
		}

		if !isUniqueViolation(err) {
			return c, fmt.Errorf("insert %s/%s: %w", d.State, d.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT seed_district`); err != nil {
			return c, err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE performance.districts SET aliases = $3
			WHERE state = $1 AND name = $2`,
			d.State, d.Name, d.Aliases,
		); err != nil {
			return c, fmt.Errorf("update %s/%s: %w", d.State, d.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `RELEASE SAVEPOINT seed_district`); err != nil {
			return c, err
		}
		c.Updated++
	}
	return c, nil
}

func isUniqueViolation(err error) bool {
	var e *pgconn.PgError
	return errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation
}

func printPlan(districts []performance.District) {
	current := ""
	for _, d := range districts {
		if d.State != current {
			current = d.State
			fmt.Printf("%s\n", current)
		}
		fmt.Printf("  - %s", d.Name)
		if len(d.Aliases) > 0 {
			fmt.Printf(" %v", []string(d.Aliases))
		}
		fmt.Println()
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
