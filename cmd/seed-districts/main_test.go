package main

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmpoweredVote/EV-Performance/internal/performance"
)

// recordingTx records each statement and fails inserts of the listed names.
type recordingTx struct {
	statements []string
	existing   map[string]bool
}

func (r *recordingTx) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	stmt := strings.Fields(query)[0]
	if stmt == "RELEASE" || stmt == "ROLLBACK" || stmt == "SAVEPOINT" {
		stmt = strings.Join(strings.Fields(query), " ")
	}
	r.statements = append(r.statements, stmt)
	if stmt == "INSERT" && r.existing[args[1].(string)] {
		return nil, &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	}
	return nil, nil
}

func TestSeedAllReleasesEverySavepoint(t *testing.T) {
	tx := &recordingTx{existing: map[string]bool{"PUNE": true}}

	c, err := seedAll(context.Background(), tx, []performance.District{
		{State: "MAHARASHTRA", Name: "NAGPUR"},
		{State: "MAHARASHTRA", Name: "PUNE"},
	})

	require.NoError(t, err)
	assert.Equal(t, Counts{Inserted: 1, Updated: 1}, c)
	assert.Equal(t, []string{
		"SAVEPOINT seed_district", "INSERT", "RELEASE SAVEPOINT seed_district",
		"SAVEPOINT seed_district", "INSERT", "ROLLBACK TO SAVEPOINT seed_district", "UPDATE", "RELEASE SAVEPOINT seed_district",
	}, tx.statements)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}
