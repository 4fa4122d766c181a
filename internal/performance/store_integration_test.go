package performance

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmpoweredVote/EV-Performance/internal/db"
	"github.com/EmpoweredVote/EV-Performance/internal/performance/provider"
)

// testStore is nil when no database is configured.
var testStore *GormStore

func TestMain(m *testing.M) {
	_ = godotenv.Load("../../.env.local")

	if os.Getenv("DATABASE_URL") == "" {
		os.Exit(m.Run())
	}

	db.Connect()
	testStore = migrate()
	os.Exit(m.Run())
}

func requireStore(t *testing.T) *GormStore {
	t.Helper()
	if testStore == nil {
		t.Skip("DATABASE_URL not set; skipping store integration test")
	}
	return testStore
}

// uniqueState isolates each test's rows and removes them afterwards.
func uniqueState(t *testing.T) string {
	t.Helper()
	state := "TEST STATE " + uuid.NewString()[:8]
	t.Cleanup(func() {
		db.DB.Exec(`DELETE FROM performance.performance_records WHERE state_name = ?`, state)
		db.DB.Exec(`DELETE FROM performance.districts WHERE state = ?`, state)
	})
	return state
}

func ptr[T any](v T) *T { return &v }

func TestGormStoreSaveAndFind(t *testing.T) {
	s := requireStore(t)
	state := uniqueState(t)
	ctx := context.Background()

	run := &IngestionRun{Fingerprint: state + "|-|-|-|12", Source: "fixture", Stage: "scoped"}
	err := s.SaveBatch(ctx, run, []provider.CanonicalRecord{
		{StateName: state, DistrictName: "ALPHA", FinYear: "2024-2025", Month: "Apr", PersondaysGenerated: ptr(int64(10))},
		{StateName: state, DistrictName: "ALPHA", FinYear: "2024-2025", Month: "Dec", PersondaysGenerated: ptr(int64(30))},
		{StateName: state, DistrictName: "BETA", FinYear: "2023-2024", Month: "Mar", WomenPersondaysPercent: ptr(41.5)},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.Equal(t, 3, run.Persisted)

	recs, err := s.FindByDistrict(ctx, state, "ALPHA", 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Dec", recs[0].Month, "latest month first")
	assert.Equal(t, int64(30), *recs[0].PersondaysGenerated)

	limited, err := s.FindByState(ctx, state, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "2024-2025", limited[0].FinYear)

	folded, err := s.FindByStateFold(ctx, "  "+state+" ", 0)
	require.NoError(t, err)
	assert.Len(t, folded, 3)

	states, err := s.FindStates(ctx)
	require.NoError(t, err)
	assert.Contains(t, states, state)
}

func TestGormStoreEmptyBatchIsNoop(t *testing.T) {
	s := requireStore(t)
	run := &IngestionRun{Fingerprint: "empty"}

	require.NoError(t, s.SaveBatch(context.Background(), run, nil))
	assert.Equal(t, uuid.Nil, run.ID)
}

func TestGormStoreUpsertDistricts(t *testing.T) {
	s := requireStore(t)
	state := uniqueState(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertDistricts(ctx, []District{{State: state, Name: "GAMMA"}}))
	require.NoError(t, s.UpsertDistricts(ctx, []District{{State: state, Name: "GAMMA", Aliases: []string{"GAMMA CITY"}}}))

	got, err := s.ListDistricts(ctx, state)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"GAMMA CITY"}, []string(got[0].Aliases))
}

func TestGormStoreReturnsNewestCopyOfEachPeriod(t *testing.T) {
	base := requireStore(t)
	state := uniqueState(t)
	ctx := context.Background()

	clock := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	s := NewGormStore(base.db)
	s.now = func() time.Time { return clock }

	save := func(persondays int64) {
		t.Helper()
		require.NoError(t, s.SaveBatch(ctx, &IngestionRun{Fingerprint: state}, []provider.CanonicalRecord{
			{StateName: state, DistrictName: "DELTA", FinYear: "2024-2025", Month: "Dec", PersondaysGenerated: ptr(persondays)},
		}))
	}
	save(100)
	clock = clock.Add(time.Hour)
	save(120)

	recs, err := s.FindByDistrict(ctx, state, "DELTA", 0)
	require.NoError(t, err)
	require.Len(t, recs, 1, "re-ingested period is returned once")
	assert.Equal(t, int64(120), *recs[0].PersondaysGenerated)

	all, err := s.FindByState(ctx, state, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
