package performance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EmpoweredVote/EV-Performance/internal/performance/provider"
)

const (
	latestFirst = "fin_year DESC, month_rank DESC, created_at DESC"
	insertBatch = 200

	// periodKey identifies one observation; re-ingested copies share it.
	periodKey = "state_name, district_name, fin_year, month"
)

// GormStore implements ComparativeStore on Postgres.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

var _ ComparativeStore = (*GormStore)(nil)

// NewGormStore wraps an open gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

func (s *GormStore) SaveBatch(ctx context.Context, run *IngestionRun, records []provider.CanonicalRecord) error {
	if len(records) == 0 {
		return nil
	}
	start := time.Now()
	now := s.now()

	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	run.CreatedAt = now
	run.Persisted = len(records)

	rows := make([]PerformanceRecord, 0, len(records))
	for _, r := range records {
		rows = append(rows, recordFromCanonical(r, run.ID, now))
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("insert ingestion run: %w", err)
		}
		if err := tx.CreateInBatches(&rows, insertBatch).Error; err != nil {
			return fmt.Errorf("insert performance records: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	provider.LogUpsert("store", len(rows), time.Since(start))
	return nil
}

func (s *GormStore) FindByState(ctx context.Context, state string, limit int) ([]provider.CanonicalRecord, error) {
	return s.find(ctx, limit, "state_name = ?", state)
}

func (s *GormStore) FindByDistrict(ctx context.Context, state, district string, limit int) ([]provider.CanonicalRecord, error) {
	return s.find(ctx, limit, "state_name = ? AND district_name = ?", state, district)
}

func (s *GormStore) FindByStateFold(ctx context.Context, state string, limit int) ([]provider.CanonicalRecord, error) {
	return s.find(ctx, limit, "LOWER(TRIM(state_name)) = LOWER(TRIM(?))", state)
}

func (s *GormStore) FindStates(ctx context.Context) ([]string, error) {
	var states []string
	err := s.db.WithContext(ctx).
		Model(&PerformanceRecord{}).
		Distinct("state_name").
		Order("state_name").
		Pluck("state_name", &states).Error
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	return states, nil
}

// find returns the newest ingested row of each state/district/period.
func (s *GormStore) find(ctx context.Context, limit int, where string, args ...any) ([]provider.CanonicalRecord, error) {
	latest := s.db.Model(&PerformanceRecord{}).
		Select("DISTINCT ON ("+periodKey+") *").
		Where(where, args...).
		Order(periodKey + ", created_at DESC")

	q := s.db.WithContext(ctx).Table("(?) AS latest", latest).Order(latestFirst)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []PerformanceRecord
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find performance records: %w", err)
	}

	out := make([]provider.CanonicalRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Canonical())
	}
	return out, nil
}

// ListDistricts returns the catalogue ordered by state then district.
func (s *GormStore) ListDistricts(ctx context.Context, state string) ([]District, error) {
	q := s.db.WithContext(ctx).Order("state, name")
	if state != "" {
		q = q.Where("LOWER(state) = LOWER(?)", state)
	}
	var out []District
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}
	return out, nil
}

// UpsertDistricts inserts catalogue entries, refreshing aliases of existing ones.
func (s *GormStore) UpsertDistricts(ctx context.Context, districts []District) error {
	if len(districts) == 0 {
		return nil
	}
	for i := range districts {
		if districts[i].ID == uuid.Nil {
			districts[i].ID = uuid.New()
		}
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "state"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"aliases"}),
	}).Create(&districts).Error
}
