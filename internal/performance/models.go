package performance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/text/cases"
	"gorm.io/datatypes"

	"github.com/EmpoweredVote/EV-Performance/internal/performance/provider"
)

// PerformanceRecord is a persisted canonical record. Rows are insert-only:
// a re-ingested period arrives as a new row, never an edit.
type PerformanceRecord struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RunID        uuid.UUID `json:"run_id" gorm:"type:uuid;index"`
	FinYear      string    `json:"fin_year" gorm:"index:idx_perf_period,priority:1"`
	Month        string    `json:"month"`
	MonthRank    int       `json:"-" gorm:"not null;default:0;index:idx_perf_period,priority:2"`
	StateName    string    `json:"state_name" gorm:"not null;index:idx_perf_geo,priority:1"`
	DistrictName string    `json:"district_name" gorm:"not null;index:idx_perf_geo,priority:2"`

	HouseholdsWorked       *int64   `json:"households_worked"`
	PersondaysGenerated    *int64   `json:"persondays_generated"`
	WomenPersondaysPercent *float64 `json:"women_persondays_percent"`
	OngoingWorks           *int64   `json:"no_of_ongoing_works"`
	CompletedWorks         *int64   `json:"no_of_completed_works"`
	AvgWageRate            *float64 `json:"avg_wage_rate"`
	TotalWages             *float64 `json:"total_wages"`

	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (PerformanceRecord) TableName() string { return "performance.performance_records" }

// District is one entry of the state/district catalogue.
type District struct {
	ID      uuid.UUID      `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	State   string         `json:"state" gorm:"not null;uniqueIndex:idx_district_state_name,priority:1"`
	Name    string         `json:"name" gorm:"not null;uniqueIndex:idx_district_state_name,priority:2"`
	Aliases pq.StringArray `json:"aliases" gorm:"type:text[]"`
}

func (District) TableName() string { return "performance.districts" }

// IngestionRun audits one persisted upstream batch.
type IngestionRun struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	Fingerprint string            `json:"fingerprint" gorm:"index"`
	Filters     datatypes.JSONMap `json:"filters"`
	Source      string            `json:"source"`
	Stage       string            `json:"stage"`
	Fetched     int               `json:"fetched"`
	Persisted   int               `json:"persisted"`
	Rejected    int               `json:"rejected"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (IngestionRun) TableName() string { return "performance.ingestion_runs" }

// fiscalMonths orders months of the Indian financial year, April first.
var fiscalMonths = map[string]int{
	"apr": 1, "april": 1,
	"may": 2,
	"jun": 3, "june": 3,
	"jul": 4, "july": 4,
	"aug": 5, "august": 5,
	"sep": 6, "sept": 6, "september": 6,
	"oct": 7, "october": 7,
	"nov": 8, "november": 8,
	"dec": 9, "december": 9,
	"jan": 10, "january": 10,
	"feb": 11, "february": 11,
	"mar": 12, "march": 12,
}

// MonthRank returns the fiscal position of a month name (Apr=1 .. Mar=12),
// or 0 when the month is unknown.
func MonthRank(month string) int {
	return fiscalMonths[cases.Fold().String(strings.TrimSpace(month))]
}

func recordFromCanonical(c provider.CanonicalRecord, runID uuid.UUID, now time.Time) PerformanceRecord {
	return PerformanceRecord{
		ID:                     uuid.New(),
		RunID:                  runID,
		FinYear:                c.FinYear,
		Month:                  c.Month,
		MonthRank:              MonthRank(c.Month),
		StateName:              c.StateName,
		DistrictName:           c.DistrictName,
		HouseholdsWorked:       c.HouseholdsWorked,
		PersondaysGenerated:    c.PersondaysGenerated,
		WomenPersondaysPercent: c.WomenPersondaysPercent,
		OngoingWorks:           c.OngoingWorks,
		CompletedWorks:         c.CompletedWorks,
		AvgWageRate:            c.AvgWageRate,
		TotalWages:             c.TotalWages,
		Source:                 c.Source,
		CreatedAt:              now,
	}
}

// Canonical drops the storage identity.
func (r PerformanceRecord) Canonical() provider.CanonicalRecord {
	return provider.CanonicalRecord{
		FinYear:                r.FinYear,
		Month:                  r.Month,
		StateName:              r.StateName,
		DistrictName:           r.DistrictName,
		HouseholdsWorked:       r.HouseholdsWorked,
		PersondaysGenerated:    r.PersondaysGenerated,
		WomenPersondaysPercent: r.WomenPersondaysPercent,
		OngoingWorks:           r.OngoingWorks,
		CompletedWorks:         r.CompletedWorks,
		AvgWageRate:            r.AvgWageRate,
		TotalWages:             r.TotalWages,
		Source:                 r.Source,
	}
}
