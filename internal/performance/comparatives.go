package performance

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/EmpoweredVote/EV-Performance/internal/performance/provider"
)

// NoStateDataError reports a state with no stored rows, listing the states
// that do have data.
type NoStateDataError struct {
	State           string   `json:"state"`
	AvailableStates []string `json:"available_states,omitempty"`
}

func (e *NoStateDataError) Error() string {
	return fmt.Sprintf("no data available for state %q", e.State)
}

func (e *NoStateDataError) Is(target error) bool { return target == ErrNoData }

// StateAverage compares a district against the mean of its state.
type StateAverage struct {
	State          string `json:"state"`
	RequestedState string `json:"requested_state"`
	Year           string `json:"year"`
	Month          string `json:"month"`

	StateAveragePersondays int64 `json:"state_average_persondays"`
	StateAverageHouseholds int64 `json:"state_average_households"`
	RecordsUsed            int   `json:"records_used"`

	District                    string   `json:"district,omitempty"`
	DistrictPersondays          *int64   `json:"district_persondays,omitempty"`
	DistrictHouseholds          *int64   `json:"district_households,omitempty"`
	PersondaysDifferencePercent float64  `json:"persondays_difference_percent"`
	AboveStateAverage           bool     `json:"above_state_average"`
	DistrictDataMissing         bool     `json:"district_data_missing,omitempty"`
	AvailableDistricts          []string `json:"available_districts,omitempty"`
}

// DistrictFigures are the metrics shown for one side of a comparison.
type DistrictFigures struct {
	Name                   string   `json:"name"`
	FinYear                string   `json:"fin_year,omitempty"`
	Month                  string   `json:"month,omitempty"`
	PersondaysGenerated    *int64   `json:"persondays_generated"`
	HouseholdsWorked       *int64   `json:"households_worked"`
	WomenPersondaysPercent *float64 `json:"women_persondays_percent"`
	OngoingWorks           *int64   `json:"no_of_ongoing_works"`
	CompletedWorks         *int64   `json:"no_of_completed_works"`
	AvgWageRate            *float64 `json:"avg_wage_rate"`
	Missing                bool     `json:"missing,omitempty"`
}

// DistrictComparison puts two districts side by side.
type DistrictComparison struct {
	Year                 string          `json:"year"`
	Month                string          `json:"month"`
	District1            DistrictFigures `json:"district1"`
	District2            DistrictFigures `json:"district2"`
	DifferencePersondays *int64          `json:"difference_persondays,omitempty"`
	BetterDistrict       string          `json:"better_district,omitempty"`
}

// Comparator computes statistics over stored records.
type Comparator struct {
	store ComparativeStore
}

// NewComparator creates a Comparator.
func NewComparator(store ComparativeStore) *Comparator {
	return &Comparator{store: store}
}

// stateRecords returns the state's rows, latest first, matching the name
// exactly and then case-insensitively.
func (c *Comparator) stateRecords(ctx context.Context, state string) ([]provider.CanonicalRecord, error) {
	recs, err := c.store.FindByState(ctx, state, 0)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		if recs, err = c.store.FindByStateFold(ctx, state, 0); err != nil {
			return nil, err
		}
	}
	if len(recs) == 0 {
		states, err := c.store.FindStates(ctx)
		if err != nil {
			return nil, err
		}
		return nil, &NoStateDataError{State: state, AvailableStates: states}
	}
	return recs, nil
}

// StateAverage averages persondays and households over the state for the
// period (default: the latest stored period). finYear, month and district
// may be empty.
func (c *Comparator) StateAverage(ctx context.Context, state, district, finYear, month string) (StateAverage, error) {
	recs, err := c.stateRecords(ctx, state)
	if err != nil {
		return StateAverage{}, err
	}

	year, mon := period(recs[0], finYear, month)
	out := StateAverage{
		State:          recs[0].StateName,
		RequestedState: state,
		Year:           year,
		Month:          mon,
		RecordsUsed:    len(recs),
	}

	basis := filterRecords(recs, func(r provider.CanonicalRecord) bool { return inPeriod(r, year, mon) })
	if len(basis) == 0 {
		basis = filterRecords(recs, func(r provider.CanonicalRecord) bool {
			return r.PersondaysGenerated != nil || r.HouseholdsWorked != nil
		})
	}
	avgPersondays := meanInt(basis, func(r provider.CanonicalRecord) *int64 { return r.PersondaysGenerated })
	avgHouseholds := meanInt(basis, func(r provider.CanonicalRecord) *int64 { return r.HouseholdsWorked })
	out.StateAveragePersondays = int64(math.Round(avgPersondays))
	out.StateAverageHouseholds = int64(math.Round(avgHouseholds))

	district = strings.TrimSpace(district)
	if district == "" {
		return out, nil
	}
	out.District = district

	if rec, ok := pickDistrict(recs, district, year, mon); ok {
		out.DistrictPersondays = rec.PersondaysGenerated
		out.DistrictHouseholds = rec.HouseholdsWorked
	}

	if avgPersondays > 0 && out.DistrictPersondays != nil && *out.DistrictPersondays > 0 {
		d := float64(*out.DistrictPersondays)
		out.PersondaysDifferencePercent = math.Round((d-avgPersondays)/avgPersondays*100*100) / 100
		out.AboveStateAverage = d > avgPersondays
	} else if out.DistrictPersondays == nil || *out.DistrictPersondays == 0 {
		out.DistrictDataMissing = true
		out.AvailableDistricts = districtNames(recs)
	}
	return out, nil
}

// CompareDistricts returns the figures of two districts of one state for
// the period, falling back to each district's latest row.
func (c *Comparator) CompareDistricts(ctx context.Context, state, district1, district2, finYear, month string) (DistrictComparison, error) {
	recs, err := c.stateRecords(ctx, state)
	if err != nil {
		return DistrictComparison{}, err
	}

	year, mon := period(recs[0], finYear, month)
	out := DistrictComparison{Year: year, Month: mon}

	r1, ok1 := pickDistrict(recs, district1, year, mon)
	r2, ok2 := pickDistrict(recs, district2, year, mon)
	out.District1 = figures(district1, r1, ok1)
	out.District2 = figures(district2, r2, ok2)

	if ok1 && ok2 && r1.PersondaysGenerated != nil && r2.PersondaysGenerated != nil {
		diff := *r1.PersondaysGenerated - *r2.PersondaysGenerated
		out.DifferencePersondays = &diff
		out.BetterDistrict = district2
		if diff > 0 {
			out.BetterDistrict = district1
		}
	}
	return out, nil
}

func period(latest provider.CanonicalRecord, finYear, month string) (string, string) {
	year, mon := strings.TrimSpace(finYear), strings.TrimSpace(month)
	if year == "" {
		year = latest.FinYear
	}
	if mon == "" {
		mon = latest.Month
	}
	return year, mon
}

func inPeriod(r provider.CanonicalRecord, year, month string) bool {
	if r.FinYear != year {
		return false
	}
	if strings.EqualFold(r.Month, month) {
		return true
	}
	rank := MonthRank(month)
	return rank > 0 && MonthRank(r.Month) == rank
}

// pickDistrict prefers the district's row for the period, else its latest.
// recs must be ordered latest first.
func pickDistrict(recs []provider.CanonicalRecord, district, year, month string) (provider.CanonicalRecord, bool) {
	var latest *provider.CanonicalRecord
	for i := range recs {
		r := recs[i]
		if !strings.EqualFold(strings.TrimSpace(r.DistrictName), strings.TrimSpace(district)) {
			continue
		}
		if inPeriod(r, year, month) {
			return r, true
		}
		if latest == nil {
			latest = &recs[i]
		}
	}
	if latest == nil {
		return provider.CanonicalRecord{}, false
	}
	return *latest, true
}

func figures(name string, r provider.CanonicalRecord, ok bool) DistrictFigures {
	if !ok {
		return DistrictFigures{Name: name, Missing: true}
	}
	return DistrictFigures{
		Name:                   name,
		FinYear:                r.FinYear,
		Month:                  r.Month,
		PersondaysGenerated:    r.PersondaysGenerated,
		HouseholdsWorked:       r.HouseholdsWorked,
		WomenPersondaysPercent: r.WomenPersondaysPercent,
		OngoingWorks:           r.OngoingWorks,
		CompletedWorks:         r.CompletedWorks,
		AvgWageRate:            r.AvgWageRate,
	}
}

func filterRecords(recs []provider.CanonicalRecord, keep func(provider.CanonicalRecord) bool) []provider.CanonicalRecord {
	var out []provider.CanonicalRecord
	for _, r := range recs {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// meanInt averages the non-nil values; it is 0 when there are none.
func meanInt(recs []provider.CanonicalRecord, get func(provider.CanonicalRecord) *int64) float64 {
	var sum float64
	n := 0
	for _, r := range recs {
		if v := get(r); v != nil {
			sum += float64(*v)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func districtNames(recs []provider.CanonicalRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range recs {
		if r.DistrictName != "" && !seen[r.DistrictName] {
			seen[r.DistrictName] = true
			out = append(out, r.DistrictName)
		}
	}
	sort.Strings(out)
	return out
}
