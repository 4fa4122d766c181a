package provider

import "strings"

// RawPayload is one decoded upstream response. Its shape is not contractual:
// the record array may sit under any of several top-level keys and each
// entry uses whatever field names the upstream currently emits.
type RawPayload map[string]any

// Filters are the query parameters sent upstream. Blank fields are omitted
// from the request.
type Filters struct {
	State    string `json:"state_name,omitempty"`
	District string `json:"district_name,omitempty"`
	Month    string `json:"month,omitempty"`
	FinYear  string `json:"fin_year,omitempty"`

	// Limit is the row limit; zero means the upstream default.
	Limit int `json:"limit,omitempty"`
}

// HasState reports whether a non-blank state filter is set.
func (f Filters) HasState() bool { return strings.TrimSpace(f.State) != "" }

// HasDistrict reports whether a non-blank district filter is set.
func (f Filters) HasDistrict() bool { return strings.TrimSpace(f.District) != "" }

// CanonicalRecord is one normalized state/district/period observation.
// Metric pointers are nil when the upstream did not report the value;
// absence is never coerced to zero.
type CanonicalRecord struct {
	FinYear      string `json:"fin_year"`
	Month        string `json:"month"`
	StateName    string `json:"state_name"`
	DistrictName string `json:"district_name"`

	HouseholdsWorked       *int64   `json:"households_worked"`
	PersondaysGenerated    *int64   `json:"persondays_generated"`
	WomenPersondaysPercent *float64 `json:"women_persondays_percent"`
	OngoingWorks           *int64   `json:"no_of_ongoing_works"`
	CompletedWorks         *int64   `json:"no_of_completed_works"`
	AvgWageRate            *float64 `json:"avg_wage_rate"`
	TotalWages             *float64 `json:"total_wages"`

	// Source tracking
	Source string `json:"source"` // "datagov" or "fixture"
}

// Valid reports whether both geographic keys are present.
func (r CanonicalRecord) Valid() bool {
	return strings.TrimSpace(r.StateName) != "" && strings.TrimSpace(r.DistrictName) != ""
}
