package normalize

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// Logical field names used as keys in the synonym table.
const (
	FieldFinYear                = "fin_year"
	FieldMonth                  = "month"
	FieldStateName              = "state_name"
	FieldDistrictName           = "district_name"
	FieldHouseholdsWorked       = "households_worked"
	FieldPersondaysGenerated    = "persondays_generated"
	FieldWomenPersondaysPercent = "women_persondays_percent"
	FieldWomenPersondays        = "women_persondays"
	FieldOngoingWorks           = "ongoing_works"
	FieldCompletedWorks         = "completed_works"
	FieldAvgWageRate            = "avg_wage_rate"
	FieldTotalWages             = "total_wages"
)

var requiredFields = []string{
	FieldFinYear, FieldMonth, FieldStateName, FieldDistrictName,
	FieldHouseholdsWorked, FieldPersondaysGenerated, FieldWomenPersondaysPercent,
	FieldWomenPersondays, FieldOngoingWorks, FieldCompletedWorks,
	FieldAvgWageRate, FieldTotalWages,
}

//go:embed synonyms.yaml
var defaultTableYAML []byte

// FieldRule lists where a logical field may appear in a raw entry.
type FieldRule struct {
	Synonyms []string `yaml:"synonyms"`
	Contains []string `yaml:"contains"`
}

// Table is the synonym vocabulary driving normalization.
type Table struct {
	RecordsKeys []string             `yaml:"records_keys"`
	Fields      map[string]FieldRule `yaml:"fields"`
}

// ParseTable decodes and checks a YAML synonym table.
func ParseTable(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("parse synonym table: %w", err)
	}
	if err := t.validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// DefaultTable returns the embedded data.gov.in vocabulary.
func DefaultTable() (Table, error) {
	return ParseTable(defaultTableYAML)
}

func (t Table) validate() error {
	if len(t.RecordsKeys) == 0 {
		return errors.New("synonym table: records_keys is empty")
	}
	for _, f := range requiredFields {
		if len(t.Fields[f].Synonyms) == 0 {
			return fmt.Errorf("synonym table: field %q has no synonyms", f)
		}
	}
	return nil
}
