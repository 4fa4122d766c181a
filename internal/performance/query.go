package performance

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/EmpoweredVote/EV-Performance/internal/performance/provider"
)

// DefaultQueryLimit is the row limit applied when a caller sends none.
const DefaultQueryLimit = 12

const (
	fingerprintSep   = "|"
	emptyPlaceholder = "-"
)

// Query is a caller's request for performance records.
type Query struct {
	State    string `json:"state" validate:"max=100"`
	District string `json:"district" validate:"max=100,excluded_without=State"`
	Month    string `json:"month" validate:"max=20"`
	FinYear  string `json:"fin_year" validate:"max=20"`
	Limit    int    `json:"limit" validate:"min=0,max=1000"`
}

var validate = validator.New()

// Validate checks field bounds.
func (q Query) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return nil
}

// EffectiveLimit returns the limit with the default applied.
func (q Query) EffectiveLimit() int {
	if q.Limit <= 0 {
		return DefaultQueryLimit
	}
	return q.Limit
}

// Filters returns the trimmed upstream filters for q.
func (q Query) Filters() provider.Filters {
	return provider.Filters{
		State:    strings.TrimSpace(q.State),
		District: strings.TrimSpace(q.District),
		Month:    strings.TrimSpace(q.Month),
		FinYear:  strings.TrimSpace(q.FinYear),
		Limit:    q.EffectiveLimit(),
	}
}

// Fingerprint composes the cache key state|district|month|fin_year|limit.
// Blank fields render as "-" so nil and empty inputs share a key.
func Fingerprint(q Query) string {
	parts := []string{
		placeholder(q.State),
		placeholder(q.District),
		placeholder(q.Month),
		placeholder(q.FinYear),
		strconv.Itoa(q.EffectiveLimit()),
	}
	return strings.Join(parts, fingerprintSep)
}

func placeholder(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return emptyPlaceholder
	}
	return s
}
