// Package normalize turns raw data.gov.in entries into canonical records
// using a data-driven synonym table.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/EmpoweredVote/EV-Performance/internal/performance/metrics"
	"github.com/EmpoweredVote/EV-Performance/internal/performance/provider"
)

// Batch is the outcome of normalizing one payload.
type Batch struct {
	Records  []provider.CanonicalRecord
	Rejected int
}

// Normalizer resolves logical fields through a synonym Table.
type Normalizer struct {
	table Table
}

// New returns a Normalizer backed by the embedded vocabulary.
func New() (*Normalizer, error) {
	t, err := DefaultTable()
	if err != nil {
		return nil, err
	}
	return NewWithTable(t), nil
}

// NewWithTable returns a Normalizer for a caller-supplied table.
func NewWithTable(t Table) *Normalizer {
	return &Normalizer{table: t}
}

// Normalize converts one raw entry. The bool is false when the entry is
// rejected for a missing state or district.
func (n *Normalizer) Normalize(entry map[string]any) (provider.CanonicalRecord, bool) {
	rec := provider.CanonicalRecord{}

	rec.StateName, _ = n.Lookup(entry, FieldStateName)
	rec.DistrictName, _ = n.Lookup(entry, FieldDistrictName)
	if !rec.Valid() {
		return provider.CanonicalRecord{}, false
	}
	rec.FinYear, _ = n.Lookup(entry, FieldFinYear)
	rec.Month, _ = n.Lookup(entry, FieldMonth)

	rec.HouseholdsWorked = n.intField(entry, FieldHouseholdsWorked)
	rec.PersondaysGenerated = n.intField(entry, FieldPersondaysGenerated)
	rec.OngoingWorks = n.intField(entry, FieldOngoingWorks)
	rec.CompletedWorks = n.intField(entry, FieldCompletedWorks)
	rec.AvgWageRate = n.floatField(entry, FieldAvgWageRate)
	rec.TotalWages = n.floatField(entry, FieldTotalWages)

	rec.WomenPersondaysPercent = n.floatField(entry, FieldWomenPersondaysPercent)
	if rec.WomenPersondaysPercent == nil {
		rec.WomenPersondaysPercent = womenPercent(n.intField(entry, FieldWomenPersondays), rec.PersondaysGenerated)
	}

	return rec, true
}

// womenPercent derives the share of women persondays. A zero or missing
// denominator leaves the metric absent.
func womenPercent(women, total *int64) *float64 {
	if women == nil || total == nil || *total <= 0 {
		return nil
	}
	pct := 100 * float64(*women) / float64(*total)
	return &pct
}

// NormalizeBatch normalizes every entry of a payload. Rejected entries are
// counted and skipped; they never abort their siblings.
func (n *Normalizer) NormalizeBatch(p provider.RawPayload) (Batch, error) {
	start := time.Now()

	_, entries, err := n.Entries(p)
	if err != nil {
		return Batch{}, err
	}

	batch := Batch{Records: make([]provider.CanonicalRecord, 0, len(entries))}
	for _, e := range entries {
		obj, ok := e.(map[string]any)
		if !ok {
			batch.Rejected++
			continue
		}
		rec, ok := n.Normalize(obj)
		if !ok {
			batch.Rejected++
			continue
		}
		batch.Records = append(batch.Records, rec)
	}

	metrics.RejectedEntries.Add(float64(batch.Rejected))
	provider.LogTransform("normalize", len(entries), len(batch.Records), batch.Rejected, time.Since(start))
	return batch, nil
}

// Entries locates the records array. Keys are tried in table order and the
// first non-empty array wins. A present but empty array yields zero entries
// without error; no array under any key is a malformed payload.
func (n *Normalizer) Entries(p provider.RawPayload) (string, []any, error) {
	emptyKey := ""
	for _, key := range n.table.RecordsKeys {
		arr, ok := p[key].([]any)
		if !ok {
			continue
		}
		if len(arr) > 0 {
			return key, arr, nil
		}
		if emptyKey == "" {
			emptyKey = key
		}
	}
	if emptyKey != "" {
		return emptyKey, nil, nil
	}
	return "", nil, provider.NewFetchError(provider.KindMalformedPayload, "normalize",
		fmt.Errorf("no records array under %v", n.table.RecordsKeys))
}

// Lookup resolves a text field through its synonyms. Blank values are
// treated as absent.
func (n *Normalizer) Lookup(entry map[string]any, field string) (string, bool) {
	for _, key := range n.table.Fields[field].Synonyms {
		if s, ok := text(entry[key]); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

func (n *Normalizer) intField(entry map[string]any, field string) *int64 {
	return resolve(entry, n.table.Fields[field], parseInt)
}

func (n *Normalizer) floatField(entry map[string]any, field string) *float64 {
	return resolve(entry, n.table.Fields[field], parseFloat)
}

// resolve tries each synonym, then the contains scan over the remaining keys
// in sorted order.
func resolve[T any](entry map[string]any, rule FieldRule, parse func(string) (T, bool)) *T {
	for _, key := range rule.Synonyms {
		if v, ok := parseValue(entry[key], parse); ok {
			return &v
		}
	}
	if len(rule.Contains) == 0 {
		return nil
	}

	keys := make([]string, 0, len(entry))
	for k := range entry {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		lower := strings.ToLower(k)
		for _, sub := range rule.Contains {
			if !strings.Contains(lower, strings.ToLower(sub)) {
				continue
			}
			if v, ok := parseValue(entry[k], parse); ok {
				return &v
			}
		}
	}
	return nil
}

func parseValue[T any](raw any, parse func(string) (T, bool)) (T, bool) {
	var zero T
	s, ok := text(raw)
	if !ok {
		return zero, false
	}
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return zero, false
	}
	return parse(s)
}

// parseInt accepts integers and integral decimals such as "1200.0".
func parseInt(s string) (int64, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// text renders a scalar JSON value. Objects, arrays and null are absent.
func text(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
