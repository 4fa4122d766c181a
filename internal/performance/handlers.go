package performance

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/EmpoweredVote/EV-Performance/internal/performance/provider"
)

// Service bundles what the HTTP handlers serve from.
type Service struct {
	Pipeline   *Pipeline
	Comparator *Comparator
	Catalogue  Catalogue
	Source     provider.Source

	// RetryAfter is advertised on 429 responses.
	RetryAfter time.Duration

	janitor      func()
	janitorEvery time.Duration
}

type errorOut struct {
	Error           string   `json:"error"`
	Kind            string   `json:"kind,omitempty"`
	AvailableStates []string `json:"available_states,omitempty"`
}

type districtOut struct {
	State     string   `json:"state"`
	Districts []string `json:"districts"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps pipeline failures onto HTTP statuses.
func (s *Service) writeError(w http.ResponseWriter, err error) {
	var nsd *NoStateDataError
	switch {
	case errors.Is(err, ErrInvalidQuery):
		writeJSON(w, http.StatusBadRequest, errorOut{Error: err.Error()})
	case errors.Is(err, ErrRateLimited):
		if s.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(s.RetryAfter.Seconds())))
		}
		writeJSON(w, http.StatusTooManyRequests, errorOut{Error: err.Error()})
	case errors.As(err, &nsd):
		writeJSON(w, http.StatusNotFound, errorOut{Error: err.Error(), AvailableStates: nsd.AvailableStates})
	case errors.Is(err, ErrNoData):
		writeJSON(w, http.StatusNotFound, errorOut{Error: err.Error()})
	case errors.Is(err, provider.ErrMissingCredential):
		writeJSON(w, http.StatusServiceUnavailable, errorOut{Error: "upstream API key is not configured", Kind: string(provider.KindMissingCredential)})
	case provider.KindOf(err) != "":
		writeJSON(w, http.StatusBadGateway, errorOut{Error: err.Error(), Kind: string(provider.KindOf(err))})
	default:
		log.Printf("[performance] internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorOut{Error: "internal server error"})
	}
}

func queryFromRequest(r *http.Request) (Query, error) {
	v := r.URL.Query()
	q := Query{
		State:    v.Get("state"),
		District: v.Get("district"),
		Month:    v.Get("month"),
		FinYear:  v.Get("year"),
	}
	if q.FinYear == "" {
		q.FinYear = v.Get("fin_year")
	}
	if raw := strings.TrimSpace(v.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Query{}, errors.Join(ErrInvalidQuery, errors.New("limit must be an integer"))
		}
		q.Limit = n
	}
	return q, nil
}

// GetPerformance serves GET /performance?state&district&month&year&limit.
func (s *Service) GetPerformance(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.Pipeline.GetOrFetch(r.Context(), q)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("X-Data-Source", string(res.Source))
	writeJSON(w, http.StatusOK, res)
}

// InvalidatePerformance serves DELETE /performance/cache with the same
// parameters as GetPerformance.
func (s *Service) InvalidatePerformance(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.Pipeline.Invalidate(q)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) GetStateAverage(w http.ResponseWriter, r *http.Request) {
	if s.Comparator == nil {
		s.writeError(w, ErrNoData)
		return
	}
	v := r.URL.Query()
	state := strings.TrimSpace(v.Get("state"))
	if state == "" {
		s.writeError(w, errors.Join(ErrInvalidQuery, errors.New("state is required")))
		return
	}

	out, err := s.Comparator.StateAverage(r.Context(), state, v.Get("district"), yearParam(v.Get("finYear"), v.Get("year")), v.Get("month"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) GetDistrictComparison(w http.ResponseWriter, r *http.Request) {
	if s.Comparator == nil {
		s.writeError(w, ErrNoData)
		return
	}
	v := r.URL.Query()
	state := strings.TrimSpace(v.Get("state"))
	d1 := strings.TrimSpace(v.Get("district1"))
	d2 := strings.TrimSpace(v.Get("district2"))
	if state == "" || d1 == "" || d2 == "" {
		s.writeError(w, errors.Join(ErrInvalidQuery, errors.New("state, district1 and district2 are required")))
		return
	}

	out, err := s.Comparator.CompareDistricts(r.Context(), state, d1, d2, yearParam(v.Get("finYear"), v.Get("year")), v.Get("month"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func yearParam(candidates ...string) string {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return ""
}

// ListDistricts serves GET /districts, grouped by state.
func (s *Service) ListDistricts(w http.ResponseWriter, r *http.Request) {
	districts, err := s.Catalogue.ListDistricts(r.Context(), strings.TrimSpace(r.URL.Query().Get("state")))
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]districtOut, 0)
	index := make(map[string]int)
	for _, d := range districts {
		i, ok := index[d.State]
		if !ok {
			i = len(out)
			index[d.State] = i
			out = append(out, districtOut{State: d.State})
		}
		out[i].Districts = append(out[i].Districts, d.Name)
	}
	writeJSON(w, http.StatusOK, out)
}

// Healthz runs the provider health check.
func (s *Service) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := s.Source.HealthCheck(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "degraded",
			"provider": s.Source.Name(),
			"error":    err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "provider": s.Source.Name()})
}
