package performance

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes(s *Service) http.Handler {
	r := chi.NewRouter()

	r.Get("/performance", s.GetPerformance)
	r.Delete("/performance/cache", s.InvalidatePerformance)

	r.Route("/comparatives", func(r chi.Router) {
		r.Get("/state-average", s.GetStateAverage)
		r.Get("/district-comparison", s.GetDistrictComparison)
	})

	r.Get("/districts", s.ListDistricts)
	r.Get("/healthz", s.Healthz)

	return r
}
