// Package api wires the HTTP handlers into one router.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"financial_analysis/pkg/api/analysis"
	"financial_analysis/pkg/api/middleware"
	"financial_analysis/pkg/api/reference"
	coreAnalysis "financial_analysis/pkg/core/analysis"
	"financial_analysis/pkg/core/calc"
	"financial_analysis/pkg/core/metrics"
	"financial_analysis/pkg/core/store"
)

// Deps are the collaborators of the router. Store and Limiter may be nil.
type Deps struct {
	Engine           *coreAnalysis.AnalysisEngine
	Store            store.Store
	Metrics          *metrics.Registry
	Limiter          *middleware.Limiter
	BatchConcurrency int
	BatchMaxItems    int
}

// NewRouter builds the full route table.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.CORS)
	r.Use(middleware.Instrument(d.Metrics))
	if d.Limiter != nil {
		r.Use(middleware.RateLimit(d.Limiter, d.Metrics))
	}

	ah := analysis.NewHandler(d.Engine, d.Store, d.Metrics)
	if d.BatchConcurrency > 0 {
		ah.BatchConcurrency = d.BatchConcurrency
	}
	if d.BatchMaxItems > 0 {
		ah.BatchMaxItems = d.BatchMaxItems
	}
	ah.Register(r)
	reference.NewHandler(d.Engine.Reference(), d.Engine.Benchmarks()).Register(r)

	r.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		backend := "none"
		if d.Store != nil {
			backend = d.Store.Backend()
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"store":   backend,
			"metrics": calc.Total(),
		})
	}).Methods(http.MethodGet)

	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler()).Methods(http.MethodGet)
	}
	return r
}
