// Package reference serves the static lists and tables clients need to
// build an analysis request.
package reference

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"financial_analysis/pkg/core/benchmark"
	"financial_analysis/pkg/core/calc"
	coreReference "financial_analysis/pkg/core/reference"
)

// RosterEntry describes one metric of the roster.
type RosterEntry struct {
	Name      string        `json:"name"`
	Label     string        `json:"label"`
	Category  calc.Category `json:"category"`
	Kind      calc.Kind     `json:"kind"`
	Direction string        `json:"direction"`
}

// CategoryCount is one category with its metric count.
type CategoryCount struct {
	Category calc.Category `json:"category"`
	Count    int           `json:"count"`
}

// RosterResponse is the body of GET /api/metrics/roster.
type RosterResponse struct {
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
	Metrics    []RosterEntry   `json:"metrics"`
}

// Handler holds dependencies for reference endpoints.
type Handler struct {
	Data       *coreReference.Data
	Benchmarks *benchmark.Table
}

// NewHandler creates a reference handler.
func NewHandler(data *coreReference.Data, benchmarks *benchmark.Table) *Handler {
	return &Handler{Data: data, Benchmarks: benchmarks}
}

// Register mounts the reference routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/sectors", h.list(coreReference.ListSectors)).Methods(http.MethodGet)
	r.HandleFunc("/api/legal-entities", h.list(coreReference.ListLegalEntities)).Methods(http.MethodGet)
	r.HandleFunc("/api/comparison-levels", h.list(coreReference.ListComparisonLevels)).Methods(http.MethodGet)
	r.HandleFunc("/api/metrics/roster", h.HandleRoster).Methods(http.MethodGet)
	r.HandleFunc("/api/benchmarks", h.HandleBenchmarks).Methods(http.MethodGet)
}

type option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *Handler) list(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var items []coreReference.Item
		switch name {
		case coreReference.ListSectors:
			items = h.Data.Sectors
		case coreReference.ListLegalEntities:
			items = h.Data.LegalEntities
		case coreReference.ListComparisonLevels:
			items = h.Data.ComparisonLevels
		}

		lang := r.URL.Query().Get("lang")
		out := make([]option, 0, len(items))
		for _, it := range items {
			out = append(out, option{ID: it.ID, Name: it.Name(lang)})
		}
		writeJSON(w, map[string]any{name: out})
	}
}

// HandleRoster lists every metric with its category, unit and direction.
func (h *Handler) HandleRoster(w http.ResponseWriter, r *http.Request) {
	counts := calc.CategoryCounts()
	resp := RosterResponse{Total: calc.Total()}
	for _, c := range calc.Categories() {
		resp.Categories = append(resp.Categories, CategoryCount{Category: c, Count: counts[c]})
	}
	for _, m := range calc.Roster() {
		resp.Metrics = append(resp.Metrics, RosterEntry{
			Name:      m.Name,
			Label:     m.Label(),
			Category:  m.Category,
			Kind:      m.Kind,
			Direction: m.Direction.String(),
		})
	}
	writeJSON(w, resp)
}

// HandleBenchmarks returns the resolved benchmark set for ?sector=.
func (h *Handler) HandleBenchmarks(w http.ResponseWriter, r *http.Request) {
	sector := r.URL.Query().Get("sector")
	if sector != "" && !h.Data.HasSector(sector) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "unknown sector " + sector})
		return
	}
	set := h.Benchmarks.For(sector, nil)
	values := make(map[string]float64)
	for _, name := range set.Names() {
		values[name], _ = set.Get(name)
	}
	writeJSON(w, map[string]any{"sector": sector, "benchmarks": values})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
