// Package analysis exposes the analysis engine over HTTP.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	coreAnalysis "financial_analysis/pkg/core/analysis"
	"financial_analysis/pkg/core/logger"
	"financial_analysis/pkg/core/metrics"
	"financial_analysis/pkg/core/report"
	"financial_analysis/pkg/core/store"
	"financial_analysis/pkg/models"
)

// maxBodyBytes bounds one request body.
const maxBodyBytes = 4 << 20

// AnalysisRequest is the body of POST /api/analysis: the request fields plus
// the financial data payload.
type AnalysisRequest struct {
	coreAnalysis.Request
	FinancialData json.RawMessage `json:"financial_data"`
}

// BatchRequest is the body of POST /api/analysis/batch.
type BatchRequest struct {
	Items []AnalysisRequest `json:"items"`
}

// BatchResult is one item of a batch response, in request order.
type BatchResult struct {
	Index  int            `json:"index"`
	ID     string         `json:"id,omitempty"`
	Report *report.Report `json:"report,omitempty"`
	Error  string         `json:"error,omitempty"`
	Status int            `json:"status"`
}

// Handler holds dependencies for analysis endpoints.
type Handler struct {
	Engine           *coreAnalysis.AnalysisEngine
	Store            store.Store
	Metrics          *metrics.Registry
	BatchConcurrency int
	BatchMaxItems    int

	newID func() string
	log   *logrus.Entry
}

// NewHandler creates a handler. st may be nil, in which case reports are not
// persisted and lookups answer 503.
func NewHandler(engine *coreAnalysis.AnalysisEngine, st store.Store, reg *metrics.Registry) *Handler {
	return &Handler{
		Engine:           engine,
		Store:            st,
		Metrics:          reg,
		BatchConcurrency: 4,
		BatchMaxItems:    50,
		newID:            uuid.NewString,
		log:              logger.For("api"),
	}
}

// Register mounts the analysis routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/analysis", h.HandleAnalyze).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/analysis", h.HandleList).Methods(http.MethodGet)
	r.HandleFunc("/api/analysis/batch", h.HandleBatch).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/analysis/summary", h.HandleSummary).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/analysis/{id}", h.HandleGet).Methods(http.MethodGet)
}

// HandleAnalyze runs one analysis and returns the report JSON.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rep, err := h.run(req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	h.persist(r.Context(), rep)
	writeJSON(w, http.StatusOK, rep)
}

// HandleSummary runs one analysis and returns the executive summary as HTML,
// or Markdown with ?format=markdown.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rep, err := h.run(req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		fmt.Fprint(w, rep.Markdown())
		return
	}
	html, err := rep.HTML()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

// HandleBatch runs independent analyses in parallel with bounded concurrency.
// One failing item does not affect the others.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("batch has no items"))
		return
	}
	if h.BatchMaxItems > 0 && len(req.Items) > h.BatchMaxItems {
		writeError(w, http.StatusBadRequest, fmt.Errorf("batch has %d items, limit is %d", len(req.Items), h.BatchMaxItems))
		return
	}

	results := make([]BatchResult, len(req.Items))
	g, ctx := errgroup.WithContext(r.Context())
	if h.BatchConcurrency > 0 {
		g.SetLimit(h.BatchConcurrency)
	}
	for i, item := range req.Items {
		i, item := i, item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rep, err := h.run(item)
			if err != nil {
				results[i] = BatchResult{Index: i, Error: err.Error(), Status: statusFor(err)}
				return nil
			}
			h.persist(ctx, rep)
			results[i] = BatchResult{Index: i, ID: rep.ID, Report: rep, Status: http.StatusOK}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// HandleGet returns a stored report by id.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("report storage is not configured"))
		return
	}
	entry, err := h.Store.Get(r.Context(), mux.Vars(r)["id"])
	h.recordStore("get", err)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(entry.Report)
}

// HandleList lists stored reports for ?company=, newest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("report storage is not configured"))
		return
	}
	company := r.URL.Query().Get("company")
	if company == "" {
		writeError(w, http.StatusBadRequest, errors.New("company query parameter is required"))
		return
	}
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", s))
			return
		}
		limit = n
	}

	entries, err := h.Store.ListByCompany(r.Context(), company, limit)
	h.recordStore("list", err)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []store.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": entries})
}

func (h *Handler) run(req AnalysisRequest) (*report.Report, error) {
	var (
		rep *report.Report
		err error
	)
	if len(req.FinancialData) == 0 || string(req.FinancialData) == "null" {
		rep, err = h.Engine.Analyze(req.Request, nil)
	} else {
		rep, err = h.Engine.AnalyzeJSON(req.Request, req.FinancialData)
	}
	if err != nil {
		return nil, err
	}
	rep.ID = h.newID()
	return rep, nil
}

// persist stores rep when a store is configured. Failures are logged; the
// caller still receives the report.
func (h *Handler) persist(ctx context.Context, rep *report.Report) {
	if h.Store == nil {
		return
	}
	data, err := json.Marshal(rep)
	if err == nil {
		err = h.Store.Save(ctx, &store.Entry{
			ID:          rep.ID,
			CompanyName: rep.Metadata.CompanyName,
			Sector:      rep.Metadata.Sector,
			HealthScore: rep.HealthScore.Score,
			CreatedAt:   rep.Metadata.GeneratedAt,
			Report:      data,
		})
	}
	h.recordStore("save", err)
	if err != nil {
		h.log.WithError(err).WithField("id", rep.ID).Warn("failed to store report")
	}
}

func (h *Handler) recordStore(op string, err error) {
	if h.Metrics == nil || h.Store == nil {
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		err = nil
	}
	h.Metrics.RecordStore(h.Store.Backend(), op, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrMalformedInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
