// Package analysis runs the full pipeline for one company: build the record,
// compute the roster, compare with benchmarks, score, narrate and assemble
// the report.
package analysis

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"financial_analysis/pkg/core/benchmark"
	"financial_analysis/pkg/core/calc"
	"financial_analysis/pkg/core/logger"
	"financial_analysis/pkg/core/metrics"
	"financial_analysis/pkg/core/narrative"
	"financial_analysis/pkg/core/reference"
	"financial_analysis/pkg/core/report"
	"financial_analysis/pkg/core/scoring"
	"financial_analysis/pkg/models"
)

// AnalysisEngine orchestrates one analysis run. It holds only read-only
// tables, so a single engine serves concurrent requests.
type AnalysisEngine struct {
	clock      func() time.Time
	benchmarks *benchmark.Table
	generator  *narrative.Generator
	ref        *reference.Data
	validate   *validator.Validate
	metrics    *metrics.Registry
	log        *logrus.Entry
}

// Option configures an AnalysisEngine.
type Option func(*AnalysisEngine)

// WithClock fixes the time stamped on reports.
func WithClock(clock func() time.Time) Option {
	return func(e *AnalysisEngine) { e.clock = clock }
}

// WithBenchmarks replaces the built-in benchmark table.
func WithBenchmarks(t *benchmark.Table) Option {
	return func(e *AnalysisEngine) { e.benchmarks = t }
}

// WithRules replaces the built-in narrative rules.
func WithRules(rs *narrative.RuleSet) Option {
	return func(e *AnalysisEngine) { e.generator = narrative.NewGenerator(rs) }
}

// WithReference replaces the built-in reference lists.
func WithReference(d *reference.Data) Option {
	return func(e *AnalysisEngine) { e.ref = d }
}

// WithMetrics records runs in reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(e *AnalysisEngine) { e.metrics = reg }
}

// NewAnalysisEngine creates an engine with built-in tables unless overridden.
func NewAnalysisEngine(opts ...Option) *AnalysisEngine {
	e := &AnalysisEngine{clock: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	if e.benchmarks == nil {
		e.benchmarks = benchmark.Default()
	}
	if e.generator == nil {
		e.generator = narrative.NewGenerator(nil)
	}
	if e.ref == nil {
		e.ref = reference.Default()
	}
	e.validate = newValidator(e.ref)
	e.log = logger.For("analysis")
	return e
}

// Reference returns the reference lists requests are validated against.
func (e *AnalysisEngine) Reference() *reference.Data { return e.ref }

// Benchmarks returns the benchmark table in use.
func (e *AnalysisEngine) Benchmarks() *benchmark.Table { return e.benchmarks }

// ValidateRequest checks req against its tags and the reference lists.
func (e *AnalysisEngine) ValidateRequest(req Request) error {
	if err := e.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", models.ErrMalformedInput, describeValidation(err))
	}
	return nil
}

// AnalyzeJSON decodes a raw payload leniently and analyzes it.
func (e *AnalysisEngine) AnalyzeJSON(req Request, data []byte) (*report.Report, error) {
	payload, err := models.ParsePayload(data)
	if err != nil {
		e.finish("invalid", time.Now(), nil, err)
		return nil, err
	}
	return e.Analyze(req, payload)
}

// Analyze validates the request, builds the record from payload and runs the
// pipeline. Malformed input returns models.ErrMalformedInput; a failed report
// check returns report.ErrInvariantViolation. No partial report is returned.
func (e *AnalysisEngine) Analyze(req Request, payload models.Payload) (*report.Report, error) {
	start := time.Now()
	if err := e.ValidateRequest(req); err != nil {
		e.finish("invalid", start, nil, err)
		return nil, err
	}
	rec, err := models.NewFinancialRecord(req.company(), payload)
	if err != nil {
		e.finish("invalid", start, nil, err)
		return nil, err
	}
	r, err := e.run(req, rec)
	e.finish(outcome(err), start, r, err)
	return r, err
}

// AnalyzeRecord runs the pipeline over an already built record.
func (e *AnalysisEngine) AnalyzeRecord(req Request, rec *models.FinancialRecord) (*report.Report, error) {
	start := time.Now()
	if rec == nil {
		err := fmt.Errorf("%w: nil record", models.ErrMalformedInput)
		e.finish("invalid", start, nil, err)
		return nil, err
	}
	if err := e.ValidateRequest(req); err != nil {
		e.finish("invalid", start, nil, err)
		return nil, err
	}
	r, err := e.run(req, rec)
	e.finish(outcome(err), start, r, err)
	return r, err
}

func (e *AnalysisEngine) run(req Request, rec *models.FinancialRecord) (*report.Report, error) {
	req = req.withDefaults()

	averages := rec.IndustryAverages()
	if unknown := benchmark.UnknownMetrics(averages); len(unknown) > 0 {
		return nil, fmt.Errorf("%w: unknown industry average metrics: %s",
			models.ErrMalformedInput, strings.Join(unknown, ", "))
	}

	results := calc.Compute(rec)
	set := e.benchmarks.For(req.Sector, averages)
	comparisons := benchmark.CompareAll(results, set)
	health := scoring.Score(results, set)

	text, err := e.generator.Generate(results, comparisons)
	if err != nil {
		return nil, fmt.Errorf("%w: narrative: %v", report.ErrInvariantViolation, err)
	}

	return report.Build(report.Input{
		Metadata: report.Metadata{
			CompanyName:     req.CompanyName,
			Sector:          req.Sector,
			Activity:        req.Activity,
			LegalEntity:     req.LegalEntity,
			ComparisonLevel: req.ComparisonLevel,
			AnalysisYears:   req.AnalysisYears,
			Language:        req.Language,
			AnalysisTypes:   req.AnalysisTypes,
			GeneratedAt:     e.clock().UTC(),
		},
		Record:      rec,
		Results:     results,
		Comparisons: comparisons,
		Health:      health,
		Narrative:   text,
	})
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrMalformedInput):
		return "invalid"
	default:
		return "error"
	}
}

func (e *AnalysisEngine) finish(result string, start time.Time, r *report.Report, err error) {
	elapsed := time.Since(start)
	if e.metrics != nil {
		e.metrics.RecordAnalysis(result, elapsed)
		if r != nil {
			e.metrics.RecordReport(r.TotalMetricCount, r.DefinedMetricCount, r.HealthScore.Score)
		}
	}

	entry := e.log.WithFields(logrus.Fields{"result": result, "elapsed": elapsed})
	switch {
	case err == nil:
		entry.WithFields(logrus.Fields{
			"company": r.Metadata.CompanyName,
			"metrics": r.TotalMetricCount,
			"defined": r.DefinedMetricCount,
			"score":   r.HealthScore.Score,
		}).Info("analysis finished")
	case result == "invalid":
		entry.WithError(err).Warn("analysis rejected")
	default:
		entry.WithError(err).Error("analysis failed")
	}
}
