package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no report exists for an id.
var ErrNotFound = errors.New("report not found")

// Entry is a stored report with the columns used for lookup.
type Entry struct {
	ID          string          `json:"id"`
	CompanyName string          `json:"company_name"`
	Sector      string          `json:"sector,omitempty"`
	HealthScore float64         `json:"health_score"`
	CreatedAt   time.Time       `json:"created_at"`
	Report      json.RawMessage `json:"report"`
}

// ReportRepo stores report JSON in Postgres.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepo creates a repository over pool.
func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// Save upserts an entry by id.
func (r *ReportRepo) Save(ctx context.Context, e *Entry) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	query := `
		INSERT INTO analysis_reports (id, company_name, sector, health_score, report_json, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			company_name = EXCLUDED.company_name,
			sector = EXCLUDED.sector,
			health_score = EXCLUDED.health_score,
			report_json = EXCLUDED.report_json,
			created_at = EXCLUDED.created_at;
	`
	_, err := r.pool.Exec(ctx, query, e.ID, e.CompanyName, e.Sector, e.HealthScore, []byte(e.Report), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// Load retrieves an entry by id.
func (r *ReportRepo) Load(ctx context.Context, id string) (*Entry, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT id::text, company_name, COALESCE(sector, ''), COALESCE(health_score, 0), report_json, created_at
		FROM analysis_reports
		WHERE id = $1
	`
	var e Entry
	var data []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(&e.ID, &e.CompanyName, &e.Sector, &e.HealthScore, &data, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	e.Report = json.RawMessage(data)
	return &e, nil
}

// ListByCompany returns the newest entries for a company, without report bodies.
func (r *ReportRepo) ListByCompany(ctx context.Context, company string, limit int) ([]Entry, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT id::text, company_name, COALESCE(sector, ''), COALESCE(health_score, 0), created_at
		FROM analysis_reports
		WHERE company_name = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, company, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.CompanyName, &e.Sector, &e.HealthScore, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
