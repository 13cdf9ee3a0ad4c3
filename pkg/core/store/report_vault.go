package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is what the API needs from report persistence.
type Store interface {
	Save(ctx context.Context, e *Entry) error
	Get(ctx context.Context, id string) (*Entry, error)
	ListByCompany(ctx context.Context, company string, limit int) ([]Entry, error)
	Backend() string
}

// ReportVault is a hybrid report store: Postgres when a pool is configured,
// JSON files in a directory otherwise.
type ReportVault struct {
	repo    *ReportRepo
	fileDir string
}

// NewReportVault creates a vault. With a nil pool and empty dir, files go to
// .cache/reports.
func NewReportVault(pool *pgxpool.Pool, dir string) (*ReportVault, error) {
	v := &ReportVault{}
	if pool != nil {
		v.repo = NewReportRepo(pool)
		return v, nil
	}
	if dir == "" {
		dir = filepath.Join(".cache", "reports")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report dir %s: %w", dir, err)
	}
	v.fileDir = dir
	return v, nil
}

// Backend names the active storage backend.
func (v *ReportVault) Backend() string {
	if v.repo != nil {
		return "postgres"
	}
	return "file"
}

// Save stores an entry. Ids must be UUIDs.
func (v *ReportVault) Save(ctx context.Context, e *Entry) error {
	if _, err := uuid.Parse(e.ID); err != nil {
		return fmt.Errorf("invalid report id %q: %w", e.ID, err)
	}
	if v.repo != nil {
		return v.repo.Save(ctx, e)
	}

	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report entry: %w", err)
	}
	tmp := v.path(e.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to save to file store: %w", err)
	}
	if err := os.Rename(tmp, v.path(e.ID)); err != nil {
		return fmt.Errorf("failed to save to file store: %w", err)
	}
	return nil
}

// Get loads an entry. Malformed ids read as not found.
func (v *ReportVault) Get(ctx context.Context, id string) (*Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	if v.repo != nil {
		return v.repo.Load(ctx, id)
	}

	entry, err := loadEntry(v.path(id))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return entry, err
}

// ListByCompany returns the newest entries for company, without report bodies.
func (v *ReportVault) ListByCompany(ctx context.Context, company string, limit int) ([]Entry, error) {
	if v.repo != nil {
		return v.repo.ListByCompany(ctx, company, limit)
	}

	files, err := os.ReadDir(v.fileDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read report dir: %w", err)
	}
	var out []Entry
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		entry, err := loadEntry(filepath.Join(v.fileDir, f.Name()))
		if err != nil {
			continue
		}
		if entry.CompanyName == company {
			entry.Report = nil
			out = append(out, *entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (v *ReportVault) path(id string) string {
	return filepath.Join(v.fileDir, id+".json")
}

func loadEntry(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &entry, nil
}
