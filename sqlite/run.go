package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/linkscan"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ linkscan.RunService = (*RunService)(nil)

// RunService implements linkscan.RunService using SQLite.
// Runs are an audit log of finished scans and are never resumed.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

const runColumns = `id, base_url, started_at, finished_at, pages_scanned, links_found, unique_links, broken_links`

// CreateRun saves the report with its pages, references and results in a
// single transaction. The generated ID is also assigned to report.ID.
func (s *RunService) CreateRun(ctx context.Context, report *linkscan.Report) (*linkscan.Run, error) {
	if report.BaseURL == "" {
		return nil, linkscan.Errorf(linkscan.EINVALID, "report base URL required")
	}

	stats := report.Stats()
	run := &linkscan.Run{
		ID:           uuid.New().String(),
		BaseURL:      report.BaseURL,
		StartedAt:    report.StartedAt.UTC().Truncate(time.Second),
		FinishedAt:   report.FinishedAt.UTC().Truncate(time.Second),
		PagesScanned: stats.PagesScanned,
		LinksFound:   stats.LinksFound,
		UniqueLinks:  stats.UniqueLinks,
		BrokenLinks:  stats.BrokenLinks,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.BaseURL, formatTime(run.StartedAt), formatTime(run.FinishedAt),
		run.PagesScanned, run.LinksFound, run.UniqueLinks, run.BrokenLinks); err != nil {
		return nil, err
	}

	position := 0
	for i, page := range report.Pages {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pages (run_id, url, depth, content_hash, position, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, page.URL, page.Depth, page.ContentHash, i, formatTime(page.FetchedAt)); err != nil {
			return nil, err
		}

		for _, ref := range report.Links[page.URL] {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO refs (run_id, source_page, url, tag, attr, anchor_text, link_type, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, run.ID, ref.SourcePage, ref.URL, ref.Origin.Tag, ref.Origin.Attr, ref.AnchorText,
				string(ref.Type), position); err != nil {
				return nil, err
			}
			position++
		}
	}

	for url, result := range report.Results {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO results (run_id, url, status_code, status_text, response_time_ms, error,
				redirect_url, content_type, final_url, broken)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, url, nullStatus(result.StatusCode), result.StatusText, result.ResponseTimeMS(), result.Error,
			result.RedirectURL, result.ContentType, result.FinalURL, result.Broken()); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	report.ID = run.ID
	return run, nil
}

// FindRunByID retrieves a run summary by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*linkscan.Run, error) {
	runs, err := s.FindRuns(ctx, linkscan.RunFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, linkscan.Errorf(linkscan.ENOTFOUND, "run not found")
	}
	return runs[0], nil
}

// FindRuns retrieves run summaries matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter linkscan.RunFilter) ([]*linkscan.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + runColumns + " FROM runs WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.BaseURL != nil {
		query.WriteString(" AND base_url = ?")
		args = append(args, *filter.BaseURL)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*linkscan.Run
	for rows.Next() {
		var run linkscan.Run
		var startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &run.BaseURL, &startedAt, &finishedAt,
			&run.PagesScanned, &run.LinksFound, &run.UniqueLinks, &run.BrokenLinks); err != nil {
			return nil, err
		}

		if run.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
			return nil, err
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// FindBrokenLinks retrieves one entry per broken reference recorded for a
// run, in the order the references were found. References to the same URL
// share a single result.
func (s *RunService) FindBrokenLinks(ctx context.Context, runID string) ([]linkscan.BrokenLink, error) {
	if _, err := s.FindRunByID(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT f.url, f.source_page, f.tag, f.attr, f.anchor_text, f.link_type,
			r.status_code, r.status_text, r.response_time_ms, r.error,
			r.redirect_url, r.content_type, r.final_url
		FROM refs f
		JOIN results r ON r.run_id = f.run_id AND r.url = f.url
		WHERE f.run_id = ? AND r.broken = 1
		ORDER BY f.position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make(map[string]*linkscan.ValidationResult)
	var links []linkscan.BrokenLink
	for rows.Next() {
		var ref linkscan.Reference
		var linkType string
		var result linkscan.ValidationResult
		var status sql.NullInt64
		var responseMS int64

		if err := rows.Scan(&ref.URL, &ref.SourcePage, &ref.Origin.Tag, &ref.Origin.Attr, &ref.AnchorText, &linkType,
			&status, &result.StatusText, &responseMS, &result.Error,
			&result.RedirectURL, &result.ContentType, &result.FinalURL); err != nil {
			return nil, err
		}
		ref.Type = linkscan.LinkType(linkType)

		shared, ok := results[ref.URL]
		if !ok {
			result.URL = ref.URL
			result.ResponseTime = time.Duration(responseMS) * time.Millisecond
			result.StatusCode = statusPtr(status)
			shared = &result
			results[ref.URL] = shared
		}

		links = append(links, linkscan.BrokenLink{Reference: ref, Result: shared})
	}

	return links, rows.Err()
}

// DeleteRun permanently removes a run and everything recorded with it.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return linkscan.Errorf(linkscan.ENOTFOUND, "run not found")
	}

	return nil
}
