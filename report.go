package linkscan

import (
	"context"
	"time"
)

// Report is the outcome of a scan: the pages visited, the references found
// on each, and the validation result for every unique reference URL.
type Report struct {
	ID         string                       `json:"id"`
	BaseURL    string                       `json:"baseUrl"`
	StartedAt  time.Time                    `json:"startedAt"`
	FinishedAt time.Time                    `json:"finishedAt"`
	Pages      []*PageRecord                `json:"pages"`
	Links      map[string][]Reference       `json:"links"`
	Results    map[string]*ValidationResult `json:"results"`
}

// BrokenLink ties a broken reference to the result that condemned it.
type BrokenLink struct {
	Reference Reference         `json:"reference"`
	Result    *ValidationResult `json:"result"`
}

// ReportStats summarizes a report.
type ReportStats struct {
	PagesScanned int `json:"pagesScanned"`
	LinksFound   int `json:"totalLinksFound"`
	UniqueLinks  int `json:"uniqueLinks"`
	BrokenLinks  int `json:"brokenLinks"`
}

// UniqueURLs returns every reference URL once, in the order pages were
// visited and references were found.
func (r *Report) UniqueURLs() []string {
	seen := make(map[string]bool)
	var urls []string
	for _, page := range r.Pages {
		for _, ref := range r.Links[page.URL] {
			if seen[ref.URL] {
				continue
			}
			seen[ref.URL] = true
			urls = append(urls, ref.URL)
		}
	}
	return urls
}

// BrokenLinks returns one entry per reference whose URL validated as broken.
// A broken URL found on five pages yields five entries sharing one result.
func (r *Report) BrokenLinks() []BrokenLink {
	var broken []BrokenLink
	for _, page := range r.Pages {
		for _, ref := range r.Links[page.URL] {
			result, ok := r.Results[ref.URL]
			if !ok || !result.Broken() {
				continue
			}
			broken = append(broken, BrokenLink{Reference: ref, Result: result})
		}
	}
	return broken
}

// Stats returns summary counts for the report.
func (r *Report) Stats() ReportStats {
	var found int
	for _, page := range r.Pages {
		found += len(r.Links[page.URL])
	}
	return ReportStats{
		PagesScanned: len(r.Pages),
		LinksFound:   found,
		UniqueLinks:  len(r.UniqueURLs()),
		BrokenLinks:  len(r.BrokenLinks()),
	}
}

// Duration returns how long the scan took.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Run is a summary of a saved report.
type Run struct {
	ID           string    `json:"id"`
	BaseURL      string    `json:"baseUrl"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
	PagesScanned int       `json:"pagesScanned"`
	LinksFound   int       `json:"linksFound"`
	UniqueLinks  int       `json:"uniqueLinks"`
	BrokenLinks  int       `json:"brokenLinks"`
}

// RunService stores finished reports for later review.
type RunService interface {
	// CreateRun saves a report and assigns its ID.
	CreateRun(ctx context.Context, report *Report) (*Run, error)

	// FindRunByID retrieves a run summary by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves run summaries matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindBrokenLinks retrieves the broken links recorded for a run.
	// Returns ENOTFOUND if the run does not exist.
	FindBrokenLinks(ctx context.Context, runID string) ([]BrokenLink, error)

	// DeleteRun permanently removes a run and everything recorded with it.
	// Returns ENOTFOUND if the run does not exist.
	DeleteRun(ctx context.Context, id string) error
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID      *string `json:"id"`
	BaseURL *string `json:"baseUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
