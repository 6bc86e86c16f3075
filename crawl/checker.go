package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/linkscan"
)

// Checker runs discovery followed by validation and assembles the report.
type Checker struct {
	Discoverer *Discoverer
	Validator  *Validator
}

// Check scans the site at baseURL. An invalid base URL is rejected with
// EINVALID before any request is made.
//
// If ctx is canceled during discovery, the report holds the pages found so
// far, no validation results, and ctx.Err() is returned alongside it.
func (c *Checker) Check(ctx context.Context, baseURL string, progress ProgressFunc) (*linkscan.Report, error) {
	cfg := linkscan.NewConfig(baseURL)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	report := &linkscan.Report{
		BaseURL:   cfg.BaseURL,
		StartedAt: time.Now(),
		Results:   make(map[string]*linkscan.ValidationResult),
	}

	discovery, err := c.Discoverer.Discover(ctx, cfg.BaseURL, progress)
	report.Pages = discovery.Pages
	report.Links = discovery.Links
	if err != nil {
		report.FinishedAt = time.Now()
		return report, err
	}

	report.Results = c.Validator.Validate(ctx, report.UniqueURLs(), progress)
	report.FinishedAt = time.Now()
	return report, ctx.Err()
}
