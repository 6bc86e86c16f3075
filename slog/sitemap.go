package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linkscan"
)

// Ensure LoggingSitemapService implements linkscan.SitemapService.
var _ linkscan.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging. Seeding is
// optional, so a failed lookup is a warning rather than an error.
type LoggingSitemapService struct {
	next   linkscan.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next linkscan.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the seed count.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *linkscan.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		if err != nil {
			s.logger.Warn("sitemap seeding failed",
				"url", baseURL,
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		s.logger.Info("sitemap seeding",
			"url", baseURL,
			"seeds", len(urls),
			"filtered", filter != nil,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
