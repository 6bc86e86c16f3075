package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/linkscan"
)

// Ensure LoggingExtractor implements linkscan.LinkExtractor.
var _ linkscan.LinkExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a LinkExtractor with debug logging.
// Elements that failed to parse are logged individually at warn level.
type LoggingExtractor struct {
	next   linkscan.LinkExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next linkscan.LinkExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the reference count.
func (e *LoggingExtractor) Extract(pageURL, html string) *linkscan.ExtractResult {
	begin := time.Now()
	result := e.next.Extract(pageURL, html)

	var internal int
	for _, ref := range result.References {
		if ref.IsInternal() {
			internal++
		}
	}
	e.logger.Debug("extract",
		"url", pageURL,
		"refs", len(result.References),
		"internal", internal,
		"errors", len(result.Errors),
		"duration", time.Since(begin),
	)
	for _, xerr := range result.Errors {
		e.logger.Warn("extract element",
			"url", pageURL,
			"origin", xerr.Origin.String(),
			"raw", xerr.Raw,
			"err", xerr.Err,
		)
	}
	return result
}
