package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linkscan"
)

// Ensure LoggingProber implements linkscan.Prober.
var _ linkscan.Prober = (*LoggingProber)(nil)

// LoggingProber wraps a Prober with logging. Broken results are logged at
// warn level and everything else at debug level.
type LoggingProber struct {
	next   linkscan.Prober
	logger *slog.Logger
}

// NewLoggingProber creates a new LoggingProber.
func NewLoggingProber(next linkscan.Prober, logger *slog.Logger) *LoggingProber {
	return &LoggingProber{next: next, logger: logger}
}

// Probe delegates to the wrapped prober and logs the outcome.
func (p *LoggingProber) Probe(ctx context.Context, url string) (result *linkscan.ValidationResult) {
	defer func(begin time.Time) {
		level := slog.LevelDebug
		if result.Broken() {
			level = slog.LevelWarn
		}
		attrs := []any{
			"url", url,
			"status", result.Status(),
			"text", result.StatusText,
		}
		if result.Redirected() {
			attrs = append(attrs, "redirect", result.RedirectURL)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", result.Error)
		p.logger.Log(ctx, level, "probe", attrs...)
	}(time.Now())
	return p.next.Probe(ctx, url)
}
