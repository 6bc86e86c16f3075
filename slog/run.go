package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linkscan"
)

// Ensure LoggingRunService implements linkscan.RunService.
var _ linkscan.RunService = (*LoggingRunService)(nil)

// LoggingRunService wraps a RunService with debug logging.
type LoggingRunService struct {
	next   linkscan.RunService
	logger *slog.Logger
}

// NewLoggingRunService creates a new LoggingRunService.
func NewLoggingRunService(next linkscan.RunService, logger *slog.Logger) *LoggingRunService {
	return &LoggingRunService{next: next, logger: logger}
}

func (s *LoggingRunService) CreateRun(ctx context.Context, report *linkscan.Report) (run *linkscan.Run, err error) {
	defer func(begin time.Time) {
		var id string
		if run != nil {
			id = run.ID
		}
		s.logger.Debug("create run",
			"id", id,
			"url", report.BaseURL,
			"pages", len(report.Pages),
			"results", len(report.Results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateRun(ctx, report)
}

func (s *LoggingRunService) FindRunByID(ctx context.Context, id string) (run *linkscan.Run, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find run",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRunByID(ctx, id)
}

func (s *LoggingRunService) FindRuns(ctx context.Context, filter linkscan.RunFilter) (runs []*linkscan.Run, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find runs",
			"count", len(runs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRuns(ctx, filter)
}

func (s *LoggingRunService) FindBrokenLinks(ctx context.Context, runID string) (links []linkscan.BrokenLink, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find broken links",
			"run", runID,
			"count", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindBrokenLinks(ctx, runID)
}

func (s *LoggingRunService) DeleteRun(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("delete run",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteRun(ctx, id)
}
