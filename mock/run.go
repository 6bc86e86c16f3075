package mock

import (
	"context"

	"github.com/fwojciec/linkscan"
)

var _ linkscan.RunService = (*RunService)(nil)

// RunService is a mock implementation of linkscan.RunService.
type RunService struct {
	CreateRunFn       func(ctx context.Context, report *linkscan.Report) (*linkscan.Run, error)
	FindRunByIDFn     func(ctx context.Context, id string) (*linkscan.Run, error)
	FindRunsFn        func(ctx context.Context, filter linkscan.RunFilter) ([]*linkscan.Run, error)
	FindBrokenLinksFn func(ctx context.Context, runID string) ([]linkscan.BrokenLink, error)
	DeleteRunFn       func(ctx context.Context, id string) error
}

func (s *RunService) CreateRun(ctx context.Context, report *linkscan.Report) (*linkscan.Run, error) {
	return s.CreateRunFn(ctx, report)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*linkscan.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter linkscan.RunFilter) ([]*linkscan.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) FindBrokenLinks(ctx context.Context, runID string) ([]linkscan.BrokenLink, error) {
	return s.FindBrokenLinksFn(ctx, runID)
}

func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	return s.DeleteRunFn(ctx, id)
}
