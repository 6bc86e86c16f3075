package mock

import (
	"context"

	"github.com/fwojciec/linkscan"
)

var _ linkscan.Prober = (*Prober)(nil)

// Prober is a mock implementation of linkscan.Prober.
type Prober struct {
	ProbeFn func(ctx context.Context, url string) *linkscan.ValidationResult
}

func (p *Prober) Probe(ctx context.Context, url string) *linkscan.ValidationResult {
	return p.ProbeFn(ctx, url)
}
