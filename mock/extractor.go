package mock

import (
	"context"
	"io"

	"github.com/fwojciec/juxta"
)

var _ juxta.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of juxta.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, r io.Reader, opts juxta.ExtractOptions) (*juxta.Extraction, error)
}

func (e *Extractor) Extract(ctx context.Context, r io.Reader, opts juxta.ExtractOptions) (*juxta.Extraction, error) {
	return e.ExtractFn(ctx, r, opts)
}

var _ juxta.RuleProvider = (*RuleProvider)(nil)

// RuleProvider is a mock implementation of juxta.RuleProvider.
type RuleProvider struct {
	IsExcludedFn       func(name string, occurrence int) bool
	HasLineBreakFn     func(name string, occurrence int) bool
	DefaultNamespaceFn func() string
}

func (p *RuleProvider) IsExcluded(name string, occurrence int) bool {
	return p.IsExcludedFn(name, occurrence)
}

func (p *RuleProvider) HasLineBreak(name string, occurrence int) bool {
	return p.HasLineBreakFn(name, occurrence)
}

func (p *RuleProvider) DefaultNamespace() string {
	return p.DefaultNamespaceFn()
}
