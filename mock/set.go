package mock

import (
	"context"

	"github.com/fwojciec/juxta"
)

var _ juxta.ComparisonSetService = (*ComparisonSetService)(nil)

// ComparisonSetService is a mock implementation of juxta.ComparisonSetService.
type ComparisonSetService struct {
	CreateSetFn          func(ctx context.Context, set *juxta.ComparisonSet) error
	FindSetByIDFn        func(ctx context.Context, id string) (*juxta.ComparisonSet, error)
	FindSetsFn           func(ctx context.Context, filter juxta.SetFilter) ([]*juxta.ComparisonSet, error)
	UpdateSetStatusFn    func(ctx context.Context, id string, status juxta.SetStatus) error
	FindSetWitnessesFn   func(ctx context.Context, setID string) ([]*juxta.Witness, error)
	AddSetWitnessesFn    func(ctx context.Context, setID string, witnessIDs []string) error
	RemoveSetWitnessesFn func(ctx context.Context, setID string) error
	FindCollatorConfigFn func(ctx context.Context, setID string) (juxta.CollatorConfig, error)
}

func (s *ComparisonSetService) CreateSet(ctx context.Context, set *juxta.ComparisonSet) error {
	return s.CreateSetFn(ctx, set)
}

func (s *ComparisonSetService) FindSetByID(ctx context.Context, id string) (*juxta.ComparisonSet, error) {
	return s.FindSetByIDFn(ctx, id)
}

func (s *ComparisonSetService) FindSets(ctx context.Context, filter juxta.SetFilter) ([]*juxta.ComparisonSet, error) {
	return s.FindSetsFn(ctx, filter)
}

func (s *ComparisonSetService) UpdateSetStatus(ctx context.Context, id string, status juxta.SetStatus) error {
	return s.UpdateSetStatusFn(ctx, id, status)
}

func (s *ComparisonSetService) FindSetWitnesses(ctx context.Context, setID string) ([]*juxta.Witness, error) {
	return s.FindSetWitnessesFn(ctx, setID)
}

func (s *ComparisonSetService) AddSetWitnesses(ctx context.Context, setID string, witnessIDs []string) error {
	return s.AddSetWitnessesFn(ctx, setID, witnessIDs)
}

func (s *ComparisonSetService) RemoveSetWitnesses(ctx context.Context, setID string) error {
	return s.RemoveSetWitnessesFn(ctx, setID)
}

func (s *ComparisonSetService) FindCollatorConfig(ctx context.Context, setID string) (juxta.CollatorConfig, error) {
	return s.FindCollatorConfigFn(ctx, setID)
}

var _ juxta.AlignmentService = (*AlignmentService)(nil)

// AlignmentService is a mock implementation of juxta.AlignmentService.
type AlignmentService struct {
	ClearAlignmentsFn func(ctx context.Context, setID string) error
}

func (s *AlignmentService) ClearAlignments(ctx context.Context, setID string) error {
	return s.ClearAlignmentsFn(ctx, setID)
}

var _ juxta.CacheService = (*CacheService)(nil)

// CacheService is a mock implementation of juxta.CacheService.
type CacheService struct {
	DeleteHeatmapFn func(ctx context.Context, setID string) error
}

func (s *CacheService) DeleteHeatmap(ctx context.Context, setID string) error {
	return s.DeleteHeatmapFn(ctx, setID)
}

var _ juxta.Tokenizer = (*Tokenizer)(nil)

// Tokenizer is a mock implementation of juxta.Tokenizer.
type Tokenizer struct {
	TokenizeFn func(ctx context.Context, set *juxta.ComparisonSet, cfg juxta.CollatorConfig, status juxta.StatusSink) error
}

func (t *Tokenizer) Tokenize(ctx context.Context, set *juxta.ComparisonSet, cfg juxta.CollatorConfig, status juxta.StatusSink) error {
	return t.TokenizeFn(ctx, set, cfg, status)
}

var _ juxta.Collator = (*Collator)(nil)

// Collator is a mock implementation of juxta.Collator.
type Collator struct {
	CollateFn func(ctx context.Context, set *juxta.ComparisonSet, cfg juxta.CollatorConfig, status juxta.StatusSink) error
}

func (c *Collator) Collate(ctx context.Context, set *juxta.ComparisonSet, cfg juxta.CollatorConfig, status juxta.StatusSink) error {
	return c.CollateFn(ctx, set, cfg, status)
}
