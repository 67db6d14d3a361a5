package mock

import (
	"context"
	"io"

	"github.com/fwojciec/juxta"
)

var _ juxta.SourceService = (*SourceService)(nil)

// SourceService is a mock implementation of juxta.SourceService.
type SourceService struct {
	FindSourceByIDFn func(ctx context.Context, id string) (*juxta.Source, error)
	OpenSourceFn     func(ctx context.Context, id string) (io.ReadCloser, error)
}

func (s *SourceService) FindSourceByID(ctx context.Context, id string) (*juxta.Source, error) {
	return s.FindSourceByIDFn(ctx, id)
}

func (s *SourceService) OpenSource(ctx context.Context, id string) (io.ReadCloser, error) {
	return s.OpenSourceFn(ctx, id)
}
