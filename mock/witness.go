package mock

import (
	"context"
	"io"

	"github.com/fwojciec/juxta"
)

var _ juxta.WitnessParser = (*WitnessParser)(nil)

// WitnessParser is a mock implementation of juxta.WitnessParser.
type WitnessParser struct {
	ParseWitnessesFn func(r io.Reader) ([]juxta.WitnessInfo, error)
}

func (p *WitnessParser) ParseWitnesses(r io.Reader) ([]juxta.WitnessInfo, error) {
	return p.ParseWitnessesFn(r)
}

var _ juxta.WitnessService = (*WitnessService)(nil)

// WitnessService is a mock implementation of juxta.WitnessService.
type WitnessService struct {
	CreateWitnessFn        func(ctx context.Context, w *juxta.Witness) error
	FindWitnessByIDFn      func(ctx context.Context, id string) (*juxta.Witness, error)
	FindWitnessesFn        func(ctx context.Context, filter juxta.WitnessFilter) ([]*juxta.Witness, error)
	UpdateWitnessContentFn func(ctx context.Context, id string, content string) (*juxta.Witness, error)
	DeleteWitnessFn        func(ctx context.Context, id string) error
}

func (s *WitnessService) CreateWitness(ctx context.Context, w *juxta.Witness) error {
	return s.CreateWitnessFn(ctx, w)
}

func (s *WitnessService) FindWitnessByID(ctx context.Context, id string) (*juxta.Witness, error) {
	return s.FindWitnessByIDFn(ctx, id)
}

func (s *WitnessService) FindWitnesses(ctx context.Context, filter juxta.WitnessFilter) ([]*juxta.Witness, error) {
	return s.FindWitnessesFn(ctx, filter)
}

func (s *WitnessService) UpdateWitnessContent(ctx context.Context, id string, content string) (*juxta.Witness, error) {
	return s.UpdateWitnessContentFn(ctx, id, content)
}

func (s *WitnessService) DeleteWitness(ctx context.Context, id string) error {
	return s.DeleteWitnessFn(ctx, id)
}
