package mock

import (
	"context"

	"github.com/fwojciec/juxta"
)

var _ juxta.NoteService = (*NoteService)(nil)

// NoteService is a mock implementation of juxta.NoteService.
type NoteService struct {
	CreateNotesFn func(ctx context.Context, witnessID string, notes []*juxta.Note) error
	FindNotesFn   func(ctx context.Context, witnessID string) ([]*juxta.Note, error)
	DeleteNotesFn func(ctx context.Context, witnessID string) error
}

func (s *NoteService) CreateNotes(ctx context.Context, witnessID string, notes []*juxta.Note) error {
	return s.CreateNotesFn(ctx, witnessID, notes)
}

func (s *NoteService) FindNotes(ctx context.Context, witnessID string) ([]*juxta.Note, error) {
	return s.FindNotesFn(ctx, witnessID)
}

func (s *NoteService) DeleteNotes(ctx context.Context, witnessID string) error {
	return s.DeleteNotesFn(ctx, witnessID)
}

var _ juxta.PageBreakService = (*PageBreakService)(nil)

// PageBreakService is a mock implementation of juxta.PageBreakService.
type PageBreakService struct {
	CreatePageBreaksFn func(ctx context.Context, witnessID string, breaks []*juxta.PageBreak) error
	FindPageBreaksFn   func(ctx context.Context, witnessID string) ([]*juxta.PageBreak, error)
	DeletePageBreaksFn func(ctx context.Context, witnessID string) error
}

func (s *PageBreakService) CreatePageBreaks(ctx context.Context, witnessID string, breaks []*juxta.PageBreak) error {
	return s.CreatePageBreaksFn(ctx, witnessID, breaks)
}

func (s *PageBreakService) FindPageBreaks(ctx context.Context, witnessID string) ([]*juxta.PageBreak, error) {
	return s.FindPageBreaksFn(ctx, witnessID)
}

func (s *PageBreakService) DeletePageBreaks(ctx context.Context, witnessID string) error {
	return s.DeletePageBreaksFn(ctx, witnessID)
}

var _ juxta.RevisionService = (*RevisionService)(nil)

// RevisionService is a mock implementation of juxta.RevisionService.
type RevisionService struct {
	CreateRevisionsFn func(ctx context.Context, witnessID string, revs []*juxta.RevisionSpan) error
	FindRevisionsFn   func(ctx context.Context, witnessID string) ([]*juxta.RevisionSpan, error)
	DeleteRevisionsFn func(ctx context.Context, witnessID string) error
}

func (s *RevisionService) CreateRevisions(ctx context.Context, witnessID string, revs []*juxta.RevisionSpan) error {
	return s.CreateRevisionsFn(ctx, witnessID, revs)
}

func (s *RevisionService) FindRevisions(ctx context.Context, witnessID string) ([]*juxta.RevisionSpan, error) {
	return s.FindRevisionsFn(ctx, witnessID)
}

func (s *RevisionService) DeleteRevisions(ctx context.Context, witnessID string) error {
	return s.DeleteRevisionsFn(ctx, witnessID)
}
