package juxta

import "context"

// Note is an editorial note anchored in a witness's position stream.
// The anchor is zero-width at the note's lexical position unless the note
// targets an identified element, in which case it spans that element.
type Note struct {
	ID        string `json:"id,omitempty"`
	WitnessID string `json:"witnessId,omitempty"`
	Type      string `json:"type,omitempty"`
	TargetID  string `json:"targetId,omitempty"`
	Anchor    Range  `json:"anchor"`
	Content   string `json:"content"`
}

// PageBreak marks the start of a new page at a position.
type PageBreak struct {
	ID        string `json:"id,omitempty"`
	WitnessID string `json:"witnessId,omitempty"`
	Offset    int64  `json:"offset"`
	Label     string `json:"label,omitempty"`
}

// RevisionKind names the markup that produced a revision span.
type RevisionKind string

// RevisionKind constants.
const (
	RevisionAdd     RevisionKind = "add"
	RevisionAddSpan RevisionKind = "addSpan"
	RevisionDel     RevisionKind = "del"
	RevisionDelSpan RevisionKind = "delSpan"
)

// ParseRevisionKind returns the kind for a local tag name.
func ParseRevisionKind(local string) (RevisionKind, bool) {
	switch k := RevisionKind(local); k {
	case RevisionAdd, RevisionAddSpan, RevisionDel, RevisionDelSpan:
		return k, true
	}
	return "", false
}

// RevisionSpan is an addition or deletion recorded during extraction.
// Content is always captured; Included is false when the revision was
// written inside an excluded scope and so occupies no positions.
type RevisionSpan struct {
	ID        string       `json:"id,omitempty"`
	WitnessID string       `json:"witnessId,omitempty"`
	Kind      RevisionKind `json:"kind"`
	Range     Range        `json:"range"`
	Content   string       `json:"content"`
	Included  bool         `json:"included"`
}

// NoteService represents a service for managing witness notes.
type NoteService interface {
	// CreateNotes stamps every note with witnessID and stores them.
	CreateNotes(ctx context.Context, witnessID string, notes []*Note) error

	// FindNotes returns the notes of a witness ordered by anchor.
	FindNotes(ctx context.Context, witnessID string) ([]*Note, error)

	// DeleteNotes removes all notes of a witness.
	DeleteNotes(ctx context.Context, witnessID string) error
}

// PageBreakService represents a service for managing witness page breaks.
type PageBreakService interface {
	CreatePageBreaks(ctx context.Context, witnessID string, breaks []*PageBreak) error
	FindPageBreaks(ctx context.Context, witnessID string) ([]*PageBreak, error)
	DeletePageBreaks(ctx context.Context, witnessID string) error
}

// RevisionService represents a service for managing witness revisions.
type RevisionService interface {
	CreateRevisions(ctx context.Context, witnessID string, revs []*RevisionSpan) error
	FindRevisions(ctx context.Context, witnessID string) ([]*RevisionSpan, error)
	DeleteRevisions(ctx context.Context, witnessID string) error
}
