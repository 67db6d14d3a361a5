package sqlite

import (
	"context"
	"database/sql"

	"github.com/fwojciec/juxta"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ juxta.NoteService      = (*NoteService)(nil)
	_ juxta.PageBreakService = (*PageBreakService)(nil)
	_ juxta.RevisionService  = (*RevisionService)(nil)
)

// bulkInsert runs insert once per row inside a single transaction.
func bulkInsert(ctx context.Context, db *DB, query string, n int, row func(i int) []any) error {
	if n == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollback(tx)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, row(i)...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// NoteService implements juxta.NoteService using SQLite.
type NoteService struct {
	db *DB
}

// NewNoteService creates a new NoteService.
func NewNoteService(db *DB) *NoteService {
	return &NoteService{db: db}
}

// CreateNotes stamps every note with witnessID and stores them.
func (s *NoteService) CreateNotes(ctx context.Context, witnessID string, notes []*juxta.Note) error {
	for _, n := range notes {
		if err := n.Anchor.Validate(); err != nil {
			return err
		}
	}
	return bulkInsert(ctx, s.db, `
		INSERT INTO notes (id, witness_id, type, target_id, anchor_start, anchor_end, content)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, len(notes), func(i int) []any {
		n := notes[i]
		n.ID = uuid.New().String()
		n.WitnessID = witnessID
		return []any{n.ID, n.WitnessID, n.Type, n.TargetID, n.Anchor.Start, n.Anchor.End, n.Content}
	})
}

// FindNotes returns the notes of a witness ordered by anchor.
func (s *NoteService) FindNotes(ctx context.Context, witnessID string) ([]*juxta.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, witness_id, type, target_id, anchor_start, anchor_end, content
		FROM notes
		WHERE witness_id = ?
		ORDER BY anchor_start ASC, anchor_end ASC, rowid ASC
	`, witnessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*juxta.Note
	for rows.Next() {
		var n juxta.Note
		if err := rows.Scan(&n.ID, &n.WitnessID, &n.Type, &n.TargetID,
			&n.Anchor.Start, &n.Anchor.End, &n.Content); err != nil {
			return nil, err
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}

// DeleteNotes removes all notes of a witness.
func (s *NoteService) DeleteNotes(ctx context.Context, witnessID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE witness_id = ?", witnessID)
	return err
}

// PageBreakService implements juxta.PageBreakService using SQLite.
type PageBreakService struct {
	db *DB
}

// NewPageBreakService creates a new PageBreakService.
func NewPageBreakService(db *DB) *PageBreakService {
	return &PageBreakService{db: db}
}

// CreatePageBreaks stamps every page break with witnessID and stores them.
func (s *PageBreakService) CreatePageBreaks(ctx context.Context, witnessID string, breaks []*juxta.PageBreak) error {
	for _, pb := range breaks {
		if pb.Offset < 0 {
			return juxta.Errorf(juxta.EINVALID, "page break offset %d is negative", pb.Offset)
		}
	}
	return bulkInsert(ctx, s.db, `
		INSERT INTO page_breaks (id, witness_id, position, label) VALUES (?, ?, ?, ?)
	`, len(breaks), func(i int) []any {
		pb := breaks[i]
		pb.ID = uuid.New().String()
		pb.WitnessID = witnessID
		return []any{pb.ID, pb.WitnessID, pb.Offset, pb.Label}
	})
}

// FindPageBreaks returns the page breaks of a witness by offset.
func (s *PageBreakService) FindPageBreaks(ctx context.Context, witnessID string) ([]*juxta.PageBreak, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, witness_id, position, label
		FROM page_breaks
		WHERE witness_id = ?
		ORDER BY position ASC, rowid ASC
	`, witnessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var breaks []*juxta.PageBreak
	for rows.Next() {
		var pb juxta.PageBreak
		if err := rows.Scan(&pb.ID, &pb.WitnessID, &pb.Offset, &pb.Label); err != nil {
			return nil, err
		}
		breaks = append(breaks, &pb)
	}
	return breaks, rows.Err()
}

// DeletePageBreaks removes all page breaks of a witness.
func (s *PageBreakService) DeletePageBreaks(ctx context.Context, witnessID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM page_breaks WHERE witness_id = ?", witnessID)
	return err
}

// RevisionService implements juxta.RevisionService using SQLite.
type RevisionService struct {
	db *DB
}

// NewRevisionService creates a new RevisionService.
func NewRevisionService(db *DB) *RevisionService {
	return &RevisionService{db: db}
}

// CreateRevisions stamps every revision with witnessID and stores them.
func (s *RevisionService) CreateRevisions(ctx context.Context, witnessID string, revs []*juxta.RevisionSpan) error {
	for _, r := range revs {
		if _, ok := juxta.ParseRevisionKind(string(r.Kind)); !ok {
			return juxta.Errorf(juxta.EINVALID, "unknown revision kind %q", r.Kind)
		}
		if err := r.Range.Validate(); err != nil {
			return err
		}
	}
	return bulkInsert(ctx, s.db, `
		INSERT INTO revisions (id, witness_id, kind, range_start, range_end, content, included)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, len(revs), func(i int) []any {
		r := revs[i]
		r.ID = uuid.New().String()
		r.WitnessID = witnessID
		return []any{r.ID, r.WitnessID, string(r.Kind), r.Range.Start, r.Range.End, r.Content, boolInt(r.Included)}
	})
}

// FindRevisions returns the revisions of a witness by position.
func (s *RevisionService) FindRevisions(ctx context.Context, witnessID string) ([]*juxta.RevisionSpan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, witness_id, kind, range_start, range_end, content, included
		FROM revisions
		WHERE witness_id = ?
		ORDER BY range_start ASC, rowid ASC
	`, witnessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revs []*juxta.RevisionSpan
	for rows.Next() {
		var r juxta.RevisionSpan
		var kind string
		var included sql.NullBool
		if err := rows.Scan(&r.ID, &r.WitnessID, &kind, &r.Range.Start, &r.Range.End,
			&r.Content, &included); err != nil {
			return nil, err
		}
		r.Kind = juxta.RevisionKind(kind)
		r.Included = included.Bool
		revs = append(revs, &r)
	}
	return revs, rows.Err()
}

// DeleteRevisions removes all revisions of a witness.
func (s *RevisionService) DeleteRevisions(ctx context.Context, witnessID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM revisions WHERE witness_id = ?", witnessID)
	return err
}
