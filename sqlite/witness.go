package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/juxta"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ juxta.WitnessService = (*WitnessService)(nil)

// WitnessService implements juxta.WitnessService using SQLite.
// Witness content is kept in its own row so that replacing it can
// release the old text in one transaction.
type WitnessService struct {
	db *DB
}

// NewWitnessService creates a new WitnessService.
func NewWitnessService(db *DB) *WitnessService {
	return &WitnessService{db: db}
}

const witnessColumns = `w.id, w.name, w.group_id, w.source_id, t.content, t.content_hash, w.created_at, w.updated_at`

// CreateWitness creates a new witness together with its content.
func (s *WitnessService) CreateWitness(ctx context.Context, w *juxta.Witness) error {
	if err := w.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollback(tx)

	now := time.Now().UTC()
	textID, err := insertText(ctx, tx, w.Content, now)
	if err != nil {
		return err
	}

	w.ID = uuid.New().String()
	w.ContentHash = hashContent(w.Content)
	w.CreatedAt = now
	w.UpdatedAt = now

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO witnesses (id, name, group_id, source_id, text_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, w.ID, w.Name, w.GroupID, w.SourceID, textID,
		w.CreatedAt.Format(time.RFC3339), w.UpdatedAt.Format(time.RFC3339)); err != nil {
		return err
	}

	return tx.Commit()
}

// FindWitnessByID retrieves a witness by ID.
func (s *WitnessService) FindWitnessByID(ctx context.Context, id string) (*juxta.Witness, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+witnessColumns+`
		FROM witnesses w JOIN texts t ON t.id = w.text_id
		WHERE w.id = ?
	`, id)

	w, err := scanWitness(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, juxta.Errorf(juxta.ENOTFOUND, "witness not found")
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// FindWitnesses retrieves witnesses matching the filter, oldest first.
func (s *WitnessService) FindWitnesses(ctx context.Context, filter juxta.WitnessFilter) ([]*juxta.Witness, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + witnessColumns + " FROM witnesses w JOIN texts t ON t.id = w.text_id WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND w.id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND w.name = ?")
		args = append(args, *filter.Name)
	}
	if filter.SourceID != nil {
		query.WriteString(" AND w.source_id = ?")
		args = append(args, *filter.SourceID)
	}

	query.WriteString(" ORDER BY w.created_at ASC, w.rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var witnesses []*juxta.Witness
	for rows.Next() {
		w, err := scanWitness(rows)
		if err != nil {
			return nil, err
		}
		witnesses = append(witnesses, w)
	}

	return witnesses, rows.Err()
}

// UpdateWitnessContent points the witness at new content and deletes the
// text it replaces.
func (s *WitnessService) UpdateWitnessContent(ctx context.Context, id string, content string) (*juxta.Witness, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer rollback(tx)

	var oldTextID string
	err = tx.QueryRowContext(ctx, "SELECT text_id FROM witnesses WHERE id = ?", id).Scan(&oldTextID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, juxta.Errorf(juxta.ENOTFOUND, "witness not found")
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	textID, err := insertText(ctx, tx, content, now)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE witnesses SET text_id = ?, updated_at = ? WHERE id = ?
	`, textID, now.Format(time.RFC3339), id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM texts WHERE id = ?", oldTextID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.FindWitnessByID(ctx, id)
}

// DeleteWitness permanently removes a witness, its content and annotations.
func (s *WitnessService) DeleteWitness(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollback(tx)

	var textID string
	err = tx.QueryRowContext(ctx, "SELECT text_id FROM witnesses WHERE id = ?", id).Scan(&textID)
	if errors.Is(err, sql.ErrNoRows) {
		return juxta.Errorf(juxta.ENOTFOUND, "witness not found")
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM witnesses WHERE id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM texts WHERE id = ?", textID); err != nil {
		return err
	}

	return tx.Commit()
}

func insertText(ctx context.Context, tx *sql.Tx, content string, now time.Time) (string, error) {
	id := uuid.New().String()
	_, err := tx.ExecContext(ctx, `
		INSERT INTO texts (id, content, content_hash, created_at) VALUES (?, ?, ?, ?)
	`, id, content, hashContent(content), now.Format(time.RFC3339))
	return id, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWitness(row scanner) (*juxta.Witness, error) {
	var w juxta.Witness
	var createdAt, updatedAt string

	if err := row.Scan(&w.ID, &w.Name, &w.GroupID, &w.SourceID, &w.Content, &w.ContentHash,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if w.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &w, nil
}
