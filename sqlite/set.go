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
var _ juxta.ComparisonSetService = (*ComparisonSetService)(nil)

// ComparisonSetService implements juxta.ComparisonSetService using SQLite.
type ComparisonSetService struct {
	db *DB
}

// NewComparisonSetService creates a new ComparisonSetService.
func NewComparisonSetService(db *DB) *ComparisonSetService {
	return &ComparisonSetService{db: db}
}

// CreateSet creates a new comparison set. An empty status defaults to
// NOT_COLLATED.
func (s *ComparisonSetService) CreateSet(ctx context.Context, set *juxta.ComparisonSet) error {
	if set.Status == "" {
		set.Status = juxta.SetNotCollated
	}
	if err := set.Validate(); err != nil {
		return err
	}

	set.ID = uuid.New().String()
	now := time.Now().UTC()
	set.CreatedAt = now
	set.UpdatedAt = now

	cfg := juxta.DefaultCollatorConfig()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sets (id, name, status, filter_whitespace, filter_punctuation, filter_case,
			hyphenation_enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, set.ID, set.Name, string(set.Status),
		boolInt(cfg.FilterWhitespace), boolInt(cfg.FilterPunctuation), boolInt(cfg.FilterCase),
		boolInt(cfg.HyphenationEnabled),
		set.CreatedAt.Format(time.RFC3339), set.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindSetByID retrieves a set by ID.
func (s *ComparisonSetService) FindSetByID(ctx context.Context, id string) (*juxta.ComparisonSet, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, status, created_at, updated_at FROM sets WHERE id = ?
	`, id)

	set, err := scanSet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, juxta.Errorf(juxta.ENOTFOUND, "comparison set not found")
	}
	if err != nil {
		return nil, err
	}
	return set, nil
}

// FindSets retrieves sets matching the filter, newest first.
func (s *ComparisonSetService) FindSets(ctx context.Context, filter juxta.SetFilter) ([]*juxta.ComparisonSet, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name, status, created_at, updated_at FROM sets WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []*juxta.ComparisonSet
	for rows.Next() {
		set, err := scanSet(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

// UpdateSetStatus changes the collation status of a set.
func (s *ComparisonSetService) UpdateSetStatus(ctx context.Context, id string, status juxta.SetStatus) error {
	switch status {
	case juxta.SetNotCollated, juxta.SetCollating, juxta.SetCollated, juxta.SetError:
	default:
		return juxta.Errorf(juxta.EINVALID, "unknown comparison set status %q", status)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE sets SET status = ?, updated_at = ? WHERE id = ?
	`, string(status), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return juxta.Errorf(juxta.ENOTFOUND, "comparison set not found")
	}
	return nil
}

// FindSetWitnesses returns the witnesses attached to a set in the order
// they were attached.
func (s *ComparisonSetService) FindSetWitnesses(ctx context.Context, setID string) ([]*juxta.Witness, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+witnessColumns+`
		FROM set_witnesses sw
		JOIN witnesses w ON w.id = sw.witness_id
		JOIN texts t ON t.id = w.text_id
		WHERE sw.set_id = ?
		ORDER BY sw.rowid ASC
	`, setID)
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

// AddSetWitnesses attaches witnesses to a set.
func (s *ComparisonSetService) AddSetWitnesses(ctx context.Context, setID string, witnessIDs []string) error {
	if _, err := s.FindSetByID(ctx, setID); err != nil {
		return err
	}
	return bulkInsert(ctx, s.db, `
		INSERT OR IGNORE INTO set_witnesses (set_id, witness_id) VALUES (?, ?)
	`, len(witnessIDs), func(i int) []any {
		return []any{setID, witnessIDs[i]}
	})
}

// RemoveSetWitnesses detaches all witnesses from a set.
func (s *ComparisonSetService) RemoveSetWitnesses(ctx context.Context, setID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM set_witnesses WHERE set_id = ?", setID)
	return err
}

// FindCollatorConfig returns the collator config of a set.
func (s *ComparisonSetService) FindCollatorConfig(ctx context.Context, setID string) (juxta.CollatorConfig, error) {
	var cfg juxta.CollatorConfig
	err := s.db.QueryRowContext(ctx, `
		SELECT filter_whitespace, filter_punctuation, filter_case, hyphenation_enabled
		FROM sets WHERE id = ?
	`, setID).Scan(&cfg.FilterWhitespace, &cfg.FilterPunctuation, &cfg.FilterCase, &cfg.HyphenationEnabled)
	if errors.Is(err, sql.ErrNoRows) {
		return juxta.CollatorConfig{}, juxta.Errorf(juxta.ENOTFOUND, "comparison set not found")
	}
	return cfg, err
}

func scanSet(row scanner) (*juxta.ComparisonSet, error) {
	var set juxta.ComparisonSet
	var status, createdAt, updatedAt string

	if err := row.Scan(&set.ID, &set.Name, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	set.Status = juxta.SetStatus(status)

	var err error
	if set.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if set.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &set, nil
}
