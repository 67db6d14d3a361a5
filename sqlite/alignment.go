package sqlite

import (
	"context"

	"github.com/fwojciec/juxta"
)

// Compile-time interface verification.
var (
	_ juxta.AlignmentService = (*AlignmentService)(nil)
	_ juxta.CacheService     = (*CacheService)(nil)
)

// AlignmentService implements juxta.AlignmentService using SQLite.
// Alignments are written by the collator; juxta only clears them.
type AlignmentService struct {
	db *DB
}

// NewAlignmentService creates a new AlignmentService.
func NewAlignmentService(db *DB) *AlignmentService {
	return &AlignmentService{db: db}
}

// ClearAlignments removes all alignment data of a set.
func (s *AlignmentService) ClearAlignments(ctx context.Context, setID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM alignments WHERE set_id = ?", setID)
	return err
}

// CacheService implements juxta.CacheService using SQLite.
type CacheService struct {
	db *DB
}

// NewCacheService creates a new CacheService.
func NewCacheService(db *DB) *CacheService {
	return &CacheService{db: db}
}

// DeleteHeatmap removes any cached heatmap for a set.
func (s *CacheService) DeleteHeatmap(ctx context.Context, setID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM heatmap_cache WHERE set_id = ?", setID)
	return err
}
