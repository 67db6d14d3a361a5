// Package fs provides file-based access to source documents.
package fs

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/fwojciec/juxta"
)

// Ensure SourceService implements juxta.SourceService at compile time.
var _ juxta.SourceService = (*SourceService)(nil)

// SourceService serves the files below a root directory as sources.
// A source id is the slash-separated path relative to the root.
type SourceService struct {
	root string
}

// NewSourceService creates a new SourceService rooted at dir.
func NewSourceService(dir string) *SourceService {
	return &SourceService{root: dir}
}

// SourceID returns the id of the file at p, which must lie below the root.
func (s *SourceService) SourceID(p string) (string, error) {
	root, err := filepath.Abs(s.root)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || !filepath.IsLocal(rel) {
		return "", juxta.Errorf(juxta.EINVALID, "%s is outside the source directory", p)
	}
	return filepath.ToSlash(rel), nil
}

// FindSourceByID retrieves source metadata.
func (s *SourceService) FindSourceByID(ctx context.Context, id string) (*juxta.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.resolve(id)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(full)
	if err != nil {
		return nil, statError(id, err)
	}
	if !info.Mode().IsRegular() {
		return nil, juxta.Errorf(juxta.EINVALID, "source %q is not a file", id)
	}
	return &juxta.Source{ID: id, Name: path.Base(id), Size: info.Size()}, nil
}

// OpenSource opens the source content for reading.
func (s *SourceService) OpenSource(ctx context.Context, id string) (io.ReadCloser, error) {
	if _, err := s.FindSourceByID(ctx, id); err != nil {
		return nil, err
	}
	full, err := s.resolve(id)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, statError(id, err)
	}
	return f, nil
}

func (s *SourceService) resolve(id string) (string, error) {
	rel := filepath.FromSlash(id)
	if id == "" || !filepath.IsLocal(rel) {
		return "", juxta.Errorf(juxta.EINVALID, "invalid source id %q", id)
	}
	return filepath.Join(s.root, rel), nil
}

func statError(id string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return juxta.Errorf(juxta.ENOTFOUND, "source %q not found", id)
	}
	return err
}
