package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Scratch owns the temporary workspace of a single render. Every
// intermediate artifact (backend scratch WAVs, partial composites) lives
// under its directory, and Close removes the whole tree — on success and
// failure paths alike — so no state leaks between renders.
type Scratch struct {
	// ID uniquely identifies the render, for log correlation.
	ID string

	dir string
}

// NewScratch creates a render-scoped scratch directory under base (or the
// system temp directory when base is empty).
func NewScratch(base string) (*Scratch, error) {
	id := uuid.NewString()
	if base == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "shortsmith-"+id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("render: create scratch dir: %w", err)
	}
	return &Scratch{ID: id, dir: dir}, nil
}

// Dir returns the scratch directory path.
func (s *Scratch) Dir() string { return s.dir }

// Close deletes the scratch directory and everything in it. Idempotent.
func (s *Scratch) Close() error {
	if s.dir == "" {
		return nil
	}
	err := os.RemoveAll(s.dir)
	s.dir = ""
	return err
}
