package feed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultFeedFilename is the appcast path relative to the repository root.
	DefaultFeedFilename = "appcast.xml"

	// DefaultFileMode is used if the feed file has to be created.
	DefaultFileMode os.FileMode = 0o644
)

// ErrNotFound is returned when the feed file does not exist.
var ErrNotFound = errors.New("feed not found")

// Repository defines persistence operations for the appcast feed.
type Repository interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}

// FileRepository reads and overwrites the feed file in place.
type FileRepository struct {
	// path is the filesystem location of the feed.
	path string
}

// NewFileRepository creates a repository for the feed at path.
func NewFileRepository(path string) *FileRepository {
	if path == "" {
		path = DefaultFeedFilename
	}

	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the location of the feed file.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads and parses the feed from disk.
func (r *FileRepository) Load(_ context.Context) (*Document, error) {
	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, r.path)
		}

		return nil, fmt.Errorf("read feed file: %w", err)
	}

	return Parse(contents)
}

// Save serializes the document and overwrites the feed file.
// No backup is kept.
func (r *FileRepository) Save(_ context.Context, doc *Document) error {
	data, err := doc.Bytes()
	if err != nil {
		return err
	}

	if err = os.WriteFile(r.path, data, DefaultFileMode); err != nil {
		return fmt.Errorf("write feed file: %w", err)
	}

	return nil
}
