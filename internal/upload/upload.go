// Package upload stores user-submitted recipe and cookbook images under a
// single uploads directory, keyed by a sanitized version of the original
// filename. A name collision overwrites the previous file.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyFilename is returned when nothing safe is left of a filename after
// sanitizing.
var ErrEmptyFilename = errors.New("upload: empty filename")

type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes the uploaded content to the uploads directory and returns the
// stored filename.
func (s *Store) Save(src io.Reader, filename string) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return "", ErrEmptyFilename
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return name, nil
}

// SanitizeFilename strips any directory components from a client-supplied
// filename and keeps only ASCII letters, digits, dot, dash, and underscore.
// Spaces become underscores; leading and trailing dots and underscores are
// trimmed so the result can never be a dotfile or a traversal.
func SanitizeFilename(name string) string {
	// Browsers on some platforms send backslash-separated paths.
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "._")
}
