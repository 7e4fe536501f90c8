// Package storage keeps uploaded files on the local filesystem.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// allowedExt lists receipt extensions kept on the stored name; anything else
// is saved without an extension.
var allowedExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".pdf": true,
}

// Local stores files in a single directory under a generated name.
type Local struct {
	dir string
}

// NewLocal creates dir if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Dir is the directory served under /uploads.
func (l *Local) Dir() string {
	return l.dir
}

// Save writes r to <uuid><ext> and returns that name. The client-supplied
// name only contributes its extension.
func (l *Local) Save(name string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExt[ext] {
		ext = ""
	}
	stored := uuid.NewString() + ext

	f, err := os.OpenFile(filepath.Join(l.dir, stored), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	return stored, nil
}
