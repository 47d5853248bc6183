// Package storage keeps uploaded store and menu thumbnails on local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// PublicPrefix is the URL prefix thumbnails are served under.
const PublicPrefix = "upload"

var (
	unsafeChars       = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	allowedExtensions = map[string]struct{}{
		".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
	}
)

// LocalStore writes files under a single directory.
type LocalStore struct {
	dir      string
	maxBytes int64
}

// NewLocalStore creates dir when missing.
func NewLocalStore(dir string, maxBytes int) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, maxBytes: int64(maxBytes)}, nil
}

// Dir returns the directory served as static content.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save stores content under a unique, sanitized name and returns its public path.
func (s *LocalStore) Save(filename string, content io.Reader) (string, error) {
	name, err := SanitizeFilename(filename)
	if err != nil {
		return "", err
	}
	name = uuid.NewString() + "_" + name
	target := filepath.Join(s.dir, name)

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create thumbnail: %w", err)
	}

	reader := content
	if s.maxBytes > 0 {
		reader = io.LimitReader(content, s.maxBytes+1)
	}
	written, copyErr := io.Copy(f, reader)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("write thumbnail: %w", err)
	}
	if s.maxBytes > 0 && written > s.maxBytes {
		_ = os.Remove(target)
		return "", apperrors.NewValidationError("thumbnail too large", map[string]any{"max_bytes": s.maxBytes})
	}

	return PublicPrefix + "/" + name, nil
}

// SanitizeFilename strips directories and unsafe characters and checks the extension.
func SanitizeFilename(filename string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.TrimLeft(base, ".")

	ext := strings.ToLower(filepath.Ext(base))
	if _, ok := allowedExtensions[ext]; !ok || base == ext {
		return "", apperrors.NewValidationError("unsupported thumbnail file", map[string]any{"filename": filename})
	}
	return base, nil
}
