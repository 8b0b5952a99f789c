package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
)

// Storage keeps uploaded resume files on local disk under one base dir.
// Keys are generated server-side, but the traversal guard stays anyway.
type Storage struct {
	basePath string
	maxSize  int64
}

func New(basePath string, maxSize int64) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/resumes"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Storage{basePath: basePath, maxSize: maxSize}, nil
}

func (s *Storage) Save(_ context.Context, key string, data io.Reader) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	reader := data
	if s.maxSize > 0 {
		reader = io.LimitReader(data, s.maxSize+1)
	}
	written, err := io.Copy(f, reader)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if s.maxSize > 0 && written > s.maxSize {
		_ = os.Remove(path)
		return domain.WrapError(domain.ErrInvalidInput, "save file",
			fmt.Errorf("upload exceeds %d bytes", s.maxSize))
	}
	return nil
}

func (s *Storage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.WrapError(domain.ErrNotFound, "open file", err)
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

func (s *Storage) resolve(key string) (string, error) {
	cleaned := filepath.Clean(key)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", domain.WrapError(domain.ErrInvalidInput, "resolve storage key",
			fmt.Errorf("invalid key %q", key))
	}
	return filepath.Join(s.basePath, cleaned), nil
}
