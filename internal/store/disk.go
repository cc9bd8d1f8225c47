package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// DiskStore keeps frames as files under a single directory.
type DiskStore struct {
	dir      string
	maxBytes int64
}

func NewDiskStore(dir string, maxBytes int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, maxBytes: maxBytes}, nil
}

func (s *DiskStore) Store(ctx context.Context, data []byte, contentType, originalName string) (Handle, error) {
	if err := validateFrame(data, contentType, s.maxBytes); err != nil {
		return "", err
	}

	handle := newHandle(originalName)

	// O_EXCL guards the handle uniqueness contract at the filesystem level.
	f, err := os.OpenFile(s.path(handle), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create frame file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(s.path(handle))
		return "", fmt.Errorf("write frame file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(s.path(handle))
		return "", fmt.Errorf("close frame file: %w", err)
	}

	return handle, nil
}

func (s *DiskStore) Open(ctx context.Context, handle Handle) (io.ReadCloser, error) {
	f, err := os.Open(s.path(handle))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open frame %s: %w", handle, err)
	}
	return f, nil
}

func (s *DiskStore) Exists(ctx context.Context, handle Handle) (bool, error) {
	_, err := os.Stat(s.path(handle))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat frame %s: %w", handle, err)
	}
	return true, nil
}

func (s *DiskStore) Delete(ctx context.Context, handle Handle) error {
	err := os.Remove(s.path(handle))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete frame %s: %w", handle, err)
	}
	return nil
}

// path resolves a handle inside the upload dir. Base strips any path
// separators a hostile handle could carry.
func (s *DiskStore) path(handle Handle) string {
	return filepath.Join(s.dir, filepath.Base(string(handle)))
}
