package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/lookout/internal/config"
	"github.com/saturnino-fabrica-de-software/lookout/internal/domain"
)

var (
	ErrNotFound = errors.New("frame not found")
)

// Handle is an opaque, stable reference to a stored frame. It doubles as the
// object key / file name of the frame in the backing store.
type Handle string

// URLPath returns the public path the frame is served from.
func (h Handle) URLPath() string {
	return "/uploads/" + string(h)
}

// ContentType guesses the frame's content type from the handle's extension.
func (h Handle) ContentType() string {
	ct := mime.TypeByExtension(filepath.Ext(string(h)))
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}

// FrameStore is durable byte storage for uploaded frames.
type FrameStore interface {
	// Store validates and persists a frame. Two concurrent stores are never
	// assigned the same handle.
	Store(ctx context.Context, data []byte, contentType, originalName string) (Handle, error)
	// Open returns a reader over the stored frame, or ErrNotFound.
	Open(ctx context.Context, handle Handle) (io.ReadCloser, error)
	Exists(ctx context.Context, handle Handle) (bool, error)
	// Delete removes a stored frame. Deleting a missing handle is not an error.
	Delete(ctx context.Context, handle Handle) error
}

// New creates the FrameStore selected by STORAGE_BACKEND.
func New(ctx context.Context, cfg *config.Config) (FrameStore, error) {
	switch cfg.StorageBackend {
	case "minio":
		return NewObjectStore(ctx, ObjectStoreConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			MaxBytes:  cfg.MaxUploadBytes,
		})

	case "disk", "":
		return NewDiskStore(cfg.UploadDir, cfg.MaxUploadBytes)

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: disk, minio)", cfg.StorageBackend)
	}
}

// validateFrame enforces the store's input constraints: image/* content type
// and a bounded payload size.
func validateFrame(data []byte, contentType string, maxBytes int64) error {
	if len(data) == 0 {
		return domain.ErrInvalidImage
	}
	if !strings.HasPrefix(contentType, "image/") {
		return domain.ErrInvalidImage
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return domain.ErrImageTooLarge
	}
	return nil
}

var unsafeHandleChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// newHandle builds a collision-resistant handle from the upload's original
// name: millisecond timestamp, a random hex infix, and the sanitized name.
// A .jpg extension is appended when the original name carries none.
func newHandle(originalName string) Handle {
	name := strings.TrimSpace(originalName)
	if name == "" {
		name = "frame"
	}
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeHandleChars.ReplaceAllString(name, "_")

	if filepath.Ext(name) == "" {
		name += ".jpg"
	}

	infix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return Handle(fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), infix, name))
}
