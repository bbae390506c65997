package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/filevault/backend/internal/config"
)

var ErrObjectNotFound = errors.New("object not found")

type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// ObjectStore is the blob backend behind file records.
type ObjectStore interface {
	// Put writes the object and returns its storage URL.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string, metadata map[string]string) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error)
	// Head returns ErrObjectNotFound when the key does not exist.
	Head(ctx context.Context, key string) (*ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	Copy(ctx context.Context, srcKey, dstKey string) (string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	URL(key string) string
	EnsureBucket(ctx context.Context) error
}

func New(ctx context.Context, cfg config.StorageConfig) (ObjectStore, error) {
	switch cfg.Driver {
	case config.StorageDriverMinIO:
		return NewMinIOStore(cfg)
	case config.StorageDriverS3:
		return NewS3Store(ctx, cfg)
	case config.StorageDriverMemory:
		return NewMemoryStore(cfg.Bucket), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
