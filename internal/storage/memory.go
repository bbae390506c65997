package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"net/url"
	"sync"
	"time"
)

type memoryObject struct {
	data        []byte
	contentType string
	metadata    map[string]string
	modified    time.Time
}

// MemoryStore keeps objects in process memory. Used for local development
// and tests; SetFailure injects errors per operation.
type MemoryStore struct {
	mu       sync.RWMutex
	bucket   string
	objects  map[string]memoryObject
	failures map[string]error
}

const (
	OpPut     = "put"
	OpGet     = "get"
	OpHead    = "head"
	OpDelete  = "delete"
	OpCopy    = "copy"
	OpPresign = "presign"
)

func NewMemoryStore(bucket string) *MemoryStore {
	if bucket == "" {
		bucket = "filevault"
	}
	return &MemoryStore{
		bucket:   bucket,
		objects:  make(map[string]memoryObject),
		failures: make(map[string]error),
	}
}

// SetFailure makes every call of op return err. A nil err clears it.
func (m *MemoryStore) SetFailure(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

func (m *MemoryStore) failure(op string) error {
	return m.failures[op]
}

func (m *MemoryStore) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string, metadata map[string]string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure(OpPut); err != nil {
		return "", err
	}

	m.objects[key] = memoryObject{
		data:        data,
		contentType: contentType,
		metadata:    maps.Clone(metadata),
		modified:    time.Now().UTC(),
	}
	return m.urlLocked(key), nil
}

func (m *MemoryStore) Get(_ context.Context, key string) (io.ReadCloser, *ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure(OpGet); err != nil {
		return nil, nil, err
	}

	obj, ok := m.objects[key]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.info(key), nil
}

func (m *MemoryStore) Head(_ context.Context, key string) (*ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure(OpHead); err != nil {
		return nil, err
	}

	obj, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return obj.info(key), nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure(OpDelete); err != nil {
		return err
	}
	delete(m.objects, key)
	return nil
}

func (m *MemoryStore) Copy(_ context.Context, srcKey, dstKey string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure(OpCopy); err != nil {
		return "", err
	}

	obj, ok := m.objects[srcKey]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrObjectNotFound, srcKey)
	}
	obj.data = bytes.Clone(obj.data)
	obj.metadata = maps.Clone(obj.metadata)
	obj.modified = time.Now().UTC()
	m.objects[dstKey] = obj
	return m.urlLocked(dstKey), nil
}

func (m *MemoryStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	return m.presign("GET", key, ttl)
}

func (m *MemoryStore) PresignPut(_ context.Context, key, _ string, ttl time.Duration) (string, error) {
	return m.presign("PUT", key, ttl)
}

func (m *MemoryStore) presign(method, key string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure(OpPresign); err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("method", method)
	query.Set("expires", time.Now().Add(ttl).UTC().Format(time.RFC3339))
	return m.urlLocked(key) + "?" + query.Encode(), nil
}

func (m *MemoryStore) URL(key string) string {
	return m.urlLocked(key)
}

func (m *MemoryStore) urlLocked(key string) string {
	return fmt.Sprintf("memory://%s/%s", m.bucket, key)
}

func (m *MemoryStore) EnsureBucket(context.Context) error {
	return nil
}

// Has reports whether key is stored.
func (m *MemoryStore) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

func (o memoryObject) info(key string) *ObjectInfo {
	return &ObjectInfo{
		Key:          key,
		Size:         int64(len(o.data)),
		ContentType:  o.contentType,
		LastModified: o.modified,
		Metadata:     maps.Clone(o.metadata),
	}
}
