package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/filevault/backend/internal/config"
	"github.com/filevault/backend/pkg/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOStore struct {
	client *minio.Client
	// publicClient signs URLs against the endpoint clients can reach.
	publicClient   *minio.Client
	bucket         string
	publicEndpoint string
	useSSL         bool
}

func NewMinIOStore(cfg config.StorageConfig) (*MinIOStore, error) {
	opts := func() *minio.Options {
		return &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
			Region: cfg.Region,
		}
	}

	client, err := minio.New(cfg.Endpoint, opts())
	if err != nil {
		return nil, err
	}

	publicClient := client
	if cfg.PublicEndpoint != "" && cfg.PublicEndpoint != cfg.Endpoint {
		publicClient, err = minio.New(cfg.PublicEndpoint, opts())
		if err != nil {
			return nil, err
		}
	}

	publicEndpoint := cfg.PublicEndpoint
	if publicEndpoint == "" {
		publicEndpoint = cfg.Endpoint
	}

	return &MinIOStore{
		client:         client,
		publicClient:   publicClient,
		bucket:         cfg.Bucket,
		publicEndpoint: publicEndpoint,
		useSSL:         cfg.UseSSL,
	}, nil
}

func (m *MinIOStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string, metadata map[string]string) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, key, body, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	if err != nil {
		logger.Error("minio_upload_failed", err, map[string]interface{}{
			"object_name":  key,
			"size":         size,
			"content_type": contentType,
			"bucket":       m.bucket,
		})
		return "", err
	}

	logger.Info("minio_upload_success", map[string]interface{}{
		"object_name":  key,
		"size":         size,
		"content_type": contentType,
		"bucket":       m.bucket,
	})
	return m.URL(key), nil
}

func (m *MinIOStore) Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		logger.Error("minio_download_failed", err, map[string]interface{}{
			"object_name": key,
			"bucket":      m.bucket,
		})
		return nil, nil, translateMinIOError(err)
	}

	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, nil, translateMinIOError(err)
	}

	return obj, toObjectInfo(stat), nil
}

func (m *MinIOStore) Head(ctx context.Context, key string) (*ObjectInfo, error) {
	stat, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, translateMinIOError(err)
	}
	return toObjectInfo(stat), nil
}

func (m *MinIOStore) Delete(ctx context.Context, key string) error {
	err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		logger.Error("minio_delete_failed", err, map[string]interface{}{
			"object_name": key,
			"bucket":      m.bucket,
		})
		return err
	}

	logger.Info("minio_delete_success", map[string]interface{}{
		"object_name": key,
		"bucket":      m.bucket,
	})
	return nil
}

func (m *MinIOStore) Copy(ctx context.Context, srcKey, dstKey string) (string, error) {
	_, err := m.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: m.bucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: m.bucket, Object: srcKey},
	)
	if err != nil {
		logger.Error("minio_copy_failed", err, map[string]interface{}{
			"source":      srcKey,
			"destination": dstKey,
			"bucket":      m.bucket,
		})
		return "", translateMinIOError(err)
	}
	return m.URL(dstKey), nil
}

func (m *MinIOStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := m.publicClient.PresignedGetObject(ctx, m.bucket, key, ttl, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (m *MinIOStore) PresignPut(ctx context.Context, key, _ string, ttl time.Duration) (string, error) {
	u, err := m.publicClient.PresignedPutObject(ctx, m.bucket, key, ttl)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (m *MinIOStore) URL(key string) string {
	scheme := "http"
	if m.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, strings.TrimSuffix(m.publicEndpoint, "/"), m.bucket, key)
}

func (m *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed creating bucket %s: %w", m.bucket, err)
	}
	return nil
}

func toObjectInfo(stat minio.ObjectInfo) *ObjectInfo {
	return &ObjectInfo{
		Key:          stat.Key,
		Size:         stat.Size,
		ContentType:  stat.ContentType,
		LastModified: stat.LastModified,
		Metadata:     stat.UserMetadata,
	}
}

func translateMinIOError(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, resp.Key)
	}
	return err
}
