package redis

import (
	"context"
	"fmt"
	"time"

	"vector-doc-search/internal/domain"
	"vector-doc-search/internal/domain/ports/repository"
)

var _ repository.UploadCacheRepository = (*UploadCache)(nil)

// UploadCache maps a document's sha256 digest to the file id the service
// assigned on upload, so re-runs reuse the upload instead of repeating it.
type UploadCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewUploadCache(client RedisClient, ttl time.Duration) *UploadCache {
	return &UploadCache{client: client, ttl: ttl}
}

func key(digest string) string { return "upload_file:" + digest }

func (c *UploadCache) GetFileID(ctx context.Context, digest string) (string, error) {
	v, err := c.client.Get(ctx, key(digest))
	if err != nil {
		if IsNil(err) {
			return "", fmt.Errorf("upload cache %s: %w", digest, domain.ErrNotFound)
		}
		return "", err
	}
	return v, nil
}

func (c *UploadCache) SaveFileID(ctx context.Context, digest, fileID string) error {
	return c.client.Set(ctx, key(digest), fileID, c.ttl)
}
