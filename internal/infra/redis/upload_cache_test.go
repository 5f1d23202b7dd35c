package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"vector-doc-search/internal/domain"
)

type fakeRedis struct {
	data   map[string]string
	setErr error
}

func newFakeRedis() *fakeRedis { return &fakeRedis{data: map[string]string{}} }

func (f *fakeRedis) Ping(ctx context.Context) error { return nil }

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value.(string)
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeRedis) Close() error { return nil }

func TestUploadCacheRoundTrip(t *testing.T) {
	cache := NewUploadCache(newFakeRedis(), time.Hour)
	ctx := context.Background()

	if err := cache.SaveFileID(ctx, "abc123", "file_1"); err != nil {
		t.Fatalf("save: %v", err)
	}
	id, err := cache.GetFileID(ctx, "abc123")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if id != "file_1" {
		t.Fatalf("id = %q, want file_1", id)
	}
}

func TestUploadCacheMissIsNotFound(t *testing.T) {
	cache := NewUploadCache(newFakeRedis(), time.Hour)

	_, err := cache.GetFileID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUploadCacheSaveError(t *testing.T) {
	r := newFakeRedis()
	r.setErr = errors.New("oom")
	cache := NewUploadCache(r, time.Hour)

	if err := cache.SaveFileID(context.Background(), "abc", "file_1"); err == nil {
		t.Fatal("want error")
	}
}
