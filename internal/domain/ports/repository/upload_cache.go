package repository

import "context"

// UploadCacheRepository remembers which file id a document digest was
// uploaded under, so repeated runs skip the upload. A miss is reported as
// an error wrapping domain.ErrNotFound. Losing an entry only costs one
// re-upload, so implementations may expire entries freely.
type UploadCacheRepository interface {
	GetFileID(ctx context.Context, digest string) (string, error)
	SaveFileID(ctx context.Context, digest, fileID string) error
}
