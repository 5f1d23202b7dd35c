// File: internal/usecase/cleanup_uc.go
package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"vector-doc-search/internal/domain"
	"vector-doc-search/internal/domain/ports/adapter"
	"vector-doc-search/internal/infra/metrics"
)

// CleanupTargets lists the remote resources one run created.
type CleanupTargets struct {
	StoreIDs    []string
	ResponseIDs []string
	FileID      string // empty keeps the file (configured or cached uploads)
}

type CleanupUseCase interface {
	Cleanup(ctx context.Context, t CleanupTargets) error
}

// Compile-time check
var _ CleanupUseCase = (*cleanupUC)(nil)

type cleanupUC struct {
	svc adapter.VectorSearchAdapter
	log *zerolog.Logger
}

func NewCleanupUseCase(svc adapter.VectorSearchAdapter, logger *zerolog.Logger) *cleanupUC {
	ucLog := logger.With().Str("component", "CleanupUC").Logger()
	return &cleanupUC{svc: svc, log: &ucLog}
}

// Cleanup deletes every listed resource, best effort. A failed deletion is
// logged and counted but never stops the remaining ones; deleting a
// resource that is already gone counts as success. The returned error
// joins the real failures, if any.
func (c *cleanupUC) Cleanup(ctx context.Context, t CleanupTargets) error {
	var errs []error

	for _, id := range t.StoreIDs {
		errs = append(errs, c.delete(ctx, "vector_store", id, c.svc.DeleteStore))
	}
	for _, id := range t.ResponseIDs {
		errs = append(errs, c.delete(ctx, "response", id, c.svc.DeleteResponse))
	}
	if t.FileID != "" {
		errs = append(errs, c.delete(ctx, "file", t.FileID, c.svc.DeleteFile))
	}

	return errors.Join(errs...)
}

func (c *cleanupUC) delete(ctx context.Context, resource, id string, del func(context.Context, string) error) error {
	c.log.Info().Str("resource", resource).Str("id", id).Msg("deleting")
	err := del(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		c.log.Debug().Str("resource", resource).Str("id", id).Msg("already gone")
		return nil
	default:
		metrics.IncCleanupFailure(resource)
		c.log.Error().Err(err).Str("resource", resource).Str("id", id).Msg("delete failed")
		return err
	}
}
