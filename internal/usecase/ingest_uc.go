// File: internal/usecase/ingest_uc.go
package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"vector-doc-search/internal/config"
	"vector-doc-search/internal/domain"
	"vector-doc-search/internal/domain/model"
	"vector-doc-search/internal/domain/ports/adapter"
	"vector-doc-search/internal/domain/ports/repository"
	"vector-doc-search/internal/infra/metrics"
)

// IngestResult is everything later stages need: the file (and whether it
// was reused rather than uploaded this run), the store, and the finished job.
type IngestResult struct {
	File   adapter.FileInfo
	Reused bool
	Store  adapter.StoreInfo
	Job    *model.IngestJob
}

type IngestUseCase interface {
	Ingest(ctx context.Context) (*IngestResult, error)
}

// Compile-time check
var _ IngestUseCase = (*ingestUC)(nil)

type ingestUC struct {
	svc      adapter.VectorSearchAdapter
	cache    repository.UploadCacheRepository // nil disables upload reuse
	poller   *Poller
	tracker  *StatusTracker
	cfg      config.IngestConfig
	fileID   string // pre-existing uploaded file id, from config
	estimate func(path string) (int, bool)
	log      *zerolog.Logger
}

func NewIngestUseCase(
	svc adapter.VectorSearchAdapter,
	cache repository.UploadCacheRepository,
	poller *Poller,
	tracker *StatusTracker,
	cfg config.IngestConfig,
	uploadedFileID string,
	estimate func(path string) (int, bool),
	logger *zerolog.Logger,
) *ingestUC {
	ucLog := logger.With().Str("component", "IngestUC").Logger()
	return &ingestUC{
		svc:      svc,
		cache:    cache,
		poller:   poller,
		tracker:  tracker,
		cfg:      cfg,
		fileID:   uploadedFileID,
		estimate: estimate,
		log:      &ucLog,
	}
}

func (u *ingestUC) Ingest(ctx context.Context) (*IngestResult, error) {
	u.tracker.SetPhase(PhaseUploading)

	file, reused, err := u.resolveFile(ctx)
	if err != nil {
		return nil, err
	}
	u.tracker.SetFile(file.ID)
	u.warnChunkBudget()

	store, err := u.svc.CreateStore(ctx, u.cfg.StoreName, u.cfg.ExpiresDays)
	if err != nil {
		return nil, err
	}
	u.tracker.SetStore(store.ID)
	u.log.Info().Str("store_id", store.ID).Str("name", store.Name).Msg("vector store created")

	state, err := u.svc.AttachFile(ctx, adapter.AttachParams{
		StoreID: store.ID,
		FileID:  file.ID,
		Chunking: adapter.ChunkingConfig{
			MaxChunkTokens: u.cfg.MaxChunkTokens,
			OverlapTokens:  u.cfg.ChunkOverlapTokens,
		},
		Attributes: u.cfg.Attributes,
	})
	if err != nil {
		u.compensateStore(store.ID)
		return nil, err
	}

	job := model.NewIngestJob(file.ID, store.ID)
	job.BatchID = state.BatchID
	job.Observe(state.Status, state.LastError)
	u.tracker.SetPhase(PhaseIndexing)
	u.tracker.ObserveJob(job)

	if _, err := u.poller.Wait(ctx, func(ctx context.Context) (adapter.JobState, error) {
		s, err := u.svc.FileStatus(ctx, store.ID, job.BatchID)
		if err == nil {
			job.Observe(s.Status, s.LastError)
			u.tracker.ObserveJob(job)
		}
		return s, err
	}); err != nil {
		// The store is the partial resource; the file stays so a retry
		// can skip the upload.
		u.compensateStore(store.ID)
		return nil, fmt.Errorf("file batch %s: %w", job.BatchID, err)
	}
	u.log.Info().Str("job_id", job.ID).Int("attempts", job.Attempts).Msg("file batch completed")

	return &IngestResult{File: file, Reused: reused, Store: store, Job: job}, nil
}

// resolveFile returns the file to index: the configured id, a cache hit
// on the document digest, or a fresh upload (cached on success).
func (u *ingestUC) resolveFile(ctx context.Context) (adapter.FileInfo, bool, error) {
	if u.fileID != "" {
		u.log.Info().Str("file_id", u.fileID).Msg("using configured file id")
		return adapter.FileInfo{ID: u.fileID}, true, nil
	}
	if u.cfg.DocumentPath == "" {
		return adapter.FileInfo{}, false, domain.ErrNoDocument
	}

	var digest string
	if u.cache != nil {
		var err error
		digest, err = fileDigest(u.cfg.DocumentPath)
		if err != nil {
			return adapter.FileInfo{}, false, err
		}
		id, err := u.cache.GetFileID(ctx, digest)
		switch {
		case err == nil:
			metrics.IncUploadCache("hit")
			u.log.Info().Str("file_id", id).Msg("reusing cached upload")
			return adapter.FileInfo{ID: id}, true, nil
		case errors.Is(err, domain.ErrNotFound):
			metrics.IncUploadCache("miss")
		default:
			// Cache trouble never blocks ingestion.
			metrics.IncUploadCache("error")
			u.log.Warn().Err(err).Msg("upload cache lookup failed")
		}
	}

	file, err := u.svc.UploadFile(ctx, u.cfg.DocumentPath)
	if err != nil {
		return adapter.FileInfo{}, false, err
	}
	u.log.Info().Str("file_id", file.ID).Int64("bytes", file.Bytes).Msg("document uploaded")

	if u.cache != nil && digest != "" {
		if err := u.cache.SaveFileID(ctx, digest, file.ID); err != nil {
			u.log.Warn().Err(err).Msg("upload cache save failed")
		}
	}
	return file, false, nil
}

func (u *ingestUC) warnChunkBudget() {
	if u.estimate == nil || u.cfg.DocumentPath == "" {
		return
	}
	tokens, ok := u.estimate(u.cfg.DocumentPath)
	if !ok {
		return
	}
	stride := u.cfg.MaxChunkTokens - u.cfg.ChunkOverlapTokens
	if stride <= 0 {
		return
	}
	chunks := tokens / stride
	u.log.Debug().Int("tokens", tokens).Int("approx_chunks", chunks).Msg("chunk budget estimate")
	if chunks > 1000 {
		u.log.Warn().Int("approx_chunks", chunks).
			Msg("chunk budget implies a very large batch, consider raising max_chunk_tokens")
	}
}

// compensateStore deletes the partially created store after a batch
// failure. Detached context so cancellation of the run cannot leak it.
func (u *ingestUC) compensateStore(storeID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := u.svc.DeleteStore(ctx, storeID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		metrics.IncCleanupFailure("vector_store")
		u.log.Error().Err(err).Str("store_id", storeID).Msg("failed to delete store after batch failure")
		return
	}
	u.log.Info().Str("store_id", storeID).Msg("store deleted after batch failure")
}

func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("digest document: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
