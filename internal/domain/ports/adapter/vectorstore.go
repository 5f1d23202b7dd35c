package adapter

import (
	"context"

	"vector-doc-search/internal/domain/model"
)

// FileInfo describes an uploaded file.
type FileInfo struct {
	ID    string
	Name  string
	Bytes int64
}

// StoreInfo describes a vector store.
type StoreInfo struct {
	ID   string
	Name string
}

// ChunkingConfig is the static chunking strategy applied server-side when
// a file is indexed. Both values are in tokens.
type ChunkingConfig struct {
	MaxChunkTokens int
	OverlapTokens  int
}

// AttachParams binds an uploaded file to a vector store.
type AttachParams struct {
	StoreID    string
	FileID     string
	Chunking   ChunkingConfig
	Attributes map[string]string
}

// JobState is one observation of a remote file batch.
type JobState struct {
	BatchID   string
	Status    model.JobStatus
	LastError string
}

// SearchFilter restricts file search to chunks whose attribute equals a value.
type SearchFilter struct {
	Key   string
	Value string
}

// RankingOptions tune the server-side reranker.
type RankingOptions struct {
	Ranker         string
	ScoreThreshold float64
}

// AskParams configure one search-augmented response call.
type AskParams struct {
	Model          string
	Question       string
	StoreIDs       []string
	MaxResults     int
	Filter         *SearchFilter
	Ranking        RankingOptions
	IncludeResults bool
}

// VectorSearchAdapter is the port for the managed document-search service.
// Implementations must return an error wrapping domain.ErrNotFound when a
// deletion targets a resource that no longer exists, so callers can treat
// cleanup as idempotent.
type VectorSearchAdapter interface {
	UploadFile(ctx context.Context, path string) (FileInfo, error)
	CreateStore(ctx context.Context, name string, expiresDays int) (StoreInfo, error)
	AttachFile(ctx context.Context, p AttachParams) (JobState, error)
	FileStatus(ctx context.Context, storeID, batchID string) (JobState, error)
	Ask(ctx context.Context, p AskParams) (model.Answer, error)

	ListStores(ctx context.Context) ([]StoreInfo, error)
	DeleteStore(ctx context.Context, storeID string) error
	DeleteResponse(ctx context.Context, responseID string) error
	DeleteFile(ctx context.Context, fileID string) error
}
