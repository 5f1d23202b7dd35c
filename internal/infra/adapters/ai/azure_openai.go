package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/azure"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/responses"
	"github.com/openai/openai-go/v2/shared"

	"vector-doc-search/internal/config"
	"vector-doc-search/internal/domain"
	"vector-doc-search/internal/domain/model"
	"vector-doc-search/internal/domain/ports/adapter"
	"vector-doc-search/internal/infra/metrics"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.VectorSearchAdapter = (*AzureOpenAIAdapter)(nil)

// AzureOpenAIAdapter implements adapter.VectorSearchAdapter against an
// Azure OpenAI resource using the official SDK. Auth is an API key when
// configured, otherwise the ambient Entra credential chain.
type AzureOpenAIAdapter struct {
	client openai.Client
}

func NewAzureOpenAIAdapter(cfg *config.AIConfig) (*AzureOpenAIAdapter, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("azure openai endpoint empty")
	}
	opts := []option.RequestOption{
		azure.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
		option.WithRequestTimeout(60 * time.Second),
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	} else {
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("default azure credential: %w", err)
		}
		opts = append(opts, azure.WithTokenCredential(cred))
	}
	return &AzureOpenAIAdapter{client: openai.NewClient(opts...)}, nil
}

func (a *AzureOpenAIAdapter) UploadFile(ctx context.Context, path string) (adapter.FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return adapter.FileInfo{}, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	start := time.Now()
	uploaded, err := a.client.Files.New(ctx, openai.FileNewParams{
		File:    f,
		Purpose: openai.FilePurposeAssistants,
	})
	observe("files.create", start, err)
	if err != nil {
		return adapter.FileInfo{}, wrap("upload file", err)
	}
	return adapter.FileInfo{ID: uploaded.ID, Name: uploaded.Filename, Bytes: uploaded.Bytes}, nil
}

func (a *AzureOpenAIAdapter) CreateStore(ctx context.Context, name string, expiresDays int) (adapter.StoreInfo, error) {
	start := time.Now()
	vs, err := a.client.VectorStores.New(ctx, openai.VectorStoreNewParams{
		Name: openai.String(name),
		ExpiresAfter: openai.VectorStoreNewParamsExpiresAfter{
			Days: int64(expiresDays), // anchor is last_active_at
		},
	})
	observe("vector_stores.create", start, err)
	if err != nil {
		return adapter.StoreInfo{}, wrap("create vector store", err)
	}
	return adapter.StoreInfo{ID: vs.ID, Name: vs.Name}, nil
}

func (a *AzureOpenAIAdapter) AttachFile(ctx context.Context, p adapter.AttachParams) (adapter.JobState, error) {
	attrs := make(map[string]openai.VectorStoreFileNewParamsAttributeUnion, len(p.Attributes))
	for k, v := range p.Attributes {
		attrs[k] = openai.VectorStoreFileNewParamsAttributeUnion{OfString: openai.String(v)}
	}

	start := time.Now()
	vsf, err := a.client.VectorStores.Files.New(ctx, p.StoreID, openai.VectorStoreFileNewParams{
		FileID:     p.FileID,
		Attributes: attrs,
		ChunkingStrategy: openai.FileChunkingStrategyParamUnion{
			OfStatic: &openai.StaticFileChunkingStrategyObjectParam{
				Static: openai.StaticFileChunkingStrategyParam{
					MaxChunkSizeTokens: int64(p.Chunking.MaxChunkTokens),
					ChunkOverlapTokens: int64(p.Chunking.OverlapTokens),
				},
			},
		},
	})
	observe("vector_stores.files.create", start, err)
	if err != nil {
		return adapter.JobState{}, wrap("attach file", err)
	}
	return fileState(vsf), nil
}

func (a *AzureOpenAIAdapter) FileStatus(ctx context.Context, storeID, batchID string) (adapter.JobState, error) {
	start := time.Now()
	vsf, err := a.client.VectorStores.Files.Get(ctx, storeID, batchID)
	observe("vector_stores.files.get", start, err)
	if err != nil {
		return adapter.JobState{}, wrap("file status", err)
	}
	return fileState(vsf), nil
}

func (a *AzureOpenAIAdapter) Ask(ctx context.Context, p adapter.AskParams) (model.Answer, error) {
	tool := responses.FileSearchToolParam{
		VectorStoreIDs: p.StoreIDs,
		RankingOptions: responses.FileSearchToolRankingOptionsParam{
			Ranker:         p.Ranking.Ranker,
			ScoreThreshold: openai.Float(p.Ranking.ScoreThreshold),
		},
	}
	if p.MaxResults > 0 {
		tool.MaxNumResults = openai.Int(int64(p.MaxResults))
	}
	if p.Filter != nil {
		tool.Filters = responses.FileSearchToolFiltersUnionParam{
			OfComparisonFilter: &shared.ComparisonFilterParam{
				Key:   p.Filter.Key,
				Type:  shared.ComparisonFilterTypeEq,
				Value: shared.ComparisonFilterValueUnionParam{OfString: openai.String(p.Filter.Value)},
			},
		}
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(p.Model),
		Input: responses.ResponseNewParamsInputUnion{OfString: openai.String(p.Question)},
		Tools: []responses.ToolUnionParam{{OfFileSearch: &tool}},
	}
	if p.IncludeResults {
		params.Include = []responses.ResponseIncludable{responses.ResponseIncludableFileSearchCallResults}
	}

	start := time.Now()
	resp, err := a.client.Responses.New(ctx, params)
	observe("responses.create", start, err)
	if err != nil {
		return model.Answer{}, wrap("create response", err)
	}

	ans := model.Answer{ResponseID: resp.ID, Text: resp.OutputText()}
	for _, item := range resp.Output {
		if item.Type != "file_search_call" {
			continue
		}
		call := item.AsFileSearchCall()
		for _, r := range call.Results {
			ans.Citations = append(ans.Citations, model.Citation{
				FileID:   r.FileID,
				Filename: r.Filename,
				Score:    r.Score,
				Snippet:  r.Text,
			})
		}
	}
	return ans, nil
}

func (a *AzureOpenAIAdapter) ListStores(ctx context.Context) ([]adapter.StoreInfo, error) {
	var out []adapter.StoreInfo
	start := time.Now()
	iter := a.client.VectorStores.ListAutoPaging(ctx, openai.VectorStoreListParams{})
	for iter.Next() {
		vs := iter.Current()
		out = append(out, adapter.StoreInfo{ID: vs.ID, Name: vs.Name})
	}
	err := iter.Err()
	observe("vector_stores.list", start, err)
	if err != nil {
		return nil, wrap("list vector stores", err)
	}
	return out, nil
}

func (a *AzureOpenAIAdapter) DeleteStore(ctx context.Context, storeID string) error {
	start := time.Now()
	_, err := a.client.VectorStores.Delete(ctx, storeID)
	observe("vector_stores.delete", start, err)
	if err != nil {
		return wrap("delete vector store", err)
	}
	return nil
}

func (a *AzureOpenAIAdapter) DeleteResponse(ctx context.Context, responseID string) error {
	start := time.Now()
	err := a.client.Responses.Delete(ctx, responseID)
	observe("responses.delete", start, err)
	if err != nil {
		return wrap("delete response", err)
	}
	return nil
}

func (a *AzureOpenAIAdapter) DeleteFile(ctx context.Context, fileID string) error {
	start := time.Now()
	_, err := a.client.Files.Delete(ctx, fileID)
	observe("files.delete", start, err)
	if err != nil {
		return wrap("delete file", err)
	}
	return nil
}

func fileState(vsf *openai.VectorStoreFile) adapter.JobState {
	s := adapter.JobState{
		BatchID: vsf.ID,
		Status:  model.JobStatus(vsf.Status),
	}
	if vsf.LastError.Message != "" {
		s.LastError = fmt.Sprintf("%s: %s", vsf.LastError.Code, vsf.LastError.Message)
	}
	return s
}

// wrap maps service 404s onto domain.ErrNotFound so cleanup stays idempotent.
func wrap(op string, err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) && apierr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func observe(op string, start time.Time, err error) {
	metrics.ObserveServiceCall(op, time.Since(start).Milliseconds(), err == nil)
}
