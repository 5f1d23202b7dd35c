// File: internal/usecase/query_uc.go
package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"vector-doc-search/internal/config"
	"vector-doc-search/internal/domain"
	"vector-doc-search/internal/domain/model"
	"vector-doc-search/internal/domain/ports/adapter"
)

type QueryUseCase interface {
	Ask(ctx context.Context, storeID, question string) (model.Answer, error)
}

// Compile-time check
var _ QueryUseCase = (*queryUC)(nil)

type queryUC struct {
	svc        adapter.VectorSearchAdapter
	deployment string
	cfg        config.QueryConfig
	log        *zerolog.Logger
}

func NewQueryUseCase(svc adapter.VectorSearchAdapter, deployment string, cfg config.QueryConfig, logger *zerolog.Logger) *queryUC {
	ucLog := logger.With().Str("component", "QueryUC").Logger()
	return &queryUC{svc: svc, deployment: deployment, cfg: cfg, log: &ucLog}
}

// Ask issues one search-augmented response call against the given store.
// An empty question falls back to the configured one.
func (q *queryUC) Ask(ctx context.Context, storeID, question string) (model.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		question = strings.TrimSpace(q.cfg.Question)
	}
	if question == "" || storeID == "" {
		return model.Answer{}, domain.ErrInvalidArgument
	}

	p := adapter.AskParams{
		Model:      q.deployment,
		Question:   question,
		StoreIDs:   []string{storeID},
		MaxResults: q.cfg.MaxResults,
		Ranking: adapter.RankingOptions{
			Ranker:         q.cfg.Ranker,
			ScoreThreshold: q.cfg.ScoreThreshold,
		},
		IncludeResults: true,
	}
	if q.cfg.FilterKey != "" {
		p.Filter = &adapter.SearchFilter{Key: q.cfg.FilterKey, Value: q.cfg.FilterValue}
	}

	ans, err := q.svc.Ask(ctx, p)
	if err != nil {
		return model.Answer{}, err
	}
	q.log.Info().Str("response_id", ans.ResponseID).Int("citations", len(ans.Citations)).Msg("answer generated")
	return ans, nil
}
