// Package search is the query engine: it enforces the metric precondition
// against the collection's stored contract, embeds the query text to the
// declared dimension, and normalizes engine hits.
package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vecgate/vecgate/internal/domain"
)

// engineMetricErr is the raw engine failure substring rewritten into a
// metric-mismatch explanation.
const engineMetricErr = "metric type not match"

// Service handles similarity search requests.
type Service struct {
	collections CollectionRepository
	repo        Repository
	embedder    domain.Embedder
	logger      *zap.Logger
}

// New creates a search service.
func New(collections CollectionRepository, repo Repository, embedder domain.Embedder, logger *zap.Logger) *Service {
	return &Service{
		collections: collections,
		repo:        repo,
		embedder:    embedder,
		logger:      logger,
	}
}

// Search validates the requested metric against the collection's stored
// metric, embeds the query text, and runs the KNN query. A metric mismatch is
// rejected before any similarity computation, carrying both values so the
// caller can self-correct.
func (s *Service) Search(
	ctx context.Context, collection, queryText, metric string,
	tuning map[string]any, limit int,
) ([]domain.SearchHit, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("search: %w: limit must be positive, got %d", domain.ErrInvalidArgument, limit)
	}

	requested, err := domain.ParseMetric(metric)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	col, err := s.collections.Get(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	if err := s.collections.Load(ctx, collection); err != nil {
		return nil, fmt.Errorf("search: load collection: %w", err)
	}

	// A stored metric that degraded to UNKNOWN cannot be checked; the
	// precondition applies only when the contract is readable.
	if col.Metric != domain.MetricUnknown && !col.Metric.Equal(requested) {
		return nil, fmt.Errorf("search: %w", domain.NewMetricMismatch(requested, col.Metric))
	}

	result, err := s.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("search: embed query: %w", err)
	}
	vector := domain.FitDimension(result.Embedding, col.Dimension)

	hits, err := s.repo.Search(ctx, col, vector, tuning, limit)
	if err != nil {
		if strings.Contains(err.Error(), engineMetricErr) {
			return nil, fmt.Errorf("search: %w", domain.NewMetricMismatch(requested, col.Metric))
		}
		return nil, fmt.Errorf("search: %w", err)
	}

	s.logger.Debug("Search completed",
		zap.String("collection", collection),
		zap.String("metric", string(requested)),
		zap.Int("limit", limit),
		zap.Int("hits", len(hits)),
	)

	return hits, nil
}
