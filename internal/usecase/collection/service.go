// Package collection implements the collection lifecycle: the dimension and
// metric contract is fixed at creation and every later insert or search is
// validated against it.
package collection

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vecgate/vecgate/internal/domain"
)

// Reset always recreates with these defaults; the prior metric and index
// configuration is not preserved.
const (
	resetMetric    = domain.MetricCosine
	resetIndexType = domain.IndexIVFFlat
)

// Service handles collection lifecycle operations.
type Service struct {
	repo    Repository
	vectors VectorRepository
	logger  *zap.Logger
}

// New creates a collection service.
func New(repo Repository, vectors VectorRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, vectors: vectors, logger: logger}
}

// Create validates and stores a new collection contract. An unknown metric is
// rejected; an unknown index type silently falls back to IVF_FLAT. After
// creation the collection is loaded for serving; a load failure is reported
// in the returned warning but does not roll back the creation.
func (s *Service) Create(
	ctx context.Context, name string, dimension int,
	metric, indexType string, indexParams map[string]any,
) (domain.Collection, string, error) {
	m, err := domain.ParseMetric(metric)
	if err != nil {
		return domain.Collection{}, "", fmt.Errorf("validate metric: %w", err)
	}

	t, known := domain.ParseIndexType(indexType)
	if !known {
		s.logger.Warn("Unknown index type, falling back to IVF_FLAT",
			zap.String("collection", name),
			zap.String("index_type", indexType),
		)
	}

	col, err := domain.NewCollection(name, dimension, m, t, indexParams)
	if err != nil {
		return domain.Collection{}, "", fmt.Errorf("validate collection: %w", err)
	}

	if err := s.repo.Create(ctx, col); err != nil {
		return domain.Collection{}, "", fmt.Errorf("create collection: %w", err)
	}

	var warning string
	if err := s.repo.Load(ctx, name); err != nil {
		warning = fmt.Sprintf("collection %s created but not loaded: %v", name, err)
		s.logger.Warn("Collection created but load failed",
			zap.String("collection", name),
			zap.Error(err),
		)
	}

	return col, warning, nil
}

// Delete removes a collection and all of its records irrecoverably.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}

// List returns a summary per collection. A failed entity count degrades that
// row to zero instead of hiding the collection or failing the listing.
func (s *Service) List(ctx context.Context) ([]domain.Summary, error) {
	cols, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	summaries := make([]domain.Summary, 0, len(cols))
	for _, col := range cols {
		count, err := s.vectors.Count(ctx, col.Name)
		if err != nil {
			s.logger.Warn("Failed to count collection entities",
				zap.String("collection", col.Name),
				zap.Error(err),
			)
			count = 0
		}
		summaries = append(summaries, domain.Summary{
			Name:        col.Name,
			Dimension:   col.Dimension,
			Metric:      col.Metric,
			IndexType:   col.IndexType,
			EntityCount: count,
		})
	}

	return summaries, nil
}

// Describe returns the full contract and schema of a collection. Malformed
// metadata is reported as UNKNOWN/zero by the repository rather than failing.
func (s *Service) Describe(ctx context.Context, name string) (domain.Collection, domain.Schema, error) {
	col, err := s.repo.Get(ctx, name)
	if err != nil {
		return domain.Collection{}, domain.Schema{}, fmt.Errorf("describe collection: %w", err)
	}
	return col, domain.SchemaFor(col), nil
}

// ResetIdentifiers rebuilds a collection with fresh zero-based sequential
// ids. The collection is dropped and recreated with the same dimension but
// default metric and index configuration; the previous metric and index type
// are lost.
//
// The rebuild is not transactional. Records are held in memory between the
// drop and the reinsert; if recreation fails in that window, the data is gone
// with no automatic rollback.
func (s *Service) ResetIdentifiers(ctx context.Context, name string) (int, error) {
	col, err := s.repo.Get(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("reset ids: %w", err)
	}

	records, err := s.vectors.FetchAll(ctx, name, 0)
	if err != nil {
		return 0, fmt.Errorf("reset ids: fetch records: %w", err)
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("reset ids: %w", domain.ErrNoData)
	}

	if err := s.repo.Delete(ctx, name); err != nil {
		return 0, fmt.Errorf("reset ids: drop collection: %w", err)
	}

	fresh, err := domain.NewCollection(name, col.Dimension, resetMetric, resetIndexType, nil)
	if err != nil {
		return 0, fmt.Errorf("reset ids: rebuild contract: %w", err)
	}
	if err := s.repo.Create(ctx, fresh); err != nil {
		return 0, fmt.Errorf("reset ids: recreate collection (original data dropped, %d records lost): %w",
			len(records), err)
	}

	ids := make([]int64, len(records))
	vectors := make([][]float32, len(records))
	for i, rec := range records {
		ids[i] = int64(i)
		vectors[i] = rec.Vector
	}
	if err := s.vectors.InsertBatch(ctx, name, ids, vectors); err != nil {
		return 0, fmt.Errorf("reset ids: reinsert records: %w", err)
	}

	if err := s.repo.Load(ctx, name); err != nil {
		s.logger.Warn("Rebuilt collection not loaded",
			zap.String("collection", name),
			zap.Error(err),
		)
	}

	s.logger.Info("Collection identifiers rebuilt",
		zap.String("collection", name),
		zap.Int("records", len(records)),
	)

	return len(records), nil
}
