// Package ingest normalizes heterogeneous input records into vectors of the
// collection's declared dimension and submits them with allocated ids.
// Malformed records are dropped per record; only an empty surviving set fails
// the batch.
package ingest

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vecgate/vecgate/internal/domain"
)

// Drop reasons reported on the dropped-records counter.
const (
	dropReasonInvalid   = "invalid_shape"
	dropReasonDimension = "dimension_mismatch"
	dropReasonEmbed     = "embed_failed"
)

// Service is the ingestion pipeline.
type Service struct {
	collections  CollectionRepository
	vectors      VectorRepository
	allocator    Allocator
	embedder     domain.Embedder
	droppedTotal *prometheus.CounterVec
	logger       *zap.Logger
}

// New creates an ingestion service. droppedTotal is a counter vec with label
// "reason", passed explicitly; nil disables the metric.
func New(
	collections CollectionRepository,
	vectors VectorRepository,
	allocator Allocator,
	embedder domain.Embedder,
	droppedTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Service {
	return &Service{
		collections:  collections,
		vectors:      vectors,
		allocator:    allocator,
		embedder:     embedder,
		droppedTotal: droppedTotal,
		logger:       logger,
	}
}

// Insert normalizes each record into a vector of the collection's dimension,
// drops the ones that cannot conform, and writes the survivors under freshly
// allocated ids. Only id and vector are persisted; any metadata carried by a
// record is discarded. Returns the number of records written.
func (s *Service) Insert(ctx context.Context, collection string, records []domain.RecordInput) (int, error) {
	col, err := s.collections.Get(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("insert vectors: %w", err)
	}

	vectors := make([][]float32, 0, len(records))
	for i, rec := range records {
		vec, reason := s.normalize(ctx, col, rec)
		if reason != "" {
			s.drop(collection, i, reason)
			continue
		}
		vectors = append(vectors, vec)
	}

	if len(vectors) == 0 {
		return 0, fmt.Errorf("insert vectors: %w", domain.ErrNoValidRecords)
	}

	ids, err := s.allocator.NextIDs(ctx, collection, len(vectors))
	if err != nil {
		return 0, fmt.Errorf("insert vectors: allocate ids: %w", err)
	}

	if err := s.vectors.InsertBatch(ctx, collection, ids, vectors); err != nil {
		return 0, fmt.Errorf("insert vectors: %w", err)
	}

	s.logger.Info("Vectors inserted",
		zap.String("collection", collection),
		zap.Int("inserted", len(vectors)),
		zap.Int("dropped", len(records)-len(vectors)),
		zap.Int64("first_id", ids[0]),
	)

	return len(vectors), nil
}

// normalize reduces one record to a vector of the collection's dimension.
// A non-empty reason means the record is dropped.
func (s *Service) normalize(ctx context.Context, col domain.Collection, rec domain.RecordInput) ([]float32, string) {
	switch rec.Kind() {
	case domain.RecordText:
		result, err := s.embedder.Embed(ctx, rec.Text())
		if err != nil {
			s.logger.Warn("Failed to embed record text",
				zap.String("collection", col.Name),
				zap.Error(err),
			)
			return nil, dropReasonEmbed
		}
		return domain.FitDimension(result.Embedding, col.Dimension), ""
	case domain.RecordVector:
		vec := rec.Vector()
		if len(vec) != col.Dimension {
			return nil, dropReasonDimension
		}
		return vec, ""
	default:
		return nil, dropReasonInvalid
	}
}

func (s *Service) drop(collection string, index int, reason string) {
	if s.droppedTotal != nil {
		s.droppedTotal.WithLabelValues(reason).Inc()
	}
	s.logger.Warn("Record dropped",
		zap.String("collection", collection),
		zap.Int("record_index", index),
		zap.String("reason", reason),
	)
}

// Delete removes records by id. Missing ids are a no-op at the store.
func (s *Service) Delete(ctx context.Context, collection string, ids []int64) error {
	if _, err := s.collections.Get(ctx, collection); err != nil {
		return fmt.Errorf("delete vectors: %w", err)
	}
	if err := s.vectors.Delete(ctx, collection, ids); err != nil {
		return fmt.Errorf("delete vectors: %w", err)
	}
	return nil
}

// Fetch reads up to limit stored records ordered by id. A non-positive limit
// fetches everything.
func (s *Service) Fetch(ctx context.Context, collection string, limit int) ([]domain.VectorRecord, error) {
	if _, err := s.collections.Get(ctx, collection); err != nil {
		return nil, fmt.Errorf("get vectors: %w", err)
	}
	records, err := s.vectors.FetchAll(ctx, collection, limit)
	if err != nil {
		return nil, fmt.Errorf("get vectors: %w", err)
	}
	return records, nil
}
