package ingest

import (
	"context"

	"github.com/vecgate/vecgate/internal/domain"
)

// CollectionRepository reads the dimension/metric contract. Fetched fresh per
// call, never cached.
type CollectionRepository interface {
	Get(ctx context.Context, name string) (domain.Collection, error)
}

// VectorRepository stores and retrieves vector records.
type VectorRepository interface {
	InsertBatch(ctx context.Context, collection string, ids []int64, vectors [][]float32) error
	FetchAll(ctx context.Context, collection string, limit int) ([]domain.VectorRecord, error)
	Delete(ctx context.Context, collection string, ids []int64) error
}

// Allocator hands out ids for the surviving records of a batch.
type Allocator interface {
	NextIDs(ctx context.Context, collection string, count int) ([]int64, error)
}
