package collection

import (
	"context"

	"github.com/vecgate/vecgate/internal/domain"
)

// Repository defines the storage contract for collections.
type Repository interface {
	Create(ctx context.Context, col domain.Collection) error
	Load(ctx context.Context, name string) error
	Get(ctx context.Context, name string) (domain.Collection, error)
	List(ctx context.Context) ([]domain.Collection, error)
	Delete(ctx context.Context, name string) error
}

// VectorRepository is the slice of vector record storage the collection
// lifecycle needs: live counts for listing and full reads plus reinsertion
// for the id rebuild.
type VectorRepository interface {
	Count(ctx context.Context, collection string) (int, error)
	FetchAll(ctx context.Context, collection string, limit int) ([]domain.VectorRecord, error)
	InsertBatch(ctx context.Context, collection string, ids []int64, vectors [][]float32) error
}
