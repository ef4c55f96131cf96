package search

import (
	"context"

	"github.com/vecgate/vecgate/internal/domain"
)

// CollectionRepository reads the dimension/metric contract and probes index
// readiness. Fetched fresh per query, never cached.
type CollectionRepository interface {
	Get(ctx context.Context, name string) (domain.Collection, error)
	Load(ctx context.Context, name string) error
}

// Repository runs the similarity search against the engine.
type Repository interface {
	Search(ctx context.Context, col domain.Collection, vector []float32,
		tuning map[string]any, limit int) ([]domain.SearchHit, error)
}
