package ingest

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/vecgate/vecgate/internal/domain"
)

type mockCollections struct {
	getFn func(ctx context.Context, name string) (domain.Collection, error)
}

func (m *mockCollections) Get(ctx context.Context, name string) (domain.Collection, error) {
	if m.getFn != nil {
		return m.getFn(ctx, name)
	}
	return domain.Collection{Name: name, Dimension: 3, Metric: domain.MetricL2}, nil
}

type mockVectors struct {
	insertBatchFn func(ctx context.Context, collection string, ids []int64, vectors [][]float32) error
	fetchAllFn    func(ctx context.Context, collection string, limit int) ([]domain.VectorRecord, error)
	deleteFn      func(ctx context.Context, collection string, ids []int64) error
}

func (m *mockVectors) InsertBatch(ctx context.Context, collection string, ids []int64, vectors [][]float32) error {
	if m.insertBatchFn != nil {
		return m.insertBatchFn(ctx, collection, ids, vectors)
	}
	return nil
}

func (m *mockVectors) FetchAll(ctx context.Context, collection string, limit int) ([]domain.VectorRecord, error) {
	if m.fetchAllFn != nil {
		return m.fetchAllFn(ctx, collection, limit)
	}
	return nil, nil
}

func (m *mockVectors) Delete(ctx context.Context, collection string, ids []int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, collection, ids)
	}
	return nil
}

type mockAllocator struct {
	nextIDsFn func(ctx context.Context, collection string, count int) ([]int64, error)
}

func (m *mockAllocator) NextIDs(ctx context.Context, collection string, count int) ([]int64, error) {
	if m.nextIDsFn != nil {
		return m.nextIDsFn(ctx, collection, count)
	}
	ids := make([]int64, count)
	for i := range ids {
		ids[i] = int64(i)
	}
	return ids, nil
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}, nil
}

type testDeps struct {
	collections *mockCollections
	vectors     *mockVectors
	allocator   *mockAllocator
	embedder    *mockEmbedder
}

func newTestService(t *testing.T) (*Service, *testDeps) {
	t.Helper()
	deps := &testDeps{
		collections: &mockCollections{},
		vectors:     &mockVectors{},
		allocator:   &mockAllocator{},
		embedder:    &mockEmbedder{},
	}
	svc := New(deps.collections, deps.vectors, deps.allocator, deps.embedder, nil, zap.NewNop())
	return svc, deps
}
