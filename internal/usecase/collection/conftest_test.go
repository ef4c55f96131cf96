package collection

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/vecgate/vecgate/internal/domain"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	createFn func(ctx context.Context, col domain.Collection) error
	loadFn   func(ctx context.Context, name string) error
	getFn    func(ctx context.Context, name string) (domain.Collection, error)
	listFn   func(ctx context.Context) ([]domain.Collection, error)
	deleteFn func(ctx context.Context, name string) error
}

func (m *mockRepo) Create(ctx context.Context, col domain.Collection) error {
	if m.createFn != nil {
		return m.createFn(ctx, col)
	}
	return nil
}

func (m *mockRepo) Load(ctx context.Context, name string) error {
	if m.loadFn != nil {
		return m.loadFn(ctx, name)
	}
	return nil
}

func (m *mockRepo) Get(ctx context.Context, name string) (domain.Collection, error) {
	if m.getFn != nil {
		return m.getFn(ctx, name)
	}
	return domain.Collection{}, domain.ErrNotFound
}

func (m *mockRepo) List(ctx context.Context) ([]domain.Collection, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockRepo) Delete(ctx context.Context, name string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, name)
	}
	return nil
}

// mockVectors implements VectorRepository for tests.
type mockVectors struct {
	countFn       func(ctx context.Context, collection string) (int, error)
	fetchAllFn    func(ctx context.Context, collection string, limit int) ([]domain.VectorRecord, error)
	insertBatchFn func(ctx context.Context, collection string, ids []int64, vectors [][]float32) error
}

func (m *mockVectors) Count(ctx context.Context, collection string) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, collection)
	}
	return 0, nil
}

func (m *mockVectors) FetchAll(ctx context.Context, collection string, limit int) ([]domain.VectorRecord, error) {
	if m.fetchAllFn != nil {
		return m.fetchAllFn(ctx, collection, limit)
	}
	return nil, nil
}

func (m *mockVectors) InsertBatch(ctx context.Context, collection string, ids []int64, vectors [][]float32) error {
	if m.insertBatchFn != nil {
		return m.insertBatchFn(ctx, collection, ids, vectors)
	}
	return nil
}

func newTestService(t *testing.T) (*Service, *mockRepo, *mockVectors) {
	t.Helper()
	mr := &mockRepo{}
	mv := &mockVectors{}
	return New(mr, mv, zap.NewNop()), mr, mv
}

func storedCollection() domain.Collection {
	return domain.Collection{
		Name:        "docs",
		Dimension:   3,
		Metric:      domain.MetricL2,
		IndexType:   domain.IndexHNSW,
		IndexParams: map[string]any{"M": 16, "efConstruction": 500},
		CreatedAt:   1700000000000,
	}
}
