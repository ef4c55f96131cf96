package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vecgate/vecgate/internal/domain"
	"github.com/vecgate/vecgate/internal/usecase/health"
)

type mockCollections struct {
	createFn   func(ctx context.Context, name string, dimension int, metric, indexType string, params map[string]any) (domain.Collection, string, error)
	deleteFn   func(ctx context.Context, name string) error
	listFn     func(ctx context.Context) ([]domain.Summary, error)
	describeFn func(ctx context.Context, name string) (domain.Collection, domain.Schema, error)
	resetFn    func(ctx context.Context, name string) (int, error)
}

func (m *mockCollections) Create(ctx context.Context, name string, dimension int, metric, indexType string, params map[string]any) (domain.Collection, string, error) {
	if m.createFn == nil {
		return domain.Collection{Name: name}, "", nil
	}
	return m.createFn(ctx, name, dimension, metric, indexType, params)
}

func (m *mockCollections) Delete(ctx context.Context, name string) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, name)
}

func (m *mockCollections) List(ctx context.Context) ([]domain.Summary, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx)
}

func (m *mockCollections) Describe(ctx context.Context, name string) (domain.Collection, domain.Schema, error) {
	if m.describeFn == nil {
		return domain.Collection{Name: name}, domain.Schema{}, nil
	}
	return m.describeFn(ctx, name)
}

func (m *mockCollections) ResetIdentifiers(ctx context.Context, name string) (int, error) {
	if m.resetFn == nil {
		return 0, nil
	}
	return m.resetFn(ctx, name)
}

type mockIngest struct {
	insertFn func(ctx context.Context, collection string, records []domain.RecordInput) (int, error)
	deleteFn func(ctx context.Context, collection string, ids []int64) error
	fetchFn  func(ctx context.Context, collection string, limit int) ([]domain.VectorRecord, error)
}

func (m *mockIngest) Insert(ctx context.Context, collection string, records []domain.RecordInput) (int, error) {
	if m.insertFn == nil {
		return len(records), nil
	}
	return m.insertFn(ctx, collection, records)
}

func (m *mockIngest) Delete(ctx context.Context, collection string, ids []int64) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, collection, ids)
}

func (m *mockIngest) Fetch(ctx context.Context, collection string, limit int) ([]domain.VectorRecord, error) {
	if m.fetchFn == nil {
		return nil, nil
	}
	return m.fetchFn(ctx, collection, limit)
}

type mockSearch struct {
	searchFn func(ctx context.Context, collection, queryText, metric string, tuning map[string]any, limit int) ([]domain.SearchHit, error)
}

func (m *mockSearch) Search(ctx context.Context, collection, queryText, metric string, tuning map[string]any, limit int) ([]domain.SearchHit, error) {
	if m.searchFn == nil {
		return nil, nil
	}
	return m.searchFn(ctx, collection, queryText, metric, tuning, limit)
}

type mockHealth struct {
	checkFn func(ctx context.Context) health.Report
}

func (m *mockHealth) Check(ctx context.Context) health.Report {
	if m.checkFn == nil {
		return health.Report{Status: health.Healthy, Checks: map[string]health.CheckResult{}}
	}
	return m.checkFn(ctx)
}

type testDeps struct {
	collections *mockCollections
	ingest      *mockIngest
	search      *mockSearch
	health      *mockHealth
}

func newTestServer(t *testing.T) (*httptest.Server, *testDeps) {
	t.Helper()

	deps := &testDeps{
		collections: &mockCollections{},
		ingest:      &mockIngest{},
		search:      &mockSearch{},
		health:      &mockHealth{},
	}

	srv := NewServer(deps.collections, deps.ingest, deps.search, deps.health, zap.NewNop())
	r := chi.NewRouter()
	srv.Register(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, deps
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequest(method, url, nil)
	} else {
		req, err = http.NewRequest(method, url, strings.NewReader(body))
	}
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}
