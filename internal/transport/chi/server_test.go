package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/vecgate/vecgate/internal/domain"
	"github.com/vecgate/vecgate/internal/usecase/health"
)

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestCreateCollection(t *testing.T) {
	ts, deps := newTestServer(t)

	var gotMetric, gotIndex string
	deps.collections.createFn = func(_ context.Context, name string, dimension int, metric, indexType string, _ map[string]any) (domain.Collection, string, error) {
		gotMetric, gotIndex = metric, indexType
		if name != "docs" || dimension != 128 {
			t.Errorf("unexpected create args: %s/%d", name, dimension)
		}
		return domain.Collection{Name: name, Dimension: dimension}, "", nil
	}

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/collections",
		`{"name":"docs","dimension":128,"metric":"COSINE","index_type":"HNSW"}`)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var body messageResponse
	decodeBody(t, resp, &body)
	if !body.Success || body.Message != "collection docs created" {
		t.Errorf("unexpected body: %+v", body)
	}
	if gotMetric != "COSINE" || gotIndex != "HNSW" {
		t.Errorf("metric/index not forwarded: %s/%s", gotMetric, gotIndex)
	}
}

func TestCreateCollection_LoadWarningSurfaced(t *testing.T) {
	ts, deps := newTestServer(t)

	deps.collections.createFn = func(_ context.Context, name string, _ int, _, _ string, _ map[string]any) (domain.Collection, string, error) {
		return domain.Collection{Name: name}, "collection docs created but not loaded: timeout", nil
	}

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/collections",
		`{"name":"docs","dimension":4,"metric":"L2"}`)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var body messageResponse
	decodeBody(t, resp, &body)
	if body.Message != "collection docs created but not loaded: timeout" {
		t.Errorf("warning not surfaced: %q", body.Message)
	}
}

func TestCreateCollection_AlreadyExists(t *testing.T) {
	ts, deps := newTestServer(t)

	deps.collections.createFn = func(_ context.Context, _ string, _ int, _, _ string, _ map[string]any) (domain.Collection, string, error) {
		return domain.Collection{}, "", fmt.Errorf("create: %w", domain.ErrAlreadyExists)
	}

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/collections",
		`{"name":"docs","dimension":4,"metric":"L2"}`)

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestCreateCollection_BadBody(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/collections", `{not json`)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListCollections(t *testing.T) {
	ts, deps := newTestServer(t)

	deps.collections.listFn = func(_ context.Context) ([]domain.Summary, error) {
		return []domain.Summary{
			{Name: "docs", Dimension: 128, Metric: domain.MetricCosine, IndexType: domain.IndexHNSW, EntityCount: 42},
			{Name: "logs", Dimension: 4, Metric: domain.MetricL2, IndexType: domain.IndexFlat},
		}, nil
	}

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/collections", "")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body listCollectionsResponse
	decodeBody(t, resp, &body)
	if len(body.Collections) != 2 {
		t.Fatalf("got %d collections, want 2", len(body.Collections))
	}
	first := body.Collections[0]
	if first.Name != "docs" || first.Metric != "COSINE" || first.EntityCount != 42 {
		t.Errorf("unexpected summary: %+v", first)
	}
}

func TestDescribeCollection(t *testing.T) {
	ts, deps := newTestServer(t)

	deps.collections.describeFn = func(_ context.Context, name string) (domain.Collection, domain.Schema, error) {
		col := domain.Collection{Name: name, Dimension: 128, Metric: domain.MetricIP}
		return col, domain.SchemaFor(col), nil
	}

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/collections/docs", "")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body describeCollectionResponse
	decodeBody(t, resp, &body)
	if body.Metric != "IP" || body.Dimension != 128 {
		t.Errorf("unexpected body: %+v", body)
	}
	if len(body.Schema.Fields) != 2 || !body.Schema.Fields[0].IsPrimary {
		t.Errorf("unexpected schema: %+v", body.Schema)
	}
}

func TestDescribeCollection_NotFound(t *testing.T) {
	ts, deps := newTestServer(t)

	deps.collections.describeFn = func(_ context.Context, _ string) (domain.Collection, domain.Schema, error) {
		return domain.Collection{}, domain.Schema{}, fmt.Errorf("describe: %w", domain.ErrNotFound)
	}

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/collections/ghost", "")

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var body errorResponse
	decodeBody(t, resp, &body)
	if body.Success {
		t.Error("error body must have success=false")
	}
}

func TestDeleteCollection(t *testing.T) {
	ts, deps := newTestServer(t)

	var deleted string
	deps.collections.deleteFn = func(_ context.Context, name string) error {
		deleted = name
		return nil
	}

	resp := doJSON(t, http.MethodDelete, ts.URL+"/api/v1/collections/docs", "")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if deleted != "docs" {
		t.Errorf("deleted = %q, want docs", deleted)
	}
}

func TestResetIdentifiers(t *testing.T) {
	ts, deps := newTestServer(t)

	deps.collections.resetFn = func(_ context.Context, name string) (int, error) {
		return 7, nil
	}

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/collections/docs/reset-ids", "")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body messageResponse
	decodeBody(t, resp, &body)
	if body.Message != "reassigned ids for 7 records in collection docs" {
		t.Errorf("unexpected message: %q", body.Message)
	}
}

func TestResetIdentifiers_EmptyCollection(t *testing.T) {
	ts, deps := newTestServer(t)

	deps.collections.resetFn = func(_ context.Context, _ string) (int, error) {
		return 0, fmt.Errorf("reset ids: %w", domain.ErrNoData)
	}

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/collections/docs/reset-ids", "")

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestInsertVectors(t *testing.T) {
	ts, deps := newTestServer(t)

	var gotKinds []domain.RecordKind
	deps.ingest.insertFn = func(_ context.Context, collection string, records []domain.RecordInput) (int, error) {
		if collection != "docs" {
			t.Errorf("collection = %q", collection)
		}
		for _, rec := range records {
			gotKinds = append(gotKinds, rec.Kind())
		}
		return len(records), nil
	}

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/collections/docs/vectors",
		`{"records":[{"text":"hello"},{"vector":[0.1,0.2]},{"category":"metadata only"}]}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body insertVectorsResponse
	decodeBody(t, resp, &body)
	if body.InsertedCount != 3 {
		t.Errorf("inserted_count = %d, want 3", body.InsertedCount)
	}
	want := []domain.RecordKind{domain.RecordText, domain.RecordVector, domain.RecordInvalid}
	for i, k := range want {
		if gotKinds[i] != k {
			t.Errorf("record %d kind = %v, want %v", i, gotKinds[i], k)
		}
	}
}

func TestInsertVectors_EmptyBatch(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/collections/docs/vectors", `{"records":[]}`)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestInsertVectors_AllDropped(t *testing.T) {
	ts, deps := newTestServer(t)

	deps.ingest.insertFn = func(_ context.Context, _ string, _ []domain.RecordInput) (int, error) {
		return 0, fmt.Errorf("insert: %w", domain.ErrNoValidRecords)
	}

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/collections/docs/vectors",
		`{"records":[{"bogus":1}]}`)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetVectors(t *testing.T) {
	ts, deps := newTestServer(t)

	deps.ingest.fetchFn = func(_ context.Context, _ string, limit int) ([]domain.VectorRecord, error) {
		if limit != 2 {
			t.Errorf("limit = %d, want 2", limit)
		}
		return []domain.VectorRecord{
			{ID: 0, Vector: []float32{1, 2}},
			{ID: 1, Vector: []float32{3, 4}},
		}, nil
	}

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/collections/docs/vectors?limit=2", "")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body getVectorsResponse
	decodeBody(t, resp, &body)
	if len(body.Vectors) != 2 || body.Vectors[1].ID != 1 {
		t.Errorf("unexpected vectors: %+v", body.Vectors)
	}
}

func TestGetVectors_BadLimit(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/collections/docs/vectors?limit=abc", "")

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetVectors_NegativeLimit(t *testing.T) {
	ts, deps := newTestServer(t)

	deps.ingest.fetchFn = func(_ context.Context, _ string, _ int) ([]domain.VectorRecord, error) {
		t.Error("fetch must not run for a negative limit")
		return nil, nil
	}

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/collections/docs/vectors?limit=-1", "")

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetVectors_EmptyIsArray(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/collections/docs/vectors", "")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var raw map[string]json.RawMessage
	decodeBody(t, resp, &raw)
	if string(raw["vectors"]) != "[]" {
		t.Errorf("vectors = %s, want []", raw["vectors"])
	}
}

func TestDeleteVectors(t *testing.T) {
	ts, deps := newTestServer(t)

	var gotIDs []int64
	deps.ingest.deleteFn = func(_ context.Context, _ string, ids []int64) error {
		gotIDs = ids
		return nil
	}

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/collections/docs/vectors/delete",
		`{"ids":[3,5,8]}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(gotIDs) != 3 || gotIDs[2] != 8 {
		t.Errorf("ids = %v, want [3 5 8]", gotIDs)
	}
}

func TestDeleteVectors_EmptyIDs(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/collections/docs/vectors/delete", `{"ids":[]}`)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSearchVectors(t *testing.T) {
	ts, deps := newTestServer(t)

	deps.search.searchFn = func(_ context.Context, collection, queryText, metric string, tuning map[string]any, limit int) ([]domain.SearchHit, error) {
		if collection != "docs" || queryText != "hello" || metric != "COSINE" || limit != 5 {
			t.Errorf("unexpected search args: %s %s %s %d", collection, queryText, metric, limit)
		}
		if tuning["ef"] != float64(64) {
			t.Errorf("tuning not forwarded: %v", tuning)
		}
		return []domain.SearchHit{
			{ID: 9, Distance: 0.93, Attributes: map[string]any{}},
		}, nil
	}

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/collections/docs/search",
		`{"query_text":"hello","metric":"COSINE","params":{"ef":64},"limit":5}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body searchResponse
	decodeBody(t, resp, &body)
	if len(body.Results) != 1 || body.Results[0].ID != 9 {
		t.Errorf("unexpected results: %+v", body.Results)
	}
}

func TestSearchVectors_MissingQueryText(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/collections/docs/search",
		`{"metric":"L2","limit":5}`)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSearchVectors_MetricMismatchPayload(t *testing.T) {
	ts, deps := newTestServer(t)

	deps.search.searchFn = func(_ context.Context, _, _, _ string, _ map[string]any, _ int) ([]domain.SearchHit, error) {
		return nil, fmt.Errorf("search: %w", domain.NewMetricMismatch(domain.MetricL2, domain.MetricCosine))
	}

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/collections/docs/search",
		`{"query_text":"hello","metric":"L2","limit":5}`)

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
	var body errorResponse
	decodeBody(t, resp, &body)
	if body.RequestedMetric != "L2" || body.StoredMetric != "COSINE" {
		t.Errorf("mismatch payload missing: %+v", body)
	}
}

func TestSearchVectors_EmbeddingFailureIs502(t *testing.T) {
	ts, deps := newTestServer(t)

	deps.search.searchFn = func(_ context.Context, _, _, _ string, _ map[string]any, _ int) ([]domain.SearchHit, error) {
		return nil, fmt.Errorf("search: embed query: api key rejected: %w", domain.ErrEmbedding)
	}

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/collections/docs/search",
		`{"query_text":"hello","metric":"L2","limit":5}`)

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
	var body errorResponse
	decodeBody(t, resp, &body)
	if body.Message != domain.ErrEmbedding.Error() {
		t.Errorf("upstream detail leaked: %q", body.Message)
	}
}

func TestSearchVectors_StoreUnavailableIs503(t *testing.T) {
	ts, deps := newTestServer(t)

	deps.search.searchFn = func(_ context.Context, _, _, _ string, _ map[string]any, _ int) ([]domain.SearchHit, error) {
		return nil, fmt.Errorf("search: %w", domain.ErrStoreUnavailable)
	}

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/collections/docs/search",
		`{"query_text":"hello","metric":"L2","limit":5}`)

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}

func TestUnclassifiedErrorIsOpaque500(t *testing.T) {
	ts, deps := newTestServer(t)

	deps.collections.listFn = func(_ context.Context) ([]domain.Summary, error) {
		return nil, fmt.Errorf("wire corruption at offset 12")
	}

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/collections", "")

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	var body errorResponse
	decodeBody(t, resp, &body)
	if body.Message != "internal server error" {
		t.Errorf("internal detail leaked: %q", body.Message)
	}
}

func TestHealthz(t *testing.T) {
	ts, deps := newTestServer(t)

	deps.health.checkFn = func(_ context.Context) health.Report {
		return health.Report{
			Status: health.Healthy,
			Checks: map[string]health.CheckResult{"database": health.CheckOK, "embedding": health.CheckOK},
		}
	}

	resp := doJSON(t, http.MethodGet, ts.URL+"/healthz", "")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body healthResponse
	decodeBody(t, resp, &body)
	if body.Status != "ok" || body.Checks["database"] != "ok" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestHealthz_Degraded(t *testing.T) {
	ts, deps := newTestServer(t)

	deps.health.checkFn = func(_ context.Context) health.Report {
		return health.Report{
			Status: health.Degraded,
			Checks: map[string]health.CheckResult{"database": health.CheckError},
		}
	}

	resp := doJSON(t, http.MethodGet, ts.URL+"/healthz", "")

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}
