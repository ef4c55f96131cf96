package chi

import "github.com/vecgate/vecgate/internal/domain"

type createCollectionRequest struct {
	Name        string         `json:"name"`
	Dimension   int            `json:"dimension"`
	Metric      string         `json:"metric"`
	IndexType   string         `json:"index_type"`
	IndexParams map[string]any `json:"index_params,omitempty"`
}

type insertVectorsRequest struct {
	Records []map[string]any `json:"records"`
}

type deleteVectorsRequest struct {
	IDs []int64 `json:"ids"`
}

type searchRequest struct {
	QueryText string         `json:"query_text"`
	Metric    string         `json:"metric"`
	Params    map[string]any `json:"params,omitempty"`
	Limit     int            `json:"limit"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type collectionSummary struct {
	Name        string `json:"name"`
	Dimension   int    `json:"dimension"`
	Metric      string `json:"metric"`
	IndexType   string `json:"index_type"`
	EntityCount int    `json:"entity_count"`
}

type listCollectionsResponse struct {
	Success     bool                `json:"success"`
	Collections []collectionSummary `json:"collections"`
}

type describeCollectionResponse struct {
	Success   bool          `json:"success"`
	Metric    string        `json:"metric"`
	Dimension int           `json:"dimension"`
	Schema    domain.Schema `json:"schema"`
}

type insertVectorsResponse struct {
	Success       bool `json:"success"`
	InsertedCount int  `json:"inserted_count"`
}

type getVectorsResponse struct {
	Success bool                  `json:"success"`
	Vectors []domain.VectorRecord `json:"vectors"`
}

type searchResponse struct {
	Success bool               `json:"success"`
	Results []domain.SearchHit `json:"results"`
}

type errorResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	RequestedMetric string `json:"requested_metric,omitempty"`
	StoredMetric    string `json:"stored_metric,omitempty"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
