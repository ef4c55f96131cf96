// Package chi exposes the collection, vector and search operations over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vecgate/vecgate/internal/db"
	"github.com/vecgate/vecgate/internal/domain"
	"github.com/vecgate/vecgate/internal/usecase/health"
)

// CollectionService is the collection lifecycle surface the server calls.
type CollectionService interface {
	Create(ctx context.Context, name string, dimension int, metric, indexType string, indexParams map[string]any) (domain.Collection, string, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]domain.Summary, error)
	Describe(ctx context.Context, name string) (domain.Collection, domain.Schema, error)
	ResetIdentifiers(ctx context.Context, name string) (int, error)
}

// IngestService is the vector ingestion surface the server calls.
type IngestService interface {
	Insert(ctx context.Context, collection string, records []domain.RecordInput) (int, error)
	Delete(ctx context.Context, collection string, ids []int64) error
	Fetch(ctx context.Context, collection string, limit int) ([]domain.VectorRecord, error)
}

// SearchService is the similarity search surface the server calls.
type SearchService interface {
	Search(ctx context.Context, collection, queryText, metric string, tuning map[string]any, limit int) ([]domain.SearchHit, error)
}

// HealthService aggregates component health checks.
type HealthService interface {
	Check(ctx context.Context) health.Report
}

// Server handles the HTTP API.
type Server struct {
	collections CollectionService
	ingest      IngestService
	search      SearchService
	health      HealthService
	logger      *zap.Logger
}

// NewServer creates an HTTP server over the use case services.
func NewServer(
	collections CollectionService,
	ingest IngestService,
	search SearchService,
	healthSvc HealthService,
	logger *zap.Logger,
) *Server {
	return &Server{
		collections: collections,
		ingest:      ingest,
		search:      search,
		health:      healthSvc,
		logger:      logger,
	}
}

// Register mounts the API routes on the router. Middleware is composed by the
// caller so auth and metrics wrap the full route tree.
func (s *Server) Register(r chi.Router) {
	r.Route("/api/v1/collections", func(r chi.Router) {
		r.Post("/", s.createCollection)
		r.Get("/", s.listCollections)
		r.Route("/{collection}", func(r chi.Router) {
			r.Get("/", s.describeCollection)
			r.Delete("/", s.deleteCollection)
			r.Post("/reset-ids", s.resetIdentifiers)
			r.Post("/vectors", s.insertVectors)
			r.Get("/vectors", s.getVectors)
			r.Post("/vectors/delete", s.deleteVectors)
			r.Post("/search", s.searchVectors)
		})
	})
	r.Get("/healthz", s.healthz)
}

func (s *Server) createCollection(w http.ResponseWriter, r *http.Request) {
	var req createCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid request body: %v", domain.ErrInvalidArgument, err))
		return
	}

	col, warning, err := s.collections.Create(r.Context(), req.Name, req.Dimension, req.Metric, req.IndexType, req.IndexParams)
	if err != nil {
		s.writeError(w, err)
		return
	}

	msg := fmt.Sprintf("collection %s created", col.Name)
	if warning != "" {
		msg = warning
	}
	writeJSON(w, http.StatusCreated, messageResponse{Success: true, Message: msg})
}

func (s *Server) listCollections(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.collections.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]collectionSummary, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, collectionSummary{
			Name:        sum.Name,
			Dimension:   sum.Dimension,
			Metric:      string(sum.Metric),
			IndexType:   string(sum.IndexType),
			EntityCount: sum.EntityCount,
		})
	}
	writeJSON(w, http.StatusOK, listCollectionsResponse{Success: true, Collections: out})
}

func (s *Server) describeCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "collection")

	col, schema, err := s.collections.Describe(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, describeCollectionResponse{
		Success:   true,
		Metric:    string(col.Metric),
		Dimension: col.Dimension,
		Schema:    schema,
	})
}

func (s *Server) deleteCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "collection")

	if err := s.collections.Delete(r.Context(), name); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Success: true,
		Message: fmt.Sprintf("collection %s deleted", name),
	})
}

func (s *Server) resetIdentifiers(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "collection")

	count, err := s.collections.ResetIdentifiers(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Success: true,
		Message: fmt.Sprintf("reassigned ids for %d records in collection %s", count, name),
	})
}

func (s *Server) insertVectors(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "collection")

	var req insertVectorsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid request body: %v", domain.ErrInvalidArgument, err))
		return
	}
	if len(req.Records) == 0 {
		s.writeError(w, fmt.Errorf("%w: records are required", domain.ErrInvalidArgument))
		return
	}

	records := make([]domain.RecordInput, 0, len(req.Records))
	for _, raw := range req.Records {
		records = append(records, domain.DecodeRecord(raw))
	}

	count, err := s.ingest.Insert(r.Context(), name, records)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insertVectorsResponse{Success: true, InsertedCount: count})
}

func (s *Server) getVectors(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "collection")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.writeError(w, fmt.Errorf("%w: invalid limit %q", domain.ErrInvalidArgument, raw))
			return
		}
		limit = parsed
	}

	records, err := s.ingest.Fetch(r.Context(), name, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if records == nil {
		records = []domain.VectorRecord{}
	}
	writeJSON(w, http.StatusOK, getVectorsResponse{Success: true, Vectors: records})
}

func (s *Server) deleteVectors(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "collection")

	var req deleteVectorsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid request body: %v", domain.ErrInvalidArgument, err))
		return
	}
	if len(req.IDs) == 0 {
		s.writeError(w, fmt.Errorf("%w: ids are required", domain.ErrInvalidArgument))
		return
	}

	if err := s.ingest.Delete(r.Context(), name, req.IDs); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Success: true,
		Message: fmt.Sprintf("deleted %d ids from collection %s", len(req.IDs), name),
	})
}

func (s *Server) searchVectors(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "collection")

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid request body: %v", domain.ErrInvalidArgument, err))
		return
	}
	if req.QueryText == "" {
		s.writeError(w, fmt.Errorf("%w: query_text is required", domain.ErrInvalidArgument))
		return
	}

	hits, err := s.search.Search(r.Context(), name, req.QueryText, req.Metric, req.Params, req.Limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if hits == nil {
		hits = []domain.SearchHit{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Success: true, Results: hits})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for name, result := range report.Checks {
		checks[name] = string(result)
	}

	status := http.StatusOK
	if report.Status != health.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{Status: string(report.Status), Checks: checks})
}

// sentinelStatus maps domain sentinels to HTTP statuses, checked in order.
var sentinelStatus = []struct {
	sentinel error
	status   int
}{
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrAlreadyExists, http.StatusConflict},
	{domain.ErrMetricMismatch, http.StatusConflict},
	{domain.ErrInvalidArgument, http.StatusBadRequest},
	{domain.ErrNoValidRecords, http.StatusBadRequest},
	{domain.ErrNoData, http.StatusBadRequest},
	{domain.ErrEmbedding, http.StatusBadGateway},
	{domain.ErrStoreUnavailable, http.StatusServiceUnavailable},
	{db.ErrUnavailable, http.StatusServiceUnavailable},
}

// writeError classifies err against the domain sentinels and writes the error
// envelope. Unclassified errors become an opaque 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var mismatch *domain.MetricMismatchError
	if errors.As(err, &mismatch) {
		writeJSON(w, http.StatusConflict, errorResponse{
			Message:         mismatch.Error(),
			RequestedMetric: string(mismatch.Requested),
			StoredMetric:    string(mismatch.Stored),
		})
		return
	}

	for _, m := range sentinelStatus {
		if errors.Is(err, m.sentinel) {
			writeJSON(w, m.status, errorResponse{Message: safeMessage(err, m.status)})
			return
		}
	}

	s.logger.Error("Unhandled request error", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
}

// safeMessage keeps client errors descriptive but hides upstream detail on
// gateway-side failures.
func safeMessage(err error, status int) string {
	switch status {
	case http.StatusBadGateway:
		return domain.ErrEmbedding.Error()
	case http.StatusServiceUnavailable:
		return domain.ErrStoreUnavailable.Error()
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
