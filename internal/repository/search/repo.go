// Package search runs KNN queries against a collection's vector index and
// shapes engine entries into transport-ready hits.
package search

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vecgate/vecgate/internal/db"
	"github.com/vecgate/vecgate/internal/domain"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Search performs a KNN query and returns hits ordered by engine rank. The
// engine reports raw distances; COSINE and IP hits are converted to the
// similarity the collection's metric promises (1 - distance), L2 stays raw.
func (r *Repo) Search(
	ctx context.Context, col domain.Collection,
	vector []float32, tuning map[string]any, limit int,
) ([]domain.SearchHit, error) {
	q := &db.KNNQuery{
		IndexName:    indexName(col.Name),
		Vector:       vector,
		K:            limit,
		EFRuntime:    intParam(tuning, "ef"),
		ReturnFields: []string{"vector"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", col.Name, err)
	}

	return parseHits(sr, col), nil
}

// parseHits converts db.SearchResult into []domain.SearchHit.
func parseHits(sr *db.SearchResult, col domain.Collection) []domain.SearchHit {
	if sr == nil || len(sr.Entries) == 0 {
		return []domain.SearchHit{}
	}

	prefix := domain.KeyPrefix + col.Name + ":"
	hits := make([]domain.SearchHit, 0, len(sr.Entries))

	for _, entry := range sr.Entries {
		hit := domain.SearchHit{
			Distance:   normalizeDistance(entry.Distance, col.Metric),
			Attributes: map[string]any{},
		}

		id, err := strconv.ParseInt(strings.TrimPrefix(entry.Key, prefix), 10, 64)
		if err != nil {
			hit.Err = fmt.Sprintf("unparsable record key %q", entry.Key)
			hits = append(hits, hit)
			continue
		}
		hit.ID = id

		if blob, ok := entry.Fields["vector"]; ok {
			if vec := blobToVector(blob); vec != nil {
				hit.Attributes["vector"] = vec
			}
		}

		hits = append(hits, hit)
	}

	return hits
}

// normalizeDistance maps the engine's raw distance onto the score scale of
// the collection's metric. COSINE and IP callers expect similarity.
func normalizeDistance(raw float64, metric domain.Metric) float64 {
	switch metric {
	case domain.MetricCosine, domain.MetricIP:
		return 1 - raw
	default:
		return raw
	}
}

// intParam reads a numeric tuning knob that may arrive as int (in-process)
// or float64 (decoded JSON).
func intParam(params map[string]any, key string) int {
	switch v := params[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// blobToVector deserializes a little-endian float32 blob.
func blobToVector(s string) []float32 {
	b := []byte(s)
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}

func indexName(collection string) string {
	return domain.KeyPrefix + collection + ":idx"
}
