package collection

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/vecgate/vecgate/internal/domain"
)

// collectionToHash converts a collection contract to a map for HSET.
func collectionToHash(col domain.Collection) (map[string]string, error) {
	paramsJSON, err := json.Marshal(col.IndexParams)
	if err != nil {
		return nil, fmt.Errorf("marshal index params: %w", err)
	}
	return map[string]string{
		"name":              col.Name,
		"dimension":         strconv.Itoa(col.Dimension),
		"metric":            string(col.Metric),
		"index_type":        string(col.IndexType),
		"index_params_json": string(paramsJSON),
		"created_at":        strconv.FormatInt(col.CreatedAt, 10),
	}, nil
}

// collectionFromHash hydrates a collection contract from an HGETALL result.
// Absent or malformed metadata degrades the affected field to UNKNOWN/zero
// instead of failing; callers report those values verbatim.
func collectionFromHash(m map[string]string) domain.Collection {
	col := domain.Collection{
		Name:      m["name"],
		Metric:    domain.MetricUnknown,
		IndexType: domain.IndexUnknown,
	}

	if dim, err := strconv.Atoi(m["dimension"]); err == nil && dim > 0 {
		col.Dimension = dim
	}
	if metric, err := domain.ParseMetric(m["metric"]); err == nil {
		col.Metric = metric
	}
	if t, ok := domain.ParseIndexType(m["index_type"]); ok {
		col.IndexType = t
	}
	if createdAt, err := strconv.ParseInt(m["created_at"], 10, 64); err == nil {
		col.CreatedAt = createdAt
	}

	col.IndexParams = map[string]any{}
	if raw := m["index_params_json"]; raw != "" {
		// Malformed params degrade to empty, same policy as the other fields.
		_ = json.Unmarshal([]byte(raw), &col.IndexParams)
	}

	return col
}
