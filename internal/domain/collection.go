// Package domain holds the core types of the vector collection lifecycle:
// collections with their dimension/metric contract, ingestion record inputs,
// search hits, and the embedding boundary.
package domain

import (
	"fmt"
	"regexp"
	"time"
)

// KeyPrefix namespaces every store key written by this service.
const KeyPrefix = "vecgate:"

// metaNamespace is the key segment holding collection metadata hashes. A
// collection with this name would store its records inside that namespace.
const metaNamespace = "collection"

// validName keeps collection names unambiguous in the engine keyspace:
// ':' is the key separator, so it can never appear in a name.
var validName = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Collection is the authoritative dimension/metric contract for a named set
// of vector records. Dimension and Metric never change after creation.
type Collection struct {
	Name        string
	Dimension   int
	Metric      Metric
	IndexType   IndexType
	IndexParams map[string]any
	CreatedAt   int64 // unix millis
}

// NewCollection validates and builds a collection contract. The metric must
// already be parsed; index params default per index type when nil.
func NewCollection(name string, dimension int, metric Metric, indexType IndexType, params map[string]any) (Collection, error) {
	if name == "" {
		return Collection{}, fmt.Errorf("%w: collection name is required", ErrInvalidArgument)
	}
	if !validName.MatchString(name) {
		return Collection{}, fmt.Errorf("%w: collection name %q must match [a-zA-Z0-9_-]+", ErrInvalidArgument, name)
	}
	if name == metaNamespace {
		return Collection{}, fmt.Errorf("%w: collection name %q is reserved", ErrInvalidArgument, name)
	}
	if dimension <= 0 {
		return Collection{}, fmt.Errorf("%w: dimension must be positive, got %d", ErrInvalidArgument, dimension)
	}
	if params == nil {
		params = DefaultIndexParams(indexType)
	}
	return Collection{
		Name:        name,
		Dimension:   dimension,
		Metric:      metric,
		IndexType:   indexType,
		IndexParams: params,
		CreatedAt:   time.Now().UnixMilli(),
	}, nil
}

// Summary is the per-collection row returned by list. Introspection failures
// degrade individual fields to UNKNOWN/zero instead of hiding the collection.
type Summary struct {
	Name        string
	Dimension   int
	Metric      Metric
	IndexType   IndexType
	EntityCount int
}

// SchemaField describes one stored field of a collection.
type SchemaField struct {
	Name      string `json:"name"`
	DType     string `json:"dtype"`
	IsPrimary bool   `json:"is_primary"`
	Dim       int    `json:"dim,omitempty"`
}

// Schema is the full field layout reported by describe.
type Schema struct {
	Description string        `json:"description"`
	Fields      []SchemaField `json:"fields"`
}

// SchemaFor returns the fixed record schema of a collection: an int64
// primary id and a float vector of the declared dimension. No other fields
// are ever persisted.
func SchemaFor(col Collection) Schema {
	return Schema{
		Description: fmt.Sprintf("vector collection %s", col.Name),
		Fields: []SchemaField{
			{Name: "id", DType: "Int64", IsPrimary: true},
			{Name: "vector", DType: "FloatVector", Dim: col.Dimension},
		},
	}
}
