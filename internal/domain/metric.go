package domain

import (
	"fmt"
	"strings"
)

// Metric is the similarity function a collection compares vectors with.
// Fixed at creation; every search must request the same metric.
type Metric string

const (
	// MetricL2 is Euclidean distance (lower is closer).
	MetricL2 Metric = "L2"
	// MetricIP is inner product (higher is closer).
	MetricIP Metric = "IP"
	// MetricCosine is cosine similarity (higher is closer).
	MetricCosine Metric = "COSINE"
	// MetricUnknown reports a metric that could not be read from store metadata.
	MetricUnknown Metric = "UNKNOWN"
)

// ParseMetric validates s against the closed metric set, case-insensitively.
func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToUpper(s)) {
	case MetricL2:
		return MetricL2, nil
	case MetricIP:
		return MetricIP, nil
	case MetricCosine:
		return MetricCosine, nil
	}
	return "", fmt.Errorf("%w: unsupported metric %q (supported: L2, IP, COSINE)", ErrInvalidArgument, s)
}

// Equal compares metrics case-insensitively.
func (m Metric) Equal(other Metric) bool {
	return strings.EqualFold(string(m), string(other))
}

// IndexType is the search-acceleration structure configured per collection.
type IndexType string

const (
	// IndexIVFFlat is an inverted-file index over raw vectors.
	IndexIVFFlat IndexType = "IVF_FLAT"
	// IndexHNSW is a hierarchical navigable small world graph.
	IndexHNSW IndexType = "HNSW"
	// IndexIVFSQ8 is an inverted-file index with scalar quantization.
	IndexIVFSQ8 IndexType = "IVF_SQ8"
	// IndexFlat is brute-force search without acceleration.
	IndexFlat IndexType = "FLAT"
	// IndexUnknown reports an index type that could not be read from store metadata.
	IndexUnknown IndexType = "UNKNOWN"
)

// ParseIndexType resolves s case-insensitively. Unknown index types fall
// back to IVF_FLAT rather than failing; ok reports whether s was recognized.
func ParseIndexType(s string) (t IndexType, ok bool) {
	switch IndexType(strings.ToUpper(s)) {
	case IndexIVFFlat:
		return IndexIVFFlat, true
	case IndexHNSW:
		return IndexHNSW, true
	case IndexIVFSQ8:
		return IndexIVFSQ8, true
	case IndexFlat:
		return IndexFlat, true
	}
	return IndexIVFFlat, false
}

// DefaultIndexParams returns the tuning knobs applied when a create request
// supplies none.
func DefaultIndexParams(t IndexType) map[string]any {
	switch t {
	case IndexIVFFlat, IndexIVFSQ8:
		return map[string]any{"nlist": 1024}
	case IndexHNSW:
		return map[string]any{"M": 16, "efConstruction": 500}
	default: // FLAT
		return map[string]any{}
	}
}
