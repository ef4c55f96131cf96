package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing collection.
	ErrNotFound = errors.New("collection not found")
	// ErrAlreadyExists signals a duplicate collection name.
	ErrAlreadyExists = errors.New("collection already exists")
	// ErrInvalidArgument signals a request parameter outside its closed set.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMetricMismatch signals a search metric that differs from the
	// metric the collection was created with.
	ErrMetricMismatch = errors.New("metric mismatch")
	// ErrNoValidRecords signals an ingestion batch where every record was dropped.
	ErrNoValidRecords = errors.New("no valid records in batch")
	// ErrNoData signals an operation that requires stored vectors on an empty collection.
	ErrNoData = errors.New("collection holds no data")
	// ErrEmbedding signals an embedding model failure.
	ErrEmbedding = errors.New("embedding failed")
	// ErrStoreUnavailable signals a connection-level vector store failure.
	ErrStoreUnavailable = errors.New("vector store unavailable")
)

// MetricMismatchError wraps ErrMetricMismatch with both metrics so the
// caller can self-correct.
type MetricMismatchError struct {
	Requested Metric
	Stored    Metric
}

func (e *MetricMismatchError) Error() string {
	return fmt.Sprintf(
		"%s: collection was created with %q, search requested %q",
		ErrMetricMismatch.Error(), e.Stored, e.Requested,
	)
}

func (e *MetricMismatchError) Unwrap() error { return ErrMetricMismatch }

// NewMetricMismatch creates a metric mismatch error.
func NewMetricMismatch(requested, stored Metric) error {
	return &MetricMismatchError{Requested: requested, Stored: stored}
}
