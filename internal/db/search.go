package db

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName string
	Vector    []float32
	K         int
	// EFRuntime is forwarded as the HNSW runtime candidate list size when
	// positive; ignored for FLAT indexes.
	EFRuntime    int
	ReturnFields []string // nil returns every stored field
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single hit as the engine reports it: the record key, the
// raw engine distance, and the stored fields.
type SearchEntry struct {
	Key      string
	Distance float64
	Fields   map[string]string
}
