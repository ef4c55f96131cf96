package domain

// SearchHit is one normalized similarity-search result. Distance follows the
// collection metric: lower is closer for L2, higher is closer for IP/COSINE.
// Attributes holds any extra stored fields converted to portable types; when
// a hit's attributes cannot be read, Attributes is empty and Err explains why
// instead of failing the whole search.
type SearchHit struct {
	ID         int64          `json:"id"`
	Distance   float64        `json:"distance"`
	Attributes map[string]any `json:"attributes"`
	Err        string         `json:"error,omitempty"`
}
