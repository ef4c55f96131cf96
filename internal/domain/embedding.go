package domain

import "context"

// Embedder vectorizes text with the configured sentence-embedding model.
// The model's natural output dimension is whatever it yields; callers that
// need a specific dimension reconcile with FitDimension.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker is optionally implemented by embedders that can probe their
// backing provider.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the vector and token usage through the embedder
// decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// FitDimension reconciles a model output vector with a target dimension:
// longer vectors are truncated to the first target entries (deliberately
// lossy, no learned projection), shorter ones are right-padded with zeros.
// A non-positive target returns the vector unchanged.
func FitDimension(vec []float32, target int) []float32 {
	if target <= 0 || len(vec) == target {
		return vec
	}
	if len(vec) > target {
		return vec[:target]
	}
	out := make([]float32, target)
	copy(out, vec)
	return out
}
