// Package embedding decorates the embedder chain with request logging.
// Transport metrics (requests, duration, tokens) are recorded in
// transport/openai; this layer owns per-call observability only.
package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vecgate/vecgate/internal/domain"
)

// InstrumentedEmbedder wraps an Embedder with structured logging.
type InstrumentedEmbedder struct {
	inner    domain.Embedder
	provider string
	model    string
	logger   *zap.Logger
}

// NewInstrumentedEmbedder wraps an embedder with observability.
func NewInstrumentedEmbedder(
	inner domain.Embedder, provider, model string, logger *zap.Logger,
) *InstrumentedEmbedder {
	return &InstrumentedEmbedder{
		inner:    inner,
		provider: provider,
		model:    model,
		logger:   logger,
	}
}

// Embed delegates to the inner embedder and logs the outcome.
func (p *InstrumentedEmbedder) Embed(
	ctx context.Context, text string,
) (domain.EmbeddingResult, error) {
	start := time.Now()

	result, err := p.inner.Embed(ctx, text)

	duration := time.Since(start)

	if err != nil {
		p.logger.Error("Embedding request failed",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	p.logger.Debug("Embedding request completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}

// HealthCheck proxies the probe when the inner embedder supports one.
func (p *InstrumentedEmbedder) HealthCheck(ctx context.Context) error {
	hc, ok := p.inner.(domain.HealthChecker)
	if !ok {
		return nil
	}
	if err := hc.HealthCheck(ctx); err != nil {
		return fmt.Errorf("embedder health check: %w", err)
	}
	return nil
}
