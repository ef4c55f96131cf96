package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vecgate/vecgate/internal/config"
	"github.com/vecgate/vecgate/internal/db"
	dbRedis "github.com/vecgate/vecgate/internal/db/redis"
	"github.com/vecgate/vecgate/internal/domain"
	logpkg "github.com/vecgate/vecgate/internal/logger"
	"github.com/vecgate/vecgate/internal/metrics"
	collectionrepo "github.com/vecgate/vecgate/internal/repository/collection"
	"github.com/vecgate/vecgate/internal/repository/embcache"
	searchrepo "github.com/vecgate/vecgate/internal/repository/search"
	vectorrepo "github.com/vecgate/vecgate/internal/repository/vector"
	chiTransport "github.com/vecgate/vecgate/internal/transport/chi"
	openaiEmb "github.com/vecgate/vecgate/internal/transport/openai"
	collectionuc "github.com/vecgate/vecgate/internal/usecase/collection"
	embeddinguc "github.com/vecgate/vecgate/internal/usecase/embedding"
	healthuc "github.com/vecgate/vecgate/internal/usecase/health"
	identuc "github.com/vecgate/vecgate/internal/usecase/ident"
	ingestuc "github.com/vecgate/vecgate/internal/usecase/ingest"
	searchuc "github.com/vecgate/vecgate/internal/usecase/search"
	"github.com/vecgate/vecgate/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting vecgate API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create vector store client", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Vector store not ready", zap.Error(err))
	}
	logger.Info("Connected to vector store")

	// Register embedding metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()

	embedder := buildEmbedder(cfg.Embedding, store, logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	collRepo := collectionrepo.New(store)
	vecRepo := vectorrepo.New(store)
	searchRepo := searchrepo.New(store)

	allocator := identuc.New(vecRepo)

	collSvc := collectionuc.New(collRepo, vecRepo, logger)
	ingestSvc := ingestuc.New(collRepo, vecRepo, allocator, embedder, metrics.RecordsDroppedTotal, logger)
	searchSvc := searchuc.New(collRepo, searchRepo, embedder, logger)
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(embedder))

	server := chiTransport.NewServer(collSvc, ingestSvc, searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented.
func buildEmbedder(cfg config.EmbeddingConfig, store db.Store, logger *zap.Logger) domain.Embedder {
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if store != nil {
		ttl := time.Duration(cfg.CacheTTLSec) * time.Second
		embedder = embcache.New(base, store, ttl, metrics.EmbeddingCacheTotal, logger)
	}

	return embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Provider, cfg.Model, logger)
}

// embeddingHealthChecker adapts domain.Embedder to health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain
// text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]any{
						"success": false,
						"message": "internal server error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates
// X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request.
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
