package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"sqeperf/diagnostics"
	_ "sqeperf/docs"
	"sqeperf/internal/config"
	"sqeperf/internal/metrics"
	"sqeperf/server/middleware"
)

// EvaluationStore хранилище оценок, которое нужно серверу
type EvaluationStore interface {
	diagnostics.Store
	Ping(ctx context.Context) error
}

// Server HTTP-сервер с эндпоинтом накопленных оценок
type Server struct {
	cfg     *config.Config
	store   EvaluationStore
	metrics *metrics.Manager
	logger  *zap.Logger
	router  *gin.Engine
}

// NewServer создает сервер и регистрирует маршруты
func NewServer(cfg *config.Config, store EvaluationStore, m *metrics.Manager, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}

	s := &Server{
		cfg:     cfg,
		store:   &instrumentedStore{EvaluationStore: store, metrics: m},
		metrics: m,
		logger:  logger,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()

	var limiter *rate.Limiter
	if s.cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateBurst)
	}

	router.Use(
		middleware.GinRequestIDMiddleware(),
		middleware.GinLoggerMiddleware(s.logger),
		middleware.GinRecoveryMiddleware(s.logger),
		middleware.GinMetricsMiddleware(s.metrics),
	)

	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	api := router.Group("/api", middleware.GinRateLimitMiddleware(limiter))
	api.GET("/evaluations/accumulated/:year", s.handleAccumulated)

	router.NoRoute(func(c *gin.Context) {
		middleware.AbortWithError(c, http.StatusNotFound, "Not found")
	})

	return router
}

// Handler возвращает http.Handler сервера
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run слушает порт из конфигурации до отмены ctx, затем корректно завершает работу
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", s.cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	return nil
}
