package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"minutes-whisper/internal/api/middleware"
	v1routes "minutes-whisper/internal/api/v1/routes"
	"minutes-whisper/internal/api/v1/services"
	"minutes-whisper/internal/app/api/provider"
	"minutes-whisper/internal/metrics"
	"minutes-whisper/web/handlers"
)

// Config represents API server configuration
type Config struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	Environment    string
	MaxUploadBytes int64
	TempDir        string
}

// DefaultConfig returns timeouts suited to long uploads. WriteTimeout is zero because
// a job streams for as long as its audio takes to transcribe.
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           "8501",
		ReadTimeout:    5 * time.Minute,
		WriteTimeout:   0,
		IdleTimeout:    2 * time.Minute,
		Environment:    "development",
		MaxUploadBytes: 200 << 20,
	}
}

// Dependencies are the process-wide objects the server routes to
type Dependencies struct {
	Converter services.Converter
	Registry  provider.ProviderRegistry
	Stats     provider.ProviderMetrics
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Server represents the API server
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a new API server
func NewServer(config Config, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger))
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
	}
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"provider":  deps.Converter.ProviderName(),
			"timestamp": time.Now().Unix(),
		})
	})

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	container := &v1routes.ServiceContainer{
		MinutesService:  services.NewMinutesService(deps.Converter, config.TempDir, logger),
		ProviderService: services.NewProviderService(deps.Registry, deps.Stats),
		MaxUploadBytes:  config.MaxUploadBytes,
	}

	api := router.Group("/api")
	{
		v1 := api.Group("/v1")
		v1routes.RegisterRoutes(v1, container)
	}

	// Single-page UI and its assets
	static := handlers.NewStaticHandler()
	router.GET("/", gin.WrapF(static.ServeStatic))
	router.GET("/assets/*path", gin.WrapF(static.ServeStatic))

	httpServer := &http.Server{
		Addr:         config.Host + ":" + config.Port,
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		config:     config,
		router:     router,
		httpServer: httpServer,
		logger:     logger,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting API server",
		"address", s.httpServer.Addr,
		"environment", s.config.Environment,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.logger.Error("Failed to start server", "error", err)
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		return err
	}

	s.logger.Info("API server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
