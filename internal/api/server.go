package api

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"pageQualityGO/internal/analyzer"
	"pageQualityGO/internal/config"
	"pageQualityGO/internal/middleware"
	"pageQualityGO/internal/repository"
	"pageQualityGO/internal/scorer"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Server represents the HTTP server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	repo       repository.Repository
	analyzer   *analyzer.Analyzer
	batch      *analyzer.BatchAuditor
	scorer     *scorer.Scorer
	logger     *slog.Logger
	config     *config.Config
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, repo repository.Repository, s *scorer.Scorer, logger *slog.Logger) *Server {
	// Set Gin mode
	if gin.Mode() != gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging(logger))
	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))

	pageAnalyzer := analyzer.New(cfg.Analyzer, logger)

	srv := &Server{
		router: router,
		httpServer: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		repo:     repo,
		analyzer: pageAnalyzer,
		batch:    analyzer.NewBatchAuditor(pageAnalyzer, s, logger, analyzer.BatchOptionsFromConfig(cfg.Batch)),
		scorer:   s,
		logger:   logger,
		config:   cfg,
	}

	// Register routes
	srv.registerRoutes()

	return srv
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		ExposeHeaders: []string{"Content-Length", "X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// registerRoutes sets up all the routes for the server
func (s *Server) registerRoutes() {
	s.router.GET("/health", s.healthHandler)

	api := s.router.Group("/api")
	{
		api.GET("/requirements", s.requirementsHandler)
		api.GET("/requirements/:pageType", s.pageTypeRequirementsHandler)
		api.POST("/score", s.scoreHandler)

		api.POST("/audits", s.auditHandler)
		api.POST("/audits/batch", s.batchAuditHandler)
		api.GET("/audits", s.listAuditsHandler)
		api.GET("/audits/:id", s.getAuditHandler)

		api.POST("/rank-checks", s.rankCheckHandler)
		api.GET("/rank-checks", s.rankHistoryHandler)

		api.POST("/links/extract", s.extractLinksHandler)
		api.GET("/stats", s.getStatsHandler)
	}
}

// healthHandler handles health check requests
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// getStatsHandler handles requests to get repository stats
func (s *Server) getStatsHandler(c *gin.Context) {
	stats, err := s.repo.GetStats(c.Request.Context())
	if err != nil {
		s.logger.Error("Failed to get stats", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to get stats", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// respondError writes the error body shared by every handler
func respondError(c *gin.Context, status int, message string, err error) {
	body := gin.H{
		"status_code": status,
		"message":     message,
	}
	if err != nil {
		body["error"] = err.Error()
		_ = c.Error(err)
	}
	c.JSON(status, body)
}

// queryLimit reads ?limit, falling back to the default and capping at maxLimit
func queryLimit(c *gin.Context) int {
	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	return min(limit, maxLimit)
}
