// Package http exposes the reading list over a JSON API: imports,
// book CRUD, deduplication, statistics and enrichment.
package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Health endpoints. The scheduler is passed through an interface so
	// a nil *EnrichmentScheduler does not end up as a non-nil interface.
	var schedulerStatus SchedulerStatus
	if cfg.Scheduler != nil {
		schedulerStatus = cfg.Scheduler
	}
	health := NewHealthController(cfg.Pinger, schedulerStatus, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Import and dedupe endpoints
	if cfg.ImportService != nil {
		importController := NewImportController(cfg.ImportService)
		router.POST("/api/import/csv", importController.ImportCSV)
		router.POST("/api/import/markdown", importController.ImportMarkdown)
		router.POST("/api/books/dedupe", importController.Dedupe)
	}

	// Books API endpoints
	booksController := NewBooksController(cfg.BookStore, cfg.Auditor)
	router.GET("/api/books", booksController.GetAllBooks)
	router.POST("/api/books", booksController.CreateBook)
	router.PUT("/api/books/bulk", booksController.BulkReplaceBooks)
	router.GET("/api/books/search", booksController.SearchBooks)
	router.GET("/api/books/:id", booksController.GetBook)
	router.PATCH("/api/books/:id", booksController.UpdateBook)
	router.DELETE("/api/books/:id", booksController.DeleteBook)

	// Statistics endpoint
	statsController := NewStatsController(cfg.BookStore)
	router.GET("/api/stats", statsController.GetStats)

	// Metadata enrichment endpoints
	if cfg.Enricher != nil {
		enrichController := NewEnrichController(cfg.Enricher, cfg.Scheduler, cfg.TaskClient, cfg.Auditor)
		router.POST("/api/books/:id/enrich", enrichController.EnrichBook)
		router.POST("/api/books/enrich-missing", enrichController.EnrichMissing)
		router.GET("/api/search", enrichController.SearchCatalog)
	}

	// Audit trail endpoint
	if cfg.AuditReader != nil {
		auditController := NewAuditController(cfg.AuditReader)
		router.GET("/api/audit", auditController.GetEvents)
	}

	return router
}
