// Package entrypoint wires the application together and runs the HTTP
// server with graceful shutdown.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readstack/internal/audit"
	"github.com/mrlokans/readstack/internal/config"
	"github.com/mrlokans/readstack/internal/database"
	auditrepo "github.com/mrlokans/readstack/internal/database/audit"
	"github.com/mrlokans/readstack/internal/database/books"
	http_controllers "github.com/mrlokans/readstack/internal/http"
	"github.com/mrlokans/readstack/internal/metadata"
	"github.com/mrlokans/readstack/internal/scheduler"
	"github.com/mrlokans/readstack/internal/services"
	"github.com/mrlokans/readstack/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting ReadStack v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	bookRepo := books.NewRepository(db.DB)
	auditRepo := auditrepo.NewRepository(db.DB)
	auditService := audit.NewService(auditRepo)

	importService := services.NewImportService(bookRepo, auditService)

	// Metadata enricher: Google Books first, OpenLibrary as fallback
	enricher := metadata.NewEnricher(
		metadata.NewGoogleBooksClient(),
		metadata.NewOpenLibraryClient(),
		bookRepo,
	)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.DefaultConfig()
		taskCfg.Workers = cfg.Tasks.Workers
		taskCfg.ReleaseAfter = cfg.Tasks.ReleaseAfter
		taskCfg.CleanupInterval = cfg.Tasks.CleanupInterval

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewEnrichBookQueue(enricher, auditService),
			tasks.NewCleanupAuditEventsQueue(auditRepo),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Periodic pruning of old audit events via the task queue
	var retentionScheduler *scheduler.AuditRetentionScheduler
	if taskClient != nil {
		retentionScheduler = scheduler.NewAuditRetentionScheduler(taskClient, cfg.Tasks)
		if err := retentionScheduler.Start(); err != nil {
			log.Fatalf("Failed to start audit retention scheduler: %v", err)
		}
	}

	// Scheduled enrichment sweep
	enrichScheduler := scheduler.NewEnrichmentScheduler(enricher, cfg.Enrichment)
	if err := enrichScheduler.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start enrichment scheduler: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Version:       version,
		Pinger:        db,
		BookStore:     bookRepo,
		ImportService: importService,
		Auditor:       auditService,
		AuditReader:   auditRepo,
		Enricher:      enricher,
		Scheduler:     enrichScheduler,
		TaskClient:    taskClient,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		enrichScheduler.Stop()
		if retentionScheduler != nil {
			retentionScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
