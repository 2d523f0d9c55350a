package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readstack/internal/audit"
	"github.com/mrlokans/readstack/internal/metadata"
	"github.com/mrlokans/readstack/internal/scheduler"
	"github.com/mrlokans/readstack/internal/tasks"
)

// EnrichController handles book metadata enrichment endpoints.
type EnrichController struct {
	enricher   *metadata.Enricher
	scheduler  *scheduler.EnrichmentScheduler
	taskClient *tasks.Client
	auditor    *audit.Service
}

func NewEnrichController(enricher *metadata.Enricher, sched *scheduler.EnrichmentScheduler, taskClient *tasks.Client, auditor *audit.Service) *EnrichController {
	return &EnrichController{
		enricher:   enricher,
		scheduler:  sched,
		taskClient: taskClient,
		auditor:    auditor,
	}
}

// EnrichBook handles POST /api/books/:id/enrich. With ?async=true and a
// running task queue the work is enqueued instead of done inline.
func (controller *EnrichController) EnrichBook(c *gin.Context) {
	id := c.Param("id")

	if c.Query("async") == "true" && controller.taskClient != nil {
		ids, err := controller.taskClient.Add(tasks.EnrichBookTask{BookID: id}).Save()
		if err != nil {
			c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.IndentedJSON(http.StatusAccepted, gin.H{"task_id": ids[0], "book_id": id})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result, err := controller.enricher.EnrichBook(ctx, id)
	if err != nil {
		if controller.auditor != nil {
			controller.auditor.LogEnrich(id, "Enrichment failed", err)
		}
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if controller.auditor != nil && len(result.FieldsUpdated) > 0 {
		controller.auditor.LogEnrich(id, "Filled "+result.Source+" metadata", nil)
	}

	c.IndentedJSON(http.StatusOK, result)
}

// SearchCatalog handles GET /api/search: look up a title in the
// external catalogs without touching the stored collection.
func (controller *EnrichController) SearchCatalog(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "title query parameter is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result, source, err := controller.enricher.Search(ctx, title, c.Query("author"))
	if err != nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"metadata": result, "source": source})
}

// EnrichMissing handles POST /api/books/enrich-missing: trigger a sweep
// over books lacking metadata.
func (controller *EnrichController) EnrichMissing(c *gin.Context) {
	if controller.scheduler != nil && controller.scheduler.IsRunning() {
		controller.scheduler.RunNow()
		c.IndentedJSON(http.StatusAccepted, gin.H{"status": "sweep scheduled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Minute)
	defer cancel()

	enriched, err := controller.enricher.EnrichMissing(ctx, 0)
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"enriched": enriched})
}
