package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/readstack/internal/metadata"
)

// EnrichRecorder logs enrichment outcomes to the audit trail.
type EnrichRecorder interface {
	LogEnrich(bookID, description string, err error)
}

// EnrichBookTask enriches a single book's metadata from external catalogs.
type EnrichBookTask struct {
	BookID string `json:"book_id"`
}

// Config returns the queue configuration for book enrichment tasks.
func (t EnrichBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_book",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// EnrichBookProcessor creates a processor function for EnrichBookTask.
// recorder may be nil, in which case outcomes are only logged.
func EnrichBookProcessor(enricher *metadata.Enricher, recorder EnrichRecorder) backlite.QueueProcessor[EnrichBookTask] {
	return func(ctx context.Context, task EnrichBookTask) error {
		if enricher == nil {
			return fmt.Errorf("enricher not configured")
		}

		result, err := enricher.EnrichBook(ctx, task.BookID)
		if err != nil {
			if recorder != nil {
				recorder.LogEnrich(task.BookID, "Background enrichment failed", err)
			}
			return fmt.Errorf("enrich book %s: %w", task.BookID, err)
		}

		if len(result.FieldsUpdated) > 0 {
			log.Printf("[TASK] Enriched book %s (%s): updated %v via %s",
				task.BookID, result.Book.Title, result.FieldsUpdated, result.Source)
			if recorder != nil {
				description := fmt.Sprintf("Filled %v from %s", result.FieldsUpdated, result.Source)
				recorder.LogEnrich(task.BookID, description, nil)
			}
		} else {
			log.Printf("[TASK] Book %s (%s): no metadata updates needed",
				task.BookID, result.Book.Title)
		}

		return nil
	}
}

// NewEnrichBookQueue creates a backlite queue for book enrichment tasks.
func NewEnrichBookQueue(enricher *metadata.Enricher, recorder EnrichRecorder) backlite.Queue {
	return backlite.NewQueue(EnrichBookProcessor(enricher, recorder))
}
