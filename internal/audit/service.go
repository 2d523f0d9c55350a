// Package audit records what changed the reading list and when: imports,
// dedupe runs, metadata enrichment and deletions. Logging is asynchronous
// and best-effort; a failed audit write never fails the operation itself.
package audit

import (
	"encoding/json"
	"log"

	"github.com/mrlokans/readstack/internal/database/audit"
	"github.com/mrlokans/readstack/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	go func() {
		if err := s.Log(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// LogImport records an import event.
func (s *Service) LogImport(source, description string, imported, duplicates int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventImport,
		Action:      source + "_import",
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{
		"books_imported":     imported,
		"duplicates_removed": duplicates,
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogDedupe records a deduplication run over the stored collection.
func (s *Service) LogDedupe(description string, removed int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventDedupe,
		Action:      "collection_dedupe",
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{"duplicates_removed": removed}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogEnrich records a metadata enrichment event for one book.
func (s *Service) LogEnrich(bookID, description string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventEnrich,
		Action:      "metadata_enrich",
		Description: description,
		EntityID:    bookID,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogDelete records a book deletion.
func (s *Service) LogDelete(bookID, description string) {
	s.LogAsync(&entities.AuditEvent{
		EventType:   entities.AuditEventDelete,
		Action:      "book_delete",
		Description: description,
		EntityID:    bookID,
		Status:      entities.AuditStatusSuccess,
	})
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
