// Package services holds the business logic that ties importers, the
// reconciliation engine and the book store together.
package services

import (
	"fmt"
	"sync"

	"github.com/mrlokans/readstack/internal/dedup"
	"github.com/mrlokans/readstack/internal/entities"
	"github.com/mrlokans/readstack/internal/importers"
)

// ImportService runs the import pipeline: parse an export, merge it with
// the stored collection, reconcile duplicates and persist the result.
// Runs are serialized so two concurrent imports cannot interleave their
// read-reconcile-replace cycles.
type ImportService struct {
	mu      sync.Mutex
	store   BookStore
	auditor Auditor
}

// NewImportService creates a new ImportService. auditor may be nil, in
// which case no audit events are recorded.
func NewImportService(store BookStore, auditor Auditor) *ImportService {
	return &ImportService{
		store:   store,
		auditor: auditor,
	}
}

// Import parses text with the given importer, merges the parsed books
// into the stored collection and persists the reconciled result.
func (s *ImportService) Import(importer importers.Importer, text string) (ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parsed := importer.Parse(text)

	existing, err := s.store.List()
	if err != nil {
		s.logImport(importer.Source(), 0, 0, err)
		return ImportResult{}, fmt.Errorf("failed to load collection: %w", err)
	}

	combined := make([]entities.Book, 0, len(existing)+len(parsed))
	combined = append(combined, existing...)
	combined = append(combined, parsed...)

	merged := dedup.Reconcile(combined)
	duplicates := len(combined) - len(merged)

	if err := s.store.ReplaceAll(merged); err != nil {
		s.logImport(importer.Source(), len(parsed), duplicates, err)
		return ImportResult{}, fmt.Errorf("failed to persist collection: %w", err)
	}

	result := ImportResult{
		Imported:   len(parsed),
		Duplicates: duplicates,
		Total:      len(merged),
	}
	s.logImport(importer.Source(), result.Imported, result.Duplicates, nil)
	return result, nil
}

// Dedupe reconciles the stored collection in place and persists the
// result when anything was absorbed.
func (s *ImportService) Dedupe() (DedupeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.List()
	if err != nil {
		s.logDedupe(0, err)
		return DedupeResult{}, fmt.Errorf("failed to load collection: %w", err)
	}

	merged := dedup.Reconcile(existing)
	removed := len(existing) - len(merged)

	if removed > 0 {
		if err := s.store.ReplaceAll(merged); err != nil {
			s.logDedupe(removed, err)
			return DedupeResult{}, fmt.Errorf("failed to persist collection: %w", err)
		}
	}

	result := DedupeResult{
		Removed:   removed,
		Remaining: len(merged),
	}
	s.logDedupe(result.Removed, nil)
	return result, nil
}

func (s *ImportService) logImport(source string, imported, duplicates int, err error) {
	if s.auditor == nil {
		return
	}
	description := fmt.Sprintf("Imported %d books from %s (%d duplicates merged)", imported, source, duplicates)
	s.auditor.LogImport(source, description, imported, duplicates, err)
}

func (s *ImportService) logDedupe(removed int, err error) {
	if s.auditor == nil {
		return
	}
	description := fmt.Sprintf("Deduplicated collection, %d duplicates merged", removed)
	s.auditor.LogDedupe(description, removed, err)
}
