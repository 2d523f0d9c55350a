package services

import "github.com/mrlokans/readstack/internal/entities"

// BookStore is the persistence contract the import service needs: read
// the whole collection and atomically replace it.
type BookStore interface {
	List() ([]entities.Book, error)
	ReplaceAll(books []entities.Book) error
}

// Auditor records import and dedupe outcomes. Implemented by the audit
// service; logging is best-effort and never fails the operation.
type Auditor interface {
	LogImport(source, description string, imported, duplicates int, err error)
	LogDedupe(description string, removed int, err error)
}

// ImportResult contains the outcome of an import operation.
type ImportResult struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Total      int `json:"total"`
}

// DedupeResult contains the outcome of a dedupe run over the stored
// collection.
type DedupeResult struct {
	Removed   int `json:"removed"`
	Remaining int `json:"remaining"`
}
