package metadata

import (
	"context"
	"fmt"

	"github.com/mrlokans/readstack/internal/entities"
)

// Provider defines the interface for fetching book metadata.
type Provider interface {
	Search(ctx context.Context, title, author string) (*entities.BookMetadata, error)
}

// BookUpdater defines the interface for reading and persisting enriched books.
type BookUpdater interface {
	GetByID(id string) (*entities.Book, error)
	Save(book *entities.Book) error
	GetBooksMissingMetadata(limit int) ([]entities.Book, error)
}

// EnrichmentResult contains the result of an enrichment operation.
type EnrichmentResult struct {
	Book          *entities.Book `json:"book"`
	FieldsUpdated []string       `json:"fields_updated"`
	Source        string         `json:"source"` // "google_books" or "openlibrary"
}

// Enricher fills absent metadata fields on stored books from external
// catalogs. Fields already present on a record are never overwritten.
type Enricher struct {
	primary  Provider
	fallback Provider
	store    BookUpdater
}

// NewEnricher creates an Enricher that queries primary first and falls
// back to fallback when the primary returns nothing.
func NewEnricher(primary, fallback Provider, store BookUpdater) *Enricher {
	return &Enricher{
		primary:  primary,
		fallback: fallback,
		store:    store,
	}
}

// EnrichBook fetches metadata for one book and persists any newly filled
// fields. Only fields absent on the record are written.
func (e *Enricher) EnrichBook(ctx context.Context, bookID string) (*EnrichmentResult, error) {
	book, err := e.store.GetByID(bookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	found, source, err := e.search(ctx, book.Title, book.Author)
	if err != nil {
		return nil, fmt.Errorf("metadata search failed: %w", err)
	}

	fieldsUpdated := applyMetadata(book, found)
	if len(fieldsUpdated) > 0 {
		if err := e.store.Save(book); err != nil {
			return nil, fmt.Errorf("save enriched book: %w", err)
		}
	}

	return &EnrichmentResult{
		Book:          book,
		FieldsUpdated: fieldsUpdated,
		Source:        source,
	}, nil
}

// EnrichMissing sweeps books lacking metadata, enriching up to limit of
// them. Individual failures are skipped, not fatal.
func (e *Enricher) EnrichMissing(ctx context.Context, limit int) (enriched int, err error) {
	books, err := e.store.GetBooksMissingMetadata(limit)
	if err != nil {
		return 0, fmt.Errorf("list books missing metadata: %w", err)
	}

	for _, book := range books {
		if ctx.Err() != nil {
			return enriched, ctx.Err()
		}
		result, err := e.EnrichBook(ctx, book.ID)
		if err != nil {
			continue
		}
		if len(result.FieldsUpdated) > 0 {
			enriched++
		}
	}

	return enriched, nil
}

// Search queries the configured catalogs without touching the store.
// Returns the metadata and the name of the catalog that served it.
func (e *Enricher) Search(ctx context.Context, title, author string) (*entities.BookMetadata, string, error) {
	return e.search(ctx, title, author)
}

func (e *Enricher) search(ctx context.Context, title, author string) (*entities.BookMetadata, string, error) {
	if e.primary == nil && e.fallback == nil {
		return nil, "", fmt.Errorf("no metadata providers configured")
	}

	if e.primary != nil {
		if metadata, err := e.primary.Search(ctx, title, author); err == nil && metadata != nil {
			return metadata, "google_books", nil
		}
	}

	if e.fallback != nil {
		metadata, err := e.fallback.Search(ctx, title, author)
		if err != nil {
			return nil, "", err
		}
		if metadata != nil {
			return metadata, "openlibrary", nil
		}
	}

	return nil, "", fmt.Errorf("no metadata found for '%s'", title)
}

// applyMetadata folds a search result into a book, filling only absent
// fields, and returns the names of the fields it changed.
func applyMetadata(book *entities.Book, metadata *entities.BookMetadata) []string {
	var updated []string

	if book.ISBN == "" && metadata.ISBN != "" {
		book.ISBN = metadata.ISBN
		updated = append(updated, "isbn")
	}
	if book.CoverURL == "" && metadata.CoverURL != "" {
		book.CoverURL = metadata.CoverURL
		updated = append(updated, "cover_url")
	}
	if book.Description == "" && metadata.Description != "" {
		book.Description = metadata.Description
		updated = append(updated, "description")
	}
	if book.PageCount == 0 && metadata.PageCount > 0 {
		book.PageCount = metadata.PageCount
		updated = append(updated, "page_count")
	}
	if book.PublishedDate == "" && metadata.PublishedDate != "" {
		book.PublishedDate = metadata.PublishedDate
		updated = append(updated, "published_date")
	}
	if len(book.Genres) == 0 && len(metadata.Genres) > 0 {
		book.Genres = metadata.Genres
		updated = append(updated, "genres")
	}

	return updated
}
