package importers

import (
	"strings"

	"github.com/google/uuid"

	"github.com/mrlokans/readstack/internal/entities"
)

// Importer parses a whole export blob into Book records.
// Each supported export format implements this interface.
type Importer interface {
	// Parse converts the export text into promoted Book records.
	// Malformed input yields fewer records, never an error.
	Parse(text string) []entities.Book

	// Source names the export format for audit logging.
	Source() string
}

// candidate is a book under construction during an import. It carries no
// ID and no defaulted status until promotion.
type candidate struct {
	title        string
	author       string
	isbn         string
	status       entities.ReadingStatus
	format       entities.BookFormat
	rating       *float64
	notes        string
	coverURL     string
	dateAdded    string
	dateStarted  string
	dateFinished string
}

// promote turns a candidate into a full Book with a fresh ID and a
// defaulted status. Returns false when title or author is missing, in
// which case the candidate is dropped.
func (c candidate) promote() (entities.Book, bool) {
	title := strings.TrimSpace(c.title)
	author := strings.TrimSpace(c.author)
	if title == "" || author == "" {
		return entities.Book{}, false
	}

	status := c.status
	if status == "" {
		status = entities.StatusWantToRead
	}

	return entities.Book{
		ID:           uuid.NewString(),
		Title:        title,
		Author:       author,
		ISBN:         c.isbn,
		Status:       status,
		Format:       c.format,
		Rating:       c.rating,
		Notes:        c.notes,
		CoverURL:     c.coverURL,
		DateAdded:    c.dateAdded,
		DateStarted:  c.dateStarted,
		DateFinished: c.dateFinished,
	}, true
}
