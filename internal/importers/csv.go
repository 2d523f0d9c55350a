package importers

import (
	"strings"

	"github.com/mrlokans/readstack/internal/entities"
	"github.com/mrlokans/readstack/internal/normalize"
)

// CSVImporter parses comma-separated exports with a header row, as
// produced by Notion's table export. Fields may be wrapped in double
// quotes; a comma inside quotes is literal text, not a separator.
type CSVImporter struct{}

func NewCSVImporter() *CSVImporter {
	return &CSVImporter{}
}

var _ Importer = (*CSVImporter)(nil)

func (i *CSVImporter) Source() string {
	return "csv"
}

// Parse converts a CSV blob into Book records. Rows whose field count
// does not match the header row are dropped, as are rows missing a title
// or an author. Output preserves input row order.
func (i *CSVImporter) Parse(text string) []entities.Book {
	lines := splitNonBlankLines(text)
	if len(lines) < 2 {
		return nil
	}

	headers := tokenizeCSVLine(lines[0])
	for j, h := range headers {
		headers[j] = strings.ToLower(strings.TrimSpace(h))
	}

	var books []entities.Book
	for _, line := range lines[1:] {
		values := tokenizeCSVLine(line)
		if len(values) != len(headers) {
			continue
		}

		var c candidate
		for j, header := range headers {
			routeCSVField(&c, header, strings.TrimSpace(values[j]))
		}

		if book, ok := c.promote(); ok {
			books = append(books, book)
		}
	}

	return books
}

// routeCSVField assigns a cell value to the candidate field its header
// synonym maps to. Unrecognized headers are ignored.
func routeCSVField(c *candidate, header, value string) {
	switch header {
	case "title", "name":
		c.title = value
	case "author", "authors":
		c.author = value
	case "isbn":
		c.isbn = value
	case "status":
		c.status = normalize.MapStatus(value)
	case "format", "type":
		c.format = normalize.MapFormat(value)
	case "rating", "score /5", "score":
		if rating, ok := normalize.ParseRating(value); ok {
			c.rating = &rating
		}
	case "notes", "notes/comments":
		c.notes = value
	case "date added", "dateadded":
		c.dateAdded = value
	case "date started", "datestarted":
		c.dateStarted = value
	case "date finished", "datefinished", "finished":
		c.dateFinished = normalize.CoerceDate(value)
	case "cover", "cover image", "coverimage":
		if strings.HasPrefix(value, "http") {
			c.coverURL = value
		}
	}
}

// tokenizeCSVLine splits a row on commas outside double quotes. A quote
// toggles quoted mode and is stripped from the field content; there is no
// escaped-quote support.
func tokenizeCSVLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, current.String())

	return fields
}

func splitNonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
