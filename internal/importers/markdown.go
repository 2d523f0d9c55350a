package importers

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/mrlokans/readstack/internal/entities"
	"github.com/mrlokans/readstack/internal/normalize"
)

// MarkdownImporter parses heading-per-book markdown exports. A "# "
// heading opens a record with the heading text as its title; "Key: value"
// lines beneath it fill in the remaining fields.
type MarkdownImporter struct{}

func NewMarkdownImporter() *MarkdownImporter {
	return &MarkdownImporter{}
}

var _ Importer = (*MarkdownImporter)(nil)

func (i *MarkdownImporter) Source() string {
	return "markdown"
}

// Parse converts a markdown blob into Book records. A record is flushed
// when the next heading starts or at end of input, and only if it carries
// both a title and an author. Output preserves encounter order.
func (i *MarkdownImporter) Parse(text string) []entities.Book {
	var books []entities.Book
	var current *candidate

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "# ") {
			if current != nil {
				if book, ok := current.promote(); ok {
					books = append(books, book)
				}
			}
			current = &candidate{title: strings.TrimSpace(strings.TrimPrefix(line, "# "))}
			continue
		}

		if !strings.Contains(line, ":") {
			continue
		}

		// Split on the first colon only: the value may itself contain
		// colons (subtitles, URLs).
		parts := strings.SplitN(line, ":", 2)
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])

		if current == nil {
			current = &candidate{}
		}
		routeMarkdownField(current, key, value)
	}

	if current != nil {
		if book, ok := current.promote(); ok {
			books = append(books, book)
		}
	}

	return books
}

// routeMarkdownField assigns a "key: value" line to the candidate field
// its key maps to. Unrecognized keys are ignored.
func routeMarkdownField(c *candidate, key, value string) {
	switch key {
	case "author", "authors":
		c.author = value
	case "status":
		c.status = normalize.MapStatus(value)
	case "format", "type":
		c.format = normalize.MapFormat(value)
	case "isbn":
		c.isbn = value
	case "rating":
		// Numeric notation only in this path; markdown exports do not
		// carry the symbolic star marks the CSV export uses.
		if rating, err := strconv.ParseFloat(value, 64); err == nil && rating > 0 && rating <= 5 {
			c.rating = &rating
		}
	case "notes":
		c.notes = value
	}
}
