// Package dedup decides when two Book records describe the same
// real-world book and folds matched groups into a single record.
package dedup

import (
	"github.com/mrlokans/readstack/internal/entities"
	"github.com/mrlokans/readstack/internal/normalize"
)

// SameBook reports whether two records denote the same book: equal
// normalized title and author, or an identical non-empty ISBN. An ISBN
// match alone is sufficient, so differently transcribed titles still
// merge when a reliable identifier agrees. No approximate string
// similarity is used.
func SameBook(a, b entities.Book) bool {
	if normalize.ForComparison(a.Title) == normalize.ForComparison(b.Title) &&
		normalize.ForComparison(a.Author) == normalize.ForComparison(b.Author) {
		return true
	}

	if a.ISBN != "" && b.ISBN != "" && a.ISBN == b.ISBN {
		return true
	}

	return false
}

// Reconcile folds a sequence of records into a deduplicated one.
// Every incoming record is compared against all survivors so far; on a
// match its fields are merged into the survivor, which keeps its ID.
// Survivors come out in the order their identity was first seen.
//
// Incoming records are compared with SameBook rather than looked up by
// key: a plain key lookup would miss ISBN-only matches between records
// with differently transcribed titles.
func Reconcile(books []entities.Book) []entities.Book {
	survivors := make([]entities.Book, 0, len(books))

	for _, book := range books {
		matched := false
		for i := range survivors {
			if SameBook(survivors[i], book) {
				survivors[i] = merge(survivors[i], book)
				matched = true
				break
			}
		}
		if !matched {
			survivors = append(survivors, book)
		}
	}

	return survivors
}

// CountDuplicates returns how many records would be absorbed by a merge.
// Zero means the collection is already deduplicated.
func CountDuplicates(books []entities.Book) int {
	return len(books) - len(Reconcile(books))
}

// statusRank orders statuses by how "advanced" they are for merge
// conflicts. abandoned deliberately ranks below want-to-read: unresolved
// interest survives a merge with an explicit abandonment.
var statusRank = map[entities.ReadingStatus]int{
	entities.StatusFinished:         4,
	entities.StatusCurrentlyReading: 3,
	entities.StatusWantToRead:       2,
	entities.StatusAbandoned:        1,
}

// merge folds an incoming duplicate into the surviving record. The
// survivor's value wins unless absent, except for the fields with their
// own precedence rules: status (most advanced), dateAdded/dateStarted
// (earliest), dateFinished (latest), rating (highest), notes
// (concatenated).
func merge(survivor, incoming entities.Book) entities.Book {
	merged := survivor

	merged.ISBN = firstNonEmpty(survivor.ISBN, incoming.ISBN)
	merged.CoverURL = firstNonEmpty(survivor.CoverURL, incoming.CoverURL)
	merged.Description = firstNonEmpty(survivor.Description, incoming.Description)
	merged.PublishedDate = firstNonEmpty(survivor.PublishedDate, incoming.PublishedDate)
	if merged.Format == "" {
		merged.Format = incoming.Format
	}
	if merged.PageCount == 0 {
		merged.PageCount = incoming.PageCount
	}
	if len(merged.Genres) == 0 {
		merged.Genres = incoming.Genres
	}

	merged.Status = mostAdvancedStatus(survivor.Status, incoming.Status)

	merged.DateAdded = earliestDate(survivor.DateAdded, incoming.DateAdded)
	merged.DateStarted = earliestDate(survivor.DateStarted, incoming.DateStarted)
	merged.DateFinished = latestDate(survivor.DateFinished, incoming.DateFinished)

	merged.Rating = highestRating(survivor.Rating, incoming.Rating)
	merged.Notes = mergeNotes(survivor.Notes, incoming.Notes)

	return merged
}

func mostAdvancedStatus(a, b entities.ReadingStatus) entities.ReadingStatus {
	if statusRank[a] > statusRank[b] {
		return a
	}
	return b
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func earliestDate(a, b string) string {
	if a != "" && b != "" {
		if a < b {
			return a
		}
		return b
	}
	return firstNonEmpty(a, b)
}

func latestDate(a, b string) string {
	if a != "" && b != "" {
		if a > b {
			return a
		}
		return b
	}
	return firstNonEmpty(a, b)
}

func highestRating(a, b *float64) *float64 {
	if a != nil && b != nil {
		if *a >= *b {
			return a
		}
		return b
	}
	if a != nil {
		return a
	}
	return b
}

// notesSeparator keeps merged notes visibly distinct.
const notesSeparator = "\n\n---\n\n"

func mergeNotes(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" || a == b {
		return a
	}
	return a + notesSeparator + b
}
