// Package analytics computes aggregate reading statistics over the
// stored collection: status/format/rating breakdowns, page totals,
// top authors and genres, and a 12-month finish timeline.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/mrlokans/readstack/internal/entities"
	"github.com/mrlokans/readstack/internal/normalize"
)

type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

type TimelineEntry struct {
	Month string `json:"month"` // e.g., "Jun 2023"
	Count int    `json:"count"`
}

type ReadingStats struct {
	TotalBooks    int                              `json:"total_books"`
	BooksByStatus map[entities.ReadingStatus]int   `json:"books_by_status"`
	BooksByFormat map[entities.BookFormat]int      `json:"books_by_format"`
	BooksByRating map[int]int                      `json:"books_by_rating"`

	FinishedBooks    int `json:"finished_books"`
	CurrentlyReading int `json:"currently_reading"`
	WantToRead       int `json:"want_to_read"`
	Abandoned        int `json:"abandoned"`

	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`

	BooksFinishedThisYear  int `json:"books_finished_this_year"`
	BooksFinishedThisMonth int `json:"books_finished_this_month"`

	TotalPages   int     `json:"total_pages"`
	AveragePages float64 `json:"average_pages"`

	TopAuthors      []AuthorCount   `json:"top_authors"`
	TopGenres       []GenreCount    `json:"top_genres"`
	ReadingTimeline []TimelineEntry `json:"reading_timeline"`
	RecentFinishes  []entities.Book `json:"recent_finishes"`
}

const topN = 5

// Calculate tabulates reading statistics for the given collection.
func Calculate(books []entities.Book) ReadingStats {
	return calculateAt(books, time.Now())
}

func calculateAt(books []entities.Book, now time.Time) ReadingStats {
	stats := ReadingStats{
		TotalBooks: len(books),
		BooksByStatus: map[entities.ReadingStatus]int{
			entities.StatusWantToRead:       0,
			entities.StatusCurrentlyReading: 0,
			entities.StatusFinished:         0,
			entities.StatusAbandoned:        0,
		},
		BooksByFormat: map[entities.BookFormat]int{
			entities.FormatBook:      0,
			entities.FormatEbook:     0,
			entities.FormatAudiobook: 0,
			entities.FormatUnknown:   0,
		},
		BooksByRating: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	if len(books) == 0 {
		return stats
	}

	for _, book := range books {
		stats.BooksByStatus[book.Status]++
		switch book.Status {
		case entities.StatusFinished:
			stats.FinishedBooks++
		case entities.StatusCurrentlyReading:
			stats.CurrentlyReading++
		case entities.StatusWantToRead:
			stats.WantToRead++
		case entities.StatusAbandoned:
			stats.Abandoned++
		}

		switch book.Format {
		case entities.FormatBook, entities.FormatEbook, entities.FormatAudiobook:
			stats.BooksByFormat[book.Format]++
		default:
			stats.BooksByFormat[entities.FormatUnknown]++
		}
	}

	tallyRatings(books, &stats)
	tallyPages(books, &stats)
	tallyFinishDates(books, &stats, now)

	stats.TopAuthors = topAuthors(books)
	stats.TopGenres = topGenres(books)
	stats.ReadingTimeline = finishTimeline(books, now)
	stats.RecentFinishes = recentFinishes(books)

	return stats
}

func tallyRatings(books []entities.Book, stats *ReadingStats) {
	var sum float64
	for _, book := range books {
		if !book.HasRating() {
			continue
		}
		stats.TotalRatings++
		sum += *book.Rating

		// The histogram only buckets whole-star ratings.
		if whole := int(*book.Rating); float64(whole) == *book.Rating && whole >= 1 && whole <= 5 {
			stats.BooksByRating[whole]++
		}
	}
	if stats.TotalRatings > 0 {
		stats.AverageRating = sum / float64(stats.TotalRatings)
	}
}

func tallyPages(books []entities.Book, stats *ReadingStats) {
	counted := 0
	for _, book := range books {
		if book.PageCount > 0 {
			stats.TotalPages += book.PageCount
			counted++
		}
	}
	if counted > 0 {
		stats.AveragePages = math.Round(float64(stats.TotalPages) / float64(counted))
	}
}

func tallyFinishDates(books []entities.Book, stats *ReadingStats, now time.Time) {
	for _, book := range books {
		finished, ok := finishedAt(book)
		if !ok {
			continue
		}
		if finished.Year() == now.Year() {
			stats.BooksFinishedThisYear++
			if finished.Month() == now.Month() {
				stats.BooksFinishedThisMonth++
			}
		}
	}
}

func topAuthors(books []entities.Book) []AuthorCount {
	counts := make(map[string]int)
	for _, book := range books {
		counts[book.Author]++
	}

	authors := make([]AuthorCount, 0, len(counts))
	for author, count := range counts {
		authors = append(authors, AuthorCount{Author: author, Count: count})
	}
	sort.Slice(authors, func(i, j int) bool {
		if authors[i].Count != authors[j].Count {
			return authors[i].Count > authors[j].Count
		}
		return authors[i].Author < authors[j].Author
	})

	if len(authors) > topN {
		authors = authors[:topN]
	}
	return authors
}

func topGenres(books []entities.Book) []GenreCount {
	counts := make(map[string]int)
	for _, book := range books {
		for _, genre := range book.Genres {
			counts[genre]++
		}
	}

	genres := make([]GenreCount, 0, len(counts))
	for genre, count := range counts {
		genres = append(genres, GenreCount{Genre: genre, Count: count})
	}
	sort.Slice(genres, func(i, j int) bool {
		if genres[i].Count != genres[j].Count {
			return genres[i].Count > genres[j].Count
		}
		return genres[i].Genre < genres[j].Genre
	})

	if len(genres) > topN {
		genres = genres[:topN]
	}
	return genres
}

// finishTimeline buckets finished books into the last 12 calendar months.
func finishTimeline(books []entities.Book, now time.Time) []TimelineEntry {
	type monthKey struct {
		year  int
		month time.Month
	}

	buckets := make(map[monthKey]int, 12)
	months := make([]monthKey, 0, 12)
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 11; i >= 0; i-- {
		m := anchor.AddDate(0, -i, 0)
		key := monthKey{year: m.Year(), month: m.Month()}
		months = append(months, key)
		buckets[key] = 0
	}

	for _, book := range books {
		finished, ok := finishedAt(book)
		if !ok {
			continue
		}
		key := monthKey{year: finished.Year(), month: finished.Month()}
		if _, tracked := buckets[key]; tracked {
			buckets[key]++
		}
	}

	timeline := make([]TimelineEntry, 0, 12)
	for _, key := range months {
		label := time.Date(key.year, key.month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
		timeline = append(timeline, TimelineEntry{Month: label, Count: buckets[key]})
	}
	return timeline
}

const recentFinishLimit = 5

func recentFinishes(books []entities.Book) []entities.Book {
	var finished []entities.Book
	for _, book := range books {
		if book.Status == entities.StatusFinished && book.DateFinished != "" {
			finished = append(finished, book)
		}
	}

	sort.SliceStable(finished, func(i, j int) bool {
		ti, _ := finishedAt(finished[i])
		tj, _ := finishedAt(finished[j])
		return ti.After(tj)
	})

	if len(finished) > recentFinishLimit {
		finished = finished[:recentFinishLimit]
	}
	return finished
}

func finishedAt(book entities.Book) (time.Time, bool) {
	return normalize.ParseDate(book.DateFinished)
}
