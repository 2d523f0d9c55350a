package dedup

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readstack/internal/entities"
)

func makeBook(mutate func(*entities.Book)) entities.Book {
	book := entities.Book{
		ID:     uuid.NewString(),
		Title:  "Test Book",
		Author: "Test Author",
		Status: entities.StatusWantToRead,
	}
	if mutate != nil {
		mutate(&book)
	}
	return book
}

func ratingOf(v float64) *float64 {
	return &v
}

func TestSameBook_ExactMatch(t *testing.T) {
	a := makeBook(func(b *entities.Book) { b.Title = "The Great Gatsby"; b.Author = "F. Scott Fitzgerald" })
	b := makeBook(func(b *entities.Book) { b.Title = "The Great Gatsby"; b.Author = "F. Scott Fitzgerald" })

	assert.True(t, SameBook(a, b))
}

func TestSameBook_ReflexiveAndSymmetric(t *testing.T) {
	a := makeBook(nil)
	b := makeBook(func(b *entities.Book) { b.Title = "THE GREAT GATSBY" })

	assert.True(t, SameBook(a, a))
	assert.Equal(t, SameBook(a, b), SameBook(b, a))
}

func TestSameBook_CaseAndWhitespaceInsensitive(t *testing.T) {
	a := makeBook(func(b *entities.Book) { b.Title = "  The Great Gatsby  "; b.Author = "F. Scott  Fitzgerald" })
	b := makeBook(func(b *entities.Book) { b.Title = "the great gatsby"; b.Author = "f. scott fitzgerald" })

	assert.True(t, SameBook(a, b))
}

func TestSameBook_DifferentAuthor(t *testing.T) {
	a := makeBook(func(b *entities.Book) { b.Title = "The Journey"; b.Author = "Author One" })
	b := makeBook(func(b *entities.Book) { b.Title = "The Journey"; b.Author = "Author Two" })

	assert.False(t, SameBook(a, b))
}

func TestSameBook_ISBNOverridesTitleMismatch(t *testing.T) {
	a := makeBook(func(b *entities.Book) { b.Title = "Book One"; b.Author = "Author A"; b.ISBN = "978-0-123456-78-9" })
	b := makeBook(func(b *entities.Book) { b.Title = "Different Title"; b.Author = "Different Author"; b.ISBN = "978-0-123456-78-9" })

	assert.True(t, SameBook(a, b))
}

func TestSameBook_EmptyISBNNeverMatches(t *testing.T) {
	a := makeBook(func(b *entities.Book) { b.Title = "Book One"; b.ISBN = "" })
	b := makeBook(func(b *entities.Book) { b.Title = "Book Two"; b.ISBN = "" })

	assert.False(t, SameBook(a, b))
}

func TestReconcile_Empty(t *testing.T) {
	assert.Empty(t, Reconcile(nil))
	assert.Empty(t, Reconcile([]entities.Book{}))
}

func TestReconcile_NoDuplicates(t *testing.T) {
	books := []entities.Book{
		makeBook(func(b *entities.Book) { b.Title = "Book One"; b.Author = "Author A" }),
		makeBook(func(b *entities.Book) { b.Title = "Book Two"; b.Author = "Author B" }),
	}

	assert.Len(t, Reconcile(books), 2)
}

func TestReconcile_MergesDuplicates(t *testing.T) {
	books := []entities.Book{
		makeBook(func(b *entities.Book) { b.Title = "The Great Gatsby"; b.Author = "F. Scott Fitzgerald" }),
		makeBook(func(b *entities.Book) { b.Title = "The Great Gatsby"; b.Author = "F. Scott Fitzgerald" }),
		makeBook(func(b *entities.Book) { b.Title = "1984"; b.Author = "George Orwell" }),
	}

	result := Reconcile(books)
	require.Len(t, result, 2)
	// The earliest-seen record's ID survives
	assert.Equal(t, books[0].ID, result[0].ID)
}

func TestReconcile_ISBNOnlyMatch(t *testing.T) {
	books := []entities.Book{
		makeBook(func(b *entities.Book) { b.Title = "Gatsby"; b.Author = "Fitzgerald"; b.ISBN = "123" }),
		makeBook(func(b *entities.Book) { b.Title = "The Great Gatsby"; b.Author = "F. S. Fitzgerald"; b.ISBN = "123" }),
	}

	result := Reconcile(books)
	require.Len(t, result, 1)
	assert.Equal(t, books[0].ID, result[0].ID)
}

func TestReconcile_MostAdvancedStatusWins(t *testing.T) {
	books := []entities.Book{
		makeBook(func(b *entities.Book) { b.Status = entities.StatusWantToRead }),
		makeBook(func(b *entities.Book) { b.Status = entities.StatusFinished }),
	}

	result := Reconcile(books)
	require.Len(t, result, 1)
	assert.Equal(t, entities.StatusFinished, result[0].Status)
}

func TestReconcile_AbandonedRanksBelowWantToRead(t *testing.T) {
	books := []entities.Book{
		makeBook(func(b *entities.Book) { b.Status = entities.StatusAbandoned }),
		makeBook(func(b *entities.Book) { b.Status = entities.StatusWantToRead }),
	}

	result := Reconcile(books)
	require.Len(t, result, 1)
	assert.Equal(t, entities.StatusWantToRead, result[0].Status)
}

func TestReconcile_HighestRatingWins(t *testing.T) {
	books := []entities.Book{
		makeBook(func(b *entities.Book) { b.Rating = ratingOf(3) }),
		makeBook(func(b *entities.Book) { b.Rating = ratingOf(5) }),
	}

	result := Reconcile(books)
	require.Len(t, result, 1)
	require.NotNil(t, result[0].Rating)
	assert.Equal(t, 5.0, *result[0].Rating)
}

func TestReconcile_NonConflictingFieldsCombined(t *testing.T) {
	books := []entities.Book{
		makeBook(func(b *entities.Book) { b.CoverURL = "http://example.com/cover.jpg" }),
		makeBook(func(b *entities.Book) { b.Description = "A great book" }),
	}

	result := Reconcile(books)
	require.Len(t, result, 1)
	assert.Equal(t, "http://example.com/cover.jpg", result[0].CoverURL)
	assert.Equal(t, "A great book", result[0].Description)
}

func TestReconcile_DateRules(t *testing.T) {
	books := []entities.Book{
		makeBook(func(b *entities.Book) {
			b.DateAdded = "2023-05-01"
			b.DateStarted = "2023-06-01"
			b.DateFinished = "2023-07-01"
		}),
		makeBook(func(b *entities.Book) {
			b.DateAdded = "2023-01-01"
			b.DateStarted = "2023-08-01"
			b.DateFinished = "2023-09-01"
		}),
	}

	result := Reconcile(books)
	require.Len(t, result, 1)
	assert.Equal(t, "2023-01-01", result[0].DateAdded, "earliest date added")
	assert.Equal(t, "2023-06-01", result[0].DateStarted, "earliest date started")
	assert.Equal(t, "2023-09-01", result[0].DateFinished, "latest date finished")
}

func TestReconcile_NotesMerged(t *testing.T) {
	books := []entities.Book{
		makeBook(func(b *entities.Book) { b.Notes = "first note" }),
		makeBook(func(b *entities.Book) { b.Notes = "second note" }),
	}

	result := Reconcile(books)
	require.Len(t, result, 1)
	assert.Equal(t, "first note\n\n---\n\nsecond note", result[0].Notes)
}

func TestReconcile_IdenticalNotesKeptOnce(t *testing.T) {
	books := []entities.Book{
		makeBook(func(b *entities.Book) { b.Notes = "same note" }),
		makeBook(func(b *entities.Book) { b.Notes = "same note" }),
	}

	result := Reconcile(books)
	require.Len(t, result, 1)
	assert.Equal(t, "same note", result[0].Notes)
}

func TestReconcile_Idempotent(t *testing.T) {
	books := []entities.Book{
		makeBook(func(b *entities.Book) { b.Title = "A"; b.Notes = "note one" }),
		makeBook(func(b *entities.Book) { b.Title = "A"; b.Notes = "note two" }),
		makeBook(func(b *entities.Book) { b.Title = "B" }),
	}

	once := Reconcile(books)
	twice := Reconcile(once)
	assert.Equal(t, once, twice)
}

func TestReconcile_PreservesFirstSeenOrder(t *testing.T) {
	books := []entities.Book{
		makeBook(func(b *entities.Book) { b.Title = "Rare" }),
		makeBook(func(b *entities.Book) { b.Title = "Common" }),
		makeBook(func(b *entities.Book) { b.Title = "Common" }),
		makeBook(func(b *entities.Book) { b.Title = "Common" }),
	}

	result := Reconcile(books)
	require.Len(t, result, 2)
	assert.Equal(t, "Rare", result[0].Title)
	assert.Equal(t, "Common", result[1].Title)
}

func TestReconcile_DoesNotMutateInput(t *testing.T) {
	a := makeBook(func(b *entities.Book) { b.Notes = "original" })
	b := makeBook(func(b *entities.Book) { b.Notes = "extra" })
	books := []entities.Book{a, b}

	Reconcile(books)

	assert.Equal(t, "original", books[0].Notes)
	assert.Equal(t, "extra", books[1].Notes)
}

func TestCountDuplicates(t *testing.T) {
	books := []entities.Book{
		makeBook(func(b *entities.Book) { b.Title = "Triple" }),
		makeBook(func(b *entities.Book) { b.Title = "Triple" }),
		makeBook(func(b *entities.Book) { b.Title = "Triple" }),
		makeBook(func(b *entities.Book) { b.Title = "Unique" }),
	}

	assert.Equal(t, 2, CountDuplicates(books))
	assert.Equal(t, 0, CountDuplicates(books[3:]))
}
