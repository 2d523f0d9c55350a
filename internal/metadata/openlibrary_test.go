package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenLibraryClient(serverURL string) *OpenLibraryClient {
	return &OpenLibraryClient{
		httpClient:  &http.Client{Timeout: 5 * time.Second},
		baseURL:     serverURL,
		rateLimiter: newRateLimiter(time.Millisecond),
	}
}

func TestOpenLibrary_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Contains(t, r.URL.RawQuery, "limit=5")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"docs": [
				{
					"title": "The Hobbit",
					"author_name": ["J.R.R. Tolkien"],
					"isbn": ["978-0-547-92822-7"],
					"cover_i": 12345,
					"first_publish_year": 1937,
					"subject": ["Fantasy", "Adventure", "Dragons", "Dwarves", "Wizards", "Hobbits"],
					"number_of_pages_median": 310
				}
			]
		}`))
	}))
	defer server.Close()

	client := newTestOpenLibraryClient(server.URL)
	metadata, err := client.Search(context.Background(), "The Hobbit", "J.R.R. Tolkien")

	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", metadata.Title)
	assert.Equal(t, "J.R.R. Tolkien", metadata.Author)
	assert.Equal(t, "9780547928227", metadata.ISBN)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/12345-L.jpg", metadata.CoverURL)
	assert.Equal(t, "1937", metadata.PublishedDate)
	assert.Equal(t, 310, metadata.PageCount)
	assert.Len(t, metadata.Genres, 5)
}

func TestOpenLibrary_Search_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"docs": []}`))
	}))
	defer server.Close()

	client := newTestOpenLibraryClient(server.URL)
	_, err := client.Search(context.Background(), "Nonexistent Book", "")

	assert.Error(t, err)
}

func TestOpenLibrary_Search_EmptyTitle(t *testing.T) {
	client := newTestOpenLibraryClient("http://unused")
	_, err := client.Search(context.Background(), "", "Someone")
	assert.Error(t, err)
}

func TestOpenLibrary_Search_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestOpenLibraryClient(server.URL)
	_, err := client.Search(context.Background(), "The Hobbit", "")

	assert.Error(t, err)
}

func TestFindBestMatch_PrefersExactTitleAndAuthor(t *testing.T) {
	docs := []openLibrarySearchDoc{
		{Title: "The Hobbit: An Illustrated Guide", AuthorName: []string{"Somebody Else"}},
		{Title: "The Hobbit", AuthorName: []string{"J.R.R. Tolkien"}, ISBN: []string{"123"}},
		{Title: "The Hobbit", AuthorName: []string{"Another Author"}},
	}

	best := findBestMatch(docs, "The Hobbit", "J.R.R. Tolkien")

	require.NotNil(t, best)
	assert.Equal(t, []string{"J.R.R. Tolkien"}, best.AuthorName)
}

func TestNormalizeISBN(t *testing.T) {
	assert.Equal(t, "9780547928227", normalizeISBN("978-0-547-92822-7"))
	assert.Equal(t, "014312755X", normalizeISBN("0-14-312755-x"))
	assert.Equal(t, "1234567890", normalizeISBN(" 1 2345 6789 0 "))
}
