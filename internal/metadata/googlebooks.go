package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mrlokans/readstack/internal/entities"
)

// GoogleBooksClient fetches book metadata from the Google Books API.
// It generally returns richer descriptions and genre lists than
// OpenLibrary, so the enricher queries it first.
type GoogleBooksClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewGoogleBooksClient creates a new Google Books API client.
func NewGoogleBooksClient() *GoogleBooksClient {
	return &GoogleBooksClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: "https://www.googleapis.com/books/v1",
	}
}

type googleBooksVolume struct {
	VolumeInfo struct {
		Title               string   `json:"title"`
		Authors             []string `json:"authors"`
		Description         string   `json:"description"`
		PageCount           int      `json:"pageCount"`
		PublishedDate       string   `json:"publishedDate"`
		Categories          []string `json:"categories"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
		ImageLinks struct {
			Thumbnail      string `json:"thumbnail"`
			SmallThumbnail string `json:"smallThumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

type googleBooksResult struct {
	Items []googleBooksVolume `json:"items"`
}

// Search looks up a book by title and author, returning the top match.
func (c *GoogleBooksClient) Search(ctx context.Context, title, author string) (*entities.BookMetadata, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	q := title
	if author != "" {
		q = fmt.Sprintf("%s %s", title, author)
	}

	searchURL := fmt.Sprintf("%s/volumes?q=%s&maxResults=1", c.baseURL, url.QueryEscape(q))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search volumes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result googleBooksResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, fmt.Errorf("no results found for: %s", title)
	}

	info := result.Items[0].VolumeInfo
	metadata := &entities.BookMetadata{
		Title:         info.Title,
		Description:   info.Description,
		PageCount:     info.PageCount,
		PublishedDate: info.PublishedDate,
		Genres:        info.Categories,
	}

	if len(info.Authors) > 0 {
		metadata.Author = info.Authors[0]
	}

	// Prefer ISBN-13, fall back to ISBN-10
	for _, id := range info.IndustryIdentifiers {
		if id.Type == "ISBN_13" {
			metadata.ISBN = id.Identifier
			break
		}
		if id.Type == "ISBN_10" && metadata.ISBN == "" {
			metadata.ISBN = id.Identifier
		}
	}

	if info.ImageLinks.Thumbnail != "" {
		metadata.CoverURL = info.ImageLinks.Thumbnail
	} else if info.ImageLinks.SmallThumbnail != "" {
		metadata.CoverURL = info.ImageLinks.SmallThumbnail
	}

	return metadata, nil
}
