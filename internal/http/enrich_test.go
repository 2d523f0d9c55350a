package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/readstack/internal/database/books"
	"github.com/mrlokans/readstack/internal/entities"
	"github.com/mrlokans/readstack/internal/metadata"
)

type stubProvider struct {
	result *entities.BookMetadata
	err    error
}

func (s *stubProvider) Search(ctx context.Context, title, author string) (*entities.BookMetadata, error) {
	return s.result, s.err
}

func setupEnrichTest(t *testing.T, provider metadata.Provider) (*books.Repository, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Book{}))

	repo := books.NewRepository(db)
	enricher := metadata.NewEnricher(provider, nil, repo)
	controller := NewEnrichController(enricher, nil, nil, nil)

	router := gin.New()
	router.POST("/api/books/:id/enrich", controller.EnrichBook)
	router.GET("/api/search", controller.SearchCatalog)

	return repo, router
}

func TestEnrichController_EnrichBook(t *testing.T) {
	provider := &stubProvider{result: &entities.BookMetadata{
		CoverURL:    "https://example.com/c.jpg",
		Description: "A classic",
	}}
	repo, router := setupEnrichTest(t, provider)
	require.NoError(t, repo.Create(&entities.Book{ID: "b1", Title: "Dune", Author: "Frank Herbert"}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/books/b1/enrich", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result metadata.EnrichmentResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.ElementsMatch(t, []string{"cover_url", "description"}, result.FieldsUpdated)

	stored, err := repo.GetByID("b1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/c.jpg", stored.CoverURL)
}

func TestEnrichController_EnrichBook_ProviderFailure(t *testing.T) {
	repo, router := setupEnrichTest(t, &stubProvider{err: errors.New("catalog down")})
	require.NoError(t, repo.Create(&entities.Book{ID: "b1", Title: "Dune", Author: "Frank Herbert"}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/books/b1/enrich", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestEnrichController_SearchCatalog(t *testing.T) {
	provider := &stubProvider{result: &entities.BookMetadata{
		Title:  "Dune",
		Author: "Frank Herbert",
		ISBN:   "9780441172719",
	}}
	_, router := setupEnrichTest(t, provider)

	t.Run("returns catalog metadata", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/search?title=Dune&author=Frank+Herbert", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "google_books", response["source"])

		found := response["metadata"].(map[string]interface{})
		assert.Equal(t, "9780441172719", found["isbn"])
	})

	t.Run("requires title parameter", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/search", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
