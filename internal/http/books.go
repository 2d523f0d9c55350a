package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/readstack/internal/audit"
	"github.com/mrlokans/readstack/internal/entities"
	"github.com/mrlokans/readstack/internal/normalize"
)

type BooksController struct {
	store   BookStore
	auditor *audit.Service
}

func NewBooksController(store BookStore, auditor *audit.Service) *BooksController {
	return &BooksController{
		store:   store,
		auditor: auditor,
	}
}

// BookRequest is the request body for creating a book.
type BookRequest struct {
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	ISBN         string   `json:"isbn"`
	Status       string   `json:"status"`
	Format       string   `json:"format"`
	Rating       *float64 `json:"rating"`
	Notes        string   `json:"notes"`
	CoverURL     string   `json:"cover_url"`
	Genres       []string `json:"genres"`
	DateAdded    string   `json:"date_added"`
	DateStarted  string   `json:"date_started"`
	DateFinished string   `json:"date_finished"`
}

func (controller *BooksController) GetAllBooks(c *gin.Context) {
	books, err := controller.store.List()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *BooksController) GetBook(c *gin.Context) {
	book, err := controller.store.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.IndentedJSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

func (controller *BooksController) CreateBook(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	book, ok := bookFromRequest(req)
	if !ok {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "title and author are required"})
		return
	}

	if err := controller.store.Create(&book); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusCreated, book)
}

// BulkReplaceRequest is the request body for replacing the whole
// collection at once.
type BulkReplaceRequest struct {
	Books []BookRequest `json:"books"`
}

// BulkReplaceBooks handles PUT /api/books/bulk: the submitted list
// becomes the entire collection. Entries without title or author are
// skipped.
func (controller *BooksController) BulkReplaceBooks(c *gin.Context) {
	var req BulkReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	books := make([]entities.Book, 0, len(req.Books))
	skipped := 0
	for _, item := range req.Books {
		book, ok := bookFromRequest(item)
		if !ok {
			skipped++
			continue
		}
		books = append(books, book)
	}

	if err := controller.store.ReplaceAll(books); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"books":   books,
		"count":   len(books),
		"skipped": skipped,
	})
}

// updatableColumns lists the fields PATCH may touch. Everything else in
// the body is ignored.
var updatableColumns = map[string]bool{
	"title":          true,
	"author":         true,
	"isbn":           true,
	"status":         true,
	"format":         true,
	"rating":         true,
	"notes":          true,
	"cover_url":      true,
	"description":    true,
	"page_count":     true,
	"published_date": true,
	"date_added":     true,
	"date_started":   true,
	"date_finished":  true,
}

func (controller *BooksController) UpdateBook(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	fields := make(map[string]any)
	for column, value := range body {
		if updatableColumns[column] {
			fields[column] = value
		}
	}
	if len(fields) == 0 {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "no updatable fields provided"})
		return
	}

	id := c.Param("id")
	if err := controller.store.UpdateByID(id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.IndentedJSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	book, err := controller.store.GetByID(id)
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

func (controller *BooksController) DeleteBook(c *gin.Context) {
	id := c.Param("id")

	book, err := controller.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.IndentedJSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := controller.store.DeleteByID(id); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if controller.auditor != nil {
		controller.auditor.LogDelete(id, "Deleted "+book.Title+" by "+book.Author)
	}

	c.IndentedJSON(http.StatusOK, gin.H{"deleted": id})
}

func (controller *BooksController) SearchBooks(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})
		return
	}

	books, err := controller.store.List()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	needle := normalize.ForComparison(query)
	matches := make([]entities.Book, 0)
	for _, book := range books {
		if bookMatches(book, needle) {
			matches = append(matches, book)
		}
	}

	c.IndentedJSON(http.StatusOK, gin.H{"books": matches, "count": len(matches)})
}

func bookMatches(book entities.Book, needle string) bool {
	if strings.Contains(normalize.ForComparison(book.Title), needle) {
		return true
	}
	if strings.Contains(normalize.ForComparison(book.Author), needle) {
		return true
	}
	if book.ISBN != "" && strings.Contains(normalize.ForComparison(book.ISBN), needle) {
		return true
	}
	for _, genre := range book.Genres {
		if strings.Contains(normalize.ForComparison(genre), needle) {
			return true
		}
	}
	return false
}

// bookFromRequest builds a Book with a fresh ID and normalized status,
// format and rating. Returns false when title or author is missing.
func bookFromRequest(req BookRequest) (entities.Book, bool) {
	title := strings.TrimSpace(req.Title)
	author := strings.TrimSpace(req.Author)
	if title == "" || author == "" {
		return entities.Book{}, false
	}

	book := entities.Book{
		ID:           uuid.NewString(),
		Title:        title,
		Author:       author,
		ISBN:         strings.TrimSpace(req.ISBN),
		Status:       normalize.MapStatus(req.Status),
		Format:       normalize.MapFormat(req.Format),
		Notes:        req.Notes,
		CoverURL:     req.CoverURL,
		Genres:       req.Genres,
		DateAdded:    normalize.CoerceDate(req.DateAdded),
		DateStarted:  req.DateStarted,
		DateFinished: normalize.CoerceDate(req.DateFinished),
	}

	if req.Rating != nil && *req.Rating > 0 && *req.Rating <= 5 {
		rating := *req.Rating
		book.Rating = &rating
	}

	if book.DateAdded == "" {
		book.DateAdded = time.Now().UTC().Format(time.RFC3339)
	}

	return book, true
}
