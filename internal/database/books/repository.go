// Package books implements the record store for the reading list.
//
// It satisfies the services.BookStore contract:
//
//	var _ services.BookStore = (*Repository)(nil)
package books

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/readstack/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List retrieves the whole collection in insertion order.
func (r *Repository) List() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("created_at ASC, id ASC").Find(&books).Error
	return books, err
}

// GetByID retrieves a single book.
func (r *Repository) GetByID(id string) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// Create inserts a new book. The caller is responsible for assigning the ID.
func (r *Repository) Create(book *entities.Book) error {
	if book.ID == "" || book.Title == "" || book.Author == "" {
		return fmt.Errorf("book must have id, title, and author")
	}
	return r.db.Create(book).Error
}

// ReplaceAll swaps the entire collection in one transaction, so a
// reconciliation result never coexists with the records it absorbed.
func (r *Repository) ReplaceAll(books []entities.Book) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entities.Book{}).Error; err != nil {
			return fmt.Errorf("failed to clear books: %w", err)
		}
		if len(books) == 0 {
			return nil
		}
		if err := tx.Create(&books).Error; err != nil {
			return fmt.Errorf("failed to insert books: %w", err)
		}
		return nil
	})
}

// Save persists the full state of an existing book.
func (r *Repository) Save(book *entities.Book) error {
	if book.ID == "" {
		return fmt.Errorf("book must have an id")
	}
	return r.db.Save(book).Error
}

// UpdateByID applies a partial update to one book. Fields holds column
// names to new values, e.g. {"status": "finished"}.
func (r *Repository) UpdateByID(id string, fields map[string]any) error {
	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByID removes one book.
func (r *Repository) DeleteByID(id string) error {
	result := r.db.Delete(&entities.Book{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetBooksMissingMetadata returns books the enrichment sweep should
// visit: anything without a cover or a description.
func (r *Repository) GetBooksMissingMetadata(limit int) ([]entities.Book, error) {
	var books []entities.Book
	query := r.db.Where("cover_url = '' OR description = ''").Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&books).Error
	return books, err
}
