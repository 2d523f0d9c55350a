package entities

import "time"

type ReadingStatus string

const (
	StatusWantToRead       ReadingStatus = "want-to-read"
	StatusCurrentlyReading ReadingStatus = "currently-reading"
	StatusFinished         ReadingStatus = "finished"
	StatusAbandoned        ReadingStatus = "abandoned"
)

type BookFormat string

const (
	FormatBook      BookFormat = "book"
	FormatEbook     BookFormat = "ebook"
	FormatAudiobook BookFormat = "audiobook"
	FormatUnknown   BookFormat = "unknown"
)

// Book is one entry in the reading list. The ID is assigned once at
// creation (import or manual entry) and never changes; reconciliation
// merges always keep the earliest-seen record's ID.
type Book struct {
	ID     string        `gorm:"primaryKey;size:36" json:"id"`
	Title  string        `gorm:"index;size:512" json:"title"`
	Author string        `gorm:"index;size:256" json:"author"`
	ISBN   string        `gorm:"index;size:20" json:"isbn,omitempty"`
	Status ReadingStatus `gorm:"size:20;default:'want-to-read'" json:"status"`
	Format BookFormat    `gorm:"size:20" json:"format,omitempty"`

	Rating *float64 `json:"rating,omitempty"`
	Notes  string   `gorm:"type:text" json:"notes,omitempty"`

	// Catalog metadata, filled by import or enrichment.
	CoverURL      string   `gorm:"size:2048" json:"cover_url,omitempty"`
	Description   string   `gorm:"type:text" json:"description,omitempty"`
	PageCount     int      `json:"page_count,omitempty"`
	PublishedDate string   `gorm:"size:64" json:"published_date,omitempty"`
	Genres        []string `gorm:"serializer:json" json:"genres,omitempty"`

	// Provenance dates are kept as strings: exports carry them in wildly
	// different formats and the importers only coerce opportunistically.
	DateAdded    string `gorm:"size:64" json:"date_added,omitempty"`
	DateStarted  string `gorm:"size:64" json:"date_started,omitempty"`
	DateFinished string `gorm:"size:64" json:"date_finished,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// HasRating reports whether the book carries a valid rating.
func (b Book) HasRating() bool {
	return b.Rating != nil
}

// BookMetadata is a catalog-search result from an external provider.
// Only the fields the provider actually returned are set.
type BookMetadata struct {
	Title         string   `json:"title,omitempty"`
	Author        string   `json:"author,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
	CoverURL      string   `json:"cover_url,omitempty"`
	Description   string   `json:"description,omitempty"`
	PageCount     int      `json:"page_count,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	Genres        []string `json:"genres,omitempty"`
}
