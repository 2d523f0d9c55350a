package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readstack/internal/entities"
	"github.com/mrlokans/readstack/internal/importers"
)

type memoryStore struct {
	books      []entities.Book
	listErr    error
	replaceErr error
	replaced   int
}

func (m *memoryStore) List() ([]entities.Book, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]entities.Book, len(m.books))
	copy(out, m.books)
	return out, nil
}

func (m *memoryStore) ReplaceAll(books []entities.Book) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.books = books
	m.replaced++
	return nil
}

type recordingAuditor struct {
	importCalls int
	dedupeCalls int
	lastErr     error
}

func (a *recordingAuditor) LogImport(source, description string, imported, duplicates int, err error) {
	a.importCalls++
	a.lastErr = err
}

func (a *recordingAuditor) LogDedupe(description string, removed int, err error) {
	a.dedupeCalls++
	a.lastErr = err
}

func TestImportService_Import(t *testing.T) {
	store := &memoryStore{}
	auditor := &recordingAuditor{}
	service := NewImportService(store, auditor)

	csvText := "Title,Author,Status\n" +
		"The Great Gatsby,F. Scott Fitzgerald,finished\n" +
		"Dune,Frank Herbert,want to read\n"

	result, err := service.Import(importers.NewCSVImporter(), csvText)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Duplicates)
	assert.Equal(t, 2, result.Total)
	assert.Len(t, store.books, 2)
	assert.Equal(t, 1, auditor.importCalls)
	assert.NoError(t, auditor.lastErr)
}

func TestImportService_Import_MergesWithStored(t *testing.T) {
	rating := 4.0
	store := &memoryStore{books: []entities.Book{
		{
			ID:     "existing-1",
			Title:  "Dune",
			Author: "Frank Herbert",
			Status: entities.StatusCurrentlyReading,
			Rating: &rating,
		},
	}}
	service := NewImportService(store, nil)

	csvText := "Title,Author,Status\n" +
		"dune,FRANK HERBERT,finished\n"

	result, err := service.Import(importers.NewCSVImporter(), csvText)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, 1, result.Total)

	require.Len(t, store.books, 1)
	survivor := store.books[0]
	assert.Equal(t, "existing-1", survivor.ID)
	assert.Equal(t, entities.StatusFinished, survivor.Status)
	require.NotNil(t, survivor.Rating)
	assert.Equal(t, 4.0, *survivor.Rating)
}

func TestImportService_Import_ListFailure(t *testing.T) {
	store := &memoryStore{listErr: errors.New("db locked")}
	auditor := &recordingAuditor{}
	service := NewImportService(store, auditor)

	_, err := service.Import(importers.NewCSVImporter(), "Title,Author\nDune,Frank Herbert\n")

	assert.Error(t, err)
	assert.Error(t, auditor.lastErr)
}

func TestImportService_Import_ReplaceFailure(t *testing.T) {
	store := &memoryStore{replaceErr: errors.New("disk full")}
	service := NewImportService(store, nil)

	_, err := service.Import(importers.NewCSVImporter(), "Title,Author\nDune,Frank Herbert\n")

	assert.Error(t, err)
}

func TestImportService_Dedupe(t *testing.T) {
	store := &memoryStore{books: []entities.Book{
		{ID: "a", Title: "Dune", Author: "Frank Herbert", Status: entities.StatusFinished},
		{ID: "b", Title: "DUNE", Author: "frank herbert", Status: entities.StatusWantToRead},
		{ID: "c", Title: "Hyperion", Author: "Dan Simmons", Status: entities.StatusWantToRead},
	}}
	auditor := &recordingAuditor{}
	service := NewImportService(store, auditor)

	result, err := service.Dedupe()

	require.NoError(t, err)
	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, 2, result.Remaining)
	assert.Len(t, store.books, 2)
	assert.Equal(t, 1, auditor.dedupeCalls)
}

func TestImportService_Dedupe_NothingToDo(t *testing.T) {
	store := &memoryStore{books: []entities.Book{
		{ID: "a", Title: "Dune", Author: "Frank Herbert"},
	}}
	service := NewImportService(store, nil)

	result, err := service.Dedupe()

	require.NoError(t, err)
	assert.Equal(t, 0, result.Removed)
	assert.Equal(t, 1, result.Remaining)
	// No write when nothing was absorbed.
	assert.Equal(t, 0, store.replaced)
}
