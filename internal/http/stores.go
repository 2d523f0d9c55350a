package http

import (
	"time"

	"github.com/mrlokans/readstack/internal/audit"
	"github.com/mrlokans/readstack/internal/entities"
	"github.com/mrlokans/readstack/internal/metadata"
	"github.com/mrlokans/readstack/internal/scheduler"
	"github.com/mrlokans/readstack/internal/services"
	"github.com/mrlokans/readstack/internal/tasks"
)

// This file consolidates the store interfaces used by HTTP controllers.
// Each controller depends only on the methods it actually uses.

// BookStore provides book CRUD for the books controller.
type BookStore interface {
	List() ([]entities.Book, error)
	GetByID(id string) (*entities.Book, error)
	Create(book *entities.Book) error
	ReplaceAll(books []entities.Book) error
	UpdateByID(id string, fields map[string]any) error
	DeleteByID(id string) error
}

// AuditReader provides read access to the audit trail.
type AuditReader interface {
	GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error)
	GetEventsByType(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// Pinger reports database connectivity for health checks.
type Pinger interface {
	Ping() error
}

// SchedulerStatus reports the state of the background enrichment
// schedule for health checks.
type SchedulerStatus interface {
	IsRunning() bool
	NextRunTime() *time.Time
}

// RouterConfig carries all dependencies the router needs. Optional
// fields may be nil; the corresponding endpoints are then not mounted.
type RouterConfig struct {
	Version string

	Pinger        Pinger
	BookStore     BookStore
	ImportService *services.ImportService
	Auditor       *audit.Service
	AuditReader   AuditReader

	Enricher  *metadata.Enricher
	Scheduler *scheduler.EnrichmentScheduler

	TaskClient *tasks.Client
}
