package cli

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mrlokans/readstack/internal/audit"
	"github.com/mrlokans/readstack/internal/config"
	"github.com/mrlokans/readstack/internal/database"
	auditrepo "github.com/mrlokans/readstack/internal/database/audit"
	"github.com/mrlokans/readstack/internal/database/books"
	"github.com/mrlokans/readstack/internal/dedup"
	"github.com/mrlokans/readstack/internal/services"
)

// DedupeCommand reconciles duplicate entries in the stored collection.
type DedupeCommand struct {
	DatabasePath string
	DryRun       bool
}

func NewDedupeCommand() *DedupeCommand {
	return &DedupeCommand{}
}

func (cmd *DedupeCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("dedupe", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Report duplicates without changing the collection")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s dedupe [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Merge duplicate books in the stored collection.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *DedupeCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	bookRepo := books.NewRepository(db.DB)

	if cmd.DryRun {
		stored, err := bookRepo.List()
		if err != nil {
			return fmt.Errorf("failed to load collection: %w", err)
		}
		duplicates := dedup.CountDuplicates(stored)
		fmt.Printf("Collection size: %d\n", len(stored))
		fmt.Printf("Duplicates found: %d (collection unchanged)\n", duplicates)
		return nil
	}

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	service := services.NewImportService(bookRepo, auditService)

	result, err := service.Dedupe()
	if err != nil {
		return fmt.Errorf("dedupe failed: %w", err)
	}

	fmt.Printf("\n=== Dedupe Results ===\n")
	fmt.Printf("Duplicates merged: %d\n", result.Removed)
	fmt.Printf("Collection size: %d\n", result.Remaining)

	return nil
}
