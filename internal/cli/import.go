// Package cli implements the command line subcommands: imports, dedupe
// and statistics, all operating directly on the database.
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
	"github.com/mrlokans/readstack/internal/importers"
	"github.com/mrlokans/readstack/internal/services"
)

// maxImportFileSize caps export files at 50 MB.
const maxImportFileSize = 50 << 20

// ImportCommand imports a reading list export file into the database.
type ImportCommand struct {
	name     string
	importer importers.Importer

	FilePath     string
	DatabasePath string
}

// NewImportCSVCommand creates the import-csv subcommand.
func NewImportCSVCommand() *ImportCommand {
	return &ImportCommand{name: "import-csv", importer: importers.NewCSVImporter()}
}

// NewImportMarkdownCommand creates the import-markdown subcommand.
func NewImportMarkdownCommand() *ImportCommand {
	return &ImportCommand{name: "import-markdown", importer: importers.NewMarkdownImporter()}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet(cmd.name, flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the export file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s %s [options]\n\n", os.Args[0], cmd.name)
		fmt.Fprintf(os.Stderr, "Import a %s export into the reading list, merging duplicates.\n\n", cmd.importer.Source())
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s %s -file ./reading-list.export\n", os.Args[0], cmd.name)
		fmt.Fprintf(os.Stderr, "  %s %s -file ./reading-list.export -db ./my-books.db\n", os.Args[0], cmd.name)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		fs.Usage()
		return fmt.Errorf("file is required")
	}

	return nil
}

func (cmd *ImportCommand) Run() error {
	info, err := os.Stat(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("cannot read file: %s", cmd.FilePath)
	}
	if info.Size() > maxImportFileSize {
		return fmt.Errorf("file too large: %s", cmd.FilePath)
	}

	data, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

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
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	service := services.NewImportService(bookRepo, auditService)

	result, err := service.Import(cmd.importer, string(data))
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("\n=== Import Results ===\n")
	fmt.Printf("Books imported: %d\n", result.Imported)
	fmt.Printf("Duplicates merged: %d\n", result.Duplicates)
	fmt.Printf("Collection size: %d\n", result.Total)

	return nil
}
