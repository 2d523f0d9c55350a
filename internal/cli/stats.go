package cli

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mrlokans/readstack/internal/analytics"
	"github.com/mrlokans/readstack/internal/config"
	"github.com/mrlokans/readstack/internal/database"
	"github.com/mrlokans/readstack/internal/database/books"
)

// StatsCommand prints reading statistics for the stored collection.
type StatsCommand struct {
	DatabasePath string
}

func NewStatsCommand() *StatsCommand {
	return &StatsCommand{}
}

func (cmd *StatsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s stats [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print reading statistics for the stored collection.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *StatsCommand) Run() error {
	if _, err := os.Stat(cmd.DatabasePath); os.IsNotExist(err) {
		return fmt.Errorf("database file does not exist: %s", cmd.DatabasePath)
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

	stored, err := books.NewRepository(db.DB).List()
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}

	stats := analytics.Calculate(stored)

	fmt.Printf("\n=== Reading Statistics ===\n")
	fmt.Printf("Total books: %d\n", stats.TotalBooks)
	fmt.Printf("Finished: %d\n", stats.FinishedBooks)
	fmt.Printf("Currently reading: %d\n", stats.CurrentlyReading)
	fmt.Printf("Want to read: %d\n", stats.WantToRead)
	fmt.Printf("Abandoned: %d\n", stats.Abandoned)

	if stats.TotalRatings > 0 {
		fmt.Printf("\nAverage rating: %.2f (%d rated)\n", stats.AverageRating, stats.TotalRatings)
	}
	if stats.TotalPages > 0 {
		fmt.Printf("Total pages: %d (avg %.0f per book)\n", stats.TotalPages, stats.AveragePages)
	}

	fmt.Printf("\nFinished this year: %d\n", stats.BooksFinishedThisYear)
	fmt.Printf("Finished this month: %d\n", stats.BooksFinishedThisMonth)

	if len(stats.TopAuthors) > 0 {
		fmt.Printf("\n=== Top Authors ===\n")
		for i, author := range stats.TopAuthors {
			fmt.Printf("%d. %s (%d books)\n", i+1, author.Author, author.Count)
		}
	}

	if len(stats.TopGenres) > 0 {
		fmt.Printf("\n=== Top Genres ===\n")
		for i, genre := range stats.TopGenres {
			fmt.Printf("%d. %s (%d books)\n", i+1, genre.Genre, genre.Count)
		}
	}

	return nil
}
