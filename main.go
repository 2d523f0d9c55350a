package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/readstack/internal/cli"
	"github.com/mrlokans/readstack/internal/config"
	"github.com/mrlokans/readstack/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "import-csv":
		runCommand(cli.NewImportCSVCommand(), args)

	case "import-markdown":
		runCommand(cli.NewImportMarkdownCommand(), args)

	case "dedupe":
		runCommand(cli.NewDedupeCommand(), args)

	case "stats":
		runCommand(cli.NewStatsCommand(), args)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

type command interface {
	ParseFlags(args []string) error
	Run() error
}

func runCommand(cmd command, args []string) {
	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve            Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  import-csv       Import a CSV reading list export\n")
	fmt.Fprintf(os.Stderr, "  import-markdown  Import a markdown reading list export\n")
	fmt.Fprintf(os.Stderr, "  dedupe           Merge duplicate books in the stored collection\n")
	fmt.Fprintf(os.Stderr, "  stats            Print reading statistics\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
