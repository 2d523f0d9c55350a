// Package importers converts bulk reading-list exports into Book records.
//
// # Architecture
//
// Both importers follow the same flow:
//
//	Export blob → tokenize → candidate → promote → entities.Book
//
// A candidate is a partially populated book built up while scanning the
// export. It is promoted to a full Book (fresh ID, defaulted status) only
// when both title and author are present; incomplete candidates are
// silently discarded.
//
// Ingestion is best-effort throughout: malformed rows are skipped,
// unrecognized headers and keys are ignored, and unparseable ratings or
// dates leave the field absent. No importer ever returns an error for
// messy input.
//
// # Supported formats
//
//   - CSVImporter (csv.go): comma-separated export with a header row,
//     double-quote field quoting
//   - MarkdownImporter (markdown.go): heading-per-book markdown with
//     "Key: value" lines beneath each heading
package importers
