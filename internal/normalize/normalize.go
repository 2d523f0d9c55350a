// Package normalize provides the free-text coercion helpers shared by the
// importers and the deduplication engine: comparison normalization,
// status/format vocabulary mapping, rating notation parsing and
// best-effort date coercion.
//
// Everything here is tolerant: unrecognized input falls back to a default
// or passes through unchanged, it never produces an error.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/readstack/internal/entities"
)

var whitespaceReplacer = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

// ForComparison lowercases, trims and collapses internal whitespace runs
// to a single space. Used for identity checks only, never persisted.
func ForComparison(s string) string {
	s = strings.ToLower(strings.TrimSpace(whitespaceReplacer.Replace(s)))
	return strings.Join(strings.Fields(s), " ")
}

// statusRule maps free-text status vocabulary onto a ReadingStatus.
// Rules are evaluated top to bottom, first match wins.
type statusRule struct {
	contains []string
	equals   []string
	status   entities.ReadingStatus
}

// More specific rules come first: "reading", "want to read" and
// "ready to start" all contain the bare "read" the finished rule
// matches on, so that rule has to go last.
var statusRules = []statusRule{
	{contains: []string{"reading", "current"}, status: entities.StatusCurrentlyReading},
	{contains: []string{"ready to start", "want to read"}, status: entities.StatusWantToRead},
	{contains: []string{"abandoned", "dropped", "quit"}, status: entities.StatusAbandoned},
	{contains: []string{"finished", "read"}, equals: []string{"done"}, status: entities.StatusFinished},
}

// MapStatus maps a free-text status label onto the fixed status set.
// Matching is case-insensitive and substring-based; unmatched input
// defaults to want-to-read rather than erroring.
func MapStatus(raw string) entities.ReadingStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, rule := range statusRules {
		for _, eq := range rule.equals {
			if s == eq {
				return rule.status
			}
		}
		for _, sub := range rule.contains {
			if sub != "" && strings.Contains(s, sub) {
				return rule.status
			}
		}
	}
	return entities.StatusWantToRead
}

type formatRule struct {
	contains []string
	format   entities.BookFormat
}

// ebook and audiobook come before the generic "book" rule so that
// "audiobook", which also contains "book", still resolves correctly.
var formatRules = []formatRule{
	{contains: []string{"ebook", "e-book", "digital"}, format: entities.FormatEbook},
	{contains: []string{"audio", "audible"}, format: entities.FormatAudiobook},
	{contains: []string{"book", "physical", "hardcover", "paperback", "graphic novel"}, format: entities.FormatBook},
}

// Decorative symbols some exports prefix format labels with.
const formatDecorations = "\U0001F509\U0001F4D6\U0001F4F1\U0001F4DA"

// MapFormat maps a free-text format label onto the fixed format set.
// Unrecognized input maps to unknown.
func MapFormat(raw string) entities.BookFormat {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(formatDecorations, r) {
			return -1
		}
		return r
	}, raw)
	s := strings.ToLower(strings.TrimSpace(cleaned))

	for _, rule := range formatRules {
		for _, sub := range rule.contains {
			if strings.Contains(s, sub) {
				return rule.format
			}
		}
	}
	return entities.FormatUnknown
}

const starMark = "⭐"

// ParseRating parses a rating in either symbolic star notation ("⭐⭐⭐")
// or numeric notation ("3.5"). Star marks take precedence over a numeric
// parse; numeric values are only accepted in [0,5]. The second return
// value is false when no rating could be extracted.
func ParseRating(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	if stars := strings.Count(raw, starMark); stars > 0 {
		return float64(stars), true
	}

	numeric, err := strconv.ParseFloat(raw, 64)
	if err != nil || numeric < 0 || numeric > 5 {
		return 0, false
	}
	return numeric, true
}

// Date layouts seen across Notion and Goodreads style exports.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006/01/02",
	"01/02/2006",
}

// ParseDate attempts to parse a calendar date in any of the layouts seen
// in export data. The second return value is false when no layout matched.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CoerceDate attempts to parse a calendar date and returns it normalized
// to RFC 3339 UTC. Parsing is advisory: on failure the input is returned
// unchanged, blank input yields an empty string. It never fails an import.
func CoerceDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if t, ok := ParseDate(raw); ok {
		return t.UTC().Format(time.RFC3339)
	}
	return raw
}
