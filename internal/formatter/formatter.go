// package formatter renders sync results as CSV, Markdown, or plain text reports
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/starsync/internal/matching"
	"github.com/desertthunder/starsync/internal/models"
	"github.com/desertthunder/starsync/internal/shared"
	"github.com/desertthunder/starsync/internal/tasks"
)

// Format is a report output format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// FormatForPath picks a format from a file extension: .csv, .md/.markdown, anything else is text.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatText
	}
}

// Export renders result in the given format.
func Export(result *tasks.SyncResult, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(result)
	case FormatMarkdown:
		return ExportToMarkdown(result)
	case FormatText:
		return ExportToText(result)
	default:
		return nil, fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteReport writes the report for result to path, choosing the format from its extension.
func WriteReport(result *tasks.SyncResult, path string) error {
	data, err := Export(result, FormatForPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// ExportToCSV writes one row per rated local track with columns:
// Outcome, RemoteID, Title, Artist, Album, TrackNumber, Year, OldRating, NewRating, Score, Suggestions
func ExportToCSV(result *tasks.SyncResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Outcome", "RemoteID", "Title", "Artist", "Album", "TrackNumber", "Year", "OldRating", "NewRating", "Score", "Suggestions"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	suggestions := suggestionIndex(result)
	for i, d := range decisions(result) {
		record := []string{
			d.Outcome.String(),
			"",
			d.Local.Title,
			d.Local.Artist,
			d.Local.Album,
			models.FormatOptional(d.Local.TrackNumber),
			models.FormatOptional(d.Local.Year),
			"",
			strconv.Itoa(d.Local.Rating),
			"",
			suggestions[i],
		}
		if d.Remote != nil {
			record[1] = d.Remote.ID
			record[7] = strconv.Itoa(d.PreviousRating)
			record[9] = strconv.Itoa(d.Score)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown renders a summary followed by updated, rejected, unmatched, and invalid sections.
func ExportToMarkdown(result *tasks.SyncResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Rating sync: %s → %s\n\n", result.Source, result.Remote))
	buf.WriteString(fmt.Sprintf("**Run**: %s\n", result.RunID))
	buf.WriteString(fmt.Sprintf("**Policy**: %s\n", result.Config.Policy))
	buf.WriteString(fmt.Sprintf("**Mode**: %s\n", mode(result)))
	writeCounts(&buf, result, "**%s**: %d\n")
	buf.WriteString("\n")

	if batch := result.Batch; batch != nil && !batch.Empty() {
		buf.WriteString("## Updates\n\n")
		buf.WriteString("| # | Artist | Title | Album | Rating | Score |\n")
		buf.WriteString("|---|---|---|---|---|---|\n")
		for i, c := range batch.Changes() {
			buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %d → %d | %d |\n",
				i+1, mdEscape(c.Artist), mdEscape(c.Title), mdEscape(c.Album), c.OldRating, c.NewRating, c.Score))
		}
		buf.WriteString("\n")
	}

	if rejected := filter(result, matching.OutcomeRejected); len(rejected) > 0 {
		buf.WriteString("## Rejected\n\n")
		for i, d := range rejected {
			buf.WriteString(fmt.Sprintf("%d. %s (best: %s, score %d)\n", i+1, d.Local, d.Remote, d.Score))
		}
		buf.WriteString("\n")
	}

	if len(result.Unmatched) > 0 {
		buf.WriteString("## Unmatched\n\n")
		for i, u := range result.Unmatched {
			buf.WriteString(fmt.Sprintf("%d. %s", i+1, u.Decision.Local))
			if s := joinSuggestions(u.Suggestions); s != "" {
				buf.WriteString(fmt.Sprintf(" (did you mean: %s)", s))
			}
			buf.WriteString("\n")
		}
		buf.WriteString("\n")
	}

	if len(result.Invalid) > 0 {
		buf.WriteString("## Invalid records\n\n")
		for _, inv := range result.Invalid {
			buf.WriteString(fmt.Sprintf("- `%s`: %v\n", inv.Origin, inv.Err))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText renders the same content as [ExportToMarkdown] without markup.
func ExportToText(result *tasks.SyncResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Rating sync: %s -> %s (%s, %s)\n", result.Source, result.Remote, result.Config.Policy, mode(result)))
	writeCounts(&buf, result, "%s: %d\n")
	buf.WriteString("\n")

	if batch := result.Batch; batch != nil {
		for i, c := range batch.Changes() {
			buf.WriteString(fmt.Sprintf("%d. %s - %s: %d -> %d\n", i+1, c.Artist, c.Title, c.OldRating, c.NewRating))
		}
	}

	for _, u := range result.Unmatched {
		buf.WriteString(fmt.Sprintf("unmatched: %s", u.Decision.Local))
		if s := joinSuggestions(u.Suggestions); s != "" {
			buf.WriteString(fmt.Sprintf(" [did you mean: %s]", s))
		}
		buf.WriteString("\n")
	}

	for _, inv := range result.Invalid {
		buf.WriteString(fmt.Sprintf("invalid: %s: %v\n", inv.Origin, inv.Err))
	}

	return buf.Bytes(), nil
}

func mode(result *tasks.SyncResult) string {
	switch {
	case result.Config.DryRun:
		return "dry run"
	case result.Applied:
		return "applied"
	default:
		return "not applied"
	}
}

func writeCounts(buf *bytes.Buffer, result *tasks.SyncResult, layout string) {
	updates, unrated := 0, 0
	if result.Batch != nil {
		updates, unrated = result.Batch.Len(), result.Batch.Skipped
	}
	buf.WriteString(fmt.Sprintf(layout, "Local records", result.Local))
	buf.WriteString(fmt.Sprintf(layout, "Remote tracks", result.Remotes))
	buf.WriteString(fmt.Sprintf(layout, "Unrated", unrated))
	buf.WriteString(fmt.Sprintf(layout, "Invalid", len(result.Invalid)))
	buf.WriteString(fmt.Sprintf(layout, "Updates", updates))
	buf.WriteString(fmt.Sprintf(layout, "Unchanged", len(filter(result, matching.OutcomeUnchanged))))
	buf.WriteString(fmt.Sprintf(layout, "Rejected", len(filter(result, matching.OutcomeRejected))))
	buf.WriteString(fmt.Sprintf(layout, "Unmatched", len(result.Unmatched)))
}

func decisions(result *tasks.SyncResult) []matching.Decision {
	if result.Batch == nil {
		return nil
	}
	return result.Batch.Decisions
}

func filter(result *tasks.SyncResult, o matching.Outcome) []matching.Decision {
	var out []matching.Decision
	for _, d := range decisions(result) {
		if d.Outcome == o {
			out = append(out, d)
		}
	}
	return out
}

// suggestionIndex maps decision positions to their rendered suggestions.
func suggestionIndex(result *tasks.SyncResult) map[int]string {
	index := make(map[int]string)
	pending := result.Unmatched
	for i, d := range decisions(result) {
		if len(pending) == 0 {
			break
		}
		if d.Local == pending[0].Decision.Local && d.Outcome == pending[0].Decision.Outcome {
			index[i] = joinSuggestions(pending[0].Suggestions)
			pending = pending[1:]
		}
	}
	return index
}

func joinSuggestions(suggestions []matching.Suggestion) string {
	titles := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		titles = append(titles, fmt.Sprintf("%s (%.2f)", s.Remote.Title, s.Similarity))
	}
	return strings.Join(titles, "; ")
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
