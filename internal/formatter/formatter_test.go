package formatter

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/starsync/internal/matching"
	"github.com/desertthunder/starsync/internal/models"
	"github.com/desertthunder/starsync/internal/tasks"
	th "github.com/desertthunder/starsync/internal/testing"
)

func sampleResult(t *testing.T) *tasks.SyncResult {
	t.Helper()

	remote := []*models.RemoteTrack{
		{ID: "r1", Title: "Song", Album: "A", Artist: "B", TrackNumber: models.Int(3), Year: models.Int(2000), Rating: 2},
		{ID: "r2", Title: "Twin", Album: "A", Artist: "B", Rating: 1},
		{ID: "r3", Title: "Twin", Album: "A", Artist: "B", TrackNumber: models.Int(7), Rating: 1},
		{ID: "r4", Title: "Missed Song", Album: "A", Artist: "B"},
	}
	local := []models.CanonicalTrack{
		{Title: "Song", Album: "A", Artist: "B", TrackNumber: models.Int(3), Year: models.Int(2000), Rating: 4},
		{Title: "Twin", Album: "A", Artist: "B", TrackNumber: models.Int(7), Rating: 5},
		{Title: "Missed Songs", Album: "A", Artist: "B", Rating: 3},
		{Title: "Pipe | Song", Album: "A", Artist: "B", Rating: 0},
	}

	reject := matching.ConfirmFunc(func(matching.Prompt) (bool, error) { return false, nil })
	batch, err := tasks.Collect(local, remote, matching.NewReconciler(matching.PolicyInteractive, reject, nil))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	unmatched := []tasks.Unmatched{}
	for _, d := range batch.Unmatched() {
		unmatched = append(unmatched, tasks.Unmatched{Decision: d, Suggestions: matching.Suggest(remote, d.Local, 0, 3)})
	}

	return &tasks.SyncResult{
		RunID:     "run-1",
		Source:    "amarok",
		Remote:    "cloud",
		Config:    tasks.RunConfig{Policy: matching.PolicyInteractive},
		Local:     5,
		Remotes:   len(remote),
		Batch:     batch,
		Applied:   true,
		Unmatched: unmatched,
		Invalid:   []tasks.InvalidRecord{{Origin: "row 5", Err: errors.New("title: missing required field")}},
	}
}

func TestExporters(t *testing.T) {
	result := sampleResult(t)

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(result)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		output := string(data)
		lines := strings.Split(strings.TrimSpace(output), "\n")

		if lines[0] != "Outcome,RemoteID,Title,Artist,Album,TrackNumber,Year,OldRating,NewRating,Score,Suggestions" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if len(lines) != 4 {
			t.Fatalf("expected 3 rated rows, got %d: %s", len(lines)-1, output)
		}
		if lines[1] != "update,r1,Song,B,A,3,2000,2,4,4," {
			t.Errorf("unexpected update row: %s", lines[1])
		}
		if !strings.HasPrefix(lines[2], "rejected,r3,Twin") {
			t.Errorf("unexpected rejected row: %s", lines[2])
		}
		if !strings.HasPrefix(lines[3], "no title match,,Missed Songs") || !strings.Contains(lines[3], "Missed Song (") {
			t.Errorf("unexpected unmatched row: %s", lines[3])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(result)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{
			"# Rating sync: amarok → cloud",
			"**Policy**: interactive",
			"**Mode**: applied",
			"**Updates**: 1",
			"**Rejected**: 1",
			"**Unrated**: 1",
			"## Updates",
			"| 1 | B | Song | A | 2 → 4 | 4 |",
			"## Rejected",
			"## Unmatched",
			"did you mean: Missed Song",
			"## Invalid records",
			"- `row 5`: title: missing required field",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(result)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{
			"Rating sync: amarok -> cloud (interactive, applied)",
			"1. B - Song: 2 -> 4",
			"unmatched: B - 0 - Missed Songs on A (***)",
			"invalid: row 5",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("text missing %q\n%s", want, output)
			}
		}
	})

	t.Run("Dry run mode", func(t *testing.T) {
		dry := *result
		dry.Config.DryRun = true
		dry.Applied = false
		data, _ := ExportToText(&dry)
		if !strings.Contains(string(data), "dry run") {
			t.Errorf("expected dry run marker, got %s", data)
		}
	})

	t.Run("Empty result", func(t *testing.T) {
		empty := &tasks.SyncResult{Source: "tags", Remote: "snapshot"}
		for _, f := range []Format{FormatCSV, FormatMarkdown, FormatText} {
			if _, err := Export(empty, f); err != nil {
				t.Errorf("Export(%s) failed: %v", f, err)
			}
		}
	})
}

func TestWriteReport(t *testing.T) {
	result := sampleResult(t)
	dir := t.TempDir()

	tc := []struct {
		name string
		file string
		want string
	}{
		{name: "csv", file: "report.csv", want: "Outcome,RemoteID"},
		{name: "markdown", file: "report.md", want: "# Rating sync"},
		{name: "text", file: "report.txt", want: "Rating sync: amarok -> cloud"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := WriteReport(result, path); err != nil {
				t.Fatalf("WriteReport failed: %v", err)
			}
			th.AssertFileExists(t, path)
			if content := th.MustReadFile(t, path); !strings.HasPrefix(content, tt.want) {
				t.Errorf("expected %s report, got %s", tt.name, content)
			}
		})
	}

	t.Run("unwritable path", func(t *testing.T) {
		if err := WriteReport(result, filepath.Join(dir, "missing", "report.csv")); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := Export(result, Format("xml")); err == nil {
			t.Error("expected error")
		}
	})
}

func TestFormatForPath(t *testing.T) {
	tc := map[string]Format{
		"out.CSV":      FormatCSV,
		"out.md":       FormatMarkdown,
		"out.markdown": FormatMarkdown,
		"out.txt":      FormatText,
		"out":          FormatText,
	}
	for path, want := range tc {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %s, want %s", path, got, want)
		}
	}
}
