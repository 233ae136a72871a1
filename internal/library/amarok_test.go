package library

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/desertthunder/starsync/internal/normalize"
	"github.com/desertthunder/starsync/internal/shared"
)

const amarokSchema = `
CREATE TABLE artists (id INTEGER PRIMARY KEY, name TEXT);
CREATE TABLE albums (id INTEGER PRIMARY KEY, name TEXT);
CREATE TABLE tracks (
	id INTEGER PRIMARY KEY,
	url INTEGER,
	title TEXT,
	tracknumber INTEGER,
	album INTEGER,
	artist INTEGER,
	year INTEGER
);
CREATE TABLE statistics (url INTEGER, rating INTEGER);

INSERT INTO artists VALUES (1, 'B'), (2, 'Other');
INSERT INTO albums VALUES (1, 'A');
INSERT INTO tracks VALUES
	(1, 10, 'Song', 3, 1, 1, 2000),
	(2, 11, 'Untracked', NULL, 1, 2, NULL),
	(3, 12, 'No Stats', 1, 1, 1, 2000);
INSERT INTO statistics VALUES (10, 8), (11, 0);
`

func setupAmarok(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(amarokSchema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return db
}

func TestAmarokSource(t *testing.T) {
	t.Run("Records", func(t *testing.T) {
		src := NewAmarokSource(setupAmarok(t))
		if src.Name() != "amarok" {
			t.Errorf("unexpected name %s", src.Name())
		}

		records, err := src.Records(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 joined rows, got %d", len(records))
		}

		track, err := records[0].Normalize()
		if err != nil {
			t.Fatalf("expected first row to normalize, got %v", err)
		}
		if track.Title != "Song" || track.Album != "A" || track.Artist != "B" {
			t.Errorf("unexpected track %+v", track)
		}
		if track.TrackNumber == nil || *track.TrackNumber != 3 || track.Year == nil || *track.Year != 2000 {
			t.Errorf("unexpected numbers %v/%v", track.TrackNumber, track.Year)
		}
		if track.Rating != 4 {
			t.Errorf("expected rating 8/10 to become 4, got %d", track.Rating)
		}
		if records[0].Origin() != "row 1" {
			t.Errorf("unexpected origin %s", records[0].Origin())
		}

		second, err := records[1].Normalize()
		if err != nil {
			t.Fatalf("expected second row to normalize, got %v", err)
		}
		if second.TrackNumber != nil || second.Year != nil || second.Rated() {
			t.Errorf("expected nulls to stay absent, got %+v", second)
		}
	})

	t.Run("Records use ten point scale", func(t *testing.T) {
		records, _ := NewAmarokSource(setupAmarok(t)).Records(context.Background())
		row, ok := records[0].(normalize.RowRecord)
		if !ok {
			t.Fatalf("expected RowRecord, got %T", records[0])
		}
		if row.Scale != normalize.ScaleTen {
			t.Errorf("expected ScaleTen, got %v", row.Scale)
		}
	})

	t.Run("Missing tables", func(t *testing.T) {
		db, err := shared.NewDatabase(":memory:")
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()

		_, err = NewAmarokSource(db).Records(context.Background())
		if !errors.Is(err, shared.ErrSourceRead) {
			t.Errorf("expected ErrSourceRead, got %v", err)
		}
	})

	t.Run("Open missing file", func(t *testing.T) {
		_, err := OpenAmarok(filepath.Join(t.TempDir(), "missing.db"))
		if !errors.Is(err, shared.ErrSourceRead) {
			t.Errorf("expected ErrSourceRead, got %v", err)
		}
	})
}
