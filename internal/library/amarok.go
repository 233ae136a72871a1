package library

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/starsync/internal/normalize"
	"github.com/desertthunder/starsync/internal/shared"
)

// Column order must match [normalize.RowRecord].
const amarokQuery = `
SELECT tracks.title,
       tracks.tracknumber,
       albums.name,
       artists.name,
       tracks.year,
       statistics.rating
FROM tracks
JOIN statistics ON tracks.url = statistics.url
JOIN artists ON tracks.artist = artists.id
JOIN albums ON tracks.album = albums.id
ORDER BY tracks.id`

// AmarokSource reads rated tracks from an Amarok collection database.
type AmarokSource struct {
	db *sql.DB
}

// NewAmarokSource wraps an open collection database.
func NewAmarokSource(db *sql.DB) *AmarokSource {
	return &AmarokSource{db: db}
}

// OpenAmarok opens the collection database at path read-only.
func OpenAmarok(path string) (*AmarokSource, error) {
	db, err := shared.OpenReadOnly(path)
	if err != nil {
		return nil, fmt.Errorf("%w: amarok database %s: %v", shared.ErrSourceRead, path, err)
	}
	return NewAmarokSource(db), nil
}

func (s *AmarokSource) Name() string {
	return "amarok"
}

// Records returns one [normalize.RowRecord] per joined row, in track id order.
func (s *AmarokSource) Records(ctx context.Context) ([]normalize.Record, error) {
	rows, err := s.db.QueryContext(ctx, amarokQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query amarok tracks: %v", shared.ErrSourceRead, err)
	}
	defer rows.Close()

	var records []normalize.Record
	for rows.Next() {
		columns := make([]any, normalize.ColRating+1)
		dest := make([]any, len(columns))
		for i := range columns {
			dest[i] = &columns[i]
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: failed to scan amarok row: %v", shared.ErrSourceRead, err)
		}

		records = append(records, normalize.RowRecord{
			Ref:     fmt.Sprintf("row %d", len(records)+1),
			Columns: columns,
			Scale:   normalize.ScaleTen,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSourceRead, err)
	}
	return records, nil
}

// Close releases the database handle.
func (s *AmarokSource) Close() error {
	return s.db.Close()
}
