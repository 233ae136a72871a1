package normalize

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/desertthunder/starsync/internal/models"
	"golang.org/x/text/unicode/norm"
)

// Record is a raw local library entry that knows how to normalize itself.
type Record interface {
	// Origin identifies the record in logs (row number, file path).
	Origin() string
	Normalize() (models.CanonicalTrack, error)
}

// Row column order, fixed by the library query.
const (
	ColTitle = iota
	ColTrackNumber
	ColAlbum
	ColArtist
	ColYear
	ColRating
	rowWidth
)

// RowRecord is a database row: title, trackNumber, album, artist, year, rawRating.
//
// Columns hold whatever the driver scanned into an any (int64, float64, string, []byte, nil).
type RowRecord struct {
	Ref     string
	Columns []any
	Scale   Scale
}

func (r RowRecord) Origin() string { return r.Ref }

// Normalize implements [Record].
func (r RowRecord) Normalize() (models.CanonicalTrack, error) {
	if len(r.Columns) != rowWidth {
		return models.CanonicalTrack{}, &Error{Ref: r.Ref, Field: "row", Err: fmt.Errorf("expected %d columns, got %d", rowWidth, len(r.Columns))}
	}

	b := builder{ref: r.Ref}
	track := models.CanonicalTrack{
		Title:       b.text("title", r.Columns[ColTitle]),
		Album:       b.text("album", r.Columns[ColAlbum]),
		Artist:      b.text("artist", r.Columns[ColArtist]),
		TrackNumber: b.number("tracknumber", r.Columns[ColTrackNumber], "/"),
		Year:        b.number("year", r.Columns[ColYear], "-"),
		Rating:      b.rating(r.Columns[ColRating], r.Scale),
	}
	return track, b.err
}

// TagRecord is a tag dictionary read from an audio file. Keys are matched case-insensitively;
// a key present in several spellings takes the first non-empty one in byte order ("TITLE" before "title").
// FMPS_RATING is read before RATING, which other players write on their own scales.
type TagRecord struct {
	Path  string
	Tags  map[string][]string
	Scale Scale
}

func (r TagRecord) Origin() string { return r.Path }

// Normalize implements [Record].
func (r TagRecord) Normalize() (models.CanonicalTrack, error) {
	tags := make(map[string]string, len(r.Tags))
	for _, name := range slices.Sorted(maps.Keys(r.Tags)) {
		values := r.Tags[name]
		key := strings.ToLower(name)
		if _, seen := tags[key]; seen {
			continue
		}
		for _, v := range values {
			if strings.TrimSpace(v) != "" {
				tags[key] = v
				break
			}
		}
	}

	first := func(keys ...string) any {
		for _, k := range keys {
			if v, ok := tags[k]; ok {
				return v
			}
		}
		return nil
	}

	b := builder{ref: r.Path}
	track := models.CanonicalTrack{
		Title:       b.text("title", first("title")),
		Album:       b.text("album", first("album")),
		Artist:      b.text("artist", first("artist")),
		TrackNumber: b.number("tracknumber", first("tracknumber", "track"), "/"),
		Year:        b.number("year", first("year", "date"), "-"),
		Rating:      b.rating(first("fmps_rating", "rating"), r.Scale),
	}
	return track, b.err
}

// Text applies the text normalization used on both sides of a comparison.
func Text(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// builder keeps the first field error so a record reports one problem at a time.
type builder struct {
	ref string
	err error
}

func (b *builder) fail(field string, value any, err error) {
	if b.err == nil {
		b.err = &Error{Ref: b.ref, Field: field, Value: value, Err: err}
	}
}

func (b *builder) text(field string, v any) string {
	var s string
	switch val := v.(type) {
	case nil:
	case string:
		s = val
	case []byte:
		s = string(val)
	case int64, float64:
		s = fmt.Sprint(val)
	default:
		b.fail(field, v, errType)
		return ""
	}

	s = Text(s)
	if s == "" {
		b.fail(field, nil, errMissing)
	}
	return s
}

// number parses an optional integer. Strings keep the part before sep ("3/12" -> 3, "2000-05-01" -> 2000).
func (b *builder) number(field string, v any, sep string) *int {
	switch val := v.(type) {
	case nil:
		return nil
	case int64:
		return b.nonNegative(field, v, int(val))
	case float64:
		if val != float64(int(val)) {
			b.fail(field, v, errNotNumber)
			return nil
		}
		return b.nonNegative(field, v, int(val))
	case []byte:
		return b.number(field, string(val), sep)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil
		}
		head, _, _ := strings.Cut(s, sep)
		n, err := strconv.Atoi(strings.TrimSpace(head))
		if err != nil {
			b.fail(field, v, errNotNumber)
			return nil
		}
		return b.nonNegative(field, v, n)
	default:
		b.fail(field, v, errType)
		return nil
	}
}

func (b *builder) nonNegative(field string, raw any, n int) *int {
	if n < 0 {
		b.fail(field, raw, errOutOfRange)
		return nil
	}
	return &n
}

// rating converts a raw rating; a missing rating is 0 (unrated).
func (b *builder) rating(v any, scale Scale) int {
	var raw float64
	switch val := v.(type) {
	case nil:
		return 0
	case int64:
		raw = float64(val)
	case float64:
		raw = val
	case []byte:
		return b.rating(string(val), scale)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			b.fail("rating", v, errNotNumber)
			return 0
		}
		raw = f
	default:
		b.fail("rating", v, errType)
		return 0
	}

	stars, err := scale.Convert(raw)
	if err != nil {
		b.fail("rating", v, err)
		return 0
	}
	return stars
}
