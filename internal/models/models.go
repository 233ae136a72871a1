// package models defines the track records exchanged between the local library, the matcher, and the cloud library
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxRating is the top of the canonical star scale. Zero means unrated.
const MaxRating = 5

// CanonicalTrack is a local track after normalization, independent of where it was read from.
type CanonicalTrack struct {
	Title       string
	Album       string
	Artist      string
	TrackNumber *int // nil when the source has no track number
	Year        *int // nil when the source has no year
	Rating      int  // 0-5, 0 = unrated
}

// Rated reports whether the track carries a rating worth pushing.
func (t CanonicalTrack) Rated() bool { return t.Rating > 0 }

func (t CanonicalTrack) String() string {
	return describe(t.Artist, t.TrackNumber, t.Title, t.Album, t.Rating)
}

// RemoteTrack is a record from the cloud library.
//
// Rating is the only field the sync ever writes.
type RemoteTrack struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Album       string `json:"album"`
	Artist      string `json:"artist"`
	TrackNumber *int   `json:"trackNumber,omitempty"`
	Year        *int   `json:"year,omitempty"`
	Rating      int    `json:"rating"`
}

func (t *RemoteTrack) String() string {
	return describe(t.Artist, t.TrackNumber, t.Title, t.Album, t.Rating)
}

// MatchResult pairs a local track with one remote candidate and the number of agreeing secondary fields.
type MatchResult struct {
	Remote *RemoteTrack
	Score  int // 0-4
}

// Int returns a pointer to n, for populating optional numeric fields.
func Int(n int) *int { return &n }

// FormatOptional renders an optional number, "-" when absent.
func FormatOptional(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

// Stars renders a rating as asterisks.
func Stars(rating int) string {
	if rating <= 0 {
		return ""
	}
	return strings.Repeat("*", min(rating, MaxRating))
}

func describe(artist string, track *int, title, album string, rating int) string {
	number := 0
	if track != nil {
		number = *track
	}
	return fmt.Sprintf("%s - %d - %s on %s (%s)", artist, number, title, album, Stars(rating))
}
