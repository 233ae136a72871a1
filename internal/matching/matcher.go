package matching

import (
	"strings"

	"github.com/desertthunder/starsync/internal/models"
)

// MinScore is the lowest score a title-matching remote track needs to stay a candidate.
const MinScore = 2

// MaxScore is the score of a remote track that agrees on every secondary field.
const MaxScore = 4

// Score counts how many of album, artist, track number, and year agree between local and remote.
//
// Album and artist compare case-insensitively. Track number and year compare exactly and an absent value never agrees.
func Score(local models.CanonicalTrack, remote *models.RemoteTrack) int {
	score := 0
	if strings.EqualFold(local.Album, remote.Album) {
		score++
	}
	if strings.EqualFold(local.Artist, remote.Artist) {
		score++
	}
	if sameNumber(local.TrackNumber, remote.TrackNumber) {
		score++
	}
	if sameNumber(local.Year, remote.Year) {
		score++
	}
	return score
}

func sameNumber(a, b *int) bool {
	return a != nil && b != nil && *a == *b
}

// SameTitle is the hard prefilter applied before scoring.
func SameTitle(local models.CanonicalTrack, remote *models.RemoteTrack) bool {
	return strings.EqualFold(local.Title, remote.Title)
}

// Candidates returns the remote tracks that share the local title and score at least [MinScore], in library order.
func Candidates(remote []*models.RemoteTrack, local models.CanonicalTrack) (titled int, candidates []models.MatchResult) {
	for _, r := range remote {
		if r == nil || !SameTitle(local, r) {
			continue
		}
		titled++
		if s := Score(local, r); s >= MinScore {
			candidates = append(candidates, models.MatchResult{Remote: r, Score: s})
		}
	}
	return titled, candidates
}

// Best is a stable max: the first candidate with the highest score wins.
func Best(candidates []models.MatchResult) (models.MatchResult, bool) {
	if len(candidates) == 0 {
		return models.MatchResult{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best, true
}
