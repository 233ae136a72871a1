package matching

import (
	"slices"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/desertthunder/starsync/internal/models"
)

// DefaultSuggestThreshold is the Jaro-Winkler similarity a remote title needs to be suggested.
const DefaultSuggestThreshold = 0.85

// Suggestion is a remote track whose title nearly matches an unmatched local track.
type Suggestion struct {
	Remote     *models.RemoteTrack
	Similarity float64
	Score      int
}

// Suggest lists near-miss titles for a local track that failed the title prefilter.
//
// Suggestions are informational only and never feed back into [Reconciler.Decide].
// Results are ordered by similarity, then match score, then library order, and capped at limit (no cap when limit <= 0).
func Suggest(remote []*models.RemoteTrack, local models.CanonicalTrack, threshold float64, limit int) []Suggestion {
	if threshold <= 0 {
		threshold = DefaultSuggestThreshold
	}

	jw := metrics.NewJaroWinkler()
	jw.CaseSensitive = false

	query := strings.TrimSpace(local.Title)
	var out []Suggestion
	for _, r := range remote {
		if r == nil || SameTitle(local, r) {
			continue
		}
		sim := strutil.Similarity(query, strings.TrimSpace(r.Title), jw)
		if sim < threshold {
			continue
		}
		out = append(out, Suggestion{Remote: r, Similarity: sim, Score: Score(local, r)})
	}

	slices.SortStableFunc(out, func(a, b Suggestion) int {
		switch {
		case a.Similarity > b.Similarity:
			return -1
		case a.Similarity < b.Similarity:
			return 1
		default:
			return b.Score - a.Score
		}
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
