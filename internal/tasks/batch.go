package tasks

import (
	"slices"

	"github.com/desertthunder/starsync/internal/matching"
	"github.com/desertthunder/starsync/internal/models"
)

// Batch is every remote mutation computed in one pass, submitted together.
type Batch struct {
	// Tracks holds each updated remote track once, in the order it was first selected.
	Tracks []*models.RemoteTrack
	// Decisions holds one entry per rated local track, in local order.
	Decisions []matching.Decision
	// Skipped counts unrated local tracks that were never reconciled.
	Skipped int

	previous map[*models.RemoteTrack]int
	changes  map[*models.RemoteTrack]int
}

// Len returns the number of remote tracks in the batch.
func (b *Batch) Len() int { return len(b.Tracks) }

// Empty reports whether there is nothing to push.
func (b *Batch) Empty() bool { return len(b.Tracks) == 0 }

// Changes describes each batched track with its rating before the run and the rating it will be given.
func (b *Batch) Changes() []models.RatingChange {
	changes := make([]models.RatingChange, 0, len(b.Tracks))
	for _, t := range b.Tracks {
		changes = append(changes, models.RatingChange{
			RemoteID:  t.ID,
			Title:     t.Title,
			Artist:    t.Artist,
			Album:     t.Album,
			OldRating: b.previous[t],
			NewRating: t.Rating,
			Score:     b.changes[t],
		})
	}
	return changes
}

// Unmatched returns the decisions that found no remote track at all.
func (b *Batch) Unmatched() []matching.Decision {
	var out []matching.Decision
	for _, d := range b.Decisions {
		if d.Outcome == matching.OutcomeNoTitle || d.Outcome == matching.OutcomeNoCandidate {
			out = append(out, d)
		}
	}
	return out
}

// Count returns how many decisions ended with outcome o.
func (b *Batch) Count(o matching.Outcome) int {
	n := 0
	for _, d := range b.Decisions {
		if d.Outcome == o {
			n++
		}
	}
	return n
}

func (b *Batch) add(d matching.Decision) {
	b.Decisions = append(b.Decisions, d)
	if !d.Updated() {
		return
	}
	if _, seen := b.previous[d.Remote]; seen {
		b.changes[d.Remote] = d.Score
		return
	}
	b.previous[d.Remote] = d.PreviousRating
	b.changes[d.Remote] = d.Score
	b.Tracks = append(b.Tracks, d.Remote)
}

// settle drops tracks whose final rating is back where the run found it.
func (b *Batch) settle() {
	b.Tracks = slices.DeleteFunc(b.Tracks, func(t *models.RemoteTrack) bool {
		if t.Rating != b.previous[t] {
			return false
		}
		delete(b.previous, t)
		delete(b.changes, t)
		return true
	})
}

func newBatch() *Batch {
	return &Batch{
		previous: make(map[*models.RemoteTrack]int),
		changes:  make(map[*models.RemoteTrack]int),
	}
}

// Collect reconciles every rated local track against remote and gathers the updated remote tracks.
//
// Unrated local tracks are skipped so they can never overwrite a remote rating. A remote track chosen by
// several local tracks appears once, carrying the rating of the last one accepted; if that rating equals
// the one it had before the pass, it is left out.
// An error from the reconciler (a failed confirmation) stops the pass; the returned batch is then nil.
func Collect(local []models.CanonicalTrack, remote []*models.RemoteTrack, r *matching.Reconciler) (*Batch, error) {
	return collect(local, remote, r, nil)
}

func collect(local []models.CanonicalTrack, remote []*models.RemoteTrack, r *matching.Reconciler, each func(i int, d matching.Decision)) (*Batch, error) {
	batch := newBatch()
	for i, track := range local {
		if !track.Rated() {
			batch.Skipped++
			continue
		}

		d, err := r.Decide(remote, track)
		if err != nil {
			return nil, err
		}
		batch.add(d)
		if each != nil {
			each(i, d)
		}
	}
	batch.settle()
	return batch, nil
}
