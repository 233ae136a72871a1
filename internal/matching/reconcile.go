package matching

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/starsync/internal/models"
	"github.com/desertthunder/starsync/internal/shared"
)

// Policy decides how an ambiguous match (two or more candidates) is resolved.
type Policy int

const (
	// PolicyInteractive asks the [Confirmer] before accepting the best candidate.
	PolicyInteractive Policy = iota
	// PolicyAutomatic accepts the best candidate without asking.
	PolicyAutomatic
)

func (p Policy) String() string {
	switch p {
	case PolicyInteractive:
		return "interactive"
	case PolicyAutomatic:
		return "automatic"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy accepts "interactive" or "automatic" (case-insensitive).
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "interactive", "":
		return PolicyInteractive, nil
	case "automatic", "auto":
		return PolicyAutomatic, nil
	default:
		return 0, fmt.Errorf("%w: unknown policy %q", shared.ErrInvalidConfig, name)
	}
}

// Outcome classifies a single reconciliation.
type Outcome int

const (
	OutcomeNoTitle     Outcome = iota // no remote track has the local title
	OutcomeNoCandidate                // titles matched but every score was below MinScore
	OutcomeUnchanged                  // chosen candidate already has the local rating
	OutcomeRejected                   // operator declined the best candidate
	OutcomeUpdate                     // chosen candidate's rating was overwritten
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoTitle:
		return "no title match"
	case OutcomeNoCandidate:
		return "no candidate"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeRejected:
		return "rejected"
	case OutcomeUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// Prompt is what a [Confirmer] is shown for an ambiguous match.
type Prompt struct {
	Local      models.CanonicalTrack
	Best       models.MatchResult
	Candidates []models.MatchResult
}

// Confirmer answers accept/reject for an ambiguous match. It may block on operator input.
type Confirmer interface {
	Confirm(p Prompt) (bool, error)
}

// ConfirmFunc adapts a plain function to [Confirmer].
type ConfirmFunc func(p Prompt) (bool, error)

func (f ConfirmFunc) Confirm(p Prompt) (bool, error) { return f(p) }

// Decision is the detailed result of reconciling one local track.
type Decision struct {
	Local          models.CanonicalTrack
	Outcome        Outcome
	Remote         *models.RemoteTrack // chosen candidate, nil for NoTitle and NoCandidate
	Score          int
	PreviousRating int
	Candidates     []models.MatchResult
	Ambiguous      bool
}

// Updated reports whether Remote now carries the local rating and belongs in the batch.
func (d Decision) Updated() bool { return d.Outcome == OutcomeUpdate }

// Reconciler turns a local track and the remote library into at most one mutated remote track.
type Reconciler struct {
	policy  Policy
	confirm Confirmer
	logger  *log.Logger
}

// NewReconciler builds a reconciler. confirm is only consulted under [PolicyInteractive] and may be nil otherwise.
func NewReconciler(policy Policy, confirm Confirmer, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Reconciler{policy: policy, confirm: confirm, logger: logger}
}

// Policy returns the configured ambiguity policy.
func (r *Reconciler) Policy() Policy { return r.policy }

// Reconcile returns the remote track whose rating was updated to local.Rating, or nil when nothing should change.
func (r *Reconciler) Reconcile(remote []*models.RemoteTrack, local models.CanonicalTrack) (*models.RemoteTrack, error) {
	d, err := r.Decide(remote, local)
	if err != nil || !d.Updated() {
		return nil, err
	}
	return d.Remote, nil
}

// Decide runs the reconciliation and returns the full decision.
//
// The only side effect is setting Rating on the chosen remote track when the outcome is [OutcomeUpdate].
func (r *Reconciler) Decide(remote []*models.RemoteTrack, local models.CanonicalTrack) (Decision, error) {
	d := Decision{Local: local}

	titled, candidates := Candidates(remote, local)
	d.Candidates = candidates
	if titled == 0 {
		d.Outcome = OutcomeNoTitle
		return d, nil
	}

	best, ok := Best(candidates)
	if !ok {
		d.Outcome = OutcomeNoCandidate
		return d, nil
	}

	d.Remote = best.Remote
	d.Score = best.Score
	d.PreviousRating = best.Remote.Rating
	d.Ambiguous = len(candidates) > 1

	if best.Remote.Rating == local.Rating {
		d.Outcome = OutcomeUnchanged
		return d, nil
	}

	if d.Ambiguous && r.policy == PolicyInteractive {
		if r.confirm == nil {
			return d, fmt.Errorf("%w: interactive policy requires a confirmer", shared.ErrInvalidConfig)
		}
		accepted, err := r.confirm.Confirm(Prompt{Local: local, Best: best, Candidates: candidates})
		if err != nil {
			return d, err
		}
		if !accepted {
			r.logger.Debug("best match rejected", "track", local.Title, "remote", best.Remote.ID)
			d.Outcome = OutcomeRejected
			return d, nil
		}
	}

	best.Remote.Rating = local.Rating
	d.Outcome = OutcomeUpdate
	r.logger.Debug("rating updated",
		"track", local.Title,
		"remote", best.Remote.ID,
		"from", d.PreviousRating,
		"to", local.Rating,
		"score", best.Score,
		"candidates", len(candidates),
	)
	return d, nil
}
