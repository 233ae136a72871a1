package tasks

import (
	"fmt"

	"github.com/desertthunder/starsync/internal/matching"
)

// ProgressUpdate represents a progress event during a sync run.
//
// Used to send real-time updates to the CLI for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	LoadLocal Phase = iota
	LoadRemote
	Reconcile
	PushUpdates
)

func (p Phase) String() string {
	switch p {
	case LoadLocal:
		return "load_local"
	case LoadRemote:
		return "load_remote"
	case Reconcile:
		return "reconcile"
	case PushUpdates:
		return "push_updates"
	default:
		return ""
	}
}

func loadLocalUpdate(step, total int, source string) ProgressUpdate {
	if total == 0 {
		return ProgressUpdate{Phase: LoadLocal, Message: fmt.Sprintf("Reading local library (%s)...", source)}
	}
	return ProgressUpdate{
		Phase:   LoadLocal,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Normalizing %s records...", step, total, source),
	}
}

func loadRemoteUpdate(step, total int, name string) ProgressUpdate {
	msg := fmt.Sprintf("Loading remote library (%s)...", name)
	if total > 0 && step == total {
		msg = fmt.Sprintf("Loaded remote library (%s)", name)
	}
	return ProgressUpdate{Phase: LoadRemote, Step: step, Total: total, Message: msg}
}

func reconcileUpdate(step, total int, d matching.Decision) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Reconcile,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s: %s", step, total, d.Local.Artist, d.Local.Title, d.Outcome),
		Data:    d,
	}
}

func pushUpdatesUpdate(step, total, tracks int) ProgressUpdate {
	msg := fmt.Sprintf("Pushing %d rating updates...", tracks)
	if step == total {
		msg = fmt.Sprintf("✓ %d ratings updated", tracks)
	}
	return ProgressUpdate{Phase: PushUpdates, Step: step, Total: total, Message: msg}
}
