package models

import "time"

// RunStatus is the terminal state of a sync run.
type RunStatus string

const (
	RunRunning RunStatus = "running"
	RunApplied RunStatus = "applied"
	RunEmpty   RunStatus = "empty"
	RunFailed  RunStatus = "failed"
)

// SyncRun is an audit record of one non-dry sync run.
//
// Runs are written after the fact and never read back by the matcher.
type SyncRun struct {
	ID           string
	Source       string
	Policy       string
	LocalCount   int
	SkippedCount int
	InvalidCount int
	UpdateCount  int
	Status       RunStatus
	Error        string
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// RatingChange records one remote rating overwritten by a run.
type RatingChange struct {
	RemoteID  string
	Title     string
	Artist    string
	Album     string
	OldRating int
	NewRating int
	Score     int
}

// Duration is how long a finished run took; zero when it has no finish time.
func (r *SyncRun) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
