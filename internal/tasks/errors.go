package tasks

import (
	"fmt"
	"strings"

	"github.com/desertthunder/starsync/internal/shared"
)

// InvalidPolicy decides what a run does with a local record that fails normalization.
type InvalidPolicy int

const (
	// InvalidSkip logs the record, counts it, and carries on.
	InvalidSkip InvalidPolicy = iota
	// InvalidAbort stops the run before the remote library is touched.
	InvalidAbort
)

func (p InvalidPolicy) String() string {
	switch p {
	case InvalidSkip:
		return "skip"
	case InvalidAbort:
		return "abort"
	default:
		return ""
	}
}

// ParseInvalidPolicy accepts "skip" or "abort".
func ParseInvalidPolicy(name string) (InvalidPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "skip", "":
		return InvalidSkip, nil
	case "abort":
		return InvalidAbort, nil
	default:
		return 0, fmt.Errorf("%w: unknown on_invalid policy %q", shared.ErrInvalidConfig, name)
	}
}

// RemoteUpdateError is returned when the update sink rejects a batch. No track in the batch counts as applied.
type RemoteUpdateError struct {
	Count int
	Err   error
}

func (e *RemoteUpdateError) Error() string {
	return fmt.Sprintf("remote update of %d tracks failed: %v", e.Count, e.Err)
}

func (e *RemoteUpdateError) Unwrap() error { return e.Err }

func (e *RemoteUpdateError) Is(target error) bool { return target == shared.ErrRemoteUpdate }
