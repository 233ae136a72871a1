package normalize

import (
	"fmt"

	"github.com/desertthunder/starsync/internal/shared"
)

// Error reports a source record that could not be turned into a [models.CanonicalTrack].
//
// errors.Is(err, shared.ErrNormalization) holds for every *Error.
type Error struct {
	Ref   string // row index or file path
	Field string
	Value any
	Err   error
}

func (e *Error) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s: %v", e.Ref, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s %q: %v", e.Ref, e.Field, fmt.Sprint(e.Value), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == shared.ErrNormalization }

var (
	errMissing    = fmt.Errorf("missing required field")
	errNotNumber  = fmt.Errorf("not a number")
	errOutOfRange = fmt.Errorf("out of range")
	errType       = fmt.Errorf("unsupported value type")
)
