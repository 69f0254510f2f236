package calculator

import (
	"errors"
	"fmt"
)

var (
	ErrNoParticipants  = errors.New("must have at least one participant")
	ErrDuplicateMember = errors.New("member listed more than once")
	ErrSplitMismatch   = errors.New("split members must match participants")
	ErrPercentageRange = errors.New("percentage must be between 0 and 100")
	ErrPercentageSum   = errors.New("percentages must sum to 100")
)

// ValidationError reports a split set the caller must correct.
// Err is always one of the sentinel errors above.
type ValidationError struct {
	Err    error
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Detail)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error, format string, args ...any) error {
	return &ValidationError{Err: err, Detail: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err came from split validation.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
