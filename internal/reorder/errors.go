package reorder

import (
	"errors"
	"fmt"
)

// ErrRecognizerUnavailable is returned by recognizers whose engine is not
// installed in the running environment.
var ErrRecognizerUnavailable = errors.New("text recognizer unavailable")

// InputError reports operator-supplied data that cannot be applied:
// page references out of range or malformed correction/move entries.
type InputError struct {
	Source string // "overrides", "moves"
	Key    string
	Reason string
}

func (e *InputError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid %s: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("invalid %s entry %q: %s", e.Source, e.Key, e.Reason)
}

// InvariantError reports a broken internal-consistency guarantee.
type InvariantError struct {
	Op     string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("internal consistency error in %s: %s", e.Op, e.Reason)
}

// IsInputError reports whether err wraps an *InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// IsInvariantError reports whether err wraps an *InvariantError.
func IsInvariantError(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
