package knuth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAtom is wrapped by every [*InvalidAtomError].
	ErrInvalidAtom = errors.New("invalid atom")

	// ErrInvalidConfig is returned by [Config.Validate].
	ErrInvalidConfig = errors.New("invalid breaking configuration")
)

// InvalidAtomError reports a malformed element found while building a
// [Sequence]. It matches [ErrInvalidAtom] with errors.Is.
type InvalidAtomError struct {
	Index   int
	Element Element
	Reason  string
}

func (e *InvalidAtomError) Error() string {
	return fmt.Sprintf("element %d %s: %s", e.Index, e.Element, e.Reason)
}

func (e *InvalidAtomError) Unwrap() error {
	return ErrInvalidAtom
}

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
