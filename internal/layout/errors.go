package layout

import "github.com/pkg/errors"

// Sentinel errors raised by shape and layout operations.
// They are wrapped with operation context, so test them with errors.Is.
var (
	ErrShapeMismatch   = errors.New("shape mismatch")
	ErrIllegalArgument = errors.New("illegal argument")
	ErrOutOfRange      = errors.New("out of range")
)

// panicf panics with sentinel wrapped by a formatted context message.
func panicf(sentinel error, format string, args ...any) {
	panic(wrapf(sentinel, format, args...))
}

func wrapf(sentinel error, format string, args ...any) error {
	return errors.Wrapf(sentinel, format, args...)
}
