package darray

import (
	"github.com/born-ml/darray/internal/layout"
	"github.com/born-ml/darray/internal/ops"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Sentinel errors. Array operations panic with an error wrapping one of these; use Try to
// turn the panic into an error and errors.Is to classify it.
var (
	ErrShapeMismatch    = layout.ErrShapeMismatch
	ErrIllegalArgument  = layout.ErrIllegalArgument
	ErrOutOfRange       = layout.ErrOutOfRange
	ErrUnsupportedDType = ops.ErrUnsupportedDType
	ErrNotImplemented   = errors.New("not implemented")
)

// Try runs fn and returns the error it panicked with, or nil.
// Panics with values that are not errors are propagated.
func Try(fn func()) error {
	return exceptions.TryCatch[error](fn)
}

func panicf(sentinel error, format string, args ...any) {
	panic(errors.Wrapf(sentinel, format, args...))
}
