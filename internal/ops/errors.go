package ops

import (
	"github.com/born-ml/darray/internal/dtype"
	"github.com/born-ml/darray/internal/layout"
	"github.com/pkg/errors"
)

// ErrUnsupportedDType is raised when a floating point only operation is applied to an
// integral element type. It is an illegal argument error.
var ErrUnsupportedDType = errors.Wrap(layout.ErrIllegalArgument, "unsupported element type")

// CheckFloat panics with ErrUnsupportedDType unless N is a floating point type.
func CheckFloat[N dtype.Num](op string) {
	if d := dtype.Of[N](); !d.IsFloat() {
		panic(errors.Wrapf(ErrUnsupportedDType, "%s: element type %s is not floating point", op, d))
	}
}

func errorf(format string, args ...any) error {
	return errors.Wrapf(layout.ErrIllegalArgument, format, args...)
}
