package serialization

import "github.com/pkg/errors"

// Common errors.
var (
	ErrChecksumMismatch  = errors.New("checksum mismatch: file may be corrupted")
	ErrOffsetOverlap     = errors.New("array offsets overlap")
	ErrOutOfBounds       = errors.New("array extends beyond data section")
	ErrSizeMismatch      = errors.New("array byte range does not match its shape")
	ErrTooManyArrays     = errors.New("too many arrays in file")
	ErrInvalidName       = errors.New("invalid array name")
	ErrHeaderTooLarge    = errors.New("header exceeds maximum size")
	ErrUnsupportedDType  = errors.New("unsupported dtype")
	ErrDTypeMismatch     = errors.New("stored dtype does not match requested element type")
	ErrNotFound          = errors.New("array not found")
	ErrDuplicateName     = errors.New("array name already used")
	ErrMalformedHeader   = errors.New("malformed header")
	ErrChecksumMalformed = errors.New("malformed checksum")
)
