package serialization

import (
	"cmp"
	"slices"
	"strings"

	"github.com/born-ml/darray/internal/layout"
	"github.com/pkg/errors"
)

// Validation limits for security and resource protection.
const (
	MaxHeaderSize = 100 * 1024 * 1024 // 100MB - maximum header size
	MaxArrayCount = 100_000           // Maximum number of arrays in a file
	MaxNameLen    = 4096              // Maximum array name length
)

// ValidateName rejects names that are empty, too long, reserved, or contain path
// separators, ".." or null bytes.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.Wrap(ErrInvalidName, "empty name")
	case len(name) > MaxNameLen:
		return errors.Wrapf(ErrInvalidName, "length %d > max %d", len(name), MaxNameLen)
	case name == metadataKey:
		return errors.Wrapf(ErrInvalidName, "%q is reserved", name)
	case strings.Contains(name, ".."):
		return errors.Wrapf(ErrInvalidName, "%q contains '..'", name)
	case strings.ContainsAny(name, "/\\"):
		return errors.Wrapf(ErrInvalidName, "%q contains a path separator", name)
	case strings.Contains(name, "\x00"):
		return errors.Wrapf(ErrInvalidName, "%q contains a null byte", name)
	}
	return nil
}

// validateHeader checks every entry of a decoded header against a data section of
// dataSize bytes: known dtype, non negative dims, byte range consistent with the shape,
// in bounds and not overlapping another array.
func validateHeader(h *header, dataSize int64) error {
	if len(h.Arrays) > MaxArrayCount {
		return errors.Wrapf(ErrTooManyArrays, "got %d, max %d", len(h.Arrays), MaxArrayCount)
	}
	names := h.names()
	for _, name := range names {
		if err := ValidateName(name); err != nil {
			return err
		}
		info := h.Arrays[name]
		if info.DType.Size() == 0 {
			return errors.Wrapf(ErrUnsupportedDType, "%q has dtype %q", name, info.DType)
		}
		for _, d := range info.Shape {
			if d < 0 {
				return errors.Wrapf(ErrMalformedHeader, "%q has negative dimension in %v", name, info.Shape)
			}
		}
		bytes, ok := layout.CheckedSize(append(slices.Clone(info.Shape), info.DType.Size())...)
		if !ok {
			return errors.Wrapf(ErrMalformedHeader, "%q has shape %v whose byte size overflows", name, info.Shape)
		}
		start, end := info.DataOffsets[0], info.DataOffsets[1]
		if start < 0 || end < start {
			return errors.Wrapf(ErrOutOfBounds, "%q has range [%d,%d)", name, start, end)
		}
		if end > dataSize {
			return errors.Wrapf(ErrOutOfBounds, "%q ends at %d > data size %d", name, end, dataSize)
		}
		if want := int64(bytes); end-start != want {
			return errors.Wrapf(ErrSizeMismatch, "%q has %d bytes, shape %v needs %d", name, end-start, info.Shape, want)
		}
	}

	slices.SortFunc(names, func(a, b string) int {
		return cmp.Compare(h.Arrays[a].DataOffsets[0], h.Arrays[b].DataOffsets[0])
	})
	for i := 1; i < len(names); i++ {
		prev, next := h.Arrays[names[i-1]], h.Arrays[names[i]]
		if prev.DataOffsets[1] > next.DataOffsets[0] {
			return errors.Wrapf(ErrOffsetOverlap, "%q [%d,%d) and %q [%d,%d)",
				names[i-1], prev.DataOffsets[0], prev.DataOffsets[1],
				names[i], next.DataOffsets[0], next.DataOffsets[1])
		}
	}
	return nil
}
