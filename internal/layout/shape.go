package layout

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Shape represents the dimensions of an array.
// It is immutable: accessors return copies of the internal dimensions.
type Shape struct {
	dims []int
}

// ShapeOf creates a shape from dimension sizes.
// A shape without dimensions describes a scalar.
// Panics if any dimension is negative or the element count overflows int.
func ShapeOf(dims ...int) Shape {
	for i, d := range dims {
		if d < 0 {
			panicf(ErrIllegalArgument, "shape: invalid dimension at index %d: %d (must be >= 0)", i, d)
		}
	}
	if _, ok := CheckedSize(dims...); !ok {
		panicf(ErrIllegalArgument, "shape: element count of %v overflows int", dims)
	}
	return Shape{dims: append([]int(nil), dims...)}
}

// CheckedSize returns the product of non negative dims, and false when it overflows int.
// Any zero dimension yields zero.
func CheckedSize(dims ...int) (int, bool) {
	if slices.Contains(dims, 0) {
		return 0, true
	}
	n := 1
	for _, d := range dims {
		if d > math.MaxInt/n {
			return 0, false
		}
		n *= d
	}
	return n, true
}

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s.dims)
}

// Dim returns the size of the given axis.
func (s Shape) Dim(axis int) int {
	if axis < 0 || axis >= len(s.dims) {
		panicf(ErrOutOfRange, "shape: axis %d out of range for shape %v", axis, s)
	}
	return s.dims[axis]
}

// Dims returns a copy of the dimension sizes.
func (s Shape) Dims() []int {
	return append([]int(nil), s.dims...)
}

// Size returns the total number of elements.
// A scalar has one element; any zero dimension yields zero.
func (s Shape) Size() int {
	n := 1
	for _, d := range s.dims {
		n *= d
	}
	return n
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s.dims) != len(other.dims) {
		return false
	}
	for i := range s.dims {
		if s.dims[i] != other.dims[i] {
			return false
		}
	}
	return true
}

// String returns the shape formatted as [d0,d1,...].
func (s Shape) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, d := range s.dims {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(d))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Strides calculates dense strides for the shape in the given order.
// S and A resolve to the default order.
func (s Shape) Strides(order Order) []int {
	strides := make([]int, len(s.dims))
	if len(s.dims) == 0 {
		return strides
	}
	acc := 1
	if AutoFC(order) == F {
		for i := 0; i < len(s.dims); i++ {
			strides[i] = acc
			acc *= max(s.dims[i], 1)
		}
		return strides
	}
	for i := len(s.dims) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= max(s.dims[i], 1)
	}
	return strides
}

// Index converts a linear position under the given traversal order into a multi-index.
func (s Shape) Index(order Order, pos int) []int {
	size := s.Size()
	if pos < 0 || pos >= size {
		panicf(ErrOutOfRange, "shape: position %d out of range for shape %v", pos, s)
	}
	idx := make([]int, len(s.dims))
	if AutoFC(order) == F {
		for i := 0; i < len(s.dims); i++ {
			idx[i] = pos % s.dims[i]
			pos /= s.dims[i]
		}
		return idx
	}
	for i := len(s.dims) - 1; i >= 0; i-- {
		idx[i] = pos % s.dims[i]
		pos /= s.dims[i]
	}
	return idx
}

// Position converts a multi-index into the linear position under the given traversal order.
func (s Shape) Position(order Order, idx ...int) int {
	s.checkIndex(idx)
	pos := 0
	if AutoFC(order) == F {
		for i := len(s.dims) - 1; i >= 0; i-- {
			pos = pos*s.dims[i] + idx[i]
		}
		return pos
	}
	for i := 0; i < len(s.dims); i++ {
		pos = pos*s.dims[i] + idx[i]
	}
	return pos
}

func (s Shape) checkIndex(idx []int) {
	if len(idx) != len(s.dims) {
		panicf(ErrIllegalArgument, "shape: expected %d indices for shape %v, got %d", len(s.dims), s, len(idx))
	}
	for i, v := range idx {
		if v < 0 || v >= s.dims[i] {
			panicf(ErrOutOfRange, "shape: index %d out of bounds for axis %d (size %d)", v, i, s.dims[i])
		}
	}
}

// without returns a copy of dims with the given axis removed.
func without(dims []int, axis int) []int {
	out := make([]int, 0, len(dims)-1)
	out = append(out, dims[:axis]...)
	return append(out, dims[axis+1:]...)
}
