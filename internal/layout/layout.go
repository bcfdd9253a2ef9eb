// Package layout implements the strided layout algebra of dense arrays: shapes, traversal
// orders, stride layouts, zero-copy view construction, loop descriptors and pointer iterators.
package layout

import (
	"fmt"
	"slices"
	"sort"
)

// StrideLayout maps a logical multi-index to a storage position:
//
//	pointer = offset + sum(index[i] * strides[i])
//
// Zero strides are allowed. They make every position along the axis alias the same storage
// slot (broadcast views). Writing through such an axis overwrites all aliased logical
// positions; preventing that is the caller's responsibility.
type StrideLayout struct {
	shape   Shape
	offset  int
	strides []int
}

// New creates a layout from explicit offset and strides.
func New(shape Shape, offset int, strides []int) *StrideLayout {
	if len(strides) != shape.Rank() {
		panicf(ErrIllegalArgument, "layout: %d strides given for shape %v", len(strides), shape)
	}
	if offset < 0 {
		panicf(ErrIllegalArgument, "layout: negative offset %d", offset)
	}
	return &StrideLayout{shape: shape, offset: offset, strides: append([]int(nil), strides...)}
}

// Dense creates a contiguous layout for shape in the given order.
func Dense(shape Shape, offset int, order Order) *StrideLayout {
	return &StrideLayout{shape: shape, offset: offset, strides: shape.Strides(order)}
}

// Shape returns the logical shape.
func (l *StrideLayout) Shape() Shape { return l.shape }

// Offset returns the storage position of the first element.
func (l *StrideLayout) Offset() int { return l.offset }

// Strides returns a copy of the strides.
func (l *StrideLayout) Strides() []int { return append([]int(nil), l.strides...) }

// Stride returns the stride of an axis.
func (l *StrideLayout) Stride(axis int) int {
	l.checkAxis("stride", axis)
	return l.strides[axis]
}

// Dim returns the size of an axis.
func (l *StrideLayout) Dim(axis int) int { return l.shape.Dim(axis) }

// Rank returns the number of axes.
func (l *StrideLayout) Rank() int { return l.shape.Rank() }

// Size returns the number of logical elements.
func (l *StrideLayout) Size() int { return l.shape.Size() }

// Pointer returns the storage position of a multi-index.
func (l *StrideLayout) Pointer(idx ...int) int {
	l.shape.checkIndex(idx)
	p := l.offset
	for i, v := range idx {
		p += v * l.strides[i]
	}
	return p
}

// MaxPointer returns the largest storage position addressed by the layout,
// or offset-1 for an empty layout.
func (l *StrideLayout) MaxPointer() int {
	if l.Size() == 0 {
		return l.offset - 1
	}
	p := l.offset
	for i, d := range l.shape.dims {
		if l.strides[i] > 0 {
			p += (d - 1) * l.strides[i]
		}
	}
	return p
}

// MinPointer returns the smallest storage position addressed by the layout.
func (l *StrideLayout) MinPointer() int {
	p := l.offset
	for i, d := range l.shape.dims {
		if l.strides[i] < 0 {
			p += (d - 1) * l.strides[i]
		}
	}
	return p
}

// Equal reports whether both layouts address identical positions for every index.
func (l *StrideLayout) Equal(other *StrideLayout) bool {
	return l.offset == other.offset && l.shape.Equal(other.shape) && slices.Equal(l.strides, other.strides)
}

// String implements fmt.Stringer.
func (l *StrideLayout) String() string {
	return fmt.Sprintf("StrideLayout{shape:%v,offset:%d,strides:%v}", l.shape, l.offset, l.strides)
}

// IsCOrdered reports whether the layout is dense in row-major order.
// Axes of size one are ignored since their stride is never used.
func (l *StrideLayout) IsCOrdered() bool {
	return l.isOrdered(C)
}

// IsFOrdered reports whether the layout is dense in column-major order.
func (l *StrideLayout) IsFOrdered() bool {
	return l.isOrdered(F)
}

func (l *StrideLayout) isOrdered(order Order) bool {
	dense := l.shape.Strides(order)
	for i, d := range l.shape.dims {
		if d != 1 && l.strides[i] != dense[i] {
			return false
		}
	}
	return true
}

// StorageFastOrder returns C or F when the layout is dense in that order, otherwise S.
// Layouts dense in both orders (vectors, scalars) report C.
func (l *StrideLayout) StorageFastOrder() Order {
	switch {
	case l.IsCOrdered():
		return C
	case l.IsFOrdered():
		return F
	default:
		return S
	}
}

// IsDense reports whether the addressed positions form one contiguous block of storage.
func (l *StrideLayout) IsDense() bool {
	if l.Size() <= 1 {
		return true
	}
	f := l.ComputeFortranLayout(S, true)
	return f.Rank() == 1 && f.strides[0] == 1
}

// Resolve maps an order to the effective order for this layout. A resolves to the storage
// fast order when there is one and to the default order otherwise; S is kept as is.
func (l *StrideLayout) Resolve(order Order) Order {
	if order != A {
		return order
	}
	if fast := l.StorageFastOrder(); fast != S {
		return fast
	}
	return DefaultOrder
}

// traversalAxes returns the axes ordered from the fastest varying to the slowest one.
func (l *StrideLayout) traversalAxes(order Order) []int {
	rank := l.Rank()
	axes := make([]int, rank)
	switch l.Resolve(order) {
	case F:
		for i := range axes {
			axes[i] = i
		}
	case S:
		for i := range axes {
			axes[i] = rank - 1 - i
		}
		sort.SliceStable(axes, func(i, j int) bool {
			return abs(l.strides[axes[i]]) < abs(l.strides[axes[j]])
		})
	default:
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}
	return axes
}

// ComputeFortranLayout returns the layout with axes permuted so that axis 0 varies fastest
// when traversing in the given order. With compact set, axes of size one are dropped and
// consecutive axes that can be walked with a single stride are merged.
//
// Two layouts whose compact forms are equal visit the same storage positions in the same
// sequence, which is what zero-copy reinterpretation requires.
func (l *StrideLayout) ComputeFortranLayout(order Order, compact bool) *StrideLayout {
	axes := l.traversalAxes(order)
	dims := make([]int, 0, len(axes))
	strides := make([]int, 0, len(axes))
	for _, ax := range axes {
		d := l.shape.dims[ax]
		if compact && d == 1 {
			continue
		}
		if compact && len(dims) > 0 {
			last := len(dims) - 1
			if l.strides[ax] == strides[last]*dims[last] {
				dims[last] *= d
				continue
			}
		}
		dims = append(dims, d)
		strides = append(strides, l.strides[ax])
	}
	return &StrideLayout{shape: Shape{dims: dims}, offset: l.offset, strides: strides}
}

func (l *StrideLayout) checkAxis(op string, axis int) {
	if axis < 0 || axis >= l.Rank() {
		panicf(ErrOutOfRange, "%s: axis %d out of range for shape %v", op, axis, l.shape)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
