package layout

import "slices"

// Narrow restricts an axis to the range [start, end). The offset moves by start*stride.
// When keepDim is false and the resulting axis has size one, the axis is removed.
func (l *StrideLayout) Narrow(axis int, keepDim bool, start, end int) *StrideLayout {
	l.checkAxis("narrow", axis)
	if start < 0 || end > l.shape.dims[axis] || start >= end {
		panicf(ErrOutOfRange, "narrow: invalid range [%d,%d) for axis %d of shape %v", start, end, axis, l.shape)
	}
	dims := l.shape.Dims()
	strides := l.Strides()
	offset := l.offset + start*strides[axis]
	dims[axis] = end - start
	if !keepDim && dims[axis] == 1 {
		dims = without(dims, axis)
		strides = without(strides, axis)
	}
	return &StrideLayout{shape: Shape{dims: dims}, offset: offset, strides: strides}
}

// NarrowAll narrows every axis at once. Axes of size one are removed when keepDim is false.
func (l *StrideLayout) NarrowAll(keepDim bool, starts, ends []int) *StrideLayout {
	if len(starts) != l.Rank() || len(ends) != l.Rank() {
		panicf(ErrIllegalArgument, "narrowAll: expected %d starts and ends, got %d and %d", l.Rank(), len(starts), len(ends))
	}
	offset := l.offset
	dims := make([]int, 0, l.Rank())
	strides := make([]int, 0, l.Rank())
	for i := range l.shape.dims {
		if starts[i] < 0 || ends[i] > l.shape.dims[i] || starts[i] >= ends[i] {
			panicf(ErrOutOfRange, "narrowAll: invalid range [%d,%d) for axis %d of shape %v", starts[i], ends[i], i, l.shape)
		}
		offset += starts[i] * l.strides[i]
		d := ends[i] - starts[i]
		if !keepDim && d == 1 {
			continue
		}
		dims = append(dims, d)
		strides = append(strides, l.strides[i])
	}
	return &StrideLayout{shape: Shape{dims: dims}, offset: offset, strides: strides}
}

// Permute reorders axes: axis i of the result is axis dims[i] of the source.
func (l *StrideLayout) Permute(axes ...int) *StrideLayout {
	rank := l.Rank()
	if len(axes) != rank {
		panicf(ErrIllegalArgument, "permute: expected %d axes, got %v", rank, axes)
	}
	seen := make([]bool, rank)
	dims := make([]int, rank)
	strides := make([]int, rank)
	for i, ax := range axes {
		if ax < 0 || ax >= rank || seen[ax] {
			panicf(ErrIllegalArgument, "permute: %v is not a permutation of %d axes", axes, rank)
		}
		seen[ax] = true
		dims[i] = l.shape.dims[ax]
		strides[i] = l.strides[ax]
	}
	return &StrideLayout{shape: Shape{dims: dims}, offset: l.offset, strides: strides}
}

// MoveAxis moves axis src to position dst, keeping the relative order of the other axes.
func (l *StrideLayout) MoveAxis(src, dst int) *StrideLayout {
	l.checkAxis("moveAxis", src)
	l.checkAxis("moveAxis", dst)
	axes := make([]int, 0, l.Rank())
	for i := 0; i < l.Rank(); i++ {
		if i != src {
			axes = append(axes, i)
		}
	}
	axes = slices.Insert(axes, dst, src)
	return l.Permute(axes...)
}

// SwapAxis exchanges two axes.
func (l *StrideLayout) SwapAxis(a, b int) *StrideLayout {
	l.checkAxis("swapAxis", a)
	l.checkAxis("swapAxis", b)
	axes := make([]int, l.Rank())
	for i := range axes {
		axes[i] = i
	}
	axes[a], axes[b] = b, a
	return l.Permute(axes...)
}

// Revert reverses the order of the axes (transpose).
func (l *StrideLayout) Revert() *StrideLayout {
	dims := l.shape.Dims()
	strides := l.Strides()
	slices.Reverse(dims)
	slices.Reverse(strides)
	return &StrideLayout{shape: Shape{dims: dims}, offset: l.offset, strides: strides}
}

// Squeeze removes the given axes, which must have size one. Without axes every
// axis of size one is removed.
func (l *StrideLayout) Squeeze(axes ...int) *StrideLayout {
	remove := make([]bool, l.Rank())
	if len(axes) == 0 {
		for i, d := range l.shape.dims {
			remove[i] = d == 1
		}
	}
	for _, ax := range axes {
		l.checkAxis("squeeze", ax)
		if l.shape.dims[ax] != 1 {
			panicf(ErrIllegalArgument, "squeeze: axis %d of shape %v has size %d, not 1", ax, l.shape, l.shape.dims[ax])
		}
		remove[ax] = true
	}
	dims := make([]int, 0, l.Rank())
	strides := make([]int, 0, l.Rank())
	for i, d := range l.shape.dims {
		if remove[i] {
			continue
		}
		dims = append(dims, d)
		strides = append(strides, l.strides[i])
	}
	return &StrideLayout{shape: Shape{dims: dims}, offset: l.offset, strides: strides}
}

// Stretch inserts axes of size one. Positions refer to the axes of the result.
func (l *StrideLayout) Stretch(axes ...int) *StrideLayout {
	rank := l.Rank() + len(axes)
	insert := make([]bool, rank)
	for _, ax := range axes {
		if ax < 0 || ax >= rank || insert[ax] {
			panicf(ErrIllegalArgument, "stretch: invalid axes %v for shape %v", axes, l.shape)
		}
		insert[ax] = true
	}
	dims := make([]int, rank)
	strides := make([]int, rank)
	src := 0
	for i := 0; i < rank; i++ {
		if insert[i] {
			dims[i] = 1
			continue
		}
		dims[i] = l.shape.dims[src]
		strides[i] = l.strides[src]
		src++
	}
	// size one axes take the stride of the slower neighbour so C-contiguity is kept
	for i := rank - 1; i >= 0; i-- {
		if insert[i] {
			if i+1 < rank {
				strides[i] = strides[i+1] * max(dims[i+1], 1)
			} else {
				strides[i] = 1
			}
		}
	}
	return &StrideLayout{shape: Shape{dims: dims}, offset: l.offset, strides: strides}
}

// Expand stretches an axis of size one to size by giving it a zero stride.
// All positions along the expanded axis alias the same storage slot.
func (l *StrideLayout) Expand(axis, size int) *StrideLayout {
	l.checkAxis("expand", axis)
	if l.shape.dims[axis] != 1 {
		panicf(ErrIllegalArgument, "expand: axis %d of shape %v has size %d, expected 1", axis, l.shape, l.shape.dims[axis])
	}
	if size < 1 {
		panicf(ErrIllegalArgument, "expand: invalid size %d", size)
	}
	dims := l.shape.Dims()
	strides := l.Strides()
	dims[axis] = size
	strides[axis] = 0
	return &StrideLayout{shape: Shape{dims: dims}, offset: l.offset, strides: strides}
}

// Unfold replaces axis with windows of length size taken every step elements.
// The window axis is appended as the last axis.
func (l *StrideLayout) Unfold(axis, size, step int) *StrideLayout {
	l.checkAxis("unfold", axis)
	if size < 1 || size > l.shape.dims[axis] || step < 1 {
		panicf(ErrIllegalArgument, "unfold: invalid size %d and step %d for axis %d of shape %v", size, step, axis, l.shape)
	}
	dims := l.shape.Dims()
	strides := l.Strides()
	dims[axis] = (l.shape.dims[axis]-size)/step + 1
	strides[axis] = l.strides[axis] * step
	dims = append(dims, size)
	strides = append(strides, l.strides[axis])
	return &StrideLayout{shape: Shape{dims: dims}, offset: l.offset, strides: strides}
}

// Diag returns the vector layout of the k-th diagonal of a matrix layout.
// Positive k selects diagonals above the main one, negative k below.
func (l *StrideLayout) Diag(k int) *StrideLayout {
	if l.Rank() != 2 {
		panicf(ErrIllegalArgument, "diag: expected a matrix, got shape %v", l.shape)
	}
	rows, cols := l.shape.dims[0], l.shape.dims[1]
	offset := l.offset
	var n int
	if k >= 0 {
		n = min(rows, cols-k)
		offset += k * l.strides[1]
	} else {
		n = min(rows+k, cols)
		offset -= k * l.strides[0]
	}
	if n <= 0 {
		panicf(ErrOutOfRange, "diag: diagonal %d out of range for shape %v", k, l.shape)
	}
	return &StrideLayout{shape: Shape{dims: []int{n}}, offset: offset, strides: []int{l.strides[0] + l.strides[1]}}
}

// BroadcastTo returns a view of the layout stretched to target following broadcasting
// rules: missing leading axes and axes of size one get a zero stride.
func (l *StrideLayout) BroadcastTo(target Shape) *StrideLayout {
	rank := target.Rank()
	if rank < l.Rank() {
		panicf(ErrShapeMismatch, "broadcast: cannot broadcast shape %v to %v", l.shape, target)
	}
	lead := rank - l.Rank()
	strides := make([]int, rank)
	for i := lead; i < rank; i++ {
		d := l.shape.dims[i-lead]
		switch {
		case d == target.dims[i]:
			strides[i] = l.strides[i-lead]
		case d == 1:
			strides[i] = 0
		default:
			panicf(ErrShapeMismatch, "broadcast: cannot broadcast shape %v to %v", l.shape, target)
		}
	}
	return &StrideLayout{shape: Shape{dims: target.Dims()}, offset: l.offset, strides: strides}
}
