package darray

import (
	"slices"

	"github.com/born-ml/darray/internal/layout"
)

// Reshape returns an array with the given shape whose elements, read in order, are the
// elements of a read in order. It is a view when the layout allows it and a copy otherwise.
func (a *DArray[N]) Reshape(shape layout.Shape, order layout.Order) *DArray[N] {
	if l, ok := a.layout.Reshape(shape, order); ok {
		return a.view(l)
	}
	order = a.layout.ReshapeOrder(order)
	out := a.factory().Zeros(shape, order)
	a.readInto(out.storage.Data(), order)
	return out
}

// readInto writes the elements of a, traversed in order, sequentially into dst.
func (a *DArray[N]) readInto(dst []N, order layout.Order) {
	data := a.storage.Data()
	loop := a.Loop(order)
	k := 0
	for _, off := range loop.Offsets {
		if loop.Step == 1 {
			k += copy(dst[k:], data[off:off+loop.Size])
			continue
		}
		for i, p := 0, off; i < loop.Size; i, p = i+1, p+loop.Step {
			dst[k] = data[p]
			k++
		}
	}
}

// Ravel returns a rank one array of the elements read in order, a view when possible.
func (a *DArray[N]) Ravel(order layout.Order) *DArray[N] {
	return a.Reshape(layout.ShapeOf(a.Size()), order)
}

// Flatten returns a rank one copy of the elements read in order.
func (a *DArray[N]) Flatten(order layout.Order) *DArray[N] {
	order = layout.AutoFC(a.layout.Resolve(order))
	out := a.factory().Zeros(layout.ShapeOf(a.Size()), order)
	a.readInto(out.storage.Data(), order)
	return out
}

// Squeeze removes the given axes of size one, or all of them when none are given.
func (a *DArray[N]) Squeeze(axes ...int) *DArray[N] {
	return a.view(a.layout.Squeeze(axes...))
}

// Stretch inserts axes of size one at the given positions of the result.
func (a *DArray[N]) Stretch(axes ...int) *DArray[N] {
	return a.view(a.layout.Stretch(axes...))
}

// Expand repeats an axis of size one size times with a zero stride.
// The repeated positions alias the same storage element.
func (a *DArray[N]) Expand(axis, size int) *DArray[N] {
	return a.view(a.layout.Expand(axis, size))
}

// BroadcastTo returns a zero-copy view of a broadcast to shape.
func (a *DArray[N]) BroadcastTo(shape layout.Shape) *DArray[N] {
	if a.Shape().Equal(shape) {
		return a
	}
	return a.view(a.layout.BroadcastTo(shape))
}

// Permute reorders the axes: axis i of the result is axis axes[i] of a.
func (a *DArray[N]) Permute(axes ...int) *DArray[N] {
	return a.view(a.layout.Permute(axes...))
}

// MoveAxis moves axis src to position dst.
func (a *DArray[N]) MoveAxis(src, dst int) *DArray[N] {
	return a.view(a.layout.MoveAxis(src, dst))
}

// SwapAxis exchanges two axes.
func (a *DArray[N]) SwapAxis(i, j int) *DArray[N] {
	return a.view(a.layout.SwapAxis(i, j))
}

// T returns the transpose: the axes in reverse order. Scalars and vectors are returned as is.
func (a *DArray[N]) T() *DArray[N] {
	if a.Rank() < 2 {
		return a
	}
	return a.view(a.layout.Revert())
}

// Narrow restricts an axis to [start, end). With keepDim false an axis left with
// size one is removed.
func (a *DArray[N]) Narrow(axis int, keepDim bool, start, end int) *DArray[N] {
	return a.view(a.layout.Narrow(axis, keepDim, start, end))
}

// NarrowAll restricts every axis i to [starts[i], ends[i]).
func (a *DArray[N]) NarrowAll(keepDim bool, starts, ends []int) *DArray[N] {
	return a.view(a.layout.NarrowAll(keepDim, starts, ends))
}

// Split cuts an axis into views starting at each of the given indices; every piece ends
// where the next one starts, the last one at the end of the axis.
func (a *DArray[N]) Split(axis int, keepDim bool, indices ...int) []*DArray[N] {
	dim := a.Dim(axis)
	checkSplit("split", axis, dim, indices)
	out := make([]*DArray[N], len(indices))
	for i, start := range indices {
		end := dim
		if i+1 < len(indices) {
			end = indices[i+1]
		}
		out[i] = a.Narrow(axis, keepDim, start, end)
	}
	return out
}

func checkSplit(op string, axis, dim int, indices []int) {
	if len(indices) == 0 {
		panicf(ErrIllegalArgument, "%s: no split indices for axis %d", op, axis)
	}
	for i, v := range indices {
		if v < 0 || v >= dim || (i > 0 && v <= indices[i-1]) {
			panicf(ErrIllegalArgument, "%s: indices %v must be increasing in [0, %d) for axis %d", op, indices, dim, axis)
		}
	}
}

// SplitAll splits every axis i at indices[i] and returns the views of the grid of pieces
// in C order.
func (a *DArray[N]) SplitAll(keepDim bool, indices [][]int) []*DArray[N] {
	if len(indices) != a.Rank() {
		panicf(ErrIllegalArgument, "splitAll: %d index lists given for shape %v", len(indices), a.Shape())
	}
	for axis, idx := range indices {
		checkSplit("splitAll", axis, a.Dim(axis), idx)
	}
	var out []*DArray[N]
	starts := make([]int, a.Rank())
	ends := make([]int, a.Rank())
	var split func(axis int)
	split = func(axis int) {
		if axis == a.Rank() {
			out = append(out, a.NarrowAll(keepDim, starts, ends))
			return
		}
		for i, start := range indices[axis] {
			starts[axis] = start
			ends[axis] = a.Dim(axis)
			if i+1 < len(indices[axis]) {
				ends[axis] = indices[axis][i+1]
			}
			split(axis + 1)
		}
	}
	split(0)
	return out
}

func chunkIndices(op string, dim, chunk int) []int {
	if chunk <= 0 {
		panicf(ErrIllegalArgument, "%s: chunk size must be positive, got %d", op, chunk)
	}
	indices := make([]int, 0, (dim+chunk-1)/chunk)
	for i := 0; i < dim; i += chunk {
		indices = append(indices, i)
	}
	return indices
}

// Chunk splits an axis into views of chunk elements; the last one may be shorter.
func (a *DArray[N]) Chunk(axis int, keepDim bool, chunk int) []*DArray[N] {
	return a.Split(axis, keepDim, chunkIndices("chunk", a.Dim(axis), chunk)...)
}

// ChunkAll splits every axis i into chunks of chunks[i] elements.
func (a *DArray[N]) ChunkAll(keepDim bool, chunks []int) []*DArray[N] {
	if len(chunks) != a.Rank() {
		panicf(ErrIllegalArgument, "chunkAll: %d chunk sizes given for shape %v", len(chunks), a.Shape())
	}
	indices := make([][]int, len(chunks))
	for axis, c := range chunks {
		indices[axis] = chunkIndices("chunkAll", a.Dim(axis), c)
	}
	return a.SplitAll(keepDim, indices)
}

// Sel selects the given indices along an axis, keeping the axis. A single index gives a
// view, several indices a copy.
func (a *DArray[N]) Sel(axis int, indices ...int) *DArray[N] {
	if len(indices) == 1 {
		return a.Narrow(axis, true, indices[0], indices[0]+1)
	}
	dims := a.Shape().Dims()
	if axis < 0 || axis >= len(dims) {
		panicf(ErrOutOfRange, "sel: axis %d out of range for shape %v", axis, a.Shape())
	}
	dims[axis] = len(indices)
	out := a.factory().Zeros(layout.ShapeOf(dims...), layout.C)
	for j, idx := range indices {
		out.SelSq(axis, j).copyFrom(a.SelSq(axis, idx))
	}
	return out
}

// SelSq selects one index along an axis and removes the axis.
func (a *DArray[N]) SelSq(axis, index int) *DArray[N] {
	return a.Narrow(axis, false, index, index+1)
}

// Rem removes the given indices along an axis, keeping the others in order.
// Every index must lie inside the axis.
func (a *DArray[N]) Rem(axis int, indices ...int) *DArray[N] {
	dim := a.Dim(axis)
	for _, i := range indices {
		if i < 0 || i >= dim {
			panicf(ErrOutOfRange, "rem: index %d out of range [0, %d) for axis %d of shape %v", i, dim, axis, a.Shape())
		}
	}
	keep := make([]int, 0, dim)
	for i := range dim {
		if !slices.Contains(indices, i) {
			keep = append(keep, i)
		}
	}
	if len(keep) == 0 {
		panicf(ErrIllegalArgument, "rem: removing %v leaves axis %d of shape %v empty", indices, axis, a.Shape())
	}
	return a.Sel(axis, keep...)
}

// RemSq is Rem followed by the removal of the axis when a single index remains.
func (a *DArray[N]) RemSq(axis int, indices ...int) *DArray[N] {
	out := a.Rem(axis, indices...)
	if out.Dim(axis) == 1 {
		return out.Squeeze(axis)
	}
	return out
}

// Gather collects values along an axis: out[i] = a[i with i[axis] replaced by index[i]].
// index has the rank of a and its other dimensions must not exceed those of a.
func (a *DArray[N]) Gather(axis int, index *DArray[int32]) *DArray[N] {
	a.checkIndexArray("gather", axis, index)
	out := a.factory().Zeros(index.Shape(), layout.C)
	shape := index.Shape()
	for pos := range shape.Size() {
		idx := shape.Index(layout.C, pos)
		v := index.Get(idx...)
		idx[axis] = a.checkGatherIndex("gather", axis, v)
		out.storage.Set(pos, a.Get(idx...))
	}
	return out
}

// Scatter writes values of src along an axis: a[i with i[axis] replaced by index[i]] = src[i].
// When index repeats a position the last write wins.
func (a *DArray[N]) Scatter(axis int, index *DArray[int32], src *DArray[N]) *DArray[N] {
	a.checkIndexArray("scatter", axis, index)
	if !src.Shape().Equal(index.Shape()) {
		panicf(ErrShapeMismatch, "scatter: source shape %v differs from index shape %v", src.Shape(), index.Shape())
	}
	shape := index.Shape()
	for pos := range shape.Size() {
		idx := shape.Index(layout.C, pos)
		v := src.Get(idx...)
		idx[axis] = a.checkGatherIndex("scatter", axis, index.Get(idx...))
		a.Set(v, idx...)
	}
	return a
}

func (a *DArray[N]) checkIndexArray(op string, axis int, index *DArray[int32]) {
	if index.Rank() != a.Rank() {
		panicf(ErrShapeMismatch, "%s: index shape %v and array shape %v have different ranks", op, index.Shape(), a.Shape())
	}
	if axis < 0 || axis >= a.Rank() {
		panicf(ErrOutOfRange, "%s: axis %d out of range for shape %v", op, axis, a.Shape())
	}
	for i := range a.Rank() {
		if i != axis && index.Dim(i) > a.Dim(i) {
			panicf(ErrShapeMismatch, "%s: index shape %v exceeds array shape %v on axis %d", op, index.Shape(), a.Shape(), i)
		}
	}
}

func (a *DArray[N]) checkGatherIndex(op string, axis int, v int32) int {
	if v < 0 || int(v) >= a.Dim(axis) {
		panicf(ErrOutOfRange, "%s: index %d out of range for axis %d of shape %v", op, v, axis, a.Shape())
	}
	return int(v)
}

// Take returns a rank one copy of the elements at the given C order positions.
func (a *DArray[N]) Take(positions ...int) *DArray[N] {
	out := a.factory().Zeros(layout.ShapeOf(len(positions)), layout.C)
	shape := a.Shape()
	for i, pos := range positions {
		if pos < 0 || pos >= a.Size() {
			panicf(ErrOutOfRange, "take: position %d out of range for shape %v", pos, shape)
		}
		out.storage.Set(i, a.Get(shape.Index(layout.C, pos)...))
	}
	return out
}

// Unfold appends an axis of sliding windows of size elements taken every step along axis.
func (a *DArray[N]) Unfold(axis, size, step int) *DArray[N] {
	return a.view(a.layout.Unfold(axis, size, step))
}

// Pad returns a copy with before and after zeros added along an axis.
func (a *DArray[N]) Pad(axis, before, after int) *DArray[N] {
	if before < 0 || after < 0 {
		panicf(ErrIllegalArgument, "pad: negative padding (%d, %d)", before, after)
	}
	dims := a.Shape().Dims()
	if axis < 0 || axis >= len(dims) {
		panicf(ErrOutOfRange, "pad: axis %d out of range for shape %v", axis, a.Shape())
	}
	dims[axis] += before + after
	out := a.factory().Zeros(layout.ShapeOf(dims...), layout.C)
	if a.Size() > 0 {
		out.Narrow(axis, true, before, before+a.Dim(axis)).copyFrom(a)
	}
	return out
}

// Unpad is the view removing before and after elements along an axis.
func (a *DArray[N]) Unpad(axis, before, after int) *DArray[N] {
	return a.Narrow(axis, true, before, a.Dim(axis)-after)
}

// Diag returns the view of the k-th diagonal of a matrix.
func (a *DArray[N]) Diag(k int) *DArray[N] {
	return a.view(a.layout.Diag(k))
}
