package darray

import "github.com/born-ml/darray/internal/layout"

// Cat concatenates arrays along an axis into a new C ordered array.
//
// All arrays must have the same shape except along the concatenation axis.
//
// Example:
//
//	a := f.Zeros(layout.ShapeOf(2, 3), layout.C)
//	b := f.Zeros(layout.ShapeOf(2, 5), layout.C)
//	c := f.Cat(1, a, b) // Shape: [2, 8]
func (f *Factory[N]) Cat(axis int, arrays ...*DArray[N]) *DArray[N] {
	if len(arrays) == 0 {
		panicf(ErrIllegalArgument, "cat: at least one array required")
	}
	first := arrays[0]
	if axis < 0 || axis >= first.Rank() {
		panicf(ErrOutOfRange, "cat: axis %d out of range for shape %v", axis, first.Shape())
	}
	dims := first.Shape().Dims()
	total := 0
	for _, a := range arrays {
		other := a.Shape().Dims()
		if len(other) != len(dims) {
			panicf(ErrShapeMismatch, "cat: shapes %v and %v have different ranks", first.Shape(), a.Shape())
		}
		for i := range dims {
			if i != axis && other[i] != dims[i] {
				panicf(ErrShapeMismatch, "cat: shapes %v and %v differ outside axis %d", first.Shape(), a.Shape(), axis)
			}
		}
		total += other[axis]
	}
	dims[axis] = total
	out := f.Zeros(layout.ShapeOf(dims...), layout.C)
	start := 0
	for _, a := range arrays {
		if n := a.Dim(axis); n > 0 {
			out.Narrow(axis, true, start, start+n).copyFrom(a)
			start += n
		}
	}
	return out
}

// Stack joins arrays of identical shape along a new axis inserted at position axis.
func (f *Factory[N]) Stack(axis int, arrays ...*DArray[N]) *DArray[N] {
	if len(arrays) == 0 {
		panicf(ErrIllegalArgument, "stack: at least one array required")
	}
	stretched := make([]*DArray[N], len(arrays))
	for i, a := range arrays {
		if !a.Shape().Equal(arrays[0].Shape()) {
			panicf(ErrShapeMismatch, "stack: shapes %v and %v differ", arrays[0].Shape(), a.Shape())
		}
		stretched[i] = a.Stretch(axis)
	}
	return f.Cat(axis, stretched...)
}
