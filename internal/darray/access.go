package darray

import (
	"github.com/born-ml/darray/internal/dtype"
	"github.com/born-ml/darray/internal/layout"
)

// Ptr returns the storage position of a multi-index.
func (a *DArray[N]) Ptr(idx ...int) int {
	return a.layout.Pointer(idx...)
}

// Get returns the element at a multi-index.
func (a *DArray[N]) Get(idx ...int) N {
	return a.storage.Get(a.layout.Pointer(idx...))
}

// Set stores value at a multi-index.
func (a *DArray[N]) Set(value N, idx ...int) {
	a.storage.Set(a.layout.Pointer(idx...), value)
}

// Inc adds value to the element at a multi-index.
func (a *DArray[N]) Inc(value N, idx ...int) {
	a.storage.Inc(a.layout.Pointer(idx...), value)
}

// PtrGet returns the element at a raw storage position.
func (a *DArray[N]) PtrGet(p int) N {
	return a.storage.Get(p)
}

// PtrSet stores value at a raw storage position.
func (a *DArray[N]) PtrSet(p int, value N) {
	a.storage.Set(p, value)
}

// PtrInc adds value to the element at a raw storage position.
func (a *DArray[N]) PtrInc(p int, value N) {
	a.storage.Inc(p, value)
}

// Item returns the single element of a size one array.
func (a *DArray[N]) Item() N {
	if a.Size() != 1 {
		panicf(ErrIllegalArgument, "item: array of shape %v has %d elements", a.Shape(), a.Size())
	}
	return a.storage.Get(a.layout.Offset())
}

// GetDouble returns the element at a multi-index as float64; missing markers become NaN.
func (a *DArray[N]) GetDouble(idx ...int) float64 {
	return a.dt.Float64(a.Get(idx...))
}

// SetDouble stores a float64 at a multi-index, cast to the element type.
func (a *DArray[N]) SetDouble(value float64, idx ...int) {
	a.Set(a.dt.Cast(value), idx...)
}

// GetFloat returns the element at a multi-index as float32.
func (a *DArray[N]) GetFloat(idx ...int) float32 {
	return dtype.Convert[float32](a.Get(idx...))
}

// SetFloat stores a float32 at a multi-index.
func (a *DArray[N]) SetFloat(value float32, idx ...int) {
	a.Set(dtype.Convert[N](value), idx...)
}

// GetInt returns the element at a multi-index as int32.
func (a *DArray[N]) GetInt(idx ...int) int32 {
	return dtype.Convert[int32](a.Get(idx...))
}

// SetInt stores an int32 at a multi-index.
func (a *DArray[N]) SetInt(value int32, idx ...int) {
	a.Set(dtype.Convert[N](value), idx...)
}

// GetByte returns the element at a multi-index as int8.
func (a *DArray[N]) GetByte(idx ...int) int8 {
	return dtype.Convert[int8](a.Get(idx...))
}

// SetByte stores an int8 at a multi-index.
func (a *DArray[N]) SetByte(value int8, idx ...int) {
	a.Set(dtype.Convert[N](value), idx...)
}

// GetValue returns the boxed element at a multi-index.
func (a *DArray[N]) GetValue(idx ...int) any {
	return a.Get(idx...)
}

// PointerIterator returns an iterator over the storage positions in the given order.
func (a *DArray[N]) PointerIterator(order layout.Order) layout.PointerIterator {
	return layout.NewPointerIterator(a.layout, order)
}

// Loop returns the loop descriptor of the array traversed in the given order.
func (a *DArray[N]) Loop(order layout.Order) *layout.StrideLoop {
	return layout.NewLoop(a.layout, order)
}

// Values returns the elements read in the given order.
func (a *DArray[N]) Values(order layout.Order) []N {
	out := make([]N, 0, a.Size())
	data := a.storage.Data()
	loop := a.Loop(order)
	for _, off := range loop.Offsets {
		for i, p := 0, off; i < loop.Size; i, p = i+1, p+loop.Step {
			out = append(out, data[p])
		}
	}
	return out
}
