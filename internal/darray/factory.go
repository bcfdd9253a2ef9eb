package darray

import (
	"math/rand/v2"

	"github.com/born-ml/darray/internal/dtype"
	"github.com/born-ml/darray/internal/layout"
	"github.com/born-ml/darray/internal/storage"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// Factory creates arrays of element type N bound to a Manager.
// Constructors take the storage order of the result; S and A produce C ordered arrays.
type Factory[N dtype.Num] struct {
	m  *Manager
	dt *dtype.DType[N]
}

// DType returns the element type descriptor.
func (f *Factory[N]) DType() *dtype.DType[N] { return f.dt }

// Manager returns the owning manager.
func (f *Factory[N]) Manager() *Manager { return f.m }

// Zeros creates an array filled with zeros.
//
// Example:
//
//	a := m.Double().Zeros(layout.ShapeOf(3, 4), layout.C)
func (f *Factory[N]) Zeros(shape layout.Shape, order layout.Order) *DArray[N] {
	return newArray(f.m, layout.Dense(shape, 0, layout.AutoFC(order)), storage.New[N](shape.Size()))
}

// Full creates an array filled with value.
func (f *Factory[N]) Full(shape layout.Shape, value N, order layout.Order) *DArray[N] {
	a := f.Zeros(shape, order)
	a.storage.Fill(value)
	return a
}

// Seq creates an array holding 0, 1, 2, ... in the given order.
//
// Example:
//
//	a := m.Double().Seq(layout.ShapeOf(2, 3), layout.C)
//	a.Values(layout.C) // [0 1 2 3 4 5]
//	a.Values(layout.F) // [0 3 1 4 2 5]
func (f *Factory[N]) Seq(shape layout.Shape, order layout.Order) *DArray[N] {
	return f.SeqFrom(0, 1, shape, order)
}

// SeqFrom creates an array holding start, start+step, ... in the given order.
func (f *Factory[N]) SeqFrom(start, step float64, shape layout.Shape, order layout.Order) *DArray[N] {
	a := f.Zeros(shape, order)
	data := a.storage.Data()
	for i := range data {
		data[i] = f.dt.Cast(start + float64(i)*step)
	}
	return a
}

// Random creates an array of uniformly distributed values drawn from rng. Floating types
// are sampled in [0, 1), integral types over [0, max].
// Note: Uses math/rand (not crypto/rand) - appropriate for statistical purposes.
func (f *Factory[N]) Random(shape layout.Shape, rng *rand.Rand, order layout.Order) *DArray[N] {
	if f.dt.IsFloat() {
		return f.RandomFrom(shape, rng, (*rand.Rand).Float64, order)
	}
	limit := int64(f.dt.Max()) + 1
	return f.RandomFrom(shape, rng, func(r *rand.Rand) float64 {
		return float64(r.Int64N(limit))
	}, order)
}

// RandomFrom creates an array of values produced by sample, a probability distribution
// drawing from rng.
func (f *Factory[N]) RandomFrom(shape layout.Shape, rng *rand.Rand, sample func(*rand.Rand) float64, order layout.Order) *DArray[N] {
	a := f.Zeros(shape, order)
	data := a.storage.Data()
	for i := range data {
		data[i] = f.dt.Cast(sample(rng))
	}
	return a
}

// Normal samples the standard normal distribution.
func Normal(rng *rand.Rand) float64 {
	return rng.NormFloat64()
}

// Stride creates an array over data with an explicit layout. The data is not copied.
func (f *Factory[N]) Stride(shape layout.Shape, offset int, strides []int, data []N) (*DArray[N], error) {
	var l *layout.StrideLayout
	if err := Try(func() { l = layout.New(shape, offset, strides) }); err != nil {
		return nil, err
	}
	if l.Size() > 0 && (l.MinPointer() < 0 || l.MaxPointer() >= len(data)) {
		return nil, errors.Wrapf(ErrOutOfRange, "stride: layout %v addresses positions [%d, %d] outside data of length %d",
			l, l.MinPointer(), l.MaxPointer(), len(data))
	}
	return newArray(f.m, l, storage.Wrap(data)), nil
}

// Wrap creates a dense array over data laid out in the given order. The data is not copied.
func (f *Factory[N]) Wrap(shape layout.Shape, order layout.Order, data []N) (*DArray[N], error) {
	if len(data) != shape.Size() {
		return nil, errors.Wrapf(ErrIllegalArgument, "wrap: data length %d does not match shape %v", len(data), shape)
	}
	return f.Stride(shape, 0, shape.Strides(layout.AutoFC(order)), data)
}

// Eye creates an n x n identity matrix.
func (f *Factory[N]) Eye(n int, order layout.Order) *DArray[N] {
	a := f.Zeros(layout.ShapeOf(n, n), order)
	for i := range n {
		a.Set(1, i, i)
	}
	return a
}

// Scalar creates a rank zero array.
func (f *Factory[N]) Scalar(value N) *DArray[N] {
	return f.Full(layout.ShapeOf(), value, layout.C)
}

// FromFloat16 creates an array by converting half precision values laid out in the given order.
func (f *Factory[N]) FromFloat16(shape layout.Shape, order layout.Order, data []float16.Float16) (*DArray[N], error) {
	if len(data) != shape.Size() {
		return nil, errors.Wrapf(ErrIllegalArgument, "fromFloat16: data length %d does not match shape %v", len(data), shape)
	}
	a := f.Zeros(shape, order)
	dst := a.storage.Data()
	for i, h := range data {
		dst[i] = f.dt.Cast(float64(h.Float32()))
	}
	return a, nil
}
