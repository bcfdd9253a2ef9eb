package darray

import (
	"math"

	"github.com/born-ml/darray/internal/layout"
	"github.com/born-ml/darray/internal/ops"
)

// Reduce applies a scalar reduction to all elements.
func (a *DArray[N]) Reduce(r ops.Reduction) N {
	return ops.Reduce(r, a.storage.Data(), a.Loop(layout.S), 0)
}

// Sum returns the sum of all elements. One missing element makes the result missing.
func (a *DArray[N]) Sum() N { return a.Reduce(ops.ReduceSum) }

// NanSum returns the sum of the non missing elements.
func (a *DArray[N]) NanSum() N { return a.Reduce(ops.ReduceNanSum) }

// Prod returns the product of all elements.
func (a *DArray[N]) Prod() N { return a.Reduce(ops.ReduceProd) }

// NanProd returns the product of the non missing elements.
func (a *DArray[N]) NanProd() N { return a.Reduce(ops.ReduceNanProd) }

// Min returns the smallest element. Use Minimum for the element-wise form.
func (a *DArray[N]) Min() N { return a.Reduce(ops.ReduceMin) }

// NanMin returns the smallest non missing element.
func (a *DArray[N]) NanMin() N { return a.Reduce(ops.ReduceNanMin) }

// Max returns the largest element. Use Maximum for the element-wise form.
func (a *DArray[N]) Max() N { return a.Reduce(ops.ReduceMax) }

// NanMax returns the largest non missing element.
func (a *DArray[N]) NanMax() N { return a.Reduce(ops.ReduceNanMax) }

// Mean returns the arithmetic mean, computed with a residual correction pass.
func (a *DArray[N]) Mean() N { return a.Reduce(ops.ReduceMean) }

// NanMean returns the mean of the non missing elements.
func (a *DArray[N]) NanMean() N { return a.Reduce(ops.ReduceNanMean) }

// Varc returns the variance with ddof delta degrees of freedom.
func (a *DArray[N]) Varc(ddof int) N {
	return ops.Reduce(ops.ReduceVarc, a.storage.Data(), a.Loop(layout.S), ddof)
}

// NanVarc returns the variance of the non missing elements.
func (a *DArray[N]) NanVarc(ddof int) N {
	return ops.Reduce(ops.ReduceNanVarc, a.storage.Data(), a.Loop(layout.S), ddof)
}

// NanCount returns the number of missing elements.
func (a *DArray[N]) NanCount() int { return ops.NanCount(a.storage.Data(), a.Loop(layout.S)) }

// ZeroCount returns the number of elements equal to zero.
func (a *DArray[N]) ZeroCount() int { return ops.ZeroCount(a.storage.Data(), a.Loop(layout.S)) }

// ArgMin returns the C order position of the first smallest element, or -1 when every
// element is missing.
func (a *DArray[N]) ArgMin() int { return ops.ArgMin(a.storage.Data(), a.Loop(layout.C)) }

// ArgMax returns the C order position of the first largest element, or -1.
func (a *DArray[N]) ArgMax() int { return ops.ArgMax(a.storage.Data(), a.Loop(layout.C)) }

// Reduce1d reduces along axis. The result has the axis removed, or kept with size one
// when keepDim is set.
func (a *DArray[N]) Reduce1d(r ops.Reduction, axis int, keepDim bool) *DArray[N] {
	return a.reduce1d(r, axis, keepDim, 0)
}

func (a *DArray[N]) reduce1d(r ops.Reduction, axis int, keepDim bool, ddof int) *DArray[N] {
	out, lanes := a.lanes("reduce1d", axis, keepDim)
	data, od := a.storage.Data(), out.storage.Data()
	a.forLanes(lanes, func(i int) {
		od[i] = ops.Reduce(r, data, lanes[i], ddof)
	})
	return out
}

// reduceGrain is the minimum number of elements reduced by one parallel task.
const reduceGrain = 1 << 14

// forLanes calls fn for every lane index, splitting the lanes over the pool when they
// hold enough elements. Lane i writes result position i only.
func (a *DArray[N]) forLanes(lanes []*layout.StrideLoop, fn func(i int)) {
	if len(lanes) == 0 {
		return
	}
	minChunk := max(reduceGrain/max(lanes[0].Size, 1), 1)
	err := a.m.pool.For(len(lanes), minChunk, func(start, end int) error {
		for i := start; i < end; i++ {
			fn(i)
		}
		return nil
	})
	if err != nil {
		panic(err)
	}
}

// lanes prepares the result of a reduction along axis, and the loop of every source lane
// in the C order of that result.
func (a *DArray[N]) lanes(op string, axis int, keepDim bool) (*DArray[N], []*layout.StrideLoop) {
	if axis < 0 || axis >= a.Rank() {
		panicf(ErrOutOfRange, "%s: axis %d out of range for shape %v", op, axis, a.Shape())
	}
	dims := a.Shape().Dims()
	dims[axis] = 1
	out := a.factory().Zeros(layout.ShapeOf(dims...), layout.C)
	if !keepDim {
		out = out.Squeeze(axis)
	}
	dim, stride := a.Dim(axis), a.layout.Stride(axis)
	lanes := make([]*layout.StrideLoop, 0, out.Size())
	if a.Size() == 0 && dim != 0 {
		return out, lanes
	}
	base := layout.New(layout.ShapeOf(dims...), a.layout.Offset(), a.layout.Strides())
	it := layout.NewPointerIterator(base, layout.C)
	for it.HasNext() {
		lane := &layout.StrideLoop{Size: dim, Step: stride}
		if dim > 0 {
			lane.Offsets = []int{it.Next()}
		} else {
			it.Next()
		}
		lanes = append(lanes, lane)
	}
	return out, lanes
}

// Sum1d returns the sums along axis.
func (a *DArray[N]) Sum1d(axis int) *DArray[N] {
	return a.reduce1d(ops.ReduceSum, axis, false, 0)
}

// NanSum1d returns the sums of the non missing elements along axis.
func (a *DArray[N]) NanSum1d(axis int) *DArray[N] {
	return a.reduce1d(ops.ReduceNanSum, axis, false, 0)
}

// Prod1d returns the products along axis.
func (a *DArray[N]) Prod1d(axis int) *DArray[N] {
	return a.reduce1d(ops.ReduceProd, axis, false, 0)
}

// NanProd1d returns the products of the non missing elements along axis.
func (a *DArray[N]) NanProd1d(axis int) *DArray[N] {
	return a.reduce1d(ops.ReduceNanProd, axis, false, 0)
}

// Min1d returns the smallest elements along axis.
func (a *DArray[N]) Min1d(axis int) *DArray[N] {
	return a.reduce1d(ops.ReduceMin, axis, false, 0)
}

// NanMin1d returns the smallest non missing elements along axis.
func (a *DArray[N]) NanMin1d(axis int) *DArray[N] {
	return a.reduce1d(ops.ReduceNanMin, axis, false, 0)
}

// Max1d returns the largest elements along axis.
func (a *DArray[N]) Max1d(axis int) *DArray[N] {
	return a.reduce1d(ops.ReduceMax, axis, false, 0)
}

// NanMax1d returns the largest non missing elements along axis.
func (a *DArray[N]) NanMax1d(axis int) *DArray[N] {
	return a.reduce1d(ops.ReduceNanMax, axis, false, 0)
}

// Mean1d returns the means along axis.
func (a *DArray[N]) Mean1d(axis int) *DArray[N] {
	return a.reduce1d(ops.ReduceMean, axis, false, 0)
}

// NanMean1d returns the means of the non missing elements along axis.
func (a *DArray[N]) NanMean1d(axis int) *DArray[N] {
	return a.reduce1d(ops.ReduceNanMean, axis, false, 0)
}

// Varc1d returns the variance along axis with ddof delta degrees of freedom.
func (a *DArray[N]) Varc1d(axis, ddof int) *DArray[N] {
	return a.reduce1d(ops.ReduceVarc, axis, false, ddof)
}

// NanVarc1d returns the variance of the non missing elements along axis.
func (a *DArray[N]) NanVarc1d(axis, ddof int) *DArray[N] {
	return a.reduce1d(ops.ReduceNanVarc, axis, false, ddof)
}

// ArgMin1d returns the index along axis of the smallest element of every lane.
func (a *DArray[N]) ArgMin1d(axis int) *DArray[int32] {
	return a.arg1d("argMin1d", axis, ops.ArgMin[N])
}

// ArgMax1d returns the index along axis of the largest element of every lane.
func (a *DArray[N]) ArgMax1d(axis int) *DArray[int32] {
	return a.arg1d("argMax1d", axis, ops.ArgMax[N])
}

func (a *DArray[N]) arg1d(op string, axis int, fn func([]N, *layout.StrideLoop) int) *DArray[int32] {
	shape, lanes := a.lanes(op, axis, false)
	out := Of[int32](a.m).Zeros(shape.Shape(), layout.C)
	src, data := a.storage.Data(), out.storage.Data()
	a.forLanes(lanes, func(i int) {
		data[i] = int32(fn(src, lanes[i]))
	})
	return out
}

// Norm returns the p-norm (sum |x|^p)^(1/p) of all elements. p = 1 and p = 2 take
// dedicated paths; they agree with the general formula.
func (a *DArray[N]) Norm(p float64) N {
	if p <= 0 {
		panicf(ErrIllegalArgument, "norm: p must be positive, got %v", p)
	}
	acc := 0.0
	data := a.storage.Data()
	loop := a.Loop(layout.S)
	for _, off := range loop.Offsets {
		for i, q := 0, off; i < loop.Size; i, q = i+1, q+loop.Step {
			v := math.Abs(a.dt.Float64(data[q]))
			switch p {
			case 1:
				acc += v
			case 2:
				acc += v * v
			default:
				acc += math.Pow(v, p)
			}
		}
	}
	switch p {
	case 1:
		return a.dt.Cast(acc)
	case 2:
		return a.dt.Cast(math.Sqrt(acc))
	default:
		return a.dt.Cast(math.Pow(acc, 1/p))
	}
}

// Normalize returns a copy of a divided by its p-norm.
func (a *DArray[N]) Normalize(p float64) *DArray[N] {
	return a.Copy(layout.A).NormalizeInplace(p)
}

// NormalizeInplace divides a by its p-norm. A zero norm leaves a unchanged.
func (a *DArray[N]) NormalizeInplace(p float64) *DArray[N] {
	norm := a.Norm(p)
	if norm == 0 {
		return a
	}
	return a.DivScalarInplace(norm)
}
