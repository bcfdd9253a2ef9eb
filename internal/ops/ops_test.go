package ops

import (
	"math"
	"testing"

	"github.com/born-ml/darray/internal/layout"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func denseLoop(n int) *layout.StrideLoop {
	return layout.NewLoop(layout.Dense(layout.ShapeOf(n), 0, layout.C), layout.C)
}

func TestUnary(t *testing.T) {
	t.Run("float functions", func(t *testing.T) {
		data := []float64{0, 1, 4, 9}
		Sqrt[float64]().Apply(data, denseLoop(4))
		assert.Equal(t, []float64{0, 1, 2, 3}, data)

		data = []float64{0, 1}
		Exp[float64]().Apply(data, denseLoop(2))
		assert.InDelta(t, math.E, data[1], 1e-12)

		data = []float64{0, 1000, -1000}
		Sigmoid[float64]().Apply(data, denseLoop(3))
		assert.InDeltaSlice(t, []float64{0.5, 1, 0}, data, 1e-12)

		data = []float64{2, 3}
		Pow[float64](3).Apply(data, denseLoop(2))
		assert.Equal(t, []float64{8, 27}, data)
	})

	t.Run("float only ops reject integral types", func(t *testing.T) {
		err := exceptions.TryCatch[error](func() {
			Log[int32]().Apply([]int32{1, 2}, denseLoop(2))
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedDType)
		assert.ErrorIs(t, err, layout.ErrIllegalArgument)
		assert.Contains(t, err.Error(), "log")
	})

	t.Run("strided loop", func(t *testing.T) {
		// Every second element of a 2x4 C array.
		l := layout.New(layout.ShapeOf(2, 2), 0, []int{4, 2})
		data := []float64{1, 1, 1, 1, 1, 1, 1, 1}
		Neg[float64]().Apply(data, layout.NewLoop(l, layout.C))
		assert.Equal(t, []float64{-1, 1, -1, 1, -1, 1, -1, 1}, data)
	})

	t.Run("rounding", func(t *testing.T) {
		data := []float64{1.5, 2.5, -1.5}
		Rint[float64]().Apply(data, denseLoop(3))
		assert.Equal(t, []float64{2, 2, -2}, data)

		data = []float64{1.2, -1.2}
		Ceil[float64]().Apply(data, denseLoop(2))
		assert.Equal(t, []float64{2, -1}, data)

		ints := []int32{3, -3}
		Floor[int32]().Apply(ints, denseLoop(2))
		assert.Equal(t, []int32{3, -3}, ints)
	})

	t.Run("missing values", func(t *testing.T) {
		nan := math.NaN()
		data := []float64{nan, math.Inf(-1), math.Inf(1), 2}
		NanToNum[float64](0, -10, 10).Apply(data, denseLoop(4))
		assert.Equal(t, []float64{0, -10, 10, 2}, data)

		data = []float64{nan, 1}
		FillNaN[float64](7).Apply(data, denseLoop(2))
		assert.Equal(t, []float64{7, 1}, data)

		bytes := []int8{math.MinInt8, 5}
		FillNaN[int8](-1).Apply(bytes, denseLoop(2))
		assert.Equal(t, []int8{-1, 5}, bytes)
	})

	t.Run("clamp with missing bound", func(t *testing.T) {
		data := []float64{-5, 0, 5}
		Clamp[float64](math.NaN(), 1).Apply(data, denseLoop(3))
		assert.Equal(t, []float64{-5, 0, 1}, data)

		data = []float64{-5, 0, 5}
		Clamp[float64](-1, 1).Apply(data, denseLoop(3))
		assert.Equal(t, []float64{-1, 0, 1}, data)
	})

	t.Run("sign abs sqr", func(t *testing.T) {
		data := []int32{-4, 0, 3}
		Sign[int32]().Apply(data, denseLoop(3))
		assert.Equal(t, []int32{-1, 0, 1}, data)

		data = []int32{-4, 0, 3}
		Abs[int32]().Apply(data, denseLoop(3))
		Sqr[int32]().Apply(data, denseLoop(3))
		assert.Equal(t, []int32{16, 0, 9}, data)
	})

	t.Run("integral missing marker is kept", func(t *testing.T) {
		ints := []int32{math.MinInt32, -3}
		Sqr[int32]().Apply(ints, denseLoop(2))
		assert.Equal(t, []int32{math.MinInt32, 9}, ints)

		bytes := []int8{math.MinInt8, -3}
		Neg[int8]().Apply(bytes, denseLoop(2))
		Abs[int8]().Apply(bytes, denseLoop(2))
		assert.Equal(t, []int8{math.MinInt8, 3}, bytes)
	})

	t.Run("compare mask", func(t *testing.T) {
		data := []float64{1, 2, 3, math.NaN()}
		CompareMask[float64](GE, 2).Apply(data, denseLoop(4))
		assert.Equal(t, []float64{0, 1, 1, 0}, data)

		data = []float64{1, math.NaN()}
		CompareMask[float64](IsNaN, 0).Apply(data, denseLoop(2))
		assert.Equal(t, []float64{0, 1}, data)
		assert.Equal(t, ">=", GE.String())
	})
}

func TestBinary(t *testing.T) {
	t.Run("joint loops", func(t *testing.T) {
		dst := []float64{1, 2, 3, 4, 5, 6}
		// src is a row vector broadcast over two rows.
		src := []float64{10, 20, 30}
		dl := layout.Dense(layout.ShapeOf(2, 3), 0, layout.C)
		sl := layout.Dense(layout.ShapeOf(3), 0, layout.C).BroadcastTo(layout.ShapeOf(2, 3))
		loops := layout.NewJointLoops(layout.C, dl, sl)
		Add[float64]().Apply(dst, loops[0], src, loops[1])
		assert.Equal(t, []float64{11, 22, 33, 14, 25, 36}, dst)
	})

	t.Run("scalar", func(t *testing.T) {
		dst := []float64{1, 2, 3}
		Mul[float64]().ApplyScalar(dst, denseLoop(3), 2)
		assert.Equal(t, []float64{2, 4, 6}, dst)
	})

	t.Run("integral division by zero", func(t *testing.T) {
		dst := []int32{6, 1}
		Div[int32]().ApplyScalar(dst, denseLoop(2), 0)
		assert.Equal(t, []int32{math.MinInt32, math.MinInt32}, dst)
	})

	t.Run("integral arithmetic propagates missing", func(t *testing.T) {
		for _, op := range []Binary[int32]{Add[int32](), Sub[int32](), Mul[int32](), Div[int32]()} {
			dst := []int32{math.MinInt32, 6}
			op.ApplyScalar(dst, denseLoop(2), 2)
			assert.Equal(t, int32(math.MinInt32), dst[0], op.Name)
			assert.NotEqual(t, int32(math.MinInt32), dst[1], op.Name)

			dst = []int32{4, 6}
			op.ApplyScalar(dst, denseLoop(2), math.MinInt32)
			assert.Equal(t, []int32{math.MinInt32, math.MinInt32}, dst, op.Name)
		}

		dst := []int8{math.MinInt8, 1}
		src := []int8{1, math.MinInt8}
		loops := layout.NewJointLoops(layout.C, layout.Dense(layout.ShapeOf(2), 0, layout.C),
			layout.Dense(layout.ShapeOf(2), 0, layout.C))
		Add[int8]().Apply(dst, loops[0], src, loops[1])
		assert.Equal(t, []int8{math.MinInt8, math.MinInt8}, dst)
	})

	t.Run("min max propagate missing", func(t *testing.T) {
		dst := []float64{1, 5, math.NaN()}
		Min[float64]().ApplyScalar(dst, denseLoop(3), 3)
		assert.Equal(t, 1.0, dst[0])
		assert.Equal(t, 3.0, dst[1])
		assert.True(t, math.IsNaN(dst[2]))

		dst = []float64{1, 5}
		Max[float64]().ApplyScalar(dst, denseLoop(2), 3)
		assert.Equal(t, []float64{3, 5}, dst)
	})
}

func TestReduce(t *testing.T) {
	nan := math.NaN()
	data := []float64{1, nan, 2, 3, nan, 6}
	loop := denseLoop(len(data))

	t.Run("nan skip law", func(t *testing.T) {
		k := NanCount(data, loop)
		assert.Equal(t, 2, k)
		assert.Equal(t, 12.0, Reduce(ReduceNanSum, data, loop, 0))
		assert.InDelta(t, 12.0/float64(len(data)-k), Reduce(ReduceNanMean, data, loop, 0), 1e-12)
	})

	t.Run("plain reductions propagate", func(t *testing.T) {
		for _, r := range []Reduction{ReduceSum, ReduceProd, ReduceMin, ReduceMax, ReduceMean, ReduceVarc} {
			assert.True(t, math.IsNaN(Reduce(r, data, loop, 0)), r.String())
			assert.False(t, r.SkipsNaN())
		}
	})

	t.Run("nan aware values", func(t *testing.T) {
		assert.Equal(t, 36.0, Reduce(ReduceNanProd, data, loop, 0))
		assert.Equal(t, 1.0, Reduce(ReduceNanMin, data, loop, 0))
		assert.Equal(t, 6.0, Reduce(ReduceNanMax, data, loop, 0))
		// values 1,2,3,6: mean 3, squared residuals 4+1+0+9
		assert.InDelta(t, 14.0/3, Reduce(ReduceNanVarc, data, loop, 1), 1e-12)
		assert.InDelta(t, 14.0/4, Reduce(ReduceNanVarc, data, loop, 0), 1e-12)
	})

	t.Run("variance is stable for large offsets", func(t *testing.T) {
		values := []float64{1e9 + 4, 1e9 + 7, 1e9 + 13, 1e9 + 16}
		assert.InDelta(t, 30.0, Reduce(ReduceVarc, values, denseLoop(4), 1), 1e-6)
	})

	t.Run("strided reduction", func(t *testing.T) {
		// column 1 of a 3x2 C matrix
		l := layout.Dense(layout.ShapeOf(3, 2), 0, layout.C).Narrow(1, false, 1, 2)
		m := []float64{1, 2, 3, 4, 5, 6}
		assert.Equal(t, 12.0, Reduce(ReduceSum, m, layout.NewLoop(l, layout.C), 0))
	})

	t.Run("integral types", func(t *testing.T) {
		ints := []int32{4, math.MinInt32, -2}
		l := denseLoop(3)
		assert.Equal(t, int32(2), Reduce(ReduceNanSum, ints, l, 0))
		assert.Equal(t, int32(math.MinInt32), Reduce(ReduceSum, ints, l, 0))
		assert.Equal(t, int32(-2), Reduce(ReduceNanMin, ints, l, 0))
		assert.Equal(t, 1, NanCount(ints, l))
	})

	t.Run("empty", func(t *testing.T) {
		empty := layout.NewLoop(layout.Dense(layout.ShapeOf(0), 0, layout.C), layout.C)
		assert.Equal(t, 0.0, Reduce(ReduceSum, []float64{}, empty, 0))
		assert.True(t, math.IsNaN(Reduce(ReduceMean, []float64{}, empty, 0)))
		assert.Equal(t, -1, ArgMax([]float64{}, empty))
	})

	t.Run("counts and args", func(t *testing.T) {
		values := []float64{3, 0, nan, 0, 9, 9}
		l := denseLoop(len(values))
		assert.Equal(t, 2, ZeroCount(values, l))
		assert.Equal(t, 1, ArgMin(values, l))
		assert.Equal(t, 4, ArgMax(values, l))
	})

	t.Run("unknown reduction", func(t *testing.T) {
		err := exceptions.TryCatch[error](func() { Reduce(Reduction(99), data, loop, 0) })
		assert.True(t, errors.Is(err, layout.ErrIllegalArgument))
		assert.Equal(t, "unknown", Reduction(99).String())
	})
}
