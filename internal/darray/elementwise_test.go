package darray

import (
	"math"
	"testing"

	"github.com/born-ml/darray/internal/layout"
	"github.com/born-ml/darray/internal/ops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnaryOps(t *testing.T) {
	m := newTestManager(t, 1)
	f := m.Double()

	t.Run("copy then mutate", func(t *testing.T) {
		a := f.Seq(shape(2, 2), layout.C)
		b := a.Sqr()
		assert.Equal(t, []float64{0, 1, 2, 3}, a.Values(layout.C))
		assert.Equal(t, []float64{0, 1, 4, 9}, b.Values(layout.C))

		a.SqrInplace().SqrtInplace()
		assert.Equal(t, []float64{0, 1, 2, 3}, a.Values(layout.C))
	})

	t.Run("views are mutated through", func(t *testing.T) {
		a := f.Seq(shape(3, 3), layout.C)
		a.Narrow(1, true, 1, 2).NegInplace()
		assert.Equal(t, []float64{0, -1, 2, 3, -4, 5, 6, -7, 8}, a.Values(layout.C))
	})

	t.Run("float only on integral", func(t *testing.T) {
		ints := m.Int().Seq(shape(3), layout.C)
		requirePanicIs(t, ErrUnsupportedDType, func() { ints.Log() })
		requirePanicIs(t, ErrIllegalArgument, func() { ints.SinInplace() })
		assert.Equal(t, []int32{0, 1, 4}, ints.Sqr().Values(layout.C))
		assert.Equal(t, []int32{0, -1, -2}, ints.Neg().Values(layout.C))
	})

	t.Run("catalog", func(t *testing.T) {
		a := f.SeqFrom(-1, 0.5, shape(5), layout.C) // -1 -0.5 0 0.5 1
		assert.Equal(t, []float64{-1, -1, 0, 1, 1}, a.Sign().Values(layout.C))
		assert.Equal(t, []float64{1, 0.5, 0, 0.5, 1}, a.Abs().Values(layout.C))
		assert.Equal(t, []float64{-1, -0, 0, 0, 1}, a.Rint().Values(layout.C))
		assert.Equal(t, []float64{-1, -1, 0, 0, 1}, a.Floor().Values(layout.C))
		assert.Equal(t, []float64{-1, -0, 0, 1, 1}, a.Ceil().Values(layout.C))
		assert.Equal(t, []float64{-0.5, -0.5, 0, 0.5, 0.5}, a.Clamp(-0.5, 0.5).Values(layout.C))
		assert.InDelta(t, 0.5, a.Sigmoid().Get(2), 1e-12)
		assert.InDelta(t, math.Tanh(0.5), a.Tanh().Get(3), 1e-12)
		assert.InDelta(t, math.Pi/2, a.Asin().Get(4), 1e-12)
		assert.InDelta(t, 1, a.Exp().Log().Get(4), 1e-12)
		assert.InDelta(t, 0.5, a.Expm1().Log1p().Get(3), 1e-12)
		assert.InDelta(t, 0.25, a.Pow(2).Get(1), 1e-12)
		assert.InDelta(t, math.Cos(1), a.Cos().Get(0), 1e-12)
	})

	t.Run("missing values", func(t *testing.T) {
		a := f.Seq(shape(4), layout.C)
		a.Set(math.NaN(), 1)
		a.Set(math.Inf(1), 2)
		assert.Equal(t, []float64{0, -1, 9, 3}, a.NanToNum(-1, -9, 9).Values(layout.C))
		assert.Equal(t, 1, a.NanCount())
		a.FillNaNInplace(5)
		assert.Equal(t, 5.0, a.Get(1))
		assert.Equal(t, []float64{7, 7, 7, 7}, a.Fill(7).Values(layout.C))
	})

	t.Run("compare mask", func(t *testing.T) {
		a := f.Seq(shape(2, 3), layout.C)
		assert.Equal(t, []float64{0, 0, 0, 1, 1, 1}, a.CompareMask(ops.GT, 2).Values(layout.C))
		assert.Equal(t, 3.0, a.CompareMaskInplace(ops.LT, 3).Sum())
	})
}

func TestBinaryOps(t *testing.T) {
	m := newTestManager(t, 2)
	f := m.Double()

	t.Run("broadcast law", func(t *testing.T) {
		a := f.Seq(shape(3, 1, 5), layout.C)
		b := f.Seq(shape(4, 5), layout.C)
		c := a.Add(b)
		require.Equal(t, []int{3, 4, 5}, c.Shape().Dims())
		for i := range 3 {
			for j := range 4 {
				for k := range 5 {
					require.Equal(t, a.Get(i, 0, k)+b.Get(j, k), c.Get(i, j, k))
				}
			}
		}

		requirePanicIs(t, ErrShapeMismatch, func() { f.Zeros(shape(3, 4), layout.C).Add(f.Zeros(shape(4, 5), layout.C)) })
	})

	t.Run("in place keeps the receiver shape", func(t *testing.T) {
		a := f.Seq(shape(2, 3), layout.C)
		row := f.Seq(shape(3), layout.C)
		a.MulInplace(row)
		assert.Equal(t, []float64{0, 1, 4, 0, 4, 10}, a.Values(layout.C))
		requirePanicIs(t, ErrShapeMismatch, func() { row.AddInplace(a) })
	})

	t.Run("operands are not modified", func(t *testing.T) {
		a := f.Seq(shape(2, 2), layout.C)
		b := f.Full(shape(2, 2), 2, layout.F)
		assert.Equal(t, []float64{-2, -1, 0, 1}, a.Sub(b).Values(layout.C))
		assert.Equal(t, []float64{0, 0.5, 1, 1.5}, a.Div(b).Values(layout.C))
		assert.Equal(t, []float64{0, 1, 2, 2}, a.Minimum(b).Values(layout.C))
		assert.Equal(t, []float64{2, 2, 2, 3}, a.Maximum(b).Values(layout.C))
		assert.Equal(t, []float64{0, 1, 2, 3}, a.Values(layout.C))
	})

	t.Run("scalars", func(t *testing.T) {
		a := f.Seq(shape(3), layout.C)
		assert.Equal(t, []float64{10, 11, 12}, a.AddScalar(10).Values(layout.C))
		a.MulScalarInplace(3).SubScalarInplace(1)
		assert.Equal(t, []float64{-1, 2, 5}, a.Values(layout.C))
		assert.Equal(t, []float64{0, 2, 2}, a.MaximumScalar(0).MinimumScalar(2).Values(layout.C))
		assert.Equal(t, []float64{-0.5, 1, 2.5}, a.DivScalar(2).Values(layout.C))
	})

	t.Run("integral division by zero", func(t *testing.T) {
		ints := m.Int().Seq(shape(2), layout.C)
		out := ints.DivScalar(0)
		assert.Equal(t, 2, out.NanCount())
	})

	t.Run("integral missing values survive arithmetic", func(t *testing.T) {
		ints := m.Int().Seq(shape(2), layout.C)
		ints.Set(math.MinInt32, 0)
		require.Equal(t, 1, ints.NanCount())

		shifted := ints.AddScalar(1)
		assert.Equal(t, 1, shifted.NanCount())
		assert.Equal(t, int32(2), shifted.NanSum())
		assert.Equal(t, 1, ints.Sqr().NanCount())
		assert.Equal(t, 1, ints.MinimumScalar(5).NanCount())
		assert.Equal(t, []int32{math.MinInt32, -1}, ints.Mul(ints.Neg()).Values(layout.C))
		assert.Equal(t, 1, ints.SubScalar(1).NanCount())
	})
}

func TestReductions(t *testing.T) {
	m := newTestManager(t, 1)
	f := m.Double()

	t.Run("nan skip law", func(t *testing.T) {
		a := f.Seq(shape(4, 5), layout.C)
		nan := []int{3, 7, 8, 19}
		sum := a.Sum()
		for _, p := range nan {
			sum -= a.Storage().Get(p)
			a.Storage().Set(p, math.NaN())
		}
		k := len(nan)
		assert.Equal(t, k, a.NanCount())
		assert.Equal(t, sum, a.NanSum())
		assert.InDelta(t, sum/float64(a.Size()-k), a.NanMean(), 1e-12)
		assert.True(t, math.IsNaN(a.Sum()))
		assert.True(t, math.IsNaN(a.Mean()))
	})

	t.Run("full reductions", func(t *testing.T) {
		a := f.SeqFrom(1, 1, shape(2, 3), layout.F)
		assert.Equal(t, 21.0, a.Sum())
		assert.Equal(t, 720.0, a.Prod())
		assert.Equal(t, 1.0, a.Min())
		assert.Equal(t, 6.0, a.Max())
		assert.Equal(t, 3.5, a.Mean())
		assert.InDelta(t, 3.5, a.Varc(1), 1e-12)
		assert.Equal(t, 0, a.ZeroCount())
		// C order position of 6 in an F ordered 2x3 array is (1,2)
		assert.Equal(t, 5, a.ArgMax())
		assert.Equal(t, 0, a.ArgMin())
	})

	t.Run("axis reductions", func(t *testing.T) {
		a := f.Seq(shape(2, 3), layout.C)
		assert.Equal(t, []float64{3, 5, 7}, a.Sum1d(0).Values(layout.C))
		assert.Equal(t, []float64{3, 12}, a.Sum1d(1).Values(layout.C))
		assert.Equal(t, []float64{1, 4}, a.Mean1d(1).Values(layout.C))
		assert.Equal(t, []float64{0, 3}, a.Min1d(1).Values(layout.C))
		assert.Equal(t, []float64{3, 4, 5}, a.Max1d(0).Values(layout.C))
		assert.Equal(t, []float64{0, 4, 10}, a.Prod1d(0).Values(layout.C))
		assert.Equal(t, []float64{1, 1}, a.Varc1d(1, 1).Values(layout.C))

		keep := a.Reduce1d(ops.ReduceSum, 1, true)
		assert.Equal(t, []int{2, 1}, keep.Shape().Dims())

		a.Set(math.NaN(), 0, 1)
		assert.Equal(t, []float64{2, 12}, a.NanSum1d(1).Values(layout.C))
		assert.Equal(t, []float64{1, 4}, a.NanMean1d(1).Values(layout.C))
		assert.True(t, math.IsNaN(a.Sum1d(1).Get(0)))
		assert.Equal(t, []float64{0, 3}, a.NanMin1d(1).Values(layout.C))
		assert.Equal(t, []float64{2, 5}, a.NanMax1d(1).Values(layout.C))
		assert.Equal(t, []float64{0, 60}, a.NanProd1d(1).Values(layout.C))
		assert.Equal(t, []float64{2, 1}, a.NanVarc1d(1, 1).Values(layout.C))

		assert.Equal(t, []int32{2, 2}, a.ArgMax1d(1).Values(layout.C))
		assert.Equal(t, []int32{0, 0}, a.ArgMin1d(1).Values(layout.C))

		v := f.Seq(shape(4), layout.C).Sum1d(0)
		assert.True(t, v.IsScalar())
		assert.Equal(t, 6.0, v.Item())
		requirePanicIs(t, ErrOutOfRange, func() { a.Sum1d(2) })
	})

	t.Run("strided axis reduction", func(t *testing.T) {
		a := f.Seq(shape(4, 6), layout.C).T().Narrow(0, true, 1, 5)
		ref := a.Copy(layout.C)
		assert.Equal(t, ref.Sum1d(0).Values(layout.C), a.Sum1d(0).Values(layout.C))
		assert.Equal(t, ref.Sum1d(1).Values(layout.C), a.Sum1d(1).Values(layout.C))
	})

	t.Run("norm", func(t *testing.T) {
		a := f.SeqFrom(-2, 1, shape(5), layout.C) // -2 -1 0 1 2
		assert.Equal(t, 6.0, a.Norm(1))
		assert.InDelta(t, math.Sqrt(10), a.Norm(2), 1e-12)
		assert.InDelta(t, math.Cbrt(18), a.Norm(3), 1e-12)
		assert.InDelta(t, a.Norm(2), math.Pow(4+1+0+1+4, 0.5), 1e-12)
		assert.InDelta(t, 1, a.Normalize(2).Norm(2), 1e-12)
		requirePanicIs(t, ErrIllegalArgument, func() { a.Norm(0) })

		z := f.Zeros(shape(3), layout.C)
		assert.Equal(t, []float64{0, 0, 0}, z.Normalize(1).Values(layout.C))
	})
}
