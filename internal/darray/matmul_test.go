package darray

import (
	"fmt"
	"math/rand/v2"
	"runtime"
	"testing"

	"github.com/born-ml/darray/internal/layout"
	"github.com/born-ml/darray/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// naiveMm is the triple loop reference product.
func naiveMm(a, b *DArray[float64]) [][]float64 {
	out := make([][]float64, a.Dim(0))
	for i := range out {
		out[i] = make([]float64, b.Dim(1))
		for j := range out[i] {
			for k := range a.Dim(1) {
				out[i][j] += a.Get(i, k) * b.Get(k, j)
			}
		}
	}
	return out
}

func assertMatrix(t *testing.T, want [][]float64, got *DArray[float64], delta float64) {
	t.Helper()
	require.Equal(t, []int{len(want), len(want[0])}, got.Shape().Dims())
	for i := range want {
		for j := range want[i] {
			require.InDelta(t, want[i][j], got.Get(i, j), delta, "element (%d,%d)", i, j)
		}
	}
}

func TestMm(t *testing.T) {
	sizes := [][3]int{{3, 4, 5}, {257, 129, 65}}
	for _, sz := range sizes {
		var results []*DArray[float64]
		for _, threads := range []int{1, 4, 8} {
			t.Run(fmt.Sprintf("%dx%dx%d/threads=%d", sz[0], sz[1], sz[2], threads), func(t *testing.T) {
				m := newTestManager(t, threads)
				f := m.Double()
				r := rand.New(rand.NewPCG(uint64(sz[0]), 13))
				a := f.Random(shape(sz[0], sz[1]), r, layout.C)
				b := f.Random(shape(sz[1], sz[2]), r, layout.F)
				want := naiveMm(a, b)

				c := a.Mm(b, layout.C)
				assert.True(t, c.Layout().IsCOrdered())
				assertMatrix(t, want, c, 1e-9)

				fc := a.Mm(b, layout.F)
				assert.True(t, fc.Layout().IsFOrdered())
				assertMatrix(t, want, fc, 1e-9)

				// transposed operands are strided views
				tt := b.T().Mm(a.T(), layout.C).T()
				assertMatrix(t, want, tt, 1e-9)
				results = append(results, c)
			})
		}
		for _, r := range results[1:] {
			assert.True(t, r.DeepEquals(results[0], 1e-9))
		}
	}
}

func TestMmErrors(t *testing.T) {
	m := newTestManager(t, 2)
	f := m.Double()
	a := f.Zeros(shape(3, 4), layout.C)

	requirePanicIs(t, ErrIllegalArgument, func() { a.Mm(f.Zeros(shape(4, 2), layout.C), layout.S) })
	requirePanicIs(t, ErrIllegalArgument, func() { a.Mm(f.Zeros(shape(4, 2), layout.C), layout.A) })

	err := Try(func() { a.Mm(f.Zeros(shape(3, 2), layout.C), layout.C) })
	require.ErrorIs(t, err, ErrShapeMismatch)
	assert.Contains(t, err.Error(), "[3,4]")
	assert.Contains(t, err.Error(), "[3,2]")

	requirePanicIs(t, ErrNotImplemented, func() { a.AddBmm(a, a) })
}

func TestMmPlan(t *testing.T) {
	for _, threads := range []int{1, 2, 3, 8, 64} {
		for _, bytes := range []int{1, 4, 8} {
			p := newMmPlan(DefaultL2CacheBytes, threads, bytes)
			assert.Zero(t, p.tile%8, "tile %d", p.tile)
			assert.GreaterOrEqual(t, p.tile, 8)
			assert.GreaterOrEqual(t, p.vectorChunk, p.innerChunk)
		}
	}

	p := newMmPlan(DefaultL2CacheBytes, 8, 8)
	assert.Equal(t, 40, p.tile)
	for _, rows := range []int{0, 1, 39, 40, 41, 257} {
		covered := make([]int, rows)
		for _, blk := range p.rowBlocks(rows) {
			require.Less(t, blk[0], blk[1])
			for r := blk[0]; r < blk[1]; r++ {
				covered[r]++
			}
		}
		for r, c := range covered {
			require.Equal(t, 1, c, "row %d of %d", r, rows)
		}
	}
}

func TestVectorAlgebra(t *testing.T) {
	m := newTestManager(t, 2)
	f := m.Double()
	a := f.Seq(shape(2, 3), layout.C) // [[0 1 2] [3 4 5]]
	v := f.SeqFrom(1, 1, shape(3), layout.C)

	assert.Equal(t, 14.0, v.VDot(v))
	assert.Equal(t, 14.0, v.Inner(v))
	assert.Equal(t, 13.0, v.VDotRange(v, 1, 3))
	requirePanicIs(t, ErrShapeMismatch, func() { v.VDot(f.Zeros(shape(2), layout.C)) })
	requirePanicIs(t, ErrOutOfRange, func() { v.VDotRange(v, 2, 4) })

	assert.Equal(t, []float64{8, 26}, a.Mv(v).Values(layout.C))
	requirePanicIs(t, ErrShapeMismatch, func() { a.Mv(f.Zeros(shape(2), layout.C)) })

	w := f.SeqFrom(1, 1, shape(2), layout.C)
	assert.Equal(t, []float64{6, 9, 12}, w.Vtm(a).Values(layout.C))

	outer := w.Outer(v)
	assert.Equal(t, []float64{1, 2, 3, 2, 4, 6}, outer.Values(layout.C))

	// column of a matrix as a strided vector
	col := a.SelSq(1, 2)
	assert.Equal(t, 2.0*1+5*2, col.VDot(w))

	assert.Equal(t, 4.0, a.Trace())
	requirePanicIs(t, ErrIllegalArgument, func() { v.Trace() })
}

func TestBatched(t *testing.T) {
	m := newTestManager(t, 4)
	f := m.Double()
	rng := rand.New(rand.NewPCG(21, 22))
	a := f.Random(shape(3, 5, 4), rng, layout.C)
	b := f.Random(shape(3, 4, 6), rng, layout.C)

	out := a.Bmm(b, layout.C)
	require.Equal(t, []int{3, 5, 6}, out.Shape().Dims())
	for i := range 3 {
		assertMatrix(t, naiveMm(a.SelSq(0, i), b.SelSq(0, i)), out.SelSq(0, i), 1e-12)
	}
	requirePanicIs(t, ErrShapeMismatch, func() { a.Bmm(a, layout.C) })

	v := f.Random(shape(3, 4), rng, layout.C)
	bmv := a.Bmv(v)
	require.Equal(t, []int{3, 5}, bmv.Shape().Dims())
	for i := range 3 {
		assert.True(t, bmv.SelSq(0, i).DeepEquals(a.SelSq(0, i).Mv(v.SelSq(0, i)), 1e-12))
	}

	u := f.Random(shape(3, 5), rng, layout.C)
	bvtm := u.Bvtm(a)
	require.Equal(t, []int{3, 4}, bvtm.Shape().Dims())
	for i := range 3 {
		assert.True(t, bvtm.SelSq(0, i).DeepEquals(u.SelSq(0, i).Vtm(a.SelSq(0, i)), 1e-12))
	}
}

func BenchmarkMm(b *testing.B) {
	for _, threads := range []int{1, 4} {
		b.Run(fmt.Sprintf("threads=%d", threads), func(b *testing.B) {
			m := newTestManager(b, threads)
			rng := rand.New(rand.NewPCG(1, 1))
			x := m.Double().Random(shape(256, 256), rng, layout.C)
			y := m.Double().Random(shape(256, 256), rng, layout.C)
			b.ResetTimer()
			for range b.N {
				x.Mm(y, layout.C)
			}
		})
	}
}

func BenchmarkCopyTo(b *testing.B) {
	m := newTestManager(b, 4)
	x := m.Double().Seq(shape(1024, 1024), layout.C).T()
	dst := m.Double().Zeros(x.Shape(), layout.C)
	b.ResetTimer()
	for range b.N {
		x.CopyTo(dst, layout.C)
	}
}

func TestMmBlockFailure(t *testing.T) {
	m := newTestManager(t, 4)
	a := m.Double().Full(shape(257, 129), 1, layout.C)
	b := m.Double().Full(shape(129, 65), 1, layout.C)
	require.Greater(t, len(newMmPlan(m.L2CacheBytes(), m.Threads(), 8).rowBlocks(257)), 1)

	// Row blocks past the first one read outside the truncated buffer of a.
	a.storage = storage.Wrap(a.storage.Data()[:64*129])
	err := Try(func() { a.Mm(b, layout.C) })
	require.Error(t, err)
	var rerr runtime.Error
	assert.ErrorAs(t, err, &rerr)
}
