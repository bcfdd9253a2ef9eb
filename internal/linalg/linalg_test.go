package linalg

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/born-ml/darray/internal/darray"
	"github.com/born-ml/darray/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFactory(t *testing.T) *darray.Factory[float64] {
	t.Helper()
	m := darray.NewManager(darray.Config{Threads: 2, L2CacheBytes: darray.DefaultL2CacheBytes})
	t.Cleanup(m.Close)
	return m.Double()
}

func matrix(t *testing.T, f *darray.Factory[float64], rows, cols int, values ...float64) *darray.DArray[float64] {
	t.Helper()
	a, err := f.Wrap(layout.ShapeOf(rows, cols), layout.C, values)
	require.NoError(t, err)
	return a
}

func vector(t *testing.T, f *darray.Factory[float64], values ...float64) *darray.DArray[float64] {
	t.Helper()
	a, err := f.Wrap(layout.ShapeOf(len(values)), layout.C, values)
	require.NoError(t, err)
	return a
}

func assertClose(t *testing.T, want, got *darray.DArray[float64], tol float64) {
	t.Helper()
	require.Equal(t, want.Shape().Dims(), got.Shape().Dims())
	assert.InDeltaSlice(t, want.Values(layout.C), got.Values(layout.C), tol)
}

func TestCholesky(t *testing.T) {
	f := newFactory(t)
	a := matrix(t, f, 3, 3, 4, 12, -16, 12, 37, -43, -16, -43, 98)

	c, err := Cholesky(a)
	require.NoError(t, err)
	assert.True(t, c.IsSPD())
	assertClose(t, matrix(t, f, 3, 3, 2, 0, 0, 6, 1, 0, -8, 5, 3), c.L(), 1e-12)
	assertClose(t, a, c.L().Mm(c.L().T(), layout.C), 1e-12)

	x, err := c.Solve(vector(t, f, -20, -43, 192))
	require.NoError(t, err)
	assertClose(t, vector(t, f, 1, 2, 3), x, 1e-10)

	xs, err := c.Solve(matrix(t, f, 3, 2, -20, 4, -43, 12, 192, -16))
	require.NoError(t, err)
	assertClose(t, matrix(t, f, 3, 2, 1, 1, 2, 0, 3, 0), xs, 1e-10)

	_, err = c.Solve(vector(t, f, 1, 2))
	require.ErrorIs(t, err, darray.ErrShapeMismatch)

	indefinite, err := Cholesky(matrix(t, f, 2, 2, 1, 2, 2, 1))
	require.NoError(t, err)
	assert.False(t, indefinite.IsSPD())
	_, err = indefinite.Solve(vector(t, f, 1, 1))
	require.ErrorIs(t, err, ErrNotSPD)

	_, err = Cholesky(f.Zeros(layout.ShapeOf(2, 3), layout.C))
	require.ErrorIs(t, err, darray.ErrShapeMismatch)
}

func TestLU(t *testing.T) {
	f := newFactory(t)

	t.Run("small", func(t *testing.T) {
		a := matrix(t, f, 2, 2, 1, 2, 3, 4)
		d, err := LU(a)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 0}, d.Pivot())
		assert.InDelta(t, -2.0, d.Det(), 1e-12)
		assertClose(t, matrix(t, f, 2, 2, 3, 4, 1, 2), d.L().Mm(d.U(), layout.C), 1e-12)
		// the input is not modified
		assert.Equal(t, []float64{1, 2, 3, 4}, a.Values(layout.C))

		x, err := d.Solve(vector(t, f, 5, 11))
		require.NoError(t, err)
		assertClose(t, vector(t, f, 1, 2), x, 1e-12)
	})

	t.Run("random", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(3, 4))
		a := f.Random(layout.ShapeOf(6, 6), rng, layout.F)
		d, err := LU(a)
		require.NoError(t, err)
		assert.False(t, d.IsSingular())

		pa := f.Zeros(layout.ShapeOf(6, 6), layout.C)
		for i, r := range d.Pivot() {
			a.SelSq(0, r).CopyTo(pa.SelSq(0, i), layout.C)
		}
		assertClose(t, pa, d.L().Mm(d.U(), layout.C), 1e-12)

		want := f.Random(layout.ShapeOf(6, 2), rng, layout.C)
		x, err := d.Solve(a.Mm(want, layout.C))
		require.NoError(t, err)
		assertClose(t, want, x, 1e-9)
	})

	t.Run("integral input", func(t *testing.T) {
		m := darray.NewManager(darray.DefaultConfig())
		defer m.Close()
		a, err := m.Int().Wrap(layout.ShapeOf(2, 2), layout.C, []int32{2, 1, 1, 3})
		require.NoError(t, err)
		d, err := LU(a)
		require.NoError(t, err)
		assert.InDelta(t, 5.0, d.Det(), 1e-12)
	})

	t.Run("singular", func(t *testing.T) {
		d, err := LU(matrix(t, f, 2, 2, 1, 2, 2, 4))
		require.NoError(t, err)
		assert.True(t, d.IsSingular())
		assert.Zero(t, d.Det())
		_, err = d.Solve(vector(t, f, 1, 1))
		require.ErrorIs(t, err, ErrSingular)
	})

	_, err := LU(f.Zeros(layout.ShapeOf(3), layout.C))
	require.ErrorIs(t, err, darray.ErrShapeMismatch)
}

func TestQR(t *testing.T) {
	f := newFactory(t)
	rng := rand.New(rand.NewPCG(5, 6))
	a := f.Random(layout.ShapeOf(6, 4), rng, layout.C)

	d, err := QR(a)
	require.NoError(t, err)
	assert.True(t, d.IsFullRank())
	q, r := d.Q(), d.R()
	require.Equal(t, []int{6, 4}, q.Shape().Dims())
	assertClose(t, f.Eye(4, layout.C), q.T().Mm(q, layout.C), 1e-12)
	assertClose(t, a, q.Mm(r, layout.C), 1e-12)
	for i := range 4 {
		for j := range i {
			assert.Zero(t, r.Get(i, j))
		}
	}

	want := vector(t, f, 1, 2, 3, 4)
	x, err := d.Solve(a.Mv(want))
	require.NoError(t, err)
	assertClose(t, want, x, 1e-10)

	// least squares fit of y = 1 + 2x through noiseless points
	design := matrix(t, f, 4, 2, 1, 0, 1, 1, 1, 2, 1, 3)
	line, err := QR(design)
	require.NoError(t, err)
	coef, err := line.Solve(vector(t, f, 1, 3, 5, 7))
	require.NoError(t, err)
	assertClose(t, vector(t, f, 1, 2), coef, 1e-12)

	deficient, err := QR(matrix(t, f, 3, 2, 1, 0, 1, 0, 1, 0))
	require.NoError(t, err)
	assert.False(t, deficient.IsFullRank())
	_, err = deficient.Solve(vector(t, f, 1, 1, 1))
	require.ErrorIs(t, err, ErrSingular)

	_, err = QR(f.Zeros(layout.ShapeOf(2, 3), layout.C))
	require.ErrorIs(t, err, darray.ErrShapeMismatch)
}

func TestEig(t *testing.T) {
	f := newFactory(t)

	d, err := Eig(matrix(t, f, 2, 2, 2, 1, 1, 2))
	require.NoError(t, err)
	assertClose(t, vector(t, f, 1, 3), d.Values(), 1e-12)

	rng := rand.New(rand.NewPCG(7, 8))
	b := f.Random(layout.ShapeOf(5, 5), rng, layout.C)
	a := b.Add(b.T())
	d, err = Eig(a)
	require.NoError(t, err)
	values, vectors := d.Values(), d.Vectors()
	for i := 1; i < 5; i++ {
		assert.LessOrEqual(t, values.Get(i-1), values.Get(i))
	}
	assertClose(t, f.Eye(5, layout.C), vectors.T().Mm(vectors, layout.C), 1e-10)
	assertClose(t, a, vectors.Mul(values).Mm(vectors.T(), layout.C), 1e-10)
	assert.InDelta(t, a.Trace(), values.Sum(), 1e-10)

	_, err = Eig(matrix(t, f, 2, 2, 1, 2, 3, 4))
	require.ErrorIs(t, err, ErrNotSymmetric)
	_, err = Eig(f.Zeros(layout.ShapeOf(2, 3), layout.C))
	require.ErrorIs(t, err, darray.ErrShapeMismatch)
}

func TestSVD(t *testing.T) {
	f := newFactory(t)
	rng := rand.New(rand.NewPCG(9, 10))

	for _, dims := range [][2]int{{6, 4}, {4, 6}, {5, 5}} {
		a := f.Random(layout.ShapeOf(dims[0], dims[1]), rng, layout.C)
		d, err := SVD(a)
		require.NoError(t, err)
		k := min(dims[0], dims[1])
		u, s, v := d.U(), d.S(), d.V()
		require.Equal(t, []int{dims[0], k}, u.Shape().Dims())
		require.Equal(t, []int{dims[1], k}, v.Shape().Dims())
		for i := 1; i < k; i++ {
			assert.GreaterOrEqual(t, s.Get(i-1), s.Get(i))
		}
		assertClose(t, a, u.Mul(s).Mm(v.T(), layout.C), 1e-10)
		assertClose(t, f.Eye(k, layout.C), u.T().Mm(u, layout.C), 1e-10)
		assert.Equal(t, k, d.Rank())
	}

	diag, err := SVD(matrix(t, f, 2, 2, 1, 0, 0, -3))
	require.NoError(t, err)
	assertClose(t, vector(t, f, 3, 1), diag.S(), 1e-12)
	assert.InDelta(t, 3.0, diag.Cond(), 1e-12)

	// repeated column
	deficient, err := SVD(matrix(t, f, 4, 3, 1, 1, 0, 0, 0, 1, 1, 1, 1, 2, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, deficient.Rank())
	assert.True(t, math.IsInf(deficient.Cond(), 1))

	_, err = SVD(f.Zeros(layout.ShapeOf(3), layout.C))
	require.ErrorIs(t, err, darray.ErrShapeMismatch)
}
