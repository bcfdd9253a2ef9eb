package linalg

import (
	"math"

	"github.com/born-ml/darray/internal/darray"
	"github.com/born-ml/darray/internal/dtype"
	"github.com/born-ml/darray/internal/layout"
	"github.com/pkg/errors"
)

// CholeskyDecomposition holds the lower triangular factor L of a symmetric positive
// definite matrix A = L x L^T.
type CholeskyDecomposition struct {
	l   *darray.DArray[float64]
	spd bool
}

// Cholesky factors a square matrix. The factorization always completes; IsSPD reports
// whether the matrix was symmetric positive definite and L is meaningful.
func Cholesky[N dtype.Num](a *darray.DArray[N]) (*CholeskyDecomposition, error) {
	m, err := toSquare("cholesky", a)
	if err != nil {
		return nil, err
	}
	n := m.Dim(0)
	l := m.Manager().Double().Zeros(layout.ShapeOf(n, n), layout.C)
	spd := true
	for j := range n {
		lj := l.SelSq(0, j)
		d := 0.0
		for k := range j {
			s := 0.0
			if k > 0 {
				s = l.SelSq(0, k).VDotRange(lj, 0, k)
			}
			s = (m.Get(j, k) - s) / l.Get(k, k)
			l.Set(s, j, k)
			d += s * s
			spd = spd && m.Get(k, j) == m.Get(j, k)
		}
		d = m.Get(j, j) - d
		spd = spd && d > 0
		l.Set(math.Sqrt(max(d, 0)), j, j)
	}
	return &CholeskyDecomposition{l: l, spd: spd}, nil
}

// L returns the lower triangular factor.
func (c *CholeskyDecomposition) L() *darray.DArray[float64] { return c.l }

// IsSPD reports whether the factored matrix is symmetric positive definite.
func (c *CholeskyDecomposition) IsSPD() bool { return c.spd }

// Solve returns X such that A x X = B. B is a vector or a matrix with as many rows as A.
func (c *CholeskyDecomposition) Solve(b *darray.DArray[float64]) (*darray.DArray[float64], error) {
	n := c.l.Dim(0)
	x, vector, err := rhs("cholesky", b, n)
	if err != nil {
		return nil, err
	}
	if !c.spd {
		return nil, errors.WithStack(ErrNotSPD)
	}
	cols := x.Dim(1)
	// L x Y = B
	for k := range n {
		lkk := c.l.Get(k, k)
		for j := range cols {
			v := x.Get(k, j)
			for i := range k {
				v -= x.Get(i, j) * c.l.Get(k, i)
			}
			x.Set(v/lkk, k, j)
		}
	}
	// L^T x X = Y
	for k := n - 1; k >= 0; k-- {
		lkk := c.l.Get(k, k)
		for j := range cols {
			v := x.Get(k, j)
			for i := k + 1; i < n; i++ {
				v -= x.Get(i, j) * c.l.Get(i, k)
			}
			x.Set(v/lkk, k, j)
		}
	}
	return solution(x, vector), nil
}
