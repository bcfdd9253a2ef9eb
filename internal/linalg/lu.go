package linalg

import (
	"github.com/born-ml/darray/internal/darray"
	"github.com/born-ml/darray/internal/dtype"
	"github.com/born-ml/darray/internal/layout"
	"github.com/pkg/errors"
)

// LUDecomposition holds P x A = L x U computed by Gaussian elimination with partial
// pivoting. L is unit lower triangular and stored below the diagonal of lu.
type LUDecomposition struct {
	lu    *darray.DArray[float64]
	pivot []int
	sign  float64
}

// LU factors a square matrix. Pivot rows are chosen by largest absolute value.
// A singular matrix still factors; Solve reports ErrSingular and Det is zero.
func LU[N dtype.Num](a *darray.DArray[N]) (*LUDecomposition, error) {
	lu, err := toSquare("lu", a)
	if err != nil {
		return nil, err
	}
	n := lu.Dim(0)
	pivot := make([]int, n)
	for i := range pivot {
		pivot[i] = i
	}
	sign := 1.0
	for k := range n {
		p := k + lu.SelSq(1, k).Narrow(0, true, k, n).Abs().ArgMax()
		if p != k {
			swapRows(lu, p, k)
			pivot[p], pivot[k] = pivot[k], pivot[p]
			sign = -sign
		}
		pkk := lu.Get(k, k)
		if pkk == 0 || k == n-1 {
			continue
		}
		col := lu.SelSq(1, k).Narrow(0, true, k+1, n).DivScalarInplace(pkk)
		row := lu.SelSq(0, k).Narrow(0, true, k+1, n)
		lu.NarrowAll(true, []int{k + 1, k + 1}, []int{n, n}).SubInplace(col.Outer(row))
	}
	return &LUDecomposition{lu: lu, pivot: pivot, sign: sign}, nil
}

// L returns the unit lower triangular factor.
func (d *LUDecomposition) L() *darray.DArray[float64] {
	n := d.lu.Dim(0)
	l := d.lu.Manager().Double().Eye(n, layout.C)
	for i := range n {
		for j := range i {
			l.Set(d.lu.Get(i, j), i, j)
		}
	}
	return l
}

// U returns the upper triangular factor.
func (d *LUDecomposition) U() *darray.DArray[float64] {
	n := d.lu.Dim(0)
	u := d.lu.Manager().Double().Zeros(layout.ShapeOf(n, n), layout.C)
	for i := range n {
		for j := i; j < n; j++ {
			u.Set(d.lu.Get(i, j), i, j)
		}
	}
	return u
}

// Pivot returns the row permutation: row i of P x A is row Pivot()[i] of A.
func (d *LUDecomposition) Pivot() []int {
	return append([]int(nil), d.pivot...)
}

// IsSingular reports whether U has a zero on its diagonal.
func (d *LUDecomposition) IsSingular() bool {
	for i := range d.lu.Dim(0) {
		if d.lu.Get(i, i) == 0 {
			return true
		}
	}
	return false
}

// Det returns the determinant of the factored matrix.
func (d *LUDecomposition) Det() float64 {
	det := d.sign
	for i := range d.lu.Dim(0) {
		det *= d.lu.Get(i, i)
	}
	return det
}

// Solve returns X such that A x X = B. B is a vector or a matrix with as many rows as A.
func (d *LUDecomposition) Solve(b *darray.DArray[float64]) (*darray.DArray[float64], error) {
	n := d.lu.Dim(0)
	pb, vector, err := rhs("lu", b, n)
	if err != nil {
		return nil, err
	}
	if d.IsSingular() {
		return nil, errors.WithStack(ErrSingular)
	}
	x := pb.Manager().Double().Zeros(pb.Shape(), layout.C)
	for i, r := range d.pivot {
		pb.SelSq(0, r).CopyTo(x.SelSq(0, i), layout.C)
	}
	cols := x.Dim(1)
	for k := range n {
		for i := k + 1; i < n; i++ {
			f := d.lu.Get(i, k)
			for j := range cols {
				x.Set(x.Get(i, j)-x.Get(k, j)*f, i, j)
			}
		}
	}
	for k := n - 1; k >= 0; k-- {
		ukk := d.lu.Get(k, k)
		for j := range cols {
			x.Set(x.Get(k, j)/ukk, k, j)
		}
		for i := range k {
			f := d.lu.Get(i, k)
			for j := range cols {
				x.Set(x.Get(i, j)-x.Get(k, j)*f, i, j)
			}
		}
	}
	return solution(x, vector), nil
}
