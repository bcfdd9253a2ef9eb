package linalg

import (
	"github.com/born-ml/darray/internal/darray"
	"github.com/born-ml/darray/internal/dtype"
	"github.com/born-ml/darray/internal/layout"
	"github.com/pkg/errors"
)

// QRDecomposition holds A = Q x R for an m x n matrix with m >= n, computed with
// Householder reflections. The reflection vectors are stored on and below the diagonal
// of qr; rdiag holds the diagonal of R.
type QRDecomposition struct {
	qr    *darray.DArray[float64]
	rdiag []float64
}

// QR factors an m x n matrix with m >= n.
func QR[N dtype.Num](a *darray.DArray[N]) (*QRDecomposition, error) {
	qr, err := toDouble("qr", a)
	if err != nil {
		return nil, err
	}
	m, n := qr.Dim(0), qr.Dim(1)
	if m < n {
		return nil, errors.Wrapf(darray.ErrShapeMismatch, "qr: expected rows >= columns, got shape %v", a.Shape())
	}
	rdiag := make([]float64, n)
	for k := range n {
		vk := qr.SelSq(1, k).Narrow(0, true, k, m)
		nrm := vk.Norm(2)
		if nrm != 0 {
			if vk.Get(0) < 0 {
				nrm = -nrm
			}
			vk.DivScalarInplace(nrm)
			vk.Inc(1, 0)
			for j := k + 1; j < n; j++ {
				vj := qr.SelSq(1, j).Narrow(0, true, k, m)
				s := -vk.VDot(vj) / vk.Get(0)
				vj.AddInplace(vk.MulScalar(s))
			}
		}
		rdiag[k] = -nrm
	}
	return &QRDecomposition{qr: qr, rdiag: rdiag}, nil
}

// IsFullRank reports whether R has no zero on its diagonal.
func (d *QRDecomposition) IsFullRank() bool {
	for _, r := range d.rdiag {
		if r == 0 {
			return false
		}
	}
	return true
}

// R returns the n x n upper triangular factor.
func (d *QRDecomposition) R() *darray.DArray[float64] {
	n := d.qr.Dim(1)
	r := d.qr.Manager().Double().Zeros(layout.ShapeOf(n, n), layout.C)
	for i := range n {
		r.Set(d.rdiag[i], i, i)
		for j := i + 1; j < n; j++ {
			r.Set(d.qr.Get(i, j), i, j)
		}
	}
	return r
}

// Q returns the m x n factor with orthonormal columns.
func (d *QRDecomposition) Q() *darray.DArray[float64] {
	m, n := d.qr.Dim(0), d.qr.Dim(1)
	q := d.qr.Manager().Double().Zeros(layout.ShapeOf(m, n), layout.C)
	for k := n - 1; k >= 0; k-- {
		q.Set(1, k, k)
		if d.qr.Get(k, k) == 0 {
			continue
		}
		vk := d.qr.SelSq(1, k).Narrow(0, true, k, m)
		for j := k; j < n; j++ {
			qj := q.SelSq(1, j).Narrow(0, true, k, m)
			s := -vk.VDot(qj) / vk.Get(0)
			qj.AddInplace(vk.MulScalar(s))
		}
	}
	return q
}

// Solve returns the least squares solution X minimizing ||A x X - B||. B is a vector or a
// matrix with m rows. The result has n rows.
func (d *QRDecomposition) Solve(b *darray.DArray[float64]) (*darray.DArray[float64], error) {
	m, n := d.qr.Dim(0), d.qr.Dim(1)
	x, vector, err := rhs("qr", b, m)
	if err != nil {
		return nil, err
	}
	if !d.IsFullRank() {
		return nil, errors.Wrap(ErrSingular, "qr: matrix is rank deficient")
	}
	cols := x.Dim(1)
	// Q^T x B
	for k := range n {
		vk := d.qr.SelSq(1, k).Narrow(0, true, k, m)
		for j := range cols {
			xj := x.SelSq(1, j).Narrow(0, true, k, m)
			s := -vk.VDot(xj) / vk.Get(0)
			xj.AddInplace(vk.MulScalar(s))
		}
	}
	// R x X = Q^T x B
	for k := n - 1; k >= 0; k-- {
		for j := range cols {
			x.Set(x.Get(k, j)/d.rdiag[k], k, j)
		}
		for i := range k {
			f := d.qr.Get(i, k)
			for j := range cols {
				x.Set(x.Get(i, j)-x.Get(k, j)*f, i, j)
			}
		}
	}
	return solution(x.Narrow(0, true, 0, n).Copy(layout.C), vector), nil
}
