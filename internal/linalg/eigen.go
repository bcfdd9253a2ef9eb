package linalg

import (
	"cmp"
	"math"
	"slices"

	"github.com/born-ml/darray/internal/darray"
	"github.com/born-ml/darray/internal/dtype"
	"github.com/born-ml/darray/internal/layout"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// maxEigSweeps bounds the number of cyclic Jacobi sweeps.
const maxEigSweeps = 100

// EigenDecomposition holds A = V x diag(values) x V^T for a symmetric matrix.
type EigenDecomposition struct {
	values  *darray.DArray[float64]
	vectors *darray.DArray[float64]
}

// Eig computes all eigenvalues and eigenvectors of a symmetric matrix with cyclic Jacobi
// rotations. Values are sorted in ascending order and column i of Vectors belongs to value i.
func Eig[N dtype.Num](a *darray.DArray[N]) (*EigenDecomposition, error) {
	w, err := toSquare("eig", a)
	if err != nil {
		return nil, err
	}
	n := w.Dim(0)
	scale := 0.0
	if n > 0 {
		scale = w.Abs().Max()
	}
	for i := range n {
		for j := i + 1; j < n; j++ {
			if math.Abs(w.Get(i, j)-w.Get(j, i)) > 1e-12*max(scale, 1) {
				return nil, errors.Wrapf(ErrNotSymmetric, "eig: element (%d,%d)", i, j)
			}
		}
	}
	v := w.Manager().Double().Eye(n, layout.C)

	frob := w.Norm(2)
	sweep := 0
	for ; sweep < maxEigSweeps; sweep++ {
		if offDiagonal(w) <= eps*frob {
			break
		}
		for p := range n {
			for q := p + 1; q < n; q++ {
				rotate(w, v, p, q)
			}
		}
	}
	if sweep == maxEigSweeps {
		return nil, errors.Wrapf(ErrNotConverged, "eig: %d sweeps", maxEigSweeps)
	}
	klog.V(2).Infof("linalg: eig %v converged after %d sweeps", a.Shape(), sweep)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(i, j int) int {
		return cmp.Compare(w.Get(i, i), w.Get(j, j))
	})
	values := w.Manager().Double().Zeros(layout.ShapeOf(n), layout.C)
	vectors := w.Manager().Double().Zeros(layout.ShapeOf(n, n), layout.C)
	for i, k := range order {
		values.Set(w.Get(k, k), i)
		v.SelSq(1, k).CopyTo(vectors.SelSq(1, i), layout.C)
	}
	return &EigenDecomposition{values: values, vectors: vectors}, nil
}

// Values returns the eigenvalues in ascending order.
func (d *EigenDecomposition) Values() *darray.DArray[float64] { return d.values }

// Vectors returns the eigenvectors as columns.
func (d *EigenDecomposition) Vectors() *darray.DArray[float64] { return d.vectors }

// offDiagonal returns the Frobenius norm of the off diagonal part of a square matrix.
func offDiagonal(w *darray.DArray[float64]) float64 {
	s := 0.0
	for i := range w.Dim(0) {
		for j := range w.Dim(1) {
			if i != j {
				s += w.Get(i, j) * w.Get(i, j)
			}
		}
	}
	return math.Sqrt(s)
}

// rotate applies the Jacobi rotation that zeroes w[p][q] to both sides of w and
// accumulates it into the columns of v.
func rotate(w, v *darray.DArray[float64], p, q int) {
	apq := w.Get(p, q)
	if apq == 0 {
		return
	}
	theta := (w.Get(q, q) - w.Get(p, p)) / (2 * apq)
	t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
	c := 1 / math.Sqrt(t*t+1)
	s := t * c
	planeRotation(w.SelSq(1, p), w.SelSq(1, q), c, s)
	planeRotation(w.SelSq(0, p), w.SelSq(0, q), c, s)
	planeRotation(v.SelSq(1, p), v.SelSq(1, q), c, s)
	w.Set(0, p, q)
	w.Set(0, q, p)
}

// planeRotation replaces x and y by c*x - s*y and s*x + c*y.
func planeRotation(x, y *darray.DArray[float64], c, s float64) {
	xs := x.MulScalar(s)
	x.MulScalarInplace(c).SubInplace(y.MulScalar(s))
	y.MulScalarInplace(c).AddInplace(xs)
}
