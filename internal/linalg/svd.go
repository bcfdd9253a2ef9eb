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

// maxSVDSweeps bounds the number of one-sided Jacobi sweeps.
const maxSVDSweeps = 75

// SVDDecomposition holds the thin singular value decomposition A = U x diag(S) x V^T of an
// m x n matrix, with k = min(m, n) singular values in descending order.
type SVDDecomposition struct {
	u, s, v *darray.DArray[float64]
	m, n    int
}

// SVD computes the thin singular value decomposition with one-sided Jacobi rotations.
func SVD[N dtype.Num](a *darray.DArray[N]) (*SVDDecomposition, error) {
	w, err := toDouble("svd", a)
	if err != nil {
		return nil, err
	}
	m, n := w.Dim(0), w.Dim(1)
	if m < n {
		// A^T = U' S V'^T gives A = V' S U'^T
		t, err := SVD(w.T())
		if err != nil {
			return nil, err
		}
		return &SVDDecomposition{u: t.v, s: t.s, v: t.u, m: m, n: n}, nil
	}

	u := w
	v := w.Manager().Double().Eye(n, layout.C)
	sweep := 0
	for ; sweep < maxSVDSweeps; sweep++ {
		rotations := 0
		for p := range n {
			for q := p + 1; q < n; q++ {
				up, uq := u.SelSq(1, p), u.SelSq(1, q)
				alpha, beta, gamma := up.VDot(up), uq.VDot(uq), up.VDot(uq)
				if gamma == 0 || math.Abs(gamma) <= float64(m)*eps*math.Sqrt(alpha*beta) {
					continue
				}
				rotations++
				zeta := (beta - alpha) / (2 * gamma)
				t := math.Copysign(1, zeta) / (math.Abs(zeta) + math.Sqrt(1+zeta*zeta))
				c := 1 / math.Sqrt(1+t*t)
				s := c * t
				planeRotation(up, uq, c, s)
				planeRotation(v.SelSq(1, p), v.SelSq(1, q), c, s)
			}
		}
		if rotations == 0 {
			break
		}
	}
	if sweep == maxSVDSweeps {
		return nil, errors.Wrapf(ErrNotConverged, "svd: %d sweeps", maxSVDSweeps)
	}
	klog.V(2).Infof("linalg: svd %v converged after %d sweeps", a.Shape(), sweep)

	sigma := make([]float64, n)
	for j := range n {
		col := u.SelSq(1, j)
		sigma[j] = col.Norm(2)
		if sigma[j] != 0 {
			col.DivScalarInplace(sigma[j])
		}
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(i, j int) int { return cmp.Compare(sigma[j], sigma[i]) })

	f := w.Manager().Double()
	d := &SVDDecomposition{
		u: f.Zeros(layout.ShapeOf(m, n), layout.C),
		s: f.Zeros(layout.ShapeOf(n), layout.C),
		v: f.Zeros(layout.ShapeOf(n, n), layout.C),
		m: m,
		n: n,
	}
	for i, k := range order {
		d.s.Set(sigma[k], i)
		u.SelSq(1, k).CopyTo(d.u.SelSq(1, i), layout.C)
		v.SelSq(1, k).CopyTo(d.v.SelSq(1, i), layout.C)
	}
	return d, nil
}

// U returns the m x k left singular vectors as columns.
func (d *SVDDecomposition) U() *darray.DArray[float64] { return d.u }

// S returns the k singular values in descending order.
func (d *SVDDecomposition) S() *darray.DArray[float64] { return d.s }

// V returns the n x k right singular vectors as columns.
func (d *SVDDecomposition) V() *darray.DArray[float64] { return d.v }

// Rank returns the number of singular values above max(m, n) * S[0] * eps.
func (d *SVDDecomposition) Rank() int {
	if d.s.Size() == 0 {
		return 0
	}
	tol := float64(max(d.m, d.n)) * d.s.Get(0) * eps
	rank := 0
	for i := range d.s.Size() {
		if d.s.Get(i) > tol {
			rank++
		}
	}
	return rank
}

// Cond returns the two norm condition number S[0] / S[k-1]. It is +Inf for rank
// deficient matrices.
func (d *SVDDecomposition) Cond() float64 {
	k := d.s.Size()
	if k == 0 {
		return math.NaN()
	}
	return d.s.Get(0) / d.s.Get(k-1)
}
