package darray

import (
	"math"

	"github.com/born-ml/darray/internal/layout"
)

// centered returns a copy of a matrix with the mean of every column subtracted.
// Rows are observations and columns variables.
func (a *DArray[N]) centered(op string) *DArray[N] {
	a.requireRank(op, 2)
	return a.Sub(a.Mean1d(0))
}

// ScatterMatrix returns the p x p scatter matrix of an n x p matrix of observations:
// the sum over rows of the outer products of the centered rows.
func (a *DArray[N]) ScatterMatrix() *DArray[N] {
	c := a.centered("scatterMatrix")
	return c.T().Mm(c, layout.C)
}

// Cov returns the p x p covariance matrix of an n x p matrix of observations, with ddof
// delta degrees of freedom.
func (a *DArray[N]) Cov(ddof int) *DArray[N] {
	s := a.ScatterMatrix()
	n := a.Dim(0) - ddof
	if n <= 0 {
		panicf(ErrIllegalArgument, "cov: %d observations with ddof %d", a.Dim(0), ddof)
	}
	return s.DivScalarInplace(a.dt.Cast(float64(n)))
}

// Corr returns the p x p Pearson correlation matrix of an n x p matrix of observations.
func (a *DArray[N]) Corr() *DArray[N] {
	cov := Cast[float64](a, layout.C).Cov(1)
	p := cov.Dim(0)
	out := a.factory().Zeros(layout.ShapeOf(p, p), layout.C)
	for i := range p {
		for j := range p {
			v := cov.Get(i, j) / math.Sqrt(cov.Get(i, i)*cov.Get(j, j))
			out.SetDouble(v, i, j)
		}
	}
	return out
}
