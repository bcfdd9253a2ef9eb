// Package linalg implements matrix decompositions on top of the darray engine.
//
// Every decomposition reads its input as a float64 copy laid out in C order, so the input
// array is never modified and may have any element type or strides. Factors are returned
// as new float64 arrays owned by the caller.
package linalg

import (
	"github.com/born-ml/darray/internal/darray"
	"github.com/born-ml/darray/internal/dtype"
	"github.com/born-ml/darray/internal/layout"
	"github.com/pkg/errors"
)

var (
	// ErrSingular is returned when a system has no unique solution.
	ErrSingular = errors.New("matrix is singular")

	// ErrNotSPD is returned when a Cholesky solve is requested for a matrix that is not
	// symmetric positive definite.
	ErrNotSPD = errors.New("matrix is not symmetric positive definite")

	// ErrNotSymmetric is returned by Eig for non-symmetric input.
	ErrNotSymmetric = errors.New("matrix is not symmetric")

	// ErrNotConverged is returned when an iterative method exceeds its sweep limit.
	ErrNotConverged = errors.New("iteration did not converge")
)

// eps is the float64 machine epsilon.
const eps = 0x1p-52

// toDouble returns a float64 copy of a in C order, checking it is a matrix.
func toDouble[N dtype.Num](op string, a *darray.DArray[N]) (*darray.DArray[float64], error) {
	if a.Rank() != 2 {
		return nil, errors.Wrapf(darray.ErrShapeMismatch, "%s: expected a matrix, got shape %v", op, a.Shape())
	}
	return darray.Cast[float64](a, layout.C), nil
}

func toSquare[N dtype.Num](op string, a *darray.DArray[N]) (*darray.DArray[float64], error) {
	m, err := toDouble(op, a)
	if err != nil {
		return nil, err
	}
	if m.Dim(0) != m.Dim(1) {
		return nil, errors.Wrapf(darray.ErrShapeMismatch, "%s: non-square matrix %v", op, a.Shape())
	}
	return m, nil
}

// rhs returns b as a float64 matrix with n rows: vectors become a single column.
// vector reports whether the solution must be returned as a vector.
func rhs(op string, b *darray.DArray[float64], n int) (x *darray.DArray[float64], vector bool, err error) {
	switch {
	case b.Rank() == 1 && b.Dim(0) == n:
		return b.Stretch(1).Copy(layout.C), true, nil
	case b.Rank() == 2 && b.Dim(0) == n:
		return b.Copy(layout.C), false, nil
	default:
		return nil, false, errors.Wrapf(darray.ErrShapeMismatch, "%s: right hand side %v does not have %d rows", op, b.Shape(), n)
	}
}

// solution reshapes a single column result back to a vector when the right hand side was one.
func solution(x *darray.DArray[float64], vector bool) *darray.DArray[float64] {
	if vector {
		return x.Reshape(layout.ShapeOf(x.Dim(0)), layout.C)
	}
	return x
}

// swapRows exchanges rows i and j of a matrix in place.
func swapRows(a *darray.DArray[float64], i, j int) {
	ri, rj := a.SelSq(0, i), a.SelSq(0, j)
	tmp := ri.Copy(layout.C)
	rj.CopyTo(ri, layout.C)
	tmp.CopyTo(rj, layout.C)
}
