// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package darray

import "github.com/born-ml/darray/internal/linalg"

// Decomposition types.
type (
	CholeskyDecomposition = linalg.CholeskyDecomposition
	LUDecomposition       = linalg.LUDecomposition
	QRDecomposition       = linalg.QRDecomposition
	EigenDecomposition    = linalg.EigenDecomposition
	SVDDecomposition      = linalg.SVDDecomposition
)

// Decomposition errors.
var (
	ErrSingular     = linalg.ErrSingular
	ErrNotSPD       = linalg.ErrNotSPD
	ErrNotSymmetric = linalg.ErrNotSymmetric
	ErrNotConverged = linalg.ErrNotConverged
)

// Cholesky factors a symmetric positive definite matrix as L x L^T.
func Cholesky[N Num](a *DArray[N]) (*CholeskyDecomposition, error) {
	return linalg.Cholesky(a)
}

// LU factors a square matrix with partial pivoting.
func LU[N Num](a *DArray[N]) (*LUDecomposition, error) {
	return linalg.LU(a)
}

// QR factors an m x n matrix (m >= n) with Householder reflections.
func QR[N Num](a *DArray[N]) (*QRDecomposition, error) {
	return linalg.QR(a)
}

// Eig computes the eigenvalues and eigenvectors of a symmetric matrix.
func Eig[N Num](a *DArray[N]) (*EigenDecomposition, error) {
	return linalg.Eig(a)
}

// SVD computes the thin singular value decomposition.
func SVD[N Num](a *DArray[N]) (*SVDDecomposition, error) {
	return linalg.SVD(a)
}
