// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package darray

import (
	"github.com/born-ml/darray/internal/darray"
	"github.com/born-ml/darray/internal/dtype"
	"github.com/born-ml/darray/internal/layout"
	"github.com/born-ml/darray/internal/ops"
)

// Type aliases for public API

// Num is the constraint satisfied by the supported element types.
type Num = dtype.Num

// DArray is a strided multi-dimensional array of N.
type DArray[N Num] = darray.DArray[N]

// Factory creates arrays of one element type bound to a Manager.
type Factory[N Num] = darray.Factory[N]

// Manager owns the worker pool and configuration shared by every array it creates.
type Manager = darray.Manager

// Config holds the Manager settings.
type Config = darray.Config

// Shape represents the dimensions of an array.
type Shape = layout.Shape

// Order is a traversal order.
type Order = layout.Order

// Traversal orders.
const (
	C Order = layout.C // row-major
	F Order = layout.F // column-major
	S Order = layout.S // storage order
	A Order = layout.A // source order, falling back to C
)

// Compare is a comparison used by CompareMask.
type Compare = ops.Compare

// Comparators.
const (
	LT    Compare = ops.LT
	LE    Compare = ops.LE
	GT    Compare = ops.GT
	GE    Compare = ops.GE
	EQ    Compare = ops.EQ
	NEQ   Compare = ops.NEQ
	IsNaN Compare = ops.IsNaN
)

// Reduction identifies a scalar reduction used by Reduce and Reduce1d.
type Reduction = ops.Reduction

// Reductions.
const (
	Sum     Reduction = ops.ReduceSum
	NanSum  Reduction = ops.ReduceNanSum
	Prod    Reduction = ops.ReduceProd
	NanProd Reduction = ops.ReduceNanProd
	Min     Reduction = ops.ReduceMin
	NanMin  Reduction = ops.ReduceNanMin
	Max     Reduction = ops.ReduceMax
	NanMax  Reduction = ops.ReduceNanMax
	Mean    Reduction = ops.ReduceMean
	NanMean Reduction = ops.ReduceNanMean
	Varc    Reduction = ops.ReduceVarc
	NanVarc Reduction = ops.ReduceNanVarc
)

// Error sentinels.
var (
	ErrShapeMismatch    = darray.ErrShapeMismatch
	ErrIllegalArgument  = darray.ErrIllegalArgument
	ErrOutOfRange       = darray.ErrOutOfRange
	ErrUnsupportedDType = darray.ErrUnsupportedDType
	ErrNotImplemented   = darray.ErrNotImplemented
)

// DefaultL2CacheBytes is the L2 cache size assumed when none is configured.
const DefaultL2CacheBytes = darray.DefaultL2CacheBytes

// ShapeOf creates a shape from its dimensions.
func ShapeOf(dims ...int) Shape {
	return layout.ShapeOf(dims...)
}

// DefaultConfig returns a configuration using every CPU and DefaultL2CacheBytes.
func DefaultConfig() Config {
	return darray.DefaultConfig()
}

// NewManager creates a Manager. Call Close to stop its workers.
func NewManager(cfg Config) *Manager {
	return darray.NewManager(cfg)
}

// Of returns the factory of m for element type N.
func Of[N Num](m *Manager) *Factory[N] {
	return darray.Of[N](m)
}

// Cast converts a to element type M, laid out in order.
// Values out of range saturate and missing values stay missing.
func Cast[M, N Num](a *DArray[N], order Order) *DArray[M] {
	return darray.Cast[M](a, order)
}

// Try runs fn and returns the error it panicked with, if any.
//
// Example:
//
//	err := darray.Try(func() { a.Mm(b, darray.C) })
//	if errors.Is(err, darray.ErrShapeMismatch) {
//	    // handle
//	}
func Try(fn func()) error {
	return darray.Try(fn)
}
