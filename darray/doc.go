// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package darray provides dense strided multi-dimensional numeric arrays.
//
// # Overview
//
// An array is a typed storage buffer viewed through a stride layout (shape, offset and one
// stride per axis). Most shape operations create views that share storage:
//   - Reshape, Permute, T, Narrow, Sel and Squeeze never copy when the strides allow it
//   - Copy and CopyTo materialize a view in a chosen order, tiled and in parallel
//   - Elementwise ops come in a copying form and an Inplace form
//
// # Basic Usage
//
//	import "github.com/born-ml/darray/darray"
//
//	func main() {
//	    m := darray.NewManager(darray.DefaultConfig())
//	    defer m.Close()
//
//	    f := m.Double()
//	    a := f.Seq(darray.ShapeOf(2, 3), darray.C)
//	    b := a.T().Mm(a, darray.C) // Shape: [3, 3]
//	    fmt.Println(b.Sum1d(0))
//	}
//
// # Element Types
//
// Four element types are supported: int8 (byte), int32 (int), float32 (float) and
// float64 (double). Integral types reserve their minimum value as the missing marker,
// floating types use NaN.
//
// # Errors
//
// Array operations panic with an error wrapping one of the sentinels (ErrShapeMismatch,
// ErrIllegalArgument, ErrOutOfRange, ErrUnsupportedDType, ErrNotImplemented). Use Try to
// turn such a panic into an error. Constructors taking caller data and the matrix
// decompositions return errors directly.
package darray
