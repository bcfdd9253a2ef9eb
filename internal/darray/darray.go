// Package darray implements dense strided arrays: a StrideLayout over a shared Storage,
// with the view, copy, element-wise, reduction and matrix algebra operations built on it.
//
// Operations panic with errors wrapping the package sentinels (see Try). Views share
// storage with their source; writes through a view are visible through the source.
package darray

import (
	"github.com/born-ml/darray/internal/dtype"
	"github.com/born-ml/darray/internal/layout"
	"github.com/born-ml/darray/internal/storage"
)

// DArray is a dense array of N addressed through a StrideLayout.
type DArray[N dtype.Num] struct {
	m       *Manager
	dt      *dtype.DType[N]
	layout  *layout.StrideLayout
	storage *storage.Storage[N]
}

func newArray[N dtype.Num](m *Manager, l *layout.StrideLayout, s *storage.Storage[N]) *DArray[N] {
	return &DArray[N]{m: m, dt: dtype.Of[N](), layout: l, storage: s}
}

// view returns an array with a different layout over the same storage.
func (a *DArray[N]) view(l *layout.StrideLayout) *DArray[N] {
	return newArray(a.m, l, a.storage)
}

// factory returns the factory creating arrays of the same element type.
func (a *DArray[N]) factory() *Factory[N] {
	return Of[N](a.m)
}

// Manager returns the manager the array was created by.
func (a *DArray[N]) Manager() *Manager { return a.m }

// DType returns the element type descriptor.
func (a *DArray[N]) DType() *dtype.DType[N] { return a.dt }

// Layout returns the stride layout.
func (a *DArray[N]) Layout() *layout.StrideLayout { return a.layout }

// Storage returns the backing storage, shared with every view of the array.
func (a *DArray[N]) Storage() *storage.Storage[N] { return a.storage }

// Shape returns the logical shape.
func (a *DArray[N]) Shape() layout.Shape { return a.layout.Shape() }

// Dim returns the size of an axis.
func (a *DArray[N]) Dim(axis int) int { return a.layout.Dim(axis) }

// Rank returns the number of axes.
func (a *DArray[N]) Rank() int { return a.layout.Rank() }

// Size returns the number of elements.
func (a *DArray[N]) Size() int { return a.layout.Size() }

// IsScalar reports whether the array has rank zero.
func (a *DArray[N]) IsScalar() bool { return a.Rank() == 0 }

// IsVector reports whether the array has rank one.
func (a *DArray[N]) IsVector() bool { return a.Rank() == 1 }

// IsMatrix reports whether the array has rank two.
func (a *DArray[N]) IsMatrix() bool { return a.Rank() == 2 }

func (a *DArray[N]) requireRank(op string, rank int) {
	if a.Rank() != rank {
		panicf(ErrIllegalArgument, "%s: expected rank %d, got shape %v", op, rank, a.Shape())
	}
}
