// Package storage provides the flat typed buffers backing dense arrays.
package storage

import (
	"fmt"

	"github.com/born-ml/darray/internal/dtype"
)

// Storage is a fixed-capacity buffer of elements of type N.
//
// A Storage is shared by reference between every array view built on it; views never copy
// it. There is no growth operation: the size is fixed at creation. Concurrent writers to
// overlapping positions are not synchronized.
type Storage[N dtype.Num] struct {
	data []N
}

// New allocates a zero-filled storage of the given size.
func New[N dtype.Num](size int) *Storage[N] {
	if size < 0 {
		panic(fmt.Sprintf("storage: negative size %d", size))
	}
	return &Storage[N]{data: make([]N, size)}
}

// Wrap creates a storage over data without copying it.
func Wrap[N dtype.Num](data []N) *Storage[N] {
	return &Storage[N]{data: data}
}

// DType returns the element type descriptor.
func (s *Storage[N]) DType() *dtype.DType[N] {
	return dtype.Of[N]()
}

// Size returns the capacity in elements.
func (s *Storage[N]) Size() int {
	return len(s.data)
}

// Get returns the element at position p.
func (s *Storage[N]) Get(p int) N {
	return s.data[p]
}

// Set stores v at position p.
func (s *Storage[N]) Set(p int, v N) {
	s.data[p] = v
}

// Inc adds v to the element at position p.
func (s *Storage[N]) Inc(p int, v N) {
	s.data[p] += v
}

// Fill sets every element to v.
func (s *Storage[N]) Fill(v N) {
	for i := range s.data {
		s.data[i] = v
	}
}

// Data returns the underlying slice (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the storage.
func (s *Storage[N]) Data() []N {
	return s.data
}
