// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package darray

import (
	"io"

	"github.com/born-ml/darray/internal/serialization"
)

// SafeTensors is an in-memory set of named arrays in the SafeTensors format.
type SafeTensors = serialization.File

// NewSafeTensors creates an empty set of named arrays.
func NewSafeTensors() *SafeTensors {
	return serialization.New()
}

// PutArray stores a copy of a under name.
func PutArray[N Num](f *SafeTensors, name string, a *DArray[N]) error {
	return serialization.Put(f, name, a)
}

// PutArrayFloat16 stores a copy of a under name as half precision values.
func PutArrayFloat16[N Num](f *SafeTensors, name string, a *DArray[N]) error {
	return serialization.PutFloat16(f, name, a)
}

// GetArray decodes the array stored under name with the factories of m.
func GetArray[N Num](f *SafeTensors, m *Manager, name string) (*DArray[N], error) {
	return serialization.Get[N](f, m, name)
}

// ReadSafeTensors decodes a SafeTensors stream.
func ReadSafeTensors(r io.Reader) (*SafeTensors, error) {
	return serialization.Read(r)
}

// LoadSafeTensors reads a SafeTensors file.
func LoadSafeTensors(path string) (*SafeTensors, error) {
	return serialization.ReadFile(path)
}

// SaveSafeTensors writes f to path.
func SaveSafeTensors(path string, f *SafeTensors) error {
	return serialization.WriteFile(path, f)
}
