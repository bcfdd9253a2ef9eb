// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package darray_test

import (
	"bytes"
	"testing"

	"github.com/born-ml/darray/darray"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *darray.Manager {
	t.Helper()
	m := darray.NewManager(darray.Config{Threads: 2, L2CacheBytes: darray.DefaultL2CacheBytes})
	t.Cleanup(m.Close)
	return m
}

// TestPublicAPI verifies the aliases expose the engine.
func TestPublicAPI(t *testing.T) {
	m := newManager(t)
	f := darray.Of[float64](m)
	assert.Same(t, m.Double(), f)

	a := f.Seq(darray.ShapeOf(2, 3), darray.C)
	b := a.T().Mm(a, darray.C)
	require.Equal(t, []int{3, 3}, b.Shape().Dims())
	assert.Equal(t, []float64{36, 51, 66}, b.Sum1d(0).Values(darray.C))

	assert.Equal(t, 15.0, a.Reduce(darray.Sum))
	assert.Equal(t, 2.5, a.Reduce(darray.Mean))
	assert.Equal(t, 3.0, a.CompareMask(darray.GE, 3).Reduce(darray.Sum))

	ints := darray.Cast[int32](a, darray.F)
	assert.Equal(t, []int32{0, 3, 1, 4, 2, 5}, ints.Values(darray.S))
}

func TestPublicErrors(t *testing.T) {
	m := newManager(t)
	f := m.Double()
	a := f.Zeros(darray.ShapeOf(2, 3), darray.C)

	err := darray.Try(func() { a.Mm(a, darray.C) })
	require.ErrorIs(t, err, darray.ErrShapeMismatch)
	require.ErrorIs(t, darray.Try(func() { m.Int().Zeros(darray.ShapeOf(2), darray.C).Sqrt() }), darray.ErrUnsupportedDType)
	require.ErrorIs(t, darray.Try(func() { a.AddBmm(a, a) }), darray.ErrNotImplemented)
	require.NoError(t, darray.Try(func() { a.Add(a) }))
}

func TestPublicDecompositions(t *testing.T) {
	m := newManager(t)
	a, err := m.Double().Wrap(darray.ShapeOf(2, 2), darray.C, []float64{4, 2, 2, 3})
	require.NoError(t, err)
	b, err := m.Double().Wrap(darray.ShapeOf(2), darray.C, []float64{6, 5})
	require.NoError(t, err)

	c, err := darray.Cholesky(a)
	require.NoError(t, err)
	x, err := c.Solve(b)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1}, x.Values(darray.C), 1e-12)

	lu, err := darray.LU(a)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, lu.Det(), 1e-12)

	qr, err := darray.QR(a)
	require.NoError(t, err)
	x, err = qr.Solve(b)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1}, x.Values(darray.C), 1e-12)

	eig, err := darray.Eig(a)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, eig.Values().Sum(), 1e-12)

	svd, err := darray.SVD(a)
	require.NoError(t, err)
	assert.Equal(t, 2, svd.Rank())

	singular, err := darray.LU(m.Double().Zeros(darray.ShapeOf(2, 2), darray.C))
	require.NoError(t, err)
	_, err = singular.Solve(b)
	require.ErrorIs(t, err, darray.ErrSingular)
}

func TestPublicSafeTensors(t *testing.T) {
	m := newManager(t)
	f := darray.NewSafeTensors()
	require.NoError(t, darray.PutArray(f, "a", m.Int().Seq(darray.ShapeOf(2, 2), darray.F)))
	require.NoError(t, darray.PutArrayFloat16(f, "h", m.Float().Full(darray.ShapeOf(3), 1.5, darray.C)))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	g, err := darray.ReadSafeTensors(&buf)
	require.NoError(t, err)

	a, err := darray.GetArray[int32](g, m, "a")
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 2, 1, 3}, a.Values(darray.C))
	h, err := darray.GetArray[float32](g, m, "h")
	require.NoError(t, err)
	assert.Equal(t, float32(4.5), h.Sum())
}
