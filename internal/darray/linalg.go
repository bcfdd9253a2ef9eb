package darray

import (
	"github.com/born-ml/darray/internal/dtype"
	"github.com/born-ml/darray/internal/layout"
)

// dot returns the dot product of n elements of two strided vectors.
func dot[N dtype.Num](x []N, px, sx int, y []N, py, sy int, n int) N {
	var sum N
	for range n {
		sum += x[px] * y[py]
		px += sx
		py += sy
	}
	return sum
}

// VDot returns the dot product of two vectors of equal length.
func (a *DArray[N]) VDot(b *DArray[N]) N {
	if a.Rank() != 1 || b.Rank() != 1 || a.Dim(0) != b.Dim(0) {
		panicf(ErrShapeMismatch, "vdot: expected vectors of equal length, got shapes %v and %v", a.Shape(), b.Shape())
	}
	return a.VDotRange(b, 0, a.Dim(0))
}

// Inner returns the inner product of two vectors.
func (a *DArray[N]) Inner(b *DArray[N]) N {
	return a.VDot(b)
}

// VDotRange returns the dot product of the elements in [start, end) of two vectors.
func (a *DArray[N]) VDotRange(b *DArray[N], start, end int) N {
	if a.Rank() != 1 || b.Rank() != 1 {
		panicf(ErrShapeMismatch, "vdot: expected vectors, got shapes %v and %v", a.Shape(), b.Shape())
	}
	if start < 0 || start > end || end > a.Dim(0) || end > b.Dim(0) {
		panicf(ErrOutOfRange, "vdot: range [%d,%d) out of bounds for shapes %v and %v", start, end, a.Shape(), b.Shape())
	}
	sa, sb := a.layout.Stride(0), b.layout.Stride(0)
	return dot(a.storage.Data(), a.layout.Offset()+start*sa, sa,
		b.storage.Data(), b.layout.Offset()+start*sb, sb, end-start)
}

// Outer returns the outer product of two vectors: out[i][j] = a[i] * b[j].
func (a *DArray[N]) Outer(b *DArray[N]) *DArray[N] {
	if a.Rank() != 1 || b.Rank() != 1 {
		panicf(ErrShapeMismatch, "outer: expected vectors, got shapes %v and %v", a.Shape(), b.Shape())
	}
	out := a.factory().Zeros(layout.ShapeOf(a.Dim(0), b.Dim(0)), layout.C)
	data := out.storage.Data()
	k := 0
	for i := range a.Dim(0) {
		x := a.Get(i)
		for j := range b.Dim(0) {
			data[k] = x * b.Get(j)
			k++
		}
	}
	return out
}

// Mv multiplies a matrix (m x n) by a vector (n), giving a vector (m).
func (a *DArray[N]) Mv(v *DArray[N]) *DArray[N] {
	if a.Rank() != 2 || v.Rank() != 1 || a.Dim(1) != v.Dim(0) {
		panicf(ErrShapeMismatch, "mv: incompatible shapes %v and %v", a.Shape(), v.Shape())
	}
	out := a.factory().Zeros(layout.ShapeOf(a.Dim(0)), layout.C)
	a.mvInto(v, out)
	return out
}

func (a *DArray[N]) mvInto(v, out *DArray[N]) {
	ad, vd := a.storage.Data(), v.storage.Data()
	as0, as1, vs := a.layout.Stride(0), a.layout.Stride(1), v.layout.Stride(0)
	for i := range a.Dim(0) {
		out.Set(dot(ad, a.layout.Offset()+i*as0, as1, vd, v.layout.Offset(), vs, a.Dim(1)), i)
	}
}

// Vtm multiplies a vector (n) by a matrix (n x p), giving a vector (p).
func (a *DArray[N]) Vtm(m *DArray[N]) *DArray[N] {
	if a.Rank() != 1 || m.Rank() != 2 || a.Dim(0) != m.Dim(0) {
		panicf(ErrShapeMismatch, "vtm: incompatible shapes %v and %v", a.Shape(), m.Shape())
	}
	return m.T().Mv(a)
}

// Bmv multiplies batches of matrices (B x m x n) by batches of vectors (B x n), giving B x m.
func (a *DArray[N]) Bmv(v *DArray[N]) *DArray[N] {
	if a.Rank() != 3 || v.Rank() != 2 || a.Dim(0) != v.Dim(0) || a.Dim(2) != v.Dim(1) {
		panicf(ErrShapeMismatch, "bmv: incompatible shapes %v and %v", a.Shape(), v.Shape())
	}
	out := a.factory().Zeros(layout.ShapeOf(a.Dim(0), a.Dim(1)), layout.C)
	for i := range a.Dim(0) {
		a.SelSq(0, i).mvInto(v.SelSq(0, i), out.SelSq(0, i))
	}
	return out
}

// Bvtm multiplies batches of vectors (B x n) by batches of matrices (B x n x p), giving B x p.
func (a *DArray[N]) Bvtm(m *DArray[N]) *DArray[N] {
	if a.Rank() != 2 || m.Rank() != 3 || a.Dim(0) != m.Dim(0) || a.Dim(1) != m.Dim(1) {
		panicf(ErrShapeMismatch, "bvtm: incompatible shapes %v and %v", a.Shape(), m.Shape())
	}
	out := a.factory().Zeros(layout.ShapeOf(a.Dim(0), m.Dim(2)), layout.C)
	for i := range a.Dim(0) {
		m.SelSq(0, i).T().mvInto(a.SelSq(0, i), out.SelSq(0, i))
	}
	return out
}

// Trace returns the sum of the main diagonal of a matrix.
func (a *DArray[N]) Trace() N {
	a.requireRank("trace", 2)
	if a.Size() == 0 {
		return 0
	}
	return a.Diag(0).Sum()
}
