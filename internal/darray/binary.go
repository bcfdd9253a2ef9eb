package darray

import (
	"github.com/born-ml/darray/internal/layout"
	"github.com/born-ml/darray/internal/ops"
)

// Binary returns op(a, b) element-wise. The operands are broadcast to their common
// shape; the result is a new C ordered array.
func (a *DArray[N]) Binary(op ops.Binary[N], b *DArray[N]) *DArray[N] {
	shape, err := layout.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panicf(err, "%s", op.Name)
	}
	out := a.factory().Zeros(shape, layout.C)
	a.BroadcastTo(shape).CopyTo(out, layout.C)
	return out.BinaryInplace(op, b)
}

// BinaryInplace sets a = op(a, b) element-wise and returns a. b is broadcast to the shape
// of a; a itself is never reshaped.
func (a *DArray[N]) BinaryInplace(op ops.Binary[N], b *DArray[N]) *DArray[N] {
	shape, err := layout.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil || !shape.Equal(a.Shape()) {
		panicf(ErrShapeMismatch, "%s: shape %v cannot be broadcast to %v", op.Name, b.Shape(), a.Shape())
	}
	src := b.BroadcastTo(shape)
	loops := layout.NewJointLoops(layout.S, a.layout, src.layout)
	op.Apply(a.storage.Data(), loops[0], src.storage.Data(), loops[1])
	return a
}

// BinaryScalar returns op(a, value) element-wise as a new array.
func (a *DArray[N]) BinaryScalar(op ops.Binary[N], value N) *DArray[N] {
	return a.Copy(layout.A).BinaryScalarInplace(op, value)
}

// BinaryScalarInplace sets a = op(a, value) element-wise and returns a.
func (a *DArray[N]) BinaryScalarInplace(op ops.Binary[N], value N) *DArray[N] {
	op.ApplyScalar(a.storage.Data(), a.Loop(layout.S), value)
	return a
}

// Add adds b element-wise, broadcasting both operands.
func (a *DArray[N]) Add(b *DArray[N]) *DArray[N] { return a.Binary(ops.Add[N](), b) }

// AddInplace adds b element-wise in place.
func (a *DArray[N]) AddInplace(b *DArray[N]) *DArray[N] { return a.BinaryInplace(ops.Add[N](), b) }

// AddScalar adds value to every element.
func (a *DArray[N]) AddScalar(value N) *DArray[N] { return a.BinaryScalar(ops.Add[N](), value) }

// AddScalarInplace adds value to every element in place.
func (a *DArray[N]) AddScalarInplace(value N) *DArray[N] {
	return a.BinaryScalarInplace(ops.Add[N](), value)
}

// Sub subtracts b element-wise, broadcasting both operands.
func (a *DArray[N]) Sub(b *DArray[N]) *DArray[N] { return a.Binary(ops.Sub[N](), b) }

// SubInplace subtracts b element-wise in place.
func (a *DArray[N]) SubInplace(b *DArray[N]) *DArray[N] { return a.BinaryInplace(ops.Sub[N](), b) }

// SubScalar subtracts value from every element.
func (a *DArray[N]) SubScalar(value N) *DArray[N] { return a.BinaryScalar(ops.Sub[N](), value) }

// SubScalarInplace subtracts value from every element in place.
func (a *DArray[N]) SubScalarInplace(value N) *DArray[N] {
	return a.BinaryScalarInplace(ops.Sub[N](), value)
}

// Mul multiplies by b element-wise, broadcasting both operands.
func (a *DArray[N]) Mul(b *DArray[N]) *DArray[N] { return a.Binary(ops.Mul[N](), b) }

// MulInplace multiplies by b element-wise in place.
func (a *DArray[N]) MulInplace(b *DArray[N]) *DArray[N] { return a.BinaryInplace(ops.Mul[N](), b) }

// MulScalar multiplies every element by value.
func (a *DArray[N]) MulScalar(value N) *DArray[N] { return a.BinaryScalar(ops.Mul[N](), value) }

// MulScalarInplace multiplies every element by value in place.
func (a *DArray[N]) MulScalarInplace(value N) *DArray[N] {
	return a.BinaryScalarInplace(ops.Mul[N](), value)
}

// Div divides by b element-wise, broadcasting both operands.
func (a *DArray[N]) Div(b *DArray[N]) *DArray[N] { return a.Binary(ops.Div[N](), b) }

// DivInplace divides by b element-wise in place.
func (a *DArray[N]) DivInplace(b *DArray[N]) *DArray[N] { return a.BinaryInplace(ops.Div[N](), b) }

// DivScalar divides every element by value.
func (a *DArray[N]) DivScalar(value N) *DArray[N] { return a.BinaryScalar(ops.Div[N](), value) }

// DivScalarInplace divides every element by value in place.
func (a *DArray[N]) DivScalarInplace(value N) *DArray[N] {
	return a.BinaryScalarInplace(ops.Div[N](), value)
}

// Minimum takes the minimum with b element-wise, broadcasting both operands.
// Use Min for the smallest element of a.
func (a *DArray[N]) Minimum(b *DArray[N]) *DArray[N] { return a.Binary(ops.Min[N](), b) }

// MinimumInplace takes the minimum with b element-wise in place.
func (a *DArray[N]) MinimumInplace(b *DArray[N]) *DArray[N] { return a.BinaryInplace(ops.Min[N](), b) }

// MinimumScalar clamps every element to at most value.
func (a *DArray[N]) MinimumScalar(value N) *DArray[N] { return a.BinaryScalar(ops.Min[N](), value) }

// MinimumScalarInplace clamps every element to at most value in place.
func (a *DArray[N]) MinimumScalarInplace(value N) *DArray[N] {
	return a.BinaryScalarInplace(ops.Min[N](), value)
}

// Maximum takes the maximum with b element-wise, broadcasting both operands.
// Use Max for the largest element of a.
func (a *DArray[N]) Maximum(b *DArray[N]) *DArray[N] { return a.Binary(ops.Max[N](), b) }

// MaximumInplace takes the maximum with b element-wise in place.
func (a *DArray[N]) MaximumInplace(b *DArray[N]) *DArray[N] { return a.BinaryInplace(ops.Max[N](), b) }

// MaximumScalar clamps every element to at least value.
func (a *DArray[N]) MaximumScalar(value N) *DArray[N] { return a.BinaryScalar(ops.Max[N](), value) }

// MaximumScalarInplace clamps every element to at least value in place.
func (a *DArray[N]) MaximumScalarInplace(value N) *DArray[N] {
	return a.BinaryScalarInplace(ops.Max[N](), value)
}
