package darray

import (
	"github.com/born-ml/darray/internal/layout"
	"github.com/born-ml/darray/internal/ops"
)

// Apply returns a copy of a with op applied to every element.
// Floating point only operations fail on integral arrays before anything is copied.
func (a *DArray[N]) Apply(op ops.Unary[N]) *DArray[N] {
	if op.FloatOnly {
		ops.CheckFloat[N](op.Name)
	}
	return a.Copy(layout.A).ApplyInplace(op)
}

// ApplyInplace applies op to every element of a and returns a.
func (a *DArray[N]) ApplyInplace(op ops.Unary[N]) *DArray[N] {
	op.Apply(a.storage.Data(), a.Loop(layout.S))
	return a
}

// Fill returns a copy filled with value.
func (a *DArray[N]) Fill(value N) *DArray[N] { return a.Apply(ops.Fill(value)) }

// FillInplace sets every element to value.
func (a *DArray[N]) FillInplace(value N) *DArray[N] { return a.ApplyInplace(ops.Fill(value)) }

// FillNaN returns a copy with missing values replaced by value.
func (a *DArray[N]) FillNaN(value N) *DArray[N] { return a.Apply(ops.FillNaN(value)) }

// FillNaNInplace replaces missing values by value.
func (a *DArray[N]) FillNaNInplace(value N) *DArray[N] { return a.ApplyInplace(ops.FillNaN(value)) }

// NanToNum returns a copy with NaN, -Inf and +Inf replaced by the given values.
func (a *DArray[N]) NanToNum(nan, ninf, pinf N) *DArray[N] {
	return a.Apply(ops.NanToNum(nan, ninf, pinf))
}

// NanToNumInplace replaces NaN, -Inf and +Inf by the given values.
func (a *DArray[N]) NanToNumInplace(nan, ninf, pinf N) *DArray[N] {
	return a.ApplyInplace(ops.NanToNum(nan, ninf, pinf))
}

// Clamp returns a copy limited to [lo, hi]. A missing bound leaves that side open.
func (a *DArray[N]) Clamp(lo, hi N) *DArray[N] { return a.Apply(ops.Clamp(lo, hi)) }

// ClampInplace limits every element to [lo, hi].
func (a *DArray[N]) ClampInplace(lo, hi N) *DArray[N] { return a.ApplyInplace(ops.Clamp(lo, hi)) }

// Pow returns a copy with every element raised to exponent.
func (a *DArray[N]) Pow(exponent float64) *DArray[N] { return a.Apply(ops.Pow[N](exponent)) }

// PowInplace raises every element to exponent.
func (a *DArray[N]) PowInplace(exponent float64) *DArray[N] {
	return a.ApplyInplace(ops.Pow[N](exponent))
}

// CompareMask returns an array holding 1 where the element compares true against value
// and 0 elsewhere.
func (a *DArray[N]) CompareMask(cmp ops.Compare, value N) *DArray[N] {
	return a.Apply(ops.CompareMask(cmp, value))
}

// CompareMaskInplace replaces every element by its comparison mask.
func (a *DArray[N]) CompareMaskInplace(cmp ops.Compare, value N) *DArray[N] {
	return a.ApplyInplace(ops.CompareMask(cmp, value))
}

// Rint is like RintInplace but leaves a unchanged.
func (a *DArray[N]) Rint() *DArray[N] { return a.Apply(ops.Rint[N]()) }

// RintInplace rounds every element to the nearest integer, ties to even.
func (a *DArray[N]) RintInplace() *DArray[N] { return a.ApplyInplace(ops.Rint[N]()) }

// Ceil is like CeilInplace but leaves a unchanged.
func (a *DArray[N]) Ceil() *DArray[N] { return a.Apply(ops.Ceil[N]()) }

// CeilInplace rounds every element up.
func (a *DArray[N]) CeilInplace() *DArray[N] { return a.ApplyInplace(ops.Ceil[N]()) }

// Floor is like FloorInplace but leaves a unchanged.
func (a *DArray[N]) Floor() *DArray[N] { return a.Apply(ops.Floor[N]()) }

// FloorInplace rounds every element down.
func (a *DArray[N]) FloorInplace() *DArray[N] { return a.ApplyInplace(ops.Floor[N]()) }

// Abs is like AbsInplace but leaves a unchanged.
func (a *DArray[N]) Abs() *DArray[N] { return a.Apply(ops.Abs[N]()) }

// AbsInplace takes the absolute value of every element.
func (a *DArray[N]) AbsInplace() *DArray[N] { return a.ApplyInplace(ops.Abs[N]()) }

// Neg is like NegInplace but leaves a unchanged.
func (a *DArray[N]) Neg() *DArray[N] { return a.Apply(ops.Neg[N]()) }

// NegInplace negates every element.
func (a *DArray[N]) NegInplace() *DArray[N] { return a.ApplyInplace(ops.Neg[N]()) }

// Sign is like SignInplace but leaves a unchanged.
func (a *DArray[N]) Sign() *DArray[N] { return a.Apply(ops.Sign[N]()) }

// SignInplace maps every element to -1, 0 or 1.
func (a *DArray[N]) SignInplace() *DArray[N] { return a.ApplyInplace(ops.Sign[N]()) }

// Sqr is like SqrInplace but leaves a unchanged.
func (a *DArray[N]) Sqr() *DArray[N] { return a.Apply(ops.Sqr[N]()) }

// SqrInplace squares every element.
func (a *DArray[N]) SqrInplace() *DArray[N] { return a.ApplyInplace(ops.Sqr[N]()) }

// Sqrt is like SqrtInplace but leaves a unchanged.
func (a *DArray[N]) Sqrt() *DArray[N] { return a.Apply(ops.Sqrt[N]()) }

// SqrtInplace takes the square root of every element.
func (a *DArray[N]) SqrtInplace() *DArray[N] { return a.ApplyInplace(ops.Sqrt[N]()) }

// Log is like LogInplace but leaves a unchanged.
func (a *DArray[N]) Log() *DArray[N] { return a.Apply(ops.Log[N]()) }

// LogInplace takes the natural logarithm of every element.
func (a *DArray[N]) LogInplace() *DArray[N] { return a.ApplyInplace(ops.Log[N]()) }

// Log1p is like Log1pInplace but leaves a unchanged.
func (a *DArray[N]) Log1p() *DArray[N] { return a.Apply(ops.Log1p[N]()) }

// Log1pInplace computes log(1+x) for every element.
func (a *DArray[N]) Log1pInplace() *DArray[N] { return a.ApplyInplace(ops.Log1p[N]()) }

// Exp is like ExpInplace but leaves a unchanged.
func (a *DArray[N]) Exp() *DArray[N] { return a.Apply(ops.Exp[N]()) }

// ExpInplace computes e^x for every element.
func (a *DArray[N]) ExpInplace() *DArray[N] { return a.ApplyInplace(ops.Exp[N]()) }

// Expm1 is like Expm1Inplace but leaves a unchanged.
func (a *DArray[N]) Expm1() *DArray[N] { return a.Apply(ops.Expm1[N]()) }

// Expm1Inplace computes e^x-1 for every element.
func (a *DArray[N]) Expm1Inplace() *DArray[N] { return a.ApplyInplace(ops.Expm1[N]()) }

// Sin returns the sine of every element.
func (a *DArray[N]) Sin() *DArray[N] { return a.Apply(ops.Sin[N]()) }

// SinInplace replaces every element with its sine.
func (a *DArray[N]) SinInplace() *DArray[N] { return a.ApplyInplace(ops.Sin[N]()) }

// Asin returns the arcsine of every element.
func (a *DArray[N]) Asin() *DArray[N] { return a.Apply(ops.Asin[N]()) }

// AsinInplace replaces every element with its arcsine.
func (a *DArray[N]) AsinInplace() *DArray[N] { return a.ApplyInplace(ops.Asin[N]()) }

// Sinh returns the hyperbolic sine of every element.
func (a *DArray[N]) Sinh() *DArray[N] { return a.Apply(ops.Sinh[N]()) }

// SinhInplace replaces every element with its hyperbolic sine.
func (a *DArray[N]) SinhInplace() *DArray[N] { return a.ApplyInplace(ops.Sinh[N]()) }

// Cos returns the cosine of every element.
func (a *DArray[N]) Cos() *DArray[N] { return a.Apply(ops.Cos[N]()) }

// CosInplace replaces every element with its cosine.
func (a *DArray[N]) CosInplace() *DArray[N] { return a.ApplyInplace(ops.Cos[N]()) }

// Acos returns the arccosine of every element.
func (a *DArray[N]) Acos() *DArray[N] { return a.Apply(ops.Acos[N]()) }

// AcosInplace replaces every element with its arccosine.
func (a *DArray[N]) AcosInplace() *DArray[N] { return a.ApplyInplace(ops.Acos[N]()) }

// Cosh returns the hyperbolic cosine of every element.
func (a *DArray[N]) Cosh() *DArray[N] { return a.Apply(ops.Cosh[N]()) }

// CoshInplace replaces every element with its hyperbolic cosine.
func (a *DArray[N]) CoshInplace() *DArray[N] { return a.ApplyInplace(ops.Cosh[N]()) }

// Tan returns the tangent of every element.
func (a *DArray[N]) Tan() *DArray[N] { return a.Apply(ops.Tan[N]()) }

// TanInplace replaces every element with its tangent.
func (a *DArray[N]) TanInplace() *DArray[N] { return a.ApplyInplace(ops.Tan[N]()) }

// Atan returns the arctangent of every element.
func (a *DArray[N]) Atan() *DArray[N] { return a.Apply(ops.Atan[N]()) }

// AtanInplace replaces every element with its arctangent.
func (a *DArray[N]) AtanInplace() *DArray[N] { return a.ApplyInplace(ops.Atan[N]()) }

// Tanh returns the hyperbolic tangent of every element.
func (a *DArray[N]) Tanh() *DArray[N] { return a.Apply(ops.Tanh[N]()) }

// TanhInplace replaces every element with its hyperbolic tangent.
func (a *DArray[N]) TanhInplace() *DArray[N] { return a.ApplyInplace(ops.Tanh[N]()) }

// Sigmoid is like SigmoidInplace but leaves a unchanged.
func (a *DArray[N]) Sigmoid() *DArray[N] { return a.Apply(ops.Sigmoid[N]()) }

// SigmoidInplace computes 1/(1+e^-x) for every element.
func (a *DArray[N]) SigmoidInplace() *DArray[N] { return a.ApplyInplace(ops.Sigmoid[N]()) }
