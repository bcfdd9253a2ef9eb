// Package ops is the operator catalog applied by dense arrays: element-wise unary and
// binary kernels and reductions, all driven by loop descriptors.
package ops

import (
	"math"

	"github.com/born-ml/darray/internal/dtype"
	"github.com/born-ml/darray/internal/layout"
)

// Unary is an element-wise transformation applied in place.
type Unary[N dtype.Num] struct {
	Name      string
	FloatOnly bool
	Fn        func(v N) N
}

// Apply transforms every element visited by loop.
func (u Unary[N]) Apply(data []N, loop *layout.StrideLoop) {
	if u.FloatOnly {
		CheckFloat[N](u.Name)
	}
	fn := u.Fn
	if loop.Step == 1 {
		for _, off := range loop.Offsets {
			run := data[off : off+loop.Size]
			for i, v := range run {
				run[i] = fn(v)
			}
		}
		return
	}
	for _, off := range loop.Offsets {
		for i, p := 0, off; i < loop.Size; i, p = i+1, p+loop.Step {
			data[p] = fn(data[p])
		}
	}
}

// propagate1 wraps an integral kernel so that the missing marker is left untouched.
func propagate1[N dtype.Num](fn func(v N) N) func(v N) N {
	d := dtype.Of[N]()
	if d.IsFloat() {
		return fn
	}
	return func(v N) N {
		if d.IsNaN(v) {
			return v
		}
		return fn(v)
	}
}

func floatUnary[N dtype.Num](name string, fn func(float64) float64) Unary[N] {
	return Unary[N]{Name: name, FloatOnly: true, Fn: func(v N) N { return N(fn(float64(v))) }}
}

// Fill sets every element to value.
func Fill[N dtype.Num](value N) Unary[N] {
	return Unary[N]{Name: "fill", Fn: func(N) N { return value }}
}

// FillNaN replaces missing values with value.
func FillNaN[N dtype.Num](value N) Unary[N] {
	d := dtype.Of[N]()
	return Unary[N]{Name: "fillNaN", Fn: func(v N) N {
		if d.IsNaN(v) {
			return value
		}
		return v
	}}
}

// NanToNum replaces NaN, negative infinity and positive infinity with the given values.
// For integral types only the missing marker is replaced.
func NanToNum[N dtype.Num](nan, ninf, pinf N) Unary[N] {
	d := dtype.Of[N]()
	return Unary[N]{Name: "nanToNum", Fn: func(v N) N {
		if d.IsNaN(v) {
			return nan
		}
		if d.IsFloat() {
			if math.IsInf(float64(v), -1) {
				return ninf
			}
			if math.IsInf(float64(v), 1) {
				return pinf
			}
		}
		return v
	}}
}

// Clamp limits elements to [lo, hi]. A missing bound disables that side; missing
// elements are left untouched.
func Clamp[N dtype.Num](lo, hi N) Unary[N] {
	d := dtype.Of[N]()
	hasLo, hasHi := !d.IsNaN(lo), !d.IsNaN(hi)
	return Unary[N]{Name: "clamp", Fn: func(v N) N {
		if d.IsNaN(v) {
			return v
		}
		if hasLo && v < lo {
			return lo
		}
		if hasHi && v > hi {
			return hi
		}
		return v
	}}
}

func rounding[N dtype.Num](name string, fn func(float64) float64) Unary[N] {
	if !dtype.Of[N]().IsFloat() {
		return Unary[N]{Name: name, Fn: func(v N) N { return v }}
	}
	return Unary[N]{Name: name, Fn: func(v N) N { return N(fn(float64(v))) }}
}

// Rint rounds to the nearest integer, ties to even.
func Rint[N dtype.Num]() Unary[N] { return rounding[N]("rint", math.RoundToEven) }

// Ceil rounds up.
func Ceil[N dtype.Num]() Unary[N] { return rounding[N]("ceil", math.Ceil) }

// Floor rounds down.
func Floor[N dtype.Num]() Unary[N] { return rounding[N]("floor", math.Floor) }

// Abs computes the absolute value.
func Abs[N dtype.Num]() Unary[N] {
	return Unary[N]{Name: "abs", Fn: propagate1(func(v N) N {
		if v < 0 {
			return -v
		}
		return v
	})}
}

// Neg negates every element.
func Neg[N dtype.Num]() Unary[N] {
	return Unary[N]{Name: "neg", Fn: propagate1(func(v N) N { return -v })}
}

// Sign maps elements to -1, 0 or 1. NaN stays NaN.
func Sign[N dtype.Num]() Unary[N] {
	d := dtype.Of[N]()
	return Unary[N]{Name: "sign", Fn: func(v N) N {
		switch {
		case d.IsNaN(v):
			return v
		case v > 0:
			return 1
		case v < 0:
			return -1
		}
		return 0
	}}
}

// Sqr squares every element. Missing values propagate.
func Sqr[N dtype.Num]() Unary[N] {
	return Unary[N]{Name: "sqr", Fn: propagate1(func(v N) N { return v * v })}
}

// Sqrt computes the square root.
func Sqrt[N dtype.Num]() Unary[N] { return floatUnary[N]("sqrt", math.Sqrt) }

// Pow raises every element to the given power.
func Pow[N dtype.Num](exponent float64) Unary[N] {
	return floatUnary[N]("pow", func(v float64) float64 { return math.Pow(v, exponent) })
}

// Log computes the natural logarithm.
func Log[N dtype.Num]() Unary[N] { return floatUnary[N]("log", math.Log) }

// Log1p computes log(1+x).
func Log1p[N dtype.Num]() Unary[N] { return floatUnary[N]("log1p", math.Log1p) }

// Exp computes e^x.
func Exp[N dtype.Num]() Unary[N] { return floatUnary[N]("exp", math.Exp) }

// Expm1 computes e^x-1.
func Expm1[N dtype.Num]() Unary[N] { return floatUnary[N]("expm1", math.Expm1) }

// Sin computes the sine.
func Sin[N dtype.Num]() Unary[N] { return floatUnary[N]("sin", math.Sin) }

// Asin computes the arcsine.
func Asin[N dtype.Num]() Unary[N] { return floatUnary[N]("asin", math.Asin) }

// Sinh computes the hyperbolic sine.
func Sinh[N dtype.Num]() Unary[N] { return floatUnary[N]("sinh", math.Sinh) }

// Cos computes the cosine.
func Cos[N dtype.Num]() Unary[N] { return floatUnary[N]("cos", math.Cos) }

// Acos computes the arccosine.
func Acos[N dtype.Num]() Unary[N] { return floatUnary[N]("acos", math.Acos) }

// Cosh computes the hyperbolic cosine.
func Cosh[N dtype.Num]() Unary[N] { return floatUnary[N]("cosh", math.Cosh) }

// Tan computes the tangent.
func Tan[N dtype.Num]() Unary[N] { return floatUnary[N]("tan", math.Tan) }

// Atan computes the arctangent.
func Atan[N dtype.Num]() Unary[N] { return floatUnary[N]("atan", math.Atan) }

// Tanh computes the hyperbolic tangent.
func Tanh[N dtype.Num]() Unary[N] { return floatUnary[N]("tanh", math.Tanh) }

// Sigmoid computes 1/(1+e^-x).
func Sigmoid[N dtype.Num]() Unary[N] {
	return floatUnary[N]("sigmoid", func(v float64) float64 {
		// Numerically stable sigmoid.
		if v >= 0 {
			return 1 / (1 + math.Exp(-v))
		}
		e := math.Exp(v)
		return e / (1 + e)
	})
}

// Compare is a comparison against a scalar used to build masks.
type Compare int

// Supported comparators.
const (
	LT Compare = iota
	LE
	GT
	GE
	EQ
	NEQ
	IsNaN
)

// String returns the comparator symbol.
func (c Compare) String() string {
	switch c {
	case LT:
		return "<"
	case LE:
		return "<="
	case GT:
		return ">"
	case GE:
		return ">="
	case EQ:
		return "=="
	case NEQ:
		return "!="
	case IsNaN:
		return "isNaN"
	default:
		return "unknown"
	}
}

func matches[N dtype.Num](d *dtype.DType[N], c Compare, v, value N) bool {
	if c == IsNaN {
		return d.IsNaN(v)
	}
	if d.IsNaN(v) {
		return c == NEQ
	}
	switch c {
	case LT:
		return v < value
	case LE:
		return v <= value
	case GT:
		return v > value
	case GE:
		return v >= value
	case EQ:
		return v == value
	case NEQ:
		return v != value
	}
	return false
}

// CompareMask replaces every element with 1 when it compares true against value and 0
// otherwise. Missing elements compare false except for NEQ and IsNaN.
func CompareMask[N dtype.Num](c Compare, value N) Unary[N] {
	d := dtype.Of[N]()
	return Unary[N]{Name: "compareMask", Fn: func(v N) N {
		if matches(d, c, v, value) {
			return 1
		}
		return 0
	}}
}
