package ops

import (
	"github.com/born-ml/darray/internal/dtype"
	"github.com/born-ml/darray/internal/layout"
)

// Binary combines a receiver element with an operand element, storing into the receiver.
type Binary[N dtype.Num] struct {
	Name string
	Fn   func(a, b N) N
}

// Apply sets dst[p] = Fn(dst[p], src[q]) for the aligned positions of two joint loops.
func (b Binary[N]) Apply(dst []N, dl *layout.StrideLoop, src []N, sl *layout.StrideLoop) {
	fn := b.Fn
	if dl.Step == 1 && sl.Step == 1 {
		for r, off := range dl.Offsets {
			d := dst[off : off+dl.Size]
			s := src[sl.Offsets[r] : sl.Offsets[r]+dl.Size]
			for i := range d {
				d[i] = fn(d[i], s[i])
			}
		}
		return
	}
	for r, off := range dl.Offsets {
		q := sl.Offsets[r]
		for i, p := 0, off; i < dl.Size; i, p, q = i+1, p+dl.Step, q+sl.Step {
			dst[p] = fn(dst[p], src[q])
		}
	}
}

// ApplyScalar sets dst[p] = Fn(dst[p], value) for every position of the loop.
func (b Binary[N]) ApplyScalar(dst []N, loop *layout.StrideLoop, value N) {
	fn := b.Fn
	for _, off := range loop.Offsets {
		for i, p := 0, off; i < loop.Size; i, p = i+1, p+loop.Step {
			dst[p] = fn(dst[p], value)
		}
	}
}

// propagate2 wraps an integral kernel so that a missing operand yields the missing marker.
// Float NaN already propagates through IEEE arithmetic.
func propagate2[N dtype.Num](fn func(a, b N) N) func(a, b N) N {
	d := dtype.Of[N]()
	if d.IsFloat() {
		return fn
	}
	return func(a, b N) N {
		if d.IsNaN(a) || d.IsNaN(b) {
			return d.NaN()
		}
		return fn(a, b)
	}
}

// Add is element-wise addition.
func Add[N dtype.Num]() Binary[N] {
	return Binary[N]{Name: "add", Fn: propagate2(func(a, b N) N { return a + b })}
}

// Sub is element-wise subtraction.
func Sub[N dtype.Num]() Binary[N] {
	return Binary[N]{Name: "sub", Fn: propagate2(func(a, b N) N { return a - b })}
}

// Mul is element-wise multiplication.
func Mul[N dtype.Num]() Binary[N] {
	return Binary[N]{Name: "mul", Fn: propagate2(func(a, b N) N { return a * b })}
}

// Div is element-wise division. Integral division by zero yields the missing marker.
func Div[N dtype.Num]() Binary[N] {
	d := dtype.Of[N]()
	if d.IsFloat() {
		return Binary[N]{Name: "div", Fn: func(a, b N) N { return a / b }}
	}
	return Binary[N]{Name: "div", Fn: propagate2(func(a, b N) N {
		if b == 0 {
			return d.NaN()
		}
		return a / b
	})}
}

// Min keeps the smaller element. Missing values propagate.
func Min[N dtype.Num]() Binary[N] {
	d := dtype.Of[N]()
	return Binary[N]{Name: "min", Fn: func(a, b N) N {
		if d.IsNaN(a) || d.IsNaN(b) {
			return d.NaN()
		}
		return min(a, b)
	}}
}

// Max keeps the larger element. Missing values propagate.
func Max[N dtype.Num]() Binary[N] {
	d := dtype.Of[N]()
	return Binary[N]{Name: "max", Fn: func(a, b N) N {
		if d.IsNaN(a) || d.IsNaN(b) {
			return d.NaN()
		}
		return max(a, b)
	}}
}
