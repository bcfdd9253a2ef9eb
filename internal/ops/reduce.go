package ops

import (
	"math"

	"github.com/born-ml/darray/internal/dtype"
	"github.com/born-ml/darray/internal/layout"
)

// Reduction identifies a scalar reduction.
//
// Plain reductions propagate missing values: one NaN (or integral missing marker) makes
// the result missing. Nan* reductions skip missing values and divide by the number of
// non missing elements.
type Reduction int

// Supported reductions.
const (
	ReduceSum Reduction = iota
	ReduceNanSum
	ReduceProd
	ReduceNanProd
	ReduceMin
	ReduceNanMin
	ReduceMax
	ReduceNanMax
	ReduceMean
	ReduceNanMean
	ReduceVarc
	ReduceNanVarc
)

var reductionNames = [...]string{
	"sum", "nanSum", "prod", "nanProd", "min", "nanMin", "max", "nanMax",
	"mean", "nanMean", "varc", "nanVarc",
}

// String returns the reduction name.
func (r Reduction) String() string {
	if r < 0 || int(r) >= len(reductionNames) {
		return "unknown"
	}
	return reductionNames[r]
}

// SkipsNaN reports whether the reduction ignores missing values.
func (r Reduction) SkipsNaN() bool {
	return r%2 == 1
}

// Reduce applies r to the elements visited by loop. ddof is only used by variance.
// Accumulation is done in float64 and the result cast back to N.
func Reduce[N dtype.Num](r Reduction, data []N, loop *layout.StrideLoop, ddof int) N {
	d := dtype.Of[N]()
	return d.Cast(Reduce64(r, data, loop, ddof))
}

// Reduce64 is Reduce without the final cast.
func Reduce64[N dtype.Num](r Reduction, data []N, loop *layout.StrideLoop, ddof int) float64 {
	skip := r.SkipsNaN()
	switch r {
	case ReduceSum, ReduceNanSum:
		return sum(data, loop, skip)
	case ReduceProd, ReduceNanProd:
		return prod(data, loop, skip)
	case ReduceMin, ReduceNanMin:
		return extreme(data, loop, skip, func(a, b float64) bool { return a < b })
	case ReduceMax, ReduceNanMax:
		return extreme(data, loop, skip, func(a, b float64) bool { return a > b })
	case ReduceMean, ReduceNanMean:
		mean, _ := correctedMean(data, loop, skip)
		return mean
	case ReduceVarc, ReduceNanVarc:
		return varc(data, loop, skip, ddof)
	default:
		panic(errorf("reduce: unknown reduction %d", int(r)))
	}
}

// each calls fn with every element visited by loop, missing markers converted to NaN.
func each[N dtype.Num](data []N, loop *layout.StrideLoop, fn func(v float64)) {
	d := dtype.Of[N]()
	for _, off := range loop.Offsets {
		for i, p := 0, off; i < loop.Size; i, p = i+1, p+loop.Step {
			fn(d.Float64(data[p]))
		}
	}
}

func sum[N dtype.Num](data []N, loop *layout.StrideLoop, skip bool) float64 {
	acc := 0.0
	each(data, loop, func(v float64) {
		if skip && math.IsNaN(v) {
			return
		}
		acc += v
	})
	return acc
}

func prod[N dtype.Num](data []N, loop *layout.StrideLoop, skip bool) float64 {
	acc := 1.0
	each(data, loop, func(v float64) {
		if skip && math.IsNaN(v) {
			return
		}
		acc *= v
	})
	return acc
}

func extreme[N dtype.Num](data []N, loop *layout.StrideLoop, skip bool, better func(a, b float64) bool) float64 {
	best, found, missing := 0.0, false, false
	each(data, loop, func(v float64) {
		if math.IsNaN(v) {
			missing = true
			return
		}
		if !found || better(v, best) {
			best, found = v, true
		}
	})
	if !found || (missing && !skip) {
		return math.NaN()
	}
	return best
}

// correctedMean computes the mean in two passes: the raw mean is adjusted by the mean of
// the residuals to compensate for round-off. It also returns the element count.
func correctedMean[N dtype.Num](data []N, loop *layout.StrideLoop, skip bool) (float64, int) {
	total, n := 0.0, 0
	each(data, loop, func(v float64) {
		if skip && math.IsNaN(v) {
			return
		}
		total += v
		n++
	})
	if n == 0 {
		return math.NaN(), 0
	}
	mean := total / float64(n)
	residual := 0.0
	each(data, loop, func(v float64) {
		if skip && math.IsNaN(v) {
			return
		}
		residual += v - mean
	})
	return mean + residual/float64(n), n
}

// varc computes the variance with ddof delta degrees of freedom on top of the corrected mean.
func varc[N dtype.Num](data []N, loop *layout.StrideLoop, skip bool, ddof int) float64 {
	mean, n := correctedMean(data, loop, skip)
	if n == 0 || n-ddof <= 0 {
		return math.NaN()
	}
	ss := 0.0
	each(data, loop, func(v float64) {
		if skip && math.IsNaN(v) {
			return
		}
		ss += (v - mean) * (v - mean)
	})
	return ss / float64(n-ddof)
}

// NanCount returns the number of missing elements.
func NanCount[N dtype.Num](data []N, loop *layout.StrideLoop) int {
	n := 0
	each(data, loop, func(v float64) {
		if math.IsNaN(v) {
			n++
		}
	})
	return n
}

// ZeroCount returns the number of elements equal to zero.
func ZeroCount[N dtype.Num](data []N, loop *layout.StrideLoop) int {
	n := 0
	each(data, loop, func(v float64) {
		if v == 0 {
			n++
		}
	})
	return n
}

// ArgMin returns the traversal index of the first smallest non missing element, or -1.
func ArgMin[N dtype.Num](data []N, loop *layout.StrideLoop) int {
	return arg(data, loop, func(a, b float64) bool { return a < b })
}

// ArgMax returns the traversal index of the first largest non missing element, or -1.
func ArgMax[N dtype.Num](data []N, loop *layout.StrideLoop) int {
	return arg(data, loop, func(a, b float64) bool { return a > b })
}

func arg[N dtype.Num](data []N, loop *layout.StrideLoop, better func(a, b float64) bool) int {
	best, bestIdx, idx := 0.0, -1, 0
	each(data, loop, func(v float64) {
		if !math.IsNaN(v) && (bestIdx < 0 || better(v, best)) {
			best, bestIdx = v, idx
		}
		idx++
	})
	return bestIdx
}
