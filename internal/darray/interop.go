package darray

import (
	"math"
	"strconv"
	"strings"

	"github.com/born-ml/darray/internal/layout"
	"github.com/x448/float16"
)

// ToDoubleArray returns a new slice with the elements read in order, converted to float64.
// Missing markers of integral types become NaN.
func (a *DArray[N]) ToDoubleArray(order layout.Order) []float64 {
	out := make([]float64, 0, a.Size())
	data := a.storage.Data()
	loop := a.Loop(order)
	for _, off := range loop.Offsets {
		for i, p := 0, off; i < loop.Size; i, p = i+1, p+loop.Step {
			out = append(out, a.dt.Float64(data[p]))
		}
	}
	return out
}

// AsDoubleArray returns the elements read in order as float64. When a is a float64 array
// laid out densely in that order the storage slice itself is returned (zero-copy);
// otherwise it is ToDoubleArray.
//
// WARNING: In the zero-copy case modifications to the returned slice modify the array.
func (a *DArray[N]) AsDoubleArray(order layout.Order) []float64 {
	data, ok := any(a.storage.Data()).([]float64)
	if !ok {
		return a.ToDoubleArray(order)
	}
	switch order {
	case layout.C:
		ok = a.layout.IsCOrdered()
	case layout.F:
		ok = a.layout.IsFOrdered()
	default:
		ok = a.layout.IsDense() && a.layout.StorageFastOrder() != layout.S
	}
	if ok {
		start := a.layout.Offset()
		return data[start : start+a.Size() : start+a.Size()]
	}
	return a.ToDoubleArray(order)
}

// ToFloat16Array returns the elements read in order as IEEE 754 half precision values.
func (a *DArray[N]) ToFloat16Array(order layout.Order) []float16.Float16 {
	values := a.ToDoubleArray(order)
	out := make([]float16.Float16, len(values))
	for i, v := range values {
		out[i] = float16.Fromfloat32(float32(v))
	}
	return out
}

// DeepEquals reports whether both arrays have the same shape and every pair of elements
// differs by at most tol. Missing values are equal to each other.
func (a *DArray[N]) DeepEquals(other *DArray[N], tol float64) bool {
	if !a.Shape().Equal(other.Shape()) {
		return false
	}
	x, y := a.ToDoubleArray(layout.C), other.ToDoubleArray(layout.C)
	for i := range x {
		nx, ny := math.IsNaN(x[i]), math.IsNaN(y[i])
		if nx || ny {
			if nx != ny {
				return false
			}
			continue
		}
		if x[i] != y[i] && !(math.Abs(x[i]-y[i]) <= tol) {
			return false
		}
	}
	return true
}

// String renders the array as nested brackets, rows on separate lines.
func (a *DArray[N]) String() string {
	var sb strings.Builder
	sb.WriteString(a.dt.Name())
	sb.WriteString(a.Shape().String())
	sb.WriteByte(' ')
	if a.IsScalar() {
		sb.WriteString(a.format(a.Item()))
		return sb.String()
	}
	values := a.ToDoubleArray(layout.C)
	dims := a.Shape().Dims()
	var render func(axis, start int) int
	render = func(axis, start int) int {
		sb.WriteByte('[')
		k := start
		for i := range dims[axis] {
			if i > 0 {
				if axis == len(dims)-1 {
					sb.WriteByte(' ')
				} else {
					sb.WriteString("\n" + strings.Repeat(" ", len(a.dt.Name())+len(a.Shape().String())+2+axis))
				}
			}
			if axis == len(dims)-1 {
				sb.WriteString(strconv.FormatFloat(values[k], 'g', -1, 64))
				k++
			} else {
				k = render(axis+1, k)
			}
		}
		sb.WriteByte(']')
		return k
	}
	render(0, 0)
	return sb.String()
}

func (a *DArray[N]) format(v N) string {
	return strconv.FormatFloat(a.dt.Float64(v), 'g', -1, 64)
}
