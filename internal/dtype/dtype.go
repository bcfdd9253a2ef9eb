// Package dtype defines the numeric element types supported by dense arrays.
package dtype

import (
	"fmt"
	"math"
)

// Num is a constraint for supported array element types.
// It uses Go generics to ensure compile-time type safety.
//
// The four element types mirror the byte/int/float/double family:
//   - int8 (byte)
//   - int32 (int)
//   - float32 (float)
//   - float64 (double)
type Num interface {
	~int8 | ~int32 | ~float32 | ~float64
}

// ID represents runtime type information for arrays.
type ID int

// Supported element types.
const (
	Byte ID = iota
	Int
	Float
	Double
)

// Size returns the byte size of the element type.
func (id ID) Size() int {
	switch id {
	case Byte:
		return 1
	case Int, Float:
		return 4
	case Double:
		return 8
	default:
		panic("unknown element type")
	}
}

// IsFloat reports whether the element type is a floating point type.
func (id ID) IsFloat() bool {
	return id == Float || id == Double
}

// String returns a human-readable name for the element type.
func (id ID) String() string {
	switch id {
	case Byte:
		return "byte"
	case Int:
		return "int"
	case Float:
		return "float"
	case Double:
		return "double"
	default:
		return "unknown"
	}
}

// DType carries the per element type semantics: missing value marker, NaN test and casts.
//
// Floating types use IEEE NaN as the missing value. Integral types have no NaN, so the
// smallest representable value is reserved as the missing marker (math.MinInt8 for byte,
// math.MinInt32 for int). NaN-aware reductions skip those markers.
type DType[N Num] struct {
	id       ID
	nan      N
	min, max N
}

var (
	byteType   = &DType[int8]{id: Byte, nan: math.MinInt8, min: math.MinInt8 + 1, max: math.MaxInt8}
	intType    = &DType[int32]{id: Int, nan: math.MinInt32, min: math.MinInt32 + 1, max: math.MaxInt32}
	floatType  = &DType[float32]{id: Float, nan: float32(math.NaN()), min: -math.MaxFloat32, max: math.MaxFloat32}
	doubleType = &DType[float64]{id: Double, nan: math.NaN(), min: -math.MaxFloat64, max: math.MaxFloat64}
)

// Of returns the DType describing N.
func Of[N Num]() *DType[N] {
	var dummy N
	switch any(dummy).(type) {
	case int8:
		return any(byteType).(*DType[N])
	case int32:
		return any(intType).(*DType[N])
	case float32:
		return any(floatType).(*DType[N])
	case float64:
		return any(doubleType).(*DType[N])
	default:
		panic(fmt.Sprintf("unsupported element type %T", dummy))
	}
}

// ID returns the runtime tag.
func (d *DType[N]) ID() ID { return d.id }

// Name returns the element type name.
func (d *DType[N]) Name() string { return d.id.String() }

// Bytes returns the storage size of one element.
func (d *DType[N]) Bytes() int { return d.id.Size() }

// IsFloat reports whether the element type is floating point.
func (d *DType[N]) IsFloat() bool { return d.id.IsFloat() }

// NaN returns the missing value marker.
func (d *DType[N]) NaN() N { return d.nan }

// Min returns the smallest regular (non missing) value.
func (d *DType[N]) Min() N { return d.min }

// Max returns the largest value.
func (d *DType[N]) Max() N { return d.max }

// IsNaN reports whether v is the missing value marker.
func (d *DType[N]) IsNaN(v N) bool {
	if d.id.IsFloat() {
		return math.IsNaN(float64(v))
	}
	return v == d.nan
}

// Cast converts a float64 into N. For integral types, NaN maps to the missing marker
// and out of range values saturate.
func (d *DType[N]) Cast(v float64) N {
	if d.id.IsFloat() {
		return N(v)
	}
	switch {
	case math.IsNaN(v):
		return d.nan
	case v <= float64(d.min):
		return d.min
	case v >= float64(d.max):
		return d.max
	}
	return N(v)
}

// Float64 converts v into float64, mapping the integral missing marker to NaN.
func (d *DType[N]) Float64(v N) float64 {
	if !d.id.IsFloat() && v == d.nan {
		return math.NaN()
	}
	return float64(v)
}

// String implements fmt.Stringer.
func (d *DType[N]) String() string { return d.Name() }

// Convert converts a value between element types, preserving missing markers.
func Convert[M, N Num](v N) M {
	return Of[M]().Cast(Of[N]().Float64(v))
}
