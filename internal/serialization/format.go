package serialization

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/born-ml/darray/internal/dtype"
	"github.com/pkg/errors"
)

// DType is a SafeTensors element type name.
type DType string

// Supported dtypes.
const (
	I8  DType = "I8"
	I32 DType = "I32"
	F16 DType = "F16"
	F32 DType = "F32"
	F64 DType = "F64"
)

// metadataKey is the reserved header entry holding string metadata.
const metadataKey = "__metadata__"

// ChecksumKey is the metadata entry holding the hex SHA-256 of the data section.
const ChecksumKey = "darray.sha256"

// Size returns the number of bytes of one element.
func (d DType) Size() int {
	switch d {
	case I8:
		return 1
	case F16:
		return 2
	case I32, F32:
		return 4
	case F64:
		return 8
	default:
		return 0
	}
}

// dtypeOf returns the SafeTensors name of an element type.
func dtypeOf(id dtype.ID) DType {
	switch id {
	case dtype.Byte:
		return I8
	case dtype.Int:
		return I32
	case dtype.Float:
		return F32
	default:
		return F64
	}
}

// Info describes one stored array.
type Info struct {
	DType       DType    `json:"dtype"`
	Shape       []int    `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"` // [start, end)
}

// Size returns the number of elements of the array.
func (i Info) Size() int {
	n := 1
	for _, d := range i.Shape {
		n *= d
	}
	return n
}

// header is the decoded JSON header.
type header struct {
	Metadata map[string]string
	Arrays   map[string]Info
}

func (h *header) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(h.Arrays)+1)
	if len(h.Metadata) > 0 {
		out[metadataKey] = h.Metadata
	}
	for name, info := range h.Arrays {
		out[name] = info
	}
	return json.Marshal(out)
}

func (h *header) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.WithStack(err)
	}
	h.Arrays = make(map[string]Info, len(raw))
	for key, value := range raw {
		if key == metadataKey {
			if err := json.Unmarshal(value, &h.Metadata); err != nil {
				return errors.Wrap(err, "metadata")
			}
			continue
		}
		var info Info
		if err := json.Unmarshal(value, &info); err != nil {
			return errors.Wrapf(err, "array %q", key)
		}
		h.Arrays[key] = info
	}
	return nil
}

// names returns the array names in alphabetical order.
func (h *header) names() []string {
	return slices.Sorted(maps.Keys(h.Arrays))
}
