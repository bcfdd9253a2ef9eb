package serialization

import (
	"encoding/binary"

	"github.com/born-ml/darray/internal/darray"
	"github.com/born-ml/darray/internal/dtype"
	"github.com/born-ml/darray/internal/layout"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// File is an in-memory set of named arrays with string metadata.
type File struct {
	Metadata map[string]string

	infos map[string]Info
	data  map[string][]byte
}

// New creates an empty file.
func New() *File {
	return &File{
		Metadata: make(map[string]string),
		infos:    make(map[string]Info),
		data:     make(map[string][]byte),
	}
}

// Names returns the array names in alphabetical order.
func (f *File) Names() []string {
	h := header{Arrays: f.infos}
	return h.names()
}

// Info returns the stored description of an array.
func (f *File) Info(name string) (Info, bool) {
	info, ok := f.infos[name]
	return info, ok
}

func (f *File) put(name string, dt DType, shape layout.Shape, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if _, ok := f.infos[name]; ok {
		return errors.Wrapf(ErrDuplicateName, "%q", name)
	}
	if len(f.infos) >= MaxArrayCount {
		return errors.Wrapf(ErrTooManyArrays, "max %d", MaxArrayCount)
	}
	f.infos[name] = Info{DType: dt, Shape: shape.Dims()}
	f.data[name] = data
	return nil
}

// Put stores a copy of a under name. The elements are written in C order whatever the
// layout of a.
func Put[N dtype.Num](f *File, name string, a *darray.DArray[N]) error {
	data, err := binary.Append(nil, binary.LittleEndian, a.Values(layout.C))
	if err != nil {
		return errors.Wrapf(err, "put %q", name)
	}
	return f.put(name, dtypeOf(a.DType().ID()), a.Shape(), data)
}

// PutFloat16 stores a copy of a under name as IEEE 754 half precision values.
func PutFloat16[N dtype.Num](f *File, name string, a *darray.DArray[N]) error {
	data, err := binary.Append(nil, binary.LittleEndian, a.ToFloat16Array(layout.C))
	if err != nil {
		return errors.Wrapf(err, "put %q", name)
	}
	return f.put(name, F16, a.Shape(), data)
}

// Get decodes the array stored under name into a new C ordered array created by m.
// The stored dtype must match N, except that F16 arrays decode into float32 and float64.
func Get[N dtype.Num](f *File, m *darray.Manager, name string) (*darray.DArray[N], error) {
	info, ok := f.infos[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	factory := darray.Of[N](m)
	shape := layout.ShapeOf(info.Shape...)
	raw := f.data[name]

	if info.DType == F16 {
		if !factory.DType().IsFloat() {
			return nil, errors.Wrapf(ErrDTypeMismatch, "%q is F16, requested %s", name, factory.DType())
		}
		halves := make([]float16.Float16, info.Size())
		if _, err := binary.Decode(raw, binary.LittleEndian, halves); err != nil {
			return nil, errors.Wrapf(ErrSizeMismatch, "%q: %v", name, err)
		}
		return factory.FromFloat16(shape, layout.C, halves)
	}

	if want := dtypeOf(factory.DType().ID()); info.DType != want {
		return nil, errors.Wrapf(ErrDTypeMismatch, "%q is %s, requested %s", name, info.DType, want)
	}
	values := make([]N, info.Size())
	if _, err := binary.Decode(raw, binary.LittleEndian, values); err != nil {
		return nil, errors.Wrapf(ErrSizeMismatch, "%q: %v", name, err)
	}
	return factory.Wrap(shape, layout.C, values)
}
