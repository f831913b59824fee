package tensor

import (
	"fmt"
	"unsafe"
)

// Dense is a contiguous row-major tensor.
//
// The element buffer is held as raw bytes with typed views obtained via
// AsFloat32/AsFloat64, so a single Dense type serves both supported
// element types without duplicating every container around it.
type Dense struct {
	data   []byte
	shape  Shape
	stride []int
	dtype  DataType
}

// NewDense creates a zero-initialized Dense with the given shape and type.
func NewDense(shape Shape, dtype DataType) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Dense{
		data:   make([]byte, shape.NumElements()*dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
	}, nil
}

// Shape returns the tensor's shape.
func (d *Dense) Shape() Shape {
	return d.shape
}

// NumDims returns the number of axes.
func (d *Dense) NumDims() int {
	return len(d.shape)
}

// Strides returns the tensor's memory strides.
func (d *Dense) Strides() []int {
	return d.stride
}

// DType returns the tensor's data type.
func (d *Dense) DType() DataType {
	return d.dtype
}

// NumElements returns the total number of elements.
func (d *Dense) NumElements() int {
	return d.shape.NumElements()
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (d *Dense) AsFloat32() []float32 {
	if d.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", d.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&d.data[0])), d.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (d *Dense) AsFloat64() []float64 {
	if d.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", d.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float64)(unsafe.Pointer(&d.data[0])), d.NumElements())
}

// offset converts a multi-index into a flat element offset.
func (d *Dense) offset(idx []int) int {
	if len(idx) != len(d.shape) {
		panic(fmt.Sprintf("index rank %d does not match tensor rank %d", len(idx), len(d.shape)))
	}
	off := 0
	for i, x := range idx {
		if x < 0 || x >= d.shape[i] {
			panic(fmt.Sprintf("index %d out of range for axis %d of size %d", x, i, d.shape[i]))
		}
		off += x * d.stride[i]
	}
	return off
}

// At returns the element at the given multi-index as float64.
func (d *Dense) At(idx ...int) float64 {
	off := d.offset(idx)
	switch d.dtype {
	case Float32:
		return float64(d.AsFloat32()[off])
	default:
		return d.AsFloat64()[off]
	}
}

// Set writes the element at the given multi-index.
func (d *Dense) Set(v float64, idx ...int) {
	off := d.offset(idx)
	switch d.dtype {
	case Float32:
		d.AsFloat32()[off] = float32(v)
	default:
		d.AsFloat64()[off] = v
	}
}

// Clone returns a deep copy of the tensor.
func (d *Dense) Clone() *Dense {
	data := make([]byte, len(d.data))
	copy(data, d.data)
	return &Dense{
		data:   data,
		shape:  d.shape.Clone(),
		stride: append([]int(nil), d.stride...),
		dtype:  d.dtype,
	}
}

// Float64s returns a freshly allocated copy of the elements widened to
// float64, in row-major order. Bridge for the gonum-based factorizations.
func (d *Dense) Float64s() []float64 {
	out := make([]float64, d.NumElements())
	switch d.dtype {
	case Float32:
		for i, v := range d.AsFloat32() {
			out[i] = float64(v)
		}
	default:
		copy(out, d.AsFloat64())
	}
	return out
}

func errShapeData(n int, shape Shape) error {
	return fmt.Errorf("data length %d does not match shape %v (%d elements)",
		n, shape, shape.NumElements())
}

// FromFloat64s builds a Dense of the given shape and dtype from row-major
// float64 values, narrowing when dtype is Float32.
func FromFloat64s(vals []float64, shape Shape, dtype DataType) (*Dense, error) {
	if len(vals) != shape.NumElements() {
		return nil, errShapeData(len(vals), shape)
	}
	d, err := NewDense(shape, dtype)
	if err != nil {
		return nil, err
	}
	switch dtype {
	case Float32:
		dst := d.AsFloat32()
		for i, v := range vals {
			dst[i] = float32(v)
		}
	default:
		copy(d.AsFloat64(), vals)
	}
	return d, nil
}
