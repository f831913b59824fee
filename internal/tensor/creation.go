package tensor

import (
	"math"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape, dtype DataType) *Dense {
	d, err := NewDense(shape, dtype)
	if err != nil {
		panic(err) // Shape validation should prevent this
	}
	return d
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape, dtype DataType) *Dense {
	return Full(shape, 1, dtype)
}

// Full creates a tensor filled with a specific value.
func Full(shape Shape, value float64, dtype DataType) *Dense {
	d := Zeros(shape, dtype)
	switch dtype {
	case Float32:
		data := d.AsFloat32()
		v := float32(value)
		for i := range data {
			data[i] = v
		}
	default:
		data := d.AsFloat64()
		for i := range data {
			data[i] = value
		}
	}
	return d
}

// Randn creates a tensor with values drawn from N(0, 1) via the Box-Muller
// transform. Uses math/rand: statistical quality, not cryptographic, is
// what matters here.
func Randn(shape Shape, dtype DataType) *Dense {
	d := Zeros(shape, dtype)
	n := d.NumElements()
	for i := 0; i < n; i += 2 {
		u1 := rand.Float64() //nolint:gosec // G404: math/rand is intentional
		u2 := rand.Float64() //nolint:gosec // G404: math/rand is intentional
		r := math.Sqrt(-2.0 * math.Log(u1))
		d.setFlat(i, r*math.Cos(2.0*math.Pi*u2))
		if i+1 < n {
			d.setFlat(i+1, r*math.Sin(2.0*math.Pi*u2))
		}
	}
	return d
}

// setFlat writes a value at a flat row-major offset.
func (d *Dense) setFlat(i int, v float64) {
	switch d.dtype {
	case Float32:
		d.AsFloat32()[i] = float32(v)
	default:
		d.AsFloat64()[i] = v
	}
}

// atFlat reads a value at a flat row-major offset.
func (d *Dense) atFlat(i int) float64 {
	switch d.dtype {
	case Float32:
		return float64(d.AsFloat32()[i])
	default:
		return d.AsFloat64()[i]
	}
}

// FromSlice creates a tensor from a Go slice.
func FromSlice[T DType](data []T, shape Shape) (*Dense, error) {
	var dummy T
	dtype := inferDataType(dummy)
	d, err := NewDense(shape, dtype)
	if err != nil {
		return nil, err
	}
	if len(data) != d.NumElements() {
		return nil, errShapeData(len(data), shape)
	}
	switch dtype {
	case Float32:
		copy(d.AsFloat32(), any(data).([]float32))
	default:
		copy(d.AsFloat64(), any(data).([]float64))
	}
	return d, nil
}

// Eye creates a 2D identity matrix.
func Eye(n int, dtype DataType) *Dense {
	d := Zeros(Shape{n, n}, dtype)
	for i := 0; i < n; i++ {
		d.Set(1, i, i)
	}
	return d
}
