package tensor

import (
	"fmt"
	"math"
)

// checkSameShape panics unless a and b have identical shape and dtype.
// Elementwise ops are internal building blocks; a mismatch here is a
// programming error, not a user input error.
func checkSameShape(op string, a, b *Dense) {
	if a.dtype != b.dtype {
		panic(fmt.Sprintf("%s: mixed dtypes %s and %s", op, a.dtype, b.dtype))
	}
	if !a.shape.Equal(b.shape) {
		panic(fmt.Sprintf("%s: mixed shapes %v and %v", op, a.shape, b.shape))
	}
}

// Add returns a + b elementwise.
func Add(a, b *Dense) *Dense {
	checkSameShape("add", a, b)
	out := a.Clone()
	switch a.dtype {
	case Float32:
		addKernel(out.AsFloat32(), b.AsFloat32())
	default:
		addKernel(out.AsFloat64(), b.AsFloat64())
	}
	return out
}

// Sub returns a - b elementwise.
func Sub(a, b *Dense) *Dense {
	checkSameShape("sub", a, b)
	out := a.Clone()
	switch a.dtype {
	case Float32:
		subKernel(out.AsFloat32(), b.AsFloat32())
	default:
		subKernel(out.AsFloat64(), b.AsFloat64())
	}
	return out
}

// Scale returns c * d elementwise.
func (d *Dense) Scale(c float64) *Dense {
	out := d.Clone()
	switch d.dtype {
	case Float32:
		scaleKernel(out.AsFloat32(), float32(c))
	default:
		scaleKernel(out.AsFloat64(), c)
	}
	return out
}

// AddScaled accumulates dst += c * src in place.
func AddScaled(dst, src *Dense, c float64) {
	checkSameShape("addscaled", dst, src)
	switch dst.dtype {
	case Float32:
		axpyKernel(dst.AsFloat32(), src.AsFloat32(), float32(c))
	default:
		axpyKernel(dst.AsFloat64(), src.AsFloat64(), c)
	}
}

// SumAxis sums the tensor over one axis, dropping it.
func (d *Dense) SumAxis(axis int) *Dense {
	if axis < 0 || axis >= len(d.shape) {
		panic(fmt.Sprintf("sumaxis: axis %d out of range for rank %d", axis, len(d.shape)))
	}
	outShape := make(Shape, 0, len(d.shape)-1)
	outShape = append(outShape, d.shape[:axis]...)
	outShape = append(outShape, d.shape[axis+1:]...)
	out := Zeros(outShape, d.dtype)

	outer := 1
	for i := 0; i < axis; i++ {
		outer *= d.shape[i]
	}
	n := d.shape[axis]
	inner := d.stride[axis]
	switch d.dtype {
	case Float32:
		sumAxisKernel(d.AsFloat32(), out.AsFloat32(), outer, n, inner)
	default:
		sumAxisKernel(d.AsFloat64(), out.AsFloat64(), outer, n, inner)
	}
	return out
}

// MaxAbsDiff returns the largest absolute elementwise difference.
func MaxAbsDiff(a, b *Dense) float64 {
	checkSameShape("maxabsdiff", a, b)
	maxDiff := 0.0
	for i := 0; i < a.NumElements(); i++ {
		diff := math.Abs(a.atFlat(i) - b.atFlat(i))
		if diff > maxDiff {
			maxDiff = diff
		}
	}
	return maxDiff
}

func addKernel[T DType](dst, src []T) {
	for i := range dst {
		dst[i] += src[i]
	}
}

func subKernel[T DType](dst, src []T) {
	for i := range dst {
		dst[i] -= src[i]
	}
}

func scaleKernel[T DType](dst []T, c T) {
	for i := range dst {
		dst[i] *= c
	}
}

func axpyKernel[T DType](dst, src []T, c T) {
	for i := range dst {
		dst[i] += c * src[i]
	}
}

func sumAxisKernel[T DType](src, dst []T, outer, n, inner int) {
	for o := 0; o < outer; o++ {
		dstBase := o * inner
		srcBase := o * n * inner
		for j := 0; j < n; j++ {
			for k := 0; k < inner; k++ {
				dst[dstBase+k] += src[srcBase+j*inner+k]
			}
		}
	}
}
