// Copyright 2026 TTrain ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for dense array operations in
// the ttrain framework.
//
// The package re-exports the core types and constructors of the internal
// array substrate:
//   - Dense: contiguous row-major tensor of float32 or float64
//   - Shape, DataType: core type definitions
//   - Contract: the tensordot primitive TT algorithms are built from
//
// Example:
//
//	x := tensor.Randn(tensor.Shape{2, 3}, tensor.Float64)
//	y := tensor.Ones(tensor.Shape{3, 4}, tensor.Float64)
//	z, err := tensor.Contract(x, y, [][2]int{{1, 0}}) // Shape: [2, 4]
package tensor

import (
	"github.com/ttrain-ml/ttrain/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor element types (float32, float64).
type DType = tensor.DType

// DataType represents the underlying element type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Dense is a contiguous row-major tensor.
type Dense = tensor.Dense

// Creation functions

// NewDense creates a zero-initialized tensor with the given shape and type.
func NewDense(shape Shape, dtype DataType) (*Dense, error) {
	return tensor.NewDense(shape, dtype)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape, dtype DataType) *Dense {
	return tensor.Zeros(shape, dtype)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape, dtype DataType) *Dense {
	return tensor.Ones(shape, dtype)
}

// Full creates a tensor filled with a specific value.
func Full(shape Shape, value float64, dtype DataType) *Dense {
	return tensor.Full(shape, value, dtype)
}

// Randn creates a tensor filled with values drawn from N(0, 1).
func Randn(shape Shape, dtype DataType) *Dense {
	return tensor.Randn(shape, dtype)
}

// FromSlice creates a tensor from a Go slice.
//
// Example:
//
//	data := []float64{1, 2, 3, 4, 5, 6}
//	x, err := tensor.FromSlice(data, tensor.Shape{2, 3})
func FromSlice[T DType](data []T, shape Shape) (*Dense, error) {
	return tensor.FromSlice(data, shape)
}

// Eye creates a 2D identity matrix.
func Eye(n int, dtype DataType) *Dense {
	return tensor.Eye(n, dtype)
}

// Manipulation functions

// Contract contracts a with b over the given axis pairs; the result's
// axes are a's free axes followed by b's free axes.
func Contract(a, b *Dense, pairs [][2]int) (*Dense, error) {
	return tensor.Contract(a, b, pairs)
}

// Concat concatenates tensors along the given axis.
func Concat(ts []*Dense, axis int) (*Dense, error) {
	return tensor.Concat(ts, axis)
}

// Stack stacks equally shaped tensors along a new leading axis.
func Stack(ts []*Dense) (*Dense, error) {
	return tensor.Stack(ts)
}

// Arithmetic functions

// Add returns a + b elementwise.
func Add(a, b *Dense) *Dense {
	return tensor.Add(a, b)
}

// Sub returns a - b elementwise.
func Sub(a, b *Dense) *Dense {
	return tensor.Sub(a, b)
}

// AddScaled accumulates dst += c * src in place.
func AddScaled(dst, src *Dense, c float64) {
	tensor.AddScaled(dst, src, c)
}

// MaxAbsDiff returns the largest absolute elementwise difference.
func MaxAbsDiff(a, b *Dense) float64 {
	return tensor.MaxAbsDiff(a, b)
}
