// Copyright 2026 TTrain ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tt

import (
	"fmt"
	"strings"

	"github.com/ttrain-ml/ttrain/internal/tensor"
)

// RawShape describes the mode sizes of a TT object: one sequence of row
// mode sizes for a TT-tensor, plus a matching sequence of column mode
// sizes for a TT-matrix.
type RawShape struct {
	rows tensor.Shape
	cols tensor.Shape // nil for TT-tensors
}

// TensorShape builds the raw shape of a TT-tensor with the given mode sizes.
func TensorShape(modes ...int) RawShape {
	return RawShape{rows: tensor.Shape(modes).Clone()}
}

// MatrixShape builds the raw shape of a TT-matrix with the given row and
// column mode sizes. Both sequences must have the same length.
func MatrixShape(rows, cols []int) RawShape {
	if len(rows) != len(cols) {
		panic(fmt.Sprintf("tt: row modes %v and column modes %v differ in length", rows, cols))
	}
	return RawShape{
		rows: tensor.Shape(rows).Clone(),
		cols: tensor.Shape(cols).Clone(),
	}
}

// IsMatrix reports whether the shape describes a TT-matrix.
func (s RawShape) IsMatrix() bool {
	return s.cols != nil
}

// NumDims returns the number of TT modes.
func (s RawShape) NumDims() int {
	return len(s.rows)
}

// Rows returns the row mode sizes.
func (s RawShape) Rows() tensor.Shape {
	return s.rows.Clone()
}

// Cols returns the column mode sizes, or nil for a TT-tensor.
func (s RawShape) Cols() tensor.Shape {
	if s.cols == nil {
		return nil
	}
	return s.cols.Clone()
}

// Equal reports whether two raw shapes are identical, including the
// tensor/matrix distinction.
func (s RawShape) Equal(o RawShape) bool {
	if s.IsMatrix() != o.IsMatrix() {
		return false
	}
	if !s.rows.Equal(o.rows) {
		return false
	}
	if s.IsMatrix() && !s.cols.Equal(o.cols) {
		return false
	}
	return true
}

// String renders the shape as "(n1, ..., nd)" for tensors and
// "(n1, ..., nd) x (m1, ..., md)" for matrices.
func (s RawShape) String() string {
	render := func(dims tensor.Shape) string {
		parts := make([]string, len(dims))
		for i, d := range dims {
			parts[i] = fmt.Sprintf("%d", d)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	if !s.IsMatrix() {
		return render(s.rows)
	}
	return render(s.rows) + " x " + render(s.cols)
}
