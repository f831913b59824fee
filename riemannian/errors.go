// Copyright 2026 TTrain ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package riemannian

import (
	"fmt"

	"github.com/ttrain-ml/ttrain/internal/tensor"
)

// ShapeMismatchError reports structurally incompatible arguments: raw
// shapes that differ between the projection target and the perturbation,
// an operator whose mode sizes do not line up, or a weights array of the
// wrong form. Validation runs before any contraction, so no partial
// result exists when it is returned.
type ShapeMismatchError struct {
	Op   string // operation that rejected the input
	Want string // expected shape, rendered
	Got  string // offending shape, rendered
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("riemannian: %s: shape mismatch: want %s, got %s", e.Op, e.Want, e.Got)
}

// DTypeMismatchError reports arguments whose element types differ.
type DTypeMismatchError struct {
	Op    string
	Where tensor.DataType
	What  tensor.DataType
}

func (e *DTypeMismatchError) Error() string {
	return fmt.Sprintf("riemannian: %s: dtype mismatch: %s vs %s", e.Op, e.Where, e.What)
}
