// Copyright 2026 TTrain ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tt provides Tensor-Train containers: single trains, batches of
// trains, and the shape/rank utilities shared by the algorithms built on
// top of them.
//
// A Tensor-Train represents a d-dimensional array as a chain of small
// cores. Core k of a TT-tensor has shape (r_k, n_k, r_{k+1}); a
// TT-matrix core carries two mode axes, (r_k, n_k, m_k, r_{k+1}). The
// boundary ranks r_0 and r_d are always 1, and adjacent cores agree on
// their shared rank.
package tt

import (
	"fmt"

	"github.com/ttrain-ml/ttrain/internal/tensor"
)

// Interface is the read surface shared by Train and Batch. Algorithms
// that accept either a single train or a batch take an Interface.
type Interface interface {
	// NumDims returns the number of TT modes.
	NumDims() int
	// RawShape returns the mode sizes.
	RawShape() RawShape
	// DType returns the element type shared by all cores.
	DType() tensor.DataType
	// IsMatrix reports whether the object is a TT-matrix.
	IsMatrix() bool
	// Core returns the k-th TT-core. Callers must not mutate it.
	Core(k int) *tensor.Dense
}

// Train is a single (non-batch) Tensor-Train, either a TT-tensor or a
// TT-matrix. Trains are immutable after construction.
type Train struct {
	cores []*tensor.Dense
	shape RawShape
	ranks []int
	dtype tensor.DataType
}

// TensorFromCores builds a TT-tensor from 3-axis cores (r_k, n_k, r_{k+1}).
func TensorFromCores(cores []*tensor.Dense) (*Train, error) {
	return trainFromCores(cores, false)
}

// MatrixFromCores builds a TT-matrix from 4-axis cores (r_k, n_k, m_k, r_{k+1}).
func MatrixFromCores(cores []*tensor.Dense) (*Train, error) {
	return trainFromCores(cores, true)
}

func trainFromCores(cores []*tensor.Dense, matrix bool) (*Train, error) {
	shape, ranks, dtype, err := validateChain(cores, matrix, false)
	if err != nil {
		return nil, err
	}
	return &Train{
		cores: append([]*tensor.Dense(nil), cores...),
		shape: shape,
		ranks: ranks,
		dtype: dtype,
	}, nil
}

// validateChain checks the core chain invariants shared by trains and
// batches and extracts raw shape, ranks and dtype. Batch cores carry one
// extra leading axis of a common size.
func validateChain(cores []*tensor.Dense, matrix, batch bool) (RawShape, []int, tensor.DataType, error) {
	if len(cores) == 0 {
		return RawShape{}, nil, 0, fmt.Errorf("tt: at least one core required")
	}
	wantRank := 3
	if matrix {
		wantRank = 4
	}
	base := 0
	if batch {
		wantRank++
		base = 1
	}

	dtype := cores[0].DType()
	d := len(cores)
	rows := make(tensor.Shape, d)
	var cols tensor.Shape
	if matrix {
		cols = make(tensor.Shape, d)
	}
	ranks := make([]int, d+1)
	batchSize := 0

	for k, core := range cores {
		cs := core.Shape()
		if len(cs) != wantRank {
			return RawShape{}, nil, 0, fmt.Errorf("tt: core %d has %d axes, want %d", k, len(cs), wantRank)
		}
		if core.DType() != dtype {
			return RawShape{}, nil, 0, fmt.Errorf("tt: core %d dtype %s differs from %s", k, core.DType(), dtype)
		}
		if batch {
			if k == 0 {
				batchSize = cs[0]
			} else if cs[0] != batchSize {
				return RawShape{}, nil, 0, fmt.Errorf("tt: core %d batch size %d differs from %d", k, cs[0], batchSize)
			}
		}
		if k == 0 {
			ranks[0] = cs[base]
		} else if cs[base] != ranks[k] {
			return RawShape{}, nil, 0, fmt.Errorf("tt: rank mismatch between cores %d and %d: %d vs %d",
				k-1, k, ranks[k], cs[base])
		}
		ranks[k+1] = cs[len(cs)-1]
		rows[k] = cs[base+1]
		if matrix {
			cols[k] = cs[base+2]
		}
	}
	if ranks[0] != 1 || ranks[d] != 1 {
		return RawShape{}, nil, 0, fmt.Errorf("tt: boundary ranks must be 1, got %d and %d", ranks[0], ranks[d])
	}

	shape := RawShape{rows: rows, cols: cols}
	return shape, ranks, dtype, nil
}

// NumDims returns the number of TT modes.
func (t *Train) NumDims() int {
	return len(t.cores)
}

// Core returns the k-th TT-core. Callers must not mutate it.
func (t *Train) Core(k int) *tensor.Dense {
	return t.cores[k]
}

// Cores returns the core chain. The slice is a copy; the cores are not.
func (t *Train) Cores() []*tensor.Dense {
	return append([]*tensor.Dense(nil), t.cores...)
}

// RawShape returns the mode sizes.
func (t *Train) RawShape() RawShape {
	return t.shape
}

// Ranks returns the TT-rank sequence r_0, ..., r_d (length d+1).
func (t *Train) Ranks() []int {
	return append([]int(nil), t.ranks...)
}

// DType returns the element type shared by all cores.
func (t *Train) DType() tensor.DataType {
	return t.dtype
}

// IsMatrix reports whether the train is a TT-matrix.
func (t *Train) IsMatrix() bool {
	return t.shape.IsMatrix()
}
