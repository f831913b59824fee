// Copyright 2026 TTrain ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tt

import (
	"fmt"

	"github.com/ttrain-ml/ttrain/internal/tensor"
)

// checkRanks validates a rank sequence against the number of modes.
func checkRanks(ranks []int, d int) error {
	if len(ranks) != d+1 {
		return fmt.Errorf("tt: rank sequence length %d does not match %d modes", len(ranks), d)
	}
	if ranks[0] != 1 || ranks[d] != 1 {
		return fmt.Errorf("tt: boundary ranks must be 1, got %d and %d", ranks[0], ranks[d])
	}
	for k, r := range ranks {
		if r <= 0 {
			return fmt.Errorf("tt: rank %d at cut %d must be positive", r, k)
		}
	}
	return nil
}

// RandomTensor creates a TT-tensor with the given mode sizes and ranks,
// cores drawn from N(0, 1).
func RandomTensor(modes, ranks []int, dtype tensor.DataType) (*Train, error) {
	if err := checkRanks(ranks, len(modes)); err != nil {
		return nil, err
	}
	cores := make([]*tensor.Dense, len(modes))
	for k, n := range modes {
		cores[k] = tensor.Randn(tensor.Shape{ranks[k], n, ranks[k+1]}, dtype)
	}
	return TensorFromCores(cores)
}

// RandomMatrix creates a TT-matrix with the given row/column mode sizes
// and ranks, cores drawn from N(0, 1).
func RandomMatrix(rows, cols, ranks []int, dtype tensor.DataType) (*Train, error) {
	if len(rows) != len(cols) {
		return nil, fmt.Errorf("tt: row modes %v and column modes %v differ in length", rows, cols)
	}
	if err := checkRanks(ranks, len(rows)); err != nil {
		return nil, err
	}
	cores := make([]*tensor.Dense, len(rows))
	for k := range rows {
		cores[k] = tensor.Randn(tensor.Shape{ranks[k], rows[k], cols[k], ranks[k+1]}, dtype)
	}
	return MatrixFromCores(cores)
}

// RandomTensorBatch creates a batch of size random TT-tensors sharing
// mode sizes and ranks.
func RandomTensorBatch(modes, ranks []int, size int, dtype tensor.DataType) (*Batch, error) {
	if size <= 0 {
		return nil, fmt.Errorf("tt: batch size must be positive, got %d", size)
	}
	if err := checkRanks(ranks, len(modes)); err != nil {
		return nil, err
	}
	cores := make([]*tensor.Dense, len(modes))
	for k, n := range modes {
		cores[k] = tensor.Randn(tensor.Shape{size, ranks[k], n, ranks[k+1]}, dtype)
	}
	return TensorBatchFromCores(cores)
}

// EyeMatrix creates the identity TT-matrix on the given mode sizes: every
// core is a unit-rank slice holding a mode-sized identity matrix.
func EyeMatrix(modes []int, dtype tensor.DataType) *Train {
	cores := make([]*tensor.Dense, len(modes))
	for k, n := range modes {
		cores[k] = tensor.Eye(n, dtype).Reshape(1, n, n, 1)
	}
	out, err := MatrixFromCores(cores)
	if err != nil {
		panic(err)
	}
	return out
}
