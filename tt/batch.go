// Copyright 2026 TTrain ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tt

import (
	"fmt"

	"github.com/ttrain-ml/ttrain/internal/tensor"
)

// Batch is a batch of Tensor-Trains sharing one raw shape and one rank
// sequence. Every core carries a leading batch axis: (S, r_k, n_k, r_{k+1})
// for TT-tensors, (S, r_k, n_k, m_k, r_{k+1}) for TT-matrices.
type Batch struct {
	cores []*tensor.Dense
	shape RawShape
	ranks []int
	dtype tensor.DataType
	size  int
}

// TensorBatchFromCores builds a TT-tensor batch from 4-axis cores
// (S, r_k, n_k, r_{k+1}).
func TensorBatchFromCores(cores []*tensor.Dense) (*Batch, error) {
	return batchFromCores(cores, false)
}

// MatrixBatchFromCores builds a TT-matrix batch from 5-axis cores
// (S, r_k, n_k, m_k, r_{k+1}).
func MatrixBatchFromCores(cores []*tensor.Dense) (*Batch, error) {
	return batchFromCores(cores, true)
}

func batchFromCores(cores []*tensor.Dense, matrix bool) (*Batch, error) {
	shape, ranks, dtype, err := validateChain(cores, matrix, true)
	if err != nil {
		return nil, err
	}
	return &Batch{
		cores: append([]*tensor.Dense(nil), cores...),
		shape: shape,
		ranks: ranks,
		dtype: dtype,
		size:  cores[0].Shape()[0],
	}, nil
}

// NumDims returns the number of TT modes.
func (b *Batch) NumDims() int {
	return len(b.cores)
}

// BatchSize returns the number of elements in the batch.
func (b *Batch) BatchSize() int {
	return b.size
}

// Core returns the k-th TT-core, batch axis included. Callers must not
// mutate it.
func (b *Batch) Core(k int) *tensor.Dense {
	return b.cores[k]
}

// Cores returns the core chain. The slice is a copy; the cores are not.
func (b *Batch) Cores() []*tensor.Dense {
	return append([]*tensor.Dense(nil), b.cores...)
}

// RawShape returns the mode sizes (without the batch axis).
func (b *Batch) RawShape() RawShape {
	return b.shape
}

// Ranks returns the TT-rank sequence r_0, ..., r_d (length d+1).
func (b *Batch) Ranks() []int {
	return append([]int(nil), b.ranks...)
}

// DType returns the element type shared by all cores.
func (b *Batch) DType() tensor.DataType {
	return b.dtype
}

// IsMatrix reports whether the batch holds TT-matrices.
func (b *Batch) IsMatrix() bool {
	return b.shape.IsMatrix()
}

// At extracts batch element i as a standalone Train. The returned train
// shares core storage with the batch.
func (b *Batch) At(i int) (*Train, error) {
	if i < 0 || i >= b.size {
		return nil, fmt.Errorf("tt: batch index %d out of range for size %d", i, b.size)
	}
	cores := make([]*tensor.Dense, len(b.cores))
	for k, core := range b.cores {
		cores[k] = core.Index(i)
	}
	if b.IsMatrix() {
		return MatrixFromCores(cores)
	}
	return TensorFromCores(cores)
}

// ExpandBatchDim promotes a Train to a batch of one. A Batch passes
// through unchanged. The result shares core storage with the input.
func ExpandBatchDim(t Interface) *Batch {
	switch v := t.(type) {
	case *Batch:
		return v
	case *Train:
		cores := make([]*tensor.Dense, v.NumDims())
		for k := range cores {
			cores[k] = v.Core(k).Unsqueeze(0)
		}
		return &Batch{
			cores: cores,
			shape: v.shape,
			ranks: v.Ranks(),
			dtype: v.dtype,
			size:  1,
		}
	default:
		panic(fmt.Sprintf("tt: unsupported TT container %T", t))
	}
}

// BatchSizeOf returns the batch size of a TT object: 1 for a Train.
func BatchSizeOf(t Interface) int {
	if b, ok := t.(*Batch); ok {
		return b.size
	}
	return 1
}
