// Copyright 2026 TTrain ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package riemannian

import (
	"github.com/ttrain-ml/ttrain/decomp"
	"github.com/ttrain-ml/ttrain/internal/parallel"
	"github.com/ttrain-ml/ttrain/internal/tensor"
	"github.com/ttrain-ml/ttrain/tt"
)

// plan is the execution plan shared by the three projection operations.
// The tensor-vs-matrix and single-vs-batch axes of the computation are
// resolved here, once, so the per-mode loops run a fixed shape of work.
type plan struct {
	op        string
	ndims     int
	dtype     tensor.DataType
	isMatrix  bool
	modeAxes  int // mode axes per core: 1 for TT-tensors, 2 for TT-matrices
	what      *tt.Batch
	batchSize int

	// Orthogonal bases of the manifold point and their (tangent) ranks.
	left       *tt.Train
	right      *tt.Train
	leftRanks  []int
	rightRanks []int

	par parallel.Config
}

// newPlan validates the argument pair, orthogonalizes the manifold point
// and fixes the execution shape. All validation happens here, before any
// contraction. matchShape requires what and where to share a raw shape;
// the fused operator product validates its three-way mode compatibility
// separately and passes false.
func newPlan(op string, what tt.Interface, where *tt.Train, matchShape bool) (*plan, error) {
	if matchShape && !where.RawShape().Equal(what.RawShape()) {
		return nil, &ShapeMismatchError{
			Op:   op,
			Want: where.RawShape().String(),
			Got:  what.RawShape().String(),
		}
	}
	if where.DType() != what.DType() {
		return nil, &DTypeMismatchError{Op: op, Where: where.DType(), What: what.DType()}
	}

	left, err := decomp.Orthogonalize(where, decomp.LeftToRight)
	if err != nil {
		return nil, err
	}
	right, err := decomp.Orthogonalize(left, decomp.RightToLeft)
	if err != nil {
		return nil, err
	}

	batch := tt.ExpandBatchDim(what)
	modeAxes := 1
	if where.IsMatrix() {
		modeAxes = 2
	}
	return &plan{
		op:         op,
		ndims:      where.NumDims(),
		dtype:      where.DType(),
		isMatrix:   where.IsMatrix(),
		modeAxes:   modeAxes,
		what:       batch,
		batchSize:  batch.BatchSize(),
		left:       left,
		right:      right,
		leftRanks:  left.Ranks(),
		rightRanks: right.Ranks(),
		par:        parallel.DefaultConfig(),
	}, nil
}

// buildResult wraps the assembled cores in the matching container kind.
func (p *plan) buildResult(cores []*tensor.Dense, batch bool) (tt.Interface, error) {
	if batch {
		if p.isMatrix {
			return tt.MatrixBatchFromCores(cores)
		}
		return tt.TensorBatchFromCores(cores)
	}
	if p.isMatrix {
		return tt.MatrixFromCores(cores)
	}
	return tt.TensorFromCores(cores)
}

// contract wraps tensor.Contract for sweep-internal call sites: argument
// validation has already guaranteed every shape, so a failure here is a
// bug, not an input error.
func contract(a, b *tensor.Dense, pairs [][2]int) *tensor.Dense {
	res, err := tensor.Contract(a, b, pairs)
	if err != nil {
		panic(err)
	}
	return res
}

// stack wraps tensor.Stack under the same contract.
func stack(ts []*tensor.Dense) *tensor.Dense {
	res, err := tensor.Stack(ts)
	if err != nil {
		panic(err)
	}
	return res
}
