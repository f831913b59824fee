// Copyright 2026 TTrain ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package riemannian projects perturbations onto the tangent space of a
// low-rank Tensor-Train manifold.
//
// Given a manifold point `where` and a perturbation `what` (a single
// train, a batch, a weighted sum of a batch, or a fused operator-train
// product), each operation returns the closest tangent-space
// representative as a TT object whose interior ranks are the sum of the
// point's left- and right-orthogonal tangent ranks (twice the tangent
// rank for a minimal-rank point). The construction follows the explicit
// tangent-space representation of Lubich, Oseledets and Vandereycken,
// "Time integration of Tensor Trains", theorem 3.1.
//
// All operations are pure and synchronous: the only concurrency is the
// internal fan-out across independent batch elements.
package riemannian

import (
	"fmt"

	"github.com/ttrain-ml/ttrain/internal/parallel"
	"github.com/ttrain-ml/ttrain/internal/tensor"
	"github.com/ttrain-ml/ttrain/tt"
)

// Project projects each element of `what` onto the tangent space of
// `where` independently. A *tt.Train input yields a *tt.Train; a
// *tt.Batch input yields a *tt.Batch of the same size.
func Project(what tt.Interface, where *tt.Train) (tt.Interface, error) {
	p, err := newPlan("project", what, where, true)
	if err != nil {
		return nil, err
	}
	_, outBatch := what.(*tt.Batch)

	rhs := p.buildRHS()
	lhs := p.buildLHS()

	d, m := p.ndims, p.modeAxes
	resCores := make([]*tensor.Dense, d)
	for k := 0; k < d; k++ {
		core := p.what.Core(k)
		basisL := p.left.Core(k)
		assembled := make([]*tensor.Dense, p.batchSize)
		parallel.For(p.batchSize, func(s int) {
			tens := core.Index(s)
			var proj *tensor.Dense
			if k == d-1 {
				proj = contract(lhs[k][s], tens, [][2]int{{1, 0}})
			} else {
				proj = contract(lhs[k][s], tens, [][2]int{{1, 0}})
				gauge := contract(basisL, lhs[k+1][s], [][2]int{{m + 1, 0}})
				proj = tensor.Sub(proj, gauge)
				proj = contract(proj, rhs[k+1][s], [][2]int{{m + 1, 0}})
			}
			assembled[s] = p.assemble(k, proj)
		}, p.par)
		if outBatch {
			resCores[k] = stack(assembled)
		} else {
			resCores[k] = assembled[0]
		}
	}
	return p.buildResult(resCores, outBatch)
}

// ProjectSum projects a weighted sum of the elements of `what` onto the
// tangent space of `where`.
//
// With nil weights the plain sum of the batch is projected and a
// *tt.Train is returned. A 1-D weights tensor of length S mixes the
// batch into a single weighted sum. A 2-D weights tensor of shape (S, O)
// with O > 1 produces O independent weighted-sum projections in one
// pass, returned as a *tt.Batch of size O.
func ProjectSum(what tt.Interface, where *tt.Train, weights *tensor.Dense) (tt.Interface, error) {
	p, err := newPlan("project_sum", what, where, true)
	if err != nil {
		return nil, err
	}
	w, outBatch, err := p.resolveWeights(weights)
	if err != nil {
		return nil, err
	}
	numOut := len(w[0])

	rhs := p.buildRHS()
	lhs := p.buildLHS()

	d, m := p.ndims, p.modeAxes
	resCores := make([]*tensor.Dense, d)
	for k := 0; k < d; k++ {
		core := p.what.Core(k)
		basisL := p.left.Core(k)

		// Per-element contribution at this mode.
		terms := make([]*tensor.Dense, p.batchSize)
		parallel.For(p.batchSize, func(s int) {
			tens := core.Index(s)
			if k == d-1 {
				terms[s] = contract(lhs[k][s], tens, [][2]int{{1, 0}})
				return
			}
			t1 := contract(lhs[k][s], tens, [][2]int{{1, 0}})
			terms[s] = contract(t1, rhs[k+1][s], [][2]int{{m + 1, 0}})
		}, p.par)

		// Self-contraction of the left basis over its trailing rank,
		// used to remove the in-span component after mixing.
		var span *tensor.Dense
		if k < d-1 {
			span = contract(basisL, basisL, [][2]int{{m + 1, m + 1}})
		}

		assembled := make([]*tensor.Dense, numOut)
		for o := 0; o < numOut; o++ {
			mixed := tensor.Zeros(terms[0].Shape(), p.dtype)
			for s := 0; s < p.batchSize; s++ {
				tensor.AddScaled(mixed, terms[s], w[s][o])
			}
			if k < d-1 {
				pairs := make([][2]int, 0, m+1)
				for j := 0; j <= m; j++ {
					pairs = append(pairs, [2]int{j, j})
				}
				gauge := contract(span, mixed, pairs)
				mixed = tensor.Sub(mixed, gauge)
			}
			assembled[o] = p.assemble(k, mixed)
		}
		if outBatch {
			resCores[k] = stack(assembled)
		} else {
			resCores[k] = assembled[0]
		}
	}
	return p.buildResult(resCores, outBatch)
}

// resolveWeights normalizes the weights argument into an S x O mixing
// matrix. nil means the plain all-ones sum. The output is a batch only
// when weights is a matrix with more than one column.
func (p *plan) resolveWeights(weights *tensor.Dense) ([][]float64, bool, error) {
	if weights == nil {
		w := make([][]float64, p.batchSize)
		for s := range w {
			w[s] = []float64{1}
		}
		return w, false, nil
	}
	if weights.DType() != p.dtype {
		return nil, false, &DTypeMismatchError{Op: p.op, Where: p.dtype, What: weights.DType()}
	}
	shape := weights.Shape()
	switch len(shape) {
	case 1:
		if shape[0] != p.batchSize {
			return nil, false, &ShapeMismatchError{
				Op:   p.op,
				Want: fmt.Sprintf("(%d) weights", p.batchSize),
				Got:  fmt.Sprintf("%v", shape),
			}
		}
		w := make([][]float64, p.batchSize)
		for s := range w {
			w[s] = []float64{weights.At(s)}
		}
		return w, false, nil
	case 2:
		if shape[0] != p.batchSize {
			return nil, false, &ShapeMismatchError{
				Op:   p.op,
				Want: fmt.Sprintf("(%d, O) weights", p.batchSize),
				Got:  fmt.Sprintf("%v", shape),
			}
		}
		numOut := shape[1]
		w := make([][]float64, p.batchSize)
		for s := range w {
			w[s] = make([]float64, numOut)
			for o := 0; o < numOut; o++ {
				w[s][o] = weights.At(s, o)
			}
		}
		return w, numOut > 1, nil
	default:
		return nil, false, &ShapeMismatchError{
			Op:   p.op,
			Want: fmt.Sprintf("(%d) or (%d, O) weights", p.batchSize, p.batchSize),
			Got:  fmt.Sprintf("%v", shape),
		}
	}
}

// ProjectMatmul projects the implicit operator product `matrix * what`
// onto the tangent space of `where` without materializing the product.
// All three arguments must be TT-matrices; the operator's column modes
// must match `what`'s row modes and its row modes must match `where`'s.
func ProjectMatmul(what tt.Interface, where, matrix *tt.Train) (tt.Interface, error) {
	p, err := newPlan("project_matmul", what, where, false)
	if err != nil {
		return nil, err
	}
	if err := p.validateOperator(what, where, matrix); err != nil {
		return nil, err
	}
	_, outBatch := what.(*tt.Batch)

	rhs := p.buildRHSMatmul(matrix)
	lhs := p.buildLHSMatmul(matrix)

	d := p.ndims
	resCores := make([]*tensor.Dense, d)
	for k := 0; k < d; k++ {
		core := p.what.Core(k)
		opCore := matrix.Core(k)
		basisL := p.left.Core(k)
		assembled := make([]*tensor.Dense, p.batchSize)
		parallel.For(p.batchSize, func(s int) {
			tens := core.Index(s)
			var proj *tensor.Dense
			if k == d-1 {
				t1 := contract(lhs[k][s], opCore, [][2]int{{1, 0}})
				t2 := contract(t1, tens, [][2]int{{1, 0}, {3, 1}})
				// Both trailing ranks are 1 here; collapsing the operator
				// axis and keeping the perturbation axis is a convention --
				// the opposite choice would be equally valid.
				proj = t2.SumAxis(2)
			} else {
				t1 := contract(lhs[k][s], tens, [][2]int{{2, 0}})
				t2 := contract(t1, opCore, [][2]int{{1, 0}, {2, 2}})
				proj = t2.Transpose(0, 3, 1, 4, 2)
				gauge := contract(basisL, lhs[k+1][s], [][2]int{{3, 0}})
				proj = tensor.Sub(proj, gauge)
				proj = contract(proj, rhs[k+1][s], [][2]int{{3, 1}, {4, 0}})
			}
			assembled[s] = p.assemble(k, proj)
		}, p.par)
		if outBatch {
			resCores[k] = stack(assembled)
		} else {
			resCores[k] = assembled[0]
		}
	}
	return p.buildResult(resCores, outBatch)
}

// validateOperator checks the three-way mode compatibility of the fused
// product: matrix * what must have exactly where's raw shape.
func (p *plan) validateOperator(what tt.Interface, where, matrix *tt.Train) error {
	if !p.isMatrix || !what.IsMatrix() {
		return &ShapeMismatchError{
			Op:   p.op,
			Want: "TT-matrix operands",
			Got:  what.RawShape().String(),
		}
	}
	if !matrix.IsMatrix() {
		return &ShapeMismatchError{
			Op:   p.op,
			Want: "a TT-matrix operator",
			Got:  matrix.RawShape().String(),
		}
	}
	if matrix.DType() != p.dtype {
		return &DTypeMismatchError{Op: p.op, Where: p.dtype, What: matrix.DType()}
	}
	if what.NumDims() != p.ndims || matrix.NumDims() != p.ndims ||
		!matrix.RawShape().Cols().Equal(what.RawShape().Rows()) ||
		!matrix.RawShape().Rows().Equal(where.RawShape().Rows()) ||
		!what.RawShape().Cols().Equal(where.RawShape().Cols()) {
		return &ShapeMismatchError{
			Op:   p.op,
			Want: fmt.Sprintf("operator %v x %v against perturbation with column modes %v",
				[]int(where.RawShape().Rows()), []int(what.RawShape().Rows()),
				[]int(where.RawShape().Cols())),
			Got: fmt.Sprintf("%s applied to %s", matrix.RawShape(), what.RawShape()),
		}
	}
	return nil
}
