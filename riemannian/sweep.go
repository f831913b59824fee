// Copyright 2026 TTrain ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package riemannian

import (
	"github.com/ttrain-ml/ttrain/internal/parallel"
	"github.com/ttrain-ml/ttrain/internal/tensor"
	"github.com/ttrain-ml/ttrain/tt"
)

// The sweep engine builds the two dynamic-programming accumulator tables
// shared by all projection variants. rhs[k][s] and lhs[k][s] hold, for
// batch element s, the partial contraction of the perturbation against
// the right- (resp. left-) orthogonal basis over modes k..d-1 (resp.
// 0..k-1). The tables carry unit sentinels at the two ends, so every
// step depends only on its neighbour and the two fixed cores at that
// mode. Batch elements within a step are independent and are evaluated
// in parallel.

// unitSentinels builds the boundary accumulators: one all-ones tensor of
// the given shape per batch element.
func (p *plan) unitSentinels(shape tensor.Shape) []*tensor.Dense {
	out := make([]*tensor.Dense, p.batchSize)
	for s := range out {
		out[s] = tensor.Ones(shape, p.dtype)
	}
	return out
}

// buildRHS runs the right-to-left sweep. rhs[k][s] has shape
// (tensorRank_k, tangentRank_k) against the right-orthogonal basis.
func (p *plan) buildRHS() [][]*tensor.Dense {
	d, m := p.ndims, p.modeAxes
	rhs := make([][]*tensor.Dense, d+1)
	rhs[d] = p.unitSentinels(tensor.Shape{1, 1})
	for k := d - 1; k >= 1; k-- {
		core := p.what.Core(k)
		basis := p.right.Core(k)
		prev := rhs[k+1]
		step := make([]*tensor.Dense, p.batchSize)
		parallel.For(p.batchSize, func(s int) {
			tens := core.Index(s)
			t1 := contract(tens, prev[s], [][2]int{{m + 1, 0}})
			pairs := make([][2]int, 0, m+1)
			for j := 1; j <= m+1; j++ {
				pairs = append(pairs, [2]int{j, j})
			}
			step[s] = contract(t1, basis, pairs)
		}, p.par)
		rhs[k] = step
	}
	return rhs
}

// buildLHS runs the left-to-right sweep. lhs[k][s] has shape
// (tangentRank_k, tensorRank_k) against the left-orthogonal basis.
func (p *plan) buildLHS() [][]*tensor.Dense {
	d, m := p.ndims, p.modeAxes
	lhs := make([][]*tensor.Dense, d+1)
	lhs[0] = p.unitSentinels(tensor.Shape{1, 1})
	for k := 0; k < d-1; k++ {
		core := p.what.Core(k)
		basis := p.left.Core(k)
		prev := lhs[k]
		step := make([]*tensor.Dense, p.batchSize)
		parallel.For(p.batchSize, func(s int) {
			tens := core.Index(s)
			t1 := contract(prev[s], tens, [][2]int{{1, 0}})
			pairs := make([][2]int, 0, m+1)
			pairs = append(pairs, [2]int{0, 0})
			for j := 1; j <= m; j++ {
				pairs = append(pairs, [2]int{j, j})
			}
			step[s] = contract(basis, t1, pairs)
		}, p.par)
		lhs[k+1] = step
	}
	return lhs
}

// buildRHSMatmul is the four-index variant of buildRHS for the fused
// operator product: every accumulator carries an extra operator-rank
// axis, rhs[k][s] having shape (tensorRank_k, operatorRank_k, tangentRank_k).
func (p *plan) buildRHSMatmul(op *tt.Train) [][]*tensor.Dense {
	d := p.ndims
	rhs := make([][]*tensor.Dense, d+1)
	rhs[d] = p.unitSentinels(tensor.Shape{1, 1, 1})
	for k := d - 1; k >= 1; k-- {
		core := p.what.Core(k)
		opCore := op.Core(k)
		basis := p.right.Core(k)
		prev := rhs[k+1]
		step := make([]*tensor.Dense, p.batchSize)
		parallel.For(p.batchSize, func(s int) {
			tens := core.Index(s)
			t1 := contract(tens, prev[s], [][2]int{{3, 0}})
			t2 := contract(t1, opCore, [][2]int{{1, 2}, {3, 3}})
			step[s] = contract(t2, basis, [][2]int{{1, 2}, {2, 3}, {4, 1}})
		}, p.par)
		rhs[k] = step
	}
	return rhs
}

// buildLHSMatmul mirrors buildRHSMatmul left to right; lhs[k][s] has
// shape (tangentRank_k, operatorRank_k, tensorRank_k).
func (p *plan) buildLHSMatmul(op *tt.Train) [][]*tensor.Dense {
	d := p.ndims
	lhs := make([][]*tensor.Dense, d+1)
	lhs[0] = p.unitSentinels(tensor.Shape{1, 1, 1})
	for k := 0; k < d-1; k++ {
		core := p.what.Core(k)
		opCore := op.Core(k)
		basis := p.left.Core(k)
		prev := lhs[k]
		step := make([]*tensor.Dense, p.batchSize)
		parallel.For(p.batchSize, func(s int) {
			tens := core.Index(s)
			t1 := contract(prev[s], basis, [][2]int{{0, 0}})
			t2 := contract(t1, opCore, [][2]int{{0, 0}, {2, 1}})
			step[s] = contract(t2, tens, [][2]int{{0, 0}, {1, 2}, {3, 1}})
		}, p.par)
		lhs[k+1] = step
	}
	return lhs
}
