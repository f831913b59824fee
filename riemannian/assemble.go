// Copyright 2026 TTrain ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package riemannian

import (
	"github.com/ttrain-ml/ttrain/internal/tensor"
)

// assemble turns the projection core for mode k into the output TT-core
// via the block construction of the explicit tangent-space
// representation:
//
//	k = 0:        [ proj | U ]            (concat on the trailing rank)
//	k = d-1:      [ V ; proj ]            (concat on the leading rank)
//	interior:     [ V    0 ]
//	              [ proj U ]
//
// where U and V are the left- and right-orthogonal cores of the manifold
// point at mode k. The layout doubles the tangent rank at every interior
// cut while keeping the boundary ranks at 1.
//
// A single-mode train has no interior cut: its fixed-rank manifold is
// the whole space and the projection is the projection core itself, so
// no concatenation applies and the result stays closed with unit
// boundary ranks.
func (p *plan) assemble(k int, proj *tensor.Dense) *tensor.Dense {
	if p.ndims == 1 {
		return proj
	}

	basisL := p.left.Core(k)
	basisR := p.right.Core(k)
	last := basisL.NumDims() - 1
	switch k {
	case 0:
		return mustConcat([]*tensor.Dense{proj, basisL}, last)
	case p.ndims - 1:
		return mustConcat([]*tensor.Dense{basisR, proj}, 0)
	default:
		shape := make(tensor.Shape, 0, last+1)
		shape = append(shape, p.rightRanks[k])
		shape = append(shape, basisL.Shape()[1:last]...)
		shape = append(shape, p.leftRanks[k+1])
		zeros := tensor.Zeros(shape, p.dtype)
		upper := mustConcat([]*tensor.Dense{basisR, zeros}, last)
		lower := mustConcat([]*tensor.Dense{proj, basisL}, last)
		return mustConcat([]*tensor.Dense{upper, lower}, 0)
	}
}

// mustConcat wraps tensor.Concat for assembly call sites whose shapes
// are fixed by the plan.
func mustConcat(ts []*tensor.Dense, axis int) *tensor.Dense {
	res, err := tensor.Concat(ts, axis)
	if err != nil {
		panic(err)
	}
	return res
}
