// Copyright 2026 TTrain ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tt

import (
	"github.com/ttrain-ml/ttrain/internal/tensor"
)

// mustContract wraps tensor.Contract for call sites whose shapes are
// guaranteed by container invariants.
func mustContract(a, b *tensor.Dense, pairs [][2]int) *tensor.Dense {
	res, err := tensor.Contract(a, b, pairs)
	if err != nil {
		panic(err)
	}
	return res
}

// Full materializes the train as a dense tensor: shape (n_1, ..., n_d)
// for a TT-tensor, (n_1*...*n_d, m_1*...*m_d) for a TT-matrix.
//
// The result has exponentially many elements in the number of modes;
// this is a debugging and testing aid, not an operation to run on large
// trains.
func (t *Train) Full() *tensor.Dense {
	d := t.NumDims()
	res := t.cores[0].Index(0) // drop the leading unit rank
	for k := 1; k < d; k++ {
		res = mustContract(res, t.cores[k], [][2]int{{res.NumDims() - 1, 0}})
	}
	// Drop the trailing unit rank.
	shape := res.Shape()
	res = res.Reshape(tensor.Shape(shape[:len(shape)-1])...)

	if !t.IsMatrix() {
		return res
	}
	// Axes are interleaved (n_1, m_1, n_2, m_2, ...); bring all row modes
	// forward, then flatten to a single matrix.
	perm := make([]int, 0, 2*d)
	for k := 0; k < d; k++ {
		perm = append(perm, 2*k)
	}
	for k := 0; k < d; k++ {
		perm = append(perm, 2*k+1)
	}
	res = res.Transpose(perm...)
	return res.Reshape(t.shape.rows.NumElements(), t.shape.cols.NumElements())
}

// Full materializes every batch element, stacked along a leading axis.
func (b *Batch) Full() *tensor.Dense {
	fulls := make([]*tensor.Dense, b.size)
	for i := range fulls {
		elem, err := b.At(i)
		if err != nil {
			panic(err)
		}
		fulls[i] = elem.Full()
	}
	res, err := tensor.Stack(fulls)
	if err != nil {
		panic(err)
	}
	return res
}
