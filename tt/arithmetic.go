// Copyright 2026 TTrain ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tt

import (
	"fmt"

	"github.com/ttrain-ml/ttrain/internal/tensor"
)

// mustConcat wraps tensor.Concat for call sites whose shapes are
// guaranteed by container invariants.
func mustConcat(ts []*tensor.Dense, axis int) *tensor.Dense {
	res, err := tensor.Concat(ts, axis)
	if err != nil {
		panic(err)
	}
	return res
}

// Add returns a + b as a new train. The result's rank at each interior
// cut is the sum of the operands' ranks: cores are laid out
// block-diagonally, with plain concatenation at the two boundary modes.
func Add(a, b *Train) (*Train, error) {
	if !a.RawShape().Equal(b.RawShape()) {
		return nil, fmt.Errorf("tt: cannot add trains with raw shapes %s and %s", a.RawShape(), b.RawShape())
	}
	if a.DType() != b.DType() {
		return nil, fmt.Errorf("tt: cannot add trains with dtypes %s and %s", a.DType(), b.DType())
	}

	d := a.NumDims()
	if d == 1 {
		core := tensor.Add(a.Core(0), b.Core(0))
		return trainFromCores([]*tensor.Dense{core}, a.IsMatrix())
	}

	ra, rb := a.Ranks(), b.Ranks()
	cores := make([]*tensor.Dense, d)
	for k := 0; k < d; k++ {
		ca, cb := a.Core(k), b.Core(k)
		last := ca.NumDims() - 1
		modes := tensor.Shape(ca.Shape()[1:last]).Clone()
		switch k {
		case 0:
			cores[k] = mustConcat([]*tensor.Dense{ca, cb}, last)
		case d - 1:
			cores[k] = mustConcat([]*tensor.Dense{ca, cb}, 0)
		default:
			zerosUpper := tensor.Zeros(blockShape(ra[k], modes, rb[k+1]), a.DType())
			zerosLower := tensor.Zeros(blockShape(rb[k], modes, ra[k+1]), a.DType())
			upper := mustConcat([]*tensor.Dense{ca, zerosUpper}, last)
			lower := mustConcat([]*tensor.Dense{zerosLower, cb}, last)
			cores[k] = mustConcat([]*tensor.Dense{upper, lower}, 0)
		}
	}
	return trainFromCores(cores, a.IsMatrix())
}

// blockShape builds the core shape (left, modes..., right).
func blockShape(left int, modes tensor.Shape, right int) tensor.Shape {
	shape := make(tensor.Shape, 0, len(modes)+2)
	shape = append(shape, left)
	shape = append(shape, modes...)
	shape = append(shape, right)
	return shape
}

// ScalarMul returns c * t as a new train; only the first core is scaled.
func ScalarMul(t *Train, c float64) *Train {
	cores := t.Cores()
	cores[0] = cores[0].Scale(c)
	for k := 1; k < len(cores); k++ {
		cores[k] = cores[k].Clone()
	}
	out, err := trainFromCores(cores, t.IsMatrix())
	if err != nil {
		panic(err)
	}
	return out
}
