// Copyright 2026 TTrain ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tt

import (
	"fmt"

	"github.com/ttrain-ml/ttrain/internal/tensor"
)

// MatMul returns the TT-matrix product a * b. Both operands must be
// TT-matrices with matching inner mode sizes; the result's rank at each
// cut is the product of the operands' ranks.
func MatMul(a, b *Train) (*Train, error) {
	if !a.IsMatrix() || !b.IsMatrix() {
		return nil, fmt.Errorf("tt: matmul requires TT-matrices, got %s and %s", a.RawShape(), b.RawShape())
	}
	if a.NumDims() != b.NumDims() {
		return nil, fmt.Errorf("tt: matmul operands have %d and %d modes", a.NumDims(), b.NumDims())
	}
	if !a.RawShape().Cols().Equal(b.RawShape().Rows()) {
		return nil, fmt.Errorf("tt: matmul inner modes mismatch: %s vs %s", a.RawShape(), b.RawShape())
	}
	if a.DType() != b.DType() {
		return nil, fmt.Errorf("tt: matmul operands have dtypes %s and %s", a.DType(), b.DType())
	}

	ra, rb := a.Ranks(), b.Ranks()
	d := a.NumDims()
	cores := make([]*tensor.Dense, d)
	for k := 0; k < d; k++ {
		ca, cb := a.Core(k), b.Core(k)
		// Contract the shared mode, then merge the two rank pairs.
		prod := mustContract(ca, cb, [][2]int{{2, 1}})
		prod = prod.Transpose(0, 3, 1, 4, 2, 5)
		rows := ca.Shape()[1]
		cols := cb.Shape()[2]
		cores[k] = prod.Reshape(ra[k]*rb[k], rows, cols, ra[k+1]*rb[k+1])
	}
	return MatrixFromCores(cores)
}
