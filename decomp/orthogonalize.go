// Copyright 2026 TTrain ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package decomp provides orthogonalization of Tensor-Train cores, the
// basis-construction step behind tangent-space algorithms.
package decomp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ttrain-ml/ttrain/internal/tensor"
	"github.com/ttrain-ml/ttrain/tt"
)

// Direction selects the orthogonalization sweep direction.
type Direction int

const (
	// LeftToRight produces left-orthogonal cores: the (r_k*n_k) x r_{k+1}
	// unfolding of every core but the last has orthonormal columns.
	LeftToRight Direction = iota
	// RightToLeft produces right-orthogonal cores: the r_k x (n_k*r_{k+1})
	// unfolding of every core but the first has orthonormal rows.
	RightToLeft
)

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "left-to-right"
	case RightToLeft:
		return "right-to-left"
	default:
		return "unknown"
	}
}

// workCore is a core being rewritten during a sweep: float64 data plus
// its current shape. Factorizations run in float64 regardless of the
// train's dtype; elements are narrowed back at the end.
type workCore struct {
	data  []float64
	shape tensor.Shape
}

// Orthogonalize returns a new train representing the same tensor with
// cores orthogonalized in the given direction. The raw shape is
// preserved; interior ranks may shrink to their feasible minima. The
// input is not modified.
func Orthogonalize(t *tt.Train, dir Direction) (*tt.Train, error) {
	d := t.NumDims()
	work := make([]workCore, d)
	for k := 0; k < d; k++ {
		core := t.Core(k)
		work[k] = workCore{data: core.Float64s(), shape: core.Shape().Clone()}
	}

	var err error
	switch dir {
	case LeftToRight:
		err = sweepLeft(work)
	case RightToLeft:
		err = sweepRight(work)
	default:
		return nil, fmt.Errorf("decomp: unknown direction %d", dir)
	}
	if err != nil {
		return nil, err
	}

	cores := make([]*tensor.Dense, d)
	for k := 0; k < d; k++ {
		cores[k], err = tensor.FromFloat64s(work[k].data, work[k].shape, t.DType())
		if err != nil {
			return nil, err
		}
	}
	if t.IsMatrix() {
		return tt.MatrixFromCores(cores)
	}
	return tt.TensorFromCores(cores)
}

// sweepLeft runs the left-to-right QR sweep: factor each core's column
// unfolding and absorb the triangular factor into the next core.
func sweepLeft(work []workCore) error {
	for k := 0; k < len(work)-1; k++ {
		sh := work[k].shape
		last := len(sh) - 1
		rows := sh.NumElements() / sh[last]
		cols := sh[last]

		q, r, rank, err := thinQR(mat.NewDense(rows, cols, work[k].data))
		if err != nil {
			return err
		}
		work[k].shape[last] = rank
		work[k].data = flatten(q)

		nsh := work[k+1].shape
		rest := nsh.NumElements() / nsh[0]
		next := mat.NewDense(cols, rest, work[k+1].data)
		var absorbed mat.Dense
		absorbed.Mul(r, next)
		work[k+1].shape[0] = rank
		work[k+1].data = flatten(&absorbed)
	}
	return nil
}

// sweepRight runs the right-to-left sweep: factor each core's row
// unfolding as L*Q and absorb L into the previous core.
func sweepRight(work []workCore) error {
	for k := len(work) - 1; k >= 1; k-- {
		sh := work[k].shape
		rows := sh[0]
		rest := sh.NumElements() / sh[0]

		unfold := mat.NewDense(rows, rest, work[k].data)
		q, l, rank, err := thinLQ(unfold)
		if err != nil {
			return err
		}
		work[k].shape[0] = rank
		work[k].data = flatten(q)

		psh := work[k-1].shape
		plast := len(psh) - 1
		prows := psh.NumElements() / psh[plast]
		prev := mat.NewDense(prows, psh[plast], work[k-1].data)
		var absorbed mat.Dense
		absorbed.Mul(prev, l)
		work[k-1].shape[plast] = rank
		work[k-1].data = flatten(&absorbed)
	}
	return nil
}

// thinQR factors a as q*r with q having orthonormal columns. The rank is
// min(m, n). gonum's QR covers the tall case; wide unfoldings (possible
// when a train carries more rank than the modes can support) go through
// a thin SVD, which yields the same kind of orthonormal column basis.
func thinQR(a *mat.Dense) (q, r mat.Matrix, rank int, err error) {
	m, n := a.Dims()
	if m >= n {
		var qr mat.QR
		qr.Factorize(a)
		var qm, rm mat.Dense
		qr.QTo(&qm)
		qr.RTo(&rm)
		return qm.Slice(0, m, 0, n), rm.Slice(0, n, 0, n), n, nil
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, nil, 0, fmt.Errorf("decomp: SVD of %dx%d unfolding failed to converge", m, n)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)
	rm := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			rm.Set(i, j, s[i]*v.At(j, i))
		}
	}
	return &u, rm, m, nil
}

// thinLQ factors a as l*q with q having orthonormal rows, via a QR of
// the transpose; tall unfoldings fall back to a thin SVD.
func thinLQ(a *mat.Dense) (q, l mat.Matrix, rank int, err error) {
	m, n := a.Dims()
	if n >= m {
		var at mat.Dense
		at.CloneFrom(a.T())
		qt, rt, rank, err := thinQR(&at)
		if err != nil {
			return nil, nil, 0, err
		}
		var qm, lm mat.Dense
		qm.CloneFrom(qt.T())
		lm.CloneFrom(rt.T())
		return &qm, &lm, rank, nil
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, nil, 0, fmt.Errorf("decomp: SVD of %dx%d unfolding failed to converge", m, n)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)
	var qm mat.Dense
	qm.CloneFrom(v.T())
	lm := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			lm.Set(i, j, u.At(i, j)*s[j])
		}
	}
	return &qm, lm, n, nil
}

// flatten copies a matrix into a row-major float64 slice.
func flatten(m mat.Matrix) []float64 {
	rows, cols := m.Dims()
	out := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[i*cols+j] = m.At(i, j)
		}
	}
	return out
}
