// Copyright 2026 TTrain ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttrain-ml/ttrain/tensor"
	"github.com/ttrain-ml/ttrain/tt"
)

func TestRawShape(t *testing.T) {
	ts := tt.TensorShape(2, 3, 4)
	assert.False(t, ts.IsMatrix())
	assert.Equal(t, 3, ts.NumDims())
	assert.Equal(t, tensor.Shape{2, 3, 4}, ts.Rows())
	assert.Nil(t, ts.Cols())
	assert.Equal(t, "(2, 3, 4)", ts.String())

	ms := tt.MatrixShape([]int{2, 3}, []int{4, 5})
	assert.True(t, ms.IsMatrix())
	assert.Equal(t, tensor.Shape{4, 5}, ms.Cols())
	assert.Equal(t, "(2, 3) x (4, 5)", ms.String())

	assert.True(t, ts.Equal(tt.TensorShape(2, 3, 4)))
	assert.False(t, ts.Equal(tt.TensorShape(2, 3)))
	assert.False(t, ts.Equal(tt.MatrixShape([]int{2, 3, 4}, []int{2, 3, 4})))
}

func TestTensorFromCores(t *testing.T) {
	cores := []*tensor.Dense{
		tensor.Randn(tensor.Shape{1, 2, 3}, tensor.Float64),
		tensor.Randn(tensor.Shape{3, 4, 2}, tensor.Float64),
		tensor.Randn(tensor.Shape{2, 5, 1}, tensor.Float64),
	}
	train, err := tt.TensorFromCores(cores)
	require.NoError(t, err)

	assert.Equal(t, 3, train.NumDims())
	assert.Equal(t, []int{1, 3, 2, 1}, train.Ranks())
	assert.Equal(t, tensor.Shape{2, 4, 5}, train.RawShape().Rows())
	assert.False(t, train.IsMatrix())
	assert.Equal(t, tensor.Float64, train.DType())
	assert.Same(t, cores[1], train.Core(1))
}

func TestTensorFromCoresErrors(t *testing.T) {
	valid := func() []*tensor.Dense {
		return []*tensor.Dense{
			tensor.Randn(tensor.Shape{1, 2, 3}, tensor.Float64),
			tensor.Randn(tensor.Shape{3, 4, 1}, tensor.Float64),
		}
	}

	_, err := tt.TensorFromCores(nil)
	assert.Error(t, err)

	// Rank mismatch between adjacent cores.
	cores := valid()
	cores[1] = tensor.Randn(tensor.Shape{2, 4, 1}, tensor.Float64)
	_, err = tt.TensorFromCores(cores)
	assert.ErrorContains(t, err, "rank mismatch")

	// Boundary ranks must be 1.
	cores = valid()
	cores[1] = tensor.Randn(tensor.Shape{3, 4, 2}, tensor.Float64)
	_, err = tt.TensorFromCores(cores)
	assert.ErrorContains(t, err, "boundary ranks")

	// Wrong core arity.
	cores = valid()
	cores[0] = tensor.Randn(tensor.Shape{1, 2, 1, 3}, tensor.Float64)
	_, err = tt.TensorFromCores(cores)
	assert.ErrorContains(t, err, "axes")

	// Mixed dtypes.
	cores = valid()
	cores[1] = tensor.Randn(tensor.Shape{3, 4, 1}, tensor.Float32)
	_, err = tt.TensorFromCores(cores)
	assert.ErrorContains(t, err, "dtype")
}

// Full must match the explicit sum over the rank indices:
//
//	full[i,j,k] = sum_{a,b} c0[0,i,a] c1[a,j,b] c2[b,k,0]
func TestTensorFull(t *testing.T) {
	train, err := tt.RandomTensor([]int{2, 3, 2}, []int{1, 2, 2, 1}, tensor.Float64)
	require.NoError(t, err)

	full := train.Full()
	require.Equal(t, tensor.Shape{2, 3, 2}, full.Shape())

	c0, c1, c2 := train.Core(0), train.Core(1), train.Core(2)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 2; k++ {
				want := 0.0
				for a := 0; a < 2; a++ {
					for b := 0; b < 2; b++ {
						want += c0.At(0, i, a) * c1.At(a, j, b) * c2.At(b, k, 0)
					}
				}
				assert.InDelta(t, want, full.At(i, j, k), 1e-12)
			}
		}
	}
}

func TestEyeMatrixFull(t *testing.T) {
	eye := tt.EyeMatrix([]int{2, 3}, tensor.Float64)
	assert.True(t, eye.IsMatrix())
	assert.Equal(t, []int{1, 1, 1}, eye.Ranks())

	full := eye.Full()
	require.Equal(t, tensor.Shape{6, 6}, full.Shape())
	assert.InDelta(t, 0, tensor.MaxAbsDiff(full, tensor.Eye(6, tensor.Float64)), 1e-12)
}

func TestMatrixFull(t *testing.T) {
	m, err := tt.RandomMatrix([]int{2, 3}, []int{3, 2}, []int{1, 2, 1}, tensor.Float64)
	require.NoError(t, err)

	full := m.Full()
	require.Equal(t, tensor.Shape{6, 6}, full.Shape())

	// Row index (i1, i2) and column index (j1, j2) flatten row-major.
	c0, c1 := m.Core(0), m.Core(1)
	for i1 := 0; i1 < 2; i1++ {
		for i2 := 0; i2 < 3; i2++ {
			for j1 := 0; j1 < 3; j1++ {
				for j2 := 0; j2 < 2; j2++ {
					want := 0.0
					for a := 0; a < 2; a++ {
						want += c0.At(0, i1, j1, a) * c1.At(a, i2, j2, 0)
					}
					assert.InDelta(t, want, full.At(i1*3+i2, j1*2+j2), 1e-12)
				}
			}
		}
	}
}

func TestAdd(t *testing.T) {
	a, err := tt.RandomTensor([]int{2, 3, 2}, []int{1, 2, 2, 1}, tensor.Float64)
	require.NoError(t, err)
	b, err := tt.RandomTensor([]int{2, 3, 2}, []int{1, 3, 2, 1}, tensor.Float64)
	require.NoError(t, err)

	sum, err := tt.Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5, 4, 1}, sum.Ranks())

	want := tensor.Add(a.Full(), b.Full())
	assert.InDelta(t, 0, tensor.MaxAbsDiff(sum.Full(), want), 1e-12)
}

func TestAddSingleMode(t *testing.T) {
	a, err := tt.RandomTensor([]int{5}, []int{1, 1}, tensor.Float64)
	require.NoError(t, err)
	b, err := tt.RandomTensor([]int{5}, []int{1, 1}, tensor.Float64)
	require.NoError(t, err)

	sum, err := tt.Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1}, sum.Ranks())
	want := tensor.Add(a.Full(), b.Full())
	assert.InDelta(t, 0, tensor.MaxAbsDiff(sum.Full(), want), 1e-12)
}

func TestAddErrors(t *testing.T) {
	a, _ := tt.RandomTensor([]int{2, 3}, []int{1, 2, 1}, tensor.Float64)
	b, _ := tt.RandomTensor([]int{2, 4}, []int{1, 2, 1}, tensor.Float64)
	_, err := tt.Add(a, b)
	assert.ErrorContains(t, err, "raw shapes")

	c, _ := tt.RandomTensor([]int{2, 3}, []int{1, 2, 1}, tensor.Float32)
	_, err = tt.Add(a, c)
	assert.ErrorContains(t, err, "dtypes")
}

func TestScalarMul(t *testing.T) {
	a, err := tt.RandomTensor([]int{2, 3, 2}, []int{1, 2, 2, 1}, tensor.Float64)
	require.NoError(t, err)

	scaled := tt.ScalarMul(a, -2.5)
	assert.Equal(t, a.Ranks(), scaled.Ranks())
	want := a.Full().Scale(-2.5)
	assert.InDelta(t, 0, tensor.MaxAbsDiff(scaled.Full(), want), 1e-12)

	// The input train must be untouched.
	assert.InDelta(t, 0, tensor.MaxAbsDiff(a.Full(), want.Scale(-0.4)), 1e-12)
}

func TestMatMul(t *testing.T) {
	a, err := tt.RandomMatrix([]int{2, 3}, []int{3, 2}, []int{1, 2, 1}, tensor.Float64)
	require.NoError(t, err)
	b, err := tt.RandomMatrix([]int{3, 2}, []int{2, 2}, []int{1, 3, 1}, tensor.Float64)
	require.NoError(t, err)

	prod, err := tt.MatMul(a, b)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 6, 1}, prod.Ranks())
	assert.Equal(t, tensor.Shape{2, 3}, prod.RawShape().Rows())
	assert.Equal(t, tensor.Shape{2, 2}, prod.RawShape().Cols())

	dense, err := tensor.Contract(a.Full(), b.Full(), [][2]int{{1, 0}})
	require.NoError(t, err)
	assert.InDelta(t, 0, tensor.MaxAbsDiff(prod.Full(), dense), 1e-10)
}

func TestMatMulErrors(t *testing.T) {
	m, _ := tt.RandomMatrix([]int{2, 2}, []int{2, 2}, []int{1, 2, 1}, tensor.Float64)
	v, _ := tt.RandomTensor([]int{2, 2}, []int{1, 2, 1}, tensor.Float64)

	_, err := tt.MatMul(m, v)
	assert.ErrorContains(t, err, "TT-matrices")

	other, _ := tt.RandomMatrix([]int{3, 3}, []int{3, 3}, []int{1, 2, 1}, tensor.Float64)
	_, err = tt.MatMul(m, other)
	assert.ErrorContains(t, err, "inner modes")
}

func TestBatchAt(t *testing.T) {
	batch, err := tt.RandomTensorBatch([]int{2, 3}, []int{1, 2, 1}, 4, tensor.Float64)
	require.NoError(t, err)
	assert.Equal(t, 4, batch.BatchSize())
	assert.Equal(t, 4, tt.BatchSizeOf(batch))

	elem, err := batch.At(2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 1}, elem.Ranks())
	assert.InDelta(t, 0, tensor.MaxAbsDiff(elem.Full(), batch.Full().Index(2)), 1e-12)

	_, err = batch.At(4)
	assert.Error(t, err)
}

func TestExpandBatchDim(t *testing.T) {
	train, err := tt.RandomTensor([]int{2, 3}, []int{1, 2, 1}, tensor.Float64)
	require.NoError(t, err)
	assert.Equal(t, 1, tt.BatchSizeOf(train))

	batch := tt.ExpandBatchDim(train)
	assert.Equal(t, 1, batch.BatchSize())
	elem, err := batch.At(0)
	require.NoError(t, err)
	assert.InDelta(t, 0, tensor.MaxAbsDiff(elem.Full(), train.Full()), 1e-12)

	// A batch passes through unchanged.
	assert.Same(t, batch, tt.ExpandBatchDim(batch))
}

func TestBatchFromCoresValidation(t *testing.T) {
	cores := []*tensor.Dense{
		tensor.Randn(tensor.Shape{3, 1, 2, 2}, tensor.Float64),
		tensor.Randn(tensor.Shape{2, 2, 4, 1}, tensor.Float64), // batch size 2, not 3
	}
	_, err := tt.TensorBatchFromCores(cores)
	assert.ErrorContains(t, err, "batch size")
}

func TestRandomConstructorsValidate(t *testing.T) {
	_, err := tt.RandomTensor([]int{2, 3}, []int{1, 2}, tensor.Float64)
	assert.ErrorContains(t, err, "rank sequence")

	_, err = tt.RandomTensor([]int{2, 3}, []int{2, 2, 1}, tensor.Float64)
	assert.ErrorContains(t, err, "boundary")

	_, err = tt.RandomMatrix([]int{2, 3}, []int{2}, []int{1, 2, 1}, tensor.Float64)
	assert.ErrorContains(t, err, "length")

	_, err = tt.RandomTensorBatch([]int{2}, []int{1, 1}, 0, tensor.Float64)
	assert.ErrorContains(t, err, "batch size")
}
