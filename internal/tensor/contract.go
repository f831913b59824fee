package tensor

import "fmt"

// Contract contracts a with b over the given axis pairs and returns a
// tensor whose axes are a's free axes (in order) followed by b's free
// axes. pairs[i][0] is an axis of a, pairs[i][1] the matching axis of b.
//
// This is the generic tensordot primitive every TT sweep step is built
// from: a contraction is described as data (a list of axis pairs), and
// one code path serves 3-index tensor cores, 4-index operator cores and
// every accumulator arity in between.
//
// Example:
//
//	// (r, n, q) x (q, m) over the shared rank axis -> (r, n, m)
//	c, err := tensor.Contract(a, b, [][2]int{{2, 0}})
func Contract(a, b *Dense, pairs [][2]int) (*Dense, error) {
	if a.dtype != b.dtype {
		return nil, fmt.Errorf("contract: mixed dtypes %s and %s", a.dtype, b.dtype)
	}
	usedA := make([]bool, len(a.shape))
	usedB := make([]bool, len(b.shape))
	for _, p := range pairs {
		axA, axB := p[0], p[1]
		if axA < 0 || axA >= len(a.shape) {
			return nil, fmt.Errorf("contract: axis %d out of range for shape %v", axA, a.shape)
		}
		if axB < 0 || axB >= len(b.shape) {
			return nil, fmt.Errorf("contract: axis %d out of range for shape %v", axB, b.shape)
		}
		if usedA[axA] || usedB[axB] {
			return nil, fmt.Errorf("contract: axis used twice in pairs %v", pairs)
		}
		usedA[axA] = true
		usedB[axB] = true
		if a.shape[axA] != b.shape[axB] {
			return nil, fmt.Errorf("contract: dimension mismatch on axes (%d, %d): %d vs %d",
				axA, axB, a.shape[axA], b.shape[axB])
		}
	}

	// Permute a to (free..., contracted...) and b to (contracted..., free...),
	// then the contraction is a single matrix product.
	permA := make([]int, 0, len(a.shape))
	freeShape := make(Shape, 0, len(a.shape)+len(b.shape))
	for i := range a.shape {
		if !usedA[i] {
			permA = append(permA, i)
			freeShape = append(freeShape, a.shape[i])
		}
	}
	contracted := 1
	for _, p := range pairs {
		permA = append(permA, p[0])
		contracted *= a.shape[p[0]]
	}
	permB := make([]int, 0, len(b.shape))
	for _, p := range pairs {
		permB = append(permB, p[1])
	}
	for i := range b.shape {
		if !usedB[i] {
			permB = append(permB, i)
			freeShape = append(freeShape, b.shape[i])
		}
	}

	m := a.NumElements() / contracted
	n := b.NumElements() / contracted
	lhs := a.Transpose(permA...).Reshape(m, contracted)
	rhs := b.Transpose(permB...).Reshape(contracted, n)

	out := Zeros(Shape{m, n}, a.dtype)
	switch a.dtype {
	case Float32:
		matmulKernel(lhs.AsFloat32(), rhs.AsFloat32(), out.AsFloat32(), m, contracted, n)
	default:
		matmulKernel(lhs.AsFloat64(), rhs.AsFloat64(), out.AsFloat64(), m, contracted, n)
	}
	if len(freeShape) == 0 {
		return out.Reshape(), nil
	}
	return out.Reshape(freeShape...), nil
}

// matmulKernel computes out = lhs(m x k) * rhs(k x n) with an ikj loop
// order that keeps the inner loop sequential over both operands.
func matmulKernel[T DType](lhs, rhs, out []T, m, k, n int) {
	for i := 0; i < m; i++ {
		outRow := out[i*n : (i+1)*n]
		for p := 0; p < k; p++ {
			v := lhs[i*k+p]
			if v == 0 {
				continue
			}
			rhsRow := rhs[p*n : (p+1)*n]
			for j := range outRow {
				outRow[j] += v * rhsRow[j]
			}
		}
	}
}
