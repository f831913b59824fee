package tensor

import "fmt"

// Reshape returns a tensor viewing the same data with a different shape.
// One dimension may be -1 and is inferred from the element count.
// Panics if the element counts cannot match; Dense buffers are always
// contiguous, so no copy is made.
func (d *Dense) Reshape(dims ...int) *Dense {
	shape := make(Shape, len(dims))
	copy(shape, dims)
	infer := -1
	known := 1
	for i, dim := range shape {
		switch {
		case dim == -1:
			if infer >= 0 {
				panic("reshape: at most one dimension may be -1")
			}
			infer = i
		case dim <= 0:
			panic(fmt.Sprintf("reshape: invalid dimension %d", dim))
		default:
			known *= dim
		}
	}
	if infer >= 0 {
		if d.NumElements()%known != 0 {
			panic(fmt.Sprintf("reshape: cannot infer dimension for %v from %d elements", shape, d.NumElements()))
		}
		shape[infer] = d.NumElements() / known
	} else if known != d.NumElements() {
		panic(fmt.Sprintf("reshape: %v has %d elements, tensor has %d", shape, known, d.NumElements()))
	}
	return &Dense{
		data:   d.data,
		shape:  shape,
		stride: shape.ComputeStrides(),
		dtype:  d.dtype,
	}
}

// Unsqueeze returns a view with a dimension of size 1 inserted at the
// given position.
func (d *Dense) Unsqueeze(axis int) *Dense {
	if axis < 0 || axis > len(d.shape) {
		panic(fmt.Sprintf("unsqueeze: axis %d out of range for rank %d", axis, len(d.shape)))
	}
	shape := make(Shape, 0, len(d.shape)+1)
	shape = append(shape, d.shape[:axis]...)
	shape = append(shape, 1)
	shape = append(shape, d.shape[axis:]...)
	return d.Reshape(shape...)
}

// Index returns the subtensor at position i along the leading axis.
// The result shares the underlying buffer (zero copy).
func (d *Dense) Index(i int) *Dense {
	if len(d.shape) == 0 {
		panic("index: tensor has no axes")
	}
	if i < 0 || i >= d.shape[0] {
		panic(fmt.Sprintf("index %d out of range for leading axis of size %d", i, d.shape[0]))
	}
	shape := d.shape[1:].Clone()
	block := shape.NumElements() * d.dtype.Size()
	return &Dense{
		data:   d.data[i*block : (i+1)*block],
		shape:  shape,
		stride: shape.ComputeStrides(),
		dtype:  d.dtype,
	}
}

// Transpose returns a new tensor with axes permuted according to perm.
// The result is materialized in row-major order.
func (d *Dense) Transpose(perm ...int) *Dense {
	if len(perm) != len(d.shape) {
		panic(fmt.Sprintf("transpose: permutation %v does not match rank %d", perm, len(d.shape)))
	}
	seen := make([]bool, len(perm))
	identity := true
	for i, p := range perm {
		if p < 0 || p >= len(perm) || seen[p] {
			panic(fmt.Sprintf("transpose: invalid permutation %v", perm))
		}
		seen[p] = true
		if p != i {
			identity = false
		}
	}
	if identity {
		return d.Clone()
	}

	outShape := make(Shape, len(perm))
	for i, p := range perm {
		outShape[i] = d.shape[p]
	}
	out := Zeros(outShape, d.dtype)

	// Walk the output in row-major order; srcStride[i] is the source
	// stride of output axis i.
	srcStride := make([]int, len(perm))
	for i, p := range perm {
		srcStride[i] = d.stride[p]
	}
	switch d.dtype {
	case Float32:
		transposeKernel(d.AsFloat32(), out.AsFloat32(), outShape, srcStride)
	default:
		transposeKernel(d.AsFloat64(), out.AsFloat64(), outShape, srcStride)
	}
	return out
}

func transposeKernel[T DType](src, dst []T, outShape Shape, srcStride []int) {
	idx := make([]int, len(outShape))
	srcOff := 0
	for i := range dst {
		dst[i] = src[srcOff]
		for ax := len(idx) - 1; ax >= 0; ax-- {
			idx[ax]++
			srcOff += srcStride[ax]
			if idx[ax] < outShape[ax] {
				break
			}
			srcOff -= idx[ax] * srcStride[ax]
			idx[ax] = 0
		}
	}
}

// Concat concatenates tensors along the given axis.
// All inputs must share dtype and all dimensions except the concat axis.
func Concat(ts []*Dense, axis int) (*Dense, error) {
	if len(ts) == 0 {
		return nil, fmt.Errorf("concat: at least one tensor required")
	}
	first := ts[0]
	if axis < 0 || axis >= len(first.shape) {
		return nil, fmt.Errorf("concat: axis %d out of range for rank %d", axis, len(first.shape))
	}
	total := 0
	for _, t := range ts {
		if t.dtype != first.dtype {
			return nil, fmt.Errorf("concat: mixed dtypes %s and %s", first.dtype, t.dtype)
		}
		if len(t.shape) != len(first.shape) {
			return nil, fmt.Errorf("concat: mixed ranks %d and %d", len(first.shape), len(t.shape))
		}
		for i := range t.shape {
			if i != axis && t.shape[i] != first.shape[i] {
				return nil, fmt.Errorf("concat: shapes %v and %v differ outside axis %d",
					first.shape, t.shape, axis)
			}
		}
		total += t.shape[axis]
	}

	outShape := first.shape.Clone()
	outShape[axis] = total
	out := Zeros(outShape, first.dtype)

	// Copy block-wise: each input contributes contiguous runs of
	// shape[axis:] elements, repeated over the leading axes.
	outer := 1
	for i := 0; i < axis; i++ {
		outer *= first.shape[i]
	}
	inner := first.stride[axis] // elements per concat-axis step
	dstRun := total * inner
	dstOff := 0
	for _, t := range ts {
		run := t.shape[axis] * inner
		for o := 0; o < outer; o++ {
			src := t.data[o*run*t.dtype.Size() : (o+1)*run*t.dtype.Size()]
			dst := out.data[(o*dstRun+dstOff)*t.dtype.Size():]
			copy(dst, src)
		}
		dstOff += run
	}
	return out, nil
}

// Stack stacks equally shaped tensors along a new leading axis.
func Stack(ts []*Dense) (*Dense, error) {
	if len(ts) == 0 {
		return nil, fmt.Errorf("stack: at least one tensor required")
	}
	first := ts[0]
	for _, t := range ts {
		if t.dtype != first.dtype {
			return nil, fmt.Errorf("stack: mixed dtypes %s and %s", first.dtype, t.dtype)
		}
		if !t.shape.Equal(first.shape) {
			return nil, fmt.Errorf("stack: mixed shapes %v and %v", first.shape, t.shape)
		}
	}
	outShape := append(Shape{len(ts)}, first.shape...)
	out := Zeros(outShape, first.dtype)
	block := first.NumElements() * first.dtype.Size()
	for i, t := range ts {
		copy(out.data[i*block:(i+1)*block], t.data)
	}
	return out, nil
}
