package tensor

import "testing"

func TestContractMatrixProduct(t *testing.T) {
	a, _ := FromSlice([]float64{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	b, _ := FromSlice([]float64{7, 8, 9, 10, 11, 12}, Shape{3, 2})

	c, err := Contract(a, b, [][2]int{{1, 0}})
	if err != nil {
		t.Fatalf("contract failed: %v", err)
	}
	assertEqualShape(t, Shape{2, 2}, c.Shape(), "matrix product shape")
	// [1 2 3; 4 5 6] * [7 8; 9 10; 11 12]
	assertEqualFloat64(t, 58, c.At(0, 0), "c[0,0]")
	assertEqualFloat64(t, 64, c.At(0, 1), "c[0,1]")
	assertEqualFloat64(t, 139, c.At(1, 0), "c[1,0]")
	assertEqualFloat64(t, 154, c.At(1, 1), "c[1,1]")
}

func TestContractInnerProduct(t *testing.T) {
	a, _ := FromSlice([]float64{1, 2, 3}, Shape{3})
	b, _ := FromSlice([]float64{4, 5, 6}, Shape{3})

	c, err := Contract(a, b, [][2]int{{0, 0}})
	if err != nil {
		t.Fatalf("contract failed: %v", err)
	}
	assertEqualShape(t, Shape{}, c.Shape(), "scalar shape")
	assertEqualFloat64(t, 32, c.At(), "dot product")
}

func TestContractOuterProduct(t *testing.T) {
	a, _ := FromSlice([]float64{1, 2}, Shape{2})
	b, _ := FromSlice([]float64{3, 4, 5}, Shape{3})

	c, err := Contract(a, b, nil)
	if err != nil {
		t.Fatalf("contract failed: %v", err)
	}
	assertEqualShape(t, Shape{2, 3}, c.Shape(), "outer product shape")
	assertEqualFloat64(t, 10, c.At(1, 2), "outer product entry")
}

// Contracting TT cores (r0, n, r1) x (r1, m, r2) over the shared rank
// must match the explicit sum over the contracted index.
func TestContractCoreChain(t *testing.T) {
	a := Randn(Shape{1, 3, 2}, Float64)
	b := Randn(Shape{2, 4, 1}, Float64)

	c, err := Contract(a, b, [][2]int{{2, 0}})
	if err != nil {
		t.Fatalf("contract failed: %v", err)
	}
	assertEqualShape(t, Shape{1, 3, 4, 1}, c.Shape(), "chained core shape")
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			want := 0.0
			for q := 0; q < 2; q++ {
				want += a.At(0, i, q) * b.At(q, j, 0)
			}
			assertEqualFloat64(t, want, c.At(0, i, j, 0), "chained core entry")
		}
	}
}

// Multi-pair contraction with non-adjacent axes: (a, b, c) x (b, d, a)
// over both shared labels leaves (c, d).
func TestContractMultiplePairs(t *testing.T) {
	x := Randn(Shape{2, 3, 4}, Float64)
	y := Randn(Shape{3, 5, 2}, Float64)

	c, err := Contract(x, y, [][2]int{{0, 2}, {1, 0}})
	if err != nil {
		t.Fatalf("contract failed: %v", err)
	}
	assertEqualShape(t, Shape{4, 5}, c.Shape(), "multi-pair shape")
	for i := 0; i < 4; i++ {
		for j := 0; j < 5; j++ {
			want := 0.0
			for p := 0; p < 2; p++ {
				for q := 0; q < 3; q++ {
					want += x.At(p, q, i) * y.At(q, j, p)
				}
			}
			assertEqualFloat64(t, want, c.At(i, j), "multi-pair entry")
		}
	}
}

func TestContractFloat32(t *testing.T) {
	a, _ := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2})
	b, _ := FromSlice([]float32{5, 6, 7, 8}, Shape{2, 2})

	c, err := Contract(a, b, [][2]int{{1, 0}})
	if err != nil {
		t.Fatalf("contract failed: %v", err)
	}
	if c.DType() != Float32 {
		t.Errorf("dtype = %v, want Float32", c.DType())
	}
	assertEqualFloat64(t, 19, c.At(0, 0), "float32 product")
}

func TestContractErrors(t *testing.T) {
	a := Zeros(Shape{2, 3}, Float64)
	b := Zeros(Shape{4, 5}, Float64)

	if _, err := Contract(a, b, [][2]int{{1, 0}}); err == nil {
		t.Error("dimension mismatch should fail")
	}
	if _, err := Contract(a, b, [][2]int{{5, 0}}); err == nil {
		t.Error("out-of-range axis should fail")
	}
	if _, err := Contract(a, a, [][2]int{{0, 0}, {0, 1}}); err == nil {
		t.Error("axis used twice should fail")
	}
	if _, err := Contract(a, Zeros(Shape{3, 2}, Float32), [][2]int{{1, 0}}); err == nil {
		t.Error("mixed dtypes should fail")
	}
}
