package sparse

import "testing"

func TestMatrixSetAndAdd(t *testing.T) {
	M := NewIntMatrix(10, 10, DefaultNullValue)
	M.Set(2, 3, 4711)
	if v := M.Value(2, 3); v != 4711 {
		t.Errorf("expected M(2,3) to be 4711, is %d", v)
	}
	M.Add(2, 3, 123)
	if vs := M.Values(2, 3); len(vs) != 2 || vs[0] != 4711 || vs[1] != 123 {
		t.Errorf("expected M(2,3) to be [4711 123], is %v", vs)
	}
	if M.ValueCount() != 1 {
		t.Errorf("expected 1 position to be set, have %d", M.ValueCount())
	}
	if v := M.Value(9, 9); v != M.NullValue() {
		t.Errorf("expected empty position to return null value, is %d", v)
	}
	if vs := M.Values(9, 9); vs != nil {
		t.Errorf("expected empty position to have no values, has %v", vs)
	}
	M.Set(2, 3, 1)
	if vs := M.Values(2, 3); len(vs) != 1 || vs[0] != 1 {
		t.Errorf("expected Set to replace values, have %v", vs)
	}
}

func TestMatrixOrder(t *testing.T) {
	M := NewIntMatrix(5, 5, -1)
	M.Add(4, 0, 40)
	M.Add(0, 4, 4)
	M.Add(2, 2, 22)
	M.Add(0, 1, 1)
	var seen []int32
	M.Each(func(i, j int, values []int32) {
		seen = append(seen, values[0])
	})
	expected := []int32{1, 4, 22, 40}
	for k, v := range expected {
		if seen[k] != v {
			t.Fatalf("expected row-major order %v, have %v", expected, seen)
		}
	}
}

func TestMatrixEquals(t *testing.T) {
	build := func(second int32) *IntMatrix {
		M := NewIntMatrix(3, 3, DefaultNullValue)
		M.Add(1, 1, 7)
		M.Add(1, 1, second)
		M.Add(0, 2, 9)
		return M
	}
	if !build(8).Equals(build(8)) {
		t.Errorf("expected identically built matrices to be equal")
	}
	if build(8).Equals(build(6)) {
		t.Errorf("expected matrices with different values to differ")
	}
}

func TestMatrixOutOfRange(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for index out of range")
		}
	}()
	NewIntMatrix(2, 2, -1).Add(2, 0, 1)
}
