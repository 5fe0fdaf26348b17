package kernel

import (
	"math"
	"testing"
)

func TestDot(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 5, 6}
	if got := Dot(a, b); got != 32 {
		t.Errorf("Dot = %v, want 32", got)
	}
}

func TestNrm2(t *testing.T) {
	a := []float64{3, 4}
	if got := Nrm2(a); got != 5 {
		t.Errorf("Nrm2 = %v, want 5", got)
	}
}

func TestScal(t *testing.T) {
	a := []float64{1, 2, 3}
	Scal(2, a)
	want := []float64{2, 4, 6}
	for i := range a {
		if a[i] != want[i] {
			t.Errorf("Scal[%d] = %v, want %v", i, a[i], want[i])
		}
	}
}

func TestNoneOf(t *testing.T) {
	if !NoneOf([]float64{0, 0, 0}) {
		t.Error("NoneOf should be true for all-zero input")
	}
	if NoneOf([]float64{0, 1, 0}) {
		t.Error("NoneOf should be false when any element is non-zero")
	}
}

func TestDotActiveNilMask(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 5, 6}
	if got := DotActive(a, b, nil); got != 32 {
		t.Errorf("DotActive(nil) = %v, want 32", got)
	}
}

func TestDotActiveMasked(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 5, 6}
	active := []bool{true, false, true}
	// 1*4 + 3*6 = 4 + 18 = 22, middle term skipped.
	if got := DotActive(a, b, active); got != 22 {
		t.Errorf("DotActive(masked) = %v, want 22", got)
	}
}

func TestAxpyActiveMasked(t *testing.T) {
	x := []float64{1, 1, 1}
	y := []float64{10, 10, 10}
	active := []bool{true, false, true}
	AxpyActive(2, x, y, active)
	want := []float64{12, 10, 12}
	for i := range y {
		if y[i] != want[i] {
			t.Errorf("y[%d] = %v, want %v", i, y[i], want[i])
		}
	}
}

func TestCopyActiveZeroesPinned(t *testing.T) {
	src := []float64{1, 2, 3}
	dst := []float64{99, 99, 99}
	active := []bool{true, false, true}
	CopyActive(src, dst, active)
	want := []float64{1, 0, 3}
	for i := range dst {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
	if Nrm2(dst) != math.Sqrt(1+9) {
		t.Errorf("Nrm2(dst) = %v, want %v", Nrm2(dst), math.Sqrt(10))
	}
}

func TestCopyActiveNilMask(t *testing.T) {
	src := []float64{1, 2, 3}
	dst := make([]float64, 3)
	CopyActive(src, dst, nil)
	for i := range dst {
		if dst[i] != src[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], src[i])
		}
	}
}
