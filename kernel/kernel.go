// Package kernel implements the vector-BLAS-style primitives that the
// L-BFGS driver in package vmlm treats as an external collaborator: plain
// dot products and axpy/scal wrapped straight from gonum/floats, plus the
// active-mask variants floats has no equivalent for.
//
// An active mask, when non-nil, must have the same length as the vectors
// it guards; index i is "free" when active[i] is true and "pinned"
// otherwise. A nil mask means every index is free.
package kernel

import "gonum.org/v1/gonum/floats"

// Dot returns a·b.
func Dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}

// Nrm2 returns the Euclidean norm of a.
func Nrm2(a []float64) float64 {
	return floats.Norm(a, 2)
}

// Scal scales a in place by alpha.
func Scal(alpha float64, a []float64) {
	floats.Scale(alpha, a)
}

// NoneOf reports whether every element of a is exactly zero.
func NoneOf(a []float64) bool {
	for _, v := range a {
		if v != 0 {
			return false
		}
	}
	return true
}

// DotActive returns the dot product of a and b restricted to indices
// where active is true (or every index, if active is nil).
func DotActive(a, b []float64, active []bool) float64 {
	if active == nil {
		return floats.Dot(a, b)
	}
	var sum float64
	for i, on := range active {
		if on {
			sum += a[i] * b[i]
		}
	}
	return sum
}

// AxpyActive performs y[i] += alpha*x[i] at indices where active is true
// (or every index, if active is nil).
func AxpyActive(alpha float64, x, y []float64, active []bool) {
	if active == nil {
		floats.AddScaled(y, alpha, x)
		return
	}
	for i, on := range active {
		if on {
			y[i] += alpha * x[i]
		}
	}
}

// CopyActive copies src into dst at indices where active is true (or
// every index, if active is nil), and zeroes dst at pinned indices. The
// zeroing matters: callers immediately feed dst to Nrm2 or Dot without a
// mask (e.g. to compute the projected-gradient norm), so a pinned index
// must contribute nothing rather than carry over whatever dst held
// before, which would otherwise disagree with DotActive's convention of
// treating pinned indices as zero.
func CopyActive(src, dst []float64, active []bool) {
	if active == nil {
		copy(dst, src)
		return
	}
	for i, on := range active {
		if on {
			dst[i] = src[i]
		} else {
			dst[i] = 0
		}
	}
}
