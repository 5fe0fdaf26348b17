// Package diag wraps the raw h []float64 diagonal-preconditioner
// contract of vmlm's Step with a couple of small helpers for callers
// that maintain their Hessian estimate as a gonum matrix rather than a
// bare slice, following the teacher's habit (cmaesbounded.go, types.go)
// of exposing gonum/mat types at package boundaries instead of raw
// slices wherever a caller is likely to already have one.
package diag

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FromSymDense extracts a candidate diagonal preconditioner from the
// diagonal of a symmetric approximate Hessian (e.g. a cheap BFGS estimate
// a caller maintains outside the optimizer). The returned slice is a
// fresh copy, safe to pass straight into Optimizer.Step as h.
func FromSymDense(a *mat.SymDense) []float64 {
	n, _ := a.Dims()
	h := make([]float64, n)
	for i := 0; i < n; i++ {
		h[i] = a.At(i, i)
	}
	return h
}

// Validate reports whether h is usable as-is (every entry strictly
// positive) without an accompanying active mask, mirroring the no-mask
// branch of Optimizer.Step's active-set validation (§4.2) so a caller can
// pre-flight a preconditioner before calling Step.
func Validate(h []float64) error {
	for i, hi := range h {
		if hi <= 0 {
			return fmt.Errorf("diag: h is not positive definite at index %d", i)
		}
	}
	return nil
}
