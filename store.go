package vmlm

// store is the fixed-capacity ring buffer of m curvature pairs described
// in §4.4. Slot j holds s[j] and y[j] stored with the sign flipped (see
// the package doc on Optimizer): s[j] = x_old - x_new, y[j] = g_old -
// g_new. rho[j] = s[j]·y[j] under that convention is unchanged from the
// conventional sign, since both factors flip.
type store struct {
	n int
	m int
	s [][]float64
	y [][]float64
	// rho[j] is only meaningful (and only trusted) when rho[j] > 0; the
	// two-loop recursion skips every other slot.
	rho []float64
	// alpha is two-loop scratch, one entry per slot, reused across calls.
	alpha []float64
}

func newStore(n, m int) *store {
	st := &store{
		n:     n,
		m:     m,
		s:     make([][]float64, m),
		y:     make([][]float64, m),
		rho:   make([]float64, m),
		alpha: make([]float64, m),
	}
	for j := 0; j < m; j++ {
		st.s[j] = make([]float64, n)
		st.y[j] = make([]float64, n)
	}
	return st
}
