package gonumopt

import (
	"testing"

	"gonum.org/v1/gonum/optimize"
)

// sphere is the simple quadratic f(x) = 0.5*sum(x_i^2), grad = x.
type sphereProblem struct{}

func (sphereProblem) Func(x []float64) float64 {
	var s float64
	for _, xi := range x {
		s += xi * xi
	}
	return 0.5 * s
}

func (sphereProblem) Grad(grad, x []float64) {
	copy(grad, x)
}

func TestMethodConvergesOnSphere(t *testing.T) {
	p := optimize.Problem{
		Func: sphereProblem{}.Func,
		Grad: sphereProblem{}.Grad,
	}
	x0 := []float64{1, 2, 3, -1}
	method := &Method{M: 3}

	result, err := optimize.Minimize(p, x0, nil, method)
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	for i, xi := range result.X {
		if xi > 1e-3 || xi < -1e-3 {
			t.Errorf("x[%d] = %v, want near 0", i, xi)
		}
	}
}
