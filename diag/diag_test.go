package diag

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestFromSymDense(t *testing.T) {
	a := mat.NewSymDense(3, []float64{
		2, 0, 0,
		0, 3, 0,
		0, 0, 4,
	})
	h := FromSymDense(a)
	want := []float64{2, 3, 4}
	for i := range h {
		if h[i] != want[i] {
			t.Errorf("h[%d] = %v, want %v", i, h[i], want[i])
		}
	}
}

func TestValidateOK(t *testing.T) {
	if err := Validate([]float64{1, 2, 3}); err != nil {
		t.Errorf("Validate = %v, want nil", err)
	}
}

func TestValidateRejectsNonPositive(t *testing.T) {
	if err := Validate([]float64{1, 0, 3}); err == nil {
		t.Error("Validate should reject a zero entry")
	}
	if err := Validate([]float64{1, -1, 3}); err == nil {
		t.Error("Validate should reject a negative entry")
	}
}
