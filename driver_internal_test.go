package vmlm

import (
	"math"
	"testing"
)

// stpmaxFromFmin is the unexported alternative stpmax policy (§9, §12);
// it is not reachable from Step and is exercised only here.
func TestStpmaxFromFmin(t *testing.T) {
	if got := stpmaxFromFmin(0, 0, -1); got != stpmaxConst {
		t.Errorf("stpmaxFromFmin with fmin==f = %v, want %v", got, stpmaxConst)
	}
	if got := stpmaxFromFmin(5, -1, 1); got != stpmaxConst {
		t.Errorf("stpmaxFromFmin with gd>=0 = %v, want %v", got, stpmaxConst)
	}
	// f=5, fmin=-1, gd=-2: bound = (fmin-f)/gd = (-1-5)/-2 = 3.
	if got := stpmaxFromFmin(5, -1, -2); math.Abs(got-3) > 1e-12 {
		t.Errorf("stpmaxFromFmin = %v, want 3", got)
	}
}

func TestCheckActiveClearsMaskWherePinned(t *testing.T) {
	active := []bool{true, true, true}
	h := []float64{1, 0, 2}
	if err := checkActive(active, h); err != nil {
		t.Fatalf("checkActive: %v", err)
	}
	want := []bool{true, false, true}
	for i := range active {
		if active[i] != want[i] {
			t.Errorf("active[%d] = %v, want %v", i, active[i], want[i])
		}
	}
}

func TestCheckActiveRejectsNonPositiveHWithoutMask(t *testing.T) {
	h := []float64{1, -1, 2}
	if err := checkActive(nil, h); err == nil {
		t.Fatal("checkActive should reject a non-positive h with no mask")
	}
}

// Boundary (§8): m == 1 must still produce a valid two-loop with at most
// one pair.
func TestMemoryDepthOne(t *testing.T) {
	o, err := Init(3, 1, 0, 1e-10, 1e-3, 0.9, 0.1, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	x := []float64{2, -1, 0.5}
	task := runToTermination(t, o, x, quadraticObjective, nil, nil, 1000)
	if task != CONV {
		t.Fatalf("task = %v, want CONV (%s)", task, o.Message())
	}
	if o.M() != 1 {
		t.Fatalf("M() = %d, want 1", o.M())
	}
}

// Boundary (§8): all-frozen active with no free variable converges
// immediately via the gpnorm == 0 path.
func TestAllFrozenActiveConvergesImmediately(t *testing.T) {
	o, err := NewDefault(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	x := []float64{1, 2, 3}
	g := []float64{5, -5, 5}
	active := []bool{false, false, false}
	task := o.Step(x, 10, g, active, nil)
	if task != CONV {
		t.Fatalf("task = %v, want CONV (%s)", task, o.Message())
	}
	if o.Message() != "local minimum found" {
		t.Errorf("Message() = %q, want %q", o.Message(), "local minimum found")
	}
}

// Boundary (§8): delta == 0 and ||x||_2 == 0 falls back to scale = 1/gpnorm.
func TestDeltaZeroFallsBackToInverseGPNorm(t *testing.T) {
	o, err := Init(2, 3, 0, 1e-10, 1e-3, 0.9, 0.1, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	x := []float64{0, 0}
	g := []float64{3, 4}
	task := o.Step(x, 1, g, nil, nil)
	if task != START {
		t.Fatalf("task = %v, want START (%s)", task, o.Message())
	}
	// gpnorm = 5, scale falls back to 1/5, so gd = -scale*gpnorm^2 = -5.
	if math.Abs(o.gd-(-5)) > 1e-9 {
		t.Errorf("gd = %v, want -5", o.gd)
	}
}

func TestInitRejectsBadTolerances(t *testing.T) {
	cases := []struct {
		name                string
		n, m                int
		fatol, frtol        float64
		sftol, sgtol, sxtol float64
		delta, epsilon      float64
	}{
		{"n", 0, 1, 0, 0, 1e-3, 0.9, 0.1, 1, 0},
		{"m", 1, 0, 0, 0, 1e-3, 0.9, 0.1, 1, 0},
		{"fatol", 1, 1, -1, 0, 1e-3, 0.9, 0.1, 1, 0},
		{"frtol", 1, 1, 0, -1, 1e-3, 0.9, 0.1, 1, 0},
		{"sxtol", 1, 1, 0, 0, 1e-3, 0.9, 1, 1, 0},
		{"sftol", 1, 1, 0, 0, 0, 0.9, 0.1, 1, 0},
		{"sgtol", 1, 1, 0, 0, 1e-3, 1, 0.1, 1, 0},
		{"sftol>=sgtol", 1, 1, 0, 0, 0.9, 0.5, 0.1, 1, 0},
		{"delta", 1, 1, 0, 0, 1e-3, 0.9, 0.1, -1, 0},
		{"epsilon", 1, 1, 0, 0, 1e-3, 0.9, 0.1, 1, -1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Init(c.n, c.m, c.fatol, c.frtol, c.sftol, c.sgtol, c.sxtol, c.delta, c.epsilon)
			if err == nil {
				t.Fatalf("Init(%s case) = nil error, want *ConfigError", c.name)
			}
			var cfgErr *ConfigError
			if !asConfigError(err, &cfgErr) {
				t.Fatalf("Init error is %T, want *ConfigError", err)
			}
		})
	}
}

func asConfigError(err error, target **ConfigError) bool {
	ce, ok := err.(*ConfigError)
	if !ok {
		return false
	}
	*target = ce
	return true
}
