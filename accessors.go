package vmlm

// Accessors per §4.5: read-only getters for the tunables and counters,
// plus the settable/gettable-with-was-set-flag fmin, reproducing
// op_vmlmb_set_fmin/op_vmlmb_get_fmin as two distinct entry points
// rather than collapsing them into one (§12).

// N returns the problem dimension fixed at construction.
func (o *Optimizer) N() int { return o.n }

// M returns the memory depth fixed at construction.
func (o *Optimizer) M() int { return o.m }

// Sftol returns the line-search sufficient-decrease tolerance.
func (o *Optimizer) Sftol() float64 { return o.sftol }

// Sgtol returns the line-search curvature tolerance.
func (o *Optimizer) Sgtol() float64 { return o.sgtol }

// Sxtol returns the line-search bracket-width tolerance.
func (o *Optimizer) Sxtol() float64 { return o.sxtol }

// Fatol returns the absolute function-change convergence tolerance.
func (o *Optimizer) Fatol() float64 { return o.fatol }

// Frtol returns the relative function-change convergence tolerance.
func (o *Optimizer) Frtol() float64 { return o.frtol }

// Delta returns the initial-step scaling factor.
func (o *Optimizer) Delta() float64 { return o.delta }

// Epsilon returns the descent-cosine tolerance used by the descent test.
func (o *Optimizer) Epsilon() float64 { return o.epsilon }

// StepLength returns the current line-search step stp.
func (o *Optimizer) StepLength() float64 { return o.stp }

// GPNorm returns the projected-gradient norm computed at the most recent
// direction (re)computation. Persisted on every Step call per OQ-2,
// unlike the source's own gpnorm write-back, which is disabled.
func (o *Optimizer) GPNorm() float64 { return o.gpnorm }

// Iter returns the count of accepted outer iterations.
func (o *Optimizer) Iter() int { return o.iter }

// NEvals returns the count of (f,g) evaluations the driver has consumed.
func (o *Optimizer) NEvals() int { return o.nevals }

// NRestarts returns the count of BFGS restarts triggered so far.
func (o *Optimizer) NRestarts() int { return o.nrestarts }

// LastTask returns the Task most recently returned by Step.
func (o *Optimizer) LastTask() Task { return o.task }

// Message returns the human-readable diagnostic attached to the most
// recent Task, mirroring the source's csave convention (§12).
func (o *Optimizer) Message() string { return o.msg }

// Fmin returns the current lower-bound hint and whether it has been set.
func (o *Optimizer) Fmin() (value float64, isSet bool) {
	return o.fmin, o.fminSet
}

// SetFmin installs a new lower-bound hint and returns the value it
// replaces along with whether that previous value had itself been set,
// matching op_vmlmb_set_fmin's return contract rather than collapsing it
// with Fmin's read-only query.
func (o *Optimizer) SetFmin(value float64) (old float64, wasSet bool) {
	old, wasSet = o.fmin, o.fminSet
	o.fmin = value
	o.fminSet = true
	return old, wasSet
}

// ClearFmin removes the lower-bound hint entirely, so subsequent Step
// calls no longer test against it.
func (o *Optimizer) ClearFmin() {
	o.fmin = 0
	o.fminSet = false
}
