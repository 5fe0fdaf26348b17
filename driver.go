package vmlm

import (
	"errors"
	"math"

	"github.com/pa-m/vmlm/kernel"
	"github.com/pa-m/vmlm/linesearch"
)

// Step advances the state machine by one reverse-communication round.
// x and g are caller-owned buffers of length n; Step both reads and
// writes them (on FG it overwrites x with the next trial point; on a
// line-search failure it restores x and g to the values at the start of
// the failed line search). active and h are optional (nil-able) and
// read-only to Step except that checkActive may clear entries of active
// where h pins a variable.
func (o *Optimizer) Step(x []float64, f float64, g []float64, active []bool, h []float64) Task {
	if o.task == FG {
		o.nevals++
	}

	for {
		switch o.stage {
		case stageFresh:
			if o.fminSet && f <= o.fmin {
				o.task, o.msg = ERROR, "initial F <= FMIN"
				return ERROR
			}
			o.iter, o.nevals, o.nrestarts, o.mark = 0, 1, 0, 0
			task, done := o.restartSubpath(x, g, active, h)
			if done {
				o.task = task
				return task
			}
			continue

		case stageInitLineSearch:
			o.f0 = f
			o.gd0 = o.gd
			o.stpmin = 0
			o.stpmax = stpmaxConst
			o.stp = math.Min(1, o.stpmax)
			copy(o.store.s[o.mark], x)
			copy(o.store.y[o.mark], g)
			o.ls.Start(o.f0, o.gd0)
			o.stage = stageLineSearchActive
			o.task, o.msg = START, "starting line search"
			return START

		case stageLineSearchActive:
			if o.fminSet && f < o.fmin {
				o.task, o.msg = WARN, "F < FMIN"
				return WARN
			}
			if o.task == START {
				// (f, g) still belong to the line search's starting point:
				// propose the first trial step without consulting ls.Next.
				sMark := o.store.s[o.mark]
				for i := range x {
					x[i] = sMark[i] - o.stp*o.d[i]
				}
				o.task, o.msg = FG, "new trial step"
				return FG
			}
			return o.runLineSearch(x, f, g, active)

		case stageComputeDirection:
			task, done := o.computeDirection(x, g, active, h)
			if done {
				o.task = task
				return task
			}
			continue

		default:
			o.task, o.msg = ERROR, "corrupted workspace"
			return ERROR
		}
	}
}

// runLineSearch implements stage 2 (§4.1): it feeds the latest (f, g) to
// the line-search collaborator and either proposes a new trial step,
// accepts the current one, or propagates a line-search failure.
//
// gd is recomputed here from the gradient just supplied by the caller,
// unmasked even when an active mask is in force, matching the source's
// own (FIXME-flagged, deliberately unchanged per OQ-1) behavior at this
// test.
func (o *Optimizer) runLineSearch(x []float64, f float64, g []float64, active []bool) Task {
	gd := -kernel.Dot(g, o.d)
	info := o.ls.Next(f, gd, &o.stp, o.sftol, o.sgtol, o.sxtol, o.stpmin, o.stpmax)

	switch info {
	case linesearch.Continue:
		sMark := o.store.s[o.mark]
		for i := range x {
			x[i] = sMark[i] - o.stp*o.d[i]
		}
		o.task, o.msg = FG, "new trial step"
		return FG

	case linesearch.Converged, linesearch.ConvergedAtBoundary:
		return o.acceptStep(x, f, g, active)

	default:
		copy(x, o.store.s[o.mark])
		copy(g, o.store.y[o.mark])
		o.msg = info.String()
		if info == linesearch.NotDescent {
			o.task = ERROR
		} else {
			o.task = WARN
		}
		return o.task
	}
}

// acceptStep implements the acceptance branch of stage 2: it folds the
// just-completed line search into a curvature pair and tests for
// convergence or stagnation.
func (o *Optimizer) acceptStep(x []float64, f float64, g []float64, active []bool) Task {
	o.iter++
	if o.mp < o.m {
		o.mp++
	}
	o.stage = stageComputeDirection

	sMark := o.store.s[o.mark]
	yMark := o.store.y[o.mark]
	for i := range yMark {
		yMark[i] -= g[i]
	}
	for i := range sMark {
		sMark[i] -= x[i]
	}
	if active == nil {
		o.store.rho[o.mark] = kernel.Dot(yMark, sMark)
	}

	switch {
	case kernel.NoneOf(sMark):
		o.task, o.msg = WARN, "no parameter change"
		return WARN
	case kernel.NoneOf(yMark):
		o.task, o.msg = WARN, "no gradient change"
		return WARN
	}

	change := math.Max(math.Abs(f-o.f0), math.Abs(o.stp*o.gd0))
	switch {
	case change <= o.frtol*math.Abs(o.f0):
		o.task, o.msg = CONV, "FRTOL test satisfied"
		return CONV
	case change <= o.fatol:
		o.task, o.msg = CONV, "FATOL test satisfied"
		return CONV
	default:
		o.task, o.msg = NEWX, "new improved solution available for inspection"
		if o.Logger != nil {
			o.Logger.Printf("vmlm: iter=%d f=%g gpnorm=%g", o.iter, f, o.gpnorm)
		}
		return NEWX
	}
}

// computeDirection implements stage 3 (§4.1, §4.3): it reinitializes d
// from the active-masked gradient, runs the two-loop recursion, and
// tests the result for descent. A failed descent test (or a two-loop
// that cannot determine a positive H0 scale) triggers a restart rather
// than terminating.
func (o *Optimizer) computeDirection(x, g []float64, active []bool, h []float64) (Task, bool) {
	if err := checkActive(active, h); err != nil {
		o.msg = err.Error()
		return ERROR, true
	}
	kernel.CopyActive(g, o.d, active)
	o.gpnorm = kernel.Nrm2(o.d)

	if !o.twoLoop(active, h) {
		o.nrestarts++
		if o.Logger != nil {
			o.Logger.Printf("vmlm: restart %d at iter=%d", o.nrestarts, o.iter)
		}
		return o.restartSubpath(x, g, active, h)
	}

	// Descent test: the dot products here are unmasked, matching the
	// source's current ("FIXME: active?") behavior, kept per OQ-1.
	gd := -kernel.Dot(g, o.d)
	var descentOK bool
	if o.epsilon > 0 {
		descentOK = gd <= -o.epsilon*kernel.Nrm2(g)*kernel.Nrm2(o.d)
	} else {
		descentOK = gd < 0
	}
	if !descentOK {
		o.nrestarts++
		if o.Logger != nil {
			o.Logger.Printf("vmlm: restart %d at iter=%d", o.nrestarts, o.iter)
		}
		return o.restartSubpath(x, g, active, h)
	}

	o.gd = gd
	o.mark = (o.mark + 1) % o.m
	o.stage = stageInitLineSearch
	return 0, false
}

// twoLoop runs the L-BFGS two-loop recursion of §4.3 over the mp stored
// pairs, in place on o.d (already holding the active-masked gradient on
// entry). It reports false when no positive gamma could be found and no
// diagonal preconditioner is available, which the caller must treat as a
// restart trigger rather than a usable direction.
func (o *Optimizer) twoLoop(active []bool, h []float64) bool {
	st := o.store
	mm := o.mark + o.m
	gamma := 0.0

	for k := 0; k < o.mp; k++ {
		j := (mm - k) % o.m
		if active != nil {
			st.rho[j] = kernel.DotActive(st.s[j], st.y[j], active)
		}
		if st.rho[j] > 0 {
			st.alpha[j] = kernel.Dot(st.s[j], o.d) / st.rho[j]
			kernel.AxpyActive(-st.alpha[j], st.y[j], o.d, active)
			if gamma <= 0 {
				gamma = st.rho[j] / kernel.DotActive(st.y[j], st.y[j], active)
			}
		}
	}

	switch {
	case h != nil:
		for i := range o.d {
			o.d[i] *= h[i]
		}
	case gamma > 0:
		kernel.Scal(gamma, o.d)
	default:
		return false
	}

	for k := o.mp - 1; k >= 0; k-- {
		j := (mm - k) % o.m
		if st.rho[j] > 0 {
			beta := kernel.Dot(st.y[j], o.d) / st.rho[j]
			kernel.AxpyActive(st.alpha[j]-beta, st.s[j], o.d, active)
		}
	}
	return true
}

// restartSubpath implements the restart sub-path shared by a true fresh
// start (stage 0) and a descent-test failure at stage 3 (§9, "restart as
// control flow"): it does not touch iter, nevals, or mark, only mp and
// the direction itself.
func (o *Optimizer) restartSubpath(x, g []float64, active []bool, h []float64) (Task, bool) {
	o.mp = 0
	if err := checkActive(active, h); err != nil {
		o.msg = err.Error()
		return ERROR, true
	}

	kernel.CopyActive(g, o.d, active)
	o.gpnorm = kernel.Nrm2(o.d)
	if o.gpnorm == 0 {
		o.msg = "local minimum found"
		return CONV, true
	}

	if h == nil {
		xnorm := kernel.Nrm2(x)
		scale := (xnorm / o.gpnorm) * o.delta
		if scale <= 0 {
			scale = 1 / o.gpnorm
		}
		kernel.Scal(scale, o.d)
		o.gd = -scale * o.gpnorm * o.gpnorm
	} else {
		for i := range o.d {
			o.d[i] *= h[i]
		}
		o.gd = -kernel.Dot(g, o.d)
		if o.gd >= 0 {
			o.msg = "preconditioner is not positive definite"
			return ERROR, true
		}
	}

	o.stage = stageInitLineSearch
	return 0, false
}

// checkActive implements §4.2: when h pins a variable (h[i] <= 0), the
// mask is corrected to match rather than treated as caller error, but
// only when a mask exists at all; without one, a non-positive h entry is
// a fatal misconfiguration. It returns before mutating any other state,
// matching check_active's early-return ordering (§12).
func checkActive(active []bool, h []float64) error {
	if h == nil {
		return nil
	}
	if active != nil {
		for i, hi := range h {
			if hi <= 0 {
				active[i] = false
			}
		}
		return nil
	}
	for _, hi := range h {
		if hi <= 0 {
			return errors.New("H is not positive definite")
		}
	}
	return nil
}

// stpmaxFromFmin reproduces the alternative stpmax policy op_vmlmb.c
// keeps behind a disabled branch: bound the step by how far it can travel
// before the objective would cross fmin, instead of a constant ceiling.
// Not used by Step; kept for driver_internal_test.go per §12/§9.
func stpmaxFromFmin(f, fmin, gd float64) float64 {
	if gd >= 0 || fmin >= f {
		return stpmaxConst
	}
	return (fmin - f) / gd
}
