// Package linesearch implements the safeguarded Moré–Thuente line search
// that enforces the strong Wolfe conditions, the collaborator spec.md §6.2
// calls csrch. It has no notion of a search direction or active mask: its
// only inputs are the scalar value and directional derivative of the
// objective along the current search direction, and the step length it
// is trying to bracket. Package vmlm drives it from its own Step method.
//
// This is a from-scratch Go rendition of the classic MINPACK-family
// safeguarded cubic/quadratic step selection (Moré & Thuente, 1994,
// "Line Search Algorithms with Guaranteed Sufficient Decrease"), the same
// family of algorithm op_vmlmb.c calls op_csrch, which was not included
// in the retrieved original-source excerpt. There is no reusable
// standalone strong-Wolfe line search among the example repositories;
// gonum's own lives as a private, channel-driven type internal to
// gonum/optimize and is not separable from that package's Method/Task
// plumbing.
package linesearch

import "math"

// Info reports the outcome of one call to Searcher.Next.
type Info int

const (
	// Continue means the caller should evaluate f and g at the new *stp
	// and call Next again.
	Continue Info = 1
	// Converged means stp satisfies the strong Wolfe conditions.
	Converged Info = 2
	// ConvergedAtBoundary is the success code 5 of the line-search
	// contract. Searcher.Next never returns it; package vmlm treats it
	// like Converged.
	ConvergedAtBoundary Info = 5
	// Rounding means further progress is not possible because rounding
	// errors prevent further decrease; *stp is left at the last trial step.
	Rounding Info = 6
	// AtStpMax means the step reached stpmax without satisfying the
	// Wolfe conditions.
	AtStpMax Info = 7
	// AtStpMin means the step reached stpmin without satisfying the
	// Wolfe conditions.
	AtStpMin Info = 8
	// IntervalTooSmall means the search interval shrank below xtol
	// without locating a point satisfying the Wolfe conditions.
	IntervalTooSmall Info = 9
	// NotDescent means the initial directional derivative was not
	// negative; the caller passed a non-descent direction.
	NotDescent Info = 10
)

func (i Info) String() string {
	switch i {
	case Continue:
		return "new trial step"
	case Converged:
		return "strong Wolfe conditions satisfied"
	case ConvergedAtBoundary:
		return "strong Wolfe conditions satisfied at bracket boundary"
	case Rounding:
		return "rounding errors prevent further progress"
	case AtStpMax:
		return "step at STPMAX"
	case AtStpMin:
		return "step at STPMIN"
	case IntervalTooSmall:
		return "search interval has collapsed below XTOL"
	case NotDescent:
		return "initial directional derivative is not negative"
	default:
		return "unknown line search status"
	}
}

const (
	xtrapl = 1.1
	xtrapu = 4.0
	pMin   = 0.001
)

// Searcher holds the persistent state of one line search (the bracket
// endpoints and the best point found so far) across the successive calls
// that refine it. A zero Searcher is not usable; call Start first.
type Searcher struct {
	started bool
	brackt  bool
	stage   int // 1: before the function has decreased below finit, 2: after
	finit   float64
	ginit   float64
	gtest   float64
	width   float64
	width1  float64

	// [stx,sty] brackets the step; stx always holds the best point seen.
	stx, fx, gx float64
	sty, fy, gy float64

	stmin, stmax float64
}

// Start begins a new line search with the objective value f0 and
// directional derivative g0 (< 0) at stp=0; the first trial step is the
// *stp passed to the first Next call. This follows the sign
// convention of spec.md §4.1 stage 1: f0 and gd0 are the values at the
// start of the line search, before any trial step has been taken.
func (ls *Searcher) Start(f0, g0 float64) {
	ls.started = true
	ls.brackt = false
	ls.stage = 1
	ls.finit = f0
	ls.ginit = g0
	ls.stx, ls.fx, ls.gx = 0, f0, g0
	ls.sty, ls.fy, ls.gy = 0, f0, g0
	ls.width = 0
	ls.width1 = 0
}

// Next consumes the objective value f and directional derivative g
// measured at the current trial step *stp, and either proposes a new
// *stp (Continue) or concludes the search (Converged or one of the
// failure codes).
func (ls *Searcher) Next(f, g float64, stp *float64, ftol, gtol, xtol, stpmin, stpmax float64) Info {
	if !ls.started {
		panic("linesearch: Next called before Start")
	}
	if ls.ginit >= 0 {
		return NotDescent
	}

	ls.gtest = ftol * ls.ginit
	if ls.width == 0 {
		ls.width = stpmax - stpmin
		ls.width1 = ls.width / 0.5
		ls.stmin = 0
		ls.stmax = *stp + xtrapu*(*stp)
	}

	ftest := ls.finit + *stp*ls.gtest

	// Decide whether we have left stage 1 (the "modified updating
	// algorithm" region where f may still exceed a simple quadratic
	// bound) for stage 2 (safeguarded cubic interpolation).
	if ls.stage == 1 && f <= ftest && g >= 0 {
		ls.stage = 2
	}

	// Termination tests, in the order MINPACK's dcsrch applies them.
	switch {
	case ls.brackt && (*stp <= ls.stmin || *stp >= ls.stmax):
		return Rounding
	case ls.brackt && ls.stmax-ls.stmin <= xtol*ls.stmax:
		return IntervalTooSmall
	case *stp == stpmax && f <= ftest && g <= ls.gtest:
		return AtStpMax
	case *stp == stpmin && (f > ftest || g >= ls.gtest):
		return AtStpMin
	case f <= ftest && math.Abs(g) <= gtol*(-ls.ginit):
		return Converged
	}

	// Not done: compute the next trial step.
	if ls.stage == 1 && f <= ls.fx && f > ftest {
		// Use the modified function to estimate the bracket so that the
		// algorithm does not stall when f is decreasing but not yet
		// satisfying the sufficient-decrease test.
		fm, fxm, fym := f-*stp*ls.gtest, ls.fx-ls.stx*ls.gtest, ls.fy-ls.sty*ls.gtest
		gm, gxm, gym := g-ls.gtest, ls.gx-ls.gtest, ls.gy-ls.gtest
		ls.fx, ls.fy, ls.gx, ls.gy = fxm, fym, gxm, gym
		ls.step(stp, fxm, gxm, fym, gym, fm, gm)
		ls.fx, ls.fy = ls.fx+ls.stx*ls.gtest, ls.fy+ls.sty*ls.gtest
		ls.gx, ls.gy = ls.gx+ls.gtest, ls.gy+ls.gtest
	} else {
		ls.step(stp, ls.fx, ls.gx, ls.fy, ls.gy, f, g)
	}

	if ls.brackt {
		if math.Abs(ls.sty-ls.stx) >= 0.66*ls.width1 {
			*stp = ls.stx + 0.5*(ls.sty-ls.stx)
		}
		ls.width1 = ls.width
		ls.width = math.Abs(ls.sty - ls.stx)
	}

	if ls.brackt {
		ls.stmin = math.Min(ls.stx, ls.sty)
		ls.stmax = math.Max(ls.stx, ls.sty)
	} else {
		ls.stmin = *stp + xtrapl*(*stp-ls.stx)
		ls.stmax = *stp + xtrapu*(*stp-ls.stx)
	}
	*stp = math.Max(*stp, stpmin)
	*stp = math.Min(*stp, stpmax)

	// If the bracket is tight enough that the safeguards would trap the
	// step exactly at its current value, nudge it so the caller always
	// sees forward progress; MINPACK does this by widening pMin.
	if ls.brackt && (*stp <= ls.stmin || *stp >= ls.stmax || ls.stmax-ls.stmin <= pMin*ls.width) {
		*stp = ls.stx + 0.5*(ls.sty-ls.stx)
	}

	return Continue
}

// step performs the safeguarded cubic/quadratic trial-value update of the
// Moré–Thuente algorithm: given the best point (stx,fx,gx), the other
// bracket endpoint (sty,fy,gy), and the newest evaluation (fp,gp) at the
// current *stp, it updates the bracket and overwrites *stp with the next
// trial step.
func (ls *Searcher) step(stp *float64, fx, gx, fy, gy, fp, gp float64) {
	sx, sy := ls.stx, ls.sty
	st := *stp

	var stf float64
	bound := false
	sgnd := gp * (gx / math.Abs(gx))

	switch {
	case fp > fx:
		// Case 1: a higher function value. The minimum is bracketed and
		// the cubic step is closer to sx than the quadratic step.
		bound = true
		theta := 3*(fx-fp)/(st-sx) + gx + gp
		s := maxAbs(theta, gx, gp)
		gamma := s * math.Sqrt(sq(theta/s)-(gx/s)*(gp/s))
		if st < sx {
			gamma = -gamma
		}
		p := (gamma - gx) + theta
		q := ((gamma - gx) + gamma) + gp
		r := p / q
		stc := sx + r*(st-sx)
		stq := sx + ((gx/((fx-fp)/(st-sx)+gx))/2)*(st-sx)
		if math.Abs(stc-sx) < math.Abs(stq-sx) {
			stf = stc
		} else {
			stf = stc + (stq-stc)/2
		}
		ls.brackt = true
	case sgnd < 0:
		// Case 2: lower function value, opposite-sign derivative. The
		// minimum is bracketed and the cubic step is closer to sx.
		theta := 3*(fx-fp)/(st-sx) + gx + gp
		s := maxAbs(theta, gx, gp)
		gamma := s * math.Sqrt(sq(theta/s)-(gx/s)*(gp/s))
		if st > sx {
			gamma = -gamma
		}
		p := (gamma - gp) + theta
		q := ((gamma - gp) + gamma) + gx
		r := p / q
		stc := st + r*(sx-st)
		stq := st + (gp/(gp-gx))*(sx-st)
		if math.Abs(stc-st) > math.Abs(stq-st) {
			stf = stc
		} else {
			stf = stq
		}
		ls.brackt = true
	case math.Abs(gp) < math.Abs(gx):
		// Case 3: lower function value, derivative shrinking in
		// magnitude. The cubic step only trusted if it lies on the
		// correct side and moves further than the quadratic step.
		bound = true
		theta := 3*(fx-fp)/(st-sx) + gx + gp
		s := maxAbs(theta, gx, gp)
		gamma := s * math.Sqrt(math.Max(0, sq(theta/s)-(gx/s)*(gp/s)))
		if st > sx {
			gamma = -gamma
		}
		p := (gamma - gp) + theta
		q := (gamma + (gx - gp)) + gamma
		r := p / q
		var stc float64
		if r < 0 && gamma != 0 {
			stc = st + r*(sx-st)
		} else if st > sx {
			stc = ls.stmax
		} else {
			stc = ls.stmin
		}
		stq := st + (gp/(gp-gx))*(sx-st)
		if ls.brackt {
			if math.Abs(stc-st) < math.Abs(stq-st) {
				stf = stc
			} else {
				stf = stq
			}
		} else {
			if math.Abs(stc-st) > math.Abs(stq-st) {
				stf = stc
			} else {
				stf = stq
			}
		}
	default:
		// Case 4: lower function value, derivative does not shrink,
		// and the minimum has not been bracketed: use a secant step
		// towards whichever safeguard is active.
		if ls.brackt {
			theta := 3*(fp-fy)/(sy-st) + gy + gp
			s := maxAbs(theta, gy, gp)
			gamma := s * math.Sqrt(sq(theta/s)-(gy/s)*(gp/s))
			if st > sy {
				gamma = -gamma
			}
			p := (gamma - gp) + theta
			q := ((gamma - gp) + gamma) + gy
			r := p / q
			stc := st + r*(sy-st)
			stf = stc
		} else if st > sx {
			stf = ls.stmax
		} else {
			stf = ls.stmin
		}
	}

	// Update the bracket.
	if fp > fx {
		ls.sty, ls.fy, ls.gy = st, fp, gp
	} else {
		if sgnd < 0 {
			ls.sty, ls.fy, ls.gy = sx, fx, gx
		}
		ls.stx, ls.fx, ls.gx = st, fp, gp
	}

	stf = math.Max(ls.stmin, stf)
	stf = math.Min(ls.stmax, stf)
	if bound {
		if ls.stx < ls.sty {
			stf = math.Min(ls.stx+0.66*(ls.sty-ls.stx), stf)
		} else {
			stf = math.Max(ls.stx+0.66*(ls.sty-ls.stx), stf)
		}
	}
	*stp = stf
}

func sq(x float64) float64 { return x * x }

func maxAbs(a, b, c float64) float64 {
	return math.Max(math.Abs(a), math.Max(math.Abs(b), math.Abs(c)))
}
