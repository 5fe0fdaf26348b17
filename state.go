// Package vmlm implements a limited-memory, bound-constrained
// quasi-Newton optimizer (a Go rendition of OptimPackLegacy's VMLMB) as a
// reverse-communication state machine: the caller owns the objective and
// its gradient, evaluates them wherever Step asks, and resumes the
// optimizer by calling Step again. Optimizer never calls back into caller
// code and performs no I/O.
//
// The curvature-pair store keeps -s and -y rather than the conventional
// s = x_new - x_old, y = g_new - g_old. This leaves rho = s·y and the
// two-loop recursion's arithmetic unchanged (both factors of every dot
// product flip sign together), and it is how the store is naturally
// populated: the pair at the line search's start holds (x, g) "as of the
// old point", and acceptance overwrites it in place with "old minus new"
// rather than allocating a second buffer.
package vmlm

import (
	"log"

	"github.com/pa-m/vmlm/linesearch"
)

const stpmaxConst = 1e20

// stage is the driver's internal micro-state within one call to Step,
// named the same way as op_vmlmb.c's own stage variable.
type stage int

const (
	stageFresh stage = iota
	stageInitLineSearch
	stageLineSearchActive
	stageComputeDirection
)

// Optimizer is the persistent, opaque-to-the-caller state of one
// minimization run. A zero Optimizer is not usable; build one with Init
// or NewDefault.
type Optimizer struct {
	n int
	m int

	task  Task
	stage stage
	msg   string

	iter      int
	nevals    int
	nrestarts int
	mark      int
	mp        int

	fminSet bool
	fmin    float64

	sftol, sgtol, sxtol float64
	fatol, frtol        float64
	delta, epsilon      float64

	f0, gd, gd0         float64
	stp, stpmin, stpmax float64
	gpnorm              float64

	store *store
	d     []float64

	ls linesearch.Searcher

	// Logger, when non-nil, receives one line per accepted step that
	// returns NEWX and one line per restart, in the style of
	// PowellMinimizer.Logger.
	Logger *log.Logger
}

// Init validates the tunables and returns a freshly constructed
// Optimizer ready for its first Step call, or a *ConfigError describing
// the first validation failure encountered, in the order §4.1 specifies.
func Init(n, m int, fatol, frtol, sftol, sgtol, sxtol, delta, epsilon float64) (*Optimizer, error) {
	switch {
	case n <= 0:
		return nil, configErr("n", "must be positive")
	case m <= 0:
		return nil, configErr("m", "must be positive")
	case fatol < 0:
		return nil, configErr("fatol", "must be nonnegative")
	case frtol < 0:
		return nil, configErr("frtol", "must be nonnegative")
	case !(0 < sxtol && sxtol < 1):
		return nil, configErr("sxtol", "must lie strictly between 0 and 1")
	case !(0 < sftol && sftol < 1):
		return nil, configErr("sftol", "must lie strictly between 0 and 1")
	case !(0 < sgtol && sgtol < 1):
		return nil, configErr("sgtol", "must lie strictly between 0 and 1")
	case sftol >= sgtol:
		return nil, configErr("sftol", "must be strictly less than sgtol")
	case delta < 0:
		return nil, configErr("delta", "must be nonnegative")
	case epsilon < 0:
		return nil, configErr("epsilon", "must be nonnegative")
	}

	o := &Optimizer{
		n: n, m: m,
		task: FG, stage: stageFresh,
		sftol: sftol, sgtol: sgtol, sxtol: sxtol,
		fatol: fatol, frtol: frtol,
		delta: delta, epsilon: epsilon,
		store: newStore(n, m),
		d:     make([]float64, n),
	}
	return o, nil
}

// NewDefault wraps Init with the tolerances op_vmlmb itself recommends:
// sftol=1e-3, sgtol=0.9, sxtol=0.1, fatol=0, frtol=1e-10, delta=1,
// epsilon=0.
func NewDefault(n, m int) (*Optimizer, error) {
	return Init(n, m, 0, 1e-10, 1e-3, 0.9, 0.1, 1, 0)
}
