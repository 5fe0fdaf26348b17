// Package gonumopt adapts a *vmlm.Optimizer to gonum.org/v1/gonum/optimize's
// channel-based Method/Statuser interfaces, the same interfaces
// powellmethod.go's Powell and cmaesbounded.go's CmaEsCholB implement, so
// vmlm's reverse-communication core can be dropped into optimize.Minimize
// alongside them without compromising Step's own calling convention.
package gonumopt

import (
	"log"

	"gonum.org/v1/gonum/optimize"

	"github.com/pa-m/vmlm"
)

const (
	nonpositiveDimension = "gonumopt: dimension must be positive"
	negativeTasks        = "gonumopt: tasks must be nonnegative"
)

// Method wraps a *vmlm.Optimizer built lazily in Init (once the problem
// dimension is known) behind gonum/optimize's Method interface. M, FAtol,
// FRtol, SFtol, SGtol, SXtol, Delta and Epsilon configure the wrapped
// Optimizer the same way the same-named parameters configure vmlm.Init.
// When SFtol and SGtol are both zero, NewDefault's tolerances are used and
// the other tolerance fields are ignored; otherwise every field is passed
// to vmlm.Init as given. M <= 0 selects a memory depth of 5.
type Method struct {
	M                   int
	FAtol, FRtol        float64
	SFtol, SGtol, SXtol float64
	Delta, Epsilon      float64
	Logger              *log.Logger

	opt    *vmlm.Optimizer
	status optimize.Status
	err    error
}

// Needs reports that Method requires a gradient but not a Hessian.
func (m *Method) Needs() struct{ Gradient, Hessian bool } {
	return struct{ Gradient, Hessian bool }{true, false}
}

// Init builds the wrapped Optimizer for a problem of the given dimension.
func (m *Method) Init(dim, tasks int) int {
	if dim <= 0 {
		panic(nonpositiveDimension)
	}
	if tasks < 0 {
		panic(negativeTasks)
	}
	mDepth := m.M
	if mDepth <= 0 {
		mDepth = 5
	}
	var opt *vmlm.Optimizer
	var err error
	if m.SFtol == 0 && m.SGtol == 0 {
		opt, err = vmlm.NewDefault(dim, mDepth)
	} else {
		opt, err = vmlm.Init(dim, mDepth, m.FAtol, m.FRtol, m.SFtol, m.SGtol, m.SXtol, m.Delta, m.Epsilon)
	}
	if err != nil {
		panic(err)
	}
	opt.Logger = m.Logger
	m.opt = opt
	m.status = optimize.NotTerminated
	m.err = nil
	return 1
}

// Run drives the wrapped Optimizer's reverse-communication Step loop,
// translating each Task it returns into the operation/result channel
// protocol optimize.Minimize expects: FG becomes a FuncEvaluation +
// GradEvaluation request, NEWX becomes a MajorIteration notification, and
// CONV/WARN/ERROR end the run.
func (m *Method) Run(operation chan<- optimize.Task, result <-chan optimize.Task, tasks []optimize.Task) {
	defer func() {
		if r := recover(); r != nil {
			if r != "send on closed channel" {
				panic(r)
			}
		}
	}()

	x := append([]float64(nil), tasks[0].Location.X...)
	n := len(x)
	g := make([]float64, n)
	id := tasks[0].ID

	request := func(op optimize.Operation) (optimize.Task, bool) {
		operation <- optimize.Task{ID: id, Op: op, Location: &optimize.Location{X: append([]float64(nil), x...)}}
		for {
			t, ok := <-result
			if !ok {
				return optimize.Task{}, false
			}
			switch t.Op {
			case optimize.PostIteration, optimize.NoOperation:
				return optimize.Task{}, false
			default:
				return t, true
			}
		}
	}

	t, ok := request(optimize.FuncEvaluation | optimize.GradEvaluation)
	if !ok {
		close(operation)
		return
	}
	f := t.Location.F
	copy(g, t.Location.Gradient)

	for {
		task := m.opt.Step(x, f, g, nil, nil)
		switch task {
		case vmlm.FG:
			t, ok := request(optimize.FuncEvaluation | optimize.GradEvaluation)
			if !ok {
				m.status = optimize.Failure
				operation <- optimize.Task{ID: id, Op: optimize.MethodDone}
				close(operation)
				return
			}
			f = t.Location.F
			copy(g, t.Location.Gradient)
		case vmlm.START:
			// No evaluation required; Step will be called again with the
			// same (x, f, g) until it asks for one.
		case vmlm.NEWX:
			operation <- optimize.Task{
				ID:  id,
				Op:  optimize.MajorIteration,
				Location: &optimize.Location{
					X:        append([]float64(nil), x...),
					F:        f,
					Gradient: append([]float64(nil), g...),
				},
			}
		case vmlm.CONV:
			m.status = optimize.MethodConverge
			operation <- optimize.Task{ID: id, Op: optimize.MethodDone}
			close(operation)
			return
		case vmlm.WARN:
			m.status = optimize.MethodConverge
			operation <- optimize.Task{ID: id, Op: optimize.MethodDone}
			close(operation)
			return
		case vmlm.ERROR:
			m.status = optimize.Failure
			m.err = &lineSearchError{msg: m.opt.Message()}
			operation <- optimize.Task{ID: id, Op: optimize.MethodDone}
			close(operation)
			return
		}
	}
}

// Status reports the outcome of the most recently completed Run.
func (m *Method) Status() (optimize.Status, error) {
	return m.status, m.err
}

type lineSearchError struct{ msg string }

func (e *lineSearchError) Error() string { return "gonumopt: " + e.msg }
