// SPDX-License-Identifier: MIT

package equilibrium

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/katalvlaran/bellman/dp"
	"github.com/rs/zerolog"
)

const opSolve = "Solve"

// Method selects the outer search strategy.
type Method int

const (
	// Bisection brackets a sign change of h(K) = K − G(K) above the
	// stability frontier and halves it.
	Bisection Method = iota

	// Damped iterates K ← αK + (1 − α)G(K).
	Damped
)

// String implements fmt.Stringer.
func (m Method) String() string {
	switch m {
	case Bisection:
		return "bisection"
	case Damped:
		return "damped"
	default:
		return "unknown"
	}
}

// ParseMethod maps "bisection" and "damped" to a Method.
func ParseMethod(s string) (Method, bool) {
	switch s {
	case "bisection":
		return Bisection, true
	case "damped":
		return Damped, true
	default:
		return Bisection, false
	}
}

// Defaults for Options.
const (
	DefaultTol     = 1e-3
	DefaultMaxIter = 500
	DefaultDamping = 0.9
	DefaultExpand  = 1.5
	DefaultMargin  = 1e-3

	// maxExpansions caps bracket growth in each direction.
	maxExpansions = 60
)

// Step is reported after every G evaluation.
type Step struct {
	Index  int
	K      float64
	Supply float64
	R      float64
	W      float64
}

// Options configures Solve.
//
//   - Tol: converged when |K − G(K)| ≤ Tol. Bisection gives up with
//     ErrNoFixedPoint once the bracket half-width is ≤ Tol without that.
//   - MaxIter: ceiling on damped steps or bisection halvings.
//   - Damping: α in K ← αK + (1−α)G(K), 0 ≤ α < 1.
//   - Expand: factor (> 1) by which the bisection bracket grows.
//   - Margin: relative gap kept above the stability frontier when the
//     bracket grows downwards.
//   - Solver: options for every inner dp.Solve.
//   - Logger: per-step Debug, completion Info, non-convergence Warn.
//   - OnStep: optional callback after each evaluation.
type Options struct {
	Method  Method
	Tol     float64
	MaxIter int
	Damping float64
	Expand  float64
	Margin  float64
	Solver  []dp.Option
	Logger  zerolog.Logger
	OnStep  func(Step)
}

// DefaultOptions returns bisection with the package defaults and a
// discarding logger.
func DefaultOptions() Options {
	return Options{
		Method:  Bisection,
		Tol:     DefaultTol,
		MaxIter: DefaultMaxIter,
		Damping: DefaultDamping,
		Expand:  DefaultExpand,
		Margin:  DefaultMargin,
		Logger:  zerolog.Nop(),
	}
}

func (o Options) validate() error {
	switch {
	case !(o.Tol > 0):
		return fmt.Errorf("tol=%g: %w", o.Tol, ErrInvalidEconomy)
	case o.MaxIter < 1:
		return fmt.Errorf("max_iter=%d: %w", o.MaxIter, ErrInvalidEconomy)
	case !(o.Damping >= 0 && o.Damping < 1):
		return fmt.Errorf("damping=%g: %w", o.Damping, ErrInvalidEconomy)
	case !(o.Expand > 1) || math.IsInf(o.Expand, 0):
		return fmt.Errorf("expand=%g: %w", o.Expand, ErrInvalidEconomy)
	case !(o.Margin >= 0):
		return fmt.Errorf("margin=%g: %w", o.Margin, ErrInvalidEconomy)
	case o.Method != Bisection && o.Method != Damped:
		return fmt.Errorf("method=%d: %w", int(o.Method), ErrInvalidEconomy)
	}
	return nil
}

// Result is the outcome of Solve.
type Result struct {
	Method Method
	K      float64
	R      float64
	W      float64
	Supply float64
	// Residual is |K − G(K)| at the reported K; at most Tol when Converged.
	Residual float64
	// Iterations counts G evaluations, including bracket search.
	Iterations int
	Converged  bool
	Last       *Evaluation
	Elapsed    time.Duration
}

// search carries the mutable state of one Solve call.
type search struct {
	e         *Economy
	opts      Options
	res       *Result
	warm      []float64
	collapsed bool
}

// eval computes G(k), warm-starting the household solve from the previous
// value function (the asset grid does not depend on prices).
func (s *search) eval(ctx context.Context, k float64) (*Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	solver := s.opts.Solver
	if s.warm != nil {
		solver = append(slices.Clip(solver), dp.WithInitialValue(s.warm))
	}
	ev, err := s.e.G(ctx, k, solver...)
	if err != nil {
		return nil, err
	}
	s.warm = ev.Solution.Value
	s.res.Iterations++
	s.res.Last = ev

	s.opts.Logger.Debug().
		Str("method", s.opts.Method.String()).
		Int("step", s.res.Iterations).
		Float64("k", ev.K).
		Float64("supply", ev.Supply).
		Float64("r", ev.R).
		Float64("w", ev.W).
		Msg("equilibrium step")
	if s.opts.OnStep != nil {
		s.opts.OnStep(Step{Index: s.res.Iterations, K: ev.K, Supply: ev.Supply, R: ev.R, W: ev.W})
	}

	return ev, nil
}

// Solve searches for K* = G(K*) starting from the guess k0.
//
// Damped iteration evaluates G at k0 first, so an unstable guess fails with
// ErrUnstable before any household problem is solved. Bisection uses k0 only
// to seed its bracket, which it keeps strictly above the stability frontier;
// guesses on either side of K* therefore reach the same sign change.
//
// Errors:
//   - ErrInvalidEconomy (nil economy, k0 ≤ 0, bad options).
//   - ErrUnstable, ErrNoBracket.
//   - Inner failures (dp.ErrNotConverged, dp.ErrPolicyEvaluation,
//     markov.ErrSingular, context errors), propagated unchanged in kind.
//   - ErrNotConverged with the last iterate, or ErrNoFixedPoint with the
//     evaluation of smallest residual when bisection closes on a jump of G.
func Solve(ctx context.Context, e *Economy, k0 float64, opts Options) (*Result, error) {
	if e == nil {
		return nil, fmt.Errorf("%s: nil economy: %w", opSolve, ErrInvalidEconomy)
	}
	if !(k0 > 0) || math.IsInf(k0, 0) {
		return nil, fmt.Errorf("%s: guess K=%g: %w", opSolve, k0, ErrInvalidEconomy)
	}
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", opSolve, err)
	}

	s := &search{e: e, opts: opts, res: &Result{Method: opts.Method}}
	began := time.Now()
	var err error
	switch opts.Method {
	case Damped:
		err = s.damped(ctx, k0)
	default:
		err = s.bisect(ctx, k0)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSolve, err)
	}

	return s.finish(began)
}

func (s *search) damped(ctx context.Context, k float64) error {
	a := s.opts.Damping
	for it := 0; it < s.opts.MaxIter; it++ {
		ev, err := s.eval(ctx, k)
		if err != nil {
			return err
		}
		if math.Abs(ev.Excess()) <= s.opts.Tol {
			s.res.Converged = true
			return nil
		}
		k = a*k + (1-a)*ev.Supply
	}
	return nil
}

func (s *search) bisect(ctx context.Context, k0 float64) error {
	floor := s.e.StabilityFrontier() * (1 + s.opts.Margin)
	x := s.opts.Expand
	lo := math.Max(k0/x, floor)
	hi := math.Max(k0*x, lo*x)

	// Grow the bracket until h(lo) ≤ 0 ≤ h(hi).
	evLo, err := s.eval(ctx, lo)
	if err != nil {
		return err
	}
	var evHi *Evaluation
	for n := 0; evLo.Excess() > 0; n++ {
		if lo == floor || n == maxExpansions {
			return fmt.Errorf("K − G(K) > 0 down to K=%g: %w", lo, ErrNoBracket)
		}
		hi, evHi = lo, evLo
		lo = math.Max(lo/x, floor)
		if evLo, err = s.eval(ctx, lo); err != nil {
			return err
		}
	}
	if evHi == nil {
		if evHi, err = s.eval(ctx, hi); err != nil {
			return err
		}
	}
	for n := 0; evHi.Excess() < 0; n++ {
		if n == maxExpansions {
			return fmt.Errorf("K − G(K) < 0 up to K=%g: %w", hi, ErrNoBracket)
		}
		lo, evLo = hi, evHi
		hi *= x
		if evHi, err = s.eval(ctx, hi); err != nil {
			return err
		}
	}
	best := closest(evLo, evHi)
	if math.Abs(best.Excess()) <= s.opts.Tol {
		s.res.Last, s.res.Converged = best, true
		return nil
	}

	for it := 0; it < s.opts.MaxIter; it++ {
		if (hi-lo)/2 <= s.opts.Tol {
			// G jumps across K = G(K) inside the bracket.
			s.res.Last, s.collapsed = best, true
			return nil
		}
		mid := lo + (hi-lo)/2
		ev, err := s.eval(ctx, mid)
		if err != nil {
			return err
		}
		best = closest(best, ev)
		if math.Abs(ev.Excess()) <= s.opts.Tol {
			s.res.Converged = true
			return nil
		}
		if ev.Excess() < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	s.res.Last = best
	return nil
}

// closest returns the evaluation with the smaller |K − G(K)|, a on ties.
func closest(a, b *Evaluation) *Evaluation {
	if math.Abs(b.Excess()) < math.Abs(a.Excess()) {
		return b
	}
	return a
}

func (s *search) finish(began time.Time) (*Result, error) {
	res := s.res
	res.Elapsed = time.Since(began)
	if ev := res.Last; ev != nil {
		res.K, res.R, res.W, res.Supply = ev.K, ev.R, ev.W, ev.Supply
		res.Residual = math.Abs(ev.Excess())
	}
	log := s.opts.Logger
	if !res.Converged {
		cause, msg := ErrNotConverged, "equilibrium search hit iteration limit"
		if s.collapsed {
			cause, msg = ErrNoFixedPoint, "equilibrium bracket collapsed without a fixed point"
		}
		log.Warn().
			Str("method", res.Method.String()).
			Int("iterations", res.Iterations).
			Float64("k", res.K).
			Float64("residual", res.Residual).
			Msg(msg)
		return res, fmt.Errorf("%s: %d evaluations, residual %g: %w", opSolve, res.Iterations, res.Residual, cause)
	}
	log.Info().
		Str("method", res.Method.String()).
		Int("iterations", res.Iterations).
		Float64("k", res.K).
		Float64("r", res.R).
		Float64("w", res.W).
		Float64("residual", res.Residual).
		Dur("elapsed", res.Elapsed).
		Msg("equilibrium found")

	return res, nil
}
