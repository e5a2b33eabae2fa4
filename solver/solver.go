// Package solver minimises weighted sums of squared residuals for scalar
// curve models and reports the parameter covariance.
//
// The fit engine only talks to the Solver interface; LevenbergMarquardt,
// backed by github.com/maorshutman/lm, is the default implementation. Residuals are r_i = (f(x_i, p) − y_i) / σ_i
// with σ_i = 1 when no uncertainties are given.
package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Func evaluates the model at x for parameters p.
type Func func(x float64, p []float64) float64

// GradFunc writes ∂f/∂p at x into dst.
type GradFunc func(dst []float64, x float64, p []float64)

// Problem is a least-squares curve fitting problem.
type Problem struct {
	// Func is the model. Required.
	Func Func
	// Grad is the analytic gradient of Func with respect to p. When nil the
	// Jacobian is estimated with central differences.
	Grad GradFunc

	X, Y []float64
	// Sigma holds per-point uncertainties; nil means unit weights.
	Sigma []float64
	// AbsoluteSigma reports the covariance on the scale implied by Sigma
	// instead of rescaling it by the reduced chi-square.
	AbsoluteSigma bool

	// NumParams is the length of the parameter vector.
	NumParams int
	// Init is the starting point. nil starts every parameter at 1.
	Init []float64
}

// Solution is the outcome of a successful Solve.
type Solution struct {
	Params []float64
	// Covariance is the k×k parameter covariance. Entries are +Inf when it
	// cannot be estimated (as many points as parameters, relative sigma).
	Covariance *mat.SymDense
	// RSS is the weighted residual sum of squares at Params.
	RSS float64
	// DoF is the residual degrees of freedom, n − k.
	DoF int

	Iterations int
	FuncEvals  int
	Status     Status
}

// Solver finds the parameters minimising a Problem's residuals.
type Solver interface {
	Solve(p Problem) (*Solution, error)
}

// Status describes why a solver stopped.
type Status int

const (
	// ExactFit means every residual is zero.
	ExactFit Status = iota + 1
	// ObjectiveConvergence means the residual norm fell below ObjectiveTol.
	ObjectiveConvergence
	// GradientConvergence means ‖Jᵀr‖∞ fell below GradientTol.
	GradientConvergence
	// StepConvergence means the solver stopped on its step test at a
	// stationary point.
	StepConvergence
)

func (s Status) String() string {
	switch s {
	case ExactFit:
		return "ExactFit"
	case ObjectiveConvergence:
		return "ObjectiveConvergence"
	case GradientConvergence:
		return "GradientConvergence"
	case StepConvergence:
		return "StepConvergence"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}
