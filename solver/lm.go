package solver

import (
	"math"
	"sync/atomic"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

const algorithmName = "levenberg-marquardt"

const (
	DefaultMaxIterations = 200
	// DefaultTau scales the initial damping, μ₀ = τ·max diag(JᵀJ).
	DefaultTau = 1e-3
	// DefaultGradientTolerance stops when ‖Jᵀr‖∞ falls below it.
	DefaultGradientTolerance = 1e-10
	// DefaultStepTolerance stops when ‖δ‖ ≤ tol·(‖p‖ + tol); √eps as in MINPACK.
	DefaultStepTolerance = 1.49012e-8
	// DefaultObjectiveTolerance stops when the residual norm is negligible.
	DefaultObjectiveTolerance = 1e-30

	// stationarityTol bounds the cosine between the residual vector and the
	// Jacobian columns when the absolute gradient test did not fire
	stationarityTol = 1e-6

	// normal matrices whose condition number exceeds this are treated as
	// singular when computing the covariance
	maxCondition = 1 / (2.220446049250313e-16 * 4)
)

// LevenbergMarquardt minimises the weighted residuals with
// github.com/maorshutman/lm and derives the covariance from the Jacobian
// at the solution.
type LevenbergMarquardt struct {
	MaxIterations int
	// Tau is the initial damping relative to the largest diagonal entry of
	// JᵀJ.
	Tau float64
	// GradientTol and StepTol are the library's ε₁ and ε₂ stopping tests.
	GradientTol float64
	StepTol     float64
	// ObjectiveTol stops once the residual norm reaches it.
	ObjectiveTol float64
}

// Option configures a LevenbergMarquardt solver.
type Option func(*LevenbergMarquardt)

// WithMaxIterations sets the iteration limit.
func WithMaxIterations(n int) Option {
	return func(s *LevenbergMarquardt) {
		s.MaxIterations = n
	}
}

// WithTolerances sets the gradient and step stopping tolerances.
func WithTolerances(gradient, step float64) Option {
	return func(s *LevenbergMarquardt) {
		s.GradientTol = gradient
		s.StepTol = step
	}
}

// WithObjectiveTolerance sets the residual norm at which the solver stops.
func WithObjectiveTolerance(tol float64) Option {
	return func(s *LevenbergMarquardt) {
		s.ObjectiveTol = tol
	}
}

// WithTau sets the initial damping factor.
func WithTau(tau float64) Option {
	return func(s *LevenbergMarquardt) {
		s.Tau = tau
	}
}

// NewLevenbergMarquardt returns a solver with default settings.
func NewLevenbergMarquardt(opts ...Option) *LevenbergMarquardt {
	s := &LevenbergMarquardt{
		MaxIterations: DefaultMaxIterations,
		Tau:           DefaultTau,
		GradientTol:   DefaultGradientTolerance,
		StepTol:       DefaultStepTolerance,
		ObjectiveTol:  DefaultObjectiveTolerance,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the algorithm name used in errors and logs.
func (s *LevenbergMarquardt) Name() string { return algorithmName }

// Solve implements Solver.
func (s *LevenbergMarquardt) Solve(prob Problem) (*Solution, error) {
	if err := validate(prob); err != nil {
		return nil, err
	}

	st := newState(prob)
	n, k := st.n, st.k

	p := make([]float64, k)
	if prob.Init != nil {
		copy(p, prob.Init)
	} else {
		for i := range p {
			p[i] = 1
		}
	}

	r := make([]float64, n)
	st.weighted(r, p)
	if err := errors.CheckNumericalStability("residuals", r, 0); err != nil {
		return nil, err
	}

	maxIter := s.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	tau := s.Tau
	if tau <= 0 {
		tau = DefaultTau
	}

	res, err := lm.LM(lm.LMProblem{
		Dim:        k,
		Size:       n,
		Func:       st.residuals,
		Jac:        st.jacobian,
		InitParams: p,
		Tau:        tau,
		Eps1:       s.GradientTol,
		Eps2:       s.StepTol,
	}, &lm.Settings{Iterations: maxIter, ObjectiveTol: s.ObjectiveTol})
	if err != nil {
		return nil, errors.NewConvergenceError(algorithmName, maxIter, err.Error())
	}
	if res == nil || len(res.X) != k {
		return nil, errors.NewModelError("Solve", "solver returned no parameters", nil)
	}
	p = append([]float64(nil), res.X...)

	st.weighted(r, p)
	if err := errors.CheckNumericalStability("residuals", r, 0); err != nil {
		return nil, err
	}
	cost := floats.Dot(r, r)

	jac := mat.NewDense(n, k, nil)
	st.jacobian(jac, p)
	if err := errors.CheckMatrix("jacobian", jac, n, k, 0); err != nil {
		return nil, err
	}

	iterations := min(max(int(st.trials.Load())-1, 0), maxIter)

	var g mat.VecDense
	g.MulVec(jac.T(), mat.NewVecDense(n, r))

	var status Status
	switch {
	case cost == 0:
		status = ExactFit
	case math.Sqrt(cost) <= s.ObjectiveTol:
		status = ObjectiveConvergence
	case mat.Norm(&g, math.Inf(1)) <= s.GradientTol:
		status = GradientConvergence
	case scaledGradient(jac, &g, cost) <= stationarityTol:
		status = StepConvergence
	default:
		return nil, errors.NewConvergenceError(algorithmName, maxIter, "maximum number of iterations reached")
	}

	cov, err := st.covariance(jac, cost, prob.AbsoluteSigma)
	if err != nil {
		return nil, err
	}

	return &Solution{
		Params:     p,
		Covariance: cov,
		RSS:        cost,
		DoF:        n - k,
		Iterations: iterations,
		FuncEvals:  int(st.trials.Load() + st.evals.Load()),
		Status:     status,
	}, nil
}

func validate(prob Problem) error {
	if prob.Func == nil {
		return errors.NewValueError("Solve", "problem has no model function")
	}
	k := prob.NumParams
	if prob.Init != nil && k == 0 {
		k = len(prob.Init)
	}
	if k <= 0 {
		return errors.NewValidationError("num_params", "must be positive", prob.NumParams)
	}
	if prob.Init != nil && len(prob.Init) != k {
		return errors.NewDimensionError("Solve", k, len(prob.Init), 2)
	}
	n := len(prob.X)
	if len(prob.Y) != n {
		return errors.NewDimensionError("Solve", n, len(prob.Y), 1)
	}
	if prob.Sigma != nil && len(prob.Sigma) != n {
		return errors.NewDimensionError("Solve", n, len(prob.Sigma), 2)
	}
	if n < k {
		return errors.NewModelError("Solve",
			"fewer data points than parameters", errors.ErrInsufficientData)
	}
	for _, s := range prob.Sigma {
		if !(s > 0) || !errors.IsFinite(s) {
			return errors.NewValidationError("sigma", "uncertainties must be positive and finite", s)
		}
	}
	return nil
}

// scaledGradient is max_j |g_j| / sqrt(A_jj · cost) over the non-zero
// columns of the Jacobian.
func scaledGradient(jac *mat.Dense, g *mat.VecDense, cost float64) float64 {
	worst := 0.0
	for j := 0; j < g.Len(); j++ {
		col := mat.Col(nil, j, jac)
		ajj := floats.Dot(col, col)
		if ajj == 0 {
			continue
		}
		worst = math.Max(worst, math.Abs(g.AtVec(j))/math.Sqrt(ajj*cost))
	}
	return worst
}

// state folds 1/σ into the residuals handed to lm and counts evaluations.
// The counters are atomic because lm.NumJac may evaluate concurrently.
type state struct {
	prob Problem
	n, k int
	w    []float64
	num  *lm.NumJac

	// trials counts residual evaluations requested by the solver loop,
	// evals those made for finite-difference Jacobians.
	trials atomic.Int64
	evals  atomic.Int64
}

func newState(prob Problem) *state {
	k := prob.NumParams
	if k == 0 {
		k = len(prob.Init)
	}
	n := len(prob.X)
	w := make([]float64, n)
	for i := range w {
		if prob.Sigma != nil {
			w[i] = 1 / prob.Sigma[i]
		} else {
			w[i] = 1
		}
	}
	st := &state{prob: prob, n: n, k: k, w: w}
	st.num = &lm.NumJac{Func: func(dst, p []float64) {
		st.evals.Add(1)
		st.weighted(dst, p)
	}}
	return st
}

// residuals is the lm objective, r_i = (f(x_i, p) − y_i) / σ_i.
func (s *state) residuals(dst, p []float64) {
	s.trials.Add(1)
	s.weighted(dst, p)
}

func (s *state) weighted(dst, p []float64) {
	for i, x := range s.prob.X {
		dst[i] = s.w[i] * (s.prob.Func(x, p) - s.prob.Y[i])
	}
}

// jacobian fills dst with ∂r_i/∂p_j, analytically when possible.
func (s *state) jacobian(dst *mat.Dense, p []float64) {
	if s.prob.Grad == nil {
		s.num.Jac(dst, p)
		return
	}
	grad := make([]float64, s.k)
	for i, x := range s.prob.X {
		s.prob.Grad(grad, x, p)
		for j, v := range grad {
			dst.Set(i, j, s.w[i]*v)
		}
	}
}

// covariance returns inv(JᵀWJ), rescaled by RSS/(n−k) unless absolute.
func (s *state) covariance(jac *mat.Dense, cost float64, absolute bool) (*mat.SymDense, error) {
	var a mat.SymDense
	a.SymOuterK(1, jac.T())

	var chol mat.Cholesky
	if ok := chol.Factorize(&a); !ok || chol.Cond() > maxCondition {
		return nil, errors.NewModelError("Solve", "normal matrix is singular at the solution", errors.ErrSingularMatrix)
	}
	cov := mat.NewSymDense(s.k, nil)
	if err := chol.InverseTo(cov); err != nil {
		return nil, errors.NewModelError("Solve", "normal matrix is singular at the solution", errors.ErrSingularMatrix)
	}
	if err := errors.CheckMatrix("covariance", cov, s.k, s.k, 0); err != nil {
		return nil, err
	}

	if absolute {
		return cov, nil
	}

	dof := s.n - s.k
	if dof > 0 {
		cov.ScaleSym(cost/float64(dof), cov)
		return cov, nil
	}

	for i := 0; i < s.k; i++ {
		for j := i; j < s.k; j++ {
			cov.SetSym(i, j, math.Inf(1))
		}
	}
	errors.Warn(errors.NewCovarianceWarning(algorithmName, s.n, s.k))
	return cov, nil
}
