// Package fit fits models.Model curves to data and exposes the fitted
// parameters through an immutable Result.
//
// Fit is the functional entry point; Curve wraps it for callers that prefer
// a stateful object that is fitted in place.
package fit

import (
	"time"

	"github.com/YuminosukeSato/curvefit/models"
	"github.com/YuminosukeSato/curvefit/pkg/errors"
	"github.com/YuminosukeSato/curvefit/pkg/log"
	"github.com/YuminosukeSato/curvefit/preprocessing"
	"github.com/YuminosukeSato/curvefit/solver"
)

// Fit fits m to (xdata, ydata).
//
// Rows where x, y or the supplied uncertainty is NaN or ±Inf are dropped
// before fitting. At most one of WithWeights and WithStdevs may be given.
// The solver always starts from all parameters equal to one.
//
// Example:
//
//	res, err := fit.Fit(models.Linear, x, y)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.EquationFitted())
func Fit(m models.Model, xdata, ydata []float64, opts ...Option) (res *Result, err error) {
	defer errors.Recover(&err, "fit.Fit")

	cfg := newConfig(opts)

	if !m.Valid() {
		return nil, errors.NewValueError("Fit", "model has no function")
	}
	if cfg.weights != nil && cfg.stdevs != nil {
		return nil, errors.NewValidationError("weights/stdevs",
			"only one of weights and stdevs may be supplied", "both")
	}
	if len(xdata) != len(ydata) {
		return nil, errors.NewDimensionError("Fit", len(xdata), len(ydata), 1)
	}

	sigma, mode, absolute := cfg.weights, log.SigmaRelative, false
	if cfg.stdevs != nil {
		sigma, mode, absolute = cfg.stdevs, log.SigmaAbsolute, true
	}
	if sigma == nil {
		mode = log.SigmaNone
	}
	if sigma != nil && len(sigma) != len(xdata) {
		return nil, errors.NewDimensionError("Fit", len(xdata), len(sigma), 2)
	}

	logger := cfg.logger.With(log.ModelNameKey, m.Name(), log.OperationKey, log.OperationFit)

	arrays := [][]float64{xdata, ydata}
	if sigma != nil {
		arrays = append(arrays, sigma)
	}
	clean, err := preprocessing.RemoveInvalid(arrays...)
	if err != nil {
		return nil, err
	}
	var cleanSigma []float64
	if sigma != nil {
		cleanSigma = clean[2]
	}
	dropped := len(xdata) - len(clean[0])

	logger.Debug("Fitting curve",
		log.SamplesKey, len(clean[0]),
		log.DroppedKey, dropped,
		log.SigmaModeKey, mode)

	start := time.Now()
	sol, err := cfg.solver.Solve(solver.Problem{
		Func:          solver.Func(m.Func()),
		Grad:          solver.GradFunc(m.Grad()),
		X:             clean[0],
		Y:             clean[1],
		Sigma:         cleanSigma,
		AbsoluteSigma: absolute,
		NumParams:     m.NumParams(),
	})
	if err != nil {
		logger.Debug("Fit failed", err, log.ErrorCodeKey, errorCode(err))
		return nil, err
	}
	if len(sol.Params) != m.NumParams() || sol.Covariance == nil {
		return nil, errors.NewModelError("Fit", "solver returned an incomplete solution", nil)
	}

	res = &Result{
		model:         m,
		params:        append([]float64(nil), sol.Params...),
		cov:           sol.Covariance,
		xdata:         append([]float64(nil), xdata...),
		ydata:         append([]float64(nil), ydata...),
		x:             clean[0],
		y:             clean[1],
		sigma:         cleanSigma,
		absoluteSigma: absolute,
		rss:           sol.RSS,
		dof:           sol.DoF,
		iterations:    sol.Iterations,
		status:        sol.Status,
		dropped:       dropped,
	}

	logger.Debug("Fit completed",
		log.ParamsKey, res.params,
		log.IterationKey, sol.Iterations,
		log.StatusKey, sol.Status.String(),
		log.RSSKey, sol.RSS,
		log.DurationMsKey, time.Since(start).Milliseconds())

	return res, nil
}

// errorCode maps an error to the structured code used in logs.
func errorCode(err error) string {
	var (
		notFitted   *errors.NotFittedError
		dimension   *errors.DimensionError
		validation  *errors.ValidationError
		value       *errors.ValueError
		convergence *errors.ConvergenceError
	)
	switch {
	case errors.As(err, &notFitted):
		return log.ErrorNotFitted
	case errors.As(err, &dimension):
		return log.ErrorDimensionMismatch
	case errors.Is(err, errors.ErrInsufficientData):
		return log.ErrorInsufficientData
	case errors.Is(err, errors.ErrSingularMatrix):
		return log.ErrorSingularMatrix
	case errors.As(err, &convergence):
		return log.ErrorConvergence
	case errors.As(err, &validation), errors.As(err, &value):
		return log.ErrorInvalidInput
	default:
		return ""
	}
}
