package fit

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/curvefit/core/model"
	"github.com/YuminosukeSato/curvefit/metrics"
	"github.com/YuminosukeSato/curvefit/models"
	"github.com/YuminosukeSato/curvefit/pkg/errors"
	"github.com/YuminosukeSato/curvefit/solver"
)

// Result is an immutable fitted curve. All accessors are computed on demand.
type Result struct {
	model  models.Model
	params []float64
	cov    *mat.SymDense

	// original inputs, before sanitization
	xdata, ydata []float64
	// rows handed to the solver
	x, y, sigma []float64

	absoluteSigma bool
	rss           float64
	dof           int
	iterations    int
	status        solver.Status
	dropped       int
}

// Model returns the fitted model.
func (r *Result) Model() models.Model { return r.model }

// Params returns a copy of the fitted parameters in ParamNames order.
func (r *Result) Params() []float64 { return append([]float64(nil), r.params...) }

// Covariance returns a copy of the parameter covariance matrix.
func (r *Result) Covariance() *mat.SymDense {
	return mat.NewSymDense(len(r.params), append([]float64(nil), r.cov.RawSymmetric().Data...))
}

// XData returns the x values passed to Fit, including dropped rows.
func (r *Result) XData() []float64 { return append([]float64(nil), r.xdata...) }

// YData returns the y values passed to Fit, including dropped rows.
func (r *Result) YData() []float64 { return append([]float64(nil), r.ydata...) }

// Points returns the finite rows the curve was fitted to. sigma is nil for
// unweighted fits.
func (r *Result) Points() (x, y, sigma []float64) {
	return append([]float64(nil), r.x...), append([]float64(nil), r.y...), append([]float64(nil), r.sigma...)
}

// Dropped returns the number of non-finite rows removed before fitting.
func (r *Result) Dropped() int { return r.dropped }

// AbsoluteSigma reports whether uncertainties were absolute standard deviations.
func (r *Result) AbsoluteSigma() bool { return r.absoluteSigma }

// RSS returns the (weighted) residual sum of squares.
func (r *Result) RSS() float64 { return r.rss }

// DoF returns the residual degrees of freedom.
func (r *Result) DoF() int { return r.dof }

// Iterations returns the number of solver iterations.
func (r *Result) Iterations() int { return r.iterations }

// Status returns why the solver stopped.
func (r *Result) Status() solver.Status { return r.status }

// ParamNames returns the model's parameter names, or "0".."k-1".
func (r *Result) ParamNames() []string { return r.model.ParamNames() }

// ParamStdevs returns the square roots of the covariance diagonal. Negative
// diagonal entries yield NaN; an inestimable covariance yields +Inf.
func (r *Result) ParamStdevs() []float64 {
	out := make([]float64, len(r.params))
	for i := range out {
		out[i] = math.Sqrt(r.cov.At(i, i))
	}
	return out
}

// Y evaluates the fitted curve at x.
func (r *Result) Y(x float64) float64 {
	return r.model.Eval(x, r.params)
}

// Predict evaluates the fitted curve at every x.
func (r *Result) Predict(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = r.model.Eval(x, r.params)
	}
	return out
}

// ParamsString formats the parameters as "m=2.00e+00, c=3.00e+00".
func (r *Result) ParamsString() string {
	names := r.ParamNames()
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%.2e", name, r.params[i])
	}
	return strings.Join(parts, ", ")
}

// EquationFitted renders the model's equation with every parameter replaced
// by its value, e.g. "(2.000E+00)x + (3.000E+00)".
func (r *Result) EquationFitted() string {
	return r.model.Render(func(i int) string {
		return fmt.Sprintf("(%.3E)", r.params[i])
	})
}

// Residuals returns y − f(x) over the fitted rows, unweighted.
func (r *Result) Residuals() []float64 {
	out := r.Predict(r.x)
	for i := range out {
		out[i] = r.y[i] - out[i]
	}
	return out
}

// RSquared returns the coefficient of determination over the fitted rows,
// or NaN when y has no variance.
func (r *Result) RSquared() float64 {
	r2, err := metrics.R2Score(r.vectors())
	if err != nil {
		return math.NaN()
	}
	return r2
}

// RMSE returns the unweighted root mean squared error over the fitted rows.
func (r *Result) RMSE() float64 {
	rmse, err := metrics.RMSE(r.vectors())
	if err != nil {
		return math.NaN()
	}
	return rmse
}

// ReducedChiSquare returns RSS / DoF, +Inf when DoF is zero.
func (r *Result) ReducedChiSquare() float64 {
	return metrics.ReducedChiSquare(r.rss, r.dof)
}

func (r *Result) vectors() (yTrue, yPred *mat.VecDense) {
	return mat.NewVecDense(len(r.y), append([]float64(nil), r.y...)),
		mat.NewVecDense(len(r.x), r.Predict(r.x))
}

// ConfidenceIntervals returns [lo, hi] for every parameter at the given
// two-sided level, e.g. 0.95. Relative-sigma fits use the Student-t
// distribution with DoF degrees of freedom; absolute-sigma fits use the
// normal distribution.
func (r *Result) ConfidenceIntervals(level float64) ([][2]float64, error) {
	if !(level > 0 && level < 1) {
		return nil, errors.NewValidationError("level", "must be in (0, 1)", level)
	}

	p := 1 - (1-level)/2
	var q float64
	switch {
	case r.absoluteSigma:
		q = distuv.UnitNormal.Quantile(p)
	case r.dof > 0:
		q = distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(r.dof)}.Quantile(p)
	default:
		q = math.Inf(1)
	}

	stdevs := r.ParamStdevs()
	out := make([][2]float64, len(r.params))
	for i, v := range r.params {
		half := q * stdevs[i]
		out[i] = [2]float64{v - half, v + half}
	}
	return out, nil
}

// Summary returns a multi-line human readable report.
func (r *Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Model:      %s\n", r.model.Name())
	fmt.Fprintf(&b, "Equation:   y = %s\n", r.EquationFitted())
	fmt.Fprintf(&b, "Samples:    %d (%d dropped)\n", len(r.x), r.dropped)
	b.WriteString("Parameters:\n")
	stdevs := r.ParamStdevs()
	for i, name := range r.ParamNames() {
		fmt.Fprintf(&b, "  %-6s = %.6e ± %.2e\n", name, r.params[i], stdevs[i])
	}
	fmt.Fprintf(&b, "R²:         %.6f\n", r.RSquared())
	fmt.Fprintf(&b, "RMSE:       %.6g\n", r.RMSE())
	fmt.Fprintf(&b, "χ²/dof:     %.6g\n", r.ReducedChiSquare())
	fmt.Fprintf(&b, "Solver:     %s after %d iterations\n", r.status, r.iterations)
	return b.String()
}

// Record exports the result for serialization.
func (r *Result) Record() *model.FitRecord {
	k := len(r.params)
	cov := make([][]model.Number, k)
	for i := range cov {
		cov[i] = make([]model.Number, k)
		for j := range cov[i] {
			cov[i][j] = model.Number(r.cov.At(i, j))
		}
	}
	return &model.FitRecord{
		Model:            r.model.Name(),
		Version:          model.RecordVersion,
		Equation:         r.EquationFitted(),
		ParamNames:       r.ParamNames(),
		Params:           model.Numbers(r.params),
		Stdevs:           model.Numbers(r.ParamStdevs()),
		Covariance:       cov,
		AbsoluteSigma:    r.absoluteSigma,
		Samples:          len(r.x),
		Dropped:          r.dropped,
		DoF:              r.dof,
		RSS:              model.Number(r.rss),
		RSquared:         model.Number(r.RSquared()),
		ReducedChiSquare: model.Number(r.ReducedChiSquare()),
		Iterations:       r.iterations,
		Status:           r.status.String(),
	}
}

// MarshalJSON encodes the result as its FitRecord.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Record())
}
