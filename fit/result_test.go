package fit

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/curvefit/core/model"
	"github.com/YuminosukeSato/curvefit/models"
	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

func fixedResult(t *testing.T, m models.Model, params ...float64) *Result {
	t.Helper()
	x := linspace(1, 5, 5)
	res, err := Fit(m, x, sample(m, x, params...), WithSolver(fixedSolver{params: params}))
	require.NoError(t, err)
	return res
}

func TestEquationFittedLinear(t *testing.T) {
	res := fixedResult(t, models.Linear, 2, 3)

	eq := res.EquationFitted()
	assert.Equal(t, "(2.000E+00)x + (3.000E+00)", eq)
	assert.NotContains(t, eq, "{")
	assert.NotContains(t, eq, "m")
	assert.Equal(t, "m=2.00e+00, c=3.00e+00", res.ParamsString())
}

func TestEquationFittedVariants(t *testing.T) {
	tests := []struct {
		model  models.Model
		params []float64
		want   string
	}{
		{models.LinearThroughZero, []float64{-1.5}, "(-1.500E+00)x"},
		{models.Sqrt, []float64{0.25, 100}, "(2.500E-01)sqrt(x) + (1.000E+02)"},
		{models.LogNatural, []float64{1, 2}, "(1.000E+00)ln(x) + (2.000E+00)"},
		{models.Log10, []float64{1234.4, -0.001}, "(1.234E+03)log10(x) + (-1.000E-03)"},
		{models.Exponential, []float64{3, 4}, "(3.000E+00)e^x + (4.000E+00)"},
		{models.Log10Log10, []float64{2, 0.5}, "10^(5.000E-01) x^(2.000E+00)"},
	}
	for _, tt := range tests {
		t.Run(tt.model.Name(), func(t *testing.T) {
			res := fixedResult(t, tt.model, tt.params...)
			assert.Equal(t, tt.want, res.EquationFitted())
		})
	}
}

func TestEquationFittedNamesThatAreSubstrings(t *testing.T) {
	m := models.MustNew("Overlap",
		func(x float64, p []float64) float64 { return p[0]*x + p[1] },
		models.WithParamNames("a", "ab"),
		models.WithTemplate("{a}x + {ab}"))

	res := fixedResult(t, m, 1, 2)
	assert.Equal(t, "(1.000E+00)x + (2.000E+00)", res.EquationFitted())
	assert.Equal(t, "a=1.00e+00, ab=2.00e+00", res.ParamsString())
}

func TestSyntheticParamNames(t *testing.T) {
	m := models.MustNew("Quadratic",
		func(x float64, p []float64) float64 { return p[0]*x*x + p[1]*x + p[2] },
		models.WithNumParams(3))

	x := linspace(-3, 3, 9)
	res, err := Fit(m, x, sample(m, x, 1, -2, 0.5))
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "1", "2"}, res.ParamNames())
	assert.InDeltaSlice(t, []float64{1, -2, 0.5}, res.Params(), 1e-6)
	assert.Equal(t, "", res.EquationFitted())
	assert.True(t, strings.HasPrefix(res.ParamsString(), "0=1.00e+00, 1=-2.00e+00, 2="))
}

func TestResultEvaluation(t *testing.T) {
	res := fixedResult(t, models.Linear, 2, 3)

	assert.Equal(t, 11.0, res.Y(4))
	assert.Equal(t, []float64{3, 5, 7}, res.Predict([]float64{0, 1, 2}))
	assert.InDeltaSlice(t, make([]float64, 5), res.Residuals(), 1e-12)
	assert.InDelta(t, 1, res.RSquared(), 1e-12)
	assert.InDelta(t, 0, res.RMSE(), 1e-12)
	assert.Equal(t, []float64{1, 1}, res.ParamStdevs())
}

func TestResultIsImmutable(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{5, 7, 9, 11}
	res, err := Fit(models.Linear, x, y)
	require.NoError(t, err)

	x[0] = 100
	params := res.Params()
	params[0] = 42
	res.Covariance().SetSym(0, 0, -1)

	assert.Equal(t, 1.0, res.XData()[0])
	assert.InDelta(t, 2, res.Params()[0], 1e-8)
	assert.GreaterOrEqual(t, res.Covariance().At(0, 0), 0.0)
}

func TestConfidenceIntervals(t *testing.T) {
	x, y, sigma := noisyLine()

	rel, err := Fit(models.Linear, x, y, WithWeights(sigma))
	require.NoError(t, err)
	ci, err := rel.ConfidenceIntervals(0.95)
	require.NoError(t, err)
	require.Len(t, ci, 2)

	stdevs := rel.ParamStdevs()
	for i, p := range rel.Params() {
		assert.Less(t, ci[i][0], p)
		assert.Greater(t, ci[i][1], p)
		// t quantile with 8 degrees of freedom
		assert.InDelta(t, 2.306004, (ci[i][1]-p)/stdevs[i], 1e-5)
	}

	abs, err := Fit(models.Linear, x, y, WithStdevs(sigma))
	require.NoError(t, err)
	ci, err = abs.ConfidenceIntervals(0.95)
	require.NoError(t, err)
	stdevs = abs.ParamStdevs()
	p := abs.Params()
	assert.InDelta(t, 1.959964, (ci[0][1]-p[0])/stdevs[0], 1e-5)

	for _, level := range []float64{0, 1, -0.5, math.NaN()} {
		_, err := rel.ConfidenceIntervals(level)
		var target *errors.ValidationError
		assert.True(t, errors.As(err, &target), "level %v", level)
	}
}

func TestExactlyDeterminedFit(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(error) {})

	res, err := Fit(models.Linear, []float64{1, 3}, []float64{4, 8})
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{2, 2}, res.Params(), 1e-8)
	for _, s := range res.ParamStdevs() {
		assert.True(t, math.IsInf(s, 1))
	}
	assert.True(t, math.IsInf(res.ReducedChiSquare(), 1))
	assert.Len(t, warnings, 1)

	ci, err := res.ConfidenceIntervals(0.9)
	require.NoError(t, err)
	assert.True(t, math.IsInf(ci[0][1], 1))

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"+Inf"`)
}

func TestResultRecord(t *testing.T) {
	x, y, sigma := noisyLine()
	res, err := Fit(models.Linear, x, y, WithStdevs(sigma))
	require.NoError(t, err)

	rec := res.Record()
	require.NoError(t, rec.Validate())
	assert.Equal(t, "Linear", rec.Model)
	assert.Equal(t, []string{"m", "c"}, rec.ParamNames)
	assert.Equal(t, res.Params(), model.Floats(rec.Params))
	assert.Equal(t, res.EquationFitted(), rec.Equation)
	assert.True(t, rec.AbsoluteSigma)
	assert.Equal(t, 10, rec.Samples)
	assert.Equal(t, 8, rec.DoF)
	assert.Equal(t, res.Status().String(), rec.Status)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	var back model.FitRecord
	require.NoError(t, back.FromJSON(data))
	assert.Equal(t, rec.Params, back.Params)
}

func TestSummary(t *testing.T) {
	res := fixedResult(t, models.Linear, 2, 3)
	s := res.Summary()

	assert.Contains(t, s, "Model:      Linear")
	assert.Contains(t, s, "y = (2.000E+00)x + (3.000E+00)")
	assert.Contains(t, s, "Samples:    5 (0 dropped)")
	assert.Contains(t, s, "ExactFit after 1 iterations")
}
