package models

import "math"

// Built-in variants. Log, sqrt and power forms require x > 0; callers are
// responsible for the domain.
var (
	// Linear is y = m·x + c.
	Linear = MustNew("Linear",
		func(x float64, p []float64) float64 { return p[0]*x + p[1] },
		WithParamNames("m", "c"),
		WithTemplate("{m}x + {c}"),
		WithGradient(func(dst []float64, x float64, _ []float64) {
			dst[0] = x
			dst[1] = 1
		}),
	)

	// LinearThroughZero is y = m·x.
	LinearThroughZero = MustNew("LinearThroughZero",
		func(x float64, p []float64) float64 { return p[0] * x },
		WithParamNames("m"),
		WithTemplate("{m}x"),
		WithGradient(func(dst []float64, x float64, _ []float64) {
			dst[0] = x
		}),
	)

	// Sqrt is y = m·√x + c.
	Sqrt = MustNew("Sqrt",
		func(x float64, p []float64) float64 { return p[0]*math.Sqrt(x) + p[1] },
		WithParamNames("m", "c"),
		WithTemplate("{m}sqrt(x) + {c}"),
		WithGradient(func(dst []float64, x float64, _ []float64) {
			dst[0] = math.Sqrt(x)
			dst[1] = 1
		}),
	)

	// LogNatural is y = m·ln(x) + c.
	LogNatural = MustNew("LogNatural",
		func(x float64, p []float64) float64 { return p[0]*math.Log(x) + p[1] },
		WithParamNames("m", "c"),
		WithTemplate("{m}ln(x) + {c}"),
		WithGradient(func(dst []float64, x float64, _ []float64) {
			dst[0] = math.Log(x)
			dst[1] = 1
		}),
	)

	// Log10 is y = m·log10(x) + c.
	Log10 = MustNew("Log10",
		func(x float64, p []float64) float64 { return p[0]*math.Log10(x) + p[1] },
		WithParamNames("m", "c"),
		WithTemplate("{m}log10(x) + {c}"),
		WithGradient(func(dst []float64, x float64, _ []float64) {
			dst[0] = math.Log10(x)
			dst[1] = 1
		}),
	)

	// Exponential is y = A·e^x + c.
	Exponential = MustNew("Exponential",
		func(x float64, p []float64) float64 { return p[0]*math.Exp(x) + p[1] },
		WithParamNames("A", "c"),
		WithTemplate("{A}e^x + {c}"),
		WithGradient(func(dst []float64, x float64, _ []float64) {
			dst[0] = math.Exp(x)
			dst[1] = 1
		}),
	)

	// Log10Log10 is y = x^a · 10^c, a straight line on log-log axes.
	Log10Log10 = MustNew("Log10Log10",
		func(x float64, p []float64) float64 { return math.Pow(x, p[0]) * math.Pow(10, p[1]) },
		WithParamNames("a", "c"),
		WithTemplate("10^{c} x^{a}"),
		WithGradient(func(dst []float64, x float64, p []float64) {
			y := math.Pow(x, p[0]) * math.Pow(10, p[1])
			dst[0] = y * math.Log(x)
			dst[1] = y * math.Ln10
		}),
	)
)
