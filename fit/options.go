package fit

import (
	"github.com/YuminosukeSato/curvefit/pkg/log"
	"github.com/YuminosukeSato/curvefit/solver"
)

// Option configures a single fit.
type Option func(*config)

type config struct {
	weights []float64
	stdevs  []float64
	solver  solver.Solver
	logger  log.Logger
}

// WithWeights supplies relative per-point uncertainties. Only their ratios
// matter: the covariance is rescaled by the reduced chi-square.
func WithWeights(sigma []float64) Option {
	return func(c *config) {
		c.weights = sigma
	}
}

// WithStdevs supplies absolute per-point standard deviations. The covariance
// is reported on the scale they imply.
func WithStdevs(sigma []float64) Option {
	return func(c *config) {
		c.stdevs = sigma
	}
}

// WithSolver replaces the default Levenberg–Marquardt solver.
func WithSolver(s solver.Solver) Option {
	return func(c *config) {
		c.solver = s
	}
}

// WithLogger sets the logger used for fit progress.
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.solver == nil {
		c.solver = solver.NewLevenbergMarquardt()
	}
	if c.logger == nil {
		c.logger = log.GetLoggerWithName("fit")
	}
	return c
}
