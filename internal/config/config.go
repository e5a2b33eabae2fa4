package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/curvefit/models"
	"github.com/YuminosukeSato/curvefit/pkg/errors"
	"github.com/YuminosukeSato/curvefit/pkg/log"
	"github.com/YuminosukeSato/curvefit/solver"
)

const (
	DefaultModel      = "Linear"
	DefaultXColumn    = "x"
	DefaultYColumn    = "y"
	DefaultPlotWidth  = 6.0
	DefaultPlotHeight = 4.0
	DefaultLogLevel   = "warn"
)

type Config struct {
	Model         string        `yaml:"model"`
	Columns       ColumnsConfig `yaml:"columns"`
	AbsoluteSigma bool          `yaml:"absolute_sigma"`
	Solver        SolverConfig  `yaml:"solver"`
	Plot          PlotConfig    `yaml:"plot"`
	LogLevel      string        `yaml:"log_level"`
}

type ColumnsConfig struct {
	X     string `yaml:"x"`
	Y     string `yaml:"y"`
	Sigma string `yaml:"sigma"`
}

type SolverConfig struct {
	MaxIterations int     `yaml:"max_iterations"`
	Tau           float64 `yaml:"tau"`
	GradientTol   float64 `yaml:"gradient_tol"`
	StepTol       float64 `yaml:"step_tol"`
	ObjectiveTol  float64 `yaml:"objective_tol"`
}

type PlotConfig struct {
	Output string  `yaml:"output"`
	Title  string  `yaml:"title"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	LogX   bool    `yaml:"log_x"`
	LogY   bool    `yaml:"log_y"`
}

func DefaultConfig() *Config {
	return &Config{
		Model: DefaultModel,
		Columns: ColumnsConfig{
			X: DefaultXColumn,
			Y: DefaultYColumn,
		},
		Solver: SolverConfig{
			MaxIterations: solver.DefaultMaxIterations,
			Tau:           solver.DefaultTau,
			GradientTol:   solver.DefaultGradientTolerance,
			StepTol:       solver.DefaultStepTolerance,
			ObjectiveTol:  solver.DefaultObjectiveTolerance,
		},
		Plot: PlotConfig{
			Width:  DefaultPlotWidth,
			Height: DefaultPlotHeight,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the model name, solver settings and log level.
func (c *Config) Validate() error {
	if _, err := models.Lookup(c.Model); err != nil {
		return err
	}
	if c.Columns.X == "" || c.Columns.Y == "" {
		return errors.NewValidationError("columns", "x and y columns are required", c.Columns)
	}
	if c.Solver.MaxIterations < 0 {
		return errors.NewValidationError("solver.max_iterations", "must not be negative", c.Solver.MaxIterations)
	}
	if c.Solver.Tau < 0 || c.Solver.GradientTol < 0 || c.Solver.StepTol < 0 || c.Solver.ObjectiveTol < 0 {
		return errors.NewValidationError("solver", "tolerances must not be negative", c.Solver)
	}
	if c.Plot.Width <= 0 || c.Plot.Height <= 0 {
		return errors.NewValidationError("plot", "width and height must be positive", c.Plot)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func (c *Config) SolverOptions() []solver.Option {
	return []solver.Option{
		solver.WithMaxIterations(c.Solver.MaxIterations),
		solver.WithTau(c.Solver.Tau),
		solver.WithTolerances(c.Solver.GradientTol, c.Solver.StepTol),
		solver.WithObjectiveTolerance(c.Solver.ObjectiveTol),
	}
}
