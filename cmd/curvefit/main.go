package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/curvefit/core/model"
	"github.com/YuminosukeSato/curvefit/fit"
	"github.com/YuminosukeSato/curvefit/internal/config"
	"github.com/YuminosukeSato/curvefit/internal/dataset"
	"github.com/YuminosukeSato/curvefit/models"
	"github.com/YuminosukeSato/curvefit/pkg/log"
	"github.com/YuminosukeSato/curvefit/plot"
	"github.com/YuminosukeSato/curvefit/solver"
)

// fitFlags holds the fit command's flags; they override the config file
// only when set explicitly.
type fitFlags struct {
	configFile string
	model      string
	x, y       string
	sigma      string
	absolute   bool
	maxIter    int
	plotPath   string
	jsonPath   string
	ascii      bool
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "curvefit",
		Short:         "fit parametric curves to tabular data",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list available models",
		Args:  cobra.NoArgs,
		RunE:  listModels,
	}

	var ff fitFlags
	fitCmd := &cobra.Command{
		Use:   "fit [data.csv]",
		Short: "fit a model to a csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(cmd, args[0], &ff)
		},
	}
	fitCmd.Flags().StringVar(&ff.configFile, "config", "", "config file path (yaml)")
	fitCmd.Flags().StringVarP(&ff.model, "model", "m", config.DefaultModel, "model name (see 'curvefit models')")
	fitCmd.Flags().StringVar(&ff.x, "x", config.DefaultXColumn, "x column name or index")
	fitCmd.Flags().StringVar(&ff.y, "y", config.DefaultYColumn, "y column name or index")
	fitCmd.Flags().StringVar(&ff.sigma, "sigma", "", "uncertainty column name or index")
	fitCmd.Flags().BoolVar(&ff.absolute, "absolute", false, "treat sigma as absolute standard deviations")
	fitCmd.Flags().IntVar(&ff.maxIter, "max-iter", solver.DefaultMaxIterations, "solver iteration limit")
	fitCmd.Flags().StringVar(&ff.plotPath, "plot", "", "write a figure (png, svg, pdf)")
	fitCmd.Flags().StringVar(&ff.jsonPath, "json", "", "write the fit record as json")
	fitCmd.Flags().BoolVar(&ff.ascii, "ascii", false, "draw data and fit in the terminal")
	fitCmd.Flags().StringVar(&ff.logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")

	showCmd := &cobra.Command{
		Use:   "show [fit.json]",
		Short: "print a saved fit record",
		Args:  cobra.ExactArgs(1),
		RunE:  showRecord,
	}

	rootCmd.AddCommand(modelsCmd, fitCmd, showCmd)
	return rootCmd
}

func listModels(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARAMS\tEQUATION")
	for _, m := range models.All() {
		fmt.Fprintf(w, "%s\t%d\ty = %s\n", m.Name(), m.NumParams(), m.Equation())
	}
	return w.Flush()
}

// loadConfig merges the config file (or defaults) with explicitly set flags.
func loadConfig(cmd *cobra.Command, ff *fitFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if ff.configFile != "" {
		loaded, err := config.Load(ff.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Model = ff.model
	}
	if flags.Changed("x") {
		cfg.Columns.X = ff.x
	}
	if flags.Changed("y") {
		cfg.Columns.Y = ff.y
	}
	if flags.Changed("sigma") {
		cfg.Columns.Sigma = ff.sigma
	}
	if flags.Changed("absolute") {
		cfg.AbsoluteSigma = ff.absolute
	}
	if flags.Changed("max-iter") {
		cfg.Solver.MaxIterations = ff.maxIter
	}
	if flags.Changed("plot") {
		cfg.Plot.Output = ff.plotPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = ff.logLevel
	}
	return cfg, cfg.Validate()
}

func runFit(cmd *cobra.Command, path string, ff *fitFlags) error {
	cfg, err := loadConfig(cmd, ff)
	if err != nil {
		return err
	}
	if err := log.SetupLogger(cfg.LogLevel); err != nil {
		return err
	}
	logger := log.GetLoggerWithName("cli")

	m, err := models.Lookup(cfg.Model)
	if err != nil {
		return err
	}

	data, err := dataset.ReadFile(path, dataset.Columns{
		X:     cfg.Columns.X,
		Y:     cfg.Columns.Y,
		Sigma: cfg.Columns.Sigma,
	})
	if err != nil {
		return err
	}
	logger.Info("Loaded data", "file", path, log.SamplesKey, data.Len())

	opts := []fit.Option{
		fit.WithSolver(solver.NewLevenbergMarquardt(cfg.SolverOptions()...)),
		fit.WithLogger(logger),
	}
	if data.Sigma != nil {
		if cfg.AbsoluteSigma {
			opts = append(opts, fit.WithStdevs(data.Sigma))
		} else {
			opts = append(opts, fit.WithWeights(data.Sigma))
		}
	}

	res, err := fit.Fit(m, data.X, data.Y, opts...)
	if err != nil {
		logger.Error("Fit failed", err)
		return err
	}

	rec := res.Record()
	rec.Metadata = map[string]string{"source": filepath.Base(path)}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderRecord(rec))
	if ff.ascii {
		fmt.Fprintln(out, asciiPlot(res))
	}

	if cfg.Plot.Output != "" {
		popts := []plot.Option{
			plot.WithSize(cfg.Plot.Width, cfg.Plot.Height),
			plot.WithLogAxes(cfg.Plot.LogX, cfg.Plot.LogY),
		}
		if cfg.Plot.Title != "" {
			popts = append(popts, plot.WithTitle(cfg.Plot.Title))
		}
		if err := plot.Save(res, cfg.Plot.Output, popts...); err != nil {
			return err
		}
		logger.Info("Wrote figure", "file", cfg.Plot.Output)
	}

	if ff.jsonPath != "" {
		if err := model.SaveRecord(rec, ff.jsonPath); err != nil {
			return err
		}
		logger.Info("Wrote fit record", "file", ff.jsonPath)
	}
	return nil
}

func showRecord(cmd *cobra.Command, args []string) error {
	rec, err := model.LoadRecord(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderRecord(rec))
	return nil
}
