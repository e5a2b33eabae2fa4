// Package plot draws a fitted curve over its data with gonum/plot.
package plot

import (
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strings"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/curvefit/fit"
	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

const (
	defaultWidth   = 6 * vg.Inch
	defaultHeight  = 4 * vg.Inch
	defaultSamples = 200
)

// Option configures a rendered figure.
type Option func(*settings)

type settings struct {
	title      string
	xLabel     string
	yLabel     string
	width      vg.Length
	height     vg.Length
	samples    int
	logX, logY bool
	errorBars  bool
}

// WithTitle sets the figure title. The default is the fitted equation.
func WithTitle(title string) Option {
	return func(s *settings) { s.title = title }
}

// WithLabels sets the axis labels.
func WithLabels(x, y string) Option {
	return func(s *settings) {
		s.xLabel = x
		s.yLabel = y
	}
}

// WithSize sets the figure size in inches.
func WithSize(width, height float64) Option {
	return func(s *settings) {
		s.width = vg.Length(width) * vg.Inch
		s.height = vg.Length(height) * vg.Inch
	}
}

// WithSamples sets how many points the fitted curve is sampled at.
func WithSamples(n int) Option {
	return func(s *settings) { s.samples = n }
}

// WithLogAxes switches axes to a base-10 log scale. Ignored for an axis
// whose data is not strictly positive.
func WithLogAxes(x, y bool) Option {
	return func(s *settings) {
		s.logX = x
		s.logY = y
	}
}

// WithErrorBars draws ±σ bars when the fit had uncertainties.
func WithErrorBars(on bool) Option {
	return func(s *settings) { s.errorBars = on }
}

func newSettings(res *fit.Result, opts []Option) *settings {
	s := &settings{
		title:     "y = " + res.EquationFitted(),
		xLabel:    "x",
		yLabel:    "y",
		width:     defaultWidth,
		height:    defaultHeight,
		samples:   defaultSamples,
		errorBars: true,
	}
	if s.title == "y = " {
		s.title = res.Model().Name()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// errorPoints pairs data points with symmetric y errors for plotter.YErrorBars.
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

// Render builds a figure with the fitted rows as a scatter, the fitted
// curve over their x range and, when available, error bars.
func Render(res *fit.Result, opts ...Option) (*gplot.Plot, error) {
	if res == nil {
		return nil, errors.NewValueError("plot.Render", "result is nil")
	}
	s := newSettings(res, opts)

	x, y, sigma := res.Points()
	if len(x) == 0 {
		return nil, errors.NewValueError("plot.Render", "no points to draw")
	}

	p := gplot.New()
	p.Title.Text = s.title
	p.X.Label.Text = s.xLabel
	p.Y.Label.Text = s.yLabel
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "plot.Render: scatter")
	}
	scatter.GlyphStyle.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(scatter)
	p.Legend.Add("data", scatter)

	if s.errorBars && sigma != nil {
		errs := make(plotter.YErrors, len(sigma))
		for i, v := range sigma {
			errs[i].Low = v
			errs[i].High = v
		}
		bars, err := plotter.NewYErrorBars(errorPoints{XYs: pts, YErrors: errs})
		if err != nil {
			return nil, errors.Wrap(err, "plot.Render: error bars")
		}
		p.Add(bars)
	}

	xmin, xmax := bounds(x)
	curve := plotter.NewFunction(res.Y)
	curve.XMin, curve.XMax = xmin, xmax
	curve.Samples = s.samples
	curve.Color = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	curve.Width = vg.Points(1.5)
	p.Add(curve)
	p.Legend.Add(res.Model().Name(), curve)
	p.Legend.Top = true

	if s.logX && positive(x) {
		p.X.Scale = gplot.LogScale{}
		p.X.Tick.Marker = gplot.LogTicks{}
	}
	if s.logY && positive(y) && positive(res.Predict([]float64{xmin, xmax})) {
		p.Y.Scale = gplot.LogScale{}
		p.Y.Tick.Marker = gplot.LogTicks{}
	}

	return p, nil
}

// Save renders the figure to path. The format follows the file extension
// (png, svg, pdf, eps, jpg, tif).
func Save(res *fit.Result, path string, opts ...Option) error {
	p, err := Render(res, opts...)
	if err != nil {
		return err
	}
	s := newSettings(res, opts)
	if err := p.Save(s.width, s.height, path); err != nil {
		return errors.Wrapf(err, "plot.Save: %s", filepath.Base(path))
	}
	return nil
}

// WriteTo renders the figure in format ("png", "svg", ...) and writes it to w.
func WriteTo(res *fit.Result, w io.Writer, format string, opts ...Option) error {
	p, err := Render(res, opts...)
	if err != nil {
		return err
	}
	s := newSettings(res, opts)
	wt, err := p.WriterTo(s.width, s.height, strings.ToLower(format))
	if err != nil {
		return errors.Wrapf(err, "plot.WriteTo: format %q", format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "plot.WriteTo")
	}
	return nil
}

func bounds(v []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range v {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	return lo, hi
}

func positive(v []float64) bool {
	for _, x := range v {
		if !(x > 0) {
			return false
		}
	}
	return true
}
