package fit

import (
	"sync"

	"github.com/YuminosukeSato/curvefit/core/model"
	"github.com/YuminosukeSato/curvefit/models"
	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

var _ model.FittedCurve = (*Curve)(nil)

// Curve is a model that is fitted in place. It is safe for concurrent use;
// when Fit runs concurrently the last successful call wins.
type Curve struct {
	model models.Model
	opts  []Option
	state *model.StateManager

	// mu keeps result consistent with state.
	mu     sync.RWMutex
	result *Result
}

// NewCurve returns an unfitted Curve for m. opts apply to every Fit call and
// may be extended per call.
func NewCurve(m models.Model, opts ...Option) *Curve {
	return &Curve{
		model: m,
		opts:  opts,
		state: model.NewStateManager(),
	}
}

// Model returns the curve's model.
func (c *Curve) Model() models.Model { return c.model }

// Fit fits the curve to (x, y). A failed fit leaves any previous fit intact.
func (c *Curve) Fit(x, y []float64, opts ...Option) (err error) {
	defer errors.Recover(&err, "Curve.Fit")

	all := make([]Option, 0, len(c.opts)+len(opts))
	all = append(append(all, c.opts...), opts...)

	res, err := Fit(c.model, x, y, all...)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = res
	c.state.SetFitted(len(res.x), res.dropped)
	return nil
}

// IsFitted reports whether Fit has succeeded at least once since the last Reset.
func (c *Curve) IsFitted() bool { return c.state.IsFitted() }

// Reset discards the fit.
func (c *Curve) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = nil
	c.state.Reset()
}

// Dimensions returns the rows used by the last fit and the rows dropped as
// non-finite. Both are zero before a fit.
func (c *Curve) Dimensions() (samples, dropped int) {
	return c.state.GetDimensions()
}

// Result returns the current fit.
func (c *Curve) Result() (*Result, error) {
	return c.current("Result")
}

func (c *Curve) current(method string) (*Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.state.RequireFitted(c.model.Name(), method); err != nil {
		return nil, err
	}
	return c.result, nil
}

// ParamNames returns the model's parameter names. It does not require a fit.
func (c *Curve) ParamNames() []string { return c.model.ParamNames() }

// ParamStdevs returns the standard errors of the fitted parameters.
func (c *Curve) ParamStdevs() ([]float64, error) {
	res, err := c.current("ParamStdevs")
	if err != nil {
		return nil, err
	}
	return res.ParamStdevs(), nil
}

// Params returns the fitted parameters.
func (c *Curve) Params() ([]float64, error) {
	res, err := c.current("Params")
	if err != nil {
		return nil, err
	}
	return res.Params(), nil
}

// Y evaluates the fitted curve at x.
func (c *Curve) Y(x float64) (float64, error) {
	res, err := c.current("Y")
	if err != nil {
		return 0, err
	}
	return res.Y(x), nil
}

// Predict evaluates the fitted curve at every x.
func (c *Curve) Predict(xs []float64) ([]float64, error) {
	res, err := c.current("Predict")
	if err != nil {
		return nil, err
	}
	return res.Predict(xs), nil
}

// ParamsString formats the fitted parameters.
func (c *Curve) ParamsString() (string, error) {
	res, err := c.current("ParamsString")
	if err != nil {
		return "", err
	}
	return res.ParamsString(), nil
}

// EquationFitted renders the equation with fitted values.
func (c *Curve) EquationFitted() (string, error) {
	res, err := c.current("EquationFitted")
	if err != nil {
		return "", err
	}
	return res.EquationFitted(), nil
}

// Record exports the current fit.
func (c *Curve) Record() (*model.FitRecord, error) {
	res, err := c.current("Record")
	if err != nil {
		return nil, err
	}
	return res.Record(), nil
}
