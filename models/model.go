// Package models describes the parametric curve families that can be fitted.
//
// A Model is an immutable value: a name, ordered parameter names, an
// equation template and the function itself. Models carry no fit state;
// fitting a Model produces a separate fit.Result.
//
// Templates mark parameters with braces, e.g. "{m}x + {c}". Rendering
// replaces every placeholder in one pass, so parameter names that are
// substrings of each other never interfere.
package models

import (
	"strconv"
	"strings"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

// Func evaluates a model at x for parameter vector p.
type Func func(x float64, p []float64) float64

// GradFunc writes ∂f/∂p_i at x into dst, len(dst) == len(p).
type GradFunc func(dst []float64, x float64, p []float64)

// Model is a named parametric function family.
type Model struct {
	name       string
	paramNames []string
	numParams  int
	template   string
	fn         Func
	grad       GradFunc
}

// Option configures a Model built with New.
type Option func(*Model)

// WithParamNames sets the ordered parameter names. Their count fixes the
// number of parameters.
func WithParamNames(names ...string) Option {
	return func(m *Model) {
		m.paramNames = append([]string(nil), names...)
		m.numParams = len(names)
	}
}

// WithNumParams sets the parameter count for models without names.
// Parameters are then called "0", "1", ...
func WithNumParams(n int) Option {
	return func(m *Model) {
		if len(m.paramNames) == 0 {
			m.numParams = n
		}
	}
}

// WithTemplate sets the equation template, e.g. "{m}x + {c}".
func WithTemplate(template string) Option {
	return func(m *Model) {
		m.template = template
	}
}

// WithGradient supplies analytic partial derivatives. Without it the solver
// differentiates numerically.
func WithGradient(g GradFunc) Option {
	return func(m *Model) {
		m.grad = g
	}
}

// New builds a Model. The parameter count must be set with WithParamNames or
// WithNumParams.
func New(name string, fn Func, opts ...Option) (Model, error) {
	m := Model{name: name, fn: fn}
	for _, opt := range opts {
		opt(&m)
	}
	if fn == nil {
		return Model{}, errors.NewValueError("models.New", "model function is nil")
	}
	if m.numParams <= 0 {
		return Model{}, errors.NewValidationError("num_params", "model needs at least one parameter", m.numParams)
	}
	return m, nil
}

// MustNew is like New but panics on error. It is meant for package-level
// model declarations.
func MustNew(name string, fn Func, opts ...Option) Model {
	m, err := New(name, fn, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Name returns the model identifier.
func (m Model) Name() string { return m.name }

// NumParams returns the number of fit parameters.
func (m Model) NumParams() int { return m.numParams }

// Template returns the raw equation template with placeholders.
func (m Model) Template() string { return m.template }

// HasGradient reports whether analytic derivatives are available.
func (m Model) HasGradient() bool { return m.grad != nil }

// Valid reports whether m was built by New (the zero Model is invalid).
func (m Model) Valid() bool { return m.fn != nil && m.numParams > 0 }

// ParamNames returns the declared parameter names, or "0".."k-1" when the
// model was built without names.
func (m Model) ParamNames() []string {
	if len(m.paramNames) > 0 {
		return append([]string(nil), m.paramNames...)
	}
	names := make([]string, m.numParams)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	return names
}

// Eval evaluates the model at x.
func (m Model) Eval(x float64, p []float64) float64 {
	return m.fn(x, p)
}

// Gradient writes the partial derivatives at x into dst. It is a no-op for
// models without an analytic gradient; check HasGradient first.
func (m Model) Gradient(dst []float64, x float64, p []float64) {
	if m.grad != nil {
		m.grad(dst, x, p)
	}
}

// Func returns the model function.
func (m Model) Func() Func { return m.fn }

// Grad returns the analytic gradient or nil.
func (m Model) Grad() GradFunc { return m.grad }

// Equation renders the template with bare parameter names, e.g. "mx + c".
func (m Model) Equation() string {
	names := m.ParamNames()
	return m.render(func(i int) string { return names[i] })
}

// Render substitutes each placeholder with format(i), where i is the index
// of the parameter. Unknown placeholders are left untouched.
func (m Model) Render(format func(i int) string) string {
	return m.render(format)
}

func (m Model) render(format func(i int) string) string {
	if m.template == "" {
		return ""
	}
	names := m.ParamNames()
	pairs := make([]string, 0, 2*len(names))
	for i, name := range names {
		pairs = append(pairs, "{"+name+"}", format(i))
	}
	return strings.NewReplacer(pairs...).Replace(m.template)
}

// String implements fmt.Stringer.
func (m Model) String() string {
	if eq := m.Equation(); eq != "" {
		return m.name + ": y = " + eq
	}
	return m.name
}
