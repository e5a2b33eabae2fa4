package errors

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "Fit",
			kind:     "insufficient data",
			err:      fmt.Errorf("test error"),
			wantMsg:  "curvefit: Fit: insufficient data: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Y",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "curvefit: Y: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestModelErrorUnwrapsSentinel(t *testing.T) {
	err := NewModelError("Fit", "too few finite points", ErrInsufficientData)
	if !Is(err, ErrInsufficientData) {
		t.Error("Expected Is(err, ErrInsufficientData) to be true")
	}
	if Is(err, ErrSingularMatrix) {
		t.Error("Did not expect Is(err, ErrSingularMatrix)")
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("RemoveInvalid", 3, 2, 1)

	want := "curvefit: RemoveInvalid: length mismatch for array 1. Expected 3, got 2"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Fatal("Error should be castable to *DimensionError")
	}
	if dimErr.Index != 1 {
		t.Errorf("Index = %d, want 1", dimErr.Index)
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("Linear", "EquationFitted")

	want := "curvefit: Linear: this model is not fitted yet. Call Fit() before using EquationFitted()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("stdevs", "weights and stdevs are mutually exclusive", 10)

	want := "curvefit: validation failed for parameter 'stdevs': weights and stdevs are mutually exclusive (got: 10)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var valErr *ValidationError
	if !As(err, &valErr) {
		t.Error("Error should be castable to *ValidationError")
	}
}

func TestNewConvergenceError(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"with message", "damping exceeded limit", "curvefit: levenberg-marquardt failed to converge after 200 iterations: damping exceeded limit"},
		{"without message", "", "curvefit: levenberg-marquardt failed to converge after 200 iterations"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConvergenceError("levenberg-marquardt", 200, tt.message)
			if err.Error() != tt.want {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.want)
			}
			var convErr *ConvergenceError
			if !As(err, &convErr) {
				t.Error("Error should be castable to *ConvergenceError")
			}
		})
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("residuals", []float64{1, 2, 3}, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := CheckNumericalStability("residuals", []float64{1, math.NaN(), math.Inf(1)}, 4)
	var numErr *NumericalInstabilityError
	if !As(err, &numErr) {
		t.Fatalf("expected NumericalInstabilityError, got %v", err)
	}
	if len(numErr.Values) != 2 {
		t.Errorf("expected 2 offending values, got %d", len(numErr.Values))
	}
	if numErr.Iteration != 4 {
		t.Errorf("Iteration = %d, want 4", numErr.Iteration)
	}
}

func TestWarnHandlerMayReenter(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) {
		got = append(got, w)
		if len(got) == 1 {
			Warn(NewDataConversionWarning("string", "float64", "unparsable cell"))
			SetWarningHandler(func(error) {})
		}
	})
	defer SetWarningHandler(nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		Warn(NewCovarianceWarning("Linear", 2, 2))
		Warn(NewCovarianceWarning("Linear", 2, 2))
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Warn deadlocked when the handler called back into the package")
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 warnings before the handler was replaced, got %d", len(got))
	}
}

func TestWarnRouting(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(nil)

	Warn(NewCovarianceWarning("Linear", 2, 2))
	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(got))
	}

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	SetZerologWarnFunc(func(w error) {
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			logger.Warn().EmbedObject(m).Msg(w.Error())
		}
	})
	defer SetZerologWarnFunc(nil)

	Warn(NewCovarianceWarning("Linear", 2, 2))
	if len(got) != 1 {
		t.Error("zerolog hook should take precedence over the handler")
	}
	if !strings.Contains(buf.String(), `"type":"CovarianceWarning"`) {
		t.Errorf("expected structured warning, got %s", buf.String())
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d, got %d", "Fit", 10, 5)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	expectedMsg := "in Fit: expected 10, got 5"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}
