// Package curvefit fits parametric curves such as straight lines, square
// roots, logarithms, exponentials and power laws to (x, y) data by weighted
// nonlinear least squares.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//
//	    "github.com/YuminosukeSato/curvefit/fit"
//	    "github.com/YuminosukeSato/curvefit/models"
//	)
//
//	func main() {
//	    x := []float64{1, 2, 3, 4, 5}
//	    y := []float64{5.1, 6.9, 9.2, 10.8, 13.1}
//
//	    res, err := fit.Fit(models.Linear, x, y)
//	    if err != nil {
//	        panic(err)
//	    }
//	    fmt.Println(res.EquationFitted()) // (1.990E+00)x + (3.050E+00)
//	    fmt.Println(res.ParamsString())   // m=1.99e+00, c=3.05e+00
//	    fmt.Println(res.ParamStdevs())
//	}
//
// # Uncertainties
//
// fit.WithWeights passes relative per-point uncertainties: only their ratios
// matter and the covariance is rescaled by the reduced chi-square.
// fit.WithStdevs passes absolute standard deviations and the covariance is
// reported on their scale. Supplying both is an error.
//
// # Packages
//
//   - models: model variants and the model registry
//   - fit: the fitting engine, Result and the stateful Curve
//   - solver: Levenberg–Marquardt least squares (maorshutman/lm) and covariance on gonum
//   - preprocessing: removal of non-finite rows
//   - metrics: R², RMSE, MAE, chi-square
//   - plot: figures with gonum/plot
//   - core/model: fit state and serializable fit records
//   - core/parallel: parallel processing utilities
//   - pkg/errors, pkg/log: error taxonomy and structured logging
//
// The curvefit command (cmd/curvefit) fits CSV files from the terminal.
package curvefit
