package fit_test

import (
	"fmt"

	"github.com/YuminosukeSato/curvefit/fit"
	"github.com/YuminosukeSato/curvefit/models"
)

func ExampleFit() {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{5, 7, 9, 11, 13}

	res, err := fit.Fit(models.Linear, x, y)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.EquationFitted())
	fmt.Println(res.ParamsString())
	fmt.Printf("%.1f\n", res.Y(10))
	// Output:
	// (2.000E+00)x + (3.000E+00)
	// m=2.00e+00, c=3.00e+00
	// 23.0
}

func ExampleNewCurve() {
	c := fit.NewCurve(models.Log10Log10)

	if _, err := c.Y(1); err != nil {
		fmt.Println("not fitted")
	}

	// y = 100·x²
	x := []float64{1, 2, 3, 4}
	y := []float64{100, 400, 900, 1600}
	if err := c.Fit(x, y); err != nil {
		fmt.Println(err)
		return
	}
	eq, _ := c.EquationFitted()
	fmt.Println(eq)
	// Output:
	// not fitted
	// 10^(2.000E+00) x^(2.000E+00)
}
