// Package metrics は曲線フィットの当てはまりを評価する指標を提供する。
//
// 観測値と予測値は gonum の *mat.VecDense で受け取り、長さが異なる場合は
// DimensionError、空の場合は ValueError を返す。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

// residuals は yTrue - yPred を返す
func residuals(op string, yTrue, yPred *mat.VecDense) ([]float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return nil, errors.NewDimensionError(op, n, yPred.Len(), 1)
	}
	diff := mat.NewVecDense(n, nil)
	diff.SubVec(yTrue, yPred)
	return diff.RawVector().Data, nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	r, err := residuals("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Dot(r, r) / float64(len(r)), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	r, err := residuals("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Norm(r, 1) / float64(len(r)), nil
}

// R2Score は決定係数（R²）を計算する。
// yTrue が定数の場合は全変動が 0 になるためエラーを返す。
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	r, err := residuals("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	obs := yTrue.RawVector().Data
	if yTrue.RawVector().Inc != 1 {
		obs = mat.Col(nil, 0, yTrue)
	}
	mean := floats.Sum(obs) / float64(len(obs))

	var tss float64
	for _, v := range obs {
		tss += (v - mean) * (v - mean)
	}
	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}

	// R² = 1 - RSS/TSS
	return 1 - floats.Dot(r, r)/tss, nil
}

// ChiSquare は Σ((yTrue - yPred)/σ)² を計算する。sigma が nil の場合は σ = 1。
func ChiSquare(yTrue, yPred *mat.VecDense, sigma []float64) (float64, error) {
	r, err := residuals("ChiSquare", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if sigma == nil {
		return floats.Dot(r, r), nil
	}
	if len(sigma) != len(r) {
		return 0, errors.NewDimensionError("ChiSquare", len(r), len(sigma), 2)
	}
	var chi2 float64
	for i, v := range r {
		z := v / sigma[i]
		chi2 += z * z
	}
	return chi2, nil
}

// ReducedChiSquare は χ² を自由度で割った値を返す。自由度が 0 以下なら +Inf。
func ReducedChiSquare(chi2 float64, dof int) float64 {
	if dof <= 0 {
		return math.Inf(1)
	}
	return chi2 / float64(dof)
}
