package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func vec(v ...float64) *mat.VecDense {
	return mat.NewVecDense(len(v), v)
}

func TestMSE(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   *mat.VecDense
		yPred   *mat.VecDense
		want    float64
		wantErr bool
	}{
		{
			name:  "perfect prediction",
			yTrue: vec(1, 2, 3, 4, 5),
			yPred: vec(1, 2, 3, 4, 5),
			want:  0,
		},
		{
			name:  "simple case",
			yTrue: vec(1, 2, 3, 4),
			yPred: vec(1.5, 2.5, 2.5, 3.5),
			want:  0.25,
		},
		{
			name:  "larger errors",
			yTrue: vec(10, 20, 30),
			yPred: vec(12, 18, 33),
			want:  17.0 / 3.0,
		},
		{
			name:    "dimension mismatch",
			yTrue:   vec(1, 2, 3),
			yPred:   vec(1, 2),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MSE() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("MSE() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRMSEAndMAE(t *testing.T) {
	yTrue := vec(10, 20, 30)
	yPred := vec(12, 18, 33)

	rmse, err := RMSE(yTrue, yPred)
	if err != nil {
		t.Fatalf("RMSE() error = %v", err)
	}
	if want := math.Sqrt(17.0 / 3.0); math.Abs(rmse-want) > 1e-10 {
		t.Errorf("RMSE() = %v, want %v", rmse, want)
	}

	mae, err := MAE(yTrue, yPred)
	if err != nil {
		t.Fatalf("MAE() error = %v", err)
	}
	if want := 7.0 / 3.0; math.Abs(mae-want) > 1e-10 {
		t.Errorf("MAE() = %v, want %v", mae, want)
	}
}

func TestR2Score(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   *mat.VecDense
		yPred   *mat.VecDense
		want    float64
		wantErr bool
	}{
		{
			name:  "perfect fit",
			yTrue: vec(1, 2, 3, 4),
			yPred: vec(1, 2, 3, 4),
			want:  1,
		},
		{
			name:  "mean prediction",
			yTrue: vec(1, 2, 3, 4),
			yPred: vec(2.5, 2.5, 2.5, 2.5),
			want:  0,
		},
		{
			// RSS = 0.25·4 = 1, TSS = 5
			name:  "partial fit",
			yTrue: vec(1, 2, 3, 4),
			yPred: vec(1.5, 2.5, 2.5, 3.5),
			want:  0.8,
		},
		{
			name:    "constant target",
			yTrue:   vec(3, 3, 3),
			yPred:   vec(3, 3, 3),
			wantErr: true,
		},
		{
			name:    "empty",
			yTrue:   &mat.VecDense{},
			yPred:   &mat.VecDense{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := R2Score(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("R2Score() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("R2Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChiSquare(t *testing.T) {
	yTrue := vec(1, 2, 3)
	yPred := vec(1.5, 2, 2)

	chi2, err := ChiSquare(yTrue, yPred, nil)
	if err != nil {
		t.Fatalf("ChiSquare() error = %v", err)
	}
	if math.Abs(chi2-1.25) > 1e-12 {
		t.Errorf("ChiSquare() = %v, want 1.25", chi2)
	}

	chi2, err = ChiSquare(yTrue, yPred, []float64{0.5, 1, 2})
	if err != nil {
		t.Fatalf("ChiSquare() error = %v", err)
	}
	if math.Abs(chi2-1.25) > 1e-12 {
		t.Errorf("weighted ChiSquare() = %v, want 1.25", chi2)
	}

	if _, err := ChiSquare(yTrue, yPred, []float64{1}); err == nil {
		t.Error("expected error for sigma length mismatch")
	}

	if got := ReducedChiSquare(6, 3); got != 2 {
		t.Errorf("ReducedChiSquare() = %v, want 2", got)
	}
	if got := ReducedChiSquare(6, 0); !math.IsInf(got, 1) {
		t.Errorf("ReducedChiSquare() with no dof = %v, want +Inf", got)
	}
}
