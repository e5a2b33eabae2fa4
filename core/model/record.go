package model

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

// RecordVersion は FitRecord の形式バージョン（互換性チェック用）
const RecordVersion = "1"

// Number は JSON で NaN と ±Inf を表現できる float64。
// 有限値は数値、それ以外は "NaN", "+Inf", "-Inf" の文字列として書き出す。
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	case math.IsInf(f, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f, perr := strconv.ParseFloat(s, 64)
		if perr != nil {
			return errors.NewValidationError("number", "not a float", s)
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return errors.Wrap(err, "decode number")
	}
	*n = Number(f)
	return nil
}

// Numbers は []float64 を []Number に変換する
func Numbers(v []float64) []Number {
	if v == nil {
		return nil
	}
	out := make([]Number, len(v))
	for i, f := range v {
		out[i] = Number(f)
	}
	return out
}

// Floats は []Number を []float64 に変換する
func Floats(v []Number) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}

// FitRecord はフィット結果を表す構造体（シリアライゼーション用）
type FitRecord struct {
	// Model はモデル名（Linear, Log10Log10 等）
	Model string `json:"model"`

	// Version は形式のバージョン
	Version string `json:"version"`

	// Equation はパラメータを代入した式
	Equation string `json:"equation,omitempty"`

	ParamNames []string   `json:"param_names"`
	Params     []Number   `json:"params"`
	Stdevs     []Number   `json:"stdevs"`
	Covariance [][]Number `json:"covariance,omitempty"`

	// AbsoluteSigma は σ を絶対値として扱ったかどうか
	AbsoluteSigma bool `json:"absolute_sigma"`

	Samples int `json:"samples"`
	Dropped int `json:"dropped"`
	DoF     int `json:"dof"`

	RSS              Number `json:"rss"`
	RSquared         Number `json:"r_squared"`
	ReducedChiSquare Number `json:"reduced_chi_square"`

	Iterations int    `json:"iterations"`
	Status     string `json:"status"`

	// Metadata は追加情報（入力ファイル名等）
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ToJSON はFitRecordをJSON形式にシリアライズ
func (r *FitRecord) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FromJSON はJSON形式からFitRecordをデシリアライズ
func (r *FitRecord) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, r); err != nil {
		return errors.Wrap(err, "decode fit record")
	}
	return nil
}

// Validate はFitRecordの妥当性を検証
func (r *FitRecord) Validate() error {
	if r.Model == "" {
		return errors.NewValidationError("model", "is required", r.Model)
	}
	if r.Version == "" {
		return errors.NewValidationError("version", "is required", r.Version)
	}
	if len(r.Params) == 0 {
		return errors.NewValidationError("params", "fitted record must have parameters", len(r.Params))
	}
	if len(r.ParamNames) != len(r.Params) {
		return errors.NewDimensionError("FitRecord.Validate", len(r.Params), len(r.ParamNames), 0)
	}
	if r.Stdevs != nil && len(r.Stdevs) != len(r.Params) {
		return errors.NewDimensionError("FitRecord.Validate", len(r.Params), len(r.Stdevs), 1)
	}
	return nil
}
