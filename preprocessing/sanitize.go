package preprocessing

import (
	"github.com/YuminosukeSato/curvefit/core/parallel"
	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

// parallelThreshold 以下の長さでは逐次処理でマスクを計算する
const parallelThreshold = 1 << 14

// RemoveInvalid は並列配列から、全ての配列で有限値を持つ行だけを残す。
//
// 各配列の同じインデックスを 1 行とみなし、どれか 1 つでも NaN または ±Inf
// を含む行を除外する。元の順序は保たれ、入力配列は変更されない。
//
// パラメータ:
//   - arrays: 同じ長さの数値配列 (1 つ以上)
//
// 戻り値:
//   - [][]float64: 入力と同じ個数の、フィルタ済み配列
//   - error: 配列が 0 個の場合は ValueError、長さが異なる場合は DimensionError
//
// 使用例:
//
//	out, err := preprocessing.RemoveInvalid(x, y)
//	// out[0], out[1] は有限値の行だけを含む
func RemoveInvalid(arrays ...[]float64) ([][]float64, error) {
	if err := checkArrays("RemoveInvalid", arrays); err != nil {
		return nil, err
	}

	mask := finiteMask(arrays)

	kept := 0
	for _, ok := range mask {
		if ok {
			kept++
		}
	}

	out := make([][]float64, len(arrays))
	for j, a := range arrays {
		filtered := make([]float64, 0, kept)
		for i, v := range a {
			if mask[i] {
				filtered = append(filtered, v)
			}
		}
		out[j] = filtered
	}
	return out, nil
}

// FiniteMask は各行が全ての配列で有限かどうかを返す。
// 配列の個数と長さは RemoveInvalid と同じ規則で検証する。
func FiniteMask(arrays ...[]float64) ([]bool, error) {
	if err := checkArrays("FiniteMask", arrays); err != nil {
		return nil, err
	}
	return finiteMask(arrays), nil
}

// CountInvalid は RemoveInvalid で除外される行数を返す。
func CountInvalid(arrays ...[]float64) (int, error) {
	if err := checkArrays("CountInvalid", arrays); err != nil {
		return 0, err
	}
	dropped := 0
	for _, ok := range finiteMask(arrays) {
		if !ok {
			dropped++
		}
	}
	return dropped, nil
}

func checkArrays(op string, arrays [][]float64) error {
	if len(arrays) == 0 {
		return errors.NewValueError(op, "at least one array is required")
	}
	n := len(arrays[0])
	for i, a := range arrays[1:] {
		if len(a) != n {
			return errors.NewDimensionError(op, n, len(a), i+1)
		}
	}
	return nil
}

// finiteMask は長さの揃った配列を前提とする
func finiteMask(arrays [][]float64) []bool {
	n := len(arrays[0])
	mask := make([]bool, n)

	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			ok := true
			for _, a := range arrays {
				if !errors.IsFinite(a[i]) {
					ok = false
					break
				}
			}
			mask[i] = ok
		}
	})
	return mask
}
