package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

func TestReadCSVWithHeader(t *testing.T) {
	in := `# calibration run
t, signal, err
1, 2.5, 0.1
2, 4.5, 0.2
3, 6.5, 0.1
`
	d, err := ReadCSV(strings.NewReader(in), Columns{X: "t", Y: "Signal", Sigma: "err"})
	require.NoError(t, err)

	assert.Equal(t, []string{"t", "signal", "err"}, d.Header)
	assert.Equal(t, []float64{1, 2, 3}, d.X)
	assert.Equal(t, []float64{2.5, 4.5, 6.5}, d.Y)
	assert.Equal(t, []float64{0.1, 0.2, 0.1}, d.Sigma)
	assert.Equal(t, 3, d.Len())
	assert.Zero(t, d.Invalid)
}

func TestReadCSVHeaderless(t *testing.T) {
	in := "0.5,1,9\n1.5,3,8\n"

	d, err := ReadCSV(strings.NewReader(in), Columns{X: "x", Y: "y"})
	require.NoError(t, err)
	assert.Nil(t, d.Header)
	assert.Equal(t, []float64{0.5, 1.5}, d.X)
	assert.Equal(t, []float64{1, 3}, d.Y)
	assert.Nil(t, d.Sigma)

	d, err = ReadCSV(strings.NewReader(in), Columns{X: "2", Y: "0"})
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 8}, d.X)
	assert.Equal(t, []float64{0.5, 1.5}, d.Y)
}

func TestReadCSVMissingValues(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(error) {})

	in := "x,y\n1,2\n2,\n3,NaN\n4,oops\n5\n"
	d, err := ReadCSV(strings.NewReader(in), Columns{X: "x", Y: "y"})
	require.NoError(t, err)

	require.Len(t, d.Y, 5)
	assert.Equal(t, 2.0, d.Y[0])
	for _, v := range d.Y[1:] {
		assert.True(t, math.IsNaN(v))
	}
	assert.Equal(t, 2, d.Invalid)

	require.Len(t, warnings, 1)
	var dcw *errors.DataConversionWarning
	require.True(t, errors.As(warnings[0], &dcw))
	assert.Contains(t, dcw.Reason, "2 unparsable")
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		cols Columns
	}{
		{"empty input", "", Columns{X: "x", Y: "y"}},
		{"unknown column", "a,b\n1,2\n", Columns{X: "a", Y: "c"}},
		{"negative index", "1,2\n", Columns{X: "-1", Y: "1"}},
		{"bad quoting", "x,y\n\"1,2\n", Columns{X: "x", Y: "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in), tt.cols)
			assert.Error(t, err)
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n1,2\n"), 0644))

	d, err := ReadFile(path, Columns{X: "x", Y: "y"})
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())

	_, err = ReadFile(filepath.Join(t.TempDir(), "nope.csv"), Columns{X: "x", Y: "y"})
	assert.Error(t, err)
}
