// Package dataset reads x/y(/sigma) columns from delimited text files.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

// Columns selects the columns to read, by header name or 0-based index.
// Sigma is optional.
type Columns struct {
	X, Y, Sigma string
}

// Data holds the parsed columns. Sigma is nil when no sigma column was
// requested. Missing or unparsable cells are NaN.
type Data struct {
	Header []string
	X, Y   []float64
	Sigma  []float64
	// Invalid counts cells that could not be parsed.
	Invalid int
}

// ReadFile opens path and reads it with ReadCSV.
func ReadFile(path string, cols Columns) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return ReadCSV(f, cols)
}

// ReadCSV parses comma separated records. A first row that is not numeric is
// treated as a header. Without a header, columns named by something other
// than an index fall back to their position: X is 0, Y is 1, Sigma is 2.
// Lines starting with '#' are ignored.
//
// Empty cells and "nan" read as NaN. Other unparsable cells also read as NaN
// and are reported once through errors.Warn.
func ReadCSV(r io.Reader, cols Columns) (*Data, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	if len(records) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "read csv")
	}

	var header []string
	if !numericRow(records[0]) {
		header = records[0]
		records = records[1:]
	}

	xi, err := resolve(cols.X, header, 0)
	if err != nil {
		return nil, err
	}
	yi, err := resolve(cols.Y, header, 1)
	if err != nil {
		return nil, err
	}
	si := -1
	if cols.Sigma != "" {
		if si, err = resolve(cols.Sigma, header, 2); err != nil {
			return nil, err
		}
	}

	d := &Data{
		Header: header,
		X:      make([]float64, 0, len(records)),
		Y:      make([]float64, 0, len(records)),
	}
	if si >= 0 {
		d.Sigma = make([]float64, 0, len(records))
	}
	for _, rec := range records {
		d.X = append(d.X, d.cell(rec, xi))
		d.Y = append(d.Y, d.cell(rec, yi))
		if si >= 0 {
			d.Sigma = append(d.Sigma, d.cell(rec, si))
		}
	}

	if d.Invalid > 0 {
		errors.Warn(errors.NewDataConversionWarning("string", "float64",
			fmt.Sprintf("%d unparsable or missing cells read as NaN", d.Invalid)))
	}
	return d, nil
}

// Len returns the number of rows.
func (d *Data) Len() int { return len(d.X) }

func (d *Data) cell(rec []string, i int) float64 {
	if i >= len(rec) {
		d.Invalid++
		return math.NaN()
	}
	v, ok := parse(rec[i])
	if !ok {
		d.Invalid++
	}
	return v
}

// parse reads a numeric cell. Blank and "nan" cells are valid NaNs.
func parse(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return math.NaN(), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), false
	}
	return v, true
}

func numericRow(rec []string) bool {
	for _, cell := range rec {
		if _, ok := parse(cell); !ok {
			return false
		}
	}
	return true
}

func resolve(col string, header []string, position int) (int, error) {
	col = strings.TrimSpace(col)
	if i, err := strconv.Atoi(col); err == nil {
		if i < 0 {
			return 0, errors.NewValidationError("column", "index must not be negative", i)
		}
		return i, nil
	}
	if header == nil {
		return position, nil
	}
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), col) {
			return i, nil
		}
	}
	return 0, errors.NewValidationError("column", fmt.Sprintf("not found in header %v", header), col)
}
