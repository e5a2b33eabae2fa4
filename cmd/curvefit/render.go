package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/YuminosukeSato/curvefit/core/model"
	"github.com/YuminosukeSato/curvefit/fit"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	paramStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

// renderRecord draws a boxed summary of a fit.
func renderRecord(rec *model.FitRecord) string {
	lines := []string{titleStyle.Render(rec.Model)}
	if rec.Equation != "" {
		lines = append(lines, row("equation", "y = "+rec.Equation))
	}
	if src := rec.Metadata["source"]; src != "" {
		lines = append(lines, row("source", src))
	}
	lines = append(lines, row("samples", fmt.Sprintf("%d (%d dropped)", rec.Samples, rec.Dropped)))

	sigma := "relative"
	if rec.AbsoluteSigma {
		sigma = "absolute"
	}
	lines = append(lines, row("sigma", sigma), "")

	for i, name := range rec.ParamNames {
		stdev := ""
		if i < len(rec.Stdevs) {
			stdev = fmt.Sprintf(" ± %.2e", float64(rec.Stdevs[i]))
		}
		lines = append(lines, row(name, paramStyle.Render(fmt.Sprintf("%.6e", float64(rec.Params[i])))+stdev))
	}

	lines = append(lines, "",
		row("R²", fmt.Sprintf("%.6f", float64(rec.RSquared))),
		row("χ²/dof", fmt.Sprintf("%.4g", float64(rec.ReducedChiSquare))),
		row("solver", fmt.Sprintf("%s, %d iterations", rec.Status, rec.Iterations)),
	)
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// asciiPlot draws the data (blue) and the fitted curve (red) ordered by x.
func asciiPlot(res *fit.Result) string {
	x, y, _ := res.Points()
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	data := make([]float64, len(idx))
	fitted := make([]float64, len(idx))
	for i, j := range idx {
		data[i] = y[j]
		fitted[i] = res.Y(x[j])
	}

	return asciigraph.PlotMany([][]float64{data, fitted},
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption(fmt.Sprintf("%s: data (blue) vs fit (red)", res.Model().Name())),
	)
}
