package telemetry

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is one named line of a window chart.
type Series struct {
	Name  string
	Value func(WindowStats) float64
}

// FitnessSeries are the lines of the fitness chart.
var FitnessSeries = []Series{
	{"max", func(s WindowStats) float64 { return s.FitnessMax }},
	{"avg", func(s WindowStats) float64 { return s.FitnessAvg }},
}

// PopulationSeries are the lines of the population chart.
var PopulationSeries = []Series{
	{"population", func(s WindowStats) float64 { return float64(s.Population) }},
	{"food", func(s WindowStats) float64 { return float64(s.FoodCount) }},
	{"food target", func(s WindowStats) float64 { return float64(s.FoodTarget) }},
}

// PlotWindows charts series over window end ticks and saves the image to
// outPath. The format follows the file extension.
func PlotWindows(windows []WindowStats, title, yLabel string, series []Series, outPath string) error {
	if len(windows) == 0 {
		return errors.New("plot: no windows")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Tick"
	p.Y.Label.Text = yLabel

	for i, s := range series {
		pts := make(plotter.XYs, len(windows))
		for j, w := range windows {
			pts[j].X = float64(w.WindowEndTick)
			pts[j].Y = s.Value(w)
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("plot %s: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)

		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	p.Legend.Top = true
	p.Legend.Left = true

	return p.Save(6*vg.Inch, 4*vg.Inch, outPath)
}
