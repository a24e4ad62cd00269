package telemetry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPlotWindows(t *testing.T) {
	windows := []WindowStats{
		{WindowEndTick: 100, Population: 20, FoodCount: 40, FoodTarget: 40, FitnessMax: 1, FitnessAvg: 0.5},
		{WindowEndTick: 200, Population: 24, FoodCount: 32, FoodTarget: 32, FitnessMax: 3, FitnessAvg: 1.2},
		{WindowEndTick: 300, Population: 18, FoodCount: 44, FoodTarget: 44, FitnessMax: 4, FitnessAvg: 2},
	}

	path := filepath.Join(t.TempDir(), "fitness.png")
	if err := PlotWindows(windows, "Fitness", "Satiation", FitnessSeries, path); err != nil {
		t.Fatalf("PlotWindows: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("plot not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("plot is empty")
	}
}

func TestPlotWindowsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	if err := PlotWindows(nil, "Fitness", "Satiation", FitnessSeries, path); err == nil {
		t.Error("expected error for no windows")
	}
}

func TestOutputManager_WritePlots(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	windows := []WindowStats{{WindowEndTick: 10, Population: 3}, {WindowEndTick: 20, Population: 5}}
	if err := om.WritePlots(windows); err != nil {
		t.Fatalf("WritePlots: %v", err)
	}
	for _, name := range []string{"fitness.png", "population.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}
