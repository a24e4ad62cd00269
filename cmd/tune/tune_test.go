package main

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/forage/config"
	"github.com/pthm-cable/forage/runner"
)

func TestParamVectorDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Default())
	for i, spec := range pv.Specs {
		if math.Abs(got[i]-spec.Default) > 1e-6*math.Max(1, spec.Default) {
			t.Errorf("%s: config default %v, spec default %v", spec.Name, got[i], spec.Default)
		}
		if spec.Default < spec.Min || spec.Default > spec.Max {
			t.Errorf("%s: default %v outside [%v, %v]", spec.Name, spec.Default, spec.Min, spec.Max)
		}
	}
}

func TestParamVectorNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestParamVectorApplyClamps(t *testing.T) {
	pv := NewParamVector()
	values := make([]float64, pv.Dim())
	for i, spec := range pv.Specs {
		values[i] = spec.Max * 10
	}

	cfg := config.Default()
	pv.ApplyToConfig(cfg, values)

	got := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if math.Abs(got[i]-spec.Max) > 1e-5*spec.Max {
			t.Errorf("%s = %v, want clamp to %v", spec.Name, got[i], spec.Max)
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("clamped config invalid: %v", err)
	}
}

func TestRunFitness(t *testing.T) {
	tests := []struct {
		name string
		res  runner.Result
		want float64
	}{
		{"nothing", runner.Result{}, 0},
		{"survival only", runner.Result{Ticks: 1000}, -1000},
		{"with lineage", runner.Result{Ticks: 1000, MaxGeneration: 4}, -1200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RunFitness(tt.res); got != tt.want {
				t.Errorf("RunFitness = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 200, []int64{1, 2}, config.Default())

	a := fe.Evaluate(pv.DefaultVector())
	b := fe.Evaluate(pv.DefaultVector())
	if a != b {
		t.Errorf("same parameters scored %v then %v", a, b)
	}
	if a > -1 || a < -(200+GenerationWeight*200) {
		t.Errorf("fitness %v outside the reachable range", a)
	}
	if last := fe.Last(); last.Fitness != b {
		t.Errorf("Last().Fitness = %v, want %v", last.Fitness, b)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m00s"},
		{90 * time.Second, "1m30s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h02m03s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
