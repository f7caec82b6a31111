package summary

import (
	"math"
	"testing"
)

func TestMannWhitneyU(t *testing.T) {
	tests := []struct {
		name       string
		sample1    []float64
		sample2    []float64
		wantSignif bool
	}{
		{
			name:       "identical samples",
			sample1:    []float64{1, 2, 3, 4, 5},
			sample2:    []float64{1, 2, 3, 4, 5},
			wantSignif: false,
		},
		{
			name:       "clearly different samples",
			sample1:    []float64{1, 2, 3, 4, 5},
			sample2:    []float64{10, 11, 12, 13, 14},
			wantSignif: true,
		},
		{
			name:       "highly overlapping samples",
			sample1:    []float64{3, 4, 5, 6, 7},
			sample2:    []float64{4, 5, 6, 7, 8},
			wantSignif: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MannWhitneyU(tt.sample1, tt.sample2)
			if result.Significant != tt.wantSignif {
				t.Errorf("Significant = %v, want %v (p=%f)", result.Significant, tt.wantSignif, result.PValue)
			}
		})
	}
}

func TestMannWhitneyU_Empty(t *testing.T) {
	result := MannWhitneyU(nil, []float64{1, 2, 3})
	if result.U != 0 || result.Significant {
		t.Errorf("MannWhitneyU(empty) = %+v, want zero U and not significant", result)
	}
}

func TestEffectSize(t *testing.T) {
	tests := []struct {
		name       string
		sample1    []float64
		sample2    []float64
		wantInterp string
	}{
		{
			name:       "large effect",
			sample1:    []float64{1, 2, 3, 4, 5},
			sample2:    []float64{10, 11, 12, 13, 14},
			wantInterp: "large",
		},
		{
			name:       "negligible effect",
			sample1:    []float64{5, 5, 5, 5, 5},
			sample2:    []float64{5.1, 5, 4.9, 5, 5},
			wantInterp: "negligible",
		},
		{
			name:       "too few values",
			sample1:    []float64{5},
			sample2:    []float64{1, 2},
			wantInterp: "undefined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputeEffectSize(tt.sample1, tt.sample2)
			if result.Interpretation != tt.wantInterp {
				t.Errorf("Interpretation = %s, want %s (d=%f)", result.Interpretation, tt.wantInterp, result.CohensD)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	stats := Describe([]float64{5, 1, 4, 2, 3})

	want := DescriptiveStats{N: 5, Mean: 3, Median: 3, Min: 1, Max: 5, P25: 2, P75: 4}
	got := *stats
	got.StdDev = 0
	if got != want {
		t.Errorf("Describe() = %+v, want %+v", got, want)
	}
	if math.Abs(stats.StdDev-math.Sqrt(2.5)) > 1e-9 {
		t.Errorf("StdDev = %f, want %f", stats.StdDev, math.Sqrt(2.5))
	}
}

func TestDescribe_Single(t *testing.T) {
	stats := Describe([]float64{7})
	if stats.N != 1 || stats.Mean != 7 || stats.Median != 7 || stats.StdDev != 0 {
		t.Errorf("Describe(single) = %+v", stats)
	}
}

func TestDescribe_Empty(t *testing.T) {
	stats := Describe(nil)
	if stats.N != 0 {
		t.Errorf("N = %d, want 0", stats.N)
	}
}
