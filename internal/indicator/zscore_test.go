package indicator

import (
	"errors"
	"math"
	"testing"
)

func TestZScoreSeries_KnownValues(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}

	zscores, err := ZScoreSeries(closes, 3)
	if err != nil {
		t.Fatalf("ZScoreSeries returned error: %v", err)
	}
	if len(zscores) != len(closes) {
		t.Fatalf("expected %d values, got %d", len(closes), len(zscores))
	}

	for i := 0; i < 2; i++ {
		if !math.IsNaN(zscores[i]) {
			t.Errorf("expected NaN during warm-up at index %d, got %f", i, zscores[i])
		}
	}

	// 窗口 [1,2,3]: 均值2，样本标准差1，z = (3-2)/1 = 1；后续窗口同理。
	for i := 2; i < len(closes); i++ {
		if diff := math.Abs(zscores[i] - 1); diff > 1e-12 {
			t.Errorf("index %d: expected z=1, got %f", i, zscores[i])
		}
	}
}

func TestZScoreSeries_FlatWindowIsNaN(t *testing.T) {
	closes := []float64{100, 100, 100, 100, 100}

	zscores, err := ZScoreSeries(closes, 3)
	if err != nil {
		t.Fatalf("ZScoreSeries returned error: %v", err)
	}

	for i, z := range zscores {
		if !math.IsNaN(z) {
			t.Errorf("index %d: expected NaN for flat window, got %f", i, z)
		}
	}
}

func TestZScoreSeries_Errors(t *testing.T) {
	if _, err := ZScoreSeries(nil, 3); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("expected ErrEmptySeries, got %v", err)
	}
	if _, err := ZScoreSeries([]float64{1, 2, 3}, 1); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData for lookback<2, got %v", err)
	}
	if _, err := ZScoreSeries([]float64{1, 2}, 3); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData for short series, got %v", err)
	}
}

func TestZScore_LatestBar(t *testing.T) {
	closes := []float64{1, 2, 3}

	result, err := ZScore(closes, 3)
	if err != nil {
		t.Fatalf("ZScore returned error: %v", err)
	}

	if !result.Defined() {
		t.Fatalf("expected defined z-score")
	}
	if diff := math.Abs(result.ZScore - 1); diff > 1e-12 {
		t.Errorf("expected z=1, got %f", result.ZScore)
	}
	if diff := math.Abs(result.Mean - 2); diff > 1e-12 {
		t.Errorf("expected mean=2, got %f", result.Mean)
	}
	if diff := math.Abs(result.Std - 1); diff > 1e-12 {
		t.Errorf("expected std=1, got %f", result.Std)
	}
}

func TestZScoreResult_DefinedOnNaN(t *testing.T) {
	r := ZScoreResult{ZScore: math.NaN()}
	if r.Defined() {
		t.Errorf("expected NaN z-score to be undefined")
	}
}
