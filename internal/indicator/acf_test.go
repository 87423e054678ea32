package indicator

import (
	"errors"
	"math"
	"testing"
)

func TestACF_AlternatingReturns(t *testing.T) {
	// 对数价格在 0 与 0.1 之间交替，收益为 +0.1/-0.1 交替：
	// 一阶自相关恰为 -1，二阶恰为 +1。
	prices := make([]float64, 11)
	for i := range prices {
		x := 0.0
		if i%2 == 1 {
			x = 0.1
		}
		prices[i] = math.Exp(x)
	}

	result, err := ACF(prices, 3)
	if err != nil {
		t.Fatalf("ACF returned error: %v", err)
	}

	if len(result.Values) != 3 {
		t.Fatalf("expected 3 lags, got %d", len(result.Values))
	}
	if diff := math.Abs(result.Lag1 - (-1)); diff > 1e-9 {
		t.Errorf("expected lag1=-1, got %f", result.Lag1)
	}
	if diff := math.Abs(result.Values[1] - 1); diff > 1e-9 {
		t.Errorf("expected lag2=1, got %f", result.Values[1])
	}
	if result.Lag1 != result.Values[0] {
		t.Errorf("Lag1 must equal Values[0]")
	}
}

func TestACF_LagBeyondSampleIsZero(t *testing.T) {
	prices := []float64{100, 101, 100.5}

	result, err := ACF(prices, 5)
	if err != nil {
		t.Fatalf("ACF returned error: %v", err)
	}

	if len(result.Values) != 5 {
		t.Fatalf("expected 5 lags, got %d", len(result.Values))
	}
	// 只有2个收益样本，lag>=2 的各阶必须为0。
	for lag := 2; lag <= 5; lag++ {
		if result.Values[lag-1] != 0 {
			t.Errorf("lag %d: expected 0, got %f", lag, result.Values[lag-1])
		}
	}
}

func TestACF_FlatSeriesIsZero(t *testing.T) {
	prices := []float64{100, 100, 100, 100, 100, 100}

	result, err := ACF(prices, 3)
	if err != nil {
		t.Fatalf("ACF returned error: %v", err)
	}

	for i, v := range result.Values {
		if v != 0 {
			t.Errorf("lag %d: expected 0 for zero-variance returns, got %f", i+1, v)
		}
	}
}

func TestACF_Errors(t *testing.T) {
	if _, err := ACF(nil, 3); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("expected ErrEmptySeries, got %v", err)
	}
	if _, err := ACF([]float64{100, 101}, 0); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData for maxLag<=0, got %v", err)
	}
	if _, err := ACF([]float64{100}, 3); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData for single bar, got %v", err)
	}
}
