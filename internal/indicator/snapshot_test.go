package indicator

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestComputeSnapshot(t *testing.T) {
	series := makeOscillatingSeries(120)
	params := Params{
		ZScoreLookback:   50,
		HalfLifeLookback: 100,
		ACFMaxLag:        10,
		KalmanQ:          0.01,
		KalmanR:          1.0,
	}

	snapshot, err := ComputeSnapshot("BTC/USDT", series, params)
	if err != nil {
		t.Fatalf("ComputeSnapshot returned error: %v", err)
	}

	if snapshot.Symbol != "BTC/USDT" {
		t.Errorf("expected symbol BTC/USDT, got %s", snapshot.Symbol)
	}
	if !snapshot.GeneratedAt.Equal(series.Timestamps[series.Len()-1]) {
		t.Errorf("expected GeneratedAt to match last bar, got %s", snapshot.GeneratedAt)
	}
	if snapshot.Close != series.Close[series.Len()-1] {
		t.Errorf("expected close of last bar, got %f", snapshot.Close)
	}

	if !snapshot.ZScore.Defined() {
		t.Errorf("expected defined z-score for oscillating series")
	}
	if !snapshot.HalfLife.MeanReverting {
		t.Errorf("expected oscillating series to be mean-reverting, half-life=%f", snapshot.HalfLife.HalfLife)
	}
	if len(snapshot.ACF.Values) != 10 {
		t.Errorf("expected 10 ACF lags, got %d", len(snapshot.ACF.Values))
	}
	if snapshot.ACF.Lag1 != snapshot.ACF.Values[0] {
		t.Errorf("Lag1 must equal Values[0]")
	}

	// 卡尔曼估计应落在价格区间内。
	if math.IsNaN(snapshot.Kalman) || snapshot.Kalman < 98 || snapshot.Kalman > 102 {
		t.Errorf("unexpected kalman estimate: %f", snapshot.Kalman)
	}

	// 上下文指标在充足数据下应有定义且自洽。
	if math.IsNaN(snapshot.Context.SMA20) || snapshot.Context.SMA20 < 99 || snapshot.Context.SMA20 > 101 {
		t.Errorf("unexpected SMA20: %f", snapshot.Context.SMA20)
	}
	if snapshot.Context.RSI14 < 0 || snapshot.Context.RSI14 > 100 {
		t.Errorf("RSI out of range: %f", snapshot.Context.RSI14)
	}
	if !(snapshot.Context.BollingerUpper > snapshot.Context.BollingerLower) {
		t.Errorf("expected upper band above lower band: %f vs %f",
			snapshot.Context.BollingerUpper, snapshot.Context.BollingerLower)
	}
}

func TestComputeSnapshot_Errors(t *testing.T) {
	params := Params{ZScoreLookback: 50, HalfLifeLookback: 100, ACFMaxLag: 10, KalmanQ: 0.01, KalmanR: 1.0}

	if _, err := ComputeSnapshot("BTC/USDT", Series{}, params); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("expected ErrEmptySeries, got %v", err)
	}

	short := makeOscillatingSeries(10)
	if _, err := ComputeSnapshot("BTC/USDT", short, params); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestComputeContext_ShortSeriesIsNaN(t *testing.T) {
	result := computeContext(makeOscillatingSeries(10))

	if !math.IsNaN(result.SMA20) || !math.IsNaN(result.RSI14) || !math.IsNaN(result.ADX14) {
		t.Errorf("expected NaN context for short series, got %+v", result)
	}
}

func makeOscillatingSeries(n int) Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := Series{
		Timestamps: make([]time.Time, n),
		Open:       make([]float64, n),
		High:       make([]float64, n),
		Low:        make([]float64, n),
		Close:      make([]float64, n),
		Volume:     make([]float64, n),
	}
	for i := 0; i < n; i++ {
		price := 100 + math.Sin(2*math.Pi*float64(i)/6)
		series.Timestamps[i] = start.AddDate(0, 0, i)
		series.Open[i] = price
		series.High[i] = price + 0.5
		series.Low[i] = price - 0.5
		series.Close[i] = price
		series.Volume[i] = 1000
	}
	return series
}
