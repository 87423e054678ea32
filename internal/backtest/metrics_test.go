package backtest

import (
	"math"
	"testing"
	"time"
)

func TestCalculateMetrics_NoTrades(t *testing.T) {
	metrics := calculateMetrics(nil, []EquityPoint{{Equity: 1}, {Equity: 1}})

	if metrics != (Metrics{}) {
		t.Errorf("expected zeroed metrics without trades, got %+v", metrics)
	}
}

func TestCalculateMetrics_MixedTrades(t *testing.T) {
	trades := []Trade{
		makeTrade(0.10, 5),
		makeTrade(0.10, 3),
		makeTrade(-0.04, 10),
		makeTrade(-0.04, 2),
	}

	metrics := calculateMetrics(trades, nil)

	if metrics.TotalTrades != 4 {
		t.Errorf("expected 4 trades, got %d", metrics.TotalTrades)
	}
	if metrics.WinningTrades != 2 || metrics.LosingTrades != 2 {
		t.Errorf("unexpected win/loss split: %d/%d", metrics.WinningTrades, metrics.LosingTrades)
	}
	if metrics.WinRate != 0.5 {
		t.Errorf("expected win rate 0.5, got %f", metrics.WinRate)
	}
	if diff := math.Abs(metrics.TotalPnLPercent - 0.12); diff > 1e-12 {
		t.Errorf("expected total pnl 0.12, got %f", metrics.TotalPnLPercent)
	}
	// 绝对盈亏: +10, +10, -4, -4 → 合计12，单笔均值3。
	if diff := math.Abs(metrics.TotalPnL - 12); diff > 1e-12 {
		t.Errorf("expected total pnl 12, got %f", metrics.TotalPnL)
	}
	if diff := math.Abs(metrics.AvgPnLPerTrade - 3); diff > 1e-12 {
		t.Errorf("expected avg pnl per trade 3, got %f", metrics.AvgPnLPerTrade)
	}
	if metrics.AvgBarsHeld != 5 {
		t.Errorf("expected avg bars held 5, got %f", metrics.AvgBarsHeld)
	}
	// 盈利因子按绝对盈亏计算 = 20 / 8 = 2.5
	if diff := math.Abs(metrics.ProfitFactor - 2.5); diff > 1e-12 {
		t.Errorf("expected profit factor 2.5, got %f", metrics.ProfitFactor)
	}
}

func TestCalculateMetrics_ProfitFactorWithoutLosers(t *testing.T) {
	// 没有亏损交易时分母取1，盈利因子等于绝对毛利（此处为10）。
	trades := []Trade{makeTrade(0.10, 1)}

	metrics := calculateMetrics(trades, nil)

	if metrics.ProfitFactor != 10 {
		t.Errorf("expected profit factor 10, got %f", metrics.ProfitFactor)
	}
}

func TestCalculateMetrics_ZeroPnLCountsAsLoss(t *testing.T) {
	trades := []Trade{makeTrade(0, 1)}

	metrics := calculateMetrics(trades, nil)

	if metrics.WinningTrades != 0 || metrics.LosingTrades != 1 {
		t.Errorf("expected break-even trade counted as loss, got %d/%d",
			metrics.WinningTrades, metrics.LosingTrades)
	}
}

func TestComputeDrawdown(t *testing.T) {
	curve := []EquityPoint{
		{Equity: 1.0},
		{Equity: 1.2},
		{Equity: 0.9},
		{Equity: 1.1},
		{Equity: 1.3},
	}

	// 峰值1.2回落到0.9，回撤 = 0.3/1.2 = 0.25
	if got := computeDrawdown(curve); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("expected drawdown 0.25, got %f", got)
	}

	if got := computeDrawdown(nil); got != 0 {
		t.Errorf("expected 0 drawdown for empty curve, got %f", got)
	}

	monotone := []EquityPoint{{Equity: 1}, {Equity: 1.1}, {Equity: 1.2}}
	if got := computeDrawdown(monotone); got != 0 {
		t.Errorf("expected 0 drawdown for monotone curve, got %f", got)
	}
}

func TestComputeSharpe(t *testing.T) {
	flat := []EquityPoint{{Equity: 1}, {Equity: 1}, {Equity: 1}}
	if got := computeSharpe(flat); got != 0 {
		t.Errorf("expected 0 sharpe for zero-variance returns, got %f", got)
	}

	if got := computeSharpe([]EquityPoint{{Equity: 1}}); got != 0 {
		t.Errorf("expected 0 sharpe for single point, got %f", got)
	}

	// 净亏损曲线收益率均值为负，夏普必为负数。
	curve := []EquityPoint{{Equity: 1.0}, {Equity: 1.1}, {Equity: 0.9}}
	got := computeSharpe(curve)
	if math.IsNaN(got) {
		t.Fatalf("sharpe must not be NaN")
	}
	if got >= 0 {
		t.Errorf("expected negative sharpe for net-losing curve, got %f", got)
	}
}

func makeTrade(pnlPercent float64, barsHeld int) Trade {
	entry := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return Trade{
		EntryTime:  entry,
		ExitTime:   entry.AddDate(0, 0, barsHeld),
		EntryPrice: 100,
		ExitPrice:  100 * (1 + pnlPercent),
		Side:       Long,
		PnL:        100 * pnlPercent,
		PnLPercent: pnlPercent,
		BarsHeld:   barsHeld,
		ExitReason: ExitZeroCross,
	}
}
