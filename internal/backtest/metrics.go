package backtest

import "math"

// annualizeFactor 按日线频率年化夏普比率。
const annualizeFactor = 252

// Metrics 汇总一次回测的绩效统计。
type Metrics struct {
	TotalTrades     int     `json:"total_trades"`
	WinningTrades   int     `json:"winning_trades"`
	LosingTrades    int     `json:"losing_trades"`
	WinRate         float64 `json:"win_rate"`
	TotalPnL        float64 `json:"total_pnl"`
	TotalPnLPercent float64 `json:"total_pnl_percent"`
	AvgPnLPerTrade  float64 `json:"avg_pnl_per_trade"`
	AvgBarsHeld     float64 `json:"avg_bars_held"`
	ProfitFactor    float64 `json:"profit_factor"`
	MaxDrawdown     float64 `json:"max_drawdown"`
	SharpeRatio     float64 `json:"sharpe_ratio"`
}

// calculateMetrics 根据交易明细与权益曲线计算绩效指标。
// 无交易时返回全零结果，不会因空输入报错。
func calculateMetrics(trades []Trade, curve []EquityPoint) Metrics {
	if len(trades) == 0 {
		return Metrics{}
	}

	var m Metrics
	m.TotalTrades = len(trades)

	// 毛利/毛亏与单笔均值都按绝对盈亏累计，不用收益率。
	var grossProfit, grossLoss float64
	var totalBars int
	for _, t := range trades {
		m.TotalPnL += t.PnL
		m.TotalPnLPercent += t.PnLPercent
		totalBars += t.BarsHeld

		if t.PnL > 0 {
			m.WinningTrades++
			grossProfit += t.PnL
		} else {
			m.LosingTrades++
			grossLoss += -t.PnL
		}
	}

	m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades)
	m.AvgPnLPerTrade = m.TotalPnL / float64(m.TotalTrades)
	m.AvgBarsHeld = float64(totalBars) / float64(m.TotalTrades)

	// 没有亏损交易时分母取1，盈利因子退化为毛利本身。
	if grossLoss == 0 {
		grossLoss = 1
	}
	m.ProfitFactor = grossProfit / grossLoss

	m.MaxDrawdown = computeDrawdown(curve)
	m.SharpeRatio = computeSharpe(curve)

	return m
}

// computeDrawdown 返回权益曲线相对历史峰值的最大回撤比例。
func computeDrawdown(curve []EquityPoint) float64 {
	if len(curve) == 0 {
		return 0
	}

	peak := curve[0].Equity
	var maxDD float64
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			dd := (peak - p.Equity) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// computeSharpe 用逐K线权益收益率计算年化夏普比率。
// 收益率标准差为0时返回0，避免除零。
func computeSharpe(curve []EquityPoint) float64 {
	if len(curve) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev == 0 {
			continue
		}
		returns = append(returns, (curve[i].Equity-prev)/prev)
	}
	if len(returns) == 0 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var sq float64
	for _, r := range returns {
		d := r - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(returns)))
	if std == 0 {
		return 0
	}

	return mean / std * math.Sqrt(annualizeFactor)
}
