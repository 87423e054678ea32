package indicator

import (
	"fmt"
	"math"
)

// ZScoreResult 保存最新一根K线的Z分数及滚动统计量。
type ZScoreResult struct {
	ZScore float64 `json:"zscore"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
}

// Defined 判断Z分数是否有效。预热期内或窗口价格完全持平时为无效。
func (r ZScoreResult) Defined() bool {
	return !math.IsNaN(r.ZScore)
}

// ZScoreSeries 计算整条序列的滚动Z分数。
// 窗口包含当前K线，使用样本标准差；历史不足 lookback 或滚动标准差为0的
// 位置记为 NaN，调用方必须显式检查，不得当作0使用。
func ZScoreSeries(closes []float64, lookback int) ([]float64, error) {
	if len(closes) == 0 {
		return nil, ErrEmptySeries
	}
	if lookback < 2 {
		return nil, fmt.Errorf("%w: lookback 必须不小于2", ErrInsufficientData)
	}
	if len(closes) < lookback {
		return nil, fmt.Errorf("%w: 需要至少 %d 根K线，当前 %d", ErrInsufficientData, lookback, len(closes))
	}

	zscores := make([]float64, len(closes))
	for i := range zscores {
		zscores[i] = math.NaN()
	}

	for i := lookback - 1; i < len(closes); i++ {
		window := closes[i-lookback+1 : i+1]
		m, std := rollingStats(window)
		if std == 0 {
			continue
		}
		zscores[i] = (closes[i] - m) / std
	}

	return zscores, nil
}

// ZScore 计算序列最新一根K线的Z分数。
func ZScore(closes []float64, lookback int) (ZScoreResult, error) {
	zscores, err := ZScoreSeries(closes, lookback)
	if err != nil {
		return ZScoreResult{}, err
	}

	window := closes[len(closes)-lookback:]
	m, std := rollingStats(window)

	return ZScoreResult{
		ZScore: Last(zscores),
		Mean:   m,
		Std:    std,
	}, nil
}

// rollingStats 返回窗口均值与样本标准差。
func rollingStats(window []float64) (float64, float64) {
	m := mean(window)

	variance := 0.0
	for _, v := range window {
		diff := v - m
		variance += diff * diff
	}
	if len(window) > 1 {
		variance /= float64(len(window) - 1)
	}

	return m, math.Sqrt(variance)
}
