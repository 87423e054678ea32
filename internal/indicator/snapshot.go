package indicator

import (
	"fmt"
	"time"
)

// Params 汇集一次快照计算所需的指标参数。
type Params struct {
	ZScoreLookback   int
	HalfLifeLookback int
	ACFMaxLag        int
	KalmanQ          float64
	KalmanR          float64
}

// Snapshot 为序列末端单个时点的指标汇总。
type Snapshot struct {
	Symbol      string         `json:"symbol"`
	GeneratedAt time.Time      `json:"generated_at"`
	Close       float64        `json:"close"`
	ZScore      ZScoreResult   `json:"zscore"`
	HalfLife    HalfLifeResult `json:"half_life"`
	ACF         ACFResult      `json:"acf"`
	Kalman      float64        `json:"kalman_estimate"`
	Context     ContextResult  `json:"context"`
}

// ComputeSnapshot 对序列末端做一次完整指标计算。
// 序列不足以支撑任一指标时整体失败，不返回带误导性默认值的部分结果。
func ComputeSnapshot(symbol string, series Series, p Params) (Snapshot, error) {
	if series.Len() == 0 {
		return Snapshot{}, ErrEmptySeries
	}

	zscore, err := ZScore(series.Close, p.ZScoreLookback)
	if err != nil {
		return Snapshot{}, fmt.Errorf("计算Z分数失败 (%s): %w", symbol, err)
	}

	halfLife, err := HalfLife(series.Close, p.HalfLifeLookback)
	if err != nil {
		return Snapshot{}, fmt.Errorf("计算半衰期失败 (%s): %w", symbol, err)
	}

	acf, err := ACF(series.Close, p.ACFMaxLag)
	if err != nil {
		return Snapshot{}, fmt.Errorf("计算自相关失败 (%s): %w", symbol, err)
	}

	filter := NewKalmanFilter(p.KalmanQ, p.KalmanR)
	for _, price := range series.Close {
		filter.Update(price)
	}

	return Snapshot{
		Symbol:      symbol,
		GeneratedAt: series.Timestamps[series.Len()-1],
		Close:       Last(series.Close),
		ZScore:      zscore,
		HalfLife:    halfLife,
		ACF:         acf,
		Kalman:      filter.Estimate(),
		Context:     computeContext(series),
	}, nil
}
