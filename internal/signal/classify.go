// Package signal 将原始指标值映射为离散信号。
// 阈值策略与指标数学分离，调整阈值不触及 indicator 包。
package signal

import "math"

// Signal 为Z分数的离散分类。
type Signal string

const (
	Overbought Signal = "OVERBOUGHT"
	Oversold   Signal = "OVERSOLD"
	Neutral    Signal = "NEUTRAL"
)

// Regime 为自相关判定的市场状态。
type Regime string

const (
	RegimeMeanReverting Regime = "MEAN_REVERTING"
	RegimeTrending      Regime = "TRENDING"
	RegimeInconclusive  Regime = "INCONCLUSIVE"
)

// Thresholds 定义Z分数分类边界。
type Thresholds struct {
	Upper float64
	Lower float64
}

// DefaultThresholds 返回 ±2 的标准边界。
func DefaultThresholds() Thresholds {
	return Thresholds{Upper: 2, Lower: -2}
}

// acfBand 为自相关判定边界，绝对值低于该值视为无定论。
const acfBand = 0.05

// Classify 将Z分数映射为离散信号。无定义值（NaN）归为 Neutral。
func Classify(z float64, th Thresholds) Signal {
	switch {
	case math.IsNaN(z):
		return Neutral
	case z > th.Upper:
		return Overbought
	case z < th.Lower:
		return Oversold
	default:
		return Neutral
	}
}

// ClassifyACF 按一阶自相关判定市场状态。
func ClassifyACF(lag1 float64) Regime {
	switch {
	case lag1 < -acfBand:
		return RegimeMeanReverting
	case lag1 > acfBand:
		return RegimeTrending
	default:
		return RegimeInconclusive
	}
}
