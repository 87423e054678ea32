package indicator

import (
	"fmt"
	"math"
)

const (
	// HalfLifeCeiling 为半衰期上限。beta 不在 (-1,0) 区间时半衰期在数学上为
	// 无穷大，统一封顶为该值，避免无界数值向下游扩散。
	HalfLifeCeiling = 500.0
	// MeanRevertingMaxHalfLife 为判定序列均值回归的半衰期阈值，与封顶值独立。
	MeanRevertingMaxHalfLife = 50.0
)

// HalfLifeResult 保存 Ornstein-Uhlenbeck 回归的半衰期估计。
type HalfLifeResult struct {
	HalfLife      float64 `json:"half_life"`
	Beta          float64 `json:"beta"`
	MeanReverting bool    `json:"is_mean_reverting"`
}

// HalfLife 基于末尾 lookback 根K线的对数价格估计均值回归半衰期。
// 对一阶差分与滞后对数价格做普通最小二乘回归：
// beta = Cov(delta, lag) / Var(lag)，Var 为0时 beta 记为0。
// beta 落在 (-1, 0) 时 halfLife = -ln2 / ln(1+beta)，否则视为不回归。
func HalfLife(closes []float64, lookback int) (HalfLifeResult, error) {
	if len(closes) == 0 {
		return HalfLifeResult{}, ErrEmptySeries
	}

	logPrices := LogPrices(SliceTail(closes, lookback))
	if len(logPrices) < 3 {
		return HalfLifeResult{}, fmt.Errorf("%w: 半衰期回归至少需要3根K线，当前 %d", ErrInsufficientData, len(logPrices))
	}

	n := len(logPrices) - 1
	delta := make([]float64, n)
	lag := make([]float64, n)
	for i := 0; i < n; i++ {
		delta[i] = logPrices[i+1] - logPrices[i]
		lag[i] = logPrices[i]
	}

	meanDelta := mean(delta)
	meanLag := mean(lag)

	covariance := 0.0
	variance := 0.0
	for i := 0; i < n; i++ {
		covariance += (delta[i] - meanDelta) * (lag[i] - meanLag)
		variance += (lag[i] - meanLag) * (lag[i] - meanLag)
	}

	beta := 0.0
	if variance != 0 {
		beta = covariance / variance
	}

	halfLife := math.Inf(1)
	if beta > -1 && beta < 0 {
		halfLife = -math.Ln2 / math.Log(1+beta)
	}

	return HalfLifeResult{
		HalfLife:      math.Min(halfLife, HalfLifeCeiling),
		Beta:          beta,
		MeanReverting: beta < 0 && halfLife < MeanRevertingMaxHalfLife,
	}, nil
}
