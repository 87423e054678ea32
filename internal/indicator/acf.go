package indicator

import "fmt"

// ACFResult 保存对数收益的自相关函数。
type ACFResult struct {
	Lag1   float64   `json:"acf_lag1"`
	Values []float64 `json:"acf_values"`
}

// ACF 计算对数收益在 1..maxLag 各阶的自相关。
// 分母为收益的总体方差，方差为0时各阶记为0；lag 不小于收益数量时该阶记为0。
func ACF(closes []float64, maxLag int) (ACFResult, error) {
	if len(closes) == 0 {
		return ACFResult{}, ErrEmptySeries
	}
	if maxLag <= 0 {
		return ACFResult{}, fmt.Errorf("%w: maxLag 必须大于0", ErrInsufficientData)
	}

	returns := LogReturns(closes)
	if len(returns) == 0 {
		return ACFResult{}, fmt.Errorf("%w: 自相关至少需要2根K线", ErrInsufficientData)
	}

	n := len(returns)
	m := mean(returns)

	variance := 0.0
	for _, r := range returns {
		diff := r - m
		variance += diff * diff
	}
	variance /= float64(n)

	values := make([]float64, 0, maxLag)
	for lag := 1; lag <= maxLag; lag++ {
		if lag >= n || variance == 0 {
			values = append(values, 0)
			continue
		}

		cov := 0.0
		for i := lag; i < n; i++ {
			cov += (returns[i] - m) * (returns[i-lag] - m)
		}
		cov /= float64(n - lag)

		values = append(values, cov/variance)
	}

	return ACFResult{
		Lag1:   values[0],
		Values: values,
	}, nil
}
