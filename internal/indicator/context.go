package indicator

import (
	"math"

	talib "github.com/markcheno/go-talib"
)

// contextMinBars 为计算趋势/波动上下文所需的最少K线数。
const contextMinBars = 40

// ContextResult 保存快照附带的趋势与波动上下文指标。
type ContextResult struct {
	SMA20          float64 `json:"sma_20"`
	RSI14          float64 `json:"rsi_14"`
	BollingerUpper float64 `json:"bollinger_upper"`
	BollingerMid   float64 `json:"bollinger_middle"`
	BollingerLower float64 `json:"bollinger_lower"`
	ADX14          float64 `json:"adx_14"`
}

// computeContext 依据K线计算常用技术指标作为快照上下文。
// K线不足时返回 NaN 填充的结果，与Z分数的未定义约定一致。
func computeContext(series Series) ContextResult {
	if series.Len() < contextMinBars {
		nan := math.NaN()
		return ContextResult{
			SMA20:          nan,
			RSI14:          nan,
			BollingerUpper: nan,
			BollingerMid:   nan,
			BollingerLower: nan,
			ADX14:          nan,
		}
	}

	closePrices := series.Close
	highs := series.High
	lows := series.Low

	sma20 := talib.Sma(closePrices, 20)
	rsi := talib.Rsi(closePrices, 14)
	bbUpper, bbMiddle, bbLower := talib.BBands(closePrices, 20, 2, 2, talib.SMA)
	adx := talib.Adx(highs, lows, closePrices, 14)

	return ContextResult{
		SMA20:          Last(sma20),
		RSI14:          Last(rsi),
		BollingerUpper: Last(bbUpper),
		BollingerMid:   Last(bbMiddle),
		BollingerLower: Last(bbLower),
		ADX14:          Last(adx),
	}
}
