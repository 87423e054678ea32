package marketdata

import "time"

// Bar 代表单根K线，收盘价是核心输入。
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// SeriesRequest 控制一次价格序列采集的参数。
type SeriesRequest struct {
	Symbol    string
	Timeframe string
	Limit     int
}

// DefaultSeriesRequest 返回默认采集参数。
func DefaultSeriesRequest(symbol string) SeriesRequest {
	return SeriesRequest{
		Symbol:    symbol,
		Timeframe: "1d",
		Limit:     500,
	}
}
