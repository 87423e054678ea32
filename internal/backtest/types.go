package backtest

import (
	"errors"
	"time"
)

var (
	// ErrEmptySeries 表示回测输入序列为空，直接失败，不产生部分结果。
	ErrEmptySeries = errors.New("backtest: empty series")
	// ErrSeriesTooShort 表示序列长度不足以越过预热期。
	ErrSeriesTooShort = errors.New("backtest: series too short")
)

// Position 表示持仓方向，闭合枚举，分支处理必须覆盖全部取值。
type Position int8

const (
	Flat Position = iota
	Long
	Short
)

// String 返回持仓方向的可读名称。
func (p Position) String() string {
	switch p {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	default:
		return "FLAT"
	}
}

// ExitReason 为固定的平仓原因集合。
type ExitReason string

const (
	ExitZeroCross  ExitReason = "Z crossed zero"
	ExitStopLoss   ExitReason = "Stop loss"
	ExitTakeProfit ExitReason = "Take profit"
	ExitMaxHolding ExitReason = "Max holding time"
	ExitEndOfData  ExitReason = "End of data"
)

// Trade 表示单笔已完成交易，落账后不再修改。
type Trade struct {
	EntryTime  time.Time  `json:"entry_time"`
	ExitTime   time.Time  `json:"exit_time"`
	EntryPrice float64    `json:"entry_price"`
	ExitPrice  float64    `json:"exit_price"`
	Side       Position   `json:"side"`
	PnL        float64    `json:"pnl"`
	PnLPercent float64    `json:"pnl_percent"`
	BarsHeld   int        `json:"bars_held"`
	ExitReason ExitReason `json:"exit_reason"`
}

// EquityPoint 为权益曲线上的一个点，每根参与模拟的K线恰好一个。
type EquityPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Equity    float64   `json:"equity"`
}

// Result 汇总一次回测的交易明细、权益曲线与绩效指标。
type Result struct {
	Trades      []Trade       `json:"trades"`
	EquityCurve []EquityPoint `json:"equity_curve"`
	Metrics     Metrics       `json:"metrics"`
	HalfLife    float64       `json:"half_life"`
	RegimeOK    bool          `json:"regime_ok"`
}
