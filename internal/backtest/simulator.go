package backtest

import (
	"math"
	"time"

	"meanrev/internal/signal"
)

// Simulator 逐K线驱动单仓位状态机。
// 状态始终是 FLAT/LONG/SHORT 三者之一；同一根K线上平仓后不再评估开仓。
type Simulator struct {
	cfg        Config
	thresholds signal.Thresholds

	position   Position
	entryPrice float64
	entryTime  time.Time
	entryBar   int

	equity float64
	trades []Trade
	curve  []EquityPoint
}

// NewSimulator 创建初始权益为1.0、空仓状态的模拟器。
// 实例持有全部可变状态，禁止在并发回测间共享。
func NewSimulator(cfg Config) *Simulator {
	return &Simulator{
		cfg: cfg,
		thresholds: signal.Thresholds{
			Upper: cfg.ZScoreThreshold,
			Lower: -cfg.ZScoreThreshold,
		},
		position: Flat,
		equity:   1.0,
	}
}

// Step 处理一根K线。z 为 NaN 时跳过全部决策，权益曲线原样延续。
// 平仓条件按固定优先级评估：过零 → 止损 → 止盈 → 超时，先命中者生效。
func (s *Simulator) Step(bar int, ts time.Time, price float64, z float64, regimeOK bool) {
	if math.IsNaN(z) {
		s.appendEquity(ts)
		return
	}

	if s.position != Flat {
		pnlPct := s.pnlPercent(price)
		barsHeld := bar - s.entryBar

		var reason ExitReason
		switch {
		case s.position == Long && z >= 0:
			reason = ExitZeroCross
		case s.position == Short && z <= 0:
			reason = ExitZeroCross
		case pnlPct <= -s.cfg.StopLoss:
			reason = ExitStopLoss
		case pnlPct >= s.cfg.TakeProfit:
			reason = ExitTakeProfit
		case barsHeld >= s.cfg.MaxHoldingBars:
			reason = ExitMaxHolding
		}

		if reason != "" {
			s.closePosition(ts, price, barsHeld, reason)
			s.appendEquity(ts)
			return
		}
	}

	if s.position == Flat && regimeOK {
		switch signal.Classify(z, s.thresholds) {
		case signal.Oversold:
			s.openPosition(Long, bar, ts, price)
		case signal.Overbought:
			s.openPosition(Short, bar, ts, price)
		case signal.Neutral:
		}
	}

	s.appendEquity(ts)
}

// ForceClose 在数据结束后以最后一根K线的价格强制平仓。
// 权益更新落在最后一根K线已有的曲线点上，保持每根K线一个点的不变量。
// 若仓位恰在最后一根K线上建立，成交会以相同的出入场时间、BarsHeld 为0
// 落账，盈亏为0。
func (s *Simulator) ForceClose(lastBar int, ts time.Time, price float64) {
	if s.position == Flat {
		return
	}

	s.closePosition(ts, price, lastBar-s.entryBar, ExitEndOfData)

	if len(s.curve) > 0 {
		s.curve[len(s.curve)-1].Equity = s.equity
	}
}

// Position 返回当前持仓方向。
func (s *Simulator) Position() Position {
	return s.position
}

// Equity 返回当前累计权益（起始1.0）。
func (s *Simulator) Equity() float64 {
	return s.equity
}

// Trades 返回按时间顺序的交易明细副本。
func (s *Simulator) Trades() []Trade {
	return append([]Trade(nil), s.trades...)
}

// Curve 返回权益曲线副本。
func (s *Simulator) Curve() []EquityPoint {
	return append([]EquityPoint(nil), s.curve...)
}

func (s *Simulator) openPosition(side Position, bar int, ts time.Time, price float64) {
	s.position = side
	s.entryPrice = price
	s.entryTime = ts
	s.entryBar = bar
}

func (s *Simulator) closePosition(ts time.Time, price float64, barsHeld int, reason ExitReason) {
	pnlPct := s.pnlPercent(price)

	pnl := price - s.entryPrice
	if s.position == Short {
		pnl = s.entryPrice - price
	}

	s.trades = append(s.trades, Trade{
		EntryTime:  s.entryTime,
		ExitTime:   ts,
		EntryPrice: s.entryPrice,
		ExitPrice:  price,
		Side:       s.position,
		PnL:        pnl,
		PnLPercent: pnlPct,
		BarsHeld:   barsHeld,
		ExitReason: reason,
	})

	s.equity *= 1 + pnlPct

	s.position = Flat
	s.entryPrice = 0
	s.entryTime = time.Time{}
	s.entryBar = 0
}

// pnlPercent 返回当前浮动收益率。LONG 为 (现价-开仓价)/开仓价，SHORT 取反。
func (s *Simulator) pnlPercent(price float64) float64 {
	if s.entryPrice == 0 {
		return 0
	}
	if s.position == Short {
		return (s.entryPrice - price) / s.entryPrice
	}
	return (price - s.entryPrice) / s.entryPrice
}

func (s *Simulator) appendEquity(ts time.Time) {
	s.curve = append(s.curve, EquityPoint{Timestamp: ts, Equity: s.equity})
}
