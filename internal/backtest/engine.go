package backtest

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"meanrev/internal/indicator"
)

// Engine 串联指标计算、状态机模拟与绩效汇总。
// 整个流程单线程且确定：相同序列与参数必然得到相同的交易明细与统计。
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

// NewEngine 构建回测引擎。
func NewEngine(cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:    cfg.normalize(),
		logger: logger,
	}
}

// Run 对价格序列执行完整回测流程。
func (e *Engine) Run(series indicator.Series) (Result, error) {
	n := series.Len()
	if n == 0 {
		return Result{}, ErrEmptySeries
	}

	warmup := e.cfg.warmupBars()
	if n <= warmup {
		return Result{}, fmt.Errorf("%w: 需要超过 %d 根K线，当前 %d", ErrSeriesTooShort, warmup, n)
	}

	zscores, err := indicator.ZScoreSeries(series.Close, e.cfg.ZScoreLookback)
	if err != nil {
		return Result{}, fmt.Errorf("预计算Z分数失败: %w", err)
	}

	// 半衰期过滤对整条序列只算一次，不逐K线重算。
	regimeOK := true
	halfLife := math.NaN()
	if e.cfg.UseHalfLifeFilter {
		hl, err := indicator.HalfLife(series.Close, e.cfg.HalfLifeLookback)
		if err != nil {
			return Result{}, fmt.Errorf("计算半衰期过滤失败: %w", err)
		}
		halfLife = hl.HalfLife
		regimeOK = hl.HalfLife < e.cfg.HalfLifeMax
		if !regimeOK {
			e.logger.Debug("半衰期超限，本次回测不会开仓",
				zap.Float64("half_life", hl.HalfLife),
				zap.Float64("half_life_max", e.cfg.HalfLifeMax),
			)
		}
	}

	sim := NewSimulator(e.cfg)
	for i := warmup; i < n; i++ {
		sim.Step(i, series.Timestamps[i], series.Close[i], zscores[i], regimeOK)
	}

	if sim.Position() != Flat {
		sim.ForceClose(n-1, series.Timestamps[n-1], series.Close[n-1])
	}

	trades := sim.Trades()
	curve := sim.Curve()

	return Result{
		Trades:      trades,
		EquityCurve: curve,
		Metrics:     calculateMetrics(trades, curve),
		HalfLife:    halfLife,
		RegimeOK:    regimeOK,
	}, nil
}
