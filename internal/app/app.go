package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"meanrev/internal/advisor"
	"meanrev/internal/backtest"
	"meanrev/internal/config"
	"meanrev/internal/indicator"
	"meanrev/internal/marketdata"
	"meanrev/internal/signal"
	"meanrev/internal/store"
)

// analysisConcurrency 限制同时分析的交易对数量，避免触发交易所限流。
const analysisConcurrency = 4

// App 聚合核心依赖并驱动系统生命周期。
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// New 创建 App 实例。
func New(cfg *config.Config, logger *zap.Logger, store *store.Store) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
}

// Run 对配置中的全部交易对执行一轮完整分析。
// 启用查询接口时保持运行直至收到退出信号，否则分析完成即返回。
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("分析系统已初始化",
		zap.String("environment", a.cfg.App.Environment),
		zap.String("exchange", a.cfg.MarketData.Exchange),
		zap.Strings("symbols", a.cfg.MarketData.Symbols),
	)

	pipe, err := newPipeline(a.cfg, a.logger, a.store)
	if err != nil {
		return err
	}

	state := newReportState()
	if err := pipe.RunAll(ctx, state); err != nil {
		return err
	}

	if !a.cfg.Report.Enabled {
		return nil
	}

	if err := startReportServer(ctx, state, a.cfg.Report.Port, a.logger); err != nil {
		return err
	}

	<-ctx.Done()
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("系统异常退出: %w", err)
	}
	a.logger.Info("系统收到退出信号，正在停止")
	return nil
}

// pipeline 串联行情获取、指标计算、回测与可选点评。
type pipeline struct {
	market     *marketdata.Service
	engine     *backtest.Engine
	advisor    *advisor.Client
	params     indicator.Params
	thresholds signal.Thresholds
	timeframe  string
	lookback   int
	symbols    []string
	logger     *zap.Logger
}

func newPipeline(cfg *config.Config, logger *zap.Logger, st *store.Store) (*pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := marketdata.NewClient(cfg.MarketData, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化行情客户端失败: %w", err)
	}

	var cache *marketdata.Cache
	if cfg.MarketData.CacheBars {
		cache, err = marketdata.NewCache(st, logger)
		if err != nil {
			return nil, fmt.Errorf("初始化K线缓存失败: %w", err)
		}
	}

	var advisorClient *advisor.Client
	if cfg.Advisor.Enabled {
		advisorClient, err = advisor.NewClient(cfg.Advisor, logger)
		if err != nil {
			return nil, fmt.Errorf("初始化点评客户端失败: %w", err)
		}
	}

	btCfg := backtest.Config{
		ZScoreLookback:    cfg.Indicator.ZScoreLookback,
		ZScoreThreshold:   cfg.Backtest.ZScoreThreshold,
		StopLoss:          cfg.Backtest.StopLoss,
		TakeProfit:        cfg.Backtest.TakeProfit,
		MaxHoldingBars:    cfg.Backtest.MaxHoldingBars,
		UseHalfLifeFilter: cfg.Backtest.UseHalfLifeFilter,
		HalfLifeMax:       cfg.Backtest.HalfLifeMax,
		HalfLifeLookback:  cfg.Indicator.HalfLifeLookback,
	}

	return &pipeline{
		market:  marketdata.NewService(client, cache, logger),
		engine:  backtest.NewEngine(btCfg, logger),
		advisor: advisorClient,
		params: indicator.Params{
			ZScoreLookback:   cfg.Indicator.ZScoreLookback,
			HalfLifeLookback: cfg.Indicator.HalfLifeLookback,
			ACFMaxLag:        cfg.Indicator.ACFMaxLag,
			KalmanQ:          cfg.Indicator.KalmanQ,
			KalmanR:          cfg.Indicator.KalmanR,
		},
		thresholds: signal.Thresholds{
			Upper: cfg.Backtest.ZScoreThreshold,
			Lower: -cfg.Backtest.ZScoreThreshold,
		},
		timeframe: cfg.MarketData.Timeframe,
		lookback:  cfg.MarketData.LookbackBars,
		symbols:   cfg.MarketData.Symbols,
		logger:    logger,
	}, nil
}

// RunAll 并发分析全部交易对，任一失败则整体失败。
func (p *pipeline) RunAll(ctx context.Context, state *reportState) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(analysisConcurrency)

	for _, symbol := range p.symbols {
		group.Go(func() error {
			report, err := p.analyze(groupCtx, symbol)
			if err != nil {
				return fmt.Errorf("分析 %s 失败: %w", symbol, err)
			}
			state.Put(report)
			return nil
		})
	}

	return group.Wait()
}

func (p *pipeline) analyze(ctx context.Context, symbol string) (SymbolReport, error) {
	bars, err := p.market.GetSeries(ctx, marketdata.SeriesRequest{
		Symbol:    symbol,
		Timeframe: p.timeframe,
		Limit:     p.lookback,
	})
	if err != nil {
		return SymbolReport{}, err
	}

	series := indicator.NewSeries(bars)

	snapshot, err := indicator.ComputeSnapshot(symbol, series, p.params)
	if err != nil {
		return SymbolReport{}, err
	}

	result, err := p.engine.Run(series)
	if err != nil {
		return SymbolReport{}, err
	}

	report := SymbolReport{
		Symbol:      symbol,
		GeneratedAt: time.Now().UTC(),
		Snapshot:    snapshot,
		Signal:      signal.Classify(snapshot.ZScore.ZScore, p.thresholds),
		Regime:      signal.ClassifyACF(snapshot.ACF.Lag1),
		Backtest:    result,
	}

	p.logger.Info("分析完成",
		zap.String("symbol", symbol),
		zap.Float64("close", snapshot.Close),
		zap.Float64("zscore", snapshot.ZScore.ZScore),
		zap.Float64("half_life", snapshot.HalfLife.HalfLife),
		zap.Float64("acf_lag1", snapshot.ACF.Lag1),
		zap.String("signal", string(report.Signal)),
		zap.String("regime", string(report.Regime)),
		zap.Int("trades", result.Metrics.TotalTrades),
		zap.Float64("win_rate", result.Metrics.WinRate),
		zap.Float64("total_pnl_pct", result.Metrics.TotalPnLPercent),
		zap.Float64("max_drawdown", result.Metrics.MaxDrawdown),
		zap.Float64("sharpe", result.Metrics.SharpeRatio),
	)

	if p.advisor != nil {
		review, reviewErr := p.advisor.ReviewResult(ctx, snapshot, result)
		if reviewErr != nil {
			// 点评失败不阻断主流程。
			p.logger.Warn("获取AI点评失败", zap.String("symbol", symbol), zap.Error(reviewErr))
		} else {
			report.Review = &review
		}
	}

	return report, nil
}
