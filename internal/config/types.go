package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// Config 聚合了系统运行所需的全部配置项。
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	MarketData MarketDataConfig `mapstructure:"market_data"`
	Indicator  IndicatorConfig  `mapstructure:"indicator"`
	Backtest   BacktestConfig   `mapstructure:"backtest"`
	Advisor    AdvisorConfig    `mapstructure:"advisor"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Report     ReportConfig     `mapstructure:"report"`
}

// AppConfig 控制应用级参数。
type AppConfig struct {
	Environment string `mapstructure:"environment"`
}

// MarketDataConfig 描述行情数据来源。
type MarketDataConfig struct {
	Exchange     string      `mapstructure:"exchange"`
	Symbols      []string    `mapstructure:"symbols"`
	Timeframe    string      `mapstructure:"timeframe"`
	LookbackBars int         `mapstructure:"lookback_bars"`
	UseSandbox   bool        `mapstructure:"use_sandbox"`
	APIKey       string      `mapstructure:"api_key"`
	APISecret    string      `mapstructure:"api_secret"`
	CacheBars    bool        `mapstructure:"cache_bars"`
	Retry        RetryConfig `mapstructure:"retry"`
}

// RetryConfig 统一控制重试机制。
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	MinDelay    time.Duration `mapstructure:"min_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
}

// IndicatorConfig 管理统计指标参数。
type IndicatorConfig struct {
	ZScoreLookback   int     `mapstructure:"zscore_lookback"`
	HalfLifeLookback int     `mapstructure:"half_life_lookback"`
	ACFMaxLag        int     `mapstructure:"acf_max_lag"`
	KalmanQ          float64 `mapstructure:"kalman_process_noise"`
	KalmanR          float64 `mapstructure:"kalman_measurement_noise"`
}

// BacktestConfig 管理回测策略参数。
type BacktestConfig struct {
	ZScoreThreshold   float64 `mapstructure:"zscore_threshold"`
	StopLoss          float64 `mapstructure:"stop_loss"`
	TakeProfit        float64 `mapstructure:"take_profit"`
	MaxHoldingBars    int     `mapstructure:"max_holding_bars"`
	UseHalfLifeFilter bool    `mapstructure:"use_half_life_filter"`
	HalfLifeMax       float64 `mapstructure:"half_life_max"`
}

// AdvisorConfig 描述大模型点评参数。
type AdvisorConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig 管理数据库连接。
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	InMemory        bool          `mapstructure:"in_memory"`
}

// LoggingConfig 控制日志输出。
type LoggingConfig struct {
	Level            string   `mapstructure:"level"`
	Encoding         string   `mapstructure:"encoding"`
	Development      bool     `mapstructure:"development"`
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// ReportConfig 控制结果查询接口。
type ReportConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Validate 对配置进行基本校验。
func (c *Config) Validate() error {
	var err error

	if c.App.Environment == "" {
		err = multierr.Append(err, errors.New("app.environment 不能为空"))
	}
	if c.MarketData.Exchange == "" {
		err = multierr.Append(err, errors.New("market_data.exchange 不能为空"))
	}
	if len(c.MarketData.Symbols) == 0 {
		err = multierr.Append(err, errors.New("market_data.symbols 至少包含一个交易对"))
	}
	if c.MarketData.Timeframe == "" {
		err = multierr.Append(err, errors.New("market_data.timeframe 不能为空"))
	}
	if c.MarketData.LookbackBars <= 0 {
		err = multierr.Append(err, errors.New("market_data.lookback_bars 必须大于0"))
	}
	if c.MarketData.Retry.MaxAttempts <= 0 {
		err = multierr.Append(err, errors.New("market_data.retry.max_attempts 必须大于0"))
	}
	if c.MarketData.Retry.MinDelay <= 0 || c.MarketData.Retry.MaxDelay <= 0 {
		err = multierr.Append(err, errors.New("market_data.retry.delay 必须为正"))
	}
	if c.MarketData.Retry.MinDelay > c.MarketData.Retry.MaxDelay {
		err = multierr.Append(err, errors.New("market_data.retry.min_delay 不能大于 max_delay"))
	}
	if c.Indicator.ZScoreLookback < 2 {
		err = multierr.Append(err, errors.New("indicator.zscore_lookback 必须不小于2"))
	}
	if c.Indicator.HalfLifeLookback < 3 {
		err = multierr.Append(err, errors.New("indicator.half_life_lookback 必须不小于3"))
	}
	if c.Indicator.ACFMaxLag <= 0 {
		err = multierr.Append(err, errors.New("indicator.acf_max_lag 必须大于0"))
	}
	if c.Indicator.KalmanQ <= 0 {
		err = multierr.Append(err, errors.New("indicator.kalman_process_noise 必须大于0"))
	}
	if c.Indicator.KalmanR <= 0 {
		err = multierr.Append(err, errors.New("indicator.kalman_measurement_noise 必须大于0"))
	}
	if c.Backtest.ZScoreThreshold <= 0 {
		err = multierr.Append(err, errors.New("backtest.zscore_threshold 必须大于0"))
	}
	if c.Backtest.StopLoss <= 0 || c.Backtest.StopLoss > 1 {
		err = multierr.Append(err, errors.New("backtest.stop_loss 必须位于(0,1]"))
	}
	if c.Backtest.TakeProfit <= 0 || c.Backtest.TakeProfit > 1 {
		err = multierr.Append(err, errors.New("backtest.take_profit 必须位于(0,1]"))
	}
	if c.Backtest.MaxHoldingBars <= 0 {
		err = multierr.Append(err, errors.New("backtest.max_holding_bars 必须大于0"))
	}
	if c.Backtest.HalfLifeMax <= 0 {
		err = multierr.Append(err, errors.New("backtest.half_life_max 必须大于0"))
	}
	if c.Advisor.Enabled {
		if c.Advisor.APIKey == "" {
			err = multierr.Append(err, errors.New("advisor.api_key 不能为空 (advisor.enabled=true)"))
		}
		if c.Advisor.Model == "" {
			err = multierr.Append(err, errors.New("advisor.model 不能为空"))
		}
		if c.Advisor.Timeout <= 0 {
			err = multierr.Append(err, errors.New("advisor.timeout 必须大于0"))
		}
	}
	if c.Database.Path == "" && !c.Database.InMemory {
		err = multierr.Append(err, errors.New("database.path 不能为空"))
	}
	if c.Database.MaxOpenConns <= 0 {
		err = multierr.Append(err, errors.New("database.max_open_conns 必须大于0"))
	}
	if c.Database.MaxIdleConns < 0 {
		err = multierr.Append(err, errors.New("database.max_idle_conns 不能为负"))
	}
	if c.Database.ConnMaxLifetime < 0 {
		err = multierr.Append(err, errors.New("database.conn_max_lifetime 不能为负"))
	}
	if c.Logging.Level == "" {
		err = multierr.Append(err, errors.New("logging.level 不能为空"))
	}
	if c.Logging.Encoding == "" {
		err = multierr.Append(err, errors.New("logging.encoding 不能为空"))
	}
	if len(c.Logging.OutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.output_paths 至少包含一个输出目标"))
	}
	if len(c.Logging.ErrorOutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.error_output_paths 至少包含一个输出目标"))
	}
	if c.Report.Enabled && (c.Report.Port <= 0 || c.Report.Port > 65535) {
		err = multierr.Append(err, errors.New("report.port 必须位于[1,65535]"))
	}

	if err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	return nil
}
