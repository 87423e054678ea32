package config

import (
	"errors"
	"fmt"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "configs/config.yaml"
	envPrefix         = "meanrev"
)

// Load 读取配置文件并结合环境变量返回 Config。
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		path = defaultConfigPath
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	replacer := strings.NewReplacer(".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("未找到配置文件 %q: %w", path, err)
		}
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", "development")

	v.SetDefault("market_data.exchange", "binance")
	v.SetDefault("market_data.symbols", []string{"BTC/USDT"})
	v.SetDefault("market_data.timeframe", "1d")
	v.SetDefault("market_data.lookback_bars", 500)
	v.SetDefault("market_data.use_sandbox", false)
	v.SetDefault("market_data.cache_bars", true)
	v.SetDefault("market_data.retry.max_attempts", 5)
	v.SetDefault("market_data.retry.min_delay", "500ms")
	v.SetDefault("market_data.retry.max_delay", "5s")

	v.SetDefault("indicator.zscore_lookback", 50)
	v.SetDefault("indicator.half_life_lookback", 100)
	v.SetDefault("indicator.acf_max_lag", 10)
	v.SetDefault("indicator.kalman_process_noise", 0.01)
	v.SetDefault("indicator.kalman_measurement_noise", 1.0)

	v.SetDefault("backtest.zscore_threshold", 2.0)
	v.SetDefault("backtest.stop_loss", 0.05)
	v.SetDefault("backtest.take_profit", 0.10)
	v.SetDefault("backtest.max_holding_bars", 20)
	v.SetDefault("backtest.use_half_life_filter", true)
	v.SetDefault("backtest.half_life_max", 50)

	v.SetDefault("advisor.enabled", false)
	v.SetDefault("advisor.base_url", "https://api.openai.com/v1")
	v.SetDefault("advisor.model", "gpt-4.1")
	v.SetDefault("advisor.timeout", "15s")

	v.SetDefault("database.path", "data/meanrev.db")
	v.SetDefault("database.max_open_conns", 4)
	v.SetDefault("database.max_idle_conns", 4)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.in_memory", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "console")
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.output_paths", []string{"stdout"})
	v.SetDefault("logging.error_output_paths", []string{"stderr"})

	v.SetDefault("report.enabled", true)
	v.SetDefault("report.port", 8787)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
