package backtest

// Config 定义回测参数，构造后不可变，统一传入引擎。
type Config struct {
	ZScoreLookback    int     // Z分数滚动窗口
	ZScoreThreshold   float64 // 开仓阈值（绝对值）
	StopLoss          float64 // 止损比例
	TakeProfit        float64 // 止盈比例
	MaxHoldingBars    int     // 最长持仓K线数
	UseHalfLifeFilter bool    // 是否启用半衰期过滤
	HalfLifeMax       float64 // 允许开仓的半衰期上限
	HalfLifeLookback  int     // 半衰期回归窗口
}

// DefaultConfig 返回默认回测参数。
func DefaultConfig() Config {
	return Config{
		ZScoreLookback:    50,
		ZScoreThreshold:   2.0,
		StopLoss:          0.05,
		TakeProfit:        0.10,
		MaxHoldingBars:    20,
		UseHalfLifeFilter: true,
		HalfLifeMax:       50,
		HalfLifeLookback:  100,
	}
}

func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.ZScoreLookback < 2 {
		c.ZScoreLookback = def.ZScoreLookback
	}
	if c.ZScoreThreshold <= 0 {
		c.ZScoreThreshold = def.ZScoreThreshold
	}
	if c.StopLoss <= 0 {
		c.StopLoss = def.StopLoss
	}
	if c.TakeProfit <= 0 {
		c.TakeProfit = def.TakeProfit
	}
	if c.MaxHoldingBars <= 0 {
		c.MaxHoldingBars = def.MaxHoldingBars
	}
	if c.HalfLifeMax <= 0 {
		c.HalfLifeMax = def.HalfLifeMax
	}
	if c.HalfLifeLookback < 3 {
		c.HalfLifeLookback = def.HalfLifeLookback
	}
	return c
}

// warmupBars 返回首根参与决策的K线下标。
// 在Z分数窗口之外额外预留10根，保证滚动统计稳定。
func (c Config) warmupBars() int {
	return c.ZScoreLookback + 10
}
