package advisor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"meanrev/internal/backtest"
	"meanrev/internal/indicator"
)

const reviewTemplate = `
你是一个专业的量化策略研究员。以下是一个均值回归策略在历史数据上的回测结果与最新指标快照，请评估该标的当前是否适合继续运行此策略。

指标快照：
{{ .SnapshotJSON }}

回测绩效：
- 交易次数: {{ .Metrics.TotalTrades }}
- 胜率: {{ printf "%.2f" .WinRatePercent }}%
- 累计收益率: {{ printf "%.2f" .TotalPnLPercent }}%
- 盈利因子: {{ printf "%.2f" .Metrics.ProfitFactor }}
- 最大回撤: {{ printf "%.2f" .MaxDrawdownPercent }}%
- 夏普比率: {{ printf "%.2f" .Metrics.SharpeRatio }}
- 半衰期: {{ printf "%.2f" .HalfLife }}（过滤通过: {{ .RegimeOK }}）

请严格输出唯一的 JSON 对象，格式如下：
{
  "symbol": "{{ .Symbol }}",
  "assessment": "PROMISING|NEUTRAL|UNFAVORABLE",   // 策略在该标的上的总体评估
  "confidence": 0.0-1.0,                            // 评估信心度
  "notes": "..."                                   // 支撑结论的关键理由与风险提示
}

注意事项：
- 评估时重点关注半衰期过滤、胜率与盈利因子的一致性。
- 交易样本过少时请降低 confidence 并在 notes 中说明。
- 所有字段均需填写。
`

var tmpl = template.Must(template.New("review").Parse(reviewTemplate))

// PromptContext 用于渲染提示词。
type PromptContext struct {
	Symbol             string
	SnapshotJSON       string
	Metrics            backtest.Metrics
	WinRatePercent     float64
	TotalPnLPercent    float64
	MaxDrawdownPercent float64
	HalfLife           float64
	RegimeOK           bool
}

// BuildPrompt 将指标快照与回测结果渲染成提示词字符串。
func BuildPrompt(snapshot indicator.Snapshot, result backtest.Result) (string, error) {
	snapshotJSONBytes, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("序列化指标快照失败: %w", err)
	}

	ctx := PromptContext{
		Symbol:             snapshot.Symbol,
		SnapshotJSON:       string(snapshotJSONBytes),
		Metrics:            result.Metrics,
		WinRatePercent:     result.Metrics.WinRate * 100,
		TotalPnLPercent:    result.Metrics.TotalPnLPercent * 100,
		MaxDrawdownPercent: result.Metrics.MaxDrawdown * 100,
		HalfLife:           result.HalfLife,
		RegimeOK:           result.RegimeOK,
	}

	var buf bytes.Buffer
	if err = tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("渲染提示词失败: %w", err)
	}

	return buf.String(), nil
}
