package app

import (
	"sync"
	"time"

	"meanrev/internal/advisor"
	"meanrev/internal/backtest"
	"meanrev/internal/indicator"
	"meanrev/internal/signal"
)

// SymbolReport 汇总单个交易对的分析产出。
type SymbolReport struct {
	Symbol      string             `json:"symbol"`
	GeneratedAt time.Time          `json:"generated_at"`
	Snapshot    indicator.Snapshot `json:"snapshot"`
	Signal      signal.Signal      `json:"signal"`
	Regime      signal.Regime      `json:"regime"`
	Backtest    backtest.Result    `json:"backtest"`
	Review      *advisor.Review    `json:"review,omitempty"`
}

// reportState 保存最近一轮分析结果，供查询接口读取。
type reportState struct {
	mu      sync.RWMutex
	reports map[string]SymbolReport
}

func newReportState() *reportState {
	return &reportState{
		reports: make(map[string]SymbolReport),
	}
}

func (s *reportState) Put(report SymbolReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.Symbol] = report
}

func (s *reportState) Get(symbol string) (SymbolReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[symbol]
	return report, ok
}

func (s *reportState) List() []SymbolReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SymbolReport, 0, len(s.reports))
	for _, report := range s.reports {
		out = append(out, report)
	}
	return out
}
