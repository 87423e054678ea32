package advisor

import (
	"errors"
	"fmt"
	"strings"
)

// Review 表示大模型对一次回测结果的点评。
type Review struct {
	Symbol     string  `json:"symbol"`
	Assessment string  `json:"assessment"`
	Confidence float64 `json:"confidence"`
	Notes      string  `json:"notes"`
}

var validAssessments = map[string]struct{}{
	"PROMISING":   {},
	"NEUTRAL":     {},
	"UNFAVORABLE": {},
}

// Validate 校验点评字段合法性。
func (r Review) Validate() error {
	if strings.TrimSpace(r.Symbol) == "" {
		return errors.New("symbol 不能为空")
	}

	assessment := strings.ToUpper(strings.TrimSpace(r.Assessment))
	if assessment == "" {
		return errors.New("assessment 不能为空")
	}
	if _, ok := validAssessments[assessment]; !ok {
		return fmt.Errorf("assessment 字段取值非法: %s", r.Assessment)
	}

	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence 必须在 [0,1] 区间，目前为 %f", r.Confidence)
	}

	if strings.TrimSpace(r.Notes) == "" {
		return errors.New("notes 不能为空")
	}

	return nil
}
