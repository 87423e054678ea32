package advisor

import (
	"strings"
	"testing"
)

func TestReviewValidate(t *testing.T) {
	valid := Review{
		Symbol:     "BTC/USDT",
		Assessment: "PROMISING",
		Confidence: 0.8,
		Notes:      "strong mean reversion with acceptable drawdown",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid review, got error: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Review)
	}{
		{"empty symbol", func(r *Review) { r.Symbol = " " }},
		{"empty assessment", func(r *Review) { r.Assessment = "" }},
		{"unknown assessment", func(r *Review) { r.Assessment = "AMAZING" }},
		{"confidence too high", func(r *Review) { r.Confidence = 1.5 }},
		{"confidence negative", func(r *Review) { r.Confidence = -0.1 }},
		{"empty notes", func(r *Review) { r.Notes = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			review := valid
			tc.mutate(&review)
			if err := review.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestReviewValidate_CaseInsensitiveAssessment(t *testing.T) {
	review := Review{
		Symbol:     "ETH/USDT",
		Assessment: "neutral",
		Confidence: 0.5,
		Notes:      "inconclusive sample size",
	}
	if err := review.Validate(); err != nil {
		t.Errorf("expected lowercase assessment to pass, got %v", err)
	}
}

func TestParseReview_ExtractsJSONFromProse(t *testing.T) {
	content := "Here is my assessment:\n" +
		`{"symbol":"BTC/USDT","assessment":"NEUTRAL","confidence":0.6,"notes":"few trades"}` +
		"\nLet me know if you need more detail."

	review, err := parseReview(content)
	if err != nil {
		t.Fatalf("parseReview returned error: %v", err)
	}
	if review.Symbol != "BTC/USDT" || review.Assessment != "NEUTRAL" {
		t.Errorf("unexpected review: %+v", review)
	}
	if review.Confidence != 0.6 {
		t.Errorf("expected confidence 0.6, got %f", review.Confidence)
	}
}

func TestParseReview_Errors(t *testing.T) {
	if _, err := parseReview("no json here"); err == nil {
		t.Errorf("expected error for content without JSON")
	}
	if _, err := parseReview("{invalid json}"); err == nil || !strings.Contains(err.Error(), "JSON") {
		t.Errorf("expected JSON parse error, got %v", err)
	}
}
