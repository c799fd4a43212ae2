package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/esg-cli/internal/cost"
)

func TestMessageResponse_Text(t *testing.T) {
	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: "{\"total_usage\": "},
			{Type: "text", Text: "850}"},
		},
	}
	assert.Equal(t, "{\"total_usage\": 850}", resp.Text())

	empty := &MessageResponse{}
	assert.Empty(t, empty.Text())
}

func TestTokenUsage_EstimateCost(t *testing.T) {
	u := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	assert.InDelta(t, 18.00, u.EstimateCost("claude-sonnet-4-5-20250929"), 1e-9)
	assert.InDelta(t, 4.80, u.EstimateCost("claude-haiku-4-5-20251001"), 1e-9)
	assert.Zero(t, u.EstimateCost("unknown-model"))

	small := TokenUsage{InputTokens: 1200, OutputTokens: 400}
	assert.InDelta(t, 1200.0/1e6*3.00+400.0/1e6*15.00, small.EstimateCost("claude-sonnet-4-5-20250929"), 1e-12)
}

func TestTokenUsage_EstimateCostMatchesRateCard(t *testing.T) {
	calc := cost.NewCalculator(cost.DefaultRates())
	u := TokenUsage{InputTokens: 2000, OutputTokens: 150}

	for _, model := range []string{
		"claude-haiku-4-5-20251001",
		"claude-sonnet-4-5-20250929",
		"claude-opus-4-6",
	} {
		assert.InDelta(t, calc.Claude(model, u.InputTokens, u.OutputTokens), u.EstimateCost(model), 1e-12, model)
	}
}

func TestToSDKMessages(t *testing.T) {
	msgs := toSDKMessages([]Message{
		{Role: "user", Content: "extract this bill"},
		{Role: "assistant", Content: "ok"},
		{Role: "user", Content: "here", DocumentPDF: []byte("%PDF-1.4 fake")},
	})

	assert.Len(t, msgs, 3)
	assert.Len(t, msgs[2].Content, 2, "document block plus text block")
}
