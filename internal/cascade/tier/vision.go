package tier

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/esg-cli/internal/cascade"
	"github.com/sells-group/esg-cli/internal/extract"
	"github.com/sells-group/esg-cli/internal/model"
	"github.com/sells-group/esg-cli/pkg/anthropic"
)

// visionSystemPrompt carries the meter-reading rules that matter most in
// practice: many bills state only the previous and current readings, and
// the model has to do the subtraction itself instead of reporting either
// raw reading or a 12-month average.
const visionSystemPrompt = `You are an expert utility bill data extractor. You read electricity, gas, and water bills and extract structured data.

You ALWAYS return valid JSON in this exact format:
{
  "account_number": "string or null",
  "service_start_date": "YYYY-MM-DD or null",
  "service_end_date": "YYYY-MM-DD or null",
  "total_usage": number or null,
  "usage_unit": "kWh|MWh|therms|CCF or null",
  "total_cost": number or null
}

CRITICAL RULES FOR METER READINGS:
1. If you see "Previous Reading" and "Present Reading" or "Current Reading",
   CALCULATE: Present/Current - Previous = Usage.
2. Do NOT report one of the readings as usage. Do the subtraction yourself.

For total_usage:
- Find BILLED usage for the CURRENT period ONLY.
- NEVER use "average monthly usage" or historical totals.
- Look for a "Usage" column in tables first; if absent, subtract the readings.

Example: "Previous Reading: 12258, Present Reading: 12512" means
total_usage is 254, not 12258 and not 12512.

Return ONLY raw JSON with no markdown, no backticks, no explanatory text.
If a field is not found, use null.`

const visionUserPrompt = "Extract the utility bill data from this PDF and return as JSON. If you see meter readings, calculate the usage difference."

const visionTextPromptFormat = `Extract the following information from this utility bill and return as valid JSON with keys account_number, service_start_date (YYYY-MM-DD), service_end_date (YYYY-MM-DD), total_usage (the BILLED usage for THIS period, NOT average or historical), usage_unit, total_cost (no $ symbol). Use null for missing fields and return only the raw JSON object.

Utility Bill:
%s`

// Vision is tier 3: hand the raw document to a multimodal model under a
// structured-output contract. The expensive last resort for layouts the
// local tiers cannot read.
type Vision struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	limiter   *rate.Limiter
}

// NewVision creates the vision tier. A nil limiter disables rate limiting.
func NewVision(client anthropic.Client, modelID string, maxTokens int64, limiter *rate.Limiter) *Vision {
	if maxTokens == 0 {
		maxTokens = 1024
	}
	return &Vision{client: client, model: modelID, maxTokens: maxTokens, limiter: limiter}
}

func (v *Vision) Name() string { return "vision" }

func (v *Vision) Method() model.Method { return model.MethodVision }

// Extract sends the document to the model and decodes the reply through
// the bill schema gate. A paid call that yields unusable output still
// reports its cost alongside the error.
func (v *Vision) Extract(ctx context.Context, doc cascade.Document) (*cascade.Attempt, error) {
	msg, err := v.buildMessage(doc)
	if err != nil {
		return nil, err
	}

	if v.limiter != nil {
		if err := v.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "tier: vision rate limit wait")
		}
	}

	temp := 0.0
	resp, err := v.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       v.model,
		MaxTokens:   v.maxTokens,
		System:      []anthropic.SystemBlock{{Text: visionSystemPrompt}},
		Messages:    []anthropic.Message{msg},
		Temperature: &temp,
	})
	if err != nil {
		// No spend recorded for a call that never completed.
		return nil, eris.Wrap(err, "tier: vision extraction")
	}

	callCost := resp.Usage.EstimateCost(v.model)
	resp.Usage.LogCost(v.model, "extract_vision")

	rec, err := extract.DecodeModelJSON(resp.Text())
	if err != nil {
		return &cascade.Attempt{CostUSD: callCost}, err
	}

	return &cascade.Attempt{Record: rec, CostUSD: callCost}, nil
}

func (v *Vision) buildMessage(doc cascade.Document) (anthropic.Message, error) {
	if doc.Path != "" {
		pdf, err := os.ReadFile(doc.Path)
		if err != nil {
			return anthropic.Message{}, eris.Wrapf(err, "tier: read PDF %s", doc.Path)
		}
		return anthropic.Message{Role: "user", Content: visionUserPrompt, DocumentPDF: pdf}, nil
	}
	if doc.Text != "" {
		return anthropic.Message{Role: "user", Content: fmt.Sprintf(visionTextPromptFormat, doc.Text)}, nil
	}
	return anthropic.Message{}, eris.New("tier: vision requires a document path or text")
}
