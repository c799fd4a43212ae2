package report

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/esg-cli/pkg/anthropic"
)

const categorizeMaxTokens = 256

const categorizePromptFormat = `Categorize this activity according to GHG Protocol scopes.

Activity: %s

GHG Protocol definitions:
- Scope 1: Direct emissions from owned/controlled sources (e.g., company vehicles, on-site fuel combustion)
- Scope 2: Indirect emissions from purchased energy (e.g., electricity, steam, heating/cooling)
- Scope 3: All other indirect emissions in value chain (e.g., business travel, employee commuting, purchased goods)

IMPORTANT:
- Only categorize if you're confident based on the description
- If ambiguous or unclear, return "Unknown" with explanation
- Do not make assumptions about ownership or control

Return a JSON object with:
- scope: "Scope 1", "Scope 2", "Scope 3", or "Unknown"
- reasoning: Brief explanation (1-2 sentences max)

Return ONLY valid JSON, no markdown formatting.`

var validScopes = map[string]bool{
	"Scope 1": true,
	"Scope 2": true,
	"Scope 3": true,
	"Unknown": true,
}

var scopeJSONPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ScopeCategory is one activity's GHG Protocol classification. Ambiguity is
// a first-class outcome: an activity the model cannot confidently place
// lands in Unknown rather than a guessed scope.
type ScopeCategory struct {
	Activity  string  `json:"activity"`
	Scope     string  `json:"scope"`
	Reasoning string  `json:"reasoning"`
	CostUSD   float64 `json:"categorization_cost_usd"`
}

// Categorizer classifies activity descriptions into GHG Protocol scopes.
type Categorizer struct {
	client  anthropic.Client
	model   string
	limiter *rate.Limiter
}

// NewCategorizer builds a Categorizer. limiter may be nil to disable
// client-side rate limiting.
func NewCategorizer(client anthropic.Client, modelID string, limiter *rate.Limiter) *Categorizer {
	return &Categorizer{client: client, model: modelID, limiter: limiter}
}

// Categorize classifies one activity description. An empty description
// returns Unknown at zero cost without an API call. Unusable model output
// degrades to Unknown with the call's cost attached; only transport and
// API errors propagate as errors.
func (c *Categorizer) Categorize(ctx context.Context, activity string) (*ScopeCategory, error) {
	activity = strings.TrimSpace(activity)
	if activity == "" {
		return &ScopeCategory{
			Scope:     "Unknown",
			Reasoning: "no activity description provided",
		}, nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "report: categorize rate limit wait")
		}
	}

	temp := 0.0
	resp, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     c.model,
		MaxTokens: categorizeMaxTokens,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(categorizePromptFormat, activity)},
		},
		Temperature: &temp,
	})
	if err != nil {
		return nil, eris.Wrap(err, "report: scope categorization")
	}

	callCost := resp.Usage.EstimateCost(c.model)
	resp.Usage.LogCost(c.model, "categorize")

	cat := &ScopeCategory{Activity: activity, CostUSD: callCost}

	objText := scopeJSONPattern.FindString(resp.Text())
	var wire struct {
		Scope     string `json:"scope"`
		Reasoning string `json:"reasoning"`
	}
	if objText == "" || json.Unmarshal([]byte(objText), &wire) != nil {
		cat.Scope = "Unknown"
		cat.Reasoning = "failed to parse model response"
		return cat, nil
	}

	cat.Scope = wire.Scope
	cat.Reasoning = wire.Reasoning
	if !validScopes[cat.Scope] {
		cat.Reasoning = "invalid categorization: " + cat.Reasoning
		cat.Scope = "Unknown"
	}
	return cat, nil
}
