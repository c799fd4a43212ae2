package report

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/esg-cli/internal/emissions"
	"github.com/sells-group/esg-cli/internal/model"
	"github.com/sells-group/esg-cli/pkg/anthropic"
)

// fakeClient implements anthropic.Client with a canned response.
type fakeClient struct {
	resp    *anthropic.MessageResponse
	err     error
	calls   int
	lastReq anthropic.MessageRequest
}

func (f *fakeClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.calls++
	f.lastReq = req
	return f.resp, f.err
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
		Usage:   anthropic.TokenUsage{InputTokens: 1200, OutputTokens: 400},
	}
}

func sourceRecord(t *testing.T) *model.EmissionsRecord {
	t.Helper()
	rec, err := emissions.Electricity(850, "ARKANSAS", emissions.DefaultFactors(), "November 2024")
	require.NoError(t, err)
	return rec
}

const accurateDisclosure = `In accordance with GRI 305 and the GHG Protocol Corporate Standard, total Scope 2
greenhouse gas emissions for the reporting period November 2024 were 0.622200 metric tons CO2e.
The calculation methodology applies the EPA eGRID location-based emission factor for the ARKANSAS
region to 850 kWh of electricity consumption under an organizational boundary.`

func TestGenerator_HappyPath(t *testing.T) {
	client := &fakeClient{resp: textResponse(accurateDisclosure)}
	gen := NewGenerator(client, "claude-sonnet-4-5-20250929", 1024, 0.1, nil)

	rep, err := gen.Generate(context.Background(), sourceRecord(t), nil)
	require.NoError(t, err)

	assert.True(t, rep.ValidationPassed)
	assert.Empty(t, rep.Warnings)
	assert.Positive(t, rep.GenerationCost)
	assert.Equal(t, "claude-sonnet-4-5-20250929", rep.Model)
	assert.Equal(t, 1, client.calls)

	// The prompt must carry the exact display values.
	userPrompt := client.lastReq.Messages[0].Content
	assert.Contains(t, userPrompt, "0.622200")
	assert.Contains(t, userPrompt, "ARKANSAS")
	assert.Contains(t, userPrompt, "November 2024")
}

func TestGenerator_RejectsIncompleteSourceBeforeAPICall(t *testing.T) {
	client := &fakeClient{resp: textResponse(accurateDisclosure)}
	gen := NewGenerator(client, "claude-sonnet-4-5-20250929", 1024, 0.1, nil)

	rec := sourceRecord(t)
	rec.Audit.FactorSource = ""

	_, err := gen.Generate(context.Background(), rec, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "factor source")
	assert.Zero(t, client.calls, "no spend on invalid source data")
}

func TestGenerator_RejectsImplausibleFactor(t *testing.T) {
	client := &fakeClient{}
	gen := NewGenerator(client, "claude-sonnet-4-5-20250929", 1024, 0.1, nil)

	rec := sourceRecord(t)
	rec.Factor = 50.0

	_, err := gen.Generate(context.Background(), rec, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plausible range")
	assert.Zero(t, client.calls)
}

func TestGenerator_NilRecord(t *testing.T) {
	gen := NewGenerator(&fakeClient{}, "m", 1024, 0.1, nil)
	_, err := gen.Generate(context.Background(), nil, nil)
	require.Error(t, err)
}

func TestGenerator_APIErrorPropagates(t *testing.T) {
	client := &fakeClient{err: eris.New("overloaded")}
	gen := NewGenerator(client, "claude-sonnet-4-5-20250929", 1024, 0.1, nil)

	rep, err := gen.Generate(context.Background(), sourceRecord(t), nil)
	require.Error(t, err)
	assert.Nil(t, rep)
	assert.Contains(t, err.Error(), "generation request")
}

func TestGenerator_HallucinatedValueFailsValidation(t *testing.T) {
	text := `In accordance with GRI 305 and the GHG Protocol, Scope 2 emissions for the reporting
period November 2024 were 0.850 metric tons CO2e, calculated with the location-based methodology
from 850 kWh of usage.`
	client := &fakeClient{resp: textResponse(text)}
	gen := NewGenerator(client, "claude-sonnet-4-5-20250929", 1024, 0.1, nil)

	rep, err := gen.Generate(context.Background(), sourceRecord(t), nil)
	require.NoError(t, err, "a bad report is returned with failed validation, not an error")

	assert.False(t, rep.ValidationPassed)
	require.NotEmpty(t, rep.Warnings)
	assert.Contains(t, rep.Warnings[0], "HALLUCINATION DETECTED")
	assert.Positive(t, rep.GenerationCost, "the bad call still cost money")
}

func TestGenerator_PreviousPeriodComparison(t *testing.T) {
	client := &fakeClient{resp: textResponse(accurateDisclosure)}
	gen := NewGenerator(client, "claude-sonnet-4-5-20250929", 1024, 0.1, nil)

	prev := 0.59
	_, err := gen.Generate(context.Background(), sourceRecord(t), &prev)
	require.NoError(t, err)
	assert.Contains(t, client.lastReq.Messages[0].Content, "0.590000")
	assert.Contains(t, client.lastReq.Messages[0].Content, "period-over-period")
}

func TestGenerator_ShortReportWarning(t *testing.T) {
	client := &fakeClient{resp: textResponse("Scope 2 emissions: 0.622200 metric tons CO2e. GRI 305. Methodology: kWh × factor. Reporting period November 2024.")}
	gen := NewGenerator(client, "claude-sonnet-4-5-20250929", 1024, 0.1, nil)

	rep, err := gen.Generate(context.Background(), sourceRecord(t), nil)
	require.NoError(t, err)
	assert.True(t, rep.ValidationPassed)

	found := false
	for _, w := range rep.Warnings {
		if strings.HasPrefix(w, "report suspiciously short") {
			found = true
		}
	}
	assert.True(t, found, "short prose must be flagged")
}
