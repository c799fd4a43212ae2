package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/esg-cli/internal/model"
	"github.com/sells-group/esg-cli/pkg/anthropic"
)

const reportSystemPrompt = `You are a sustainability reporting specialist producing GRI 305 compliant greenhouse gas disclosures.

Rules:
- Use ONLY the emissions data provided. Never estimate, extrapolate, or invent values.
- State every numeric value exactly as given, in metric tons CO2e.
- Name the scope, the calculation methodology, the emission factor and its source, and the reporting period.
- Reference GRI 305 and the GHG Protocol Corporate Standard.
- Write formal disclosure prose, not bullet points.`

const reportUserPromptFormat = `Write a GRI 305 greenhouse gas emissions disclosure section from this calculated data:

Scope: %s
Standard: %s
Organizational boundary: %s
Reporting period: %s

Activity data: %g %s
Region: %s
Emission factor: %g %s (source: %s, version %s)
GWP reference: %s
Calculation: %s
Total emissions: %s kg CO2e = %s metric tons CO2e
%s
State the total as %s metric tons CO2e. Do not convert to other units.`

// minReportLength is the character count below which generated prose is
// flagged as suspiciously short.
const minReportLength = 200

// factor sanity bounds, kg CO2e per unit of activity data
const (
	minPlausibleFactor = 0.05
	maxPlausibleFactor = 10.0
)

// Generator produces disclosure prose from a calculated EmissionsRecord and
// verifies the prose against the record before returning it.
type Generator struct {
	client           anthropic.Client
	model            string
	maxTokens        int64
	tolerancePercent float64
	limiter          *rate.Limiter
}

// NewGenerator builds a Generator. limiter may be nil to disable
// client-side rate limiting.
func NewGenerator(client anthropic.Client, modelID string, maxTokens int64, tolerancePercent float64, limiter *rate.Limiter) *Generator {
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	if tolerancePercent <= 0 {
		tolerancePercent = 0.1
	}
	return &Generator{
		client:           client,
		model:            modelID,
		maxTokens:        maxTokens,
		tolerancePercent: tolerancePercent,
		limiter:          limiter,
	}
}

// validateSource rejects records that cannot back an auditable disclosure.
// The check runs before any API spend.
func validateSource(rec *model.EmissionsRecord) error {
	switch {
	case rec == nil:
		return eris.New("report: nil emissions record")
	case rec.EmissionsMT < 0:
		return eris.Errorf("report: negative emissions value %g", rec.EmissionsMT)
	case rec.Formula == "":
		return eris.New("report: record has no calculation formula")
	case rec.Audit.FactorSource == "":
		return eris.New("report: record has no emission factor source")
	case rec.Metadata.ReportingPeriod == "":
		return eris.New("report: record has no reporting period")
	case rec.Factor < minPlausibleFactor || rec.Factor > maxPlausibleFactor:
		return eris.Errorf("report: emission factor %g outside plausible range [%g, %g]",
			rec.Factor, minPlausibleFactor, maxPlausibleFactor)
	}
	return nil
}

// Generate writes a disclosure for rec and verifies it. previousMT, when
// non-nil, is the prior period's total and produces a period-over-period
// comparison in the prose. The returned report carries the API cost even
// when verification finds problems; a transport or API error returns before
// any cost exists.
func (g *Generator) Generate(ctx context.Context, rec *model.EmissionsRecord, previousMT *float64) (*model.ComplianceReport, error) {
	if err := validateSource(rec); err != nil {
		return nil, err
	}

	comparison := ""
	if previousMT != nil {
		comparison = fmt.Sprintf("Previous period emissions: %.6f metric tons CO2e. Include a period-over-period comparison.\n", *previousMT)
	}

	userPrompt := fmt.Sprintf(reportUserPromptFormat,
		rec.Metadata.Scope,
		rec.Metadata.Standard,
		rec.Metadata.Boundary,
		rec.Metadata.ReportingPeriod,
		rec.InputValue, rec.InputUnit,
		rec.Region,
		rec.Factor, rec.Audit.FactorUnit, rec.Audit.FactorSource, rec.Audit.FactorsVersion,
		rec.Audit.GWPReference,
		rec.Formula,
		rec.DisplayKg(), rec.DisplayMT(),
		comparison,
		rec.DisplayMT(),
	)

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "report: rate limiter")
		}
	}

	temp := 0.0
	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       g.model,
		MaxTokens:   g.maxTokens,
		System:      []anthropic.SystemBlock{{Text: reportSystemPrompt}},
		Messages:    []anthropic.Message{{Role: "user", Content: userPrompt}},
		Temperature: &temp,
	})
	if err != nil {
		return nil, eris.Wrap(err, "report: generation request")
	}
	resp.Usage.LogCost(g.model, "generate_report")

	text := strings.TrimSpace(resp.Text())
	out := &model.ComplianceReport{
		ReportText:     text,
		SourceData:     *rec,
		GenerationCost: resp.Usage.EstimateCost(g.model),
		GeneratedAt:    time.Now().UTC(),
		Model:          g.model,
	}

	accurate, warning := VerifyAccuracy(text, rec.EmissionsMT, g.tolerancePercent, DefaultUnitVariants)
	out.ValidationPassed = accurate
	if warning != "" {
		out.Warnings = append(out.Warnings, warning)
	}
	if missing := CheckCompleteness(text); len(missing) > 0 {
		out.Warnings = append(out.Warnings, fmt.Sprintf("report missing topics: %s", strings.Join(missing, ", ")))
	}
	if len(text) < minReportLength {
		out.Warnings = append(out.Warnings, fmt.Sprintf("report suspiciously short (%d chars)", len(text)))
	}

	if !accurate {
		zap.L().Warn("generated report failed accuracy verification",
			zap.String("warning", warning),
			zap.Float64("expected_mtco2e", rec.EmissionsMT))
	}
	return out, nil
}
