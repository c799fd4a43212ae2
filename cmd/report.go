package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/esg-cli/internal/cost"
	"github.com/sells-group/esg-cli/internal/model"
	"github.com/sells-group/esg-cli/internal/report"
	anthropicpkg "github.com/sells-group/esg-cli/pkg/anthropic"
)

var (
	reportRegion     string
	reportScope      string
	reportPreviousMT float64
	reportJSON       bool
)

// applyScopeOverride stamps a user-supplied scope label onto the record's
// compliance metadata. An empty override keeps the calculator's default.
func applyScopeOverride(rec *model.EmissionsRecord, scope string) {
	if scope != "" {
		rec.Metadata.Scope = scope
	}
}

var reportCmd = &cobra.Command{
	Use:   "report <bill.pdf>",
	Short: "Run the full pipeline and generate a verified disclosure",
	Long:  "Extracts the bill, calculates Scope 2 emissions for the given region, generates GRI 305 disclosure prose, and verifies the prose against the calculated values.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Anthropic.Key == "" {
			return eris.New("report generation requires an anthropic api key")
		}
		if reportRegion == "" {
			return eris.New("--region is required")
		}

		limiter := apiLimiter()
		exec, err := buildExecutor(cfg.Extraction.ConfidenceThreshold,
			cfg.Extraction.EnableOCR, cfg.Extraction.EnableVision, limiter)
		if err != nil {
			return err
		}
		factors, err := loadFactorTable("")
		if err != nil {
			return err
		}

		client := anthropicpkg.NewClient(cfg.Anthropic.Key)
		gen := report.NewGenerator(client, cfg.Anthropic.ReportModel,
			cfg.Report.MaxTokens, cfg.Report.TolerancePercent, limiter)

		ledger := cost.NewLedger()
		result, err := processDocument(ctx, exec, factors, args[0], reportRegion, ledger)
		if err != nil {
			return eris.Wrap(err, "report pipeline")
		}
		if result.Emissions == nil {
			return eris.New("no usage extracted, cannot generate a report")
		}
		applyScopeOverride(result.Emissions, reportScope)

		var previousMT *float64
		if cmd.Flags().Changed("previous-mt") {
			previousMT = &reportPreviousMT
		}

		rep, err := gen.Generate(ctx, result.Emissions, previousMT)
		if err != nil {
			ledger.Add("report:"+cfg.Anthropic.ReportModel, 0)
			return eris.Wrap(err, "generate report")
		}
		ledger.Add("report:"+rep.Model, rep.GenerationCost)
		result.ReportPassed = &rep.ValidationPassed
		result.Warnings = append(result.Warnings, rep.Warnings...)
		result.TotalCostUSD = ledger.Total()

		zap.L().Info("pipeline complete",
			zap.String("document", args[0]),
			zap.Float64("total_cost_usd", result.TotalCostUSD),
			zap.Boolp("report_passed", result.ReportPassed),
		)

		if reportJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Result *model.RunResult        `json:"result"`
				Report *model.ComplianceReport `json:"report,omitempty"`
			}{result, rep})
		}

		if result.Emissions != nil {
			fmt.Printf("Emissions: %s kg CO2e (%s metric tons)\n\n",
				result.Emissions.DisplayKg(), result.Emissions.DisplayMT())
		}
		if rep != nil {
			fmt.Println(rep.ReportText)
			fmt.Println()
		}
		for _, w := range result.Warnings {
			fmt.Printf("Warning: %s\n", w)
		}
		fmt.Printf("Total cost: $%.4f\n", result.TotalCostUSD)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportRegion, "region", "", "grid region for the emission factor (required)")
	reportCmd.Flags().StringVar(&reportScope, "scope", "", "override the GHG Protocol scope label on the disclosure")
	reportCmd.Flags().Float64Var(&reportPreviousMT, "previous-mt", 0, "prior period total in metric tons CO2e, adds a period-over-period comparison")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print the full run result as JSON")
	rootCmd.AddCommand(reportCmd)
}
