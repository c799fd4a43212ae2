package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/esg-cli/internal/report"
	anthropicpkg "github.com/sells-group/esg-cli/pkg/anthropic"
)

var categorizeCmd = &cobra.Command{
	Use:   "categorize <activity description>",
	Short: "Categorize an activity into a GHG Protocol scope",
	Long:  "Classifies an activity description as Scope 1, Scope 2, Scope 3, or Unknown per the GHG Protocol, with reasoning. Ambiguous activities come back Unknown rather than guessed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Anthropic.Key == "" {
			return eris.New("scope categorization requires an anthropic api key")
		}

		client := anthropicpkg.NewClient(cfg.Anthropic.Key)
		c := report.NewCategorizer(client, cfg.Anthropic.ReportModel, apiLimiter())

		cat, err := c.Categorize(cmd.Context(), args[0])
		if err != nil {
			return eris.Wrap(err, "categorize")
		}

		zap.L().Info("activity categorized",
			zap.String("scope", cat.Scope),
			zap.Float64("cost_usd", cat.CostUSD),
		)
		return printJSON(cat)
	},
}

func init() {
	rootCmd.AddCommand(categorizeCmd)
}
