package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/esg-cli/internal/cascade"
)

var (
	extractThreshold float64
	extractNoOCR     bool
	extractNoVision  bool
	extractTextPath  string
)

var extractCmd = &cobra.Command{
	Use:   "extract <bill.pdf|->",
	Short: "Extract usage data from a utility bill",
	Long:  "Runs the tiered extraction cascade (text layer, OCR, vision) over a bill PDF and prints the extraction result as JSON.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		doc := cascade.Document{}
		switch {
		case extractTextPath != "":
			raw, err := os.ReadFile(extractTextPath)
			if err != nil {
				return eris.Wrapf(err, "read text file %s", extractTextPath)
			}
			doc.Text = string(raw)
		case len(args) == 1 && args[0] == "-":
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return eris.Wrap(err, "read stdin")
			}
			doc.Text = string(raw)
		case len(args) == 1:
			doc.Path = args[0]
		default:
			return eris.New("a bill PDF argument or --text is required")
		}

		threshold := extractThreshold
		if !cmd.Flags().Changed("threshold") {
			threshold = cfg.Extraction.ConfidenceThreshold
		}

		exec, err := buildExecutor(threshold,
			cfg.Extraction.EnableOCR && !extractNoOCR,
			cfg.Extraction.EnableVision && !extractNoVision,
			apiLimiter())
		if err != nil {
			return err
		}

		result, err := exec.Run(ctx, doc)
		if err != nil {
			return eris.Wrap(err, "extract")
		}

		zap.L().Info("extraction complete",
			zap.String("method", string(result.Method)),
			zap.Float64("confidence", result.Confidence),
			zap.Float64("cost_usd", result.CostUSD),
			zap.Bool("success", result.Success),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	extractCmd.Flags().Float64Var(&extractThreshold, "threshold", 0.85, "confidence threshold for tier acceptance")
	extractCmd.Flags().BoolVar(&extractNoOCR, "no-ocr", false, "skip the OCR tier")
	extractCmd.Flags().BoolVar(&extractNoVision, "no-vision", false, "skip the vision tier")
	extractCmd.Flags().StringVar(&extractTextPath, "text", "", "path to pre-rendered bill text (skips PDF handling)")
	rootCmd.AddCommand(extractCmd)
}
