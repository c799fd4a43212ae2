package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/esg-cli/internal/emissions"
)

var (
	emissionsKWh     float64
	emissionsTherms  float64
	emissionsRegion  string
	emissionsPeriod  string
	emissionsFactors string
)

var emissionsCmd = &cobra.Command{
	Use:   "emissions",
	Short: "Calculate GHG emissions from usage data",
	Long:  "Applies a region emission factor to an electricity (kWh) or natural gas (therms) quantity and prints the full calculation record with its audit trail.",
	RunE: func(cmd *cobra.Command, args []string) error {
		factors, err := loadFactorTable(emissionsFactors)
		if err != nil {
			return err
		}

		switch {
		case cmd.Flags().Changed("kwh") && cmd.Flags().Changed("therms"):
			return eris.New("use either --kwh or --therms, not both")
		case cmd.Flags().Changed("kwh"):
			if emissionsRegion == "" {
				return eris.New("--region is required for electricity")
			}
			rec, err := emissions.Electricity(emissionsKWh, emissionsRegion, factors, emissionsPeriod)
			if err != nil {
				return err
			}
			return printJSON(rec)
		case cmd.Flags().Changed("therms"):
			rec, err := emissions.NaturalGas(emissionsTherms, factors, emissionsPeriod)
			if err != nil {
				return err
			}
			return printJSON(rec)
		default:
			return eris.New("either --kwh or --therms is required")
		}
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	emissionsCmd.Flags().Float64Var(&emissionsKWh, "kwh", 0, "electricity usage in kWh")
	emissionsCmd.Flags().Float64Var(&emissionsTherms, "therms", 0, "natural gas usage in therms")
	emissionsCmd.Flags().StringVar(&emissionsRegion, "region", "", "grid region for the emission factor")
	emissionsCmd.Flags().StringVar(&emissionsPeriod, "period", "", "reporting period label")
	emissionsCmd.Flags().StringVar(&emissionsFactors, "factors", "", "path to an emission-factor YAML file")
	rootCmd.AddCommand(emissionsCmd)
}
