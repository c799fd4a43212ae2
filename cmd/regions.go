package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var regionsFactors string

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List available emission-factor regions",
	RunE: func(cmd *cobra.Command, args []string) error {
		factors, err := loadFactorTable(regionsFactors)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "REGION\tFACTOR (kg CO2e/kWh)")
		for _, region := range factors.Regions() {
			factor, err := factors.ElectricityFactor(region)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%g\n", region, factor)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\nSource: %s (version %s)\n", factors.DataSource, factors.Version)
		return nil
	},
}

func init() {
	regionsCmd.Flags().StringVar(&regionsFactors, "factors", "", "path to an emission-factor YAML file")
	rootCmd.AddCommand(regionsCmd)
}
