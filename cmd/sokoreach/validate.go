// cmd/sokoreach/validate.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nthenge/sokoreach/internal/config"
	"github.com/nthenge/sokoreach/internal/ingest"
)

var flagValidateCSV string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a recipient file without sending anything",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&flagValidateCSV, "csv", "", "recipient CSV file")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("csv") {
		cfg.CSVPath = flagValidateCSV
	}

	recipients, summary, err := ingest.LoadCSV(cfg.CSVPath)
	if err != nil {
		return err
	}

	withSite := 0
	for _, r := range recipients {
		if r.HasWebsite() {
			withSite++
		}
	}

	fmt.Printf("File:    %s\n", cfg.CSVPath)
	fmt.Printf("Rows:    %d total, %d valid, %d invalid (%.1f%% valid)\n",
		summary.TotalRows, summary.ValidRows, summary.InvalidRows, summary.SuccessRate())
	fmt.Printf("Pitches: %d creation, %d enhancement\n", len(recipients)-withSite, withSite)
	for _, rowErr := range summary.Errors {
		fmt.Println("  -", rowErr)
	}
	if summary.InvalidRows > 0 {
		fmt.Printf("⚠️ %d rows will be skipped by a run\n", summary.InvalidRows)
	}
	return nil
}
