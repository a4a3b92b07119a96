// cmd/sokoreach/preview.go
package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/nthenge/sokoreach/internal/compose"
	"github.com/nthenge/sokoreach/internal/config"
	appErrors "github.com/nthenge/sokoreach/internal/errors"
	"github.com/nthenge/sokoreach/internal/ingest"
)

var (
	flagPreviewCSV   string
	flagPreviewCount int
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show sample personalized messages",
	Long: `preview composes messages for the first few recipients so the
templates can be checked before a live run. Nothing is sent and no
state is touched.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&flagPreviewCSV, "csv", "", "recipient CSV file")
	previewCmd.Flags().IntVar(&flagPreviewCount, "count", 3, "number of messages to preview")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("csv") {
		cfg.CSVPath = flagPreviewCSV
	}

	recipients, _, err := ingest.LoadCSV(cfg.CSVPath)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return appErrors.ErrNoRecipients
	}

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	comp := compose.NewComposer(rand.New(rand.NewSource(seed)))

	count := flagPreviewCount
	if count > len(recipients) {
		count = len(recipients)
	}
	for i := 0; i < count; i++ {
		r := recipients[i]
		msg := comp.Compose(r)
		fmt.Printf("[%d/%d] %s (%s) - %s\n", i+1, count, r.Name, r.Phone, comp.MessageType(r))
		fmt.Println(msg)
		fmt.Println("Link:", compose.WhatsAppURL(r.Phone, msg))
		fmt.Println()
	}
	return nil
}
