// cmd/sokoreach/main.go
package main

import (
	"log"

	"github.com/spf13/cobra"
)

const appVersion = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "sokoreach",
	Short: "Rate-limited WhatsApp outreach campaigns",
	Long: `sokoreach runs personalized outreach campaigns over WhatsApp-style
transports while staying under anti-spam heuristics: randomized
delays between messages, longer batch rests, daily and hourly caps,
and resumable progress.

Recipients come from a CSV file or the leads database. Every run
writes a JSON report plus CSV exports, and can publish attempt events
to RabbitMQ for downstream consumers.

Examples:
  sokoreach run --csv data/recipients.csv --dry-run
  sokoreach run --from-db --resume
  sokoreach validate --csv data/recipients.csv
  sokoreach preview --csv data/recipients.csv --count 3`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
