// cmd/sokoreach/run.go
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nthenge/sokoreach/internal/api"
	"github.com/nthenge/sokoreach/internal/campaign"
	"github.com/nthenge/sokoreach/internal/compose"
	"github.com/nthenge/sokoreach/internal/config"
	appErrors "github.com/nthenge/sokoreach/internal/errors"
	"github.com/nthenge/sokoreach/internal/history"
	"github.com/nthenge/sokoreach/internal/ingest"
	"github.com/nthenge/sokoreach/internal/metrics"
	"github.com/nthenge/sokoreach/internal/model"
	"github.com/nthenge/sokoreach/internal/queue"
	"github.com/nthenge/sokoreach/internal/ratelimit"
	"github.com/nthenge/sokoreach/internal/report"
	"github.com/nthenge/sokoreach/internal/repository"
	"github.com/nthenge/sokoreach/internal/sender"
	"github.com/nthenge/sokoreach/internal/store"
)

var (
	flagCSV        string
	flagFromDB     bool
	flagDryRun     bool
	flagResume     bool
	flagFresh      bool
	flagTest       bool
	flagStatusAddr string
	flagSeed       int64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the outreach campaign",
	RunE:  runCampaign,
}

func init() {
	runCmd.Flags().StringVar(&flagCSV, "csv", "", "recipient CSV file")
	runCmd.Flags().BoolVar(&flagFromDB, "from-db", false, "load recipients from the leads database")
	runCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "compose everything but send nothing")
	runCmd.Flags().BoolVar(&flagResume, "resume", false, "continue from the last saved position")
	runCmd.Flags().BoolVar(&flagFresh, "fresh", false, "discard saved progress and sending stats before starting")
	runCmd.Flags().BoolVar(&flagTest, "test", false, "use the fast test pacing profile")
	runCmd.Flags().StringVar(&flagStatusAddr, "status-addr", "", "serve the status API on this address")
	runCmd.Flags().Int64Var(&flagSeed, "seed", 0, "random seed, 0 seeds from the clock")
	rootCmd.AddCommand(runCmd)
}

func runCampaign(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recipients, source, err := loadRecipients(ctx, cfg)
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
	rng := rand.New(rand.NewSource(seed))

	rlCfg := cfg.RateLimit()
	policy := ratelimit.NewPolicy(rlCfg, nil, rng)

	st := store.NewFileStore(cfg.DataDir)
	if cfg.Fresh {
		if err := st.Reset(); err != nil {
			return fmt.Errorf("discard saved state: %w", err)
		}
		log.Println("✅ Discarded saved progress and sending stats")
	}
	savedProgress, savedState, err := st.Load()
	if err != nil {
		log.Println("⚠️ Could not load saved state:", err)
	}
	// Sending stats always carry over so daily caps survive restarts,
	// unless the operator asked for a fresh start. Progress only carries
	// over on an explicit resume.
	if savedState != nil {
		policy.Restore(*savedState)
		log.Printf("📥 Restored sending stats: %d sent today, %d total", savedState.SentToday, savedState.TotalSent)
	}
	progress := model.NewCampaignProgress(len(recipients))
	if cfg.Resume && savedProgress != nil {
		progress = savedProgress
	}

	var snd sender.MessageSender
	if cfg.DryRun {
		log.Println("🧪 DRY RUN MODE - no messages will be sent")
		snd = &sender.DryRunSender{}
	} else {
		snd = sender.NewGatewaySender(cfg.GatewayURL, cfg.GatewayToken, cfg.GatewayTimeout)
	}

	agg := metrics.NewAggregator(len(recipients))

	runner := &campaign.Runner{
		Policy:   policy,
		Composer: compose.NewComposer(rng),
		Sender:   snd,
		Metrics:  agg,
		Store:    st,
	}

	var archive *history.Log
	if cfg.HistoryPath != "" {
		archive, err = history.Open(cfg.HistoryPath)
		if err != nil {
			log.Println("⚠️ Delivery history disabled:", err)
			archive = nil
		} else {
			defer archive.Close()
			runner.Archive = archive
		}
	}

	events := queue.Publisher(queue.NoopPublisher{})
	if cfg.AMQPURL != "" {
		pub, err := queue.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			log.Println("⚠️ Event publishing disabled:", err)
		} else {
			defer pub.Close()
			events = pub
		}
	}
	runner.Events = events

	var statusSrv *http.Server
	if cfg.StatusAddr != "" {
		holder := api.NewHolder()
		srv := &api.StatusServer{
			Holder:      holder,
			DailyLimit:  rlCfg.MaxPerDay,
			HourlyLimit: rlCfg.MaxPerHour,
		}
		if archive != nil {
			srv.History = archive
		}
		statusSrv = srv.Start(cfg.StatusAddr)
		runner.Status = holder
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			statusSrv.Shutdown(shutdownCtx)
		}()
	}

	log.Printf("🚀 Starting campaign: %d recipients from %s", len(recipients), source)
	if err := events.PublishLifecycle("campaign_started", progress.Clone()); err != nil {
		log.Println("⚠️ Could not publish start event:", err)
	}

	started := time.Now()
	outcome, err := runner.Run(ctx, recipients, progress)
	if err != nil {
		return err
	}

	m := agg.Finalize(started, time.Now())
	printSummary(outcome, progress, m, policy)
	writeReports(cfg, source, progress, policy.Snapshot(), rlCfg, m)

	if err := events.PublishLifecycle("campaign_finished", progress.Clone()); err != nil {
		log.Println("⚠️ Could not publish finish event:", err)
	}

	if outcome == model.CampaignAborted {
		log.Println("🛑 Campaign aborted, progress saved for resume")
	} else {
		log.Println("✅ Campaign complete")
	}
	return nil
}

// applyRunFlags lets explicit command line flags win over environment values.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("csv") {
		cfg.CSVPath = flagCSV
		cfg.UseDB = false
	}
	if cmd.Flags().Changed("from-db") {
		cfg.UseDB = flagFromDB
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = flagDryRun
	}
	if cmd.Flags().Changed("resume") {
		cfg.Resume = flagResume
	}
	if cmd.Flags().Changed("fresh") {
		cfg.Fresh = flagFresh
	}
	if cmd.Flags().Changed("test") {
		cfg.TestMode = flagTest
	}
	if cmd.Flags().Changed("status-addr") {
		cfg.StatusAddr = flagStatusAddr
	}
	if cmd.Flags().Changed("seed") {
		cfg.RandomSeed = flagSeed
	}
}

func loadRecipients(ctx context.Context, cfg *config.Config) ([]model.Recipient, string, error) {
	if cfg.UseDB {
		db, err := repository.OpenPostgres(cfg.LeadsDSN)
		if err != nil {
			return nil, "", err
		}
		defer db.Close()

		repo := &repository.LeadRepository{DB: db}
		recipients, err := repo.ListLeads(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("list leads: %w", err)
		}
		log.Printf("📥 Loaded %d leads from the database", len(recipients))
		return recipients, "leads database", nil
	}

	recipients, summary, err := ingest.LoadCSV(cfg.CSVPath)
	if err != nil {
		return nil, "", err
	}
	log.Printf("📥 Loaded %d of %d rows from %s (%.1f%% valid)",
		summary.ValidRows, summary.TotalRows, cfg.CSVPath, summary.SuccessRate())
	for _, rowErr := range summary.Errors {
		log.Println("⚠️ Skipped", rowErr)
	}
	return recipients, cfg.CSVPath, nil
}

func printSummary(outcome model.CampaignOutcome, progress *model.CampaignProgress, m model.CampaignMetrics, policy *ratelimit.Policy) {
	log.Println("📊 Campaign summary")
	log.Printf("   Outcome:   %s", outcome)
	log.Printf("   Processed: %d of %d", progress.Processed, progress.TotalRecipients)
	log.Printf("   Sent:      %d (creation %d, enhancement %d)", progress.Sent, m.CreationMessages, m.EnhancementMessages)
	log.Printf("   Failed:    %d", progress.Failed)
	log.Printf("   Skipped:   %d", progress.Skipped)
	log.Printf("   Success:   %.1f%%", m.SuccessRate)
	if m.Sent > 0 {
		log.Printf("   Send time: min %.2fs avg %.2fs max %.2fs", m.MinSendSeconds, m.AvgSendSeconds, m.MaxSendSeconds)
	}
	day, hour := policy.Remaining()
	if day >= 0 {
		log.Printf("   Daily quota left:  %d", day)
	}
	if hour >= 0 {
		log.Printf("   Hourly quota left: %d", hour)
	}
	for _, te := range m.TopErrors {
		log.Printf("   Error %q: %d", te.Error, te.Count)
	}
}

func writeReports(cfg *config.Config, source string, progress *model.CampaignProgress, state model.SendingState, rlCfg ratelimit.Config, m model.CampaignMetrics) {
	rep := report.Build(source, cfg.DryRun, progress, state, rlCfg)
	exp := &report.Exporter{Dir: cfg.ReportDir}

	if path, err := exp.WriteJSON(rep); err != nil {
		log.Println("⚠️ Could not write campaign report:", err)
	} else {
		log.Println("📄 Campaign report:", path)
	}
	if path, err := exp.WriteResultsCSV(progress.Results); err != nil {
		log.Println("⚠️ Could not write results CSV:", err)
	} else {
		log.Println("📄 Results CSV:", path)
	}
	if path, err := exp.WriteSummaryCSV(rep); err != nil {
		log.Println("⚠️ Could not write summary CSV:", err)
	} else {
		log.Println("📄 Summary CSV:", path)
	}
	if path, err := exp.WriteMetricsJSON(m); err != nil {
		log.Println("⚠️ Could not write analytics:", err)
	} else {
		log.Println("📄 Analytics:", path)
	}
}
