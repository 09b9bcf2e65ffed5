package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rohan-g0re/stratdeck/internal/api"
	"github.com/rohan-g0re/stratdeck/internal/log"
	"github.com/rohan-g0re/stratdeck/internal/pubsub"
	"github.com/rohan-g0re/stratdeck/internal/replay"
	"github.com/rohan-g0re/stratdeck/internal/stream"
	"github.com/rohan-g0re/stratdeck/internal/tui"
)

var captureFlag bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze TICKER",
	Short: "Start an analysis and watch it live",
	Long:  `Start a new analysis for the given ticker and open the live dashboard on its event stream.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker, err := api.ValidateTicker(args[0])
		if err != nil {
			return err
		}

		client := api.NewClient(cfg.Backend.URL).WithTimeout(requestTimeout(cfg))

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		resp, err := client.StartAnalysis(ctx, ticker)
		if err != nil {
			return fmt.Errorf("starting analysis: %w", err)
		}
		log.Info("analyze", "analysis %s started for %s", resp.AnalysisID, ticker)

		return watch(ctx, client, ticker, resp.AnalysisID)
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&captureFlag, "capture", false, "record the event stream for replay")
	rootCmd.AddCommand(analyzeCmd)
}

// watch connects the stream client to the dashboard for one analysis.
// Shared by analyze and attach.
func watch(ctx context.Context, client *api.Client, ticker, analysisID string) error {
	broker := pubsub.NewBroker[stream.Signal]()
	defer broker.Close()

	sc := &stream.Client{
		URL:            client.StreamURL(analysisID),
		MaxRetries:     cfg.Stream.MaxRetries,
		InitialBackoff: cfg.InitialBackoffDuration(),
	}

	if captureFlag || cfg.Capture.Enabled {
		w, err := newCaptureWriter(ticker, analysisID)
		if err != nil {
			return fmt.Errorf("opening capture file: %w", err)
		}
		defer w.Close()
		sc.Capture = w
	}

	signals := broker.Subscribe(ctx)
	go func() {
		if err := sc.Run(ctx, broker); err != nil {
			log.Error("stream", "stream ended: %v", err)
		}
	}()

	notifier := newNotifier(cfg)
	defer notifier.Close()

	return tui.Run(ctx, tui.Options{
		Ticker:     ticker,
		AnalysisID: analysisID,
		Client:     client,
		Signals:    signals,
		Notifier:   notifier,
	})
}

func newCaptureWriter(ticker, analysisID string) (*replay.Writer, error) {
	dir := cfg.Capture.Dir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s-%s-%s.jsonl", ticker, time.Now().Format("20060102-150405"), analysisID)
	return replay.NewWriter(filepath.Join(dir, name))
}
