package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rohan-g0re/stratdeck/internal/log"
	"github.com/rohan-g0re/stratdeck/internal/pubsub"
	"github.com/rohan-g0re/stratdeck/internal/replay"
	"github.com/rohan-g0re/stratdeck/internal/stream"
	"github.com/rohan-g0re/stratdeck/internal/tui"
)

var (
	followFlag bool
	moveFlag   string
)

var replayCmd = &cobra.Command{
	Use:   "replay FILE",
	Short: "Render a captured event stream",
	Long: `Open the dashboard on a captured event stream instead of a live
backend. With --follow the file is tailed as it grows, so a capture
being written by another stratdeck process renders live.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		ticker := tickerFromCapture(path)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if !followFlag {
			eventLog, err := replay.Load(path)
			if err != nil {
				return fmt.Errorf("loading capture: %w", err)
			}
			return tui.Run(ctx, tui.Options{
				Ticker:     ticker,
				InitialLog: eventLog,
				FocusMove:  moveFlag,
			})
		}

		broker := pubsub.NewBroker[stream.Signal]()
		defer broker.Close()
		signals := broker.Subscribe(ctx)

		go func() {
			if err := replay.Follow(ctx, path, broker); err != nil {
				log.Error("replay", "follow ended: %v", err)
			}
		}()

		return tui.Run(ctx, tui.Options{
			Ticker:    ticker,
			Signals:   signals,
			FocusMove: moveFlag,
		})
	},
}

func init() {
	replayCmd.Flags().BoolVar(&followFlag, "follow", false, "tail the capture as it grows")
	replayCmd.Flags().StringVar(&moveFlag, "move", "", "pin the negotiation transcript to this move id")
	rootCmd.AddCommand(replayCmd)
}

// tickerFromCapture recovers the ticker from capture file names
// written by analyze --capture (TICKER-timestamp-id.jsonl).
func tickerFromCapture(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '-'); i > 0 {
		return base[:i]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
