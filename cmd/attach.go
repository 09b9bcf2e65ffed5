package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rohan-g0re/stratdeck/internal/api"
)

var attachTicker string

var attachCmd = &cobra.Command{
	Use:   "attach ANALYSIS_ID",
	Short: "Attach the dashboard to a running analysis",
	Long:  `Open the dashboard on an analysis that is already running, picking up its event stream from the current point.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analysisID := args[0]
		client := api.NewClient(cfg.Backend.URL).WithTimeout(requestTimeout(cfg))

		ticker := attachTicker
		if ticker == "" {
			// Best effort: the result snapshot knows the ticker once
			// anything has completed.
			if status, err := client.GetResults(cmd.Context(), analysisID); err == nil && status.Ticker != "" {
				ticker = status.Ticker
			}
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		return watch(ctx, client, ticker, analysisID)
	},
}

func init() {
	attachCmd.Flags().StringVar(&attachTicker, "ticker", "", "ticker symbol for display")
	rootCmd.AddCommand(attachCmd)
}
