package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rohan-g0re/stratdeck/internal/config"
	"github.com/rohan-g0re/stratdeck/internal/log"
	"github.com/rohan-g0re/stratdeck/internal/notify"
)

var (
	cfgPath    string
	backendURL string
	debug      bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "stratdeck",
	Short: "Stratdeck - live strategy analysis dashboard",
	Long:  `A terminal dashboard for watching a multi-agent stock analysis pipeline: stage progress, move negotiations, and the final scored leaderboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgPath
		if path == "" {
			path = config.DefaultPath()
		}
		loaded, err := config.LoadOrCreate(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded

		if backendURL != "" {
			cfg.Backend.URL = backendURL
		}

		if debug || log.EnabledByEnv() {
			level := log.ParseLevel(cfg.Logging.Level)
			if debug {
				level = log.LevelDebug
			}
			if err := log.Setup(logPath(cfg), level); err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Close()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug logs")
}

func logPath(cfg *config.Config) string {
	if cfg.Logging.File != "" {
		return cfg.Logging.File
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "stratdeck.log"
	}
	return filepath.Join(dir, "stratdeck", "stratdeck.log")
}

// newNotifier assembles the notifier set the config asks for. Always
// non-nil; an empty manager just swallows notifications.
func newNotifier(cfg *config.Config) *notify.Manager {
	var notifiers []notify.Notifier
	if cfg.Notifications.Terminal {
		notifiers = append(notifiers, notify.NewBellNotifier())
	}
	if cfg.Notifications.Desktop {
		if d, err := notify.NewDesktopNotifier(); err == nil {
			notifiers = append(notifiers, d)
		} else {
			log.Warn("notify", "desktop notifications unavailable: %v", err)
		}
	}
	return notify.NewManager(notifiers...)
}

func requestTimeout(cfg *config.Config) time.Duration {
	d, err := time.ParseDuration(cfg.Backend.RequestTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}
