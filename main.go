package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"traydock/config"
	"traydock/tray"
)

var (
	Version   = "1.0.0"
	StartTime time.Time
)

// Command line flags
var (
	configPath string
	port       int
	logLevel   string
	logDir     string
	noTray     bool
)

var rootCmd = &cobra.Command{
	Use:   "traydock",
	Short: "Tray-resident controller for a drop-down terminal window",
	Long: `traydock keeps a single terminal window one hotkey or tray click away.
It owns the window's visibility, the tray badge, the toggle shortcut and the
persisted window preferences. The window frontend attaches over a local
HTTP surface.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the controller (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

var configPathCmd = &cobra.Command{
	Use:   "config-path",
	Short: "Print the config and preferences file locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		settings, err := cfg.ResolveSettingsPath()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "config:   %s\nsettings: %s\n", path, settings)
		return nil
	},
}

var badgeIconCmd = &cobra.Command{
	Use:   "badge-icon",
	Short: "Generate the unread badge icon from the tray icon",
	Long: `badge-icon draws a red dot onto the tray icon found in the configured
resource directory (or the built-in icon) and saves it as the badge variant
shown while there is unread output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		path, err := tray.WriteBadgeIcon(cfg.ResourceDirectory())
		if err != nil {
			return fmt.Errorf("failed to create badge icon: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "traydock %s\n", Version)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to config file (default: XDG config home)")
	flags.IntVar(&port, "port", 0, "Server port (overrides config)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flags.StringVar(&logDir, "log-dir", "", "Log directory (overrides config)")
	flags.BoolVar(&noTray, "no-tray", false, "Disable system tray (run as console only)")

	rootCmd.AddCommand(badgeIconCmd)
	rootCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	StartTime = time.Now()

	setupLogger()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the config file and applies command line overrides
func loadConfig() (*config.Config, string, error) {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, "", fmt.Errorf("failed to resolve config path: %w", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if port > 0 {
		cfg.Port = port
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logDir != "" {
		cfg.LogDir = logDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, path, nil
}

func setupLogger() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05.000",
	})
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
