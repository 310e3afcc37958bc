package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/aquarank/internal/config"
)

var (
	dataPath     string
	profileID    string
	residueMax   float64
	nitratesMax  float64
	sodiumMax    float64
	quiet        bool
	verbose      bool
	outputFormat string
	outputFile   string
	logLevel     string
	topCount     int
	timeout      time.Duration
)

// exitFunc is swapped in tests.
var exitFunc = os.Exit

var rootCmd = &cobra.Command{
	Use:   "aquarank",
	Short: "Rank bottled and mineral waters against safety thresholds",
	Long: `aquarank scores every water of a catalog against residue, nitrate and
sodium limits, flags which limits each water meets, and ranks them.

Limits come from a named profile (see 'aquarank profiles') and can be
overridden one by one with --residue-max, --nitrates-max and --sodium-max.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runRank(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitFunc(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&dataPath, "data", "d", "", "Catalog file, glob pattern or http(s) URL (default data/waters.json)")
	flags.StringVarP(&profileID, "profile", "p", "", "Threshold profile (nourrisson|sensible|standard)")
	flags.Float64Var(&residueMax, "residue-max", 0, "Override the residue limit in mg/L")
	flags.Float64Var(&nitratesMax, "nitrates-max", 0, "Override the nitrates limit in mg/L")
	flags.Float64Var(&sodiumMax, "sodium-max", 0, "Override the sodium limit in mg/L")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.StringVarP(&outputFormat, "format", "f", "console", "Output format (console|json|markdown)")
	flags.StringVarP(&outputFile, "output", "o", "", "Write the report to a file instead of stdout")
	flags.StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	flags.IntVar(&topCount, "top", 3, "Number of top picks to show")
	flags.DurationVar(&timeout, "timeout", 10*time.Second, "Timeout for fetching a remote catalog")

	viper.BindPFlag("data", flags.Lookup("data"))
	viper.BindPFlag("profile", flags.Lookup("profile"))
	viper.BindPFlag("thresholds.residueMax", flags.Lookup("residue-max"))
	viper.BindPFlag("thresholds.nitratesMax", flags.Lookup("nitrates-max"))
	viper.BindPFlag("thresholds.sodiumMax", flags.Lookup("sodium-max"))
	viper.BindPFlag("quiet", flags.Lookup("quiet"))
	viper.BindPFlag("verbose", flags.Lookup("verbose"))
	viper.BindPFlag("format", flags.Lookup("format"))
	viper.BindPFlag("output", flags.Lookup("output"))
	viper.BindPFlag("logLevel", flags.Lookup("log-level"))
	viper.BindPFlag("top", flags.Lookup("top"))
	viper.BindPFlag("timeout", flags.Lookup("timeout"))
}

// newLogger builds the process logger. --verbose raises the default level
// to info.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	if cfg.Verbose && level > slog.LevelInfo {
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
