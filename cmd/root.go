// Package cmd provides the tether command-line tooling.
package cmd

import (
	"fmt"
	"os"
	"time"

	"tether/config"
	"tether/orm"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLI output formatters
var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
)

// Global flags
var (
	flagBackend string
	flagURL     string
	flagTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "tether",
	Short: "Inspect and bootstrap tether persistence configurations",
	Long: `tether inspects the storage behind a tether configuration:
it lists relations, dumps introspected schemas and reports
migration scripts, using the same bootstrap path applications use.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "backend identifier (overrides settings)")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "connection URL (overrides settings)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "operation timeout")
}

// initLogger initializes the zap logger with colored console output.
func initLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		lvl,
	)
	return zap.New(core).Sugar(), nil
}

// loadConfiguration builds a Configuration from settings and flag
// overrides.
func loadConfiguration() (*orm.Configuration, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if flagBackend != "" {
		settings.Backend = flagBackend
	}
	if flagURL != "" {
		settings.URL = flagURL
	}

	sugar, err := initLogger(settings.Logging.Level)
	if err != nil {
		return nil, err
	}

	return orm.New(settings, orm.WithLogger(sugar)), nil
}
