// Package cli implements the rxlens command line interface: local analysis
// of prescription photos and text without a running API server.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rxlens/rxlens/internal/application/analysis"
	"github.com/rxlens/rxlens/internal/config"
	"github.com/rxlens/rxlens/internal/fda"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/internal/ocr"
	"github.com/rxlens/rxlens/internal/parsing"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Output     string
	Timeout    time.Duration
}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rxlens",
		Short: "RxLens CLI for prescription photo and text analysis",
		Long: "RxLens analyzes prescription photos and medical documents: OCR, medication\n" +
			"extraction, drug-name validation and medication information lookup.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: environment only)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.Output, "output", "o", "text", "output format (text, json)")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "global operation timeout")

	cmd.AddCommand(
		NewAnalyzeCommand(opts),
		NewParseCommand(opts),
		NewValidateCommand(opts),
		NewLookupCommand(opts),
	)
	return cmd
}

// Execute runs the CLI, wiring signal handling into the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// Shared initialization
// ---------------------------------------------------------------------------

func (o *RootOptions) loadConfig() (*config.Config, error) {
	if o.ConfigPath != "" {
		return config.Load(o.ConfigPath)
	}
	return config.LoadFromEnv()
}

func (o *RootOptions) newLogger(cfg *config.Config) logging.Logger {
	logCfg := cfg.Log
	if o.LogLevel != "" {
		logCfg.Level = o.LogLevel
	}
	logCfg.Output = "stderr"

	logger, err := logging.New(logCfg)
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// newService assembles a local analysis service: OCR providers per config,
// the structured parser with its remote backend when configured, and the
// medication lookup client. No database, cache or broker is wired.
func (o *RootOptions) newService(cfg *config.Config, logger logging.Logger) *analysis.Service {
	var providers []ocr.Provider
	if cfg.OCR.TesseractEnabled {
		providers = append(providers, ocr.NewTesseractProvider(cfg.OCR, logger))
	}
	if cfg.OCR.RemoteEnabled && cfg.OCR.RemoteURL != "" {
		providers = append(providers, ocr.NewRemoteProvider(cfg.OCR, logger))
	}
	var race *ocr.Race
	if len(providers) > 0 {
		race = ocr.NewRace(providers, cfg.OCR.EarlyExitConfidence, cfg.OCR.ConfidenceTolerance, logger, nil)
	}

	parser := parsing.NewParser(parsing.NewRemoteClient(cfg.Parsing, logger), nil, logger, nil)

	return analysis.NewService(cfg.Upload, analysis.Deps{
		Race:   race,
		Parser: parser,
		FDA:    fda.NewClient(cfg.FDA, logger, nil),
		Logger: logger,
	})
}

// ---------------------------------------------------------------------------
// Output helpers
// ---------------------------------------------------------------------------

// printResult renders v as indented JSON, or calls text() for the human
// readable form.
func printResult(cmd *cobra.Command, format string, v interface{}, text func() string) error {
	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	fmt.Fprintln(cmd.OutOrStdout(), text())
	return nil
}
