package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/meenmo/cpilib/config"
	"github.com/meenmo/cpilib/errs"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // a curve or bond failed to price
	ExitCommandError = 2 // bad flags, unreadable or invalid input
)

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errs.ErrInvalidInput), errors.Is(err, errUsage):
		return ExitCommandError
	default:
		return ExitFailure
	}
}

var errUsage = errors.New("usage")

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	FixingsDSN string

	cfg    config.Config
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the cpibond command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cpibond",
		Short: "Inflation curve bootstrap and CPI bond pricing",
		Long: `Bootstrap zero-coupon inflation curves from ZC swap quotes and price
CPI-linked bonds off them, or from a quoted yield.

Inputs are YAML market-data documents holding the index, its fixings, a
nominal discount curve, the swap quotes and the bonds.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("%w: invalid format %q: must be one of %v", errUsage, opts.Format, ValidFormats)
			}

			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger.Debug("configuration loaded",
				"path", opts.ConfigPath,
				"bootstrap_accuracy", cfg.Bootstrap.Accuracy,
				"yield_accuracy", cfg.Yield.Accuracy,
				"concurrency", cfg.Batch.Concurrency)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "solver configuration file (YAML, JSON or TOML)")
	cmd.PersistentFlags().StringVar(&opts.FixingsDSN, "fixings-dsn", "",
		"fixings database: a postgres DSN, or sqlite3://<path>")

	cmd.AddCommand(NewCurveCommand(opts))
	cmd.AddCommand(NewPriceCommand(opts))
	cmd.AddCommand(NewYieldCommand(opts))
	cmd.AddCommand(NewFixingsCommand(opts))

	return cmd
}
