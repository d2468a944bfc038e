// Package main is the entry point for the revet CLI.
//
// revet reviews source files with an in-process pattern engine and any
// installed external scanners, and can serve the same engine to AI
// assistants over MCP. The startup sequence:
//
// 1. Initialize logging
// 2. Load user configuration (defaults when none exists)
// 3. Dispatch to the requested subcommand
//
// Review verdicts are reported through the exit code: nonzero when any
// reviewed file fails the configured severity threshold.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"revet/internal/config"
	"revet/internal/logging"
	"revet/internal/review"
	"revet/internal/scanner"

	"github.com/spf13/cobra"
)

var (
	appLogger *logging.AppLogger
	cfg       *config.Config

	// --root flag: the project boundary every reviewed path must stay
	// inside.
	projectRoot string
)

var rootCmd = &cobra.Command{
	Use:           "revet",
	Short:         "revet - pattern and scanner based code review",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func main() {
	appLogger = logging.NewAppLogger()

	// A caller interrupt is the hard deadline for in-flight reviews:
	// pending scanner results are discarded, settled ones reported.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errThresholdExceeded) {
			appLogger.Error("Command failed", "error", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&projectRoot, "root", ".", "project root; reviewed paths must stay inside it")
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(scannersCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(mcpCmd)
}

// newReviewer wires a reviewer over the configured project root. When
// withScanners is true the external tools are probed here, once,
// before any review runs.
func newReviewer(withScanners bool) (*review.Reviewer, error) {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	var controller *scanner.Controller
	if withScanners {
		controller = scanner.NewController(scanner.Registry(), scanner.Options{
			Timeout:    cfg.ScannerTimeout(),
			Disabled:   cfg.DisabledScanners,
			ExtraPaths: cfg.ExtraScannerPaths,
		})
	}

	return review.NewReviewer(abs, controller)
}
