package main

import (
	"errors"
	"fmt"

	"revet/internal/finding"
	"revet/internal/review"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// errThresholdExceeded signals that at least one reviewed file failed
// its severity threshold. main maps it to the exit code; it is a
// verdict, not a command failure, so nothing is logged for it.
var errThresholdExceeded = errors.New("review failed severity threshold")

// reviewConcurrency bounds how many files are reviewed at once. Each
// file already fans out to every scanner, so this stays small.
const reviewConcurrency = 4

var (
	thresholdFlag string
	noExternal    bool
	jsonOutput    bool
)

var reviewCmd = &cobra.Command{
	Use:   "review [files...]",
	Short: "Review files with pattern rules and installed scanners",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reviewer, err := newReviewer(!noExternal)
		if err != nil {
			return err
		}

		threshold, err := resolveThreshold()
		if err != nil {
			return err
		}

		reports, err := reviewFiles(cmd, reviewer, args, threshold)
		if err != nil {
			return err
		}

		return printReports(reports)
	},
}

func init() {
	reviewCmd.Flags().StringVar(&thresholdFlag, "threshold", "", "severity that fails the review (critical, high, medium, low)")
	reviewCmd.Flags().BoolVar(&noExternal, "no-external", false, "skip external scanners, pattern rules only")
	reviewCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit reports as JSON")
}

// resolveThreshold gives the --threshold flag priority over the
// configured default.
func resolveThreshold() (finding.Severity, error) {
	if thresholdFlag == "" {
		return cfg.Threshold, nil
	}
	return finding.ParseSeverity(thresholdFlag)
}

// reviewFiles reviews the given paths with bounded parallelism and
// returns reports in input order. A request-level failure on any file
// (bad path, unreadable file) aborts the batch; review verdicts do not.
func reviewFiles(cmd *cobra.Command, reviewer *review.Reviewer, paths []string, threshold finding.Severity) ([]*finding.Report, error) {
	reports := make([]*finding.Report, len(paths))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(reviewConcurrency)
	for i, path := range paths {
		g.Go(func() error {
			report, err := reviewer.ReviewFile(ctx, path, "", review.Options{
				IncludeExternal: !noExternal,
				Threshold:       threshold,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// printReports renders the reports and returns errThresholdExceeded
// when any file failed its threshold.
func printReports(reports []*finding.Report) error {
	failed := false
	for _, report := range reports {
		if !report.Passed {
			failed = true
		}
	}

	if jsonOutput {
		out, err := review.RenderJSON(reports)
		if err != nil {
			return err
		}
		fmt.Println(out)
	} else {
		for _, report := range reports {
			fmt.Print(review.RenderText(report))
		}
	}

	if failed {
		return errThresholdExceeded
	}
	return nil
}
