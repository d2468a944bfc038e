package main

import (
	"fmt"

	"revet/internal/githook"

	"github.com/spf13/cobra"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Review the files staged for commit (pre-commit hook mode)",
	Long: `Reviews every reviewable file staged in the git index and exits
nonzero when any of them fails the severity threshold. Install it as
.git/hooks/pre-commit:

    #!/bin/sh
    exec revet hook`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reviewer, err := newReviewer(!noExternal)
		if err != nil {
			return err
		}

		staged, err := githook.StagedFiles(reviewer.Root())
		if err != nil {
			return err
		}
		if len(staged) == 0 {
			fmt.Println("no staged files to review")
			return nil
		}

		threshold, err := resolveThreshold()
		if err != nil {
			return err
		}

		reports, err := reviewFiles(cmd, reviewer, staged, threshold)
		if err != nil {
			return err
		}
		return printReports(reports)
	},
}

func init() {
	hookCmd.Flags().StringVar(&thresholdFlag, "threshold", "", "severity that fails the review (critical, high, medium, low)")
	hookCmd.Flags().BoolVar(&noExternal, "no-external", false, "skip external scanners, pattern rules only")
	hookCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit reports as JSON")
}
