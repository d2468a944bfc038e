package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scannersCmd = &cobra.Command{
	Use:   "scanners",
	Short: "Show which external scanners are installed and usable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reviewer, err := newReviewer(true)
		if err != nil {
			return err
		}

		for _, sc := range reviewer.Scanners() {
			status := "not installed"
			if sc.Available {
				status = "available (" + sc.Bin + ")"
			}
			fmt.Printf("%-10s %s\n", sc.Tool.Name(), status)
		}
		return nil
	},
}
