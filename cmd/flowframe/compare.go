package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flowframe/pkg/visualtest"
)

func newCompareCmd(c *cli) *cobra.Command {
	opts := visualtest.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "compare <actual.png> <expected.png>",
		Short: "Compare two rendered scenes pixel by pixel.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := visualtest.CompareImages(args[0], args[1], opts)
			if err != nil {
				return err
			}
			c.log.Debug("images compared",
				zap.Int("different_pixels", res.DifferentPixels),
				zap.Int("max_difference", res.MaxDifference))
			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d pixels differ (%.2f%%), max channel difference %d\n",
				res.DifferentPixels, res.TotalPixels, res.DifferentPercent(), res.MaxDifference)
			if !res.Match {
				return fmt.Errorf("%s does not match %s", args[0], args[1])
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Tolerance, "tolerance", opts.Tolerance, "max per-channel difference (0-255)")
	cmd.Flags().IntVar(&opts.FuzzyRadius, "fuzzy", 0, "match against neighbours within this radius")
	cmd.Flags().Float64Var(&opts.MaxDifferentPercent, "max-diff", 0, "pass when at most this percent of pixels differ")
	cmd.Flags().StringVar(&opts.DiffImagePath, "diff", "", "write a diff image here on mismatch")
	return cmd
}
