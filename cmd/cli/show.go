package main

import (
	"dsbench/pkg/engine"
	"dsbench/pkg/render"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newShowCmd())
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the dataset as seen by each structure",
		Long: `The show command loads the dataset and prints one line per structure:
insertion order, hash order, ascending order and sparse index order.

Example:
  dsctl show --int-str 3,1,2 --no-bench
  dsctl show --int-str 3,1,2 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(e *engine.Engine) error {
				if jsonOut {
					return printJSON(cmd.OutOrStdout(), e.Store().Snapshot())
				}
				return render.Dataset(cmd.OutOrStdout(), e.Store())
			})
		},
	}
}
