package main

import (
	"dsbench/pkg/engine"
	"dsbench/pkg/render"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newBenchCmd())
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Run the insert/lookup benchmark and print the tables",
		Long: `The bench command loads the dataset, runs the benchmark once with
--bench-size values and prints per-operation insert and lookup costs for each
structure. It exits non-zero if the benchmark could not complete.

Example:
  dsctl bench --int-str 1 --bench-size 10000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(e *engine.Engine) error {
				res, benchErr := e.Bench()
				if jsonOut && benchErr == nil {
					return printJSON(cmd.OutOrStdout(), res)
				}
				if err := render.Bench(cmd.OutOrStdout(), res, benchErr); err != nil {
					return err
				}
				return benchErr
			})
		},
	}
}
