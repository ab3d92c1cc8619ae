package main

import (
	"dsbench/pkg/engine"
	"dsbench/pkg/render"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	var reads int

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Report load time, uptime and access count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(e *engine.Engine) error {
				for i := 0; i < reads; i++ {
					info := e.Info()
					var err error
					if jsonOut {
						err = printJSON(cmd.OutOrStdout(), info)
					} else {
						err = render.Info(cmd.OutOrStdout(), info)
					}
					if err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&reads, "reads", "n", 1, "Number of info reads")
	return cmd
}
