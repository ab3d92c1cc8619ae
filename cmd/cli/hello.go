package main

import (
	"fmt"

	"dsbench/pkg/render"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newHelloCmd())
}

func newHelloCmd() *cobra.Command {
	var (
		name  string
		count int
	)

	cmd := &cobra.Command{
		Use:   "hello",
		Short: "Greet someone count times, then say goodbye",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 0 || count > render.MaxGreetCount {
				return fmt.Errorf("count must be between 0 and %d, got %d", render.MaxGreetCount, count)
			}
			return render.Hello(cmd.OutOrStdout(), name, count)
		},
	}
	cmd.Flags().StringVar(&name, "name", render.DefaultGreetName, "Name to greet")
	cmd.Flags().IntVar(&count, "count", 1, "Number of times to greet")
	return cmd
}
