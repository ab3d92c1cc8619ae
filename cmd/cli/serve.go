package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"dsbench/pkg/api"
	"dsbench/pkg/engine"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newServeCmd())
}

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dataset, benchmark and info views over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			return runEngine(cfg, func(e *engine.Engine) error {
				return serve(cmd.Context(), e, cfg.Server.Addr)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	return cmd
}

// serve blocks until ctx is cancelled or SIGINT/SIGTERM arrives.
func serve(ctx context.Context, e *engine.Engine, addr string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := api.NewServer(e)
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}
