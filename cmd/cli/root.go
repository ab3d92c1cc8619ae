package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"dsbench/pkg/config"
	"dsbench/pkg/engine"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	intStr     string
	benchSize  int
	noBench    bool
	jsonOut    bool
)

var rootCmd = &cobra.Command{
	Use:   "dsctl",
	Short: "Load an integer dataset into four index structures and benchmark them",
	Long: `dsctl loads a comma-separated list of integers into a linked sequence,
a hash table, an ordered tree and a sparse array at once, and benchmarks
bulk insert and lookup on each structure.

The dataset comes from --int-str or from dataset.values in the config file.`,
	SilenceUsage: true,
	Version:      "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&intStr, "int-str", "", "Comma-separated integers to load")
	rootCmd.PersistentFlags().IntVar(&benchSize, "bench-size", config.DefaultBenchSize, "Benchmark workload size")
	rootCmd.PersistentFlags().BoolVar(&noBench, "no-bench", false, "Skip the load-time benchmark")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("int-str") {
		cfg.SetValues(intStr)
	}
	if flags.Changed("bench-size") {
		cfg.SetBenchSize(benchSize)
	}
	if noBench {
		off := false
		cfg.Bench.Enabled = &off
	}
	return cfg, nil
}

// withEngine loads an engine, runs fn and tears the engine down again.
func withEngine(cmd *cobra.Command, fn func(*engine.Engine) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return runEngine(cfg, fn)
}

func runEngine(cfg *config.Config, fn func(*engine.Engine) error) (err error) {
	e, err := engine.Load(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(e)
}

// printJSON outputs data as JSON
func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
