package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"dsbench/pkg/bench"
	"dsbench/pkg/config"
	"dsbench/pkg/render"
	"dsbench/pkg/resource"
	"dsbench/pkg/storage"
)

const defaultSizes = "100,1000,5000,10000,50000"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes the sweep and returns the process exit code: 0 on success,
// 1 if any size failed or memory leaked, 2 on bad flags or an unusable log.
func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("benchmark", flag.ContinueOnError)
	sizesFlag := fs.String("sizes", defaultSizes, "Comma-separated benchmark sizes")
	dbPath := fs.String("db", "bench_results.db", "SQLite results log")
	seed := fs.Uint64("seed", 0, "Value generator seed (0 = clock)")
	hashBits := fs.Uint("hash-bits", config.DefaultHashBits, "Hash table size as a power of two")
	degree := fs.Int("degree", config.DefaultTreeDegree, "Ordered index btree degree")
	memLimit := fs.Int64("mem-limit", 0, "Accounted memory limit in bytes (0 = unlimited)")
	series := fs.Bool("series", false, "Print the logged per-kind series and exit")
	reset := fs.Bool("reset", false, "Clear the results log before running")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	sizes, err := parseSizes(*sizesFlag)
	if err != nil && !*series {
		log.Printf("Invalid -sizes: %v", err)
		return 2
	}

	rl, err := storage.OpenResultsLog(*dbPath)
	if err != nil {
		log.Printf("Failed to open results log: %v", err)
		return 2
	}
	defer func() {
		if err := rl.Close(); err != nil {
			log.Printf("[Storage] Close: %v", err)
		}
	}()

	if *series {
		points, err := rl.Series()
		if err != nil {
			log.Printf("Failed to read series: %v", err)
			return 1
		}
		if err := render.Series(out, points); err != nil {
			return 1
		}
		return 0
	}

	if *reset {
		if err := rl.Truncate(); err != nil {
			log.Printf("Failed to reset results log: %v", err)
			return 1
		}
	}

	ctrl := resource.NewController(resource.Config{MemoryLimitBytes: *memLimit})
	failed := 0
	for i, n := range sizes {
		s := *seed
		if s != 0 {
			s += uint64(i)
		}
		res, err := bench.Run(bench.Config{
			Size:       n,
			HashBits:   *hashBits,
			TreeDegree: *degree,
			Seed:       s,
			Memory:     ctrl,
		})
		render.Bench(out, &res, err)
		fmt.Fprintln(out, "---------------------------------------------------")
		if err != nil {
			failed++
			continue
		}
		if _, err := rl.Append(res, time.Now()); err != nil {
			log.Printf("[Storage] Failed to log N=%d: %v", n, err)
		}
	}

	if used := ctrl.MemoryUsage(); used != 0 {
		log.Printf("[Bench] %d bytes still accounted after the sweep", used)
		return 1
	}
	st := ctrl.Stats()
	fmt.Fprintf(out, "Sweep done: %d sizes, %d failed, %d allocations, %d refused\n",
		len(sizes), failed, st.Allocs, st.Refused)
	if failed > 0 {
		return 1
	}
	return 0
}

func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("negative size %d", n)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no sizes in %q", s)
	}
	return sizes, nil
}
