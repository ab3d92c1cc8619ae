// Package render formats the dataset, benchmark, info and series views as
// plain text.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"dsbench/pkg/bench"
	"dsbench/pkg/common"
	"dsbench/pkg/core"
	"dsbench/pkg/monitor"
	"dsbench/pkg/storage"

	"github.com/dustin/go-humanize"
)

const labelWidth = 16

// Dataset writes one line per structure: its label followed by the export
// of that structure, comma separated.
func Dataset(w io.Writer, s *core.Store) error {
	for _, kind := range common.Kinds {
		var b strings.Builder
		b.WriteString(kind.Label())
		b.WriteString(": ")
		first := true
		for v := range s.Export(kind) {
			if !first {
				b.WriteString(", ")
			}
			b.WriteString(strconv.FormatInt(v, 10))
			first = false
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// Bench writes the per-kind insert and lookup tables. With benchErr set it
// writes a single unavailable line instead.
func Bench(w io.Writer, res *bench.Results, benchErr error) error {
	if benchErr != nil || res == nil {
		reason := "no results"
		if benchErr != nil {
			reason = benchErr.Error()
		}
		_, err := fmt.Fprintf(w, "Benchmark unavailable: %s\n", reason)
		return err
	}

	var b strings.Builder
	title := fmt.Sprintf("Data Structure Benchmark (N=%s)", humanize.Comma(int64(res.N)))
	fmt.Fprintln(&b, title)
	fmt.Fprintln(&b, strings.Repeat("=", len(title)))
	table(&b, "Insert (ns/op):", res.Insert)
	b.WriteByte('\n')
	table(&b, "Lookup (ns/op):", res.Lookup)
	fmt.Fprintf(&b, "\nSeed %d, total %v\n", res.Seed, res.Elapsed.Round(time.Microsecond))

	_, err := io.WriteString(w, b.String())
	return err
}

func table(b *strings.Builder, header string, cols [common.NumKinds]time.Duration) {
	fmt.Fprintln(b, header)
	for _, kind := range common.Kinds {
		fmt.Fprintf(b, "  %-*s%s\n", labelWidth, kind.Label()+":", humanize.Comma(cols[kind].Nanoseconds()))
	}
}

// Info writes one access observation.
func Info(w io.Writer, info monitor.Info) error {
	_, err := fmt.Fprintf(w,
		"Info\n====\nLoaded at: %s\nNow: %s\nUptime since load: %d ms\nAccess count: %d\n",
		info.LoadedAt.Format(time.RFC3339),
		info.Now.Format(time.RFC3339),
		info.Uptime.Milliseconds(),
		info.AccessCount,
	)
	return err
}

// Series writes logged averages as whitespace separated columns, one row
// per kind and size. The header line starts with '#'.
func Series(w io.Writer, points []storage.SeriesPoint) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %-8s %10s %6s %14s %14s\n", "kind", "n", "runs", "insert_ns", "lookup_ns")
	for _, p := range points {
		fmt.Fprintf(&b, "  %-8s %10d %6d %14.1f %14.1f\n", p.Kind, p.N, p.Runs, p.InsertNs, p.LookupNs)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

const (
	// DefaultGreetName is used by Hello when no name is given.
	DefaultGreetName = "dsbench"
	// MaxGreetCount bounds the number of greetings in one reply.
	MaxGreetCount = 1000
)

// Hello greets name count times, then says goodbye once. count must be in
// [0, MaxGreetCount].
func Hello(w io.Writer, name string, count int) error {
	if count < 0 || count > MaxGreetCount {
		return fmt.Errorf("greet count %d out of range [0, %d]", count, MaxGreetCount)
	}
	if name == "" {
		name = DefaultGreetName
	}
	var b strings.Builder
	for i := 0; i < count; i++ {
		fmt.Fprintf(&b, "Hello, %s!\n", name)
	}
	fmt.Fprintf(&b, "Goodbye, %s!\n", name)
	_, err := io.WriteString(w, b.String())
	return err
}
