package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"dsbench/pkg/storage"
)

func TestParseSizes(t *testing.T) {
	sizes, err := parseSizes(defaultSizes)
	if err != nil {
		t.Fatalf("parse default sizes: %v", err)
	}
	want := []int{100, 1000, 5000, 10000, 50000}
	if len(sizes) != len(want) {
		t.Fatalf("got %v, want %v", sizes, want)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Fatalf("got %v, want %v", sizes, want)
		}
	}

	if got, err := parseSizes(" 0 , 7,"); err != nil || len(got) != 2 || got[0] != 0 || got[1] != 7 {
		t.Errorf("parseSizes with spaces = %v, %v", got, err)
	}
	for _, bad := range []string{"", ",", "10,x", "-5"} {
		if _, err := parseSizes(bad); err == nil {
			t.Errorf("parseSizes(%q) should fail", bad)
		}
	}
}

func TestRunSweepLogsEachSize(t *testing.T) {
	db := filepath.Join(t.TempDir(), "results.db")
	var out bytes.Buffer

	if code := run([]string{"-db", db, "-sizes", "0,20", "-seed", "3"}, &out); code != 0 {
		t.Fatalf("exit code %d, output:\n%s", code, out.String())
	}
	if !strings.Contains(out.String(), "Sweep done: 2 sizes, 0 failed") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	// the log was closed on return, so it opens again
	rl, err := storage.OpenResultsLog(db)
	if err != nil {
		t.Fatalf("reopen results log: %v", err)
	}
	runs, err := rl.Runs()
	rl.Close()
	if err != nil || len(runs) != 2 {
		t.Fatalf("expected 2 logged runs, got %d (%v)", len(runs), err)
	}

	out.Reset()
	if code := run([]string{"-db", db, "-series"}, &out); code != 0 {
		t.Fatalf("series exit code %d", code)
	}
	if !strings.Contains(out.String(), "# kind") || !strings.Contains(out.String(), "sparse") {
		t.Errorf("unexpected series output:\n%s", out.String())
	}
}

func TestRunFailuresReturnExitCodes(t *testing.T) {
	db := filepath.Join(t.TempDir(), "results.db")
	var out bytes.Buffer

	if code := run([]string{"-db", db, "-sizes", "x"}, &out); code != 2 {
		t.Errorf("bad sizes: exit code %d, want 2", code)
	}
	if code := run([]string{"-no-such-flag"}, &out); code != 2 {
		t.Errorf("unknown flag: exit code %d, want 2", code)
	}
	// the buffer of 100 values does not fit in 16 bytes
	if code := run([]string{"-db", db, "-sizes", "100", "-mem-limit", "16", "-seed", "1"}, &out); code != 1 {
		t.Errorf("out of memory: exit code %d, want 1", code)
	}
}
