package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"dsbench/pkg/common"
)

func TestLoadDefaults(t *testing.T) {
	_, err := Load("/nonexistent/path/dsbench.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent path")
	}
	// Load with empty path uses default search (may use defaults if no config file)
	cfg, _ := Load("")
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr: got %s", cfg.Server.Addr)
	}
	if cfg.BenchSize() != 1000 {
		t.Errorf("default bench size: got %d", cfg.BenchSize())
	}
	if !cfg.BenchEnabled() {
		t.Errorf("bench should be enabled by default")
	}
	if cfg.Dataset.HashBits != 4 {
		t.Errorf("default hash_bits: got %d", cfg.Dataset.HashBits)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	content := `
dataset:
  values: "3,1,2"
bench:
  size: 500
  hash_bits: 10
  seed: 42
server:
  addr: ":9000"
storage:
  results_db: "bench.db"
resource:
  memory_limit_bytes: 1048576
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dataset.Values == nil || *cfg.Dataset.Values != "3,1,2" {
		t.Errorf("values: got %v", cfg.Dataset.Values)
	}
	if cfg.BenchSize() != 500 {
		t.Errorf("bench size: got %d", cfg.BenchSize())
	}
	if cfg.Bench.HashBits != 10 {
		t.Errorf("bench hash_bits: got %d", cfg.Bench.HashBits)
	}
	if cfg.Bench.Seed != 42 {
		t.Errorf("bench seed: got %d", cfg.Bench.Seed)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr: got %s", cfg.Server.Addr)
	}
	if cfg.Storage.ResultsDB != "bench.db" {
		t.Errorf("results_db: got %s", cfg.Storage.ResultsDB)
	}
	if cfg.Resource.MemoryLimitBytes != 1<<20 {
		t.Errorf("memory_limit_bytes: got %d", cfg.Resource.MemoryLimitBytes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); !errors.Is(err, common.ErrInvalidConfiguration) {
		t.Fatalf("missing values: expected ErrInvalidConfiguration, got %v", err)
	}

	cfg.SetValues("")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty values string is present: %v", err)
	}

	cfg.SetBenchSize(-1)
	if err := cfg.Validate(); !errors.Is(err, common.ErrInvalidConfiguration) {
		t.Fatalf("negative bench size: expected ErrInvalidConfiguration, got %v", err)
	}

	cfg.SetBenchSize(0)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("zero bench size: %v", err)
	}
}

// parseAll collects every value, stopping at the first error.
func parseAll(s string) ([]common.ValueType, error) {
	var out []common.ValueType
	for v, err := range ScanValues(s) {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func TestScanValues(t *testing.T) {
	cases := []struct {
		in   string
		want []common.ValueType
	}{
		{"3,1,2", []common.ValueType{3, 1, 2}},
		{"", nil},
		{"5", []common.ValueType{5}},
		{"1,,2,", []common.ValueType{1, 2}},
		{" 4 , -7 ,+8", []common.ValueType{4, -7, 8}},
		{"0x10,010,0b11", []common.ValueType{16, 8, 3}},
	}
	for _, tc := range cases {
		got, err := parseAll(tc.in)
		if err != nil {
			t.Errorf("parseAll(%q): %v", tc.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("parseAll(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestScanValuesRejectsMalformed(t *testing.T) {
	for _, in := range []string{"3,x,5", "1_000", "1.5", "99999999999999999999", "--1"} {
		if _, err := parseAll(in); !errors.Is(err, common.ErrInvalidConfiguration) {
			t.Errorf("parseAll(%q): expected ErrInvalidConfiguration, got %v", in, err)
		}
	}
}

func TestScanValuesStopsAtBadToken(t *testing.T) {
	var got []common.ValueType
	var lastErr error
	for v, err := range ScanValues("3,x,5") {
		if err != nil {
			lastErr = err
			continue
		}
		got = append(got, v)
	}
	if !reflect.DeepEqual(got, []common.ValueType{3}) {
		t.Errorf("values before error: got %v", got)
	}
	if !errors.Is(lastErr, common.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", lastErr)
	}
}

// Every token form ScanValues accepts, and a few it must not.
func TestScanValuesTokenForms(t *testing.T) {
	accepted := map[string]common.ValueType{
		"42":       42,
		"+42":      42,
		"-42":      -42,
		"  42\t":   42,
		"0x2a":     42,
		"0X2A":     42,
		"052":      42,
		"0o52":     42,
		"0b101010": 42,
		"-0x2a":    -42,
		"0":        0,
	}
	for in, want := range accepted {
		got, err := parseAll(in)
		if err != nil || len(got) != 1 || got[0] != want {
			t.Errorf("parseAll(%q) = %v, %v; want [%d]", in, got, err, want)
		}
	}

	for _, in := range []string{"4_2", "0x", "4 2", "42a", "0b2", "09", "+-1"} {
		if _, err := parseAll(in); !errors.Is(err, common.ErrInvalidConfiguration) {
			t.Errorf("parseAll(%q): expected ErrInvalidConfiguration, got %v", in, err)
		}
	}
}
