package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"dsbench/pkg/bench"
	"dsbench/pkg/common"
	"dsbench/pkg/config"
	"dsbench/pkg/core"
	"dsbench/pkg/monitor"
	"dsbench/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataset(t *testing.T) {
	s := core.NewStore(core.StoreOptions{})
	require.NoError(t, s.Load(config.ScanValues("3,1,2")))
	defer s.TeardownAll()

	var b strings.Builder
	require.NoError(t, Dataset(&b, s))

	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Linked list: 3, 1, 2", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Hash table: "))
	assert.Equal(t, "Red-black tree: 1, 2, 3", lines[2])
	assert.Equal(t, "XArray: 3, 1, 2", lines[3])
}

func TestDatasetEmpty(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Dataset(&b, core.NewStore(core.StoreOptions{})))
	assert.Equal(t, "Linked list: \nHash table: \nRed-black tree: \nXArray: \n", b.String())
}

func TestBench(t *testing.T) {
	res := &bench.Results{N: 10000, Seed: 5}
	for _, kind := range common.Kinds {
		res.Insert[kind] = time.Duration(100 * (int(kind) + 1))
		res.Lookup[kind] = 2500 * time.Nanosecond
	}

	var b strings.Builder
	require.NoError(t, Bench(&b, res, nil))
	out := b.String()

	assert.Contains(t, out, "Data Structure Benchmark (N=10,000)")
	assert.Contains(t, out, "Insert (ns/op):\n  Linked list:    100\n")
	assert.Contains(t, out, "  XArray:         400\n")
	assert.Contains(t, out, "Lookup (ns/op):\n  Linked list:    2,500\n")
}

func TestBenchUnavailable(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Bench(&b, nil, errors.New("out of memory")))
	assert.Equal(t, "Benchmark unavailable: out of memory\n", b.String())
}

func TestInfo(t *testing.T) {
	loaded := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	info := monitor.Info{
		LoadedAt:    loaded,
		Now:         loaded.Add(1500 * time.Millisecond),
		Uptime:      1500 * time.Millisecond,
		AccessCount: 7,
	}

	var b strings.Builder
	require.NoError(t, Info(&b, info))
	assert.Contains(t, b.String(), "Loaded at: 2024-01-02T03:04:05Z\n")
	assert.Contains(t, b.String(), "Uptime since load: 1500 ms\n")
	assert.Contains(t, b.String(), "Access count: 7\n")
}

func TestSeries(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Series(&b, []storage.SeriesPoint{
		{Kind: common.KindTree, N: 1000, Runs: 2, InsertNs: 12.5, LookupNs: 8},
	}))
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "# kind"))
	assert.Equal(t, []string{"tree", "1000", "2", "12.5", "8.0"}, strings.Fields(lines[1]))
}

func TestHello(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Hello(&b, "Ada", 2))
	assert.Equal(t, "Hello, Ada!\nHello, Ada!\nGoodbye, Ada!\n", b.String())

	b.Reset()
	require.NoError(t, Hello(&b, "", 0))
	assert.Equal(t, "Goodbye, dsbench!\n", b.String())

	b.Reset()
	assert.Error(t, Hello(&b, "Ada", MaxGreetCount+1))
	assert.Empty(t, b.String())
}
