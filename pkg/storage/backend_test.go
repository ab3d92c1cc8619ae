package storage

import (
	"path/filepath"
	"testing"
	"time"

	"dsbench/pkg/bench"
	"dsbench/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openLog(t *testing.T) *ResultsLog {
	t.Helper()
	l, err := OpenResultsLog(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func fakeResults(n int, insert, lookup time.Duration) bench.Results {
	res := bench.Results{N: n, Seed: 1 << 63, Elapsed: time.Millisecond}
	for _, kind := range common.Kinds {
		res.Insert[kind] = insert * time.Duration(kind+1)
		res.Lookup[kind] = lookup * time.Duration(kind+1)
		res.Found[kind] = n
	}
	return res
}

func TestResultsLogAppendAndRuns(t *testing.T) {
	l := openLog(t)
	at := time.Unix(1700000000, 0)

	id, err := l.Append(fakeResults(100, 10, 20), at)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	runs, err := l.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 100, runs[0].N)
	assert.Equal(t, uint64(1<<63), runs[0].Seed)
	assert.True(t, runs[0].At.Equal(at))
	assert.Equal(t, time.Millisecond, runs[0].Elapsed)
}

func TestResultsLogSeriesAverages(t *testing.T) {
	l := openLog(t)
	now := time.Now()

	_, err := l.Append(fakeResults(100, 10, 20), now)
	require.NoError(t, err)
	_, err = l.Append(fakeResults(100, 30, 40), now)
	require.NoError(t, err)
	_, err = l.Append(fakeResults(1000, 50, 60), now)
	require.NoError(t, err)

	points, err := l.Series()
	require.NoError(t, err)
	require.Len(t, points, 2*common.NumKinds)

	first := points[0]
	assert.Equal(t, common.KindSequence, first.Kind)
	assert.Equal(t, 100, first.N)
	assert.Equal(t, 2, first.Runs)
	assert.InDelta(t, 20.0, first.InsertNs, 1e-9)
	assert.InDelta(t, 30.0, first.LookupNs, 1e-9)

	last := points[len(points)-1]
	assert.Equal(t, common.KindSparse, last.Kind)
	assert.Equal(t, 1000, last.N)
	assert.InDelta(t, 200.0, last.InsertNs, 1e-9)
}

func TestResultsLogTruncate(t *testing.T) {
	l := openLog(t)
	_, err := l.Append(fakeResults(10, 1, 1), time.Now())
	require.NoError(t, err)

	require.NoError(t, l.Truncate())

	runs, err := l.Runs()
	require.NoError(t, err)
	assert.Empty(t, runs)
	points, err := l.Series()
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestResultsLogReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	l, err := OpenResultsLog(path)
	require.NoError(t, err)
	_, err = l.Append(fakeResults(5, 1, 1), time.Now())
	require.NoError(t, err)
	require.NoError(t, l.Close())

	l, err = OpenResultsLog(path)
	require.NoError(t, err)
	defer l.Close()
	runs, err := l.Runs()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
