package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerTracksUsageWithoutLimit(t *testing.T) {
	c := NewController(Config{})

	require.True(t, c.TryAcquireMemory(100))
	require.True(t, c.TryAcquireMemory(50))
	assert.Equal(t, int64(150), c.MemoryUsage())

	c.ReleaseMemory(100)
	c.ReleaseMemory(50)

	st := c.Stats()
	assert.Equal(t, int64(0), st.UsedBytes)
	assert.Equal(t, int64(2), st.Allocs)
	assert.Equal(t, int64(2), st.Releases)
	assert.Zero(t, st.Outstanding())
}

func TestControllerHardLimit(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.True(t, c.TryAcquireMemory(60))
	assert.False(t, c.TryAcquireMemory(60))
	assert.Equal(t, int64(1), c.Stats().Refused)

	c.ReleaseMemory(60)
	assert.True(t, c.TryAcquireMemory(60))
}

func TestNilControllerIsUnlimited(t *testing.T) {
	var c *Controller
	assert.True(t, c.TryAcquireMemory(1<<40))
	c.ReleaseMemory(1 << 40)
	assert.Zero(t, c.MemoryUsage())
	assert.Equal(t, Stats{}, c.Stats())
}

func TestZeroSizedRequestsAreNotCounted(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 1})
	assert.True(t, c.TryAcquireMemory(0))
	c.ReleaseMemory(0)
	assert.Zero(t, c.Stats().Allocs)
	assert.Zero(t, c.Stats().Releases)
}
