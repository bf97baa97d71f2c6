package enhancer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCapability(t *testing.T) {
	capable := Signals{
		HasModelRuntime: true,
		MemoryGB:        4,
		Connection:      ConnectionFast,
	}

	t.Run("capable device passes", func(t *testing.T) {
		assert.NoError(t, checkCapability(capable, MinMemoryGB))
	})

	t.Run("missing model runtime is a hard failure", func(t *testing.T) {
		s := capable
		s.HasModelRuntime = false
		err := checkCapability(s, MinMemoryGB)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCapability)
		assert.Contains(t, err.Error(), "model runtime")
	})

	t.Run("insufficient memory fails", func(t *testing.T) {
		s := capable
		s.MemoryGB = 1
		err := checkCapability(s, MinMemoryGB)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCapability)
	})

	t.Run("slow connection fails", func(t *testing.T) {
		s := capable
		s.Connection = ConnectionSlow
		err := checkCapability(s, MinMemoryGB)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection")
	})

	t.Run("unknown connection proceeds", func(t *testing.T) {
		s := capable
		s.Connection = ConnectionUnknown
		assert.NoError(t, checkCapability(s, MinMemoryGB))
	})
}

func TestEstimateMemoryGB(t *testing.T) {
	t.Run("direct figure wins", func(t *testing.T) {
		assert.Equal(t, 16.0, estimateMemoryGB(Signals{MemoryGB: 16, LogicalCores: 2}))
	})

	t.Run("core count heuristic", func(t *testing.T) {
		assert.Equal(t, 8.0, estimateMemoryGB(Signals{LogicalCores: 8}))
		assert.Equal(t, 8.0, estimateMemoryGB(Signals{LogicalCores: 16}))
		assert.Equal(t, 4.0, estimateMemoryGB(Signals{LogicalCores: 4}))
		assert.Equal(t, 2.0, estimateMemoryGB(Signals{LogicalCores: 2}))
		assert.Equal(t, 2.0, estimateMemoryGB(Signals{}))
	})

	t.Run("heuristic floor still passes default gate", func(t *testing.T) {
		s := Signals{HasModelRuntime: true, LogicalCores: 1}
		assert.NoError(t, checkCapability(s, MinMemoryGB))
	})
}
