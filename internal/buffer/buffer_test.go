package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHistory_InvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -4096} {
		_, err := NewHistory(capacity)
		require.ErrorIs(t, err, ErrInvalidCapacity, "capacity %d", capacity)
	}
}

func TestHistory_PushAndWindow(t *testing.T) {
	h, err := NewHistory(8)
	require.NoError(t, err)

	for i := range 5 {
		require.True(t, h.TryPush(float64(i)))
	}

	assert.Equal(t, 5, h.Len())
	assert.Equal(t, 3, h.Space())
	assert.Equal(t, []float64{0, 1, 2}, h.Window(3))
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, h.Window(100), "window is capped at occupancy")
	assert.Equal(t, 5, h.Len(), "window must not consume")
}

func TestHistory_WindowIsContiguousAcrossWrap(t *testing.T) {
	h, err := NewHistory(4)
	require.NoError(t, err)

	// Move the head to the middle of the storage so the next reads wrap.
	h.Fill(0, 4)
	assert.Equal(t, 3, h.Advance(3))

	for i := 1; i <= 3; i++ {
		require.True(t, h.TryPush(float64(i)))
	}

	assert.Equal(t, []float64{0, 1, 2, 3}, h.Window(4))
	assert.InDelta(t, 3.0, h.At(3), 0)
}

func TestHistory_PushWhenFullDropsNewest(t *testing.T) {
	h, err := NewHistory(4)
	require.NoError(t, err)

	for i := range 4 {
		require.True(t, h.TryPush(float64(i+10)))
	}
	require.True(t, h.Full())

	assert.False(t, h.TryPush(99))
	assert.False(t, h.TryPush(100))
	assert.Equal(t, 4, h.Len(), "occupancy must not change while full")

	// Drain and verify nothing was overwritten.
	assert.Equal(t, []float64{10, 11, 12, 13}, h.Window(4))
	h.Advance(4)
	assert.Equal(t, 0, h.Len())

	require.True(t, h.TryPush(7))
	assert.Equal(t, []float64{7}, h.Window(1))
}

func TestHistory_AdvanceNeverExceedsOccupancy(t *testing.T) {
	h, err := NewHistory(16)
	require.NoError(t, err)

	h.Fill(1, 5)
	assert.Equal(t, 5, h.Advance(50))
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, 0, h.Advance(1))
	assert.Equal(t, 0, h.Advance(-3))
	assert.Empty(t, h.Window(4))
}

func TestHistory_OccupancyBoundedUnderLoad(t *testing.T) {
	const capacity = 64
	h, err := NewHistory(capacity)
	require.NoError(t, err)

	pushed, removed, dropped := 0, 0, 0
	for tick := range 10000 {
		if h.TryPush(float64(pushed)) {
			pushed++
		} else {
			dropped++
		}
		if tick%7 == 0 {
			removed += h.Advance(tick % 13)
		}

		require.LessOrEqual(t, h.Len(), capacity)
		require.Equal(t, pushed-removed, h.Len())
		if h.Len() > 0 {
			require.InDelta(t, float64(removed), h.At(0), 0, "head value at tick %d", tick)
		}
	}
	assert.Positive(t, dropped, "load pattern should saturate the ring")
}

func TestHistory_Clear(t *testing.T) {
	h, err := NewHistory(4)
	require.NoError(t, err)

	h.Fill(3, 3)
	h.Clear()

	assert.Equal(t, 0, h.Len())
	assert.Equal(t, 4, h.Space())
	assert.Equal(t, int64(4*mirrorFactor*bytesPerSample), h.MemoryUsage())
}

func TestQueue_FIFOOrder(t *testing.T) {
	q, err := NewQueue(4)
	require.NoError(t, err)
	assert.True(t, q.Empty())

	require.NoError(t, q.PushBatch([]float64{1, 2, 3}))
	assert.Equal(t, 3, q.Len())
	assert.False(t, q.Full())

	v, err := q.Pop()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 0)

	// Wrap the write position.
	require.NoError(t, q.PushBatch([]float64{4, 5}))
	assert.True(t, q.Full())

	for _, want := range []float64{2, 3, 4, 5} {
		got, err := q.Pop()
		require.NoError(t, err)
		assert.InDelta(t, want, got, 0)
	}
	assert.True(t, q.Empty())
}

func TestQueue_Underflow(t *testing.T) {
	q, err := NewQueue(2)
	require.NoError(t, err)

	_, err = q.Pop()
	require.ErrorIs(t, err, ErrUnderflow)
}

func TestQueue_OverflowRejectsWholeBatch(t *testing.T) {
	q, err := NewQueue(4)
	require.NoError(t, err)

	require.NoError(t, q.PushBatch([]float64{1, 2}))
	err = q.PushBatch([]float64{3, 4, 5})
	require.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, 2, q.Len(), "rejected batch must not be partially written")
	assert.Equal(t, 2, q.Space())
}

func TestQueue_InvalidCapacity(t *testing.T) {
	_, err := NewQueue(0)
	require.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestBuffers_NoAllocations(t *testing.T) {
	h, err := NewHistory(32)
	require.NoError(t, err)
	q, err := NewQueue(16)
	require.NoError(t, err)
	batch := make([]float64, 16)

	allocs := testing.AllocsPerRun(1000, func() {
		h.TryPush(1)
		_ = h.Window(16)
		h.Advance(1)
		if q.Empty() {
			_ = q.PushBatch(batch)
		}
		_, _ = q.Pop()
	})
	assert.Zero(t, allocs)
}
