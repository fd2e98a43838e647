// Package buffer implements the fixed-capacity sample buffers used by the
// wobble engine: a mirrored history ring that can hand out contiguous
// read windows, and a small output queue.
//
// Both types are sized once at construction. None of the methods allocate,
// so they are safe to call from an audio callback. They are not safe for
// concurrent use; the engine owns them exclusively.
package buffer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCapacity is returned when a buffer is created with capacity < 1.
	ErrInvalidCapacity = errors.New("buffer capacity must be at least 1")

	// ErrUnderflow is returned by Queue.Pop when the queue is empty.
	ErrUnderflow = errors.New("queue underflow")

	// ErrOverflow is returned by Queue.PushBatch when the batch does not fit.
	ErrOverflow = errors.New("queue overflow")
)

// History is a circular FIFO of raw input samples.
//
// Every sample is written twice, at writePos and writePos+capacity, so any
// run of up to capacity samples starting at the head is contiguous in
// memory. Window relies on this to return a slice without copying.
type History struct {
	data     []float64
	capacity int
	size     int
	readPos  int
	writePos int
}

// NewHistory creates a history ring holding at most capacity samples.
func NewHistory(capacity int) (*History, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	return &History{
		data:     make([]float64, capacity*mirrorFactor),
		capacity: capacity,
	}, nil
}

// TryPush appends sample at the tail. When the ring is full the sample is
// dropped and TryPush reports false; existing content is left untouched.
func (h *History) TryPush(sample float64) bool {
	if h.size >= h.capacity {
		return false
	}

	h.data[h.writePos] = sample
	h.data[h.writePos+h.capacity] = sample
	h.writePos++
	if h.writePos == h.capacity {
		h.writePos = 0
	}
	h.size++
	return true
}

// Fill pushes value up to n times and returns how many were stored.
func (h *History) Fill(value float64, n int) int {
	stored := 0
	for stored < n && h.TryPush(value) {
		stored++
	}
	return stored
}

// Window returns a read-only view of up to n samples starting at the head.
// It does not change occupancy. The slice aliases internal storage and is
// only valid until the next TryPush, Advance or Clear.
func (h *History) Window(n int) []float64 {
	if n > h.size {
		n = h.size
	}
	if n <= 0 {
		return h.data[:0:0]
	}

	end := h.readPos + n
	return h.data[h.readPos:end:end]
}

// At returns the i-th oldest sample. It panics if i is out of range.
func (h *History) At(i int) float64 {
	if i < 0 || i >= h.size {
		panic(fmt.Sprintf("buffer: history index %d out of range [0,%d)", i, h.size))
	}
	return h.data[h.readPos+i]
}

// Advance removes up to n samples from the head and returns the number
// actually removed. It never removes more than the current occupancy.
func (h *History) Advance(n int) int {
	if n > h.size {
		n = h.size
	}
	if n <= 0 {
		return 0
	}

	h.readPos += n
	if h.readPos >= h.capacity {
		h.readPos -= h.capacity
	}
	h.size -= n
	return n
}

// Len returns the number of samples currently held.
func (h *History) Len() int {
	return h.size
}

// Capacity returns the maximum number of samples the ring can hold.
func (h *History) Capacity() int {
	return h.capacity
}

// Space returns the number of samples that can be pushed before the ring is full.
func (h *History) Space() int {
	return h.capacity - h.size
}

// Full reports whether the next TryPush would drop its sample.
func (h *History) Full() bool {
	return h.size >= h.capacity
}

// Clear empties the ring. Stored values are zeroed as well.
func (h *History) Clear() {
	clear(h.data)
	h.size = 0
	h.readPos = 0
	h.writePos = 0
}

// Queue is a small FIFO of resampled output samples.
type Queue struct {
	data     []float64
	size     int
	readPos  int
	writePos int
}

// NewQueue creates an output queue holding at most capacity samples.
func NewQueue(capacity int) (*Queue, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	return &Queue{data: make([]float64, capacity)}, nil
}

// PushBatch appends samples at the tail. If the batch would exceed the
// capacity nothing is written and ErrOverflow is returned.
func (q *Queue) PushBatch(samples []float64) error {
	if len(samples) > len(q.data)-q.size {
		return fmt.Errorf("%w: batch of %d, space for %d", ErrOverflow, len(samples), len(q.data)-q.size)
	}

	for _, sample := range samples {
		q.data[q.writePos] = sample
		q.writePos++
		if q.writePos == len(q.data) {
			q.writePos = 0
		}
	}
	q.size += len(samples)
	return nil
}

// Pop removes and returns the oldest sample.
func (q *Queue) Pop() (float64, error) {
	if q.size == 0 {
		return 0, ErrUnderflow
	}

	sample := q.data[q.readPos]
	q.readPos++
	if q.readPos == len(q.data) {
		q.readPos = 0
	}
	q.size--
	return sample, nil
}

// Empty reports whether the queue holds no samples.
func (q *Queue) Empty() bool {
	return q.size == 0
}

// Full reports whether occupancy equals capacity.
func (q *Queue) Full() bool {
	return q.size == len(q.data)
}

// Len returns the number of queued samples.
func (q *Queue) Len() int {
	return q.size
}

// Capacity returns the maximum number of queued samples.
func (q *Queue) Capacity() int {
	return len(q.data)
}

// Space returns the remaining capacity.
func (q *Queue) Space() int {
	return len(q.data) - q.size
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.size = 0
	q.readPos = 0
	q.writePos = 0
}

// MemoryUsage returns the approximate backing storage of the ring in bytes.
func (h *History) MemoryUsage() int64 {
	return int64(len(h.data)) * bytesPerSample
}

// MemoryUsage returns the approximate backing storage of the queue in bytes.
func (q *Queue) MemoryUsage() int64 {
	return int64(len(q.data)) * bytesPerSample
}
