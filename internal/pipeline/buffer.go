// Package pipeline provides the FIFO buffering shared by the streaming
// stages: pending packet bytes and carried-over partial frames.
package pipeline

const (
	defaultCapacity    = 64
	bufferGrowthFactor = 2
)

// RingBuffer is a growable circular FIFO.
//
// It is not safe for concurrent use; every stage that owns one is itself
// single-goroutine.
type RingBuffer[T any] struct {
	data     []T
	size     int
	readPos  int
	writePos int
}

// NewRingBuffer creates a ring buffer with the given initial capacity.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity < 1 {
		capacity = defaultCapacity
	}
	return &RingBuffer[T]{data: make([]T, capacity)}
}

// Write appends items, growing the buffer when needed.
func (b *RingBuffer[T]) Write(items []T) {
	if len(items) == 0 {
		return
	}
	if b.size+len(items) > len(b.data) {
		b.grow(b.size + len(items))
	}

	// Two copies at most: up to the end of the backing array, then the wrap.
	n := copy(b.data[b.writePos:], items)
	if n < len(items) {
		n += copy(b.data, items[n:])
	}
	b.writePos = (b.writePos + n) % len(b.data)
	b.size += n
}

// Read removes and returns up to n items.
func (b *RingBuffer[T]) Read(n int) []T {
	n = min(n, b.size)
	if n <= 0 {
		return []T{}
	}
	out := make([]T, n)
	b.copyOut(out)
	b.Discard(n)
	return out
}

// ReadInto removes up to len(dst) items into dst and returns the count.
func (b *RingBuffer[T]) ReadInto(dst []T) int {
	n := b.copyOut(dst)
	b.Discard(n)
	return n
}

// Peek returns up to n items without removing them.
func (b *RingBuffer[T]) Peek(n int) []T {
	n = min(n, b.size)
	if n <= 0 {
		return []T{}
	}
	out := make([]T, n)
	b.copyOut(out)
	return out
}

// ReadAll removes and returns every buffered item.
func (b *RingBuffer[T]) ReadAll() []T {
	return b.Read(b.size)
}

// Discard drops up to n items from the front.
func (b *RingBuffer[T]) Discard(n int) {
	n = min(n, b.size)
	if n <= 0 {
		return
	}
	b.readPos = (b.readPos + n) % len(b.data)
	b.size -= n
	if b.size == 0 {
		b.readPos, b.writePos = 0, 0
	}
}

// Available returns the number of buffered items.
func (b *RingBuffer[T]) Available() int {
	return b.size
}

// Capacity returns the current backing capacity.
func (b *RingBuffer[T]) Capacity() int {
	return len(b.data)
}

// Clear drops every buffered item. Capacity is kept.
func (b *RingBuffer[T]) Clear() {
	b.size = 0
	b.readPos = 0
	b.writePos = 0
}

// copyOut copies up to len(dst) items from the front into dst.
func (b *RingBuffer[T]) copyOut(dst []T) int {
	n := min(len(dst), b.size)
	if n == 0 {
		return 0
	}
	first := copy(dst[:n], b.data[b.readPos:])
	if first < n {
		copy(dst[first:n], b.data[:n-first])
	}
	return n
}

// grow increases the capacity to at least minCapacity, keeping order.
func (b *RingBuffer[T]) grow(minCapacity int) {
	newCapacity := len(b.data)
	for newCapacity < minCapacity {
		newCapacity *= bufferGrowthFactor
	}

	newData := make([]T, newCapacity)
	b.copyOut(newData)

	b.data = newData
	b.readPos = 0
	b.writePos = b.size
}
