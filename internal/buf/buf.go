// Package buf provides a reusable byte buffer with power-of-two growth.
//
// The same growth discipline backs both the parser's per-element text
// accumulator and the tabledata writer's row buffer, so amortized append
// cost stays predictable on both paths.
package buf

// Buffer accumulates bytes in a slice that only ever grows.
// The zero value is ready to use.
type Buffer struct {
	data []byte
}

// NewSize returns a buffer with an initial capacity of at least n bytes.
func NewSize(n int) *Buffer {
	if n < 0 {
		n = 0
	}
	return &Buffer{data: make([]byte, 0, nextPowerOfTwo(n))}
}

// Grow ensures capacity for at least n additional bytes.
// The new allocation is the next power of two that fits.
func (b *Buffer) Grow(n int) {
	if n <= 0 {
		return
	}
	need := len(b.data) + n
	if need <= cap(b.data) {
		return
	}
	grown := make([]byte, len(b.data), nextPowerOfTwo(need))
	copy(grown, b.data)
	b.data = grown
}

// AppendBytes copies p into the buffer.
func (b *Buffer) AppendBytes(p []byte) {
	b.Grow(len(p))
	b.data = append(b.data, p...)
}

// AppendString copies s into the buffer.
func (b *Buffer) AppendString(s string) {
	b.Grow(len(s))
	b.data = append(b.data, s...)
}

// AppendByte appends a single byte.
func (b *Buffer) AppendByte(c byte) {
	b.Grow(1)
	b.data = append(b.data, c)
}

// AppendRepeat appends n copies of c.
func (b *Buffer) AppendRepeat(c byte, n int) {
	if n <= 0 {
		return
	}
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.data = append(b.data, c)
	}
}

// Len reports the number of bytes currently held.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Cap reports the current allocation size.
func (b *Buffer) Cap() int {
	return cap(b.data)
}

// Bytes returns the buffered bytes. The slice is valid until the next
// append or Reset.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// String returns a copy of the buffered bytes as a string.
func (b *Buffer) String() string {
	return string(b.data)
}

// Reset empties the buffer without releasing its allocation.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
}

// TrimRightFunc shortens the buffer past trailing bytes matching drop.
// It runs a single backward pass.
func (b *Buffer) TrimRightFunc(drop func(byte) bool) {
	end := len(b.data)
	for end > 0 && drop(b.data[end-1]) {
		end--
	}
	b.data = b.data[:end]
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 0
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
