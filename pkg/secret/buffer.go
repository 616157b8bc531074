// Package secret holds typed passwords in a fixed-size buffer that is zeroed whenever its content
// is consumed or discarded.
package secret

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// DefaultCapacity is the size of the password buffer. At most DefaultCapacity-1 bytes are
// retained.
const DefaultCapacity = 256

// Buffer is a bounded byte buffer for secret input.
// The backing array is allocated once and never grows, so no copy of the secret is ever left
// behind by a reallocation.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	data   []byte
	n      int
	locked bool
}

// New allocates a Buffer of the given capacity and tries to lock it into memory so it is never
// swapped out. The returned error reports a failed lock only; the buffer is usable regardless.
func New(capacity int) (*Buffer, error) {
	if capacity < 1 {
		capacity = DefaultCapacity
	}

	b := &Buffer{data: make([]byte, capacity)}
	if err := unix.Mlock(b.data); err != nil {
		return b, err
	}
	b.locked = true

	return b, nil
}

// Len returns the number of bytes held.
func (b *Buffer) Len() int {
	return b.n
}

// Cap returns the capacity of the buffer.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Append adds p if the result stays strictly below the capacity and reports whether it did.
// Input that does not fit is dropped as a whole.
func (b *Buffer) Append(p []byte) bool {
	if len(p) == 0 || b.n+len(p) >= len(b.data) {
		return false
	}
	b.n += copy(b.data[b.n:], p)

	return true
}

// Backspace removes the last byte. It reports false if the buffer was already empty.
func (b *Buffer) Backspace() bool {
	if b.n == 0 {
		return false
	}
	b.n--
	b.data[b.n] = 0

	return true
}

// Wipe zeroes the whole backing array and resets the length.
func (b *Buffer) Wipe() {
	for i := range b.data {
		b.data[i] = 0
	}
	b.n = 0
	runtime.KeepAlive(b.data)
}

// Consume passes the current content to fn and wipes the buffer afterward, also when fn returns
// an error or panics. fn must not retain the slice.
func (b *Buffer) Consume(fn func(secret []byte) error) error {
	defer b.Wipe()

	return fn(b.data[:b.n:b.n])
}

// Destroy wipes the buffer and releases its memory lock.
func (b *Buffer) Destroy() error {
	b.Wipe()
	if !b.locked {
		return nil
	}
	b.locked = false

	return unix.Munlock(b.data)
}
