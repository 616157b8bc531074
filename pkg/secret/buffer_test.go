package secret

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuffer(t *testing.T, capacity int) *Buffer {
	t.Helper()
	b, _ := New(capacity) // mlock may be refused in CI sandboxes
	require.NotNil(t, b)
	t.Cleanup(func() { _ = b.Destroy() })
	return b
}

func allZero(b *Buffer) bool {
	return bytes.Equal(b.data, make([]byte, len(b.data)))
}

func TestAppendStaysBelowCapacity(t *testing.T) {
	b := newBuffer(t, 8)

	assert.True(t, b.Append([]byte("abcd")))
	assert.True(t, b.Append([]byte("efg")))
	assert.Equal(t, 7, b.Len())

	assert.False(t, b.Append([]byte("h")), "a full buffer keeps one slot free")
	assert.Equal(t, 7, b.Len())

	assert.False(t, b.Append(nil))
}

func TestAppendDropsOversizedInputWhole(t *testing.T) {
	b := newBuffer(t, 4)

	assert.True(t, b.Append([]byte("a")))
	assert.False(t, b.Append([]byte("bcd")))
	assert.Equal(t, 1, b.Len())
}

func TestBackspace(t *testing.T) {
	b := newBuffer(t, 8)

	assert.False(t, b.Backspace(), "no-op on empty buffer")
	assert.Equal(t, 0, b.Len())

	b.Append([]byte("ab"))
	assert.True(t, b.Backspace())
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, byte(0), b.data[1])
}

func TestWipe(t *testing.T) {
	b := newBuffer(t, DefaultCapacity)
	b.Append([]byte("hunter2"))

	b.Wipe()

	assert.Equal(t, 0, b.Len())
	assert.True(t, allZero(b))
}

func TestConsumeWipesOnEveryPath(t *testing.T) {
	b := newBuffer(t, DefaultCapacity)

	b.Append([]byte("secret"))
	err := b.Consume(func(p []byte) error {
		assert.Equal(t, "secret", string(p))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, allZero(b))

	b.Append([]byte("secret"))
	failure := errors.New("hash failed")
	err = b.Consume(func([]byte) error { return failure })
	assert.ErrorIs(t, err, failure)
	assert.True(t, allZero(b))

	b.Append([]byte("secret"))
	assert.Panics(t, func() {
		_ = b.Consume(func([]byte) error { panic("boom") })
	})
	assert.True(t, allZero(b))
	assert.Equal(t, 0, b.Len())
}

func TestConsumeSliceCannotGrowIntoBuffer(t *testing.T) {
	b := newBuffer(t, 16)
	b.Append([]byte("abc"))

	_ = b.Consume(func(p []byte) error {
		assert.Equal(t, 3, cap(p))
		return nil
	})
}
