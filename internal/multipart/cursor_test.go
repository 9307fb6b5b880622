package multipart

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_EnsureAvailable(t *testing.T) {
	c := newCursor(strings.NewReader("abcdef"), 4)

	require.True(t, c.ensureAvailable())
	assert.Equal(t, "abcd", string(c.unread()))
	c.advance(4)

	require.True(t, c.ensureAvailable())
	assert.Equal(t, "ef", string(c.unread()))
	c.advance(2)

	assert.False(t, c.ensureAvailable())
	assert.True(t, c.drained())
	assert.NoError(t, c.readErr())
}

func TestCursor_EnsureWindowCompacts(t *testing.T) {
	c := newCursor(iotest.OneByteReader(strings.NewReader("0123456789")), 6)

	require.True(t, c.ensureWindow(6))
	assert.Equal(t, "012345", string(c.unread()))
	c.advance(4)

	require.True(t, c.ensureWindow(5))
	assert.Equal(t, "45678", string(c.unread()))
	assert.Equal(t, 0, c.pos, "unread tail moved to the front")

	require.True(t, c.ensureWindow(100), "window is capped by capacity")
	assert.Equal(t, "456789", string(c.unread()))
	c.advance(6)

	assert.False(t, c.ensureWindow(1))
	assert.True(t, c.drained())
}

type emptyReader struct{}

func (emptyReader) Read([]byte) (int, error) { return 0, nil }

func TestCursor_NoProgress(t *testing.T) {
	c := newCursor(emptyReader{}, 4)

	assert.False(t, c.ensureAvailable())
	assert.ErrorIs(t, c.readErr(), io.ErrNoProgress)
}
