package multipart

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScanDecoder(input string, size int) *Decoder {
	return &Decoder{
		cur:      newCursor(strings.NewReader(input), size),
		boundary: []byte("--" + testBoundary),
	}
}

func TestReadToBoundary(t *testing.T) {
	t.Run("match leaves cursor after the line", func(t *testing.T) {
		d := newScanDecoder("preamble\r\n  --XyZ \r\nnext", 8)

		found, final, err := d.readToBoundary()
		require.NoError(t, err)
		assert.True(t, found)
		assert.False(t, final)

		rest, ok := d.cur.readByte()
		require.True(t, ok)
		assert.Equal(t, byte('n'), rest)
	})

	t.Run("terminal marker", func(t *testing.T) {
		d := newScanDecoder("\r\n--XyZ--\r\n", 8)

		found, final, err := d.readToBoundary()
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, final)
	})

	t.Run("boundary needs CRLF", func(t *testing.T) {
		d := newScanDecoder("--XyZ\n--XyZ", 8)

		found, _, err := d.readToBoundary()
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("overlong line never matches", func(t *testing.T) {
		d := newScanDecoder("--XyZ"+strings.Repeat(" ", 200)+"x\r\n--XyZ\r\n", 16)

		found, _, err := d.readToBoundary()
		require.NoError(t, err)
		assert.True(t, found)
		assert.LessOrEqual(t, len(d.line), len(d.boundary)+len(dashes)+maxLinePadding)
	})
}
