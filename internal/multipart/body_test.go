package multipart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanBody(t *testing.T) {
	delim := []byte("\r\n--XyZ")

	tests := []struct {
		name      string
		buf       string
		eof       bool
		wantN     int
		wantFound bool
	}{
		{"plain data", "hello world", false, 11, false},
		{"delimiter then CRLF", "abc\r\n--XyZ\r\nnext", false, 3, true},
		{"delimiter then final dashes", "abc\r\n--XyZ--", false, 3, true},
		{"delimiter then padding", "abc\r\n--XyZ \r\n", false, 3, true},
		{"near miss suffix", "abc\r\n--XyZa\r\n", false, 11, false},
		{"partial prefix at tail", "abc\r\n--X", false, 3, false},
		{"delimiter without trailing bytes", "abc\r\n--XyZ", false, 3, false},
		{"delimiter with one trailing byte", "abc\r\n--XyZ-", false, 3, false},
		{"partial prefix at eof is data", "abc\r\n--X", true, 8, false},
		{"delimiter at eof", "abc\r\n--XyZ", true, 3, true},
		{"lone CR", "a\rb", false, 3, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, found := scanBody([]byte(tc.buf), delim, tc.eof)
			assert.Equal(t, tc.wantN, n)
			assert.Equal(t, tc.wantFound, found)
		})
	}
}
