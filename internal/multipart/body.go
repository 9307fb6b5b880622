package multipart

import (
	"bytes"
	"fmt"
	"io"

	"github.com/sir_venger/dropblocks/internal/models"
)

type delimMatch int

const (
	matchNone delimMatch = iota
	matchPartial
	matchFull
)

// partBody отдаёт байты тела части из общего курсора и останавливается ровно перед
// разделителем "\r\n--token", не потребляя его. После io.EOF курсор принадлежит декодеру.
type partBody struct {
	cur   *cursor
	delim []byte
	done  bool
	err   error
}

func (b *partBody) Read(p []byte) (int, error) {
	if b.done {
		return 0, b.err
	}
	if len(p) == 0 {
		return 0, nil
	}

	for {
		if !b.cur.ensureAvailable() {
			if err := b.cur.readErr(); err != nil {
				return 0, b.finish(err)
			}
			return 0, b.finish(fmt.Errorf("%w: part body: %w", models.ErrProtocol, io.ErrUnexpectedEOF))
		}

		avail := b.cur.unread()
		n, found := scanBody(avail, b.delim, b.cur.drained())
		if n > 0 {
			n = copy(p, avail[:n])
			b.cur.advance(n)
			return n, nil
		}
		if found {
			return 0, b.finish(io.EOF)
		}

		// Начало буфера похоже на разделитель, но окно неполное: дочитываем хвост,
		// сдвигая его в начало буфера, и проверяем снова.
		if !b.cur.ensureWindow(len(avail)+1) {
			if err := b.cur.readErr(); err != nil {
				return 0, b.finish(err)
			}
		}
	}
}

func (b *partBody) finish(err error) error {
	b.done = true
	b.err = err

	return err
}

// scanBody возвращает, сколько первых байт buf гарантированно относятся к телу.
// found=true — сразу за ними начинается разделитель. Если n == 0 и found == false,
// буфер начинается с неполного кандидата в разделитель и нужно дочитать данные.
func scanBody(buf, delim []byte, eof bool) (n int, found bool) {
	for off := 0; off < len(buf); {
		i := bytes.IndexByte(buf[off:], delim[0])
		if i < 0 {
			return len(buf), false
		}
		i += off

		switch matchDelimiter(buf[i:], delim, eof) {
		case matchFull:
			return i, true
		case matchPartial:
			return i, false
		}
		off = i + 1
	}

	return len(buf), false
}

// matchDelimiter проверяет, начинается ли b с разделителя и двух следующих за ним байт:
// "\r\n" (следующая часть), "--" (конец тела) или пробельного заполнения.
func matchDelimiter(b, delim []byte, eof bool) delimMatch {
	if len(b) < len(delim) {
		if !eof && bytes.HasPrefix(delim, b) {
			return matchPartial
		}
		return matchNone
	}
	if !bytes.Equal(b[:len(delim)], delim) {
		return matchNone
	}

	rest := b[len(delim):]
	switch {
	case len(rest) == 0:
		if eof {
			return matchFull
		}
		return matchPartial
	case rest[0] == ' ' || rest[0] == '\t':
		return matchFull
	case rest[0] != '\r' && rest[0] != '-':
		return matchNone
	case len(rest) == 1:
		if eof {
			return matchFull
		}
		return matchPartial
	case rest[0] == '\r' && rest[1] == '\n', rest[0] == '-' && rest[1] == '-':
		return matchFull
	}

	return matchNone
}
