package multipart

import "io"

// DefaultBufferSize — размер буфера чтения по умолчанию.
const DefaultBufferSize = 8192

const maxEmptyReads = 100

// cursor — буфер фиксированной ёмкости с парой length/position поверх исходного потока.
// Инвариант: 0 <= pos <= length <= len(buf). Двигать pos в каждый момент может только
// один потребитель: сканер границы, чтение заголовков или активное тело части.
type cursor struct {
	r      io.Reader
	buf    []byte
	length int
	pos    int
	err    error
}

func newCursor(r io.Reader, size int) *cursor {
	return &cursor{r: r, buf: make([]byte, size)}
}

// unread возвращает ещё не прочитанные байты текущего заполнения.
func (c *cursor) unread() []byte {
	return c.buf[c.pos:c.length]
}

func (c *cursor) advance(n int) {
	c.pos += n
}

// ensureAvailable перечитывает буфер, если непрочитанных байт не осталось.
// false означает конец потока (или ошибку чтения, см. readErr).
func (c *cursor) ensureAvailable() bool {
	if c.pos < c.length {
		return true
	}
	c.pos, c.length = 0, 0

	return c.fill()
}

// ensureWindow добивается, чтобы непрочитанных байт было не меньше n, сдвигая остаток
// в начало того же буфера. Ёмкость не растёт, поэтому n ограничено её размером.
func (c *cursor) ensureWindow(n int) bool {
	if n > len(c.buf) {
		n = len(c.buf)
	}
	for c.length-c.pos < n {
		if c.pos > 0 {
			c.length = copy(c.buf, c.buf[c.pos:c.length])
			c.pos = 0
		}
		if !c.fill() {
			return false
		}
	}

	return true
}

// readByte отдаёт следующий байт, при необходимости перечитывая буфер.
func (c *cursor) readByte() (byte, bool) {
	if !c.ensureAvailable() {
		return 0, false
	}
	b := c.buf[c.pos]
	c.pos++

	return b, true
}

// fill дочитывает данные в свободный хвост буфера.
func (c *cursor) fill() bool {
	if c.err != nil {
		return false
	}
	for i := 0; i < maxEmptyReads; i++ {
		n, err := c.r.Read(c.buf[c.length:])
		c.length += n
		if err != nil {
			c.err = err
		}
		if n > 0 {
			return true
		}
		if err != nil {
			return false
		}
	}
	c.err = io.ErrNoProgress

	return false
}

// drained сообщает, что исходный поток больше ничего не отдаст.
func (c *cursor) drained() bool {
	return c.err != nil
}

// readErr возвращает ошибку чтения исходного потока; io.EOF ошибкой не считается.
func (c *cursor) readErr() error {
	if c.err == io.EOF {
		return nil
	}

	return c.err
}
