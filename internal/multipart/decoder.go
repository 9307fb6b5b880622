package multipart

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sir_venger/dropblocks/internal/models"
)

type state int

const (
	stateAwaitBoundary state = iota
	stateReadHeader
	stateEmitPart
	stateDone
)

// Part — одна часть multipart-тела: поле формы или файл. Сам Part является io.Reader
// поверх тела части; прочитать тело можно только до следующего вызова NextPart.
type Part struct {
	Disposition string
	Name        string
	Filename    string
	ContentType string
	// IsFile выставляется, если в Content-Disposition присутствует filename.
	IsFile bool
	// Header — сырой текст блока заголовков.
	Header string

	body *partBody
}

// Read читает тело части.
func (p *Part) Read(b []byte) (int, error) {
	if p.body == nil {
		return 0, io.EOF
	}

	return p.body.Read(b)
}

// Option настраивает Decoder.
type Option func(*Decoder)

// WithBufferSize задаёт ёмкость буфера чтения.
func WithBufferSize(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.bufferSize = n
		}
	}
}

// Decoder последовательно выдаёт части multipart/form-data тела.
// Не безопасен для конкурентного использования.
type Decoder struct {
	cur        *cursor
	bufferSize int
	boundary   []byte
	delim      []byte
	state      state
	current    *Part
	line       []byte
	err        error
}

// NewDecoder создаёт декодер для тела r с заголовком Content-Type contentType и сразу
// пропускает преамбулу до первой границы.
func NewDecoder(r io.Reader, contentType string, opts ...Option) (*Decoder, error) {
	token, err := BoundaryFromContentType(contentType)
	if err != nil {
		return nil, err
	}

	d := &Decoder{
		bufferSize: DefaultBufferSize,
		boundary:   []byte("--" + token),
		delim:      []byte("\r\n--" + token),
	}
	for _, opt := range opts {
		opt(d)
	}

	// Окно проверки разделителя обязано помещаться в буфер целиком.
	if need := len(d.delim) + len(dashes); d.bufferSize < need {
		return nil, fmt.Errorf("%w: boundary of %d bytes does not fit read buffer of %d bytes",
			models.ErrProtocol, len(token), d.bufferSize)
	}
	d.cur = newCursor(r, d.bufferSize)

	found, final, err := d.readToBoundary()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: missing initial boundary", models.ErrProtocol)
	}

	d.state = stateReadHeader
	if final {
		d.state = stateDone
	}

	return d, nil
}

// NextPart возвращает следующую часть или io.EOF, когда частей больше нет: встречена
// завершающая граница либо поток закончился. Недочитанное тело предыдущей части
// вычитывается и отбрасывается.
func (d *Decoder) NextPart() (*Part, error) {
	if d.err != nil {
		return nil, d.err
	}

	for {
		switch d.state {
		case stateDone:
			return nil, io.EOF

		case stateEmitPart:
			if _, err := io.Copy(io.Discard, d.current); err != nil {
				return nil, d.fail(err)
			}
			d.current = nil
			d.state = stateAwaitBoundary

		case stateAwaitBoundary:
			found, final, err := d.readToBoundary()
			if err != nil {
				return nil, d.fail(err)
			}
			if !found || final {
				d.state = stateDone
				continue
			}
			d.state = stateReadHeader

		case stateReadHeader:
			block, err := d.readHeaderBlock()
			if errors.Is(err, io.EOF) {
				d.state = stateDone
				continue
			}
			if err != nil {
				return nil, d.fail(err)
			}

			raw := strings.TrimSpace(string(block))
			if raw == "" {
				// Часть без заголовков не выдаём — ищем следующую границу.
				d.state = stateAwaitBoundary
				continue
			}

			part := parsePartHeader(raw)
			part.body = &partBody{cur: d.cur, delim: d.delim}
			d.current = part
			d.state = stateEmitPart

			return part, nil
		}
	}
}

func (d *Decoder) fail(err error) error {
	d.err = err
	d.state = stateDone

	return err
}
