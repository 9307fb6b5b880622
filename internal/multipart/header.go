package multipart

import (
	"fmt"
	"io"
	"strings"

	"github.com/sir_venger/dropblocks/internal/models"
)

// MaxHeaderBytes ограничивает размер блока заголовков одной части.
const MaxHeaderBytes = 16 << 10

const (
	headerContentDisposition = "Content-Disposition"
	headerContentType        = "Content-Type"
)

// readHeaderBlock читает заголовки части до "\r\n\r\n" включительно. CRLF, которым
// закончилась строка границы, уже съеден сканером и учитывается в окне, поэтому часть
// без заголовков даёт блок из одного "\r\n". io.EOF — поток кончился, не начав блок.
func (d *Decoder) readHeaderBlock() ([]byte, error) {
	block := make([]byte, 0, 256)
	window := [4]byte{0, 0, '\r', '\n'}

	for {
		b, ok := d.cur.readByte()
		if !ok {
			if err := d.cur.readErr(); err != nil {
				return nil, err
			}
			if len(block) == 0 {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("%w: truncated part header", models.ErrProtocol)
		}
		if len(block) >= MaxHeaderBytes {
			return nil, fmt.Errorf("%w: part header exceeds %d bytes", models.ErrProtocol, MaxHeaderBytes)
		}

		block = append(block, b)
		window = [4]byte{window[1], window[2], window[3], b}
		if window == [4]byte{'\r', '\n', '\r', '\n'} {
			return block, nil
		}
	}
}

// parsePartHeader разбирает непустой блок заголовков. Значимы только
// Content-Disposition и Content-Type, остальные строки игнорируются. Блок без
// Content-Disposition даёт часть с пустыми полями.
func parsePartHeader(raw string) *Part {
	p := &Part{Header: raw}

	for _, line := range strings.Split(raw, "\r\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		switch {
		case strings.EqualFold(name, headerContentDisposition):
			p.Disposition = leadingWord(value)
			eachParam(value, func(key, val string) {
				switch {
				case strings.EqualFold(key, "name"):
					p.Name = val
				case strings.EqualFold(key, "filename"):
					p.Filename = val
					p.IsFile = true
				}
			})
		case strings.EqualFold(name, headerContentType):
			p.ContentType = strings.TrimSpace(value)
		}
	}

	return p
}

// leadingWord возвращает первое слово после двоеточия, например "form-data".
func leadingWord(s string) string {
	s = strings.TrimLeft(s, " \t")
	i := 0
	for i < len(s) && (isWordByte(s[i]) || s[i] == '-') {
		i++
	}

	return s[:i]
}

// eachParam вызывает fn для каждой пары `; key="value"`. Кавычки внутри значения не
// экранируются, ключ — буквы, цифры и '_'.
func eachParam(s string, fn func(key, value string)) {
	for {
		i := strings.IndexByte(s, ';')
		if i < 0 {
			return
		}
		s = strings.TrimLeft(s[i+1:], " \t")

		k := 0
		for k < len(s) && isWordByte(s[k]) {
			k++
		}
		key, rest := s[:k], s[k:]
		if key == "" || !strings.HasPrefix(rest, `="`) {
			continue
		}

		rest = rest[2:]
		end := strings.IndexByte(rest, '"')
		if end < 0 {
			return
		}
		fn(key, rest[:end])
		s = rest[end+1:]
	}
}

func isWordByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
