package multipart

import "bytes"

// maxLinePadding — сколько байт пробельного «обрамления» допускается вокруг строки границы.
const maxLinePadding = 64

var dashes = []byte("--")

// readToBoundary читает поток построчно (строки разделены CRLF) до строки, совпадающей
// с границей. found=false означает, что поток закончился раньше. final=true — найдена
// завершающая граница вида "--token--". Для сравнения хранится только начало строки,
// длинные строки преамбулы в память целиком не попадают.
func (d *Decoder) readToBoundary() (found, final bool, err error) {
	limit := len(d.boundary) + len(dashes) + maxLinePadding
	line := d.line[:0]
	overflow := false
	cr := false

	push := func(b byte) {
		if len(line) < limit {
			line = append(line, b)
			return
		}
		overflow = true
	}

	for {
		b, ok := d.cur.readByte()
		if !ok {
			d.line = line
			return false, false, d.cur.readErr()
		}

		if b == '\n' && cr {
			if !overflow {
				trimmed := bytes.TrimSpace(line)
				if bytes.Equal(trimmed, d.boundary) {
					d.line = line
					return true, false, nil
				}
				if isFinalBoundary(trimmed, d.boundary) {
					d.line = line
					return true, true, nil
				}
			}
			line = line[:0]
			overflow = false
			cr = false
			continue
		}

		if cr {
			push('\r')
		}
		cr = b == '\r'
		if !cr {
			push(b)
		}
	}
}

func isFinalBoundary(line, boundary []byte) bool {
	return len(line) == len(boundary)+len(dashes) &&
		bytes.HasPrefix(line, boundary) &&
		bytes.HasSuffix(line, dashes)
}
