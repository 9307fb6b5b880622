package storageclient

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

const meterPeriod = 120 * time.Millisecond

// meter считает байты, проходящие через Write, и печатает строку прогресса в out.
// Перерисовка не чаще meterPeriod; итоговая строка печатается в done.
// nil-meter ничего не делает, поэтому его можно подставлять в io.MultiWriter/TeeReader
// без проверок.
type meter struct {
	out   io.Writer
	label string
	total int64
	n     int64
	last  time.Time
	ended bool
}

func newMeter(out io.Writer, label string, total int64) *meter {
	if out == nil {
		return nil
	}

	return &meter{out: out, label: label, total: total}
}

func (m *meter) Write(p []byte) (int, error) {
	if m == nil || m.ended {
		return len(p), nil
	}

	m.n += int64(len(p))
	if now := time.Now(); now.Sub(m.last) >= meterPeriod {
		m.last = now
		fmt.Fprintf(m.out, "\r%s", m.status())
	}

	return len(p), nil
}

// done печатает итог: размер и скорость при успехе, ошибку иначе.
func (m *meter) done(start time.Time, err error) {
	if m == nil || m.ended {
		return
	}
	m.ended = true

	if err != nil {
		fmt.Fprintf(m.out, "\r%s: failed: %v\n", m.status(), err)
		return
	}

	rate := ""
	if secs := time.Since(start).Seconds(); secs > 0 {
		rate = fmt.Sprintf(" (%s/s)", humanize.Bytes(uint64(float64(m.n)/secs)))
	}
	fmt.Fprintf(m.out, "\r%s: done%s\n", m.status(), rate)
}

func (m *meter) status() string {
	if m.total <= 0 {
		return fmt.Sprintf("%s %s", m.label, humanize.Bytes(uint64(m.n)))
	}

	pct := min(100, m.n*100/m.total)
	return fmt.Sprintf("%s %3d%% %s / %s", m.label, pct, humanize.Bytes(uint64(m.n)), humanize.Bytes(uint64(m.total)))
}
