// Package sanitize приводит пользовательские имена файлов к виду, безопасному для
// хранения в плоском каталоге и для заголовка Content-Disposition.
package sanitize

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxFilenameLength — предел длины имени в байтах; вместе с id и '_' укладывается в 255.
const MaxFilenameLength = 200

// Filename готовит имя файла для диска: отрезает компоненты пути, убирает NUL,
// заменяет управляющие символы на '_' и ограничивает длину. Остальные символы
// (ведущие точки, ':', '?' и т.п.) сохраняются как есть.
// Пустая строка означает, что безопасного имени не осталось.
func Filename(raw string) string {
	s := strings.ReplaceAll(raw, "\x00", "")

	// Обратные слэши приводим к прямым, чтобы filepath.Base отрезал и windows-пути.
	s = strings.ReplaceAll(s, "\\", "/")
	s = filepath.Base(s)
	if s == "." || s == ".." || s == "/" {
		return ""
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return '_'
		}
		return r
	}, s)
	s = strings.TrimSpace(s)

	if len(s) > MaxFilenameLength {
		s = truncateUTF8(s, MaxFilenameLength)
	}

	return s
}

// ContentDispositionFilename готовит имя для `attachment; filename="..."`:
// выбрасывает кавычки, обратные слэши и управляющие символы.
func ContentDispositionFilename(raw string) string {
	return strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || unicode.IsControl(r) {
			return -1
		}
		return r
	}, raw)
}

func truncateUTF8(s string, n int) string {
	for n > 0 && !utf8Start(s[n]) {
		n--
	}

	return s[:n]
}

func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}
