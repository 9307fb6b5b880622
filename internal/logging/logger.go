package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

const prefix = "dropblocks"

// New создаёт логгер charmbracelet/log заданного уровня (debug, info, warn, error).
// На уровне debug дополнительно печатается место вызова.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    lvl == log.DebugLevel,
		Prefix:          prefix,
		Level:           lvl,
	})

	return logger, nil
}

// Discard возвращает логгер, который ничего не пишет. Удобен в тестах.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
