package logging

import (
	"io"
	"os"

	"github.com/phuslu/log"
)

// New builds the process logger. format is "console" or "json"; anything
// else falls back to console output.
func New(level, format string, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := &log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: "15:04:05",
	}
	switch format {
	case "json":
		logger.Writer = &log.IOWriter{Writer: w}
	default:
		logger.Writer = &log.ConsoleWriter{
			Writer:      w,
			ColorOutput: isTerminal(w),
			QuoteString: true,
		}
	}
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return &log.Logger{Level: log.PanicLevel, Writer: &log.IOWriter{Writer: io.Discard}}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && log.IsTerminal(f.Fd())
}
