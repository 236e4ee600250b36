package observability

import (
	"log"
	"os"
)

// Logger writes leveled key=value lines to stdout for the binary edge and
// the bus subscribers. Services under internal/ log with the stdlib logger
// directly.
type Logger struct {
	l *log.Logger
}

func NewLogger() *Logger {
	return &Logger{l: log.New(os.Stdout, "", log.LstdFlags|log.LUTC)}
}

func (lg *Logger) Info(msg string, kv ...any) {
	lg.l.Println(append([]any{"INFO", msg}, kv...)...)
}

func (lg *Logger) Error(msg string, kv ...any) {
	lg.l.Println(append([]any{"ERROR", msg}, kv...)...)
}
