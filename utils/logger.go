package utils

import (
	"fmt"
	"log"
	"os"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// Logger provides structured, leveled logging throughout the application.
// Errors go to stderr, everything else to stdout.
type Logger struct {
	out *log.Logger
	err *log.Logger
}

// NewLogger creates a new Logger writing to stdout/stderr.
func NewLogger() *Logger {
	return &Logger{
		out: log.New(os.Stdout, "", 0),
		err: log.New(os.Stderr, "", 0),
	}
}

func (l *Logger) print(dst *log.Logger, level, format string, args ...any) {
	stamp := time.Now().Format(timestampLayout)
	dst.Printf(fmt.Sprintf("[%s] %s %s\n", stamp, level, format), args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.print(l.out, "\033[32mINFO\033[0m ", format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.print(l.out, "\033[33mWARN\033[0m ", format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.print(l.err, "\033[31mERROR\033[0m", format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.print(l.out, "\033[36mDEBUG\033[0m", format, args...)
}
