package logging

import (
	"fmt"
	"io"
	"os"
)

// Logger prints line-oriented progress to a writer, stdout by default.
type Logger struct {
	out io.Writer
}

func New(out io.Writer) *Logger {
	if out == nil {
		out = os.Stdout
	}
	return &Logger{out: out}
}

// Infof prints an "[INFO]" progress line.
func (l *Logger) Infof(format string, args ...any) {
	fmt.Fprintf(l.out, "[INFO] "+format+"\n", args...)
}

// Successf prints a "[SUCCESS]" milestone line.
func (l *Logger) Successf(format string, args ...any) {
	fmt.Fprintf(l.out, "[SUCCESS] "+format+"\n", args...)
}
