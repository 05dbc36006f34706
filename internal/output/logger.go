package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// Logger prints colored status lines. It is safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	out io.Writer

	green  *color.Color
	yellow *color.Color
	red    *color.Color
}

// NewLogger creates a logger writing to out, or to stderr when out is nil.
func NewLogger(out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{
		out:    out,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
	}
}

// Status prints a green line.
func (l *Logger) Status(format string, args ...interface{}) {
	l.print(l.green, format, args...)
}

// Progress prints a yellow line.
func (l *Logger) Progress(format string, args ...interface{}) {
	l.print(l.yellow, format, args...)
}

// Error prints a red line.
func (l *Logger) Error(format string, args ...interface{}) {
	l.print(l.red, format, args...)
}

// Info prints an uncolored line.
func (l *Logger) Info(format string, args ...interface{}) {
	l.print(nil, format, args...)
}

// Summary prints the processed counts and the elapsed time since start.
func (l *Logger) Summary(repos, records int, start time.Time) {
	l.Info("\nProcessed %s repositories, %s records in %s",
		humanize.Comma(int64(repos)), humanize.Comma(int64(records)),
		time.Since(start).Round(time.Millisecond))
}

func (l *Logger) print(c *color.Color, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c == nil {
		fmt.Fprintf(l.out, format+"\n", args...)
		return
	}
	c.Fprintf(l.out, format+"\n", args...)
}
