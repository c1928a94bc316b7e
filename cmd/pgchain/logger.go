package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mgutz/ansi"
)

// Logger writes command output. Colors are only used on a terminal.
type Logger struct {
	out io.Writer
	err io.Writer

	sql   func(string) string
	param func(string) string
	fail  func(string) string
}

func plain(s string) string { return s }

// NewLogger creates a Logger writing to out and errOut.
func NewLogger(out, errOut io.Writer, color bool) *Logger {
	l := &Logger{out: out, err: errOut, sql: plain, param: plain, fail: plain}
	if color {
		l.sql = ansi.ColorFunc("cyan")
		l.param = ansi.ColorFunc("green+h")
		l.fail = ansi.ColorFunc("red+b")
	}
	return l
}

// Info writes string to out
func (l *Logger) Info(s string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintf(l.out, s, args...)
		return
	}
	io.WriteString(l.out, s)
}

// Error writes string to err
func (l *Logger) Error(s string) {
	io.WriteString(l.err, l.fail(s))
}

func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

var logger = NewLogger(os.Stdout, os.Stderr, isTerminal())
