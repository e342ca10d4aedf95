// package logger is a small leveled logger with a caller prefix, used by all
// long-lived components. Level 0 silences everything, 1 is the default,
// 2 adds debug output, 3 adds per-endpoint network traces.
package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

var Reset = "\033[0m"
var Red = "\033[31m"
var Green = "\033[32m"
var Yellow = "\033[33m"
var Cyan = "\033[36m"

var DiscardLog = &Log{out: io.Discard, errOut: io.Discard}

type Log struct {
	level  uint8
	out    io.Writer
	errOut io.Writer

	sync.Mutex
}

func New() *Log {
	return &Log{
		level:  1,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

func (l *Log) SetLogLevel(lvl uint8) {
	l.Lock()
	defer l.Unlock()
	l.level = lvl
}

func (l *Log) SetOutput(out, errOut io.Writer) {
	l.Lock()
	defer l.Unlock()
	l.out = out
	l.errOut = errOut
}

func prefix() string {
	_, file, line, _ := runtime.Caller(3)
	spl := strings.Split(file, "/")
	at := strings.TrimSuffix(spl[len(spl)-1], ".go") + ":" + strconv.Itoa(line)
	for len(at) < 16 {
		at += " "
	}

	t := time.Now()
	return fmt.Sprintf("%02d:%02d:%02d.%03d %s", t.Hour(), t.Minute(), t.Second(),
		t.Nanosecond()/1e6, at)
}

func (l *Log) write(w io.Writer, min uint8, color, tag, msg string) {
	l.Lock()
	defer l.Unlock()
	if l.level < min {
		return
	}
	w.Write([]byte(prefix() + color + tag + " " + msg + Reset + "\n"))
}

func (l *Log) Info(a ...any) {
	l.write(l.out, 1, "", "I", strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
}
func (l *Log) Infof(format string, a ...any) {
	l.write(l.out, 1, "", "I", fmt.Sprintf(format, a...))
}

func (l *Log) Warn(a ...any) {
	l.write(l.out, 1, Yellow, "W", strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
}
func (l *Log) Warnf(format string, a ...any) {
	l.write(l.out, 1, Yellow, "W", fmt.Sprintf(format, a...))
}

func (l *Log) Err(a ...any) {
	l.write(l.errOut, 1, Red, "E", strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
}
func (l *Log) Errf(format string, a ...any) {
	l.write(l.errOut, 1, Red, "E", fmt.Sprintf(format, a...))
}

func (l *Log) Debug(a ...any) {
	l.write(l.out, 2, Cyan, "D", strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
}
func (l *Log) Debugf(format string, a ...any) {
	l.write(l.out, 2, Cyan, "D", fmt.Sprintf(format, a...))
}

// Net logs per-endpoint RPC attempts
func (l *Log) Net(a ...any) {
	l.write(l.out, 3, Green, "N", strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
}
func (l *Log) Netf(format string, a ...any) {
	l.write(l.out, 3, Green, "N", fmt.Sprintf(format, a...))
}

func (l *Log) Fatal(a ...any) {
	msg := strings.TrimSuffix(fmt.Sprintln(a...), "\n")
	l.write(l.errOut, 0, Red, "F", msg)
	panic(msg)
}
