package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Logger defines the logger interface.
type Logger interface {
	CloneLogger() Logger
	SetLabel(label string, value string)

	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Notice(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	// Critical logs, flushes every output and terminates the process.
	Critical(format string, args ...interface{})
}

// assertLoggerInterface
func _() {
	var _ Logger = (*logger)(nil)
}

type logger struct {
	mu        sync.RWMutex
	labels    labelMap
	threshold level
	out       output
}

// NewLogger returns a new logger without tag.
func NewLogger() Logger {
	return NewLoggerTag("")
}

// NewLoggerTag returns a new logger writing to the default outputs.
func NewLoggerTag(tag string) Logger {
	return newLogger(tag, defaultOutput())
}

// NewLoggerWithWriter returns a tagged logger writing plain lines to w only.
func NewLoggerWithWriter(tag string, w io.Writer) Logger {
	return newLogger(tag, newStdOutput(w, false))
}

func newLogger(tag string, out output) *logger {
	l := &logger{
		labels:    labelMap{LabelTag: tag},
		threshold: defaultThresholdLevel(),
		out:       out,
	}
	if !l.threshold.IsValid() {
		panic(fmt.Sprintf("invalid log threshold level (%d, %d), [%d]",
			firstLevel, lastLevel, l.threshold))
	}
	return l
}

// CloneLogger returns a copy sharing outputs but owning its labels.
func (l *logger) CloneLogger() Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &logger{
		labels:    l.labels.clone(),
		threshold: l.threshold,
		out:       l.out,
	}
}

// SetLabel sets a label attached to every entry.
func (l *logger) SetLabel(label string, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.labels[label] = value
}

func (l *logger) Debug(format string, args ...interface{}) {
	l.print(debugLevel, format, args...)
}

func (l *logger) Info(format string, args ...interface{}) {
	l.print(infoLevel, format, args...)
}

func (l *logger) Notice(format string, args ...interface{}) {
	l.print(noticeLevel, format, args...)
}

func (l *logger) Warn(format string, args ...interface{}) {
	l.print(warnLevel, format, args...)
}

func (l *logger) Error(format string, args ...interface{}) {
	l.print(errorLevel, format, args...)
}

func (l *logger) Critical(format string, args ...interface{}) {
	l.print(criticalLevel, format, args...)
}

func (l *logger) print(lv level, format string, args ...interface{}) {
	defer func() {
		if lv <= criticalLevel {
			Finalize()
			os.Exit(1)
		}
	}()
	if lv > l.threshold {
		return
	}
	l.mu.RLock()
	m := l.labels.clone()
	l.mu.RUnlock()

	m["pod"] = hostName
	if m[LabelTag] == "" {
		m[LabelTag] = hostName
	}
	if lv <= errorLevel {
		// print -> Error -> caller
		m.addCallerInfo(3)
	}
	l.out.output(lv, m, fmt.Sprintf(format, args...)+"\n")
}
