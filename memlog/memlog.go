// Package memlog contains the application logger. It writes through logrus and also keeps every
// line of the current process in memory, so a run can report on its own failures
package memlog

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the top-level logger, used to create child loggers for packages
type Logger struct {
	base         *logrus.Logger
	receiveMutex *sync.Mutex
	allLogs      []LogLine
}

// LogLine is a log entry, containing the message, its level and fields,
// as well as the Unix time stamp
type LogLine struct {
	Message string
	Level   logrus.Level
	Fields  logrus.Fields
	UNIX    int64
}

// New creates a new top-level logger writing text lines to out
func New(out io.Writer, level logrus.Level) *Logger {
	base := logrus.New()
	base.SetOutput(out)
	base.SetLevel(level)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	l := &Logger{
		base:         base,
		receiveMutex: &sync.Mutex{},
		allLogs:      []LogLine{},
	}
	base.AddHook(l)
	return l
}

// Levels implements logrus.Hook, every level is recorded
func (l *Logger) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook
func (l *Logger) Fire(entry *logrus.Entry) error {
	fields := make(logrus.Fields, len(entry.Data))
	for k, v := range entry.Data {
		fields[k] = v
	}
	l.receiveMutex.Lock()
	l.allLogs = append(l.allLogs, LogLine{
		Message: entry.Message,
		Level:   entry.Level,
		Fields:  fields,
		UNIX:    entry.Time.Unix(),
	})
	l.receiveMutex.Unlock()
	return nil
}

// GetAllLogs retreives all lines stored in the Logger
func (l *Logger) GetAllLogs() []LogLine {
	l.receiveMutex.Lock()
	defer l.receiveMutex.Unlock()
	logs := make([]LogLine, len(l.allLogs))
	copy(logs, l.allLogs)
	return logs
}

// Errors returns the lines logged at error level or above
func (l *Logger) Errors() []LogLine {
	errs := []LogLine{}
	for _, line := range l.GetAllLogs() {
		if line.Level <= logrus.ErrorLevel {
			errs = append(errs, line)
		}
	}
	return errs
}

// Reset forgets every stored line, used between runs in loop mode
func (l *Logger) Reset() {
	l.receiveMutex.Lock()
	l.allLogs = []LogLine{}
	l.receiveMutex.Unlock()
}

// NewChild creates a child logger tagged with the given package name
func (l *Logger) NewChild(packageName string) *logrus.Entry {
	return l.base.WithField("package", packageName)
}

// Discard returns a logger that keeps lines in memory but prints nothing, used by tests
func Discard() *Logger {
	return New(io.Discard, logrus.DebugLevel)
}
