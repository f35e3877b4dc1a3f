package lattice

import (
	"fmt"
	"time"
)

// ModeFlag is the severity of a log message.
type ModeFlag uint

const (
	DebugMode ModeFlag = iota
	InfoMode
	WarningMode
	ErrorMode
	CriticalMode
	SilentMode
)

var modeNames = [...]string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL", "SILENT"}

func (m ModeFlag) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("MODE(%d)", uint(m))
}

var (
	// Verbose must be set for Debug messages to be written.
	Verbose bool

	// mode is the minimum severity written.
	mode = InfoMode
)

// Logger writes messages that passed the severity check.
type Logger interface {
	Logf(severity ModeFlag, format string, args ...interface{})

	// Shutdown flushes and closes any log file.
	Shutdown()
}

// SetLogMode sets the lowest severity written, e.g., SetLogMode(WarningMode)
// drops Debug and Info messages.  SilentMode drops everything.
func SetLogMode(newMode ModeFlag) {
	mode = newMode
}

func enabled(severity ModeFlag) bool {
	if severity == DebugMode && !Verbose {
		return false
	}
	return severity >= mode && severity < SilentMode
}

func logf(l Logger, severity ModeFlag, format string, args []interface{}) {
	if enabled(severity) {
		l.Logf(severity, format, args...)
	}
}

// Debugf is written only in verbose mode.
func Debugf(format string, args ...interface{}) { logf(logger, DebugMode, format, args) }

func Infof(format string, args ...interface{}) { logf(logger, InfoMode, format, args) }

func Warningf(format string, args ...interface{}) { logf(logger, WarningMode, format, args) }

func Errorf(format string, args ...interface{}) { logf(logger, ErrorMode, format, args) }

func Criticalf(format string, args ...interface{}) { logf(logger, CriticalMode, format, args) }

// Shutdown closes any log file.
func Shutdown() {
	logger.Shutdown()
}

// TimeLog appends the time elapsed since its creation to each message:
//
//	timedLog := NewTimeLog()
//	...
//	timedLog.Infof("Opened store %s", path) // "Opened store /data: 1.2s"
type TimeLog struct {
	logger Logger
	start  time.Time
}

func NewTimeLog() TimeLog {
	return TimeLog{logger, time.Now()}
}

func (t TimeLog) logf(severity ModeFlag, format string, args []interface{}) {
	logf(t.logger, severity, format+": %s\n", append(args, time.Since(t.start)))
}

func (t TimeLog) Debugf(format string, args ...interface{}) { t.logf(DebugMode, format, args) }

func (t TimeLog) Infof(format string, args ...interface{}) { t.logf(InfoMode, format, args) }

func (t TimeLog) Warningf(format string, args ...interface{}) { t.logf(WarningMode, format, args) }

func (t TimeLog) Errorf(format string, args ...interface{}) { t.logf(ErrorMode, format, args) }
