package lattice

import (
	"fmt"
	"log"

	"github.com/natefinch/lumberjack"
)

// stdLogger writes through the standard log package, which goes to stderr
// until a log file is set.
type stdLogger struct {
	file *lumberjack.Logger
}

var logger Logger = stdLogger{}

// LogConfig is the [logging] section of the TOML configuration.
type LogConfig struct {
	Logfile string
	MaxSize int `toml:"max_log_size"` // MB before rotation
	MaxAge  int `toml:"max_log_age"`  // days to keep rotated files
}

// SetLogger sends log messages to a rotating log file if one is configured.
func (c *LogConfig) SetLogger() {
	if c == nil || c.Logfile == "" {
		Debugf("No log file configured, logging to stderr.\n")
		return
	}
	fmt.Printf("Sending log messages to: %s\n", c.Logfile)
	file := &lumberjack.Logger{
		Filename: c.Logfile,
		MaxSize:  c.MaxSize,
		MaxAge:   c.MaxAge,
	}
	log.SetOutput(file)
	logger = stdLogger{file}
}

func (l stdLogger) Logf(severity ModeFlag, format string, args ...interface{}) {
	log.Print(" ", severity, " ", fmt.Sprintf(format, args...))
}

func (l stdLogger) Shutdown() {
	if l.file == nil {
		return
	}
	log.Printf("Closing log file %s\n", l.file.Filename)
	if err := l.file.Close(); err != nil {
		fmt.Printf("Error closing log file %s: %v\n", l.file.Filename, err)
	}
}
