package lattice

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func TestLogSeverity(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	defer SetLogMode(InfoMode)

	SetLogMode(InfoMode)
	Debugf("hidden debug\n")
	Infof("shown %d\n", 1)
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("debug message written without verbose mode: %q", buf.String())
	}
	if !strings.Contains(buf.String(), " INFO shown 1") {
		t.Errorf("expected info message, got %q", buf.String())
	}

	buf.Reset()
	SetLogMode(ErrorMode)
	Warningf("dropped\n")
	Errorf("kept\n")
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), " ERROR kept") {
		t.Errorf("bad filtering at error mode: %q", buf.String())
	}

	buf.Reset()
	SetLogMode(SilentMode)
	Criticalf("silenced\n")
	if buf.Len() != 0 {
		t.Errorf("expected nothing in silent mode, got %q", buf.String())
	}

	buf.Reset()
	SetLogMode(DebugMode)
	Verbose = true
	defer func() { Verbose = false }()
	timedLog := NewTimeLog()
	timedLog.Debugf("step %s", "done")
	if !strings.Contains(buf.String(), " DEBUG step done: ") {
		t.Errorf("expected timed debug message, got %q", buf.String())
	}
}

func TestModeString(t *testing.T) {
	if WarningMode.String() != "WARNING" {
		t.Errorf("bad mode name %q", WarningMode)
	}
	if ModeFlag(9).String() != "MODE(9)" {
		t.Errorf("bad unknown mode name %q", ModeFlag(9))
	}
}
