package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/linebreak/pkg/knuth"
	"github.com/matzehuels/linebreak/pkg/pipeline"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, LogInfo).Info("loaded config")

	out := buf.String()
	if !strings.Contains(out, appName) || !strings.Contains(out, "loaded config") {
		t.Errorf("log line = %q, want program name and message", out)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		debug   bool
		wantLog bool
	}{
		{"info at info level", LogInfo, false, true},
		{"debug at info level", LogInfo, true, false},
		{"debug at debug level", LogDebug, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			if tt.debug {
				logger.Debug("node created")
			} else {
				logger.Info("node created")
			}
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestCommandLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := commandLogger(newLogger(&buf, LogInfo), &cobra.Command{Use: "break FILE..."})
	logger.Info("opened cache")

	if !strings.Contains(buf.String(), "cmd=break") {
		t.Errorf("log line = %q, want cmd=break", buf.String())
	}
}

func TestLogResult(t *testing.T) {
	var buf bytes.Buffer
	res := &pipeline.Result{
		Parts:    make([]knuth.Part, 3),
		Passes:   2,
		Overflow: true,
	}
	logResult(newLogger(&buf, LogDebug), "para.json", res)

	for _, want := range []string{"source=para.json", "parts=3", "passes=2", "overflow=true", "cache_hit=false"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log line %q missing %s", buf.String(), want)
		}
	}

	buf.Reset()
	logResult(newLogger(&buf, LogInfo), "para.json", res)
	if buf.Len() != 0 {
		t.Errorf("results are logged at debug level, got %q", buf.String())
	}
}

func TestStopwatch(t *testing.T) {
	var buf bytes.Buffer
	startStopwatch(newLogger(&buf, LogInfo)).done("broke sequences", "count", 2)

	out := buf.String()
	for _, want := range []string{"broke sequences", "count=2", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %s", out, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("a context without logger should yield log.Default()")
	}

	logger := newLogger(io.Discard, LogInfo)
	if loggerFromContext(withLogger(context.Background(), logger)) != logger {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestBreakCommand_Logging(t *testing.T) {
	path, _ := writeSequence(t, t.TempDir(), "para.json")

	var logs bytes.Buffer
	_, err := executeWith(t, t.Context(), New(&logs, LogDebug), "", "break", path, "-w", "700", "-f", "json", "--no-cache")
	if err != nil {
		t.Fatalf("break: %v", err)
	}
	for _, want := range []string{"cmd=break", "source=" + path, "parts="} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("logs missing %s:\n%s", want, logs.String())
		}
	}
}

func TestServeCommand_Logging(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	var logs bytes.Buffer
	_, err := executeWith(t, ctx, New(&logs, LogInfo), "", "serve", "--addr", "127.0.0.1:0", "--no-cache")
	if err != nil {
		t.Fatalf("serve: %v", err)
	}
	for _, want := range []string{"cmd=serve", "shutting down"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("logs missing %s:\n%s", want, logs.String())
		}
	}
}
