package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/linebreak/pkg/pipeline"
)

// newLogger creates the CLI logger. Entries carry the program name and a
// timestamp such as "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// commandLogger scopes l to the running command, so the runner and the
// server log with cmd=break, cmd=serve and so on.
func commandLogger(l *log.Logger, cmd *cobra.Command) *log.Logger {
	return l.With("cmd", cmd.Name())
}

// logResult records the outcome of breaking one input at debug level.
func logResult(l *log.Logger, source string, res *pipeline.Result) {
	l.Debug("broke input",
		"source", source,
		"parts", len(res.Parts),
		"passes", res.Passes,
		"demerits", res.Demerits,
		"overflow", res.Overflow,
		"cache_hit", res.CacheHit,
	)
}

// stopwatch logs the completion of a batch with its elapsed time.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
}

func startStopwatch(l *log.Logger) *stopwatch {
	return &stopwatch{logger: l, start: time.Now()}
}

func (s *stopwatch) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(s.start).Round(time.Millisecond))
	s.logger.Info(msg, keyvals...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the command logger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
