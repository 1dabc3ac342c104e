package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Log formats accepted by --log-format.
const (
	logText   = "text"
	logJSON   = "json"
	logLogfmt = "logfmt"
)

// newLogger creates a timestamped text logger writing to w at level.
// Timestamps look like "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// setLogFormat switches l to a text, JSON or logfmt formatter. Machine
// formats use RFC 3339 timestamps.
func setLogFormat(l *log.Logger, format string) error {
	switch format {
	case "", logText:
		l.SetFormatter(log.TextFormatter)
		l.SetTimeFormat("15:04:05.00")
	case logJSON:
		l.SetFormatter(log.JSONFormatter)
		l.SetTimeFormat(time.RFC3339)
	case logLogfmt:
		l.SetFormatter(log.LogfmtFormatter)
		l.SetTimeFormat(time.RFC3339)
	default:
		return fmt.Errorf("invalid log format: %s (must be 'text', 'json' or 'logfmt')", format)
	}
	return nil
}

// progress logs how long an operation took. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with the elapsed time, rounded to the
// millisecond, appended to keyvals:
//
//	14:32:01.45 INFO simulated frames=120 elapsed=12ms
func (p *progress) done(msg string, keyvals ...any) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(msg, append(keyvals, "elapsed", elapsed)...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
