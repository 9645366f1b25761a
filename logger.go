package primer

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called while another goroutine is loading assets.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for primer and all its sub-packages.
// By default, primer produces no log output. Call SetLogger to see the
// diagnostics emitted when a model or texture fails to load.
//
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by primer:
//   - [slog.LevelDebug]: buffer sizes, mipmap levels, GPU resource labels
//   - [slog.LevelInfo]: import summaries (element counts, texture type)
//   - [slog.LevelWarn]: non-fatal issues (resource release problems)
//   - [slog.LevelError]: aborted imports and decodes, with file and line
//
// Example:
//
//	primer.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by primer.
// Sub-packages (mesh, tga, texture, gpu) call this to share the same
// logger configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
