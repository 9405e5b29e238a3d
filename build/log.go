// Package build provides the ambient logging plumbing shared by every
// wallettracker package: sub-logger creation, enable/disable, and a
// rotating-file writer a host process can plug in.
package build

import (
	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// LogWriter wraps a rotator.Rotator so it can be used as an io.Writer by the
// slog backend, mirroring the role of the teacher's build.LogWriter.
type LogWriter struct {
	rotator *rotator.Rotator
}

// Write implements io.Writer.
func (w *LogWriter) Write(b []byte) (int, error) {
	return w.rotator.Write(b)
}

// RotatingLogWriter manages a set of sub-loggers that all share the same
// rotating backend file, and knows how to swap out each sub-logger's level
// without restarting the process.
type RotatingLogWriter struct {
	writer      *LogWriter
	subLoggers  map[string]slog.Logger
	genSubLoger func(tag string) slog.Logger
}

// NewRotatingLogWriter constructs a rotating log writer backed by the given
// file path, with the given maximum file size (in bytes) and number of
// rotated files to retain.
func NewRotatingLogWriter(filePath string, maxSize int64, maxRolls int) (*RotatingLogWriter, error) {
	r, err := rotator.New(filePath, maxSize, false, maxRolls)
	if err != nil {
		return nil, err
	}

	w := &LogWriter{rotator: r}
	rl := &RotatingLogWriter{
		writer:     w,
		subLoggers: make(map[string]slog.Logger),
	}
	rl.genSubLoger = func(tag string) slog.Logger {
		return slog.NewBackend(w).Logger(tag)
	}
	return rl, nil
}

// GenSubLogger returns a fresh logger tagged with the given subsystem name,
// backed by this writer's rotating file.
func (r *RotatingLogWriter) GenSubLogger(tag string) slog.Logger {
	return r.genSubLoger(tag)
}

// RegisterSubLogger records the logger for a subsystem so its level can be
// changed later via SetLogLevel.
func (r *RotatingLogWriter) RegisterSubLogger(subsystem string, logger slog.Logger) {
	r.subLoggers[subsystem] = logger
}

// SetLogLevel changes the logging level of the named subsystem, a no-op if
// the subsystem is unknown.
func (r *RotatingLogWriter) SetLogLevel(subsystem string, level string) {
	logger, ok := r.subLoggers[subsystem]
	if !ok {
		return
	}
	lvl, ok := slog.LevelFromString(level)
	if !ok {
		return
	}
	logger.SetLevel(lvl)
}

// Close shuts down the underlying rotator.
func (r *RotatingLogWriter) Close() error {
	r.writer.rotator.Close()
	return nil
}

// NewSubLogger constructs a logger for the given subsystem tag. When genLogger
// is nil the logger discards all output until a host supplies one via
// UseLogger, matching how every component package in this module declares
// its logger variable before any RotatingLogWriter exists.
func NewSubLogger(tag string, genLogger func(tag string) slog.Logger) slog.Logger {
	if genLogger == nil {
		return slog.Disabled
	}
	return genLogger(tag)
}
