package txentry

import "github.com/decred/slog"

var txewLog = slog.Disabled

// DisableLog disables all library log output.
func DisableLog() {
	txewLog = slog.Disabled
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger slog.Logger) {
	txewLog = logger
}
