package walletmod

import "github.com/decred/slog"

var wmodLog = slog.Disabled

// DisableLog disables all library log output.
func DisableLog() {
	wmodLog = slog.Disabled
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger slog.Logger) {
	wmodLog = logger
}
