package txbuilder

import "github.com/decred/slog"

var txbLog = slog.Disabled

// DisableLog disables all library log output.
func DisableLog() {
	txbLog = slog.Disabled
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger slog.Logger) {
	txbLog = logger
}
