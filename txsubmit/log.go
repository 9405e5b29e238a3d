package txsubmit

import "github.com/decred/slog"

var txsLog = slog.Disabled

// DisableLog disables all library log output.
func DisableLog() {
	txsLog = slog.Disabled
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger slog.Logger) {
	txsLog = logger
}
