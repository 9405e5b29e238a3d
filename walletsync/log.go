package walletsync

import "github.com/decred/slog"

var wsncLog = slog.Disabled

// DisableLog disables all library log output.
func DisableLog() {
	wsncLog = slog.Disabled
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger slog.Logger) {
	wsncLog = logger
}
