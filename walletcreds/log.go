package walletcreds

import (
	"github.com/decred/slog"
)

// wcrdLog is the package logger. It discards all output until UseLogger is
// called by the host, matching lnwallet/dcrwallet/log.go's convention.
var wcrdLog = slog.Disabled

// DisableLog disables all library log output.
func DisableLog() {
	wcrdLog = slog.Disabled
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger slog.Logger) {
	wcrdLog = logger
}
