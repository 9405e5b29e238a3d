package chainmodel

import (
	dcrerrors "decred.org/dcrwallet/v2/errors"
)

// NewInternalError builds the InternalError variant of spec.md 7: the
// wallet DB references a header the chain DB does not know about. It is
// fatal for the wallet that produced it; walletsync's per-wallet barrier is
// the only place that catches it.
func NewInternalError(op dcrerrors.Op, msg string) error {
	return dcrerrors.E(op, dcrerrors.Invalid, dcrerrors.New(msg))
}

// IsInternalError reports whether err carries the errors.Invalid kind that
// NewInternalError attaches. Any other error of that kind also matches.
func IsInternalError(err error) bool {
	return dcrerrors.Is(err, dcrerrors.Invalid)
}
