package txbuilder

import "fmt"

// ErrKind enumerates the TxError taxonomy (spec.md 4.F).
type ErrKind uint8

const (
	// NotEnoughFunds means coin selection could not cover the requested
	// output total at all.
	NotEnoughFunds ErrKind = iota
	// NotEnoughAllowedMoney means the policy's candidate inputs could not
	// cover the requested total even though the wallet's full UTXO set
	// could.
	NotEnoughAllowedMoney
	// FailedToStabilize means the fee/size estimation loop did not
	// converge.
	FailedToStabilize
	// OutputIsRedeem means a caller tried to pay an output directly to a
	// redeem address through the normal builder path.
	OutputIsRedeem
	// RedemptionDepleted means the redeem address being swept holds no
	// UTXO.
	RedemptionDepleted
	// SafeSignerNotFound means signerForAddr returned no signer for one
	// of the selected inputs' owning address.
	SafeSignerNotFound
	// SignedTxNotBase16 means a hex-encoding round trip of the signed
	// transaction failed.
	SignedTxNotBase16
	// InvalidAddressFormat means an address string could not be decoded.
	InvalidAddressFormat
	// GeneralTxError covers anything else, carrying a free-form message.
	GeneralTxError
)

// TxError is the builder layer's error taxonomy. The submission wrapper
// re-raises the same Kind/Message rather than wrapping it further.
type TxError struct {
	Kind    ErrKind
	Message string
}

func (e *TxError) Error() string {
	return fmt.Sprintf("txbuilder: %s", e.Message)
}

func newTxError(kind ErrKind, format string, args ...interface{}) *TxError {
	return &TxError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
