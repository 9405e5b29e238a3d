package txbuilder

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/v3"
	"github.com/decred/dcrd/txscript/v4/stdaddr"

	"github.com/decred/wallettracker/chainmodel"
)

// validateAddr decodes addr against the builder's network parameters,
// surfacing a TxError on malformed input instead of letting the caller
// build a transaction with an unspendable output.
func validateAddr(params *chaincfg.Params, addr chainmodel.CId) (stdaddr.Address, error) {
	a, err := stdaddr.DecodeAddress(string(addr), params)
	if err != nil {
		return nil, newTxError(InvalidAddressFormat, "%s: %v", addr, err)
	}
	return a, nil
}

// payToAddrScript resolves the version-0 payment script for addr. Adapted
// from the dcrd txscript v3-to-v4 migration shim: a stdaddr.Address always
// reports its own payment script version, and this builder only ever deals
// in the default (version 0) script.
func payToAddrScript(addr stdaddr.Address) ([]byte, error) {
	version, script := addr.PaymentScript()
	if version != 0 {
		return nil, fmt.Errorf("incompatible script version %d", version)
	}
	return script, nil
}

// DefaultToScript resolves an address's payment script on params, composing
// validateAddr and payToAddrScript into the shape chainmodel.DefaultHashTx
// needs.
func DefaultToScript(params *chaincfg.Params) func(chainmodel.CId) ([]byte, error) {
	return func(cid chainmodel.CId) ([]byte, error) {
		addr, err := validateAddr(params, cid)
		if err != nil {
			return nil, err
		}
		return payToAddrScript(addr)
	}
}
