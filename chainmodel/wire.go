package chainmodel

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
)

// ToWireMsgTx converts a Tx into a real *wire.MsgTx, given the pkScript for
// each output in order. It exists to let a host's Crypto implementation
// reuse dcrd's own transaction encoding rather than inventing a parallel
// wire format, the way createCoinbaseTx builds up a *wire.MsgTx one TxIn/
// TxOut at a time.
func ToWireMsgTx(tx Tx, outScripts [][]byte) *wire.MsgTx {
	msgTx := wire.NewMsgTx()
	for _, in := range tx.Inputs {
		prevOut := wire.NewOutPoint(&in.PrevTxID, in.PrevOut, wire.TxTreeRegular)
		msgTx.AddTxIn(wire.NewTxIn(prevOut, 0, nil))
	}
	for i, out := range tx.Outputs {
		var pkScript []byte
		if i < len(outScripts) {
			pkScript = outScripts[i]
		}
		msgTx.AddTxOut(wire.NewTxOut(int64(out.Coin), pkScript))
	}
	return msgTx
}

// DefaultHashTx is the reference chainmodel.Crypto.HashTx: it builds the
// real *wire.MsgTx for tx (resolving each output's pkScript via toScript)
// and hashes it with dcrd's own transaction-hashing algorithm. A host is
// free to hash differently; this is only the scheme a caller gets if it has
// no reason to do otherwise.
func DefaultHashTx(tx Tx, toScript func(CId) ([]byte, error)) (TxID, error) {
	outScripts := make([][]byte, len(tx.Outputs))
	for i, out := range tx.Outputs {
		script, err := toScript(out.Address)
		if err != nil {
			return chainhash.Hash{}, err
		}
		outScripts[i] = script
	}
	return ToWireMsgTx(tx, outScripts).TxHash(), nil
}
