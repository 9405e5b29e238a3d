// Package txsubmit dispatches a built transaction to the network and
// durably records it, per spec.md 4.G.
package txsubmit

import (
	"github.com/decred/wallettracker/chainmodel"
)

// logClosure defers an expensive log message format until the logger
// actually needs it.
type logClosure func() string

func (c logClosure) String() string { return c() }

func newLogClosure(c func() string) logClosure { return logClosure(c) }

// SubmitTxRaw hashes txAux, logs it, and enqueues it for network dispatch.
// It returns whatever acceptance the dispatcher reports: true iff at least
// one peer accepted the transaction.
func SubmitTxRaw(hasher chainmodel.Crypto, enqueue chainmodel.Network, txAux chainmodel.TxAux) (bool, error) {
	txid := hasher.HashTx(txAux.Tx)

	txsLog.Infof("New transaction %v", newLogClosure(func() string {
		return chainmodel.FormatTx(txAux)
	}))
	txsLog.Infof("Tx id: %v", txid)

	msg := chainmodel.OutboundMsg{
		Inv:     chainmodel.InvItem{TxID: txid},
		Payload: chainmodel.TxMsgContents{TxAux: txAux},
	}
	accepted, err := enqueue.Enqueue(msg)
	if err != nil {
		return false, err
	}
	return accepted, nil
}

// SubmitAndSave performs SubmitTxRaw then unconditionally persists txAux
// into the mempool snapshot, regardless of network acceptance: local
// durability comes first.
func SubmitAndSave(hasher chainmodel.Crypto, mps chainmodel.MempoolSnapshot,
	store chainmodel.MempoolStore, enqueue chainmodel.Network, txAux chainmodel.TxAux) (bool, error) {

	accepted, submitErr := SubmitTxRaw(hasher, enqueue, txAux)

	txid := hasher.HashTx(txAux.Tx)
	if err := store.SaveTx(mps, txid, txAux); err != nil {
		return accepted, err
	}
	return accepted, submitErr
}

// SendTxOuts advertises the outbound capability used for transaction
// relay: InvOrData(TxId, TxMsgContents).
func SendTxOuts(hasher chainmodel.Crypto, txAux chainmodel.TxAux) chainmodel.OutboundMsg {
	txid := hasher.HashTx(txAux.Tx)
	return chainmodel.OutboundMsg{
		Inv:     chainmodel.InvItem{TxID: txid},
		Payload: chainmodel.TxMsgContents{TxAux: txAux},
	}
}
