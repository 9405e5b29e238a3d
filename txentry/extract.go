// Package txentry computes the wallet-relevant projection of a processed
// transaction: which of its inputs and outputs the wallet owns, and the
// normalized history entry a wallet UI would display for it.
package txentry

import (
	goerrors "github.com/go-errors/errors"

	"github.com/decred/wallettracker/chainmodel"
	"github.com/decred/wallettracker/walletcreds"
)

// BuildTHEntryExtra computes the THEntryExtra for a transaction given the
// undo data it consumed and whatever the chain DB knows about its
// confirming header. It is a fatal programmer error for undo to have a
// different length than tx.Inputs: undo is defined to carry exactly one
// TxOutAux per input, in input order, and the chain DB guarantees this for
// any block it ever served.
func BuildTHEntryExtra(creds *walletcreds.Credentials, txid chainmodel.TxID,
	tx chainmodel.Tx, undo chainmodel.TxUndo, info chainmodel.HeaderInfo) chainmodel.THEntryExtra {

	if len(undo) != len(tx.Inputs) {
		panic(goerrors.Errorf(
			"txentry: undo length %d does not match input count %d for tx %s",
			len(undo), len(tx.Inputs), txid))
	}

	type inputPair struct {
		in  chainmodel.TxIn
		out chainmodel.TxOutAux
	}
	pairs := make([]inputPair, len(tx.Inputs))
	for i, in := range tx.Inputs {
		pairs[i] = inputPair{in: in, out: undo[i]}
	}

	ownInputPairs := walletcreds.SelectOwn(creds, pairs, func(p inputPair) chainmodel.CId {
		return p.out.Out.Address
	})
	ownInputs := make([]chainmodel.THInput, len(ownInputPairs))
	for i, p := range ownInputPairs {
		ownInputs[i] = chainmodel.THInput{
			In:   p.Item.in,
			Out:  p.Item.out,
			Meta: p.Meta,
		}
	}

	ownOutputPairs := walletcreds.SelectOwn(creds, tx.Outputs, func(o chainmodel.TxOut) chainmodel.CId {
		return o.Address
	})
	ownOutputs := make([]chainmodel.THOutput, len(ownOutputPairs))
	for i, p := range ownOutputPairs {
		ownOutputs[i] = chainmodel.THOutput{
			Out:  chainmodel.TxOutAux{Out: p.Item},
			Meta: p.Meta,
		}
	}

	var totalInput, totalOutput chainmodel.Coin
	for _, u := range undo {
		totalInput = chainmodel.AddCoin(totalInput, u.Out.Coin)
	}
	for _, o := range tx.Outputs {
		totalOutput = chainmodel.AddCoin(totalOutput, o.Coin)
	}

	direction := chainmodel.DirectionIncoming
	if len(ownInputs) > 0 {
		direction = chainmodel.DirectionOutgoing
	}

	entry := chainmodel.HistoryEntry{
		TxID:        txid,
		Direction:   direction,
		Difficulty:  info.Difficulty,
		Timestamp:   info.Timestamp,
		TotalInput:  totalInput,
		TotalOutput: totalOutput,
	}

	txewLog.Debugf("BuildTHEntryExtra: tx %s, %d own inputs, %d own outputs, direction %v",
		txid, len(ownInputs), len(ownOutputs), direction)

	return chainmodel.THEntryExtra{
		OwnInputs:  ownInputs,
		OwnOutputs: ownOutputs,
		Entry:      entry,
	}
}
