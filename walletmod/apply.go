package walletmod

import (
	"github.com/decred/wallettracker/chainmodel"
	"github.com/decred/wallettracker/txentry"
	"github.com/decred/wallettracker/walletcreds"
)

// allUsedCIds materializes the full set of addresses observed on chain: the
// persisted set dbUsed plus whatever this reconciliation's accumulated
// modifier has added or removed so far. Materializing it per call is the
// conservative answer to the open question on constructAllUsed (spec.md 9,
// DESIGN.md): correctness only needs set equality with this map, an
// incremental index would only change how cheaply it is produced.
func allUsedCIds(dbUsed map[chainmodel.CId]struct{}, used Delta[UsedKey, struct{}]) map[chainmodel.CId]struct{} {
	out := make(map[chainmodel.CId]struct{}, len(dbUsed))
	for cid := range dbUsed {
		out[cid] = struct{}{}
	}
	for k := range used.Inserted() {
		out[k.CId] = struct{}{}
	}
	for _, k := range used.Deleted() {
		delete(out, k.CId)
	}
	return out
}

// ApplyTx folds the effect of applying one transaction (with its undo data
// and confirming header) onto modIn, per spec.md 4.C.
func ApplyTx(hasher chainmodel.Crypto, creds *walletcreds.Credentials,
	dbUsed map[chainmodel.CId]struct{}, infoFn chainmodel.HeaderInfoFunc,
	modIn Modifier, txAux chainmodel.TxAux, undo chainmodel.TxUndo,
	header chainmodel.BlockHeader) Modifier {

	txid := hasher.HashTx(txAux.Tx)
	info := infoFn(header, txid)
	thee := txentry.BuildTHEntryExtra(creds, txid, txAux.Tx, undo, info)

	step := Empty()

	// Own inputs are no longer spendable; own outputs become new UTXO.
	for _, in := range thee.OwnInputs {
		step.Utxo = step.Utxo.Delete(in.In)
	}
	for i, out := range txAux.Tx.Outputs {
		if _, ok := creds.Classify(out.Address); !ok {
			continue
		}
		key := chainmodel.NewTxInUtxo(txid, uint32(i))
		step.Utxo = step.Utxo.Insert(key, chainmodel.TxOutAux{Out: out})
	}

	headerHash := header.Hash

	for _, out := range thee.OwnOutputs {
		step.Used = step.Used.Insert(UsedKey{CId: out.Meta.CId, Header: headerHash}, struct{}{})
	}

	allOutputsOur := len(thee.OwnOutputs) == len(txAux.Tx.Outputs)
	changeCIds := EvalChange(allUsedCIds(dbUsed, modIn.Used), thee.OwnInputs, thee.OwnOutputs, allOutputsOur)
	for cid := range changeCIds {
		step.Change = step.Change.Insert(UsedKey{CId: cid, Header: headerHash}, struct{}{})
	}

	if chainmodel.IsInteresting(thee) {
		step.HistoryEntries = step.HistoryEntries.Insert(txid, thee.Entry)
	}

	if info.Ptx != nil {
		step.PtxCandidates = step.PtxCandidates.Insert(txid, *info.Ptx)
	}

	for _, out := range thee.OwnOutputs {
		step.Addresses = append(step.Addresses, out.Meta)
	}

	return Compose(modIn, step)
}

// RollbackTx folds the inverse effect of ApplyTx's transaction onto modIn,
// per spec.md 4.C. curSlot is recorded alongside the removed pending-tx
// candidate, if any.
func RollbackTx(hasher chainmodel.Crypto, creds *walletcreds.Credentials,
	dbUsed map[chainmodel.CId]struct{}, curSlot chainmodel.SlotID,
	infoFn chainmodel.HeaderInfoFunc, modIn Modifier, txAux chainmodel.TxAux,
	undo chainmodel.TxUndo, header chainmodel.BlockHeader) Modifier {

	txid := hasher.HashTx(txAux.Tx)
	info := infoFn(header, txid)
	thee := txentry.BuildTHEntryExtra(creds, txid, txAux.Tx, undo, info)

	step := Empty()

	// Restore the own inputs this transaction spent, and remove the own
	// outputs it created.
	for _, in := range thee.OwnInputs {
		step.Utxo = step.Utxo.Insert(in.In, in.Out)
	}
	for i, out := range txAux.Tx.Outputs {
		if _, ok := creds.Classify(out.Address); !ok {
			continue
		}
		key := chainmodel.NewTxInUtxo(txid, uint32(i))
		step.Utxo = step.Utxo.Delete(key)
	}

	headerHash := header.Hash

	for _, out := range thee.OwnOutputs {
		step.Used = step.Used.Delete(UsedKey{CId: out.Meta.CId, Header: headerHash})
	}

	allOutputsOur := len(thee.OwnOutputs) == len(txAux.Tx.Outputs)
	changeCIds := EvalChange(allUsedCIds(dbUsed, modIn.Used), thee.OwnInputs, thee.OwnOutputs, allOutputsOur)
	for cid := range changeCIds {
		step.Change = step.Change.Delete(UsedKey{CId: cid, Header: headerHash})
	}

	if chainmodel.IsInteresting(thee) {
		step.HistoryEntries = step.HistoryEntries.Delete(txid)
	}

	if info.Ptx != nil {
		step.PtxCandidates = step.PtxCandidates.Delete(txid, thee.Entry, curSlot)
	}

	return Compose(modIn, step)
}

// BlockTx is one transaction of a block to fold over, paired with its undo
// data.
type BlockTx struct {
	TxAux  chainmodel.TxAux
	Undo   chainmodel.TxUndo
	Header chainmodel.BlockHeader
}

// TrackingApplyTxs left-folds ApplyTx over a sequence of transactions,
// starting from base (Empty() if base is the zero Modifier).
func TrackingApplyTxs(hasher chainmodel.Crypto, creds *walletcreds.Credentials,
	dbUsed map[chainmodel.CId]struct{}, infoFn chainmodel.HeaderInfoFunc,
	base Modifier, txs []BlockTx) Modifier {

	mod := base
	for _, tx := range txs {
		mod = ApplyTx(hasher, creds, dbUsed, infoFn, mod, tx.TxAux, tx.Undo, tx.Header)
	}
	return mod
}

// TrackingRollbackTxs left-folds RollbackTx over a sequence of
// transactions, starting from base.
func TrackingRollbackTxs(hasher chainmodel.Crypto, creds *walletcreds.Credentials,
	dbUsed map[chainmodel.CId]struct{}, curSlot chainmodel.SlotID,
	infoFn chainmodel.HeaderInfoFunc, base Modifier, txs []BlockTx) Modifier {

	mod := base
	for _, tx := range txs {
		mod = RollbackTx(hasher, creds, dbUsed, curSlot, infoFn, mod, tx.TxAux, tx.Undo, tx.Header)
	}
	return mod
}
