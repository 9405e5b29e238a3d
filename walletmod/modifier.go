package walletmod

import "github.com/decred/wallettracker/chainmodel"

// UsedKey is the set element of the used/change bookkeeping deltas: an
// address observed or chosen at a particular header.
type UsedKey struct {
	CId    chainmodel.CId
	Header chainmodel.HeaderHash
}

// Modifier is an accumulating, composable delta over wallet state: the
// address set, transaction history, used/change bookkeeping, UTXO, and
// pending-transaction candidates. It is a plain value type - never mutated
// in place - so the per-block reconciliation loop in walletsync can fold
// over a sequence of blocks purely, committing the accumulated result once.
type Modifier struct {
	// Addresses is an insert-order-preserving record of newly observed
	// owned addresses. Composition concatenates; an address is never
	// un-observed by rollback (spec.md I4: change addresses stay known
	// addresses even after the block that chose them as change is rolled
	// back).
	Addresses []chainmodel.CWAddressMeta

	HistoryEntries Delta[chainmodel.TxID, chainmodel.HistoryEntry]
	Used           Delta[UsedKey, struct{}]
	Change         Delta[UsedKey, struct{}]
	Utxo           Delta[chainmodel.TxIn, chainmodel.TxOutAux]
	PtxCandidates  PtxDelta
}

// IsWalletModifier implements chainmodel.ModifierApplier.
func (Modifier) IsWalletModifier() {}

// Empty is the identity element of Compose.
func Empty() Modifier {
	return Modifier{}
}

// Compose returns the composition of a followed by b: b's actions take
// precedence wherever both modifiers touch the same key (spec.md 3).
// Compose is associative with Empty() as identity.
func Compose(a, b Modifier) Modifier {
	return Modifier{
		Addresses:      append(append([]chainmodel.CWAddressMeta{}, a.Addresses...), b.Addresses...),
		HistoryEntries: a.HistoryEntries.Compose(b.HistoryEntries),
		Used:           a.Used.Compose(b.Used),
		Change:         a.Change.Compose(b.Change),
		Utxo:           a.Utxo.Compose(b.Utxo),
		PtxCandidates:  a.PtxCandidates.Compose(b.PtxCandidates),
	}
}

// UtxoMap projects the UTXO delta's insertions, for hosts or tests that
// want a snapshot rather than the raw delta.
func (m Modifier) UtxoMap() map[chainmodel.TxIn]chainmodel.TxOutAux {
	return m.Utxo.Inserted()
}

// UsedSet projects the used-address delta's insertions.
func (m Modifier) UsedSet() map[UsedKey]struct{} {
	return m.Used.Inserted()
}

// ChangeSet projects the change-address delta's insertions.
func (m Modifier) ChangeSet() map[UsedKey]struct{} {
	return m.Change.Inserted()
}

// History projects the history-entry delta's insertions.
func (m Modifier) History() map[chainmodel.TxID]chainmodel.HistoryEntry {
	return m.HistoryEntries.Inserted()
}

// PtxCandidatesSet projects the pending-tx-candidate delta's insertions.
func (m Modifier) PtxCandidatesSet() map[chainmodel.TxID]chainmodel.PtxBlockInfo {
	return m.PtxCandidates.Inserted()
}
