package walletmod

import "github.com/decred/wallettracker/chainmodel"

// PtxDelete is the payload recorded for a pending-transaction-candidate
// deletion: the history entry it corresponded to and the slot the deletion
// happened at.
type PtxDelete struct {
	Entry       chainmodel.HistoryEntry
	CurrentSlot chainmodel.SlotID
}

type ptxAction struct {
	deleted bool
	insert  chainmodel.PtxBlockInfo
	del     PtxDelete
}

// PtxDelta is a composable delta over the pending-transaction-candidate
// set, keyed by TxID. Unlike Delta, its insert and delete payloads have
// different shapes (spec.md 3), so it is not expressed via the generic
// Delta type.
type PtxDelta struct {
	order []chainmodel.TxID
	acts  map[chainmodel.TxID]ptxAction
}

func (d PtxDelta) clone() PtxDelta {
	nd := PtxDelta{
		order: make([]chainmodel.TxID, len(d.order)),
		acts:  make(map[chainmodel.TxID]ptxAction, len(d.acts)),
	}
	copy(nd.order, d.order)
	for k, v := range d.acts {
		nd.acts[k] = v
	}
	return nd
}

// Insert records txid as newly confirmed at the given block info.
func (d PtxDelta) Insert(txid chainmodel.TxID, info chainmodel.PtxBlockInfo) PtxDelta {
	nd := d.clone()
	if _, exists := nd.acts[txid]; !exists {
		nd.order = append(nd.order, txid)
	}
	nd.acts[txid] = ptxAction{insert: info}
	return nd
}

// Delete records txid as no longer a pending candidate, tagged with the
// history entry and slot it was removed at.
func (d PtxDelta) Delete(txid chainmodel.TxID, entry chainmodel.HistoryEntry, slot chainmodel.SlotID) PtxDelta {
	nd := d.clone()
	if _, exists := nd.acts[txid]; !exists {
		nd.order = append(nd.order, txid)
	}
	nd.acts[txid] = ptxAction{deleted: true, del: PtxDelete{Entry: entry, CurrentSlot: slot}}
	return nd
}

// Compose returns the composition of d followed by other.
func (d PtxDelta) Compose(other PtxDelta) PtxDelta {
	nd := d.clone()
	for _, k := range other.order {
		if _, exists := nd.acts[k]; !exists {
			nd.order = append(nd.order, k)
		}
		nd.acts[k] = other.acts[k]
	}
	return nd
}

// Inserted returns the txids this delta marks confirmed, with their block
// info.
func (d PtxDelta) Inserted() map[chainmodel.TxID]chainmodel.PtxBlockInfo {
	out := make(map[chainmodel.TxID]chainmodel.PtxBlockInfo)
	for k, act := range d.acts {
		if !act.deleted {
			out[k] = act.insert
		}
	}
	return out
}

// Deleted returns the txids this delta removes, with their delete payload.
func (d PtxDelta) Deleted() map[chainmodel.TxID]PtxDelete {
	out := make(map[chainmodel.TxID]PtxDelete)
	for k, act := range d.acts {
		if act.deleted {
			out[k] = act.del
		}
	}
	return out
}

// WithoutDeleteTokens returns a copy of d whose delete payloads are zeroed
// out, for comparing two PtxDeltas up to their delete token as spec.md's P1
// property requires ("modulo ptxCandidates which records a distinct delete
// token - assert with that token projected out").
func (d PtxDelta) WithoutDeleteTokens() PtxDelta {
	nd := d.clone()
	for k, act := range nd.acts {
		if act.deleted {
			act.del = PtxDelete{}
			nd.acts[k] = act
		}
	}
	return nd
}
