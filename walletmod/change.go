package walletmod

import "github.com/decred/wallettracker/chainmodel"

// EvalChange decides which of a transaction's own outputs are "change"
// rather than genuinely received funds, per spec.md 4.D. The rule is
// applied in order:
//
//  1. No own inputs: this is a purely incoming transaction, nothing is
//     change.
//  2. Candidate change outputs are own outputs in the same account as the
//     first own input.
//  3. Candidates already observed on chain (in allUsed) are disqualified:
//     change addresses are single-use.
//  4. If every output of the transaction is our own and the remaining
//     candidates are exactly all of them, this is a degenerate
//     self-transfer: refuse to call anything change (this rule is flagged
//     "controversial" in the original source; it is preserved verbatim,
//     spec.md 9).
func EvalChange(allUsed map[chainmodel.CId]struct{}, ownInputs []chainmodel.THInput,
	ownOutputs []chainmodel.THOutput, allOutputsOur bool) map[chainmodel.CId]struct{} {

	if len(ownInputs) == 0 {
		return map[chainmodel.CId]struct{}{}
	}

	srcAccount := chainmodel.AddrMetaToAccount(ownInputs[0].Meta)

	ownOutputCIds := make(map[chainmodel.CId]struct{}, len(ownOutputs))
	candidate := make(map[chainmodel.CId]struct{})
	for _, out := range ownOutputs {
		ownOutputCIds[out.Meta.CId] = struct{}{}
		if chainmodel.AddrMetaToAccount(out.Meta) == srcAccount {
			candidate[out.Meta.CId] = struct{}{}
		}
	}

	potential := make(map[chainmodel.CId]struct{})
	for cid := range candidate {
		if _, used := allUsed[cid]; !used {
			potential[cid] = struct{}{}
		}
	}

	if allOutputsOur && setsEqual(potential, ownOutputCIds) {
		return map[chainmodel.CId]struct{}{}
	}

	return potential
}

func setsEqual(a, b map[chainmodel.CId]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
