package walletmod

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/decred/wallettracker/chainmodel"
)

func meta(cid chainmodel.CId, account uint32) chainmodel.CWAddressMeta {
	return chainmodel.CWAddressMeta{Wallet: "w", Account: account, Index: 0, CId: cid}
}

func TestEvalChangeNoOwnInputsIsAllIncoming(t *testing.T) {
	outs := []chainmodel.THOutput{{Meta: meta("a", 0)}}
	got := EvalChange(nil, nil, outs, false)
	require.Empty(t, got)
}

func TestEvalChangeSameAccountCandidate(t *testing.T) {
	in := []chainmodel.THInput{{Meta: meta("src", 0)}}
	outs := []chainmodel.THOutput{
		{Meta: meta("change", 0)}, // same account as input: candidate
		{Meta: meta("other", 1)},  // different account: not a candidate
	}
	got := EvalChange(map[chainmodel.CId]struct{}{}, in, outs, false)
	require.Equal(t, map[chainmodel.CId]struct{}{"change": {}}, got)
}

func TestEvalChangeAlreadyUsedIsDisqualified(t *testing.T) {
	in := []chainmodel.THInput{{Meta: meta("src", 0)}}
	outs := []chainmodel.THOutput{{Meta: meta("change", 0)}}
	allUsed := map[chainmodel.CId]struct{}{"change": {}}

	got := EvalChange(allUsed, in, outs, false)
	require.Empty(t, got)
}

func TestEvalChangeDegenerateSelfTransferRefused(t *testing.T) {
	in := []chainmodel.THInput{{Meta: meta("src", 0)}}
	outs := []chainmodel.THOutput{{Meta: meta("only", 0)}}

	// allOutputsOur true and the sole candidate is the sole output: refuse.
	got := EvalChange(map[chainmodel.CId]struct{}{}, in, outs, true)
	require.Empty(t, got)
}

func TestEvalChangeNotDegenerateWhenOutputsPartlyForeign(t *testing.T) {
	in := []chainmodel.THInput{{Meta: meta("src", 0)}}
	outs := []chainmodel.THOutput{{Meta: meta("only", 0)}}

	// allOutputsOur false (there's a non-owned output too): not degenerate.
	got := EvalChange(map[chainmodel.CId]struct{}{}, in, outs, false)
	require.Equal(t, map[chainmodel.CId]struct{}{"only": {}}, got)
}
