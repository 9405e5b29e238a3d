package walletmod

import (
	"fmt"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/chaincfg/v3"
	"github.com/decred/dcrd/hdkeychain/v3"
	"github.com/stretchr/testify/require"

	"github.com/decred/wallettracker/chainmodel"
	"github.com/decred/wallettracker/walletcreds"
)

// fakeCrypto hashes a transaction by its own string representation, giving
// a stable, content-addressed TxID without needing real dcrd wire
// serialization in these tests.
type fakeCrypto struct{}

func (fakeCrypto) HashTx(tx chainmodel.Tx) chainmodel.TxID {
	return chainhash.HashH([]byte(fmt.Sprintf("%+v", tx)))
}
func (fakeCrypto) Sign(chainmodel.PrivateKeyHandle, []byte) ([]byte, error) { return nil, nil }
func (fakeCrypto) SafeToPublic(chainmodel.PrivateKeyHandle) chainmodel.PublicKeyHandle {
	return nil
}
func (fakeCrypto) RedeemToPublic(chainmodel.PrivateKeyHandle) chainmodel.PublicKeyHandle {
	return nil
}
func (fakeCrypto) MakeRedeemAddress(chainmodel.PublicKeyHandle) (chainmodel.CId, error) {
	return "", nil
}

func testCreds(t *testing.T) *walletcreds.Credentials {
	t.Helper()
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i)
	}
	root, err := hdkeychain.NewMaster(seed, chaincfg.MainNetParams())
	require.NoError(t, err)
	return walletcreds.New("wallet-1", root, chaincfg.MainNetParams()).WithSearchBounds(2, 4)
}

func trivialInfoFn(h chainmodel.BlockHeader, _ chainmodel.TxID) chainmodel.HeaderInfo {
	diff := h.Difficulty
	return chainmodel.HeaderInfo{Difficulty: &diff}
}

// TestApplyThenRollbackIsNoOpOnUtxo is property P1: composing an ApplyTx
// delta with the RollbackTx delta for the same (tx, undo, header) has no
// net effect when projected onto a concrete base UTXO map.
func TestApplyThenRollbackIsNoOpOnUtxo(t *testing.T) {
	creds := testCreds(t)
	ownAddr, err := creds.DeriveAddress(0, 0)
	require.NoError(t, err)

	spentIn := chainmodel.NewTxInUtxo(chainhash.Hash{0xAA}, 0)
	txAux := chainmodel.TxAux{Tx: chainmodel.Tx{
		Inputs:  []chainmodel.TxIn{spentIn},
		Outputs: []chainmodel.TxOut{{Address: "stranger", Coin: 100}},
	}}
	undo := chainmodel.TxUndo{{Out: chainmodel.TxOut{Address: ownAddr, Coin: 100}}}
	header := chainmodel.BlockHeader{Hash: chainhash.Hash{0x01}, Difficulty: 10}

	baseUtxo := map[chainmodel.TxIn]chainmodel.TxOutAux{
		spentIn: {Out: chainmodel.TxOut{Address: ownAddr, Coin: 100}},
	}

	dbUsed := map[chainmodel.CId]struct{}{}
	forward := ApplyTx(fakeCrypto{}, creds, dbUsed, trivialInfoFn, Empty(), txAux, undo, header)
	backward := RollbackTx(fakeCrypto{}, creds, dbUsed, 0, trivialInfoFn, forward, txAux, undo, header)

	require.Equal(t, baseUtxo, backward.Utxo.ApplyToMap(baseUtxo))
}

// TestApplyTxConservesOwnOnlyBalance is property P4: for an own-only
// transaction, total coin in equals total coin out.
func TestApplyTxConservesOwnOnlyBalance(t *testing.T) {
	creds := testCreds(t)
	srcAddr, err := creds.DeriveAddress(0, 0)
	require.NoError(t, err)
	dstAddr, err := creds.DeriveAddress(0, 1)
	require.NoError(t, err)

	spentIn := chainmodel.NewTxInUtxo(chainhash.Hash{0xBB}, 0)
	txAux := chainmodel.TxAux{Tx: chainmodel.Tx{
		Inputs:  []chainmodel.TxIn{spentIn},
		Outputs: []chainmodel.TxOut{{Address: dstAddr, Coin: 300}},
	}}
	undo := chainmodel.TxUndo{{Out: chainmodel.TxOut{Address: srcAddr, Coin: 300}}}
	header := chainmodel.BlockHeader{Hash: chainhash.Hash{0x02}, Difficulty: 1}

	mod := ApplyTx(fakeCrypto{}, creds, map[chainmodel.CId]struct{}{}, trivialInfoFn, Empty(), txAux, undo, header)

	history := mod.History()
	require.Len(t, history, 1)
	for _, entry := range history {
		require.Equal(t, entry.TotalInput, entry.TotalOutput)
	}
}

// TestApplyTxHistoryOnlyWhenInteresting is property P3.
func TestApplyTxHistoryOnlyWhenInteresting(t *testing.T) {
	creds := testCreds(t)

	txAux := chainmodel.TxAux{Tx: chainmodel.Tx{
		Inputs:  []chainmodel.TxIn{chainmodel.NewTxInUnknown(0, "x")},
		Outputs: []chainmodel.TxOut{{Address: "stranger", Coin: 10}},
	}}
	undo := chainmodel.TxUndo{{Out: chainmodel.TxOut{Address: "other-stranger", Coin: 10}}}
	header := chainmodel.BlockHeader{Hash: chainhash.Hash{0x03}}

	mod := ApplyTx(fakeCrypto{}, creds, map[chainmodel.CId]struct{}{}, trivialInfoFn, Empty(), txAux, undo, header)

	require.Empty(t, mod.History())
}

// TestTrackingApplyTxsFoldOrder is property P2: folding a sequence of
// transactions left-to-right from Empty() composes exactly as applying the
// same sequence via Compose one block at a time.
func TestTrackingApplyTxsFoldOrder(t *testing.T) {
	creds := testCreds(t)
	addr, err := creds.DeriveAddress(1, 0)
	require.NoError(t, err)

	mkTx := func(tag byte) BlockTx {
		return BlockTx{
			TxAux: chainmodel.TxAux{Tx: chainmodel.Tx{
				Inputs:  []chainmodel.TxIn{chainmodel.NewTxInUnknown(tag, "x")},
				Outputs: []chainmodel.TxOut{{Address: addr, Coin: chainmodel.Coin(tag)}},
			}},
			Undo:   chainmodel.TxUndo{{Out: chainmodel.TxOut{Address: "stranger", Coin: chainmodel.Coin(tag)}}},
			Header: chainmodel.BlockHeader{Hash: chainhash.Hash{tag}},
		}
	}
	txs := []BlockTx{mkTx(1), mkTx(2), mkTx(3)}

	dbUsed := map[chainmodel.CId]struct{}{}
	folded := TrackingApplyTxs(fakeCrypto{}, creds, dbUsed, trivialInfoFn, Empty(), txs)

	stepwise := Empty()
	for _, tx := range txs {
		step := ApplyTx(fakeCrypto{}, creds, dbUsed, trivialInfoFn, Empty(), tx.TxAux, tx.Undo, tx.Header)
		stepwise = Compose(stepwise, step)
	}

	require.Equal(t, stepwise.History(), folded.History())
	require.Equal(t, stepwise.UtxoMap(), folded.UtxoMap())
}
