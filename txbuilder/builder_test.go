package txbuilder

import (
	"fmt"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/chaincfg/v3"
	"github.com/stretchr/testify/require"

	"github.com/decred/wallettracker/chainmodel"
)

const (
	testDstAddr    = chainmodel.CId("DsQxuVRvS4eaJ42dhQEsCXauMWjvopWgrVg")
	testChangeAddr = chainmodel.CId("DcXTb4QtmnyRsnzUVViYQawqFE5PuYTdX2C")
	testOwnerAddr  = chainmodel.CId("DcXTb4QtmnyRsnzUVViYQawqFE5PuYTdX2C")
)

type fakeCrypto struct{}

func (fakeCrypto) HashTx(tx chainmodel.Tx) chainmodel.TxID {
	return chainhash.HashH([]byte(fmt.Sprintf("%+v", tx)))
}
func (fakeCrypto) Sign(handle chainmodel.PrivateKeyHandle, digest []byte) ([]byte, error) {
	return append([]byte("sig:"), digest...), nil
}
func (fakeCrypto) SafeToPublic(chainmodel.PrivateKeyHandle) chainmodel.PublicKeyHandle { return nil }
func (fakeCrypto) RedeemToPublic(h chainmodel.PrivateKeyHandle) chainmodel.PublicKeyHandle {
	return h
}
func (fakeCrypto) MakeRedeemAddress(chainmodel.PublicKeyHandle) (chainmodel.CId, error) {
	return "DcXTb4QtmnyRsnzUVViYQawqFE5PuYTdX2C", nil
}

func testBuilder() *Builder {
	return NewBuilder(chaincfg.MainNetParams(), fakeCrypto{})
}

func TestPrepareMTxAddsChangeOutput(t *testing.T) {
	b := testBuilder()

	getOwnUtxos := func(addrs []chainmodel.CId) ([]Utxo, error) {
		return []Utxo{
			{
				In:    chainmodel.NewTxInUtxo(chainhash.Hash{0x01}, 0),
				Out:   chainmodel.TxOutAux{Out: chainmodel.TxOut{Address: testOwnerAddr, Coin: 1000}},
				Owner: testOwnerAddr,
			},
		}, nil
	}
	signerForAddr := func(addr chainmodel.CId) (chainmodel.PrivateKeyHandle, bool) {
		return "handle", addr == testOwnerAddr
	}
	addrData := func() (chainmodel.CId, error) { return testChangeAddr, nil }

	txAux, outputs, err := b.PrepareMTx(getOwnUtxos, signerForAddr, nil, OptimizeForSecurity{},
		[]chainmodel.CId{testOwnerAddr}, []chainmodel.TxOut{{Address: testDstAddr, Coin: 400}}, addrData)

	require.NoError(t, err)
	require.Len(t, outputs, 2)
	require.Equal(t, chainmodel.Coin(600), outputs[1].Coin)
	require.Equal(t, testChangeAddr, outputs[1].Address)
	require.Len(t, txAux.Witnesses, 1)
}

func TestPrepareMTxNoChangeWhenExact(t *testing.T) {
	b := testBuilder()

	getOwnUtxos := func(addrs []chainmodel.CId) ([]Utxo, error) {
		return []Utxo{
			{
				In:    chainmodel.NewTxInUtxo(chainhash.Hash{0x02}, 0),
				Out:   chainmodel.TxOutAux{Out: chainmodel.TxOut{Address: testOwnerAddr, Coin: 400}},
				Owner: testOwnerAddr,
			},
		}, nil
	}
	signerForAddr := func(addr chainmodel.CId) (chainmodel.PrivateKeyHandle, bool) { return "h", true }
	addrData := func() (chainmodel.CId, error) { return "", fmt.Errorf("should not be called") }

	_, outputs, err := b.PrepareMTx(getOwnUtxos, signerForAddr, nil, OptimizeForSecurity{},
		[]chainmodel.CId{testOwnerAddr}, []chainmodel.TxOut{{Address: testDstAddr, Coin: 400}}, addrData)

	require.NoError(t, err)
	require.Len(t, outputs, 1)
}

func TestPrepareMTxSignerNotFound(t *testing.T) {
	b := testBuilder()

	getOwnUtxos := func(addrs []chainmodel.CId) ([]Utxo, error) {
		return []Utxo{
			{
				In:    chainmodel.NewTxInUtxo(chainhash.Hash{0x03}, 0),
				Out:   chainmodel.TxOutAux{Out: chainmodel.TxOut{Address: testOwnerAddr, Coin: 400}},
				Owner: testOwnerAddr,
			},
		}, nil
	}
	signerForAddr := func(addr chainmodel.CId) (chainmodel.PrivateKeyHandle, bool) { return nil, false }
	addrData := func() (chainmodel.CId, error) { return testChangeAddr, nil }

	_, _, err := b.PrepareMTx(getOwnUtxos, signerForAddr, nil, OptimizeForSecurity{},
		[]chainmodel.CId{testOwnerAddr}, []chainmodel.TxOut{{Address: testDstAddr, Coin: 400}}, addrData)

	require.Error(t, err)
	txErr, ok := err.(*TxError)
	require.True(t, ok)
	require.Equal(t, SafeSignerNotFound, txErr.Kind)
}

func TestPrepareMTxRejectsRedeemOutput(t *testing.T) {
	b := testBuilder()
	b.IsRedeemAddress = func(addr chainmodel.CId) bool { return addr == testDstAddr }

	getOwnUtxos := func(addrs []chainmodel.CId) ([]Utxo, error) { return nil, nil }
	signerForAddr := func(addr chainmodel.CId) (chainmodel.PrivateKeyHandle, bool) { return nil, false }
	addrData := func() (chainmodel.CId, error) { return testChangeAddr, nil }

	_, _, err := b.PrepareMTx(getOwnUtxos, signerForAddr, nil, OptimizeForSecurity{},
		[]chainmodel.CId{testOwnerAddr}, []chainmodel.TxOut{{Address: testDstAddr, Coin: 400}}, addrData)

	require.Error(t, err)
	txErr, ok := err.(*TxError)
	require.True(t, ok)
	require.Equal(t, OutputIsRedeem, txErr.Kind)
}

func TestPrepareRedemptionTxSweepsFullBalance(t *testing.T) {
	b := testBuilder()

	getOwnUtxos := func(addrs []chainmodel.CId) ([]Utxo, error) {
		return []Utxo{
			{In: chainmodel.NewTxInUtxo(chainhash.Hash{0x04}, 0),
				Out: chainmodel.TxOutAux{Out: chainmodel.TxOut{Coin: 300}}},
			{In: chainmodel.NewTxInUtxo(chainhash.Hash{0x05}, 1),
				Out: chainmodel.TxOutAux{Out: chainmodel.TxOut{Coin: 200}}},
		}, nil
	}

	txAux, redeemAddr, total, err := b.PrepareRedemptionTx(getOwnUtxos, "redeem-key", testDstAddr)
	require.NoError(t, err)
	require.Equal(t, chainmodel.Coin(500), total)
	require.Equal(t, chainmodel.CId("DcXTb4QtmnyRsnzUVViYQawqFE5PuYTdX2C"), redeemAddr)
	require.Len(t, txAux.Tx.Outputs, 1)
	require.Equal(t, chainmodel.Coin(500), txAux.Tx.Outputs[0].Coin)
	require.Len(t, txAux.Witnesses, 2)
}

func TestBuilderDefaultHashTxIsDeterministic(t *testing.T) {
	b := testBuilder()
	tx := chainmodel.Tx{
		Inputs:  []chainmodel.TxIn{chainmodel.NewTxInUtxo(chainhash.Hash{0x09}, 0)},
		Outputs: []chainmodel.TxOut{{Address: testDstAddr, Coin: 100}},
	}

	id1, err := b.DefaultHashTx(tx)
	require.NoError(t, err)
	id2, err := b.DefaultHashTx(tx)
	require.NoError(t, err)
	require.Equal(t, id1, id2)
}

func TestPrepareRedemptionTxDepletedFailsClosed(t *testing.T) {
	b := testBuilder()
	getOwnUtxos := func(addrs []chainmodel.CId) ([]Utxo, error) { return nil, nil }

	_, _, _, err := b.PrepareRedemptionTx(getOwnUtxos, "redeem-key", testDstAddr)
	require.Error(t, err)
	txErr, ok := err.(*TxError)
	require.True(t, ok)
	require.Equal(t, RedemptionDepleted, txErr.Kind)
}
