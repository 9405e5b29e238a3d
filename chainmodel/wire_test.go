package chainmodel

import (
	"fmt"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func TestDefaultHashTxIsDeterministic(t *testing.T) {
	tx := Tx{
		Inputs:  []TxIn{NewTxInUtxo(chainhash.Hash{0x01}, 0)},
		Outputs: []TxOut{{Address: "a", Coin: 100}},
	}
	toScript := func(CId) ([]byte, error) { return []byte{0xAB, 0xCD}, nil }

	id1, err := DefaultHashTx(tx, toScript)
	require.NoError(t, err)
	id2, err := DefaultHashTx(tx, toScript)
	require.NoError(t, err)
	require.Equal(t, id1, id2)

	other := tx
	other.Outputs = []TxOut{{Address: "a", Coin: 200}}
	id3, err := DefaultHashTx(other, toScript)
	require.NoError(t, err)
	require.NotEqual(t, id1, id3)
}

func TestDefaultHashTxPropagatesScriptError(t *testing.T) {
	tx := Tx{Outputs: []TxOut{{Address: "bad", Coin: 1}}}
	toScript := func(CId) ([]byte, error) { return nil, fmt.Errorf("bad address") }

	_, err := DefaultHashTx(tx, toScript)
	require.Error(t, err)
}
