package chainmodel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddCoin(t *testing.T) {
	require.Equal(t, Coin(30), AddCoin(Coin(10), Coin(20)))
}

func TestAddCoinOverflowPanics(t *testing.T) {
	require.Panics(t, func() {
		AddCoin(Coin(math.MaxInt64), Coin(1))
	})
}

func TestSubCoin(t *testing.T) {
	require.Equal(t, Coin(-5), SubCoin(Coin(5), Coin(10)))
}

func TestSubCoinOverflowPanics(t *testing.T) {
	require.Panics(t, func() {
		SubCoin(Coin(math.MinInt64), Coin(1))
	})
}

func TestSumCoins(t *testing.T) {
	require.Equal(t, Coin(60), SumCoins(Coin(10), Coin(20), Coin(30)))
	require.Equal(t, Coin(0), SumCoins())
}
