package chainmodel

import (
	goerrors "github.com/go-errors/errors"
)

// AddCoin adds two coin amounts, panicking with a stack-captured error on
// overflow. Coin arithmetic overflow is a programmer error (spec ledger
// invariants guarantee it cannot happen on real chain data), not a
// recoverable condition a caller could usefully handle.
func AddCoin(a, b Coin) Coin {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		panic(goerrors.Errorf("coin arithmetic overflow: %d + %d", a, b))
	}
	return sum
}

// SubCoin subtracts b from a, panicking with a stack-captured error on
// overflow (underflow past the signed range, not a negative result -
// negative balances are representable and meaningful for signed deltas).
func SubCoin(a, b Coin) Coin {
	diff := a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		panic(goerrors.Errorf("coin arithmetic overflow: %d - %d", a, b))
	}
	return diff
}

// SumCoins folds AddCoin over a slice, starting from zero.
func SumCoins(cs ...Coin) Coin {
	var total Coin
	for _, c := range cs {
		total = AddCoin(total, c)
	}
	return total
}
