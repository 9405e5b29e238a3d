package txbuilder

import (
	"sort"

	"github.com/decred/wallettracker/chainmodel"
)

// Utxo is a spendable output together with the owning address that proved
// it is ours, the shape prepareMTx's coin selector works over.
type Utxo struct {
	In    chainmodel.TxIn
	Out   chainmodel.TxOutAux
	Owner chainmodel.CId
}

// Policy is an input-selection strategy (spec.md 4.F): given the candidate
// UTXO set, the set of addresses referenced by pending transactions, and
// the amount required, it orders and selects a subset of coins sufficient
// to cover the amount.
type Policy interface {
	Select(utxos []Utxo, pendingAddrs map[chainmodel.CId]struct{}, amt chainmodel.Coin) ([]Utxo, chainmodel.Coin, error)
}

// OptimizeForSecurity prefers fewer, larger inputs: it orders candidates by
// descending value before selecting.
type OptimizeForSecurity struct{}

// Select implements Policy.
func (OptimizeForSecurity) Select(utxos []Utxo, pendingAddrs map[chainmodel.CId]struct{}, amt chainmodel.Coin) ([]Utxo, chainmodel.Coin, error) {
	ordered := append([]Utxo(nil), utxos...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Out.Out.Coin > ordered[j].Out.Out.Coin
	})
	return selectInputs(amt, ordered)
}

// OptimizeForHighThroughput selects only from inputs not referenced by
// pendingAddrs, to avoid contending with not-yet-confirmed transactions for
// the same input. It never spends a pending-referenced input itself; if the
// non-pending candidates can't cover amt it reports NotEnoughAllowedMoney,
// naming whether the full candidate set (including pending) would have been
// enough, rather than silently reaching into pending-locked coins.
type OptimizeForHighThroughput struct{}

// Select implements Policy.
func (OptimizeForHighThroughput) Select(utxos []Utxo, pendingAddrs map[chainmodel.CId]struct{}, amt chainmodel.Coin) ([]Utxo, chainmodel.Coin, error) {
	var fresh, pending []Utxo
	for _, u := range utxos {
		if _, ok := pendingAddrs[u.Owner]; ok {
			pending = append(pending, u)
		} else {
			fresh = append(fresh, u)
		}
	}
	byValueDesc := func(s []Utxo) {
		sort.SliceStable(s, func(i, j int) bool {
			return s[i].Out.Out.Coin > s[j].Out.Out.Coin
		})
	}
	byValueDesc(fresh)
	byValueDesc(pending)

	if selected, total, err := selectInputs(amt, fresh); err == nil {
		return selected, total, nil
	}

	ordered := append(fresh, pending...)
	selected, total, err := selectInputs(amt, ordered)
	if err != nil {
		return nil, 0, err
	}
	return nil, 0, newTxError(NotEnoughAllowedMoney,
		"candidate inputs excluding %d pending-referenced outputs cannot cover %v, though the full set covers %v",
		len(pending), amt, total)
}

// selectInputs walks utxos in the order given, accumulating value until it
// meets or exceeds amt. Grounded on the chanfunding coin selector's
// greedy accumulate-until-covered loop.
func selectInputs(amt chainmodel.Coin, utxos []Utxo) ([]Utxo, chainmodel.Coin, error) {
	total := chainmodel.Coin(0)
	for i, u := range utxos {
		total = chainmodel.AddCoin(total, u.Out.Out.Coin)
		if total >= amt {
			return utxos[:i+1], total, nil
		}
	}
	return nil, 0, newTxError(NotEnoughFunds,
		"not enough outputs to satisfy request, need %v only have %v available", amt, total)
}
