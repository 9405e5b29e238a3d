package walletmod

import (
	"fmt"

	"github.com/jedib0t/go-pretty/table"
)

// DumpTable renders the modifier's current projections (addresses, used,
// change, UTXO) as a human-readable table, for debugging P1/P5 property
// failures and for a host's debug surface.
func (m Modifier) DumpTable() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Kind", "Key", "Value"})

	for _, meta := range m.Addresses {
		t.AppendRow(table.Row{"address", meta.CId, fmt.Sprintf("acct=%d idx=%d", meta.Account, meta.Index)})
	}
	for k := range m.UsedSet() {
		t.AppendRow(table.Row{"used", k.CId, k.Header.String()})
	}
	for k := range m.ChangeSet() {
		t.AppendRow(table.Row{"change", k.CId, k.Header.String()})
	}
	for in, out := range m.UtxoMap() {
		t.AppendRow(table.Row{"utxo", fmt.Sprintf("%s:%d", in.PrevTxID, in.PrevOut), out.Out.Coin})
	}

	rendered := t.Render()
	wmodLog.Debugf("DumpTable: %d addresses, %d utxo entries", len(m.Addresses), len(m.UtxoMap()))
	return rendered
}
