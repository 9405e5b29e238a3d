package chainmodel

import (
	"fmt"

	"github.com/jedib0t/go-pretty/table"
)

// FormatTx renders a transaction as a human-readable table, for the info
// log line submitTxRaw emits before dispatch.
func FormatTx(txAux TxAux) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Kind", "Index", "Detail"})

	for i, in := range txAux.Tx.Inputs {
		switch in.Kind {
		case TxInUtxoKind:
			t.AppendRow(table.Row{"input", i, fmt.Sprintf("%s:%d", in.PrevTxID, in.PrevOut)})
		default:
			t.AppendRow(table.Row{"input", i, "unknown"})
		}
	}
	for i, out := range txAux.Tx.Outputs {
		t.AppendRow(table.Row{"output", i, fmt.Sprintf("%s -> %s", out.Coin, out.Address)})
	}

	return t.Render()
}
