// Package chainmodel holds the data model shared by every wallettracker
// component (the wallet's view of addresses, transactions and blocks) and
// the interfaces through which the tracker talks to its external
// collaborators: the chain DB, the wallet DB, the node's state lock,
// slotting, the network dispatcher, the mempool and the key store. Each
// interface is defined here, at the seam every consumer shares, and passed
// into the component that needs it rather than resolved from a global
// registry.
package chainmodel

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrutil/v4"
)

// Coin is the wallet's unit of value. It is dcrutil.Amount directly rather
// than a wrapper type so arithmetic and formatting fall out for free.
type Coin = dcrutil.Amount

// CId is the on-chain, content-addressed identifier of an address.
type CId string

// WalletID is the content-addressed identifier of a wallet, derived from its
// root encrypted secret.
type WalletID string

// Account identifies a wallet's account, the parent of an Address in the HD
// tree.
type Account struct {
	Wallet  WalletID
	Account uint32
}

// CWAddressMeta is an owned address together with its HD coordinates.
type CWAddressMeta struct {
	Wallet  WalletID
	Account uint32
	Index   uint32
	CId     CId
}

// AddrMetaToAccount projects a CWAddressMeta down to the Account it belongs
// to.
func AddrMetaToAccount(m CWAddressMeta) Account {
	return Account{Wallet: m.Wallet, Account: m.Account}
}

// HeaderHash is the content-addressed identifier of a block header.
type HeaderHash = chainhash.Hash

// TxID is the content-addressed identifier of a transaction.
type TxID = chainhash.Hash

// TxInKind distinguishes the two shapes a TxIn can take.
type TxInKind uint8

const (
	// TxInUtxoKind spends a previously recorded transaction output.
	TxInUtxoKind TxInKind = iota
	// TxInUnknownKind carries an input format this wallet does not
	// interpret further (e.g. a coinbase or a non-standard consensus
	// input type); it never participates in UTXO bookkeeping.
	TxInUnknownKind
)

// TxIn is either a reference to a previously created output (TxInUtxoKind)
// or an opaque, unrecognized input (TxInUnknownKind). It is a plain
// comparable struct so it can be used directly as a map key for the
// wallet's UTXO set.
type TxIn struct {
	Kind TxInKind

	// Populated when Kind == TxInUtxoKind.
	PrevTxID TxID
	PrevOut  uint32

	// Populated when Kind == TxInUnknownKind.
	UnknownTag  byte
	UnknownData string
}

// NewTxInUtxo builds a TxIn spending the output at (txid, index).
func NewTxInUtxo(txid TxID, index uint32) TxIn {
	return TxIn{Kind: TxInUtxoKind, PrevTxID: txid, PrevOut: index}
}

// NewTxInUnknown builds a TxIn carrying opaque input data.
func NewTxInUnknown(tag byte, data string) TxIn {
	return TxIn{Kind: TxInUnknownKind, UnknownTag: tag, UnknownData: data}
}

// TxOut is a transaction output: an address and the coin it carries.
type TxOut struct {
	Address CId
	Coin    Coin
}

// TxOutAux is the output a TxIn consumed, as recorded in a TxUndo.
type TxOutAux struct {
	Out TxOut
}

// Tx is a transaction: a nonempty list of inputs, a nonempty list of
// outputs, and opaque attributes.
type Tx struct {
	Inputs     []TxIn
	Outputs    []TxOut
	Attributes []byte
}

// TxAux bundles a Tx with its witnesses.
type TxAux struct {
	Tx        Tx
	Witnesses [][]byte
}

// TxUndo is the vector of TxOutAux a transaction consumed, in input order.
type TxUndo []TxOutAux

// BlockHeader is the minimal header shape the tracker needs: its own hash,
// its parent's hash, a monotonic difficulty/work ordering value used to
// compare chain tips, and a timestamp.
type BlockHeader struct {
	Hash       HeaderHash
	PrevHash   HeaderHash
	Difficulty int64
	Timestamp  int64
}

// Block is a header plus its transactions.
type Block struct {
	Header BlockHeader
	Txs    []TxAux
}

// Blund is a block paired with the undo data needed to reverse its
// application; Undo[i] is the TxUndo for Txs[i].
type Blund struct {
	Block Block
	Undo  []TxUndo
}

// HistoryDirection classifies a wallet history entry from the wallet's point
// of view.
type HistoryDirection uint8

const (
	// DirectionIncoming means the wallet owns none of the transaction's
	// inputs.
	DirectionIncoming HistoryDirection = iota
	// DirectionOutgoing means the wallet owns at least one of the
	// transaction's inputs, whatever the net effect on its balance.
	DirectionOutgoing
)

// HistoryEntry is the generic, normalized record of a wallet-relevant
// transaction.
type HistoryEntry struct {
	TxID        TxID
	Direction   HistoryDirection
	Difficulty  *int64
	Timestamp   *int64
	TotalInput  Coin
	TotalOutput Coin
}

// THInput is an own input together with the output it spent and the address
// metadata that proved ownership.
type THInput struct {
	In   TxIn
	Out  TxOutAux
	Meta CWAddressMeta
}

// THOutput is an own output together with the address metadata that proved
// ownership.
type THOutput struct {
	Out  TxOutAux
	Meta CWAddressMeta
}

// THEntryExtra is the wallet-relevant projection of a processed
// transaction: the subset of its inputs and outputs this wallet owns, plus
// the normalized history entry.
type THEntryExtra struct {
	OwnInputs  []THInput
	OwnOutputs []THOutput
	Entry      HistoryEntry
}

// IsInteresting reports whether a THEntryExtra touches the wallet at all.
func IsInteresting(thee THEntryExtra) bool {
	return len(thee.OwnInputs) > 0 || len(thee.OwnOutputs) > 0
}

// WalletTip is the wallet's last-known position in the chain: either it has
// never synced, or it is synced with a specific header.
type WalletTip struct {
	synced bool
	hash   HeaderHash
}

// NotSynced is the zero WalletTip: the wallet has never been synchronized.
func NotSynced() WalletTip {
	return WalletTip{}
}

// SyncedWith builds a WalletTip synchronized with the given header.
func SyncedWith(h HeaderHash) WalletTip {
	return WalletTip{synced: true, hash: h}
}

// IsSynced reports whether the tip carries a header.
func (t WalletTip) IsSynced() bool {
	return t.synced
}

// Hash returns the synced header hash and true, or the zero hash and false
// if the tip is NotSynced.
func (t WalletTip) Hash() (HeaderHash, bool) {
	return t.hash, t.synced
}

// AddressKind selects which address bookkeeping set a WalletDB query is
// about.
type AddressKind uint8

const (
	// AddressKindUsed selects the "used" address set.
	AddressKindUsed AddressKind = iota
	// AddressKindChange selects the "change" address set.
	AddressKindChange
)

// AddressAtHeader pairs an address with the header it was first observed or
// chosen at.
type AddressAtHeader struct {
	CId    CId
	Header HeaderHash
}

// PtxBlockInfo is the block context carried with a pending transaction once
// it confirms.
type PtxBlockInfo struct {
	Difficulty int64
	Timestamp  int64
	Header     HeaderHash
}

// HeaderInfo is whatever the chain DB knows about a header beyond its
// identity: the fields 4.C's applyTx/rollbackTx need from infoFn.
type HeaderInfo struct {
	Difficulty *int64
	Timestamp  *int64
	Ptx        *PtxBlockInfo
}

// HeaderInfoFunc resolves a (header, txid) pair to the HeaderInfo
// applyTx/rollbackTx require: the header supplies difficulty/timestamp, and
// the txid lets the caller decide per-transaction whether it was a
// previously-pending candidate now confirming (and thus carries
// PtxBlockInfo).
type HeaderInfoFunc func(h BlockHeader, txid TxID) HeaderInfo
