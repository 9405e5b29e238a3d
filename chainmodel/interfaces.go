package chainmodel

// ChainReader is the read-only view of the chain DB and header index the
// sync engine consults. It never mutates chain state.
type ChainReader interface {
	// GetHeader looks up a header by hash.
	GetHeader(h HeaderHash) (BlockHeader, bool, error)
	// GetTipHeader returns the node's current chain tip.
	GetTipHeader() (BlockHeader, error)
	// GetGenesisHeader returns the chain's genesis header.
	GetGenesisHeader() (BlockHeader, error)
	// GetBlund looks up a block and its undo data by header hash.
	GetBlund(h HeaderHash) (Blund, bool, error)
	// ResolveForwardLink returns the hash of the next header after h on
	// the main chain, if any.
	ResolveForwardLink(h BlockHeader) (HeaderHash, bool, error)
	// LoadHeadersByDepth returns up to n headers walking back from the
	// header at `from`, newest first.
	LoadHeadersByDepth(n int, from HeaderHash) ([]BlockHeader, error)
	// LoadBlundsWhile loads blunds newest-first starting at `from`,
	// stopping (exclusive) at the first header for which pred returns
	// false.
	LoadBlundsWhile(pred func(BlockHeader) bool, from HeaderHash) ([]Blund, error)
}

// LockPriority is the priority at which the node's state lock is acquired.
type LockPriority uint8

const (
	// LowPriority yields to other waiters.
	LowPriority LockPriority = iota
	// HighPriority preempts other waiters. The sync engine always
	// acquires the state lock at HighPriority (spec.md 5).
	HighPriority
)

// StateLocker guards chain-tip advancement with a single lock.
type StateLocker interface {
	// WithStateLock runs fn while holding the node's state lock at the
	// given priority, passing fn the chain tip observed once the lock
	// was acquired.
	WithStateLock(priority LockPriority, fn func(tip BlockHeader) error) error
}

// SlotID identifies a position in the slotting schedule.
type SlotID int64

// SlottingData is whatever epoch/slot-duration schedule the slotting
// collaborator uses to translate slots to wall-clock time; the tracker
// treats it as opaque and only threads it through to GetSlotStartPure.
type SlottingData interface{}

// Slotting resolves slot numbers to wall-clock timestamps.
type Slotting interface {
	GetSystemStart() int64
	GetSlottingData() SlottingData
	GetCurrentSlotInaccurate() SlotID
	GetSlotStartPure(systemStart int64, slot SlotID, data SlottingData) (int64, bool)
}

// ModifierApplier is the marker interface a wallet-state delta must satisfy
// to be committed via WalletDB.ApplyModifierToWallet. It exists so
// chainmodel can declare the WalletDB contract without importing the
// package that implements the delta (walletmod), keeping the dependency
// direction the natural way round: walletmod depends on chainmodel, not the
// reverse.
type ModifierApplier interface {
	// IsWalletModifier is a marker method with no behavior.
	IsWalletModifier()
}

// UtxoDelta is a pure add/remove delta over a wallet's UTXO set, used by
// WalletDB.UpdateWalletBalancesAndUtxo.
type UtxoDelta struct {
	Add    map[TxIn]TxOutAux
	Remove []TxIn
}

// WalletDB is the wallet persistence store: a transactional key/value
// abstraction exposing the logical entities the tracker reads and writes.
// Its storage format is out of scope for this spec (spec.md 1); only this
// interface is.
type WalletDB interface {
	// GetWalletSyncTip returns the wallet's last committed tip.
	GetWalletSyncTip(wid WalletID) (WalletTip, error)
	// GetCustomAddressesDB returns the persisted (address, header)
	// pairs for the given bookkeeping set.
	GetCustomAddressesDB(wid WalletID, kind AddressKind) ([]AddressAtHeader, error)
	// AddWAddress records a newly observed owned address.
	AddWAddress(wid WalletID, meta CWAddressMeta) error
	// UpdateWalletBalancesAndUtxo applies a UTXO delta outside of a full
	// modifier commit. walletsync's genesis seeding does not call it; it
	// commits the seeded state through ApplyModifierToWallet.
	UpdateWalletBalancesAndUtxo(wid WalletID, delta UtxoDelta) error
	// ApplyModifierToWallet atomically commits an accumulated modifier
	// against the wallet, advancing its tip to newTip.
	ApplyModifierToWallet(wid WalletID, newTip HeaderHash, modifier ModifierApplier) error
	// SetWalletReady marks whether the wallet is ready for use by API
	// consumers.
	SetWalletReady(wid WalletID, ready bool) error
}

// InvItem identifies an inventory item advertised to peers.
type InvItem struct {
	TxID TxID
}

// TxMsgContents is the payload of a transaction inventory message.
type TxMsgContents struct {
	TxAux TxAux
}

// OutboundMsg is a fully-formed message ready for network dispatch.
type OutboundMsg struct {
	Inv     InvItem
	Payload TxMsgContents
}

// Network is the outbound message dispatcher. Enqueue returns true iff at
// least one peer accepted the message.
type Network interface {
	Enqueue(msg OutboundMsg) (bool, error)
}

// MempoolSnapshot is an opaque handle to the node's mempool/txp snapshot,
// supplied by the caller of the submission path and passed through
// unexamined.
type MempoolSnapshot interface{}

// MempoolStore persists a transaction into a mempool snapshot.
type MempoolStore interface {
	SaveTx(snapshot MempoolSnapshot, txid TxID, txAux TxAux) error
}

// EncryptedSecretKey is the wallet's root secret, opaque to the tracker.
type EncryptedSecretKey []byte

// KeyStore resolves a wallet id to its encrypted root secret.
type KeyStore interface {
	GetSKById(wid WalletID) (EncryptedSecretKey, error)
}

// PrivateKeyHandle is an opaque handle to a private key a Signer can use,
// never exposing key material to its caller.
type PrivateKeyHandle interface{}

// PublicKeyHandle is an opaque handle to a public key.
type PublicKeyHandle interface{}

// Crypto is the set of cryptographic primitives the tracker consumes but
// does not implement: hashing, signing, and the two public-key-to-address
// mappings the builder needs (the normal "safe" signer path and the
// redemption path).
type Crypto interface {
	// HashTx computes a transaction's content-addressed identifier.
	HashTx(tx Tx) TxID
	// Sign produces a signature over digest using the key behind handle.
	Sign(handle PrivateKeyHandle, digest []byte) ([]byte, error)
	// SafeToPublic derives the public key handle for a normal signing key.
	SafeToPublic(handle PrivateKeyHandle) PublicKeyHandle
	// RedeemToPublic derives the public key handle for a redemption key.
	RedeemToPublic(handle PrivateKeyHandle) PublicKeyHandle
	// MakeRedeemAddress derives the on-chain address a redemption public
	// key pays to.
	MakeRedeemAddress(pub PublicKeyHandle) (CId, error)
}
