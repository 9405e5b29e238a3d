// Package walletcreds derives a wallet's per-account addresses from its
// already-decrypted HD root key and classifies on-chain addresses as
// belonging (or not) to the wallet. It holds no mutable state beyond an
// internal classification cache and never returns an error: a classify
// failure is the absence of a result, not an exceptional condition.
package walletcreds

import (
	"github.com/decred/dcrd/chaincfg/v3"
	"github.com/decred/dcrd/dcrutil/v4"
	"github.com/decred/dcrd/hdkeychain/v3"
	"github.com/decred/dcrd/txscript/v4/stdaddr"

	"github.com/decred/wallettracker/chainmodel"
)

// DefaultMaxAccounts bounds how many accounts Classify scans looking for a
// match when no match has been cached yet.
const DefaultMaxAccounts = 8

// DefaultMaxIndex bounds how many addresses per account Classify scans.
const DefaultMaxIndex = 1000

// Credentials are a wallet's decryption credentials: its identity, its
// already-decrypted HD root extended key, and the address-derivation
// bounds used by Classify. Building Credentials is a pure function of the
// root key; the root secret's decryption itself is the Crypto collaborator's
// job and happens before Credentials is constructed.
type Credentials struct {
	Wallet chainmodel.WalletID
	root   *hdkeychain.ExtendedKey
	params *chaincfg.Params

	maxAccounts int
	maxIndex    int

	// cache memoizes CId -> CWAddressMeta lookups already performed by
	// Classify. It never affects the result Classify returns, only how
	// quickly it is produced on repeat queries.
	cache map[chainmodel.CId]chainmodel.CWAddressMeta

	// scanned is set once Classify has derived every address within
	// maxAccounts x maxIndex, so a later miss can be answered from cache
	// alone instead of re-deriving the whole search space again.
	scanned bool
}

// New builds Credentials for wid from an already-decrypted HD root key.
func New(wid chainmodel.WalletID, root *hdkeychain.ExtendedKey, params *chaincfg.Params) *Credentials {
	return &Credentials{
		Wallet:      wid,
		root:        root,
		params:      params,
		maxAccounts: DefaultMaxAccounts,
		maxIndex:    DefaultMaxIndex,
		cache:       make(map[chainmodel.CId]chainmodel.CWAddressMeta),
	}
}

// WithSearchBounds overrides the default account/index scan bounds used by
// Classify, for wallets with deeper HD trees than the default.
func (c *Credentials) WithSearchBounds(maxAccounts, maxIndex int) *Credentials {
	c.maxAccounts = maxAccounts
	c.maxIndex = maxIndex
	c.scanned = false
	return c
}

// DeriveAddress derives the address at (account, index) from the wallet's
// HD root, for callers that need to allocate a specific address rather
// than classify one already observed on chain (e.g. a change-address
// source for the transaction builder).
func (c *Credentials) DeriveAddress(account, index uint32) (chainmodel.CId, error) {
	return c.deriveAddress(account, index)
}

// deriveAddress derives the address at (account, index) from the wallet's
// HD root.
func (c *Credentials) deriveAddress(account, index uint32) (chainmodel.CId, error) {
	acctKey, err := c.root.Child(account + hdkeychain.HardenedKeyStart)
	if err != nil {
		return "", err
	}
	childKey, err := acctKey.Child(index)
	if err != nil {
		return "", err
	}
	pubKey, err := childKey.ECPubKey()
	if err != nil {
		return "", err
	}

	pkHash := dcrutil.Hash160(pubKey.SerializeCompressed())
	addr, err := stdaddr.NewAddressPubKeyHashEcdsaSecp256k1V0(pkHash, c.params)
	if err != nil {
		return "", err
	}
	return chainmodel.CId(addr.String()), nil
}

// Classify tests whether addr is derivable from creds and, if so, returns
// its HD coordinates.
func (c *Credentials) Classify(addr chainmodel.CId) (chainmodel.CWAddressMeta, bool) {
	if meta, ok := c.cache[addr]; ok {
		return meta, true
	}
	if c.scanned {
		return chainmodel.CWAddressMeta{}, false
	}

	for account := uint32(0); account < uint32(c.maxAccounts); account++ {
		for index := uint32(0); index < uint32(c.maxIndex); index++ {
			derived, err := c.deriveAddress(account, index)
			if err != nil {
				continue
			}
			meta := chainmodel.CWAddressMeta{
				Wallet:  c.Wallet,
				Account: account,
				Index:   index,
				CId:     derived,
			}
			c.cache[derived] = meta
			if derived == addr {
				return meta, true
			}
		}
	}
	c.scanned = true
	wcrdLog.Debugf("Classify: %s not derivable within %d accounts x %d indices for wallet %s",
		addr, c.maxAccounts, c.maxIndex, c.Wallet)
	return chainmodel.CWAddressMeta{}, false
}

// Owned pairs an arbitrary item with the address metadata that proved it is
// owned by the wallet.
type Owned[T any] struct {
	Item T
	Meta chainmodel.CWAddressMeta
}

// SelectOwn filters items down to those whose address (per addrOf) belongs
// to the wallet, pairing each with its HD coordinates.
func SelectOwn[T any](c *Credentials, items []T, addrOf func(T) chainmodel.CId) []Owned[T] {
	var out []Owned[T]
	for _, item := range items {
		meta, ok := c.Classify(addrOf(item))
		if !ok {
			continue
		}
		out = append(out, Owned[T]{Item: item, Meta: meta})
	}
	return out
}
