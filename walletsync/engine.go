// Package walletsync reconciles a wallet's last-known chain tip with the
// node's current tip: it is the only component in wallettracker that
// suspends on I/O (chain DB reads, wallet DB reads/writes, acquisition of
// the node's state lock). Everything else in the module is a pure
// transformation of values.
package walletsync

import (
	"fmt"

	dcrerrors "decred.org/dcrwallet/v2/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/decred/wallettracker/chainmodel"
	"github.com/decred/wallettracker/walletcreds"
	"github.com/decred/wallettracker/walletmod"
)

// Params are the fixed chain/engine parameters a host supplies once.
type Params struct {
	// BlkSecurityParam ("k") bounds the maximum reorganization depth: the
	// sync engine trusts that the chain cannot rewrite history older
	// than this many blocks.
	BlkSecurityParam int64
}

// Stats summarizes one reconciliation.
type Stats struct {
	BlocksApplied    int
	BlocksRolledBack int
}

func (s Stats) add(o Stats) Stats {
	return Stats{
		BlocksApplied:    s.BlocksApplied + o.BlocksApplied,
		BlocksRolledBack: s.BlocksRolledBack + o.BlocksRolledBack,
	}
}

var (
	walletsReconcilingGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wallettracker",
		Subsystem: "sync",
		Name:      "wallets_reconciling",
		Help:      "Number of wallets currently being reconciled to the chain tip.",
	})
	blocksAppliedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wallettracker",
		Subsystem: "sync",
		Name:      "blocks_applied_total",
		Help:      "Total number of blocks applied across all wallet reconciliations.",
	})
	blocksRolledBackCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wallettracker",
		Subsystem: "sync",
		Name:      "blocks_rolled_back_total",
		Help:      "Total number of blocks rolled back across all wallet reconciliations.",
	})
)

func init() {
	prometheus.MustRegister(walletsReconcilingGauge, blocksAppliedCounter, blocksRolledBackCounter)
}

// WalletSource resolves a host-supplied encrypted secret key to the wallet
// identity and decryption credentials the tracker operates on. Decrypting
// the root secret and deriving its HD root key is the Crypto collaborator's
// concern (spec.md 1); this interface is the seam between that and the
// tracker.
type WalletSource interface {
	WalletID(key chainmodel.EncryptedSecretKey) (chainmodel.WalletID, error)
	Credentials(key chainmodel.EncryptedSecretKey) (*walletcreds.Credentials, error)
}

// PendingTxLookup answers whether a txid is currently tracked as a pending
// (unconfirmed) transaction candidate, used to build PtxBlockInfo when a
// pending tx confirms.
type PendingTxLookup interface {
	IsPending(txid chainmodel.TxID) bool
	CurrentSlot() chainmodel.SlotID
}

// Engine reconciles wallets against a chain DB under a node's state lock.
type Engine struct {
	Chain   chainmodel.ChainReader
	Wallets chainmodel.WalletDB
	Lock    chainmodel.StateLocker
	Hasher  chainmodel.Crypto
	Source  WalletSource
	Pending PendingTxLookup
	Params  Params
}

// NewEngine builds a sync Engine from its collaborators.
func NewEngine(chain chainmodel.ChainReader, wallets chainmodel.WalletDB,
	lock chainmodel.StateLocker, hasher chainmodel.Crypto, source WalletSource,
	pending PendingTxLookup, params Params) *Engine {

	return &Engine{
		Chain:   chain,
		Wallets: wallets,
		Lock:    lock,
		Hasher:  hasher,
		Source:  source,
		Pending: pending,
		Params:  params,
	}
}

// SyncWallets reconciles every wallet in keys against the chain tip. Any
// error syncing one wallet is caught and logged with that wallet's id;
// other wallets still get a chance to sync (spec.md 7).
func (e *Engine) SyncWallets(keys []chainmodel.EncryptedSecretKey) {
	for _, key := range keys {
		wid, err := e.Source.WalletID(key)
		if err != nil {
			wsncLog.Errorf("sync: resolving wallet id: %v", err)
			continue
		}
		if _, err := e.syncOne(wid, key); err != nil {
			wsncLog.Errorf("sync: wallet %s: %v", wid, err)
		}
	}
}

// SyncWalletOnImport reconciles a single newly-imported wallet.
func (e *Engine) SyncWalletOnImport(key chainmodel.EncryptedSecretKey) (Stats, error) {
	wid, err := e.Source.WalletID(key)
	if err != nil {
		return Stats{}, err
	}
	return e.syncOne(wid, key)
}

func (e *Engine) syncOne(wid chainmodel.WalletID, key chainmodel.EncryptedSecretKey) (Stats, error) {
	walletsReconcilingGauge.Inc()
	defer walletsReconcilingGauge.Dec()

	creds, err := e.Source.Credentials(key)
	if err != nil {
		return Stats{}, err
	}

	stats, err := e.Reconcile(wid, creds)
	if err != nil {
		return stats, err
	}

	blocksAppliedCounter.Add(float64(stats.BlocksApplied))
	blocksRolledBackCounter.Add(float64(stats.BlocksRolledBack))
	return stats, nil
}

// headerInfo builds the HeaderInfo 4.C's applyTx/rollbackTx need from a
// header and the txid being processed, deciding per-transaction whether it
// was a previously-pending candidate now confirming.
func (e *Engine) headerInfo(h chainmodel.BlockHeader, id chainmodel.TxID) chainmodel.HeaderInfo {
	diff := h.Difficulty
	ts := h.Timestamp
	info := chainmodel.HeaderInfo{Difficulty: &diff, Timestamp: &ts}
	if e.Pending != nil && e.Pending.IsPending(id) {
		info.Ptx = &chainmodel.PtxBlockInfo{
			Difficulty: h.Difficulty,
			Timestamp:  h.Timestamp,
			Header:     h.Hash,
		}
	}
	return info
}

// Reconcile brings wid's wallet state up to the chain's current tip,
// per spec.md 4.E: genesis seeding if the wallet has never synced, a
// lock-free bulk catch-up phase if the wallet is more than
// BlkSecurityParam blocks behind, then a final tip-locked phase.
func (e *Engine) Reconcile(wid chainmodel.WalletID, creds *walletcreds.Credentials) (Stats, error) {
	const op = dcrerrors.Op("walletsync.Reconcile")

	tip, err := e.Wallets.GetWalletSyncTip(wid)
	if err != nil {
		return Stats{}, err
	}

	var wH chainmodel.BlockHeader
	var stats Stats

	if !tip.IsSynced() {
		genesisHeader, err := e.Chain.GetGenesisHeader()
		if err != nil {
			return Stats{}, err
		}
		seedMod, err := e.seedGenesis(creds, genesisHeader)
		if err != nil {
			return Stats{}, err
		}
		if err := e.Wallets.ApplyModifierToWallet(wid, genesisHeader.Hash, seedMod); err != nil {
			return Stats{}, err
		}
		wH = genesisHeader
	} else {
		h, _ := tip.Hash()
		hdr, ok, err := e.Chain.GetHeader(h)
		if err != nil {
			return Stats{}, err
		}
		if !ok {
			return Stats{}, chainmodel.NewInternalError(op,
				fmt.Sprintf("wallet %s tip header %s unknown to chain DB", wid, h))
		}
		wH = hdr
	}

	gH, err := e.Chain.GetTipHeader()
	if err != nil {
		return Stats{}, err
	}

	dbUsed, err := e.loadDbUsed(wid)
	if err != nil {
		return Stats{}, err
	}

	if gH.Difficulty > wH.Difficulty+e.Params.BlkSecurityParam {
		hPrime, err := e.ancestorAtDepth(gH.Hash, e.Params.BlkSecurityParam+1)
		if err != nil {
			return Stats{}, err
		}

		mod1, s1, err := e.reconcileBetween(creds, dbUsed, wH, hPrime)
		if err != nil {
			return Stats{}, err
		}
		if err := e.Wallets.ApplyModifierToWallet(wid, hPrime.Hash, mod1); err != nil {
			return Stats{}, err
		}
		stats = stats.add(s1)
		wH = hPrime
	}

	lockErr := e.Lock.WithStateLock(chainmodel.HighPriority, func(finalTip chainmodel.BlockHeader) error {
		mod2, s2, err := e.reconcileBetween(creds, dbUsed, wH, finalTip)
		if err != nil {
			return err
		}
		if err := e.Wallets.ApplyModifierToWallet(wid, finalTip.Hash, mod2); err != nil {
			return err
		}
		stats = stats.add(s2)
		return nil
	})
	if lockErr != nil {
		return stats, lockErr
	}

	if err := e.Wallets.SetWalletReady(wid, true); err != nil {
		return stats, err
	}

	return stats, nil
}

func (e *Engine) loadDbUsed(wid chainmodel.WalletID) (map[chainmodel.CId]struct{}, error) {
	used, err := e.Wallets.GetCustomAddressesDB(wid, chainmodel.AddressKindUsed)
	if err != nil {
		return nil, err
	}
	out := make(map[chainmodel.CId]struct{}, len(used))
	for _, a := range used {
		out[a.CId] = struct{}{}
	}
	return out, nil
}

// ancestorAtDepth returns the header `depth` blocks behind `from`.
func (e *Engine) ancestorAtDepth(from chainmodel.HeaderHash, depth int64) (chainmodel.BlockHeader, error) {
	headers, err := e.Chain.LoadHeadersByDepth(int(depth)+1, from)
	if err != nil {
		return chainmodel.BlockHeader{}, err
	}
	if len(headers) == 0 {
		return chainmodel.BlockHeader{}, chainmodel.NewInternalError(
			dcrerrors.Op("walletsync.ancestorAtDepth"), "chain DB returned no headers")
	}
	return headers[len(headers)-1], nil
}

// reconcileBetween chooses apply-forward or rollback by comparing
// difficulties, and folds the appropriate direction between wH and gH.
func (e *Engine) reconcileBetween(creds *walletcreds.Credentials,
	dbUsed map[chainmodel.CId]struct{}, wH, gH chainmodel.BlockHeader) (walletmod.Modifier, Stats, error) {

	switch {
	case gH.Difficulty > wH.Difficulty:
		return e.applyForward(creds, dbUsed, wH, gH)
	case gH.Difficulty < wH.Difficulty:
		return e.rollbackTo(creds, dbUsed, wH, gH)
	default:
		return walletmod.Empty(), Stats{}, nil
	}
}

func (e *Engine) applyForward(creds *walletcreds.Credentials,
	dbUsed map[chainmodel.CId]struct{}, wH, gH chainmodel.BlockHeader) (walletmod.Modifier, Stats, error) {

	mod := walletmod.Empty()
	var stats Stats
	cur := wH
	for cur.Hash != gH.Hash {
		nextHash, ok, err := e.Chain.ResolveForwardLink(cur)
		if err != nil {
			return mod, stats, err
		}
		if !ok {
			return mod, stats, chainmodel.NewInternalError(
				dcrerrors.Op("walletsync.applyForward"),
				fmt.Sprintf("no forward link from header %s", cur.Hash))
		}
		next, ok, err := e.Chain.GetHeader(nextHash)
		if err != nil {
			return mod, stats, err
		}
		if !ok {
			return mod, stats, chainmodel.NewInternalError(
				dcrerrors.Op("walletsync.applyForward"),
				fmt.Sprintf("forward-linked header %s unknown to chain DB", nextHash))
		}
		if next.Difficulty > gH.Difficulty {
			break
		}

		blund, ok, err := e.Chain.GetBlund(nextHash)
		if err != nil {
			return mod, stats, err
		}
		if !ok {
			return mod, stats, chainmodel.NewInternalError(
				dcrerrors.Op("walletsync.applyForward"),
				fmt.Sprintf("block %s unknown to chain DB", nextHash))
		}

		txs := blundToBlockTxs(blund)
		mod = walletmod.TrackingApplyTxs(e.Hasher, creds, dbUsed, e.headerInfo, mod, txs)
		stats.BlocksApplied++
		cur = next
	}
	return mod, stats, nil
}

func (e *Engine) rollbackTo(creds *walletcreds.Credentials,
	dbUsed map[chainmodel.CId]struct{}, wH, gH chainmodel.BlockHeader) (walletmod.Modifier, Stats, error) {

	blunds, err := e.Chain.LoadBlundsWhile(func(h chainmodel.BlockHeader) bool {
		return h.Hash != gH.Hash
	}, wH.Hash)
	if err != nil {
		return walletmod.Empty(), Stats{}, err
	}

	mod := walletmod.Empty()
	var stats Stats
	curSlot := chainmodel.SlotID(0)
	if e.Pending != nil {
		curSlot = e.Pending.CurrentSlot()
	}
	for _, blund := range blunds {
		txs := blundToBlockTxs(blund)
		mod = walletmod.TrackingRollbackTxs(e.Hasher, creds, dbUsed, curSlot, e.headerInfo, mod, txs)
		stats.BlocksRolledBack++
	}
	return mod, stats, nil
}

func blundToBlockTxs(b chainmodel.Blund) []walletmod.BlockTx {
	txs := make([]walletmod.BlockTx, len(b.Block.Txs))
	for i, tx := range b.Block.Txs {
		var undo chainmodel.TxUndo
		if i < len(b.Undo) {
			undo = b.Undo[i]
		}
		txs[i] = walletmod.BlockTx{TxAux: tx, Undo: undo, Header: b.Block.Header}
	}
	return txs
}

// seedGenesis enumerates the genesis block's outputs, filters by ownership,
// and returns the modifier that records the owned subset as addresses and
// UTXO (spec.md 4.E genesis seeding).
func (e *Engine) seedGenesis(creds *walletcreds.Credentials, genesis chainmodel.BlockHeader) (walletmod.Modifier, error) {
	blund, ok, err := e.Chain.GetBlund(genesis.Hash)
	if err != nil {
		return walletmod.Empty(), err
	}
	if !ok {
		return walletmod.Empty(), chainmodel.NewInternalError(
			dcrerrors.Op("walletsync.seedGenesis"), "genesis block unknown to chain DB")
	}

	txs := blundToBlockTxs(blund)
	trivialInfoFn := func(h chainmodel.BlockHeader, id chainmodel.TxID) chainmodel.HeaderInfo {
		diff := h.Difficulty
		ts := h.Timestamp
		return chainmodel.HeaderInfo{Difficulty: &diff, Timestamp: &ts}
	}
	return walletmod.TrackingApplyTxs(e.Hasher, creds, map[chainmodel.CId]struct{}{}, trivialInfoFn, walletmod.Empty(), txs), nil
}
