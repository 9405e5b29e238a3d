package txbuilder

import (
	"github.com/decred/dcrd/chaincfg/v3"

	"github.com/decred/wallettracker/chainmodel"
	"github.com/decred/wallettracker/txsubmit"
)

// GetOwnUtxos resolves the spendable UTXO owned by any of the given
// addresses, as currently committed in the wallet DB.
type GetOwnUtxos func(addrs []chainmodel.CId) ([]Utxo, error)

// SignerForAddr resolves the private key handle that can spend the given
// owned address, or false if no signer is registered for it.
type SignerForAddr func(addr chainmodel.CId) (chainmodel.PrivateKeyHandle, bool)

// ChangeAddrSource allocates a fresh change address for a multi-owner
// build.
type ChangeAddrSource func() (chainmodel.CId, error)

// Builder prepares and submits transactions against a fixed network and a
// Crypto collaborator (spec.md 4.F/4.G).
type Builder struct {
	Params *chaincfg.Params
	Hasher chainmodel.Crypto

	// IsRedeemAddress, if set, flags addresses that belong to a
	// redemption key; prepareMTx refuses to pay such an address directly
	// (OutputIsRedeem) since redemption follows its own signing path.
	IsRedeemAddress func(chainmodel.CId) bool
}

// NewBuilder builds a Builder from its collaborators.
func NewBuilder(params *chaincfg.Params, hasher chainmodel.Crypto) *Builder {
	return &Builder{Params: params, Hasher: hasher}
}

func (b *Builder) validateOutputs(outputs []chainmodel.TxOut) error {
	for _, out := range outputs {
		if b.IsRedeemAddress != nil && b.IsRedeemAddress(out.Address) {
			return newTxError(OutputIsRedeem, "output address %s is a redeem address", out.Address)
		}
		addr, err := validateAddr(b.Params, out.Address)
		if err != nil {
			return err
		}
		if _, err := payToAddrScript(addr); err != nil {
			return newTxError(InvalidAddressFormat, "%s: %v", out.Address, err)
		}
	}
	return nil
}

// DefaultHashTx is the reference chainmodel.Crypto.HashTx for this
// Builder's network: it hashes tx the way dcrd itself would, resolving
// each output's pkScript from its address via DefaultToScript. A host not
// already computing TxIDs some other way can delegate to this.
func (b *Builder) DefaultHashTx(tx chainmodel.Tx) (chainmodel.TxID, error) {
	return chainmodel.DefaultHashTx(tx, DefaultToScript(b.Params))
}

// digest computes the message each selected input is signed over. The
// tracker's abstracted Crypto collaborator signs over the transaction's own
// content hash rather than a per-input sighash, so every input of a
// transaction is signed over the same message.
func (b *Builder) digest(tx chainmodel.Tx) []byte {
	txid := b.Hasher.HashTx(tx)
	return txid[:]
}

// PrepareMTx builds a multi-owner transaction: it fetches the UTXO owned by
// sourceAddrs, selects inputs under policy, signs each selected input with
// the signer resolved via signerForAddr, and allocates a change output via
// addrData when the selected total exceeds the requested outputs.
func (b *Builder) PrepareMTx(getOwnUtxos GetOwnUtxos, signerForAddr SignerForAddr,
	pendingAddrs map[chainmodel.CId]struct{}, policy Policy, sourceAddrs []chainmodel.CId,
	outputs []chainmodel.TxOut, addrData ChangeAddrSource) (chainmodel.TxAux, []chainmodel.TxOut, error) {

	if err := b.validateOutputs(outputs); err != nil {
		return chainmodel.TxAux{}, nil, err
	}

	requested := make([]chainmodel.Coin, len(outputs))
	for i, out := range outputs {
		requested[i] = out.Coin
	}
	total := chainmodel.SumCoins(requested...)

	candidates, err := getOwnUtxos(sourceAddrs)
	if err != nil {
		return chainmodel.TxAux{}, nil, err
	}

	selected, selectedTotal, err := policy.Select(candidates, pendingAddrs, total)
	if err != nil {
		txbLog.Debugf("PrepareMTx: selecting %v from %d candidates: %v", total, len(candidates), err)
		return chainmodel.TxAux{}, nil, err
	}

	finalOutputs := append([]chainmodel.TxOut(nil), outputs...)
	if change := chainmodel.SubCoin(selectedTotal, total); change > 0 {
		changeAddr, err := addrData()
		if err != nil {
			return chainmodel.TxAux{}, nil, newTxError(GeneralTxError, "allocating change address: %v", err)
		}
		finalOutputs = append(finalOutputs, chainmodel.TxOut{Address: changeAddr, Coin: change})
	}

	ins := make([]chainmodel.TxIn, len(selected))
	for i, u := range selected {
		ins[i] = u.In
	}
	tx := chainmodel.Tx{Inputs: ins, Outputs: finalOutputs}

	msg := b.digest(tx)
	witnesses := make([][]byte, len(selected))
	for i, u := range selected {
		handle, ok := signerForAddr(u.Owner)
		if !ok {
			return chainmodel.TxAux{}, nil, newTxError(SafeSignerNotFound, "no signer registered for address %s", u.Owner)
		}
		sig, err := b.Hasher.Sign(handle, msg)
		if err != nil {
			return chainmodel.TxAux{}, nil, newTxError(GeneralTxError, "signing input %d: %v", i, err)
		}
		witnesses[i] = sig
	}

	txbLog.Debugf("PrepareMTx: built tx with %d inputs, %d outputs", len(ins), len(finalOutputs))
	return chainmodel.TxAux{Tx: tx, Witnesses: witnesses}, finalOutputs, nil
}

// SubmitTx builds a transaction paying outputs from ownerAddr's UTXO,
// signed by signer, and submits it to the network, saving it into the
// mempool snapshot regardless of acceptance. ownerAddr is taken as an
// explicit parameter rather than derived from signer's public key, since
// chainmodel.Crypto exposes no address-derivation method safe to call with
// an arbitrary PrivateKeyHandle outside the redeem-key path.
func (b *Builder) SubmitTx(enqueue chainmodel.Network, getOwnUtxos GetOwnUtxos,
	pendingAddrs map[chainmodel.CId]struct{}, mps chainmodel.MempoolSnapshot, store chainmodel.MempoolStore,
	ownerAddr chainmodel.CId, signer chainmodel.PrivateKeyHandle, outputs []chainmodel.TxOut,
	addrData ChangeAddrSource) (chainmodel.TxAux, []chainmodel.TxOut, error) {

	signerForAddr := func(addr chainmodel.CId) (chainmodel.PrivateKeyHandle, bool) {
		if addr == ownerAddr {
			return signer, true
		}
		return nil, false
	}

	txAux, finalOutputs, err := b.PrepareMTx(getOwnUtxos, signerForAddr, pendingAddrs,
		OptimizeForSecurity{}, []chainmodel.CId{ownerAddr}, outputs, addrData)
	if err != nil {
		return chainmodel.TxAux{}, nil, err
	}

	if _, err := txsubmit.SubmitAndSave(b.Hasher, mps, store, enqueue, txAux); err != nil {
		return chainmodel.TxAux{}, nil, newTxError(GeneralTxError, "submitting transaction: %v", err)
	}

	return txAux, finalOutputs, nil
}

// PrepareRedemptionTx derives the redeem address from redeemSecret, reads
// all UTXO held at that address, and constructs a single-output
// transaction paying the full swept balance to dstAddr, signed by
// redeemSecret. Fails with RedemptionDepleted if the address holds nothing.
func (b *Builder) PrepareRedemptionTx(getOwnUtxos GetOwnUtxos, redeemSecret chainmodel.PrivateKeyHandle,
	dstAddr chainmodel.CId) (chainmodel.TxAux, chainmodel.CId, chainmodel.Coin, error) {

	if _, err := validateAddr(b.Params, dstAddr); err != nil {
		return chainmodel.TxAux{}, "", 0, err
	}

	pub := b.Hasher.RedeemToPublic(redeemSecret)
	redeemAddr, err := b.Hasher.MakeRedeemAddress(pub)
	if err != nil {
		return chainmodel.TxAux{}, "", 0, newTxError(GeneralTxError, "deriving redeem address: %v", err)
	}

	utxos, err := getOwnUtxos([]chainmodel.CId{redeemAddr})
	if err != nil {
		return chainmodel.TxAux{}, "", 0, err
	}

	balances := make([]chainmodel.Coin, len(utxos))
	for i, u := range utxos {
		balances[i] = u.Out.Out.Coin
	}
	total := chainmodel.SumCoins(balances...)
	if total == 0 {
		txbLog.Debugf("PrepareRedemptionTx: redeem address %s depleted", redeemAddr)
		return chainmodel.TxAux{}, "", 0, newTxError(RedemptionDepleted, "redeem address %s holds no UTXO", redeemAddr)
	}

	ins := make([]chainmodel.TxIn, len(utxos))
	for i, u := range utxos {
		ins[i] = u.In
	}
	tx := chainmodel.Tx{
		Inputs:  ins,
		Outputs: []chainmodel.TxOut{{Address: dstAddr, Coin: total}},
	}

	msg := b.digest(tx)
	sig, err := b.Hasher.Sign(redeemSecret, msg)
	if err != nil {
		return chainmodel.TxAux{}, "", 0, newTxError(GeneralTxError, "signing redemption: %v", err)
	}
	witnesses := make([][]byte, len(ins))
	for i := range witnesses {
		witnesses[i] = sig
	}

	return chainmodel.TxAux{Tx: tx, Witnesses: witnesses}, redeemAddr, total, nil
}
