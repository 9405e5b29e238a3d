package txbuilder

import (
	"crypto/sha256"
	"fmt"

	"github.com/decred/dcrd/chaincfg/v3"
	"github.com/decred/dcrd/dcrec/secp256k1/v3"
	"github.com/decred/dcrd/dcrec/secp256k1/v3/ecdsa"
	"github.com/decred/dcrd/txscript/v4/stdaddr"
	"golang.org/x/crypto/ripemd160"

	"github.com/decred/wallettracker/chainmodel"
)

// DefaultSign is the reference chainmodel.Crypto.Sign: it expects handle to
// be a *secp256k1.PrivateKey and signs digest with plain ECDSA, the way
// lnwallet/dcrwallet's signer calls ecdsa.Sign on the resolved private key.
// A host's Crypto implementation is free to hold keys under a different
// concrete type. Builder never calls this directly; it signs only through
// its Hasher.
func DefaultSign(handle chainmodel.PrivateKeyHandle, digest []byte) ([]byte, error) {
	priv, ok := handle.(*secp256k1.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("txbuilder: DefaultSign: handle is not *secp256k1.PrivateKey")
	}
	sig := ecdsa.Sign(priv, digest)
	return sig.Serialize(), nil
}

// DefaultSafeToPublic and DefaultRedeemToPublic are the reference
// chainmodel.Crypto public-key projections paired with DefaultSign: both
// expect a *secp256k1.PrivateKey handle and return its *secp256k1.PublicKey.
func DefaultSafeToPublic(handle chainmodel.PrivateKeyHandle) chainmodel.PublicKeyHandle {
	priv, ok := handle.(*secp256k1.PrivateKey)
	if !ok {
		return nil
	}
	return priv.PubKey()
}

// DefaultRedeemToPublic is identical to DefaultSafeToPublic; redemption
// keys use the same secp256k1 key type as ordinary spending keys in this
// reference scheme.
func DefaultRedeemToPublic(handle chainmodel.PrivateKeyHandle) chainmodel.PublicKeyHandle {
	return DefaultSafeToPublic(handle)
}

// DefaultMakeRedeemAddress is the reference hash-to-address scheme for
// chainmodel.Crypto.MakeRedeemAddress: ripemd160(sha256(pubkey)), wrapped
// as a version-0 pubkey-hash address on params. This digest differs from
// dcrutil.Hash160 (ripemd160 over blake256), which walletcreds uses for the
// wallet's own addresses. It expects pub to be a *secp256k1.PublicKey, the
// type DefaultSafeToPublic/DefaultRedeemToPublic hand back. A host's Crypto
// implementation is free to use a different redemption scheme; Builder
// never calls this directly, only its Hasher's MakeRedeemAddress. params is
// closed over by the host since MakeRedeemAddress's signature carries only
// the public key.
func DefaultMakeRedeemAddress(params *chaincfg.Params, pub chainmodel.PublicKeyHandle) (chainmodel.CId, error) {
	pubKey, ok := pub.(*secp256k1.PublicKey)
	if !ok {
		return "", fmt.Errorf("txbuilder: DefaultMakeRedeemAddress: handle is not *secp256k1.PublicKey")
	}

	sha := sha256.Sum256(pubKey.SerializeCompressed())

	ripe := ripemd160.New()
	ripe.Write(sha[:])
	pkHash := ripe.Sum(nil)

	addr, err := stdaddr.NewAddressPubKeyHashEcdsaSecp256k1V0(pkHash, params)
	if err != nil {
		return "", err
	}
	return chainmodel.CId(addr.String()), nil
}
