package enr

import (
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

const v4SignatureSize = 64

// v4Scheme is the secp256k1-based "v4" identity scheme.
type v4Scheme struct{}

func (v4Scheme) Name() string     { return "v4" }
func (v4Scheme) RecordID() string { return "v4" }
func (v4Scheme) KeyEntry() string { return "secp256k1" }

func (v4Scheme) NodeID(pub []byte) (ID, error) {
	key, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return ID{}, wrapError(KindValue, "ENR-V4-001", "invalid secp256k1 public key", err)
	}
	var id ID
	copy(id[:], keccak256(key.SerializeUncompressed()[1:]))
	return id, nil
}

func (v4Scheme) Verify(pub, content, sig []byte) error {
	if len(sig) != v4SignatureSize {
		return newError(KindSignature, "ENR-V4-011", fmt.Sprintf("invalid v4 signature length %d", len(sig)))
	}
	key, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return wrapError(KindSignature, "ENR-V4-012", "invalid secp256k1 public key", err)
	}
	var r, s secp256k1.ModNScalar
	if r.SetByteSlice(sig[:32]) || s.SetByteSlice(sig[32:]) || r.IsZero() || s.IsZero() {
		return newError(KindSignature, "ENR-V4-013", "signature scalar out of range")
	}
	if s.IsOverHalfOrder() {
		return newError(KindSignature, "ENR-V4-014", "signature is not in lower-S form")
	}
	if !ecdsa.NewSignature(&r, &s).Verify(keccak256(content), key) {
		return newError(KindSignature, "ENR-V4-015", "invalid signature")
	}
	return nil
}

func (v4Scheme) sign(k *SigningKey, content []byte) ([]byte, error) {
	if k.secp == nil {
		return nil, newError(KindScheme, "ENR-V4-021", "key is not a secp256k1 key")
	}
	// SignCompact yields [recovery code || R || S] with S normalized to the lower half.
	compact := ecdsa.SignCompact(k.secp, keccak256(content), false)
	return compact[1:], nil
}

func (v4Scheme) importKey(secret []byte) (*SigningKey, error) {
	if len(secret) != secp256k1.PrivKeyBytesLen {
		return nil, newError(KindImport, "ENR-KEY-001", fmt.Sprintf("secp256k1 secret must be %d bytes, got %d", secp256k1.PrivKeyBytesLen, len(secret)))
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(secret); overflow || scalar.IsZero() {
		return nil, newError(KindImport, "ENR-KEY-002", "secp256k1 secret is not a valid scalar")
	}
	priv := secp256k1.NewPrivateKey(&scalar)
	scalar.Zero()
	return &SigningKey{scheme: V4, secp: priv}, nil
}

func (v4Scheme) generateKey(rand io.Reader) (*SigningKey, error) {
	priv, err := secp256k1.GeneratePrivateKeyFromRand(rand)
	if err != nil {
		return nil, wrapError(KindImport, "ENR-KEY-003", "generate secp256k1 key", err)
	}
	return &SigningKey{scheme: V4, secp: priv}, nil
}
