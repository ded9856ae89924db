package enr

import (
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/ed25519"
)

// ed25519Scheme signs the record content directly, without a pre-hash.
type ed25519Scheme struct{}

func (ed25519Scheme) Name() string     { return "ed25519" }
func (ed25519Scheme) RecordID() string { return "v4" }
func (ed25519Scheme) KeyEntry() string { return "ed25519" }

func (ed25519Scheme) NodeID(pub []byte) (ID, error) {
	if len(pub) != ed25519.PublicKeySize {
		return ID{}, newError(KindValue, "ENR-ED-001", fmt.Sprintf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(pub)))
	}
	var id ID
	copy(id[:], keccak256(pub))
	return id, nil
}

func (ed25519Scheme) Verify(pub, content, sig []byte) error {
	if len(sig) != ed25519.SignatureSize {
		return newError(KindSignature, "ENR-ED-011", fmt.Sprintf("invalid ed25519 signature length %d", len(sig)))
	}
	if len(pub) != ed25519.PublicKeySize {
		return newError(KindSignature, "ENR-ED-012", "invalid ed25519 public key length")
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), content, sig) {
		return newError(KindSignature, "ENR-ED-015", "invalid signature")
	}
	return nil
}

func (ed25519Scheme) sign(k *SigningKey, content []byte) ([]byte, error) {
	if k.ed == nil {
		return nil, newError(KindScheme, "ENR-ED-021", "key is not an ed25519 key")
	}
	return ed25519.Sign(k.ed, content), nil
}

func (ed25519Scheme) importKey(secret []byte) (*SigningKey, error) {
	if len(secret) != ed25519.SeedSize {
		return nil, newError(KindImport, "ENR-KEY-001", fmt.Sprintf("ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(secret)))
	}
	return &SigningKey{scheme: Ed25519, ed: ed25519.NewKeyFromSeed(secret)}, nil
}

func (ed25519Scheme) generateKey(rand io.Reader) (*SigningKey, error) {
	_, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, wrapError(KindImport, "ENR-KEY-003", "generate ed25519 key", err)
	}
	return &SigningKey{scheme: Ed25519, ed: priv}, nil
}
