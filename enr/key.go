package enr

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// SigningKey owns the private key material of one identity scheme.
//
// A SigningKey is never encoded into a record; only its public key is. The
// signing operation is reachable only through Builder.Build and the Record
// setters. Duplicate a key with Clone; wipe it with Zero.
type SigningKey struct {
	scheme IdentityScheme
	secp   *secp256k1.PrivateKey
	ed     ed25519.PrivateKey
}

// GenerateKey creates a fresh random key for scheme.
func GenerateKey(scheme IdentityScheme) (*SigningKey, error) {
	return GenerateKeyFromRand(scheme, rand.Reader)
}

// GenerateKeyFromRand creates a key for scheme using randomness from r.
func GenerateKeyFromRand(scheme IdentityScheme, r io.Reader) (*SigningKey, error) {
	if scheme == nil {
		return nil, newError(KindScheme, "ENR-SCH-003", "nil identity scheme")
	}
	return scheme.generateKey(r)
}

// ImportKey builds a key for scheme from raw private key bytes: a 32-byte
// scalar for v4, a 32-byte seed for ed25519.
func ImportKey(scheme IdentityScheme, secret []byte) (*SigningKey, error) {
	if scheme == nil {
		return nil, newError(KindScheme, "ENR-SCH-003", "nil identity scheme")
	}
	return scheme.importKey(secret)
}

func GenerateSecp256k1() (*SigningKey, error) { return GenerateKey(V4) }
func GenerateEd25519() (*SigningKey, error)   { return GenerateKey(Ed25519) }

func ImportSecp256k1(secret []byte) (*SigningKey, error) { return ImportKey(V4, secret) }
func ImportEd25519(seed []byte) (*SigningKey, error)     { return ImportKey(Ed25519, seed) }

// Scheme returns the identity scheme this key signs for.
func (k *SigningKey) Scheme() IdentityScheme { return k.scheme }

// PublicKey returns the encoded public key as stored in a record: 33-byte
// compressed point for v4, 32 raw bytes for ed25519. It returns nil once the
// key has been zeroed.
func (k *SigningKey) PublicKey() []byte {
	switch {
	case k == nil:
		return nil
	case k.secp != nil:
		return k.secp.PubKey().SerializeCompressed()
	case k.ed != nil:
		return append([]byte(nil), k.ed.Public().(ed25519.PublicKey)...)
	}
	return nil
}

// NodeID returns the node ID of records signed by this key.
func (k *SigningKey) NodeID() (ID, error) {
	if err := k.usable(); err != nil {
		return ID{}, err
	}
	return k.scheme.NodeID(k.PublicKey())
}

// Secret returns a copy of the raw private key bytes, suitable for ImportKey.
func (k *SigningKey) Secret() []byte {
	switch {
	case k == nil:
		return nil
	case k.secp != nil:
		return k.secp.Serialize()
	case k.ed != nil:
		return k.ed.Seed()
	}
	return nil
}

// Clone returns an independent copy of the key.
func (k *SigningKey) Clone() *SigningKey {
	if k == nil {
		return nil
	}
	c := &SigningKey{scheme: k.scheme}
	if k.secp != nil {
		scalar := k.secp.Key
		c.secp = secp256k1.NewPrivateKey(&scalar)
		scalar.Zero()
	}
	if k.ed != nil {
		c.ed = append(ed25519.PrivateKey(nil), k.ed...)
	}
	return c
}

// Zero wipes the private key material. The key cannot sign afterwards.
func (k *SigningKey) Zero() {
	if k == nil {
		return
	}
	if k.secp != nil {
		k.secp.Zero()
		k.secp = nil
	}
	if k.ed != nil {
		clear(k.ed)
		k.ed = nil
	}
}

func (k *SigningKey) String() string {
	if k == nil || k.scheme == nil {
		return "SigningKey(<nil>)"
	}
	return fmt.Sprintf("SigningKey(%s:%x)", k.scheme.Name(), k.PublicKey())
}

func (k *SigningKey) usable() error {
	if k == nil || k.scheme == nil {
		return newError(KindImport, "ENR-KEY-004", "nil signing key")
	}
	if k.secp == nil && k.ed == nil {
		return newError(KindImport, "ENR-KEY-005", "signing key has been zeroed")
	}
	return nil
}
