package enr

import (
	"encoding/hex"
	"io"
	"sort"

	"golang.org/x/crypto/sha3"
)

// ID is the 32-byte node identifier derived from a record's public key.
type ID [32]byte

func (id ID) String() string { return hex.EncodeToString(id[:]) }

// Bytes returns a copy of the identifier bytes.
func (id ID) Bytes() []byte { return append([]byte(nil), id[:]...) }

// IsZero reports whether no node ID has been derived.
func (id ID) IsZero() bool { return id == ID{} }

// IdentityScheme is an algorithm family governing key format, node ID
// derivation and signing. The set of schemes is fixed; use V4 or Ed25519.
type IdentityScheme interface {
	// Name identifies the scheme in key strings and SchemeByName.
	Name() string
	// RecordID is the value written under the "id" key. Ed25519 records
	// share "v4" and are told apart by their public key entry.
	RecordID() string
	// KeyEntry is the record key holding the public key.
	KeyEntry() string
	// NodeID derives the node identifier from an encoded public key.
	NodeID(pub []byte) (ID, error)
	// Verify checks sig over the signed content of a record.
	Verify(pub, content, sig []byte) error

	sign(k *SigningKey, content []byte) ([]byte, error)
	importKey(secret []byte) (*SigningKey, error)
	generateKey(rand io.Reader) (*SigningKey, error)
}

var (
	V4      IdentityScheme = v4Scheme{}
	Ed25519 IdentityScheme = ed25519Scheme{}

	schemes = map[string]IdentityScheme{
		V4.Name():      V4,
		Ed25519.Name(): Ed25519,
	}
)

// SchemeByName returns the identity scheme registered under name.
func SchemeByName(name string) (IdentityScheme, bool) {
	s, ok := schemes[name]
	return s, ok
}

// Schemes returns all supported identity schemes, sorted by name.
func Schemes() []IdentityScheme {
	out := make([]IdentityScheme, 0, len(schemes))
	for _, s := range schemes {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// isSchemeKey reports whether key is managed by an identity scheme.
func isSchemeKey(key string) bool {
	if key == "id" {
		return true
	}
	for _, s := range schemes {
		if s.KeyEntry() == key {
			return true
		}
	}
	return false
}

func keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		_, _ = h.Write(b)
	}
	return h.Sum(nil)
}
