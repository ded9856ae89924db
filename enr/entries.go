package enr

import (
	"bytes"
	"iter"
	"net/netip"

	"xdao.co/enr/rlp"
)

// Reserved keys with typed meaning.
const (
	KeyID   = "id"
	KeyIP   = "ip"
	KeyIP6  = "ip6"
	KeyTCP  = "tcp"
	KeyTCP6 = "tcp6"
	KeyUDP  = "udp"
	KeyUDP6 = "udp6"
)

// Seq returns the sequence number.
func (r *Record) Seq() uint64 { return r.seq }

// Signature returns a copy of the signature bytes.
func (r *Record) Signature() []byte { return bytes.Clone(r.signature) }

// NodeID returns the node ID derived from the public key entry. It is the
// zero ID for records whose identity scheme is unknown.
func (r *Record) NodeID() ID { return r.nodeID }

// Scheme returns the identity scheme the record was verified with, or nil.
func (r *Record) Scheme() IdentityScheme { return r.scheme }

// IdentityScheme returns the value of the "id" entry.
func (r *Record) IdentityScheme() (string, bool) {
	b, ok := r.Get(KeyID)
	return string(b), ok
}

// PublicKey returns the public key entry of the record's scheme. For records
// with an unknown scheme, the first public key entry of a supported scheme is
// returned.
func (r *Record) PublicKey() []byte {
	if r.scheme != nil {
		b, _ := r.Get(r.scheme.KeyEntry())
		return b
	}
	for _, s := range Schemes() {
		if b, ok := r.Get(s.KeyEntry()); ok {
			return b
		}
	}
	return nil
}

// GetRaw returns the encoded value stored under key.
func (r *Record) GetRaw(key string) (rlp.RawValue, bool) {
	i, ok := r.find(key)
	if !ok {
		return nil, false
	}
	return bytes.Clone(r.pairs[i].v), true
}

// Get returns the byte string stored under key. It reports false when the
// key is absent or holds a list.
func (r *Record) Get(key string) ([]byte, bool) {
	i, ok := r.find(key)
	if !ok {
		return nil, false
	}
	content, _, err := rlp.SplitString(r.pairs[i].v)
	if err != nil {
		return nil, false
	}
	return bytes.Clone(content), true
}

// Has reports whether key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.find(key)
	return ok
}

// Len returns the number of entries.
func (r *Record) Len() int { return len(r.pairs) }

// Keys returns the entry keys in sorted order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.pairs))
	for i, p := range r.pairs {
		out[i] = p.k
	}
	return out
}

// All iterates over entries in key order, yielding each key with its
// encoded value. The sequence can be ranged over any number of times.
func (r *Record) All() iter.Seq2[string, []byte] {
	pairs := r.pairs
	return func(yield func(string, []byte) bool) {
		for _, p := range pairs {
			if !yield(p.k, bytes.Clone(p.v)) {
				return
			}
		}
	}
}

// IP4 returns the IPv4 address from the "ip" entry.
func (r *Record) IP4() (netip.Addr, bool) {
	b, ok := r.Get(KeyIP)
	if !ok || len(b) != 4 {
		return netip.Addr{}, false
	}
	return netip.AddrFrom4([4]byte(b)), true
}

// IP6 returns the IPv6 address from the "ip6" entry.
func (r *Record) IP6() (netip.Addr, bool) {
	b, ok := r.Get(KeyIP6)
	if !ok || len(b) != 16 {
		return netip.Addr{}, false
	}
	return netip.AddrFrom16([16]byte(b)), true
}

func (r *Record) TCP4() (uint16, bool) { return r.port(KeyTCP) }
func (r *Record) TCP6() (uint16, bool) { return r.port(KeyTCP6) }
func (r *Record) UDP4() (uint16, bool) { return r.port(KeyUDP) }
func (r *Record) UDP6() (uint16, bool) { return r.port(KeyUDP6) }

func (r *Record) port(key string) (uint16, bool) {
	i, ok := r.find(key)
	if !ok {
		return 0, false
	}
	return decodePort(r.pairs[i].v)
}

func decodePort(v rlp.RawValue) (uint16, bool) {
	x, rest, err := rlp.SplitUint64(v)
	if err != nil || len(rest) != 0 || x > 0xffff {
		return 0, false
	}
	return uint16(x), true
}
