package enr

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"xdao.co/enr/compliance"
	"xdao.co/enr/rlp"
)

// SizeLimit is the maximum encoded size of a record in bytes.
const SizeLimit = 300

// pair is a key and its encoded value. Values are single RLP items.
type pair struct {
	k string
	v rlp.RawValue
}

// Record is a signed node record.
//
// The zero value holds no entries and no signature; use a Builder or one of
// the decoding functions to obtain a usable record.
type Record struct {
	seq       uint64
	signature []byte
	pairs     []pair // sorted by key, keys unique
	raw       []byte // canonical encoding, signature included

	scheme   IdentityScheme // nil when "id" names no supported scheme
	nodeID   ID
	verified bool
}

// FromBytes decodes and verifies a record in its binary form.
//
// If the record names an unknown identity scheme, FromBytes returns the
// decoded record together with an UnsupportedScheme error. Such a record may
// be inspected but must not be treated as authenticated.
func FromBytes(raw []byte) (*Record, error) {
	return Decode(raw, compliance.Strict)
}

// Decode decodes and verifies a record. In Permissive mode a record with an
// unknown identity scheme is returned without error; check Verified.
func Decode(raw []byte, mode compliance.ComplianceMode) (*Record, error) {
	r, err := decodeRecord(raw)
	if err != nil {
		return nil, err
	}
	if err := r.verify(); err != nil {
		if !IsKind(err, KindScheme) {
			return nil, err
		}
		if mode == compliance.Permissive {
			return r, nil
		}
		return r, err
	}
	return r, nil
}

func decodeRecord(raw []byte) (*Record, error) {
	if len(raw) > SizeLimit {
		return nil, newError(KindOversize, "ENR-DEC-001", fmt.Sprintf("record size %d exceeds max size of %d bytes", len(raw), SizeLimit))
	}
	raw = bytes.Clone(raw)
	elems, rest, err := rlp.SplitList(raw)
	if err != nil {
		return nil, wrapError(KindMalformed, "ENR-DEC-002", "record is not a list", err)
	}
	if len(rest) != 0 {
		return nil, newError(KindMalformed, "ENR-DEC-003", "trailing data after record")
	}
	sig, elems, err := rlp.SplitString(elems)
	if err != nil {
		return nil, wrapError(KindMalformed, "ENR-DEC-004", "invalid signature", err)
	}
	seq, elems, err := rlp.SplitUint64(elems)
	if err != nil {
		return nil, wrapError(KindMalformed, "ENR-DEC-005", "invalid sequence number", err)
	}

	n, err := rlp.CountValues(elems)
	if err != nil {
		return nil, wrapError(KindMalformed, "ENR-DEC-008", "invalid record entry", err)
	}
	if n%2 != 0 {
		return nil, newError(KindMalformed, "ENR-DEC-007", fmt.Sprintf("odd number of key/value items (%d)", n))
	}

	pairs := make([]pair, 0, n/2)
	for len(elems) > 0 {
		key, rest, err := rlp.SplitString(elems)
		if err != nil {
			return nil, wrapError(KindMalformed, "ENR-DEC-006", "invalid record key", err)
		}
		_, _, after, err := rlp.Split(rest)
		if err != nil {
			return nil, wrapError(KindMalformed, "ENR-DEC-008", fmt.Sprintf("invalid value for key %q", key), err)
		}
		k := string(key)
		if n := len(pairs); n > 0 && pairs[n-1].k >= k {
			return nil, newError(KindMalformed, "ENR-DEC-009", fmt.Sprintf("record key %q is duplicate or out of order", k))
		}
		pairs = append(pairs, pair{k: k, v: rlp.RawValue(rest[:len(rest)-len(after)])})
		elems = after
	}
	return &Record{seq: seq, signature: sig, pairs: pairs, raw: raw}, nil
}

// resolveScheme selects the scheme named by the "id" entry. An id of "v4"
// covers both key types: a record without a secp256k1 entry but with an
// ed25519 one is an ed25519 record.
func (r *Record) resolveScheme() (IdentityScheme, error) {
	name, ok := r.IdentityScheme()
	if !ok {
		return nil, newError(KindScheme, "ENR-SCH-001", "record has no identity scheme")
	}
	if name == Ed25519.RecordID() && !r.Has(V4.KeyEntry()) && r.Has(Ed25519.KeyEntry()) {
		return Ed25519, nil
	}
	s, ok := SchemeByName(name)
	if !ok {
		return nil, newError(KindScheme, "ENR-SCH-002", fmt.Sprintf("unsupported identity scheme %q", name))
	}
	return s, nil
}

// verify checks the signature against the record's identity scheme and
// caches the scheme and node ID on success.
func (r *Record) verify() error {
	s, err := r.resolveScheme()
	if err != nil {
		return err
	}
	pub, ok := r.Get(s.KeyEntry())
	if !ok {
		return newError(KindSignature, "ENR-SIG-001", fmt.Sprintf("record has no %s public key", s.KeyEntry()))
	}
	if err := s.Verify(pub, encodeContent(r.seq, r.pairs), r.signature); err != nil {
		return err
	}
	id, err := s.NodeID(pub)
	if err != nil {
		return err
	}
	r.scheme, r.nodeID, r.verified = s, id, true
	return nil
}

// Verify re-checks the record signature.
func (r *Record) Verify() error {
	c := *r
	return c.verify()
}

// Verified reports whether the signature was checked successfully when the
// record was decoded or signed.
func (r *Record) Verified() bool { return r.verified }

// encodeContent returns the signed part of a record: [seq, k1, v1, ...].
func encodeContent(seq uint64, pairs []pair) []byte {
	return rlp.WrapList(appendPairs(rlp.AppendUint(nil, seq), pairs))
}

// encodeRecord returns the full record: [sig, seq, k1, v1, ...].
func encodeRecord(sig []byte, seq uint64, pairs []pair) []byte {
	payload := rlp.AppendString(nil, sig)
	payload = rlp.AppendUint(payload, seq)
	return rlp.WrapList(appendPairs(payload, pairs))
}

func appendPairs(dst []byte, pairs []pair) []byte {
	for _, p := range pairs {
		dst = rlp.AppendString(dst, []byte(p.k))
		dst = append(dst, p.v...)
	}
	return dst
}

func comparePair(p pair, key string) int { return strings.Compare(p.k, key) }

func (r *Record) find(key string) (int, bool) {
	return slices.BinarySearchFunc(r.pairs, key, comparePair)
}

// withPair returns a copy of pairs with key set to v, keeping key order.
func withPair(pairs []pair, key string, v rlp.RawValue) []pair {
	i, found := slices.BinarySearchFunc(pairs, key, comparePair)
	out := make([]pair, 0, len(pairs)+1)
	out = append(out, pairs[:i]...)
	out = append(out, pair{k: key, v: v})
	if found {
		i++
	}
	return append(out, pairs[i:]...)
}

// withoutPairs returns a copy of pairs with every key matching drop removed.
func withoutPairs(pairs []pair, drop func(string) bool) []pair {
	out := make([]pair, 0, len(pairs))
	for _, p := range pairs {
		if !drop(p.k) {
			out = append(out, p)
		}
	}
	return out
}
