package enr

import (
	"bytes"
	"fmt"
	"math"
	"net/netip"

	"xdao.co/enr/rlp"
)

// SetIP stores addr under "ip" or "ip6" depending on its family.
func (r *Record) SetIP(addr netip.Addr, k *SigningKey) error {
	addr = addr.Unmap()
	if addr.Is4() {
		return r.SetIP4(addr, k)
	}
	return r.SetIP6(addr, k)
}

func (r *Record) SetIP4(addr netip.Addr, k *SigningKey) error {
	v, err := encodeIP4(addr)
	if err != nil {
		return err
	}
	return r.set(k, KeyIP, v)
}

func (r *Record) SetIP6(addr netip.Addr, k *SigningKey) error {
	v, err := encodeIP6(addr)
	if err != nil {
		return err
	}
	return r.set(k, KeyIP6, v)
}

func (r *Record) SetTCP4(port uint16, k *SigningKey) error { return r.set(k, KeyTCP, rlp.EncodeUint(uint64(port))) }
func (r *Record) SetTCP6(port uint16, k *SigningKey) error { return r.set(k, KeyTCP6, rlp.EncodeUint(uint64(port))) }
func (r *Record) SetUDP4(port uint16, k *SigningKey) error { return r.set(k, KeyUDP, rlp.EncodeUint(uint64(port))) }
func (r *Record) SetUDP6(port uint16, k *SigningKey) error { return r.set(k, KeyUDP6, rlp.EncodeUint(uint64(port))) }

// SetSeq re-signs the record with the given sequence number, which must be
// greater than the current one.
func (r *Record) SetSeq(seq uint64, k *SigningKey) error {
	if seq <= r.seq {
		return newError(KindSequence, "ENR-SEQ-001", fmt.Sprintf("sequence number %d does not exceed current %d", seq, r.seq))
	}
	return r.apply(k, seq, r.pairs)
}

// SetEntry stores value as a byte string under key.
func (r *Record) SetEntry(key string, value []byte, k *SigningKey) error {
	return r.SetRawEntry(key, rlp.EncodeString(value), k)
}

// SetRawEntry stores a pre-encoded value under key. The value must be
// exactly one RLP item.
func (r *Record) SetRawEntry(key string, value rlp.RawValue, k *SigningKey) error {
	if _, err := rlp.SplitOne(value); err != nil {
		return wrapError(KindValue, "ENR-VAL-001", fmt.Sprintf("value for key %q is not a single encoded item", key), err)
	}
	if err := checkEntry(key, value, k); err != nil {
		return err
	}
	return r.set(k, key, bytes.Clone(value))
}

// Delete removes key from the record. Removing an absent key is a no-op.
func (r *Record) Delete(key string, k *SigningKey) error {
	if isSchemeKey(key) {
		return newError(KindKeyReserved, "ENR-RSV-001", fmt.Sprintf("key %q is managed by the identity scheme", key))
	}
	if !r.Has(key) {
		return nil
	}
	seq, err := r.nextSeq()
	if err != nil {
		return err
	}
	return r.apply(k, seq, withoutPairs(r.pairs, func(s string) bool { return s == key }))
}

func (r *Record) set(k *SigningKey, key string, v rlp.RawValue) error {
	seq, err := r.nextSeq()
	if err != nil {
		return err
	}
	return r.apply(k, seq, withPair(r.pairs, key, v))
}

func (r *Record) nextSeq() (uint64, error) {
	if r.seq == math.MaxUint64 {
		return 0, newError(KindSequence, "ENR-SEQ-002", "sequence number cannot be incremented further")
	}
	return r.seq + 1, nil
}

// apply signs the candidate state and replaces the receiver only on success.
func (r *Record) apply(k *SigningKey, seq uint64, pairs []pair) error {
	next, err := signRecord(k, seq, pairs)
	if err != nil {
		return err
	}
	*r = *next
	return nil
}

// signRecord writes the key's scheme entries into pairs, signs the content
// and enforces the size limit.
func signRecord(k *SigningKey, seq uint64, pairs []pair) (*Record, error) {
	if err := k.usable(); err != nil {
		return nil, err
	}
	s := k.scheme
	pub := k.PublicKey()
	pairs = withoutPairs(pairs, isSchemeKey)
	pairs = withPair(pairs, KeyID, rlp.EncodeString([]byte(s.RecordID())))
	pairs = withPair(pairs, s.KeyEntry(), rlp.EncodeString(pub))

	sig, err := s.sign(k, encodeContent(seq, pairs))
	if err != nil {
		return nil, err
	}
	raw := encodeRecord(sig, seq, pairs)
	if len(raw) > SizeLimit {
		return nil, newError(KindOversize, "ENR-SIZE-001", fmt.Sprintf("record size %d exceeds max size of %d bytes", len(raw), SizeLimit))
	}
	id, err := s.NodeID(pub)
	if err != nil {
		return nil, err
	}
	return &Record{
		seq:       seq,
		signature: sig,
		pairs:     pairs,
		raw:       raw,
		scheme:    s,
		nodeID:    id,
		verified:  true,
	}, nil
}

// checkEntry validates a value written through the generic path. Scheme keys
// are accepted only when they match what signing with k writes anyway.
func checkEntry(key string, v rlp.RawValue, k *SigningKey) error {
	switch key {
	case KeyID:
		if k != nil && k.scheme != nil && bytes.Equal(v, rlp.EncodeString([]byte(k.scheme.RecordID()))) {
			return nil
		}
		return newError(KindKeyReserved, "ENR-RSV-002", `key "id" is managed by the identity scheme`)
	case KeyIP:
		return checkStringWidth(key, v, 4)
	case KeyIP6:
		return checkStringWidth(key, v, 16)
	case KeyTCP, KeyTCP6, KeyUDP, KeyUDP6:
		if _, ok := decodePort(v); !ok {
			return newError(KindValue, "ENR-VAL-003", fmt.Sprintf("value for key %q is not a port number", key))
		}
		return nil
	}
	if isSchemeKey(key) {
		if k != nil && k.scheme != nil && k.scheme.KeyEntry() == key && bytes.Equal(v, rlp.EncodeString(k.PublicKey())) {
			return nil
		}
		return newError(KindKeyReserved, "ENR-RSV-003", fmt.Sprintf("key %q is managed by the identity scheme", key))
	}
	return nil
}

func checkStringWidth(key string, v rlp.RawValue, width int) error {
	content, _, err := rlp.SplitString(v)
	if err != nil || len(content) != width {
		return newError(KindValue, "ENR-VAL-002", fmt.Sprintf("value for key %q must be %d bytes", key, width))
	}
	return nil
}

func encodeIP4(addr netip.Addr) (rlp.RawValue, error) {
	addr = addr.Unmap()
	if !addr.Is4() {
		return nil, newError(KindValue, "ENR-VAL-004", fmt.Sprintf("%v is not an IPv4 address", addr))
	}
	b := addr.As4()
	return rlp.EncodeString(b[:]), nil
}

func encodeIP6(addr netip.Addr) (rlp.RawValue, error) {
	if !addr.Is6() {
		return nil, newError(KindValue, "ENR-VAL-005", fmt.Sprintf("%v is not an IPv6 address", addr))
	}
	b := addr.As16()
	return rlp.EncodeString(b[:]), nil
}
