package enr

import (
	"bytes"
	"fmt"
	"net/netip"
	"slices"
	"strings"

	"xdao.co/enr/rlp"
)

type optionalPort struct {
	port uint16
	set  bool
}

// Builder accumulates the fields of a new record. Setters may be called in
// any order; validation errors are reported by Build.
type Builder struct {
	seq    uint64
	ip4    netip.Addr
	ip6    netip.Addr
	tcp4   optionalPort
	tcp6   optionalPort
	udp4   optionalPort
	udp6   optionalPort
	custom []pair
	err    error
}

// NewBuilder returns a builder whose records start at sequence number 1.
func NewBuilder() *Builder {
	return &Builder{seq: 1}
}

// Seq sets the initial sequence number.
func (b *Builder) Seq(seq uint64) *Builder {
	b.seq = seq
	return b
}

// IP sets "ip" or "ip6" depending on the address family.
func (b *Builder) IP(addr netip.Addr) *Builder {
	if addr.Unmap().Is4() {
		return b.IP4(addr)
	}
	return b.IP6(addr)
}

func (b *Builder) IP4(addr netip.Addr) *Builder {
	if _, err := encodeIP4(addr); err != nil {
		b.fail(err)
		return b
	}
	b.ip4 = addr.Unmap()
	return b
}

func (b *Builder) IP6(addr netip.Addr) *Builder {
	if _, err := encodeIP6(addr); err != nil {
		b.fail(err)
		return b
	}
	b.ip6 = addr
	return b
}

func (b *Builder) TCP4(port uint16) *Builder { b.tcp4 = optionalPort{port, true}; return b }
func (b *Builder) TCP6(port uint16) *Builder { b.tcp6 = optionalPort{port, true}; return b }
func (b *Builder) UDP4(port uint16) *Builder { b.udp4 = optionalPort{port, true}; return b }
func (b *Builder) UDP6(port uint16) *Builder { b.udp6 = optionalPort{port, true}; return b }

// Add queues a custom entry holding value as a byte string.
func (b *Builder) Add(key string, value []byte) *Builder {
	b.custom = append(b.custom, pair{k: key, v: rlp.EncodeString(value)})
	return b
}

// AddRaw queues a custom entry holding a pre-encoded RLP item.
func (b *Builder) AddRaw(key string, value rlp.RawValue) *Builder {
	if _, err := rlp.SplitOne(value); err != nil {
		b.fail(wrapError(KindValue, "ENR-VAL-001", fmt.Sprintf("value for key %q is not a single encoded item", key), err))
		return b
	}
	b.custom = append(b.custom, pair{k: key, v: bytes.Clone(value)})
	return b
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build signs the accumulated fields with k and returns the record.
func (b *Builder) Build(k *SigningKey) (*Record, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := k.usable(); err != nil {
		return nil, err
	}

	var pairs []pair
	if b.ip4.IsValid() {
		v, _ := encodeIP4(b.ip4)
		pairs = append(pairs, pair{k: KeyIP, v: v})
	}
	if b.ip6.IsValid() {
		v, _ := encodeIP6(b.ip6)
		pairs = append(pairs, pair{k: KeyIP6, v: v})
	}
	for _, p := range []struct {
		key string
		opt optionalPort
	}{{KeyTCP, b.tcp4}, {KeyTCP6, b.tcp6}, {KeyUDP, b.udp4}, {KeyUDP6, b.udp6}} {
		if p.opt.set {
			pairs = append(pairs, pair{k: p.key, v: rlp.EncodeUint(uint64(p.opt.port))})
		}
	}
	for _, c := range b.custom {
		if err := checkEntry(c.k, c.v, k); err != nil {
			return nil, err
		}
		if slices.ContainsFunc(pairs, func(p pair) bool { return p.k == c.k }) {
			return nil, newError(KindDuplicate, "ENR-BLD-001", fmt.Sprintf("key %q added more than once", c.k))
		}
		pairs = append(pairs, c)
	}
	slices.SortFunc(pairs, func(x, y pair) int { return strings.Compare(x.k, y.k) })
	return signRecord(k, b.seq, pairs)
}
