package cidutil

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

func TestCIDv1RawKeccak256_Stable(t *testing.T) {
	a, err := CIDv1RawKeccak256([]byte("record"))
	if err != nil {
		t.Fatalf("CIDv1RawKeccak256: %v", err)
	}
	b, err := CIDv1RawKeccak256([]byte("record"))
	if err != nil {
		t.Fatalf("CIDv1RawKeccak256: %v", err)
	}
	if a != b {
		t.Fatalf("expected identical CIDs, got %s and %s", a, b)
	}
	c, err := CIDv1RawKeccak256([]byte("other"))
	if err != nil {
		t.Fatalf("CIDv1RawKeccak256: %v", err)
	}
	if a == c {
		t.Fatalf("expected different inputs to yield different CIDs")
	}
}

func TestCIDv1RawKeccak256CID_Prefix(t *testing.T) {
	c, err := CIDv1RawKeccak256CID([]byte("record"))
	if err != nil {
		t.Fatalf("CIDv1RawKeccak256CID: %v", err)
	}
	if c.Version() != 1 {
		t.Fatalf("expected CIDv1, got v%d", c.Version())
	}
	if c.Type() != cid.Raw {
		t.Fatalf("expected raw codec, got %x", c.Type())
	}
	dec, err := multihash.Decode(c.Hash())
	if err != nil {
		t.Fatalf("decode multihash: %v", err)
	}
	if dec.Code != multihash.KECCAK_256 || dec.Length != 32 {
		t.Fatalf("unexpected multihash code=%x length=%d", dec.Code, dec.Length)
	}
}
