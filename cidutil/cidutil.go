package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"golang.org/x/crypto/sha3"
)

// CIDv1RawKeccak256 returns a CIDv1 string using the "raw" multicodec and a
// keccak-256 multihash of data.
func CIDv1RawKeccak256(data []byte) (string, error) {
	c, err := CIDv1RawKeccak256CID(data)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// CIDv1RawKeccak256CID returns a CIDv1 (raw + keccak-256) derived from data.
func CIDv1RawKeccak256CID(data []byte) (cid.Cid, error) {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(data)
	mh, err := multihash.Encode(h.Sum(nil), multihash.KECCAK_256)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}
