package enr

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"xdao.co/enr/cidutil"
	"xdao.co/enr/compliance"
)

// TextPrefix starts the textual form of a record.
const TextPrefix = "enr:"

var textEncoding = base64.RawURLEncoding.Strict()

// FromText decodes and verifies a record in textual form. The "enr:" prefix
// is optional. Unknown identity schemes are reported as in FromBytes.
func FromText(s string) (*Record, error) {
	return DecodeText(s, compliance.Strict)
}

// Parse is an alias for FromText.
func Parse(s string) (*Record, error) { return FromText(s) }

// DecodeText is FromText with an explicit compliance mode.
func DecodeText(s string, mode compliance.ComplianceMode) (*Record, error) {
	s = strings.TrimPrefix(s, TextPrefix)
	if s == "" {
		return nil, newError(KindMalformed, "ENR-TXT-001", "empty record text")
	}
	if n := textEncoding.DecodedLen(len(s)); n > SizeLimit {
		return nil, newError(KindOversize, "ENR-TXT-002", fmt.Sprintf("record size %d exceeds max size of %d bytes", n, SizeLimit))
	}
	raw, err := textEncoding.DecodeString(s)
	if err != nil {
		return nil, wrapError(KindMalformed, "ENR-TXT-003", "invalid base64url record text", err)
	}
	return Decode(raw, mode)
}

// Bytes returns the canonical binary form of the record.
func (r *Record) Bytes() []byte { return bytes.Clone(r.raw) }

// Size returns the length of the binary form.
func (r *Record) Size() int { return len(r.raw) }

// Text returns the textual form: "enr:" followed by unpadded base64url.
func (r *Record) Text() string {
	return TextPrefix + textEncoding.EncodeToString(r.raw)
}

func (r *Record) String() string { return r.Text() }

func (r *Record) GoString() string { return "Enr(" + r.Text() + ")" }

// Equal reports whether both records have byte-identical encodings.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	return bytes.Equal(r.raw, o.raw)
}

// Hash returns a stable 64-bit hash of the encoding. Equal records hash equal.
func (r *Record) Hash() uint64 { return xxhash.Sum64(r.raw) }

// CID returns a CIDv1 (raw codec, keccak-256 multihash) of the encoding.
func (r *Record) CID() (string, error) {
	if len(r.raw) == 0 {
		return "", newError(KindMalformed, "ENR-CID-001", "record has no encoding")
	}
	return cidutil.CIDv1RawKeccak256(r.raw)
}

func (r *Record) MarshalText() ([]byte, error) {
	if len(r.raw) == 0 {
		return nil, newError(KindMalformed, "ENR-TXT-004", "record has no encoding")
	}
	return []byte(r.Text()), nil
}

func (r *Record) UnmarshalText(text []byte) error {
	dec, err := FromText(string(text))
	if err != nil {
		return err
	}
	*r = *dec
	return nil
}

func (r *Record) MarshalBinary() ([]byte, error) {
	if len(r.raw) == 0 {
		return nil, newError(KindMalformed, "ENR-DEC-010", "record has no encoding")
	}
	return r.Bytes(), nil
}

func (r *Record) UnmarshalBinary(data []byte) error {
	dec, err := FromBytes(data)
	if err != nil {
		return err
	}
	*r = *dec
	return nil
}
