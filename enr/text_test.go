package enr

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"xdao.co/enr/compliance"
)

func TestFromText_PrefixOptional(t *testing.T) {
	with, err := FromText(vectorText)
	require.NoError(t, err)
	without, err := FromText(strings.TrimPrefix(vectorText, "enr:"))
	require.NoError(t, err)
	require.True(t, with.Equal(without))
}

func TestFromText_Errors(t *testing.T) {
	cases := []struct {
		name string
		text string
		kind Kind
	}{
		{"empty", "", KindMalformed},
		{"prefix only", "enr:", KindMalformed},
		{"padded", vectorText + "=", KindMalformed},
		{"standard alphabet", strings.ReplaceAll(vectorText, "_", "/"), KindMalformed},
		{"truncated", vectorText[:40], KindMalformed},
		{"too long", "enr:" + strings.Repeat("A", 404), KindOversize},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromText(tc.text)
			requireKind(t, err, tc.kind)
		})
	}
}

func TestText_Format(t *testing.T) {
	r := localRecord(t, secpKey(t, 0x01))
	text := r.Text()
	require.True(t, strings.HasPrefix(text, TextPrefix))
	require.NotContains(t, text, "=")
	require.NotContains(t, text, "+")
	require.NotContains(t, text, "/")
	require.Equal(t, text, r.String())
	require.Equal(t, "Enr("+text+")", r.GoString())
}

func TestDecodeText_Permissive(t *testing.T) {
	raw := encodeRecord(make([]byte, 64), 1, []pair{strPair("id", "v9")})
	text := TextPrefix + textEncoding.EncodeToString(raw)

	_, err := FromText(text)
	requireKind(t, err, KindScheme)

	r, err := DecodeText(text, compliance.Permissive)
	require.NoError(t, err)
	require.False(t, r.Verified())
}

func TestRecord_JSON(t *testing.T) {
	type peer struct {
		Name   string  `json:"name"`
		Record *Record `json:"record"`
	}
	r := localRecord(t, secpKey(t, 0x01))

	b, err := json.Marshal(peer{Name: "a", Record: r})
	require.NoError(t, err)
	require.Contains(t, string(b), r.Text())

	var got peer
	require.NoError(t, json.Unmarshal(b, &got))
	require.True(t, got.Record.Equal(r))
	require.True(t, got.Record.Verified())

	require.Error(t, json.Unmarshal([]byte(`{"record":"enr:AAAA"}`), &got))
}

func TestRecord_Binary(t *testing.T) {
	r := localRecord(t, secpKey(t, 0x01))
	b, err := r.MarshalBinary()
	require.NoError(t, err)

	var got Record
	require.NoError(t, got.UnmarshalBinary(b))
	require.True(t, got.Equal(r))

	var empty Record
	_, err = empty.MarshalBinary()
	requireKind(t, err, KindMalformed)
	_, err = empty.MarshalText()
	requireKind(t, err, KindMalformed)
}

func TestRecord_HashAndCID(t *testing.T) {
	a, err := FromText(vectorText)
	require.NoError(t, err)
	b, err := FromBytes(mustHex(t, vectorHex))
	require.NoError(t, err)
	require.Equal(t, a.Hash(), b.Hash())

	c1, err := a.CID()
	require.NoError(t, err)
	c2, err := b.CID()
	require.NoError(t, err)
	require.Equal(t, c1, c2)
	require.True(t, strings.HasPrefix(c1, "b"), "CIDv1 strings use base32 multibase")

	other := localRecord(t, secpKey(t, 0x01))
	require.NotEqual(t, a.Hash(), other.Hash())
	c3, err := other.CID()
	require.NoError(t, err)
	require.NotEqual(t, c1, c3)

	var empty Record
	_, err = empty.CID()
	requireKind(t, err, KindMalformed)
}

func TestRecord_EqualNil(t *testing.T) {
	var a, b *Record
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(localRecord(t, secpKey(t, 0x01))))
}

func TestParse_Alias(t *testing.T) {
	a, err := Parse(vectorText)
	require.NoError(t, err)
	b, err := FromText(vectorText)
	require.NoError(t, err)
	require.True(t, a.Equal(b))
}
