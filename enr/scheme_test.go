package enr

import (
	"encoding/hex"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"

	"xdao.co/enr/rlp"
)

func TestVector_DecodeText(t *testing.T) {
	r, err := FromText(vectorText)
	require.NoError(t, err)

	require.Equal(t, uint64(1), r.Seq())
	require.Equal(t, vectorPubKey, hex.EncodeToString(r.PublicKey()))
	require.Equal(t, vectorNodeID, r.NodeID().String())
	require.True(t, r.Verified())
	require.Equal(t, V4, r.Scheme())

	id, ok := r.IdentityScheme()
	require.True(t, ok)
	require.Equal(t, "v4", id)

	ip, ok := r.IP4()
	require.True(t, ok)
	require.Equal(t, "127.0.0.1", ip.String())
	udp, ok := r.UDP4()
	require.True(t, ok)
	require.Equal(t, uint16(30303), udp)
	_, ok = r.TCP4()
	require.False(t, ok)
}

func TestVector_DecodeBytesMatchesText(t *testing.T) {
	fromBytes, err := FromBytes(mustHex(t, vectorHex))
	require.NoError(t, err)
	fromText, err := FromText(vectorText)
	require.NoError(t, err)

	require.True(t, fromBytes.Equal(fromText))
	require.Equal(t, fromBytes.Hash(), fromText.Hash())
	require.Equal(t, vectorText, fromBytes.Text())
	require.Equal(t, vectorHex, hex.EncodeToString(fromText.Bytes()))
}

func TestVector_BuildFromSecret(t *testing.T) {
	k, err := ImportSecp256k1(mustHex(t, vectorSecret))
	require.NoError(t, err)
	require.Equal(t, vectorPubKey, hex.EncodeToString(k.PublicKey()))

	nid, err := k.NodeID()
	require.NoError(t, err)
	require.Equal(t, vectorNodeID, nid.String())

	r := localRecord(t, k)
	require.Equal(t, vectorNodeID, r.NodeID().String())
	require.Equal(t, uint64(1), r.Seq())
	require.NoError(t, r.Verify())
}

func TestVector_LowIntegerPort(t *testing.T) {
	r, err := FromText("enr:-Hy4QF_mn4BuM6hY4CuLH8xDQd7U8kVZe9fyNgRB1vjdToGWQsQhe" +
		"tRvsByoJCWGQ6kf2aiWC0le24lkp0IPIJkLSTUBgmlkgnY0iXNlY3AyNTZr" +
		"MaECMoYV0PAXMueQz19FHpBO0jGBoLYCWhfSxGf5kQgk9KqDdGNwgnZf")
	require.NoError(t, err)
	tcp, ok := r.TCP4()
	require.True(t, ok)
	require.Equal(t, uint16(30303), tcp)
}

func TestSchemes_Registry(t *testing.T) {
	s, ok := SchemeByName("v4")
	require.True(t, ok)
	require.Equal(t, "secp256k1", s.KeyEntry())

	s, ok = SchemeByName("ed25519")
	require.True(t, ok)
	require.Equal(t, "ed25519", s.KeyEntry())
	require.Equal(t, "v4", s.RecordID())

	_, ok = SchemeByName("v5")
	require.False(t, ok)

	names := []string{}
	for _, s := range Schemes() {
		names = append(names, s.Name())
	}
	require.Equal(t, []string{"ed25519", "v4"}, names)
}

func TestV4_VerifyRejectsMalformedSignatures(t *testing.T) {
	k := secpKey(t, 0x11)
	content := []byte{0xc1, 0x01}
	sig, err := V4.sign(k, content)
	require.NoError(t, err)
	require.Len(t, sig, 64)
	require.NoError(t, V4.Verify(k.PublicKey(), content, sig))

	requireKind(t, V4.Verify(k.PublicKey(), content, sig[:63]), KindSignature)
	requireKind(t, V4.Verify(k.PublicKey(), content, append(sig, 0x00)), KindSignature)
	requireKind(t, V4.Verify(k.PublicKey(), content, make([]byte, 64)), KindSignature)
	requireKind(t, V4.Verify(k.PublicKey(), []byte{0xc1, 0x02}, sig), KindSignature)
	requireKind(t, V4.Verify([]byte{0x02}, content, sig), KindSignature)
}

func TestEd25519_SignVerify(t *testing.T) {
	k := edKey(t, 0x22)
	content := []byte{0xc1, 0x01}
	sig, err := Ed25519.sign(k, content)
	require.NoError(t, err)
	require.Len(t, sig, 64)
	require.NoError(t, Ed25519.Verify(k.PublicKey(), content, sig))

	requireKind(t, Ed25519.Verify(k.PublicKey(), content, sig[:10]), KindSignature)
	requireKind(t, Ed25519.Verify(k.PublicKey()[:31], content, sig), KindSignature)
	sig[0] ^= 0xff
	requireKind(t, Ed25519.Verify(k.PublicKey(), content, sig), KindSignature)
}

func TestScheme_SignRejectsForeignKey(t *testing.T) {
	_, err := V4.sign(edKey(t, 0x01), nil)
	requireKind(t, err, KindScheme)
	_, err = Ed25519.sign(secpKey(t, 0x01), nil)
	requireKind(t, err, KindScheme)
}

func TestEd25519_RecordRoundTrip(t *testing.T) {
	k := edKey(t, 0x33)
	r, err := NewBuilder().IP4(netip.MustParseAddr("192.168.1.1")).TCP4(8545).Build(k)
	require.NoError(t, err)

	id, _ := r.IdentityScheme()
	require.Equal(t, "v4", id)
	require.Equal(t, Ed25519, r.Scheme())
	require.Len(t, r.PublicKey(), 32)

	nid, err := k.NodeID()
	require.NoError(t, err)
	require.Equal(t, nid, r.NodeID())

	dec, err := FromText(r.Text())
	require.NoError(t, err)
	require.True(t, dec.Equal(r))
	tcp, _ := dec.TCP4()
	require.Equal(t, uint16(8545), tcp)
}

// signedPairs signs pairs with k exactly as given, without rewriting the
// scheme entries.
func signedPairs(t *testing.T, s IdentityScheme, k *SigningKey, seq uint64, pairs []pair) []byte {
	t.Helper()
	sig, err := s.sign(k, encodeContent(seq, pairs))
	require.NoError(t, err)
	return encodeRecord(sig, seq, pairs)
}

func TestEd25519_DecodesV4ID(t *testing.T) {
	k := edKey(t, 0x44)
	raw := signedPairs(t, Ed25519, k, 1, []pair{
		{k: "ed25519", v: rlp.EncodeString(k.PublicKey())},
		strPair("id", "v4"),
		{k: "udp", v: rlp.EncodeUint(30303)},
	})

	r, err := FromBytes(raw)
	require.NoError(t, err)
	require.True(t, r.Verified())
	require.Equal(t, Ed25519, r.Scheme())
	nid, err := k.NodeID()
	require.NoError(t, err)
	require.Equal(t, nid, r.NodeID())
	require.Equal(t, k.PublicKey(), r.PublicKey())
	udp, _ := r.UDP4()
	require.Equal(t, uint16(30303), udp)
}

func TestEd25519_DecodesLegacyID(t *testing.T) {
	k := edKey(t, 0x45)
	raw := signedPairs(t, Ed25519, k, 2, []pair{
		{k: "ed25519", v: rlp.EncodeString(k.PublicKey())},
		strPair("id", "ed25519"),
	})

	r, err := FromBytes(raw)
	require.NoError(t, err)
	require.Equal(t, Ed25519, r.Scheme())
}

func TestV4ID_SecpEntryTakesPrecedence(t *testing.T) {
	sk, ek := secpKey(t, 0x46), edKey(t, 0x47)
	pairs := []pair{
		{k: "ed25519", v: rlp.EncodeString(ek.PublicKey())},
		strPair("id", "v4"),
		{k: "secp256k1", v: rlp.EncodeString(sk.PublicKey())},
	}

	r, err := FromBytes(signedPairs(t, V4, sk, 1, pairs))
	require.NoError(t, err)
	require.Equal(t, V4, r.Scheme())

	_, err = FromBytes(signedPairs(t, Ed25519, ek, 1, pairs))
	requireKind(t, err, KindSignature)
}
