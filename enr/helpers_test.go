package enr

import (
	"bytes"
	"encoding/hex"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
)

// EIP-778 example record.
const (
	vectorSecret = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"
	vectorPubKey = "03ca634cae0d49acb401d8a4c6b6fe8c55b70d115bf400769cc1400f3258cd3138"
	vectorNodeID = "a448f24c6d18e575453db13171562b71999873db5b286df957af199ec94617f7"
	vectorText   = "enr:-IS4QHCYrYZbAKWCBRlAy5zzaDZXJBGkcnh4MHcBFZntXNFrdvJjX04j" +
		"RzjzCBOonrkTfj499SZuOh8R33Ls8RRcy5wBgmlkgnY0gmlwhH8AAAGJc2Vj" +
		"cDI1NmsxoQPKY0yuDUmstAHYpMa2_oxVtw0RW_QAdpzBQA8yWM0xOIN1ZHCC" +
		"dl8"
	vectorHex = "f884b8407098ad865b00a582051940cb9cf36836572411a47278783077011599" +
		"ed5cd16b76f2635f4e234738f30813a89eb9137e3e3df5266e3a1f11df72ecf1" +
		"145ccb9c01826964827634826970847f00000189736563703235366b31a103ca" +
		"634cae0d49acb401d8a4c6b6fe8c55b70d115bf400769cc1400f3258cd313883" +
		"75647082765f"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func secpKey(t *testing.T, fill byte) *SigningKey {
	t.Helper()
	k, err := ImportSecp256k1(bytes.Repeat([]byte{fill}, 32))
	require.NoError(t, err)
	return k
}

func edKey(t *testing.T, fill byte) *SigningKey {
	t.Helper()
	k, err := ImportEd25519(bytes.Repeat([]byte{fill}, 32))
	require.NoError(t, err)
	return k
}

func localRecord(t *testing.T, k *SigningKey) *Record {
	t.Helper()
	r, err := NewBuilder().
		IP4(mustAddr("127.0.0.1")).
		UDP4(30303).
		Build(k)
	require.NoError(t, err)
	return r
}

func mustAddr(s string) netip.Addr { return netip.MustParseAddr(s) }

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, IsKind(err, kind), "expected %s, got %v (rule %s)", kind, err, RuleID(err))
}
