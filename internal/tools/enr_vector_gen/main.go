package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"net/netip"
	"os"

	"xdao.co/enr/enr"
	"xdao.co/enr/keys"
)

func mustKey(scheme enr.IdentityScheme, fill byte) *enr.SigningKey {
	k, err := enr.ImportKey(scheme, bytes.Repeat([]byte{fill}, 32))
	if err != nil {
		panic(err)
	}
	return k
}

// generate prints one vector per identity scheme: a record built from a
// fixed key, then the same record after one update.
func generate(w io.Writer) error {
	for i, scheme := range enr.Schemes() {
		k := mustKey(scheme, byte(0xA1+i))
		r, err := enr.NewBuilder().
			IP4(netip.MustParseAddr("127.0.0.1")).
			UDP4(30303).
			Build(k)
		if err != nil {
			return err
		}
		cid, err := r.CID()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "SCHEME=%s\n", scheme.Name())
		fmt.Fprintf(w, "SECRET=%s\n", keys.FormatSecret(k))
		fmt.Fprintf(w, "PUBKEY=%s\n", keys.PublicKeyString(k))
		fmt.Fprintf(w, "NODE-ID=%s\n", r.NodeID())
		fmt.Fprintf(w, "RLP=%s\n", hex.EncodeToString(r.Bytes()))
		fmt.Fprintf(w, "TEXT=%s\n", r.Text())
		fmt.Fprintf(w, "CID=%s\n", cid)

		if err := r.SetTCP4(30303, k); err != nil {
			return err
		}
		fmt.Fprintf(w, "UPDATED=%s\n\n", r.Text())
	}
	return nil
}

func main() {
	if err := generate(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
