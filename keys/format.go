package keys

import (
	"encoding/hex"
	"fmt"
	"strings"

	"xdao.co/enr/enr"
)

// DefaultScheme is assumed for secrets written without a scheme prefix.
var DefaultScheme = enr.V4

// FormatSecret encodes k as "scheme:hex(secret)", the on-disk key file format.
func FormatSecret(k *enr.SigningKey) string {
	return k.Scheme().Name() + ":" + hex.EncodeToString(k.Secret())
}

// PublicKeyString encodes the public key of k as "scheme:hex(pubkey)".
func PublicKeyString(k *enr.SigningKey) string {
	return k.Scheme().Name() + ":" + hex.EncodeToString(k.PublicKey())
}

// ParseSecret decodes a secret in FormatSecret form. A bare hex string (with
// optional 0x prefix) is read as a DefaultScheme secret.
func ParseSecret(s string) (*enr.SigningKey, error) {
	s = strings.TrimSpace(s)
	scheme := DefaultScheme
	if name, rest, ok := strings.Cut(s, ":"); ok {
		sc, found := enr.SchemeByName(name)
		if !found {
			return nil, fmt.Errorf("unknown identity scheme %q", name)
		}
		scheme, s = sc, rest
	}
	return ParseSecretHex(scheme, s)
}

// ParseSecretHex imports a hex-encoded secret for scheme.
func ParseSecretHex(scheme enr.IdentityScheme, secretHex string) (*enr.SigningKey, error) {
	secretHex = strings.TrimSpace(secretHex)
	secretHex = strings.TrimPrefix(secretHex, "0x")
	data, err := hex.DecodeString(secretHex)
	if err != nil {
		return nil, fmt.Errorf("decode secret: %w", err)
	}
	defer clear(data)
	return enr.ImportKey(scheme, data)
}
