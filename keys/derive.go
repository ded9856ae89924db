package keys

import (
	"crypto/sha256"
	"errors"

	"xdao.co/enr/enr"
)

const kdfDomain = "xdao-enr-keystore-v1"

// DeriveRoleKey deterministically derives a role-specific key of the same
// scheme from a root key.
//
// The secret is sha256(root || 0 || domain || 0 || scheme || 0 || "role:" role || ctr),
// with ctr bumped in the rare case the digest is not a valid secret.
func DeriveRoleKey(root *enr.SigningKey, role string) (*enr.SigningKey, error) {
	if root == nil {
		return nil, errors.New("nil root key")
	}
	if err := CheckRole(role); err != nil {
		return nil, err
	}
	secret := root.Secret()
	if secret == nil {
		return nil, errors.New("root key has been zeroed")
	}
	defer clear(secret)

	scheme := root.Scheme()
	for ctr := 0; ctr < 256; ctr++ {
		h := sha256.New()
		_, _ = h.Write(secret)
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(kdfDomain))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(scheme.Name()))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte("role:"))
		_, _ = h.Write([]byte(role))
		if ctr > 0 {
			_, _ = h.Write([]byte{byte(ctr)})
		}
		sum := h.Sum(nil)
		k, err := enr.ImportKey(scheme, sum)
		clear(sum)
		if err == nil {
			return k, nil
		}
	}
	return nil, errors.New("kdf produced no valid secret")
}
