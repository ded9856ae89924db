package keys

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"xdao.co/enr/enr"
)

// DirEnv overrides the default key store directory.
const DirEnv = "ENR_KEYS_DIR"

// KeyStore is a filesystem-backed store of node signing keys.
//
// EXPERIMENTAL: the layout is <dir>/<name>/node.key for root keys and
// <dir>/<name>/roles/<role>.key for derived keys. Each file holds one secret
// in FormatSecret form and is created with mode 0600.
type KeyStore struct {
	Directory string
}

type KeyEntry struct {
	Name      string
	PublicKey string
	Roles     []string
}

// GetDefaultDirectory returns $ENR_KEYS_DIR, or ~/.enr/keys.
func GetDefaultDirectory() (string, error) {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".enr", "keys"), nil
}

func CreateKeyStore(directory string) (*KeyStore, error) {
	if directory == "" {
		var err error
		directory, err = GetDefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &KeyStore{Directory: directory}, nil
}

func (ks *KeyStore) nodeKeyPath(name string) string {
	return filepath.Join(ks.Directory, name, "node.key")
}

func (ks *KeyStore) roleKeyPath(name, role string) string {
	return filepath.Join(ks.Directory, name, "roles", role+".key")
}

func checkIdent(what, s string) error {
	if s == "" {
		return fmt.Errorf("%s cannot be empty", what)
	}
	for _, char := range s {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in %s", char, what)
	}
	return nil
}

func CheckKeyName(name string) error { return checkIdent("key name", name) }

func CheckRole(role string) error { return checkIdent("role", role) }

func (ks *KeyStore) saveKey(filePath string, k *enr.SigningKey, overwrite bool) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(filePath, flags, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := file.WriteString(FormatSecret(k) + "\n"); err != nil {
		return err
	}
	return file.Close()
}

func loadKeyFile(filePath string) (*enr.SigningKey, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	defer clear(data)
	k, err := ParseSecret(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return k, nil
}

// InitializeKey stores k as the node key called name. A nil k generates a
// fresh key of DefaultScheme.
func (ks *KeyStore) InitializeKey(name string, k *enr.SigningKey, overwrite bool) (pub string, filePath string, err error) {
	if err := CheckKeyName(name); err != nil {
		return "", "", err
	}
	if k == nil {
		if k, err = enr.GenerateKey(DefaultScheme); err != nil {
			return "", "", err
		}
		defer k.Zero()
	}
	filePath = ks.nodeKeyPath(name)
	if err := ks.saveKey(filePath, k, overwrite); err != nil {
		return "", "", err
	}
	return PublicKeyString(k), filePath, nil
}

// DeriveKeyFromRole derives and stores the role key of the node key from.
func (ks *KeyStore) DeriveKeyFromRole(from, role string, overwrite bool) (pub string, filePath string, err error) {
	if err := CheckKeyName(from); err != nil {
		return "", "", err
	}
	if err := CheckRole(role); err != nil {
		return "", "", err
	}
	root, err := loadKeyFile(ks.nodeKeyPath(from))
	if err != nil {
		return "", "", err
	}
	defer root.Zero()
	k, err := DeriveRoleKey(root, role)
	if err != nil {
		return "", "", err
	}
	defer k.Zero()
	filePath = ks.roleKeyPath(from, role)
	if err := ks.saveKey(filePath, k, overwrite); err != nil {
		return "", "", err
	}
	return PublicKeyString(k), filePath, nil
}

// ExportKey returns the public key string of a stored key. An empty role
// selects the node key.
func (ks *KeyStore) ExportKey(name, role string) (string, error) {
	k, err := ks.LoadKey("", name, role, "")
	if err != nil {
		return "", err
	}
	defer k.Zero()
	return PublicKeyString(k), nil
}

// LoadKey resolves a signing key from, in order of precedence: an inline
// secret, a key file, or a stored key name with optional role.
func (ks *KeyStore) LoadKey(secret, name, role, keyFile string) (*enr.SigningKey, error) {
	if secret != "" {
		return ParseSecret(secret)
	}
	if keyFile != "" {
		return loadKeyFile(keyFile)
	}
	if name != "" {
		if err := CheckKeyName(name); err != nil {
			return nil, err
		}
		if role == "" {
			return loadKeyFile(ks.nodeKeyPath(name))
		}
		if err := CheckRole(role); err != nil {
			return nil, err
		}
		return loadKeyFile(ks.roleKeyPath(name, role))
	}
	return nil, errors.New("no signer provided")
}

// ListKeys returns the stored node keys sorted by name, each with its
// derived roles.
func (ks *KeyStore) ListKeys() ([]KeyEntry, error) {
	entries, err := os.ReadDir(ks.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && CheckKeyName(entry.Name()) == nil {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var result []KeyEntry
	for _, name := range names {
		e := KeyEntry{Name: name}
		if k, err := loadKeyFile(ks.nodeKeyPath(name)); err == nil {
			e.PublicKey = PublicKeyString(k)
			k.Zero()
		}
		roleEntries, rerr := os.ReadDir(filepath.Join(ks.Directory, name, "roles"))
		if rerr == nil {
			for _, roleEntry := range roleEntries {
				if roleEntry.IsDir() {
					continue
				}
				if role, ok := strings.CutSuffix(roleEntry.Name(), ".key"); ok {
					e.Roles = append(e.Roles, role)
				}
			}
			sort.Strings(e.Roles)
		}
		result = append(result, e)
	}
	return result, nil
}
