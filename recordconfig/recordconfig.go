// Package recordconfig reads a JSON description of a node record to build.
package recordconfig

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/netip"
	"os"

	"xdao.co/enr/enr"
	"xdao.co/enr/keys"
	"xdao.co/enr/rlp"
)

// Config describes a record and the key that signs it.
//
// Example:
//
//	{
//	  "signer": "node-a",
//	  "signer_role": "discovery",
//	  "seq": 7,
//	  "ip4": "203.0.113.9",
//	  "udp": 30303,
//	  "entries": [
//	    {"key": "eth", "hex": "c7c68489a17c1e80"},
//	    {"key": "snap", "hex": "c0", "raw": true}
//	  ]
//	}
//
// Entry values are hex. With "raw" the value is an already encoded item,
// otherwise it is stored as a byte string.
type Config struct {
	Signer     string `json:"signer,omitempty"`
	SignerRole string `json:"signer_role,omitempty"`
	KeyFile    string `json:"key_file,omitempty"`

	Seq  *uint64 `json:"seq,omitempty"`
	IP4  string  `json:"ip4,omitempty"`
	IP6  string  `json:"ip6,omitempty"`
	TCP  *uint16 `json:"tcp,omitempty"`
	TCP6 *uint16 `json:"tcp6,omitempty"`
	UDP  *uint16 `json:"udp,omitempty"`
	UDP6 *uint16 `json:"udp6,omitempty"`

	Entries []Entry `json:"entries,omitempty"`
}

type Entry struct {
	Key string `json:"key"`
	Hex string `json:"hex"`
	Raw bool   `json:"raw,omitempty"`
}

func LoadFile(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, errors.New("recordconfig: empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("recordconfig: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.SignerRole != "" && c.Signer == "" {
		return errors.New("recordconfig: signer_role requires signer")
	}
	if c.Signer != "" {
		if err := keys.CheckKeyName(c.Signer); err != nil {
			return fmt.Errorf("recordconfig: signer: %w", err)
		}
	}
	if c.SignerRole != "" {
		if err := keys.CheckRole(c.SignerRole); err != nil {
			return fmt.Errorf("recordconfig: signer_role: %w", err)
		}
	}
	if _, err := c.addr(c.IP4, true); err != nil {
		return err
	}
	if _, err := c.addr(c.IP6, false); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(c.Entries))
	for _, e := range c.Entries {
		if e.Key == "" {
			return errors.New("recordconfig: entry key is required")
		}
		if _, ok := seen[e.Key]; ok {
			return fmt.Errorf("recordconfig: duplicate entry %q", e.Key)
		}
		seen[e.Key] = struct{}{}
		if _, err := e.value(); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) addr(s string, v4 bool) (netip.Addr, error) {
	if s == "" {
		return netip.Addr{}, nil
	}
	a, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("recordconfig: %w", err)
	}
	if a.Unmap().Is4() != v4 {
		return netip.Addr{}, fmt.Errorf("recordconfig: %s has the wrong address family", s)
	}
	return a, nil
}

func (e Entry) value() (rlp.RawValue, error) {
	b, err := hex.DecodeString(e.Hex)
	if err != nil {
		return nil, fmt.Errorf("recordconfig: entry %q: %w", e.Key, err)
	}
	if !e.Raw {
		return rlp.EncodeString(b), nil
	}
	if _, err := rlp.SplitOne(b); err != nil {
		return nil, fmt.Errorf("recordconfig: entry %q: %w", e.Key, err)
	}
	return b, nil
}

// Apply copies the described fields onto b. Validation errors from the
// record itself surface from b.Build.
func (c Config) Apply(b *enr.Builder) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Seq != nil {
		b.Seq(*c.Seq)
	}
	if a, _ := c.addr(c.IP4, true); a.IsValid() {
		b.IP4(a)
	}
	if a, _ := c.addr(c.IP6, false); a.IsValid() {
		b.IP6(a)
	}
	for _, p := range []struct {
		port *uint16
		set  func(uint16) *enr.Builder
	}{{c.TCP, b.TCP4}, {c.TCP6, b.TCP6}, {c.UDP, b.UDP4}, {c.UDP6, b.UDP6}} {
		if p.port != nil {
			p.set(*p.port)
		}
	}
	for _, e := range c.Entries {
		v, _ := e.value()
		b.AddRaw(e.Key, v)
	}
	return nil
}

// LoadSigner resolves the configured signer from ks.
func (c Config) LoadSigner(ks *keys.KeyStore) (*enr.SigningKey, error) {
	return ks.LoadKey("", c.Signer, c.SignerRole, c.KeyFile)
}
