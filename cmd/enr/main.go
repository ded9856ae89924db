package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/netip"
	"os"
	"strings"

	"xdao.co/enr/compliance"
	"xdao.co/enr/enr"
	"xdao.co/enr/keys"
	"xdao.co/enr/recordconfig"
	"xdao.co/enr/rlp"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "build":
		return cmdBuild(args[1:], out, errOut)
	case "cid":
		return cmdCID(args[1:], out, errOut)
	case "decode":
		return cmdDecode(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "set":
		return cmdSet(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "enr: node record CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  enr key init --name <name> [--scheme v4|ed25519] [--secret <scheme:hex>] [--force]")
	fmt.Fprintln(w, "  enr key derive --from <name> --role <role> [--force]")
	fmt.Fprintln(w, "  enr key list")
	fmt.Fprintln(w, "  enr key export --name <name> [--role <role>]")
	fmt.Fprintln(w, "  enr build (--secret <scheme:hex> | --signer <name> [--signer-role <role>] | --key-file <path> | --config <file>) [--seq <n>] [--ip <addr> ...] [--tcp <port>] [--udp <port>] [--tcp6 <port>] [--udp6 <port>] [--entry key=hex ...]")
	fmt.Fprintln(w, "  enr set --record <enr> (signer flags) [--seq <n>] [--ip <addr> ...] [--tcp <port>] [--udp <port>] [--entry key=hex ...] [--delete key ...]")
	fmt.Fprintln(w, "  enr decode [--mode strict|permissive] [--json] <enr>")
	fmt.Fprintln(w, "  enr cid <enr>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - keys are stored under $ENR_KEYS_DIR or ~/.enr/keys/<name> (0600 files); override with --keys-dir")
	fmt.Fprintln(w, "  - build and set print the record text to stdout and the node id to stderr")
	fmt.Fprintln(w, "  - -v enables debug logging on stderr")
}

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// common holds flags shared by every subcommand that touches keys.
type common struct {
	keysDir string
	verbose bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.keysDir, "keys-dir", "", "Key store directory (default $ENR_KEYS_DIR or ~/.enr/keys)")
	fs.BoolVar(&c.verbose, "v", false, "Debug logging on stderr")
}

func (c *common) logger(errOut io.Writer) *slog.Logger {
	if !c.verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (c *common) keyStore() (*keys.KeyStore, error) {
	return keys.CreateKeyStore(c.keysDir)
}

type signerFlags struct {
	secret  string
	name    string
	role    string
	keyFile string
}

func (s *signerFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.secret, "secret", "", "Signing secret as scheme:hex (v4 assumed without prefix)")
	fs.StringVar(&s.name, "signer", "", "Use a stored key by name (from 'enr key init')")
	fs.StringVar(&s.role, "signer-role", "", "When using --signer, optionally use a derived role key")
	fs.StringVar(&s.keyFile, "key-file", "", "Path to a key file created by 'enr key init/derive'")
}

// check reports a usage problem with the signer flags, or "".
func (s *signerFlags) load(ks *keys.KeyStore) (*enr.SigningKey, error) {
	return ks.LoadKey(s.secret, s.name, s.role, s.keyFile)
}

func (s *signerFlags) check() string {
	switch {
	case s.secret == "" && s.name == "" && s.keyFile == "":
		return "missing signer: use --secret, --signer, or --key-file"
	case s.secret != "" && (s.name != "" || s.keyFile != ""):
		return "conflicting signer flags: --secret cannot be combined with --signer or --key-file"
	case s.name != "" && s.keyFile != "":
		return "conflicting signer flags: --signer cannot be combined with --key-file"
	case s.role != "" && s.name == "":
		return "--signer-role requires --signer"
	}
	return ""
}

// fieldFlags are the record fields settable from the command line.
type fieldFlags struct {
	seq     uint64
	ips     stringList
	tcp     uint
	udp     uint
	tcp6    uint
	udp6    uint
	entries stringList
	set     map[string]bool
}

func (f *fieldFlags) register(fs *flag.FlagSet) {
	fs.Uint64Var(&f.seq, "seq", 0, "Sequence number")
	fs.Var(&f.ips, "ip", "IPv4 or IPv6 address (repeatable, one per family)")
	fs.UintVar(&f.tcp, "tcp", 0, "IPv4 TCP port")
	fs.UintVar(&f.udp, "udp", 0, "IPv4 UDP port")
	fs.UintVar(&f.tcp6, "tcp6", 0, "IPv6 TCP port")
	fs.UintVar(&f.udp6, "udp6", 0, "IPv6 UDP port")
	fs.Var(&f.entries, "entry", "Custom entry as key=hex (repeatable)")
}

// visit records which flags were given explicitly; must run after Parse.
func (f *fieldFlags) visit(fs *flag.FlagSet) error {
	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	for _, name := range []string{"tcp", "udp", "tcp6", "udp6"} {
		if v := fs.Lookup(name).Value.(flag.Getter).Get().(uint); v > 0xffff {
			return fmt.Errorf("invalid --%s: %d is not a port number", name, v)
		}
	}
	return nil
}

func (f *fieldFlags) addrs() ([]netip.Addr, error) {
	var out []netip.Addr
	for _, s := range f.ips {
		a, err := netip.ParseAddr(s)
		if err != nil {
			return nil, fmt.Errorf("invalid --ip: %w", err)
		}
		out = append(out, a)
	}
	return out, nil
}

type portField struct {
	key  string
	port uint16
}

func (f *fieldFlags) ports() []portField {
	var out []portField
	for _, p := range []struct {
		flag, key string
		v         uint
	}{{"tcp", enr.KeyTCP, f.tcp}, {"udp", enr.KeyUDP, f.udp}, {"tcp6", enr.KeyTCP6, f.tcp6}, {"udp6", enr.KeyUDP6, f.udp6}} {
		if f.set[p.flag] {
			out = append(out, portField{p.key, uint16(p.v)})
		}
	}
	return out
}

func parseEntries(items []string) ([][2]string, error) {
	seen := make(map[string]struct{}, len(items))
	out := make([][2]string, 0, len(items))
	for _, it := range items {
		k, v, ok := strings.Cut(it, "=")
		if !ok {
			return nil, fmt.Errorf("expected key=hex, got %q", it)
		}
		k = strings.TrimSpace(k)
		if k == "" {
			return nil, errors.New("empty key")
		}
		if _, exists := seen[k]; exists {
			return nil, fmt.Errorf("duplicate entry key %q", k)
		}
		if _, err := hex.DecodeString(v); err != nil {
			return nil, fmt.Errorf("entry %q: %w", k, err)
		}
		seen[k] = struct{}{}
		out = append(out, [2]string{k, v})
	}
	return out, nil
}

func cmdBuild(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var c common
	var signer signerFlags
	var fields fieldFlags
	var configPath string
	c.register(fs)
	signer.register(fs)
	fields.register(fs)
	fs.StringVar(&configPath, "config", "", "JSON record description (see recordconfig)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := fields.visit(fs); err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	log := c.logger(errOut)

	var cfg recordconfig.Config
	if configPath != "" {
		var err error
		if cfg, err = recordconfig.LoadFile(configPath); err != nil {
			fmt.Fprintf(errOut, "config: %v\n", err)
			return 2
		}
		log.Debug("loaded config", "path", configPath, "entries", len(cfg.Entries))
	}
	load := signer.load
	if signer == (signerFlags{}) && (cfg.Signer != "" || cfg.KeyFile != "") {
		load = cfg.LoadSigner
		log.Debug("using config signer", "name", cfg.Signer, "role", cfg.SignerRole, "key_file", cfg.KeyFile)
	} else if msg := signer.check(); msg != "" {
		fmt.Fprintln(errOut, msg)
		return 2
	}
	entries, err := parseEntries(fields.entries)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --entry: %v\n", err)
		return 2
	}
	addrs, err := fields.addrs()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}

	k, code := loadSigner(&c, load, log, errOut)
	if k == nil {
		return code
	}
	defer k.Zero()

	b := enr.NewBuilder()
	if err := cfg.Apply(b); err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 2
	}
	if fields.set["seq"] {
		b.Seq(fields.seq)
	}
	for _, a := range addrs {
		b.IP(a)
	}
	for _, p := range fields.ports() {
		switch p.key {
		case enr.KeyTCP:
			b.TCP4(p.port)
		case enr.KeyUDP:
			b.UDP4(p.port)
		case enr.KeyTCP6:
			b.TCP6(p.port)
		case enr.KeyUDP6:
			b.UDP6(p.port)
		}
	}
	for _, e := range entries {
		v, _ := hex.DecodeString(e[1])
		b.Add(e[0], v)
	}

	r, err := b.Build(k)
	if err != nil {
		fmt.Fprintf(errOut, "build: %v\n", err)
		return 1
	}
	log.Debug("built record", "node_id", r.NodeID().String(), "seq", r.Seq(), "size", r.Size())
	fmt.Fprintf(errOut, "Node-ID: %s\n", r.NodeID())
	_, _ = fmt.Fprintln(out, r.Text())
	return 0
}

func cmdSet(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var c common
	var signer signerFlags
	var fields fieldFlags
	var recordText string
	var deletes stringList
	c.register(fs)
	signer.register(fs)
	fields.register(fs)
	fs.StringVar(&recordText, "record", "", "Record to update (enr:...)")
	fs.Var(&deletes, "delete", "Entry key to remove (repeatable)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := fields.visit(fs); err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	if recordText == "" {
		fmt.Fprintln(errOut, "missing --record")
		return 2
	}
	if msg := signer.check(); msg != "" {
		fmt.Fprintln(errOut, msg)
		return 2
	}
	entries, err := parseEntries(fields.entries)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --entry: %v\n", err)
		return 2
	}
	addrs, err := fields.addrs()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	log := c.logger(errOut)

	r, err := enr.FromText(recordText)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --record: %v\n", err)
		return 1
	}
	k, code := loadSigner(&c, signer.load, log, errOut)
	if k == nil {
		return code
	}
	defer k.Zero()

	var steps []func() error
	for _, a := range addrs {
		steps = append(steps, func() error { return r.SetIP(a, k) })
	}
	for _, p := range fields.ports() {
		steps = append(steps, func() error { return r.SetRawEntry(p.key, rlp.EncodeUint(uint64(p.port)), k) })
	}
	for _, e := range entries {
		v, _ := hex.DecodeString(e[1])
		steps = append(steps, func() error { return r.SetEntry(e[0], v, k) })
	}
	for _, key := range deletes {
		steps = append(steps, func() error { return r.Delete(key, k) })
	}
	// An explicit --seq is applied last so it names the final sequence number.
	if fields.set["seq"] {
		steps = append(steps, func() error { return r.SetSeq(fields.seq, k) })
	}
	if len(steps) == 0 {
		fmt.Fprintln(errOut, "nothing to change")
		return 2
	}

	from := r.Seq()
	for _, step := range steps {
		if err := step(); err != nil {
			fmt.Fprintf(errOut, "set: %v\n", err)
			return 1
		}
	}
	log.Debug("updated record", "node_id", r.NodeID().String(), "from_seq", from, "seq", r.Seq(), "size", r.Size())
	fmt.Fprintf(errOut, "Node-ID: %s\n", r.NodeID())
	_, _ = fmt.Fprintln(out, r.Text())
	return 0
}

// loadSigner resolves the signing key. On failure it returns nil and the
// exit code to use.
func loadSigner(c *common, load func(*keys.KeyStore) (*enr.SigningKey, error), log *slog.Logger, errOut io.Writer) (*enr.SigningKey, int) {
	ks, err := c.keyStore()
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return nil, 1
	}
	k, err := load(ks)
	if err != nil {
		fmt.Fprintf(errOut, "invalid signer: %v\n", err)
		return nil, 2
	}
	log.Debug("loaded signer", "scheme", k.Scheme().Name(), "public_key", keys.PublicKeyString(k))
	return k, 0
}

type decodedRecord struct {
	Text     string            `json:"text"`
	Seq      uint64            `json:"seq"`
	ID       string            `json:"id,omitempty"`
	Scheme   string            `json:"scheme,omitempty"`
	NodeID   string            `json:"node_id,omitempty"`
	Verified bool              `json:"verified"`
	Size     int               `json:"size"`
	IP4      string            `json:"ip4,omitempty"`
	IP6      string            `json:"ip6,omitempty"`
	TCP      *uint16           `json:"tcp,omitempty"`
	UDP      *uint16           `json:"udp,omitempty"`
	TCP6     *uint16           `json:"tcp6,omitempty"`
	UDP6     *uint16           `json:"udp6,omitempty"`
	Entries  map[string]string `json:"entries"`
}

func describe(r *enr.Record) decodedRecord {
	d := decodedRecord{
		Text:     r.Text(),
		Seq:      r.Seq(),
		Verified: r.Verified(),
		Size:     r.Size(),
		Entries:  make(map[string]string, r.Len()),
	}
	d.ID, _ = r.IdentityScheme()
	if r.Verified() {
		d.NodeID = r.NodeID().String()
		d.Scheme = r.Scheme().Name()
	}
	if ip, ok := r.IP4(); ok {
		d.IP4 = ip.String()
	}
	if ip, ok := r.IP6(); ok {
		d.IP6 = ip.String()
	}
	port := func(p uint16, ok bool) *uint16 {
		if !ok {
			return nil
		}
		return &p
	}
	d.TCP = port(r.TCP4())
	d.UDP = port(r.UDP4())
	d.TCP6 = port(r.TCP6())
	d.UDP6 = port(r.UDP6())
	for k, v := range r.All() {
		d.Entries[k] = hex.EncodeToString(v)
	}
	return d
}

func printRecord(w io.Writer, r *enr.Record) {
	d := describe(r)
	fmt.Fprintf(w, "%s\n", d.Text)
	fmt.Fprintf(w, "seq: %d\n", d.Seq)
	fmt.Fprintf(w, "id: %s\n", d.ID)
	if d.Scheme != "" {
		fmt.Fprintf(w, "scheme: %s\n", d.Scheme)
	}
	if d.NodeID != "" {
		fmt.Fprintf(w, "node-id: %s\n", d.NodeID)
	}
	fmt.Fprintf(w, "verified: %t\n", d.Verified)
	fmt.Fprintf(w, "size: %d\n", d.Size)
	if d.IP4 != "" {
		fmt.Fprintf(w, "ip4: %s\n", d.IP4)
	}
	if d.IP6 != "" {
		fmt.Fprintf(w, "ip6: %s\n", d.IP6)
	}
	for _, p := range []struct {
		name string
		v    *uint16
	}{{"tcp", d.TCP}, {"udp", d.UDP}, {"tcp6", d.TCP6}, {"udp6", d.UDP6}} {
		if p.v != nil {
			fmt.Fprintf(w, "%s: %d\n", p.name, *p.v)
		}
	}
	fmt.Fprintln(w, "entries:")
	for _, k := range r.Keys() {
		fmt.Fprintf(w, "  %s: %s\n", k, d.Entries[k])
	}
}

func cmdDecode(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var modeStr string
	var asJSON bool
	fs.StringVar(&modeStr, "mode", "strict", "Unknown identity schemes: strict (error) or permissive")
	fs.BoolVar(&asJSON, "json", false, "Print JSON")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: enr decode [--mode strict|permissive] [--json] <enr>")
		return 2
	}
	mode, ok := compliance.Parse(modeStr)
	if !ok {
		fmt.Fprintln(errOut, "invalid --mode (expected permissive or strict)")
		return 2
	}

	r, err := enr.DecodeText(fs.Arg(0), mode)
	if r == nil {
		fmt.Fprintf(errOut, "decode: %v\n", err)
		return 1
	}
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if jerr := enc.Encode(describe(r)); jerr != nil {
			fmt.Fprintf(errOut, "json: %v\n", jerr)
			return 1
		}
	} else {
		printRecord(out, r)
	}
	if err != nil {
		fmt.Fprintf(errOut, "verify: %v\n", err)
		return 1
	}
	return 0
}

func cmdCID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("cid", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: enr cid <enr>")
		return 2
	}
	r, err := enr.FromText(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "invalid record: %v\n", err)
		return 1
	}
	cid, err := r.CID()
	if err != nil {
		fmt.Fprintf(errOut, "cid: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, cid)
	return 0
}
