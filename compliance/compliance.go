package compliance

// ComplianceMode selects how decoding treats records that cannot be
// authenticated because their identity scheme is unknown.
//
// Strict mode reports such records as an error (the record is still returned
// for inspection). Permissive mode returns them without error; callers must
// check the record's Verified flag before trusting it.
type ComplianceMode int

const (
	Strict ComplianceMode = iota
	Permissive
)

func (m ComplianceMode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Permissive:
		return "permissive"
	default:
		return "unknown"
	}
}

// Parse maps "strict" or "permissive" to a mode.
func Parse(s string) (ComplianceMode, bool) {
	switch s {
	case "strict", "":
		return Strict, true
	case "permissive":
		return Permissive, true
	default:
		return Strict, false
	}
}
