package compliance

import "testing"

func TestParse(t *testing.T) {
	for in, want := range map[string]ComplianceMode{"": Strict, "strict": Strict, "permissive": Permissive} {
		got, ok := Parse(in)
		if !ok || got != want {
			t.Fatalf("Parse(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := Parse("lenient"); ok {
		t.Fatalf("expected unknown mode to be rejected")
	}
	if Strict.String() != "strict" || Permissive.String() != "permissive" || ComplianceMode(9).String() != "unknown" {
		t.Fatalf("unexpected String values")
	}
}
