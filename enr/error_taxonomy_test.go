package enr

import (
	"errors"
	"testing"

	"xdao.co/enr/rlp"
)

func TestDecode_ErrorTaxonomy_OutOfOrderRuleID(t *testing.T) {
	raw := encodeRecord(make([]byte, 64), 1, []pair{strPair("udp", "\x01"), strPair("id", "v4")})
	_, err := FromBytes(raw)
	if err == nil {
		t.Fatalf("expected error")
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected structured *enr.Error, got %T", err)
	}
	if e.Kind != KindMalformed {
		t.Fatalf("expected KindMalformed, got %s", e.Kind)
	}
	if e.RuleID != "ENR-DEC-009" {
		t.Fatalf("expected RuleID ENR-DEC-009, got %s", e.RuleID)
	}
}

func TestDecode_ErrorTaxonomy_WrapsCodecError(t *testing.T) {
	_, err := FromBytes([]byte{0xc2, 0x81, 0x01})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, rlp.ErrNonMinimal) {
		t.Fatalf("expected wrapped rlp.ErrNonMinimal, got %v", err)
	}
	if RuleID(err) != "ENR-DEC-004" {
		t.Fatalf("expected RuleID ENR-DEC-004, got %s", RuleID(err))
	}
}

func TestVerify_ErrorTaxonomy_SignatureRuleID(t *testing.T) {
	r := localRecord(t, secpKey(t, 0x01))
	sig := r.Signature()
	sig[10] ^= 0xff
	_, err := FromBytes(encodeRecord(sig, r.seq, r.pairs))
	if !IsKind(err, KindSignature) {
		t.Fatalf("expected KindSignature, got %v", err)
	}
}

func TestError_Message(t *testing.T) {
	cause := errors.New("boom")
	err := wrapError(KindMalformed, "ENR-X-1", "outer", cause)
	if err.Error() != "outer: boom" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to unwrap")
	}
	if IsKind(cause, KindMalformed) || RuleID(cause) != "" {
		t.Fatalf("plain errors carry no kind")
	}
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("unexpected nil message")
	}
}
