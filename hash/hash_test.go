package hash

import (
	"encoding/hex"
	"testing"
)

func TestParseWithPrefixMalformed(t *testing.T) {
	h, err := Parse("sha256:not-valid-hex-or-base64!!")
	if err == nil {
		t.Fatalf("expected error for malformed digest, got %v", h)
	}
}

func TestParseWithPrefixValid(t *testing.T) {
	h, err := Parse("sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if h.Algorithm() != SHA256 {
		t.Errorf("Algorithm() = %q, want sha256", h.Algorithm())
	}
}

func TestParseBareHexInfersAlgorithm(t *testing.T) {
	// empty-string sha256
	h, err := Parse("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if h.Algorithm() != SHA256 {
		t.Errorf("Algorithm() = %q, want sha256", h.Algorithm())
	}
}

func TestOfRoundTrips(t *testing.T) {
	h, err := Of(SHA256, []byte("hello"))
	if err != nil {
		t.Fatalf("Of: %v", err)
	}
	parsed, err := Parse(h.String())
	if err != nil {
		t.Fatalf("Parse(%q): %v", h.String(), err)
	}
	if !h.Equal(parsed) {
		t.Errorf("round trip mismatch: %v vs %v", h, parsed)
	}
}

func TestEqualIgnoresRepr(t *testing.T) {
	a, _ := Of(SHA256, []byte("x"))
	b, err := Parse(hex.EncodeToString(a.Checksum()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !a.Equal(b) {
		t.Errorf("expected equal hashes regardless of string form")
	}
}
