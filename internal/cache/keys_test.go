package cache

import (
	"strings"
	"testing"
)

type fingerprintInput struct {
	Operation string
	Months    int
	Dates     []string
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint(fingerprintInput{Operation: "projection", Months: 12, Dates: []string{"2024-03-01"}})
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}
	b, _ := Fingerprint(fingerprintInput{Operation: "projection", Months: 12, Dates: []string{"2024-03-01"}})
	if a != b {
		t.Error("Fingerprint() differs for equal inputs")
	}

	c, _ := Fingerprint(fingerprintInput{Operation: "projection", Months: 6, Dates: []string{"2024-03-01"}})
	if a == c {
		t.Error("Fingerprint() equal for different months")
	}
}

func TestKey(t *testing.T) {
	key := Key(KindProjection, 3, 9, "gen", 255)
	if !strings.HasPrefix(key, "ledger:v1:projection:3:9:gen:") {
		t.Errorf("Key() = %q", key)
	}
	if !strings.HasSuffix(key, "00000000000000ff") {
		t.Errorf("Key() = %q, want zero padded hex fingerprint", key)
	}
	if GenerationKey(3) != "ledger:v1:gen:3" {
		t.Errorf("GenerationKey() = %q", GenerationKey(3))
	}
}
