package fingerprint

import (
	"regexp"
	"testing"
)

var hex64 = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestDigestKnownVectors(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}
	for _, tc := range cases {
		if got := Digest([]byte(tc.in)); got != tc.want {
			t.Errorf("Digest(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestDigestShapeAndDeterminism(t *testing.T) {
	inputs := []string{"", "a", "Blood test normal", "{\"k\":1}", "\x00\xff"}
	for _, in := range inputs {
		first := Digest([]byte(in))
		if !hex64.MatchString(first) {
			t.Errorf("Digest(%q) = %q, not 64 lowercase hex chars", in, first)
		}
		if second := Digest([]byte(in)); second != first {
			t.Errorf("Digest(%q) not stable: %s vs %s", in, first, second)
		}
	}
}

func TestDoubleDigestConvention(t *testing.T) {
	// The second pass must hash the hex text of the first digest, not its
	// raw bytes.
	for _, in := range []string{"", "abc", "emergency alert payload"} {
		want := Digest([]byte(Digest([]byte(in))))
		if got := DoubleDigest([]byte(in)); got != want {
			t.Errorf("DoubleDigest(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestBroadcastSaltSeparatesIdenticalPayloads(t *testing.T) {
	payload := map[string]string{"type": "PRESCRIPTION", "title": "Amoxicillin"}

	a, err := Broadcast(payload, "1000")
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	b, err := Broadcast(payload, "1001")
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}

	if a.TxID == b.TxID {
		t.Errorf("same tx id %s for different salts", a.TxID)
	}
	if !hex64.MatchString(a.TxID) {
		t.Errorf("tx id %q is not 64 lowercase hex chars", a.TxID)
	}
}

func TestBroadcastFeeRange(t *testing.T) {
	for i := 0; i < 50; i++ {
		r, err := Broadcast("payload", "salt")
		if err != nil {
			t.Fatalf("Broadcast: %v", err)
		}
		// floor(0.5 * size) for size in [200, 600)
		if r.Fee < 100 || r.Fee > 299 {
			t.Fatalf("fee %d out of range [100, 299]", r.Fee)
		}
	}
}

func TestBroadcastRejectsUnserializablePayload(t *testing.T) {
	if _, err := Broadcast(func() {}, "salt"); err == nil {
		t.Error("expected error for unserializable payload")
	}
}
