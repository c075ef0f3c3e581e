package securestore

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"health-portal-server/internal/storage"
)

func newTestStore(t *testing.T) *SecureStore {
	t.Helper()
	return New(storage.NewMemoryStore())
}

func TestSealUnsealRoundTrip(t *testing.T) {
	s := newTestStore(t)

	values := []any{
		map[string]any{"foo": "bar"},
		[]any{"a", float64(1), true},
		map[string]any{"nested": map[string]any{"n": float64(2)}},
	}
	for _, v := range values {
		sealed, err := s.Seal(v)
		if err != nil {
			t.Fatalf("Seal(%v): %v", v, err)
		}
		got := Unseal[any](s, sealed, nil)
		if diff := cmp.Diff(v, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestSealOutputLooksEncrypted(t *testing.T) {
	s := newTestStore(t)

	sealed, err := s.Seal(map[string]string{"secret": "diagnosis"})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if strings.HasPrefix(sealed, "{") || strings.HasPrefix(sealed, "[") {
		t.Errorf("sealed output %q looks like plain JSON", sealed)
	}
	if strings.Contains(sealed, "diagnosis") {
		t.Errorf("sealed output leaks plaintext: %q", sealed)
	}
}

func TestSealDrawsFreshNonce(t *testing.T) {
	s := newTestStore(t)

	v := map[string]string{"foo": "bar"}
	a, err := s.Seal(v)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	b, err := s.Seal(v)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if a == b {
		t.Errorf("two seals of the same value produced identical ciphertext")
	}
}

func TestUnsealTamperedValueReturnsFallback(t *testing.T) {
	s := newTestStore(t)

	sealed, err := s.Seal(map[string]string{"foo": "bar"})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	fallback := map[string]string{}

	// Corrupting one character of the opaque string degrades to the fallback.
	corrupted := []byte(sealed)
	corrupted[len(corrupted)/2] ^= 0x40
	if got := Unseal[map[string]string](s, string(corrupted), fallback); len(got) != 0 {
		t.Fatalf("corrupted string: got %v, want fallback", got)
	}

	// Flipping any byte of the underlying nonce||ciphertext must trip the
	// authentication tag, never yield a silently-wrong value.
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		t.Fatalf("decode sealed: %v", err)
	}
	for i := 0; i < len(raw); i++ {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[i] ^= 0x01
		got := Unseal[map[string]string](s, base64.StdEncoding.EncodeToString(tampered), fallback)
		if len(got) != 0 {
			t.Fatalf("tampered byte %d: got %v, want fallback", i, got)
		}
	}
}

func TestUnsealLegacyPlainJSON(t *testing.T) {
	s := newTestStore(t)

	got := Unseal[map[string]int](s, `{"a":1}`, map[string]int{})
	if diff := cmp.Diff(map[string]int{"a": 1}, got); diff != "" {
		t.Errorf("legacy object mismatch (-want +got):\n%s", diff)
	}

	gotList := Unseal[[]string](s, `["x","y"]`, nil)
	if diff := cmp.Diff([]string{"x", "y"}, gotList); diff != "" {
		t.Errorf("legacy array mismatch (-want +got):\n%s", diff)
	}
}

func TestUnsealGarbageReturnsFallback(t *testing.T) {
	s := newTestStore(t)

	for _, in := range []string{"", "not-base64!!!", "AAAA", `{"broken`} {
		got := Unseal[[]string](s, in, []string{"default"})
		if diff := cmp.Diff([]string{"default"}, got); diff != "" {
			t.Errorf("Unseal(%q) mismatch (-want +got):\n%s", in, diff)
		}
	}
}

func TestUnsealForeignKeyCiphertextReturnsFallback(t *testing.T) {
	a := newTestStore(t)
	b := newTestStore(t)

	sealed, err := a.Seal(map[string]string{"foo": "bar"})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	got := Unseal[map[string]string](b, sealed, map[string]string{"fell": "back"})
	if diff := cmp.Diff(map[string]string{"fell": "back"}, got); diff != "" {
		t.Errorf("foreign key mismatch (-want +got):\n%s", diff)
	}
}

func TestKeyPersistsAcrossInstances(t *testing.T) {
	backing := storage.NewMemoryStore()

	first := New(backing)
	sealed, err := first.Seal(map[string]string{"foo": "bar"})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	// A new SecureStore over the same medium must re-import the same key.
	second := New(backing)
	got := Unseal[map[string]string](second, sealed, nil)
	if diff := cmp.Diff(map[string]string{"foo": "bar"}, got); diff != "" {
		t.Errorf("reopen mismatch (-want +got):\n%s", diff)
	}
}
