package storage

import "testing"

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()

	got, err := s.Load("missing", "fallback")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "fallback" {
		t.Errorf("Load(missing) = %q, want fallback", got)
	}

	if err := s.Save("users", `[{"id":"u1"}]`); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = s.Load("users", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != `[{"id":"u1"}]` {
		t.Errorf("Load(users) = %q", got)
	}

	// Save replaces, last writer wins.
	if err := s.Save("users", "[]"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ = s.Load("users", "")
	if got != "[]" {
		t.Errorf("Load after overwrite = %q, want []", got)
	}
}

func TestBadgerStoreRoundTrip(t *testing.T) {
	s, err := OpenBadger(t.TempDir())
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	defer s.Close()

	got, err := s.Load("records", "default")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "default" {
		t.Errorf("Load(missing) = %q, want default", got)
	}

	if err := s.Save("records", "sealed-blob"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = s.Load("records", "default")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "sealed-blob" {
		t.Errorf("Load(records) = %q, want sealed-blob", got)
	}
}
