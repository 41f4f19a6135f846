package prefs

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetGetDelete(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing key: got %v, want ErrNotFound", err)
	}

	if err := s.Set(CurrentUserKey, "2"); err != nil {
		t.Fatal(err)
	}
	v, err := s.Get(CurrentUserKey)
	if err != nil || v != "2" {
		t.Fatalf("Get = %q, %v", v, err)
	}

	// Overwrite replaces.
	if err := s.Set(CurrentUserKey, "3"); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Get(CurrentUserKey); v != "3" {
		t.Fatalf("after overwrite: %q", v)
	}

	if err := s.Delete(CurrentUserKey); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(CurrentUserKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("after delete: %v", err)
	}
	// Deleting again is fine.
	if err := s.Delete(CurrentUserKey); err != nil {
		t.Fatal(err)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Set("k", "v"); err != nil {
		t.Fatal(err)
	}
}
