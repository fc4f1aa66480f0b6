package ingestion

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCache_HitAndFingerprintMiss(t *testing.T) {
	c := NewCache[int]()
	c.Put("book.xlsx", "fp-1", 42)

	v, ok := c.Get("book.xlsx", "fp-1")
	if !ok || v != 42 {
		t.Errorf("expected hit with 42, got (%d, %v)", v, ok)
	}

	// Same path, changed content -> miss
	if _, ok := c.Get("book.xlsx", "fp-2"); ok {
		t.Error("expected miss on changed fingerprint")
	}

	if _, ok := c.Get("other.xlsx", "fp-1"); ok {
		t.Error("expected miss on unknown path")
	}
}

func TestCache_Invalidate(t *testing.T) {
	c := NewCache[string]()
	c.Put("book.xlsx", "fp-1", "parsed")
	c.Invalidate("book.xlsx")

	if _, ok := c.Get("book.xlsx", "fp-1"); ok {
		t.Error("expected miss after Invalidate")
	}
}

func TestFingerprintFile_ChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")

	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}
	fp1, err := FingerprintFile(path)
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}

	if err := os.WriteFile(path, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}
	fp2, err := FingerprintFile(path)
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}

	if fp1 == fp2 {
		t.Error("expected fingerprint to change with content")
	}
	if len(fp1) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(fp1))
	}
}

func TestFingerprintFile_Missing(t *testing.T) {
	if _, err := FingerprintFile(filepath.Join(t.TempDir(), "absent.xlsx")); err == nil {
		t.Error("expected error for missing file")
	}
}
