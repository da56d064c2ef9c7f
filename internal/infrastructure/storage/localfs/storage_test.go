package localfs

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	key := "abc_eu_mdr.pdf"
	if err := storage.Save(context.Background(), key, bytes.NewBufferString("%PDF content")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reader, err := storage.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != "%PDF content" {
		t.Fatalf("unexpected content %q", raw)
	}
}

func TestSaveFlattensTraversalKeys(t *testing.T) {
	base := t.TempDir()
	storage, err := New(filepath.Join(base, "store"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := storage.Save(context.Background(), "../../escape.txt", bytes.NewBufferString("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// The file must be readable under its flattened name inside the store.
	reader, err := storage.Open(context.Background(), "escape.txt")
	if err != nil {
		t.Fatalf("expected flattened file inside store: %v", err)
	}
	reader.Close()
}

func TestOpenMissingKey(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := storage.Open(context.Background(), "missing.pdf"); err == nil {
		t.Fatalf("expected error for missing key")
	}
}
