package pdf

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
)

type storageFake struct {
	content string
	err     error
}

func (f *storageFake) Save(context.Context, string, io.Reader) error {
	return errors.New("not implemented")
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

func TestExtractRejectsMalformedPDF(t *testing.T) {
	e := NewExtractor(&storageFake{content: "definitely not a pdf"})

	_, err := e.Extract(context.Background(), &domain.Document{StoragePath: "key", Filename: "broken.pdf"})
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "broken.pdf") {
		t.Fatalf("error should name the file, got %v", err)
	}
}

func TestExtractStorageError(t *testing.T) {
	e := NewExtractor(&storageFake{err: errors.New("missing blob")})

	if _, err := e.Extract(context.Background(), &domain.Document{StoragePath: "key"}); err == nil {
		t.Fatalf("expected error")
	}
}
