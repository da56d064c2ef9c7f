package chunking

import (
	"strings"
	"testing"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
)

func TestSplitOversizeAtNumberedParagraphs(t *testing.T) {
	c := New(Limits{MaxChunkSize: 200, MinChunkSize: 20, FallbackSize: 100, FallbackOverlap: 20})

	text := "Artikel 5 – Pflichten\n" +
		"(1) " + strings.Repeat("Absatz eins. ", 12) + "\n" +
		"(2) " + strings.Repeat("Absatz zwei. ", 12) + "\n" +
		"(3) " + strings.Repeat("Absatz drei. ", 12)
	ref := domain.StructuralRef{ArticleID: "Artikel 5", Kind: domain.ChunkArticle}

	chunks := c.splitOversize(text, "Artikel 5 – Pflichten", ref)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple parts, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk.Text) > 300 {
			t.Fatalf("part %d exceeds 1.5x max size: %d chars", i, len(chunk.Text))
		}
		if chunk.Ref.ArticleID != "Artikel 5" {
			t.Fatalf("part %d lost its structural reference", i)
		}
		if chunk.Ref.PartTotal != len(chunks) {
			t.Fatalf("part %d has total %d, want %d", i, chunk.Ref.PartTotal, len(chunks))
		}
		if i > 0 && !strings.HasPrefix(chunk.Text, "Artikel 5 – Pflichten") {
			t.Fatalf("part %d missing article header prefix: %q", i, chunk.Text[:40])
		}
	}
}

func TestSplitOversizeNeverCutsInsideParagraph(t *testing.T) {
	c := New(Limits{MaxChunkSize: 120, MinChunkSize: 10, FallbackSize: 80, FallbackOverlap: 10})

	text := "(1) Erster Absatz mit etwas längerem Inhalt für den Test.\n" +
		"(2) Zweiter Absatz mit etwas längerem Inhalt für den Test.\n" +
		"(3) Dritter Absatz mit etwas längerem Inhalt für den Test."
	chunks := c.splitOversize(text, "Artikel 9", domain.StructuralRef{ArticleID: "Artikel 9"})

	for i, chunk := range chunks {
		body := strings.TrimPrefix(chunk.Text, "Artikel 9\n")
		if !strings.HasPrefix(body, "(") {
			t.Fatalf("part %d does not start at a paragraph boundary: %q", i, body[:20])
		}
	}
}

func TestSplitOversizeSwissStyleParagraphs(t *testing.T) {
	c := New(Limits{MaxChunkSize: 150, MinChunkSize: 10, FallbackSize: 80, FallbackOverlap: 10})

	text := "Art. 3 Begriffe\n" +
		"1 Als Medizinprodukte gelten Instrumente und Apparate für medizinische Zwecke.\n" +
		"2 Als Zubehör gelten Gegenstände ohne eigene medizinische Zweckbestimmung.\n" +
		"3 Als Hersteller gilt, wer ein Produkt unter eigenem Namen in Verkehr bringt."
	chunks := c.splitOversize(text, "Art. 3 Begriffe", domain.StructuralRef{ArticleID: "Art. 3"})

	if len(chunks) < 2 {
		t.Fatalf("expected swiss numbered paragraphs to split, got %d chunks", len(chunks))
	}
}

func TestSplitOversizeWindowedFallback(t *testing.T) {
	c := New(Limits{MaxChunkSize: 100, MinChunkSize: 10, FallbackSize: 60, FallbackOverlap: 10})

	// No paragraph markers anywhere: one long run of words.
	text := strings.Repeat("wort ", 80)
	chunks := c.splitOversize(text, "Artikel 12", domain.StructuralRef{ArticleID: "Artikel 12"})

	if len(chunks) < 2 {
		t.Fatalf("expected windowed fallback to split, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if !strings.HasPrefix(chunk.Text, "Artikel 12\n") {
			t.Fatalf("windowed part %d missing header prefix", i)
		}
	}
}

func TestSplitOversizeMergesTinyTrailingPart(t *testing.T) {
	c := New(Limits{MaxChunkSize: 200, MinChunkSize: 60, FallbackSize: 100, FallbackOverlap: 20})

	text := "(1) " + strings.Repeat("Inhalt. ", 26) + "\n(2) Kurz."
	chunks := c.splitOversize(text, "Artikel 7", domain.StructuralRef{ArticleID: "Artikel 7"})

	last := chunks[len(chunks)-1]
	if !strings.Contains(last.Text, "Kurz.") {
		t.Fatalf("expected trailing fragment merged, last chunk: %q", last.Text)
	}
	for _, chunk := range chunks {
		body := strings.TrimPrefix(chunk.Text, "Artikel 7\n")
		if len(body) < 60 && len(chunks) > 1 {
			t.Fatalf("found fragment below min size: %q", body)
		}
	}
}

func TestWindowOverlap(t *testing.T) {
	c := New(DefaultLimits())
	text := strings.Repeat("a", 25)

	windows := c.window(text, 10, 4)
	if len(windows) != 4 {
		t.Fatalf("expected 4 windows, got %d", len(windows))
	}
	if windows[0] != strings.Repeat("a", 10) {
		t.Fatalf("unexpected first window %q", windows[0])
	}
	// step = size - overlap = 6, so the last window starts at 18.
	if windows[3] != strings.Repeat("a", 7) {
		t.Fatalf("unexpected last window %q", windows[3])
	}
}

func TestWindowEmptyText(t *testing.T) {
	c := New(DefaultLimits())
	if got := c.window("", 10, 2); got != nil {
		t.Fatalf("expected nil for empty text, got %v", got)
	}
}
