package chunking

import (
	"strings"
	"testing"
)

func TestCleanOCRArtifactsKnownFixes(t *testing.T) {
	in := "Diese V erordnung des Europäischen P arlaments und des R ates"
	out := CleanOCRArtifacts(in)
	for _, want := range []string{"Verordnung", "Parlaments", "Rates"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in cleaned text, got %q", want, out)
		}
	}
}

func TestCleanOCRArtifactsGenericCapitalSplit(t *testing.T) {
	out := CleanOCRArtifacts("Das V erfahren ist einfach")
	if !strings.Contains(out, "Verfahren") {
		t.Fatalf("expected generic capital repair, got %q", out)
	}
}

func TestCleanOCRArtifactsUmlautCapitalSplit(t *testing.T) {
	out := CleanOCRArtifacts("die Ä nderung der Ö ffnung")
	if out != "die Änderung der Öffnung" {
		t.Fatalf("expected umlaut capital repair, got %q", out)
	}

	// Same repair when the damaged word opens the text.
	out = CleanOCRArtifacts("Ä nderung der Kennzeichnung")
	if !strings.Contains(out, "Änderung") {
		t.Fatalf("expected leading umlaut capital repair, got %q", out)
	}
}

func TestCleanOCRArtifactsMidWordFragments(t *testing.T) {
	out := CleanOCRArtifacts("ein sch wer wiegend es Vorkommnis")
	if !strings.Contains(out, "schwerwiegend") {
		t.Fatalf("expected fragment repair, got %q", out)
	}
}

func TestCleanOCRArtifactsCollapsesSpaces(t *testing.T) {
	out := CleanOCRArtifacts("zu   viele    Leerzeichen")
	if strings.Contains(out, "  ") {
		t.Fatalf("expected single spaces, got %q", out)
	}
}

func TestStripMPDGHeaders(t *testing.T) {
	in := "Ein Service des Bundesministerium der Justiz sowie des Bundesamts " +
		"für Justiz www.gesetze-im-internet.de\n§ 1 Zweck\nText - Seite 3 von 64 - weiter"
	out := stripMPDGHeaders(in)
	if strings.Contains(out, "Bundesministerium der Justiz") {
		t.Fatalf("expected service header removed, got %q", out)
	}
	if strings.Contains(out, "Seite 3 von 64") {
		t.Fatalf("expected page footer removed, got %q", out)
	}
	if !strings.Contains(out, "§ 1 Zweck") {
		t.Fatalf("expected body text preserved, got %q", out)
	}
}

func TestStripMepVHeadersOnlyStandaloneLines(t *testing.T) {
	in := "Medizinprodukteverordnung\nArt. 1 Die Medizinprodukteverordnung regelt den Markt.\n812.213\n"
	out := stripMepVHeaders(in)
	if !strings.Contains(out, "Die Medizinprodukteverordnung regelt") {
		t.Fatalf("expected inline mention preserved, got %q", out)
	}
	if strings.Contains(out, "812.213") {
		t.Fatalf("expected systematic number line removed, got %q", out)
	}
}

func TestStripUKHeadersRemovesTrailingPageNumbers(t *testing.T) {
	out := stripUKHeaders("These Regulations may be cited as 42\nand come into force")
	if strings.Contains(out, "42") {
		t.Fatalf("expected trailing page number removed, got %q", out)
	}
}
