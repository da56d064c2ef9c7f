package chunking

import (
	"regexp"
	"strings"
)

// The scanned EU MDR PDF carries systematic OCR artifacts of the form
// capital letter + space + rest ("V erordnung", "K onf or mit ät").
// Known multi-fragment words are fixed verbatim, the rest by pattern.
var knownOCRFixes = [][2]string{
	{"V erordnung", "Verordnung"},
	{"K ommission", "Kommission"},
	{"P arlament", "Parlament"},
	{"P arlaments", "Parlaments"},
	{"P atienten", "Patienten"},
	{"P atient", "Patient"},
	{"K onf or mit ät", "Konformität"},
	{"K onf or mit äts", "Konformitäts"},
	{"K onf or mit", "Konformit"},
	{"T ransparenz", "Transparenz"},
	{"A ufbereitung", "Aufbereitung"},
	{"A ufbereiter", "Aufbereiter"},
	{"Ü bereinstimmung", "Übereinstimmung"},
	{"Ü ber wachung", "Überwachung"},
	{"Ü ber", "Über"},
	{"R ates", "Rates"},
	{"R ahmen", "Rahmen"},
	{"U nion", "Union"},
	{"U nionsebene", "Unionsebene"},
	{"K onsultationen", "Konsultationen"},
	{"K oordinier", "Koordinier"},
	{"A ußerdem", "Außerdem"},
	{"W irtschaftsakteur", "Wirtschaftsakteur"},
}

var (
	// RE2's \b is ASCII-only, so an explicit non-letter prefix stands in for
	// the word boundary; without it Ä/Ö/Ü never anchor a match.
	splitCapital   = regexp.MustCompile(`(^|[^\p{L}])([A-ZÄÖÜ])\s([a-zäöüß])`)
	splitFragment  = regexp.MustCompile(`([a-zäöüß])\s([a-zäöüß]{1,3})\s([a-zäöüß])`)
	multipleSpaces = regexp.MustCompile(`  +`)
)

// CleanOCRArtifacts repairs the EU MDR PDF's OCR damage.
func CleanOCRArtifacts(text string) string {
	for _, fix := range knownOCRFixes {
		text = strings.ReplaceAll(text, fix[0], fix[1])
	}

	// Single capital + space + lowercase, e.g. "V erfahren" -> "Verfahren".
	text = splitCapital.ReplaceAllString(text, "${1}${2}${3}")

	// Mid-word fragments like "Konf or mit" -> "Konformit". Fragments are
	// capped at 3 chars to avoid gluing real words; repeated passes resolve
	// nested artifacts.
	for i := 0; i < 3; i++ {
		text = splitFragment.ReplaceAllString(text, "$1$2$3")
	}

	return multipleSpaces.ReplaceAllString(text, " ")
}

var (
	mpdgServiceLine = regexp.MustCompile(`(?s)Ein Service des Bundesministerium der Justiz.*?www\.gesetze-im-internet\.de\s*`)
	mpdgPageLine    = regexp.MustCompile(`- Seite \d+ von \d+ -`)

	mepvHeaderLines = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^Medizinprodukteverordnung\s*$`),
		regexp.MustCompile(`(?m)^Heilmittel\s*$`),
		regexp.MustCompile(`(?m)^\d+\s*/\s*64\s*$`),
		regexp.MustCompile(`(?m)^812\.213\s*$`),
	}

	ukTrailingPageNum = regexp.MustCompile(`(?m)\d+\s*$`)
)

func stripMPDGHeaders(text string) string {
	text = mpdgServiceLine.ReplaceAllString(text, "")
	return mpdgPageLine.ReplaceAllString(text, "")
}

func stripMepVHeaders(text string) string {
	// Only standalone header lines, never text inside a sentence.
	for _, re := range mepvHeaderLines {
		text = re.ReplaceAllString(text, "")
	}
	return text
}

func stripUKHeaders(text string) string {
	return ukTrailingPageNum.ReplaceAllString(text, "")
}
