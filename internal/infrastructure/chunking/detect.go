package chunking

import (
	"regexp"
	"strings"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
)

const (
	ParserEUMDR    = "eu_mdr"
	ParserDEMPDG   = "de_mpdg"
	ParserCHMepV   = "ch_mepv"
	ParserUKMDR    = "uk_mdr"
	ParserGuidance = "guidance"
)

var englishMarkers = regexp.MustCompile(`\b(the|and|of|for|with)\b`)

// Detect identifies the document type from text and filename. The more
// specific checks (MPDG, MepV) must run before the EU MDR check because
// both documents reference regulation 2017/745 themselves.
func (c *Chunker) Detect(text, filename string) domain.DocumentProfile {
	head := text
	if len(head) > 5000 {
		head = head[:5000]
	}
	headLower := strings.ToLower(head)
	filenameLower := strings.ToLower(filename)

	if strings.Contains(headLower, "medizinprodukterecht-durchführungsgesetz") ||
		strings.Contains(headLower, "mpdg") ||
		strings.Contains(headLower, "durchführungsgesetz") ||
		strings.Contains(headLower, "bundesministerium der justiz") {
		return domain.DocumentProfile{
			DocumentType: "law",
			Jurisdiction: "DE",
			Language:     "de",
			Title:        "MPDG (Medizinprodukterecht-Durchführungsgesetz)",
			Parser:       ParserDEMPDG,
		}
	}

	if strings.Contains(head, "812.213") ||
		strings.Contains(headLower, "schweizerische bundesrat") ||
		(strings.Contains(headLower, "medizinprodukteverordnung") && strings.Contains(headLower, "mepv")) ||
		strings.Contains(filenameLower, "fedlex") {
		return domain.DocumentProfile{
			DocumentType: "regulation",
			Jurisdiction: "CH",
			Language:     "de",
			Title:        "MepV (Medizinprodukteverordnung Schweiz)",
			Parser:       ParserCHMepV,
		}
	}

	if strings.Contains(headLower, "medical devices regulations 2002") {
		return domain.DocumentProfile{
			DocumentType: "regulation",
			Jurisdiction: "UK",
			Language:     "en",
			Title:        "UK Medical Devices Regulations 2002",
			Parser:       ParserUKMDR,
		}
	}

	if strings.Contains(head, "2017/745") &&
		(strings.Contains(headLower, "verordnung") || strings.Contains(headLower, "ver ordnung")) {
		return domain.DocumentProfile{
			DocumentType: "regulation",
			Jurisdiction: "EU",
			Language:     "de",
			Title:        "EU MDR 2017/745",
			Parser:       ParserEUMDR,
		}
	}

	if strings.Contains(headLower, "guidance") ||
		strings.Contains(headLower, "mdcg") ||
		strings.Contains(headLower, "conformity") {
		jurisdiction := "EU"
		if strings.Contains(headLower, "united kingdom") ||
			strings.Contains(headLower, " gb ") ||
			strings.Contains(headLower, "uk mdr") {
			jurisdiction = "UK"
		}
		return domain.DocumentProfile{
			DocumentType: "guidance",
			Jurisdiction: jurisdiction,
			Language:     detectLanguage(text),
			Title:        strings.TrimSuffix(filename, ".pdf"),
			Parser:       ParserGuidance,
		}
	}

	return domain.DocumentProfile{
		DocumentType: "other",
		Jurisdiction: "unknown",
		Language:     detectLanguage(text),
		Title:        strings.TrimSuffix(filename, ".pdf"),
		Parser:       ParserGuidance,
	}
}

func detectLanguage(text string) string {
	head := text
	if len(head) > 1000 {
		head = head[:1000]
	}
	if englishMarkers.MatchString(head) {
		return "en"
	}
	return "de"
}
