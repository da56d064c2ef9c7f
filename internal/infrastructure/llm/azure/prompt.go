package azure

import (
	"fmt"
	"strings"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
)

const systemPrompt = `Du bist ein Regulatory Intelligence Experte für Medizinprodukte.

Regeln:
1. Trenne Jurisdiktionen strikt: EU (MDR), Deutschland (MPDG), Schweiz (MepV), UK (UK MDR 2002).
2. Nutze Tabellen für Vergleiche zwischen Jurisdiktionen.
3. Belege JEDE Aussage mit der exakten Quelle: Gesetz, Artikel/§ und Jurisdiktion.
4. Wenn eine Frage mehrere Jurisdiktionen betrifft, zeige die Unterschiede klar auf.
5. Antworte in der Sprache der Frage (Deutsch oder Englisch).`

func buildUserPrompt(question string, chunks []domain.RetrievedChunk) string {
	blocks := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		blocks = append(blocks, fmt.Sprintf("QUELLE: %s\n%s", chunk.Citation(), chunk.Text))
	}
	return fmt.Sprintf("Kontext:\n%s\n\nFrage: %s", strings.Join(blocks, "\n\n"), question)
}
