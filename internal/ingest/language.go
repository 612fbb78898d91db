package ingest

import "strings"

// languageStopwords are high-frequency function words per supported language.
// Scoring counts whole-word hits over the document text.
var languageStopwords = map[string][]string{
	"en": {"the", "and", "for", "your", "this", "total", "amount", "due"},
	"de": {"der", "die", "das", "und", "für", "nicht", "betrag", "rechnung"},
	"fr": {"le", "la", "les", "et", "pour", "votre", "montant", "facture"},
	"es": {"el", "la", "los", "las", "para", "su", "importe", "factura"},
	"it": {"il", "la", "per", "del", "della", "importo", "fattura", "totale"},
	"nl": {"de", "het", "en", "voor", "uw", "bedrag", "factuur", "totaal"},
	"pt": {"o", "a", "os", "as", "para", "sua", "valor", "fatura"},
}

// detectLanguage picks the language whose stopwords occur most often in the
// text. Ties and empty text default to English.
func detectLanguage(text string) string {
	if text == "" {
		return "en"
	}
	words := strings.Fields(strings.ToLower(text))
	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[strings.Trim(w, ".,;:!?()")]++
	}

	best := "en"
	bestScore := 0
	for _, lang := range []string{"de", "en", "es", "fr", "it", "nl", "pt"} {
		score := 0
		for _, sw := range languageStopwords[lang] {
			score += counts[sw]
		}
		if score > bestScore {
			best = lang
			bestScore = score
		}
	}
	return best
}
