package ingest

import (
	"strings"
	"unicode"
)

// pageTextQuality scores one page's extracted text in [0,1] from the share of
// printable characters and word-like tokens.
func pageTextQuality(text string) float64 {
	if text == "" {
		return 0
	}
	return 0.7*printableRatio(text) + 0.3*wordlikeRatio(text)
}

// estimateImageQuality approximates source scan quality from the text layer:
// a clean digital bill extracts dense, well-formed text, while a poor scan
// yields sparse or garbled output.
func estimateImageQuality(text string, pageCount int) float64 {
	if pageCount == 0 || text == "" {
		return 0.3
	}
	charsPerPage := float64(len([]rune(text))) / float64(pageCount)
	density := charsPerPage / 500.0
	if density > 1.0 {
		density = 1.0
	}
	q := 0.4*density + 0.4*printableRatio(text) + 0.2*wordlikeRatio(text)
	if q > 1.0 {
		q = 1.0
	}
	return q
}

// printableRatio returns the ratio of printable characters in text.
// Excludes PUA U+E000-U+F8FF, control chars < U+0020 (except \n\r\t), U+FFFD.
func printableRatio(text string) float64 {
	if len(text) == 0 {
		return 1.0
	}
	total := 0
	printable := 0
	for _, r := range text {
		total++
		if isGarbageRune(r) {
			continue
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(printable) / float64(total)
}

func isGarbageRune(r rune) bool {
	// Private Use Area
	if r >= 0xE000 && r <= 0xF8FF {
		return true
	}
	// Replacement character
	if r == 0xFFFD {
		return true
	}
	// Control chars except whitespace
	if r < 0x0020 && r != '\n' && r != '\r' && r != '\t' {
		return true
	}
	return false
}

// wordlikeRatio returns the ratio of word-like tokens (length 2-15) to total tokens.
func wordlikeRatio(text string) float64 {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0
	}
	wordlike := 0
	for _, f := range fields {
		n := len([]rune(f))
		if n >= 2 && n <= 15 {
			wordlike++
		}
	}
	return float64(wordlike) / float64(len(fields))
}
