package extraction

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ---------------------------------------------------------------------------
// Text normalisation
// ---------------------------------------------------------------------------

var (
	// nonMedicalRe strips everything outside the whitelist of word
	// characters, whitespace and the punctuation the extraction patterns
	// rely on.
	nonMedicalRe = regexp.MustCompile(`[^\w\s.,:/()\-]`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize cleans raw OCR text: Unicode NFC normalisation, whitelist
// filtering and whitespace collapsing. Case is preserved because several
// downstream patterns depend on ALL-CAPS prescription-label conventions.
//
// Callers keep the raw text alongside the normalised copy; line-oriented
// passes (sections, labels) run against raw text since normalisation folds
// newlines into single spaces.
func Normalize(raw string) string {
	text := norm.NFC.String(raw)
	text = nonMedicalRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// splitLines splits raw text into trimmed lines, preserving empty lines so
// section parsers can detect blank-line boundaries.
func splitLines(raw string) []string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines
}

// ---------------------------------------------------------------------------
// Tokenisation
// ---------------------------------------------------------------------------

type wordToken struct {
	text  string
	start int
}

// tokenize splits text into word tokens (letters, digits, hyphens) with
// their byte offsets.
func tokenize(text string) []wordToken {
	var tokens []wordToken
	inWord := false
	wordStart := 0
	for i, r := range text {
		isWordChar := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-'
		if isWordChar {
			if !inWord {
				wordStart = i
				inWord = true
			}
		} else if inWord {
			tokens = append(tokens, wordToken{text: text[wordStart:i], start: wordStart})
			inWord = false
		}
	}
	if inWord {
		tokens = append(tokens, wordToken{text: text[wordStart:], start: wordStart})
	}
	return tokens
}

// isTitleCase reports whether s looks like a capitalised word: an uppercase
// letter followed by lowercase letters.
func isTitleCase(s string) bool {
	if len(s) < 2 || s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// isAllCaps reports whether s is entirely uppercase letters.
func isAllCaps(s string) bool {
	if len(s) < 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
