package extract

import (
	"strings"

	"hospital-voice-agent/internal/models"
)

var fillerTokens = map[string]bool{
	"yes":    true,
	"doctor": true,
	"dr":     true,
}

// cleanTokens lower-cases s, splits it on punctuation and whitespace and
// drops filler tokens.
func cleanTokens(s string) []string {
	fields := strings.Fields(nonWord.ReplaceAllString(normalize(s), " "))
	tokens := fields[:0]
	for _, f := range fields {
		if fillerTokens[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Doctor resolves a doctor reference against candidates. A candidate matches
// when every token of its cleaned name occurs in the cleaned utterance; the
// first match in list order wins.
func Doctor(text string, candidates []models.Doctor) (models.Doctor, bool) {
	cleaned := strings.Join(cleanTokens(text), " ")
	if cleaned == "" {
		return models.Doctor{}, false
	}
	for _, c := range candidates {
		tokens := cleanTokens(c.Name)
		if len(tokens) == 0 {
			continue
		}
		matched := true
		for _, tok := range tokens {
			if !strings.Contains(cleaned, tok) {
				matched = false
				break
			}
		}
		if matched {
			return c, true
		}
	}
	return models.Doctor{}, false
}
