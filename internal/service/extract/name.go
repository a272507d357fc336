package extract

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// nameTemplates are tried in order.
var nameTemplates = []*regexp.Regexp{
	regexp.MustCompile(`(?:^|\s)name is\s+(.+)$`),
	regexp.MustCompile(`(?:^|\s)patient name is\s+(.+)$`),
	regexp.MustCompile(`(?:^|\s)this is\s+(.+)$`),
}

// nameLeadIns disable the bare-name fallback: "my name is" alone is not a name.
var nameLeadIns = []string{"name is", "this is"}

const maxBareNameWords = 3

// PatientName extracts a patient name from text. Templated phrasings win;
// otherwise an utterance of one to three words is taken as the name.
func PatientName(text string) (string, bool) {
	t := normalize(text)
	for _, re := range nameTemplates {
		m := re.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		if name, ok := cleanName(m[1]); ok {
			return name, true
		}
	}
	if containsAny(t, nameLeadIns) {
		return "", false
	}
	words := strings.Fields(nonWord.ReplaceAllString(t, " "))
	if len(words) < 1 || len(words) > maxBareNameWords {
		return "", false
	}
	return cleanName(t)
}

// cleanName strips punctuation and rejects anything holding digits.
func cleanName(s string) (string, bool) {
	words := strings.Fields(nonWord.ReplaceAllString(s, " "))
	if len(words) == 0 {
		return "", false
	}
	for _, w := range words {
		if strings.IndexFunc(w, unicode.IsDigit) >= 0 {
			return "", false
		}
	}
	return cases.Title(language.English).String(strings.Join(words, " ")), true
}
