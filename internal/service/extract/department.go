package extract

import (
	"regexp"
	"strings"

	"hospital-voice-agent/internal/models"
)

// departmentPhrases lists, in catalog order, the phrases that select each
// department. Stems such as "cardiolog" also match "cardiologist". ENT is
// matched as a padded token because "ent" occurs inside many words
// ("appointment", "patient").
var departmentPhrases = []struct {
	department models.Department
	phrases    []string
}{
	{models.DepartmentCardiology, []string{"cardiolog"}},
	{models.DepartmentOrthopedics, []string{"orthopedic", "orthopaedic"}},
	{models.DepartmentNeurology, []string{"neurolog"}},
	{models.DepartmentDermatology, []string{"dermatolog"}},
	{models.DepartmentENT, []string{" ent ", " e n t ", "ear nose", "otolaryngolog"}},
	{models.DepartmentGeneralMedicine, []string{"general medicine", "general physician"}},
	{models.DepartmentPediatrics, []string{"pediatric", "paediatric"}},
	{models.DepartmentGynecology, []string{"gynecolog", "gynaecolog"}},
}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}']+`)

// Department returns the first catalog department mentioned in text.
func Department(text string) (models.Department, bool) {
	padded := " " + strings.TrimSpace(nonWord.ReplaceAllString(normalize(text), " ")) + " "
	for _, entry := range departmentPhrases {
		if containsAny(padded, entry.phrases) {
			return entry.department, true
		}
	}
	return "", false
}
