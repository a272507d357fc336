package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hospital-voice-agent/internal/models"
)

func TestDepartment(t *testing.T) {
	tests := []struct {
		text   string
		want   models.Department
		wantOK bool
	}{
		{"cardiology", models.DepartmentCardiology, true},
		{"I need a Cardiologist", models.DepartmentCardiology, true},
		{"orthopedics please", models.DepartmentOrthopedics, true},
		{"neurology", models.DepartmentNeurology, true},
		{"dermatology", models.DepartmentDermatology, true},
		{"ENT", models.DepartmentENT, true},
		{"an e.n.t. specialist", models.DepartmentENT, true},
		{"general medicine", models.DepartmentGeneralMedicine, true},
		{"pediatrics for my son", models.DepartmentPediatrics, true},
		{"gynecology", models.DepartmentGynecology, true},
		{"I have an appointment with a patient", "", false},
		{"the heart clinic", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := Department(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDepartment_FirstCatalogEntryWins(t *testing.T) {
	got, ok := Department("neurology or cardiology")
	assert.True(t, ok)
	assert.Equal(t, models.DepartmentCardiology, got)
}
