package directory

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-voice-agent/internal/models"
)

func TestLoad(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)
	ctx := context.Background()

	cardio, err := c.Doctors(ctx, models.DepartmentCardiology)
	require.NoError(t, err)
	require.Len(t, cardio, 2)
	assert.Equal(t, "Dr. Alice Stone", cardio[0].Name)
	assert.Equal(t, 1300, cardio[1].Fee)

	all, err := c.AllDoctors(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := c.Doctors(ctx, models.DepartmentPediatrics)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCatalog_Slots(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)
	ctx := context.Background()
	alice := models.Doctor{ID: "doc-1"}

	tests := []struct {
		name string
		date civil.Date
		want []string
	}{
		{"weekday", civil.Date{Year: 2026, Month: 10, Day: 20}, []string{"11:00 AM", "11:30 AM", "2:00 PM"}},
		{"day off", civil.Date{Year: 2026, Month: 10, Day: 18}, nil},
		{"unavailable date", civil.Date{Year: 2026, Month: 12, Day: 25}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Slots(ctx, alice, tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalog_SlotsUnknownDoctor(t *testing.T) {
	c := Default()
	_, err := c.Slots(context.Background(), models.Doctor{ID: "nope"}, civil.Date{Year: 2026, Month: 10, Day: 20})
	assert.True(t, errors.Is(err, ErrUnknownDoctor))
}

func TestCatalog_SlotsReturnsCopy(t *testing.T) {
	c := Default()
	ctx := context.Background()
	doctors, err := c.Doctors(ctx, models.DepartmentCardiology)
	require.NoError(t, err)
	date := civil.Date{Year: 2026, Month: 10, Day: 20}

	first, err := c.Slots(ctx, doctors[0], date)
	require.NoError(t, err)
	first[0] = "changed"
	second, err := c.Slots(ctx, doctors[0], date)
	require.NoError(t, err)
	assert.Equal(t, "10:00 AM", second[0])
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"empty":          "doctors: []",
		"bad department": "doctors:\n  - {id: a, name: A, department: Astrology}",
		"duplicate id":   "doctors:\n  - {id: a, name: A, department: ENT}\n  - {id: a, name: B, department: ENT}",
		"bad weekday":    "doctors:\n  - {id: a, name: A, department: ENT, days_off: [funday]}",
		"bad date":       "doctors:\n  - {id: a, name: A, department: ENT, unavailable: [\"31 feb\"]}",
		"negative fee":   "doctors:\n  - {id: a, name: A, department: ENT, fee: -1}",
		"not yaml":       "doctors: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestDefault_EveryDepartmentStaffed(t *testing.T) {
	c := Default()
	for _, dept := range models.Departments {
		doctors, err := c.Doctors(context.Background(), dept)
		require.NoError(t, err)
		assert.NotEmpty(t, doctors, dept)
	}
}
