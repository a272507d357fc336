package directory

import "hospital-voice-agent/internal/models"

var (
	morningSlots   = []string{"10:00 AM", "11:00 AM", "11:30 AM"}
	fullDaySlots   = []string{"10:00 AM", "11:00 AM", "11:30 AM", "2:00 PM", "4:30 PM"}
	afternoonSlots = []string{"2:00 PM", "3:00 PM", "4:30 PM", "6:00 PM"}
)

func entry(id, name string, dept models.Department, years, fee int, slots []string, daysOff ...string) Entry {
	return Entry{
		Doctor: models.Doctor{
			ID:         id,
			Name:       name,
			Department: dept,
			Experience: years,
			Fee:        fee,
		},
		Slots:   slots,
		DaysOff: daysOff,
	}
}

// DefaultEntries is the built-in catalog used when no catalog file is configured.
func DefaultEntries() []Entry {
	return []Entry{
		entry("doc-card-01", "Dr. Anil Mehta", models.DepartmentCardiology, 18, 1200, fullDaySlots, "sunday"),
		entry("doc-card-02", "Dr. Priya Nair", models.DepartmentCardiology, 11, 1000, morningSlots, "sunday"),
		entry("doc-orth-01", "Dr. Rahul Verma", models.DepartmentOrthopedics, 14, 900, fullDaySlots, "sunday"),
		entry("doc-orth-02", "Dr. Kavita Rao", models.DepartmentOrthopedics, 8, 800, afternoonSlots, "sunday", "wednesday"),
		entry("doc-neur-01", "Dr. Suresh Iyer", models.DepartmentNeurology, 21, 1500, morningSlots, "sunday"),
		entry("doc-neur-02", "Dr. Meera Joshi", models.DepartmentNeurology, 9, 1100, afternoonSlots, "sunday"),
		entry("doc-derm-01", "Dr. Neha Kapoor", models.DepartmentDermatology, 12, 700, fullDaySlots, "sunday"),
		entry("doc-ent-01", "Dr. Arjun Desai", models.DepartmentENT, 16, 750, morningSlots, "sunday"),
		entry("doc-gen-01", "Dr. Sanjay Gupta", models.DepartmentGeneralMedicine, 25, 500, fullDaySlots),
		entry("doc-gen-02", "Dr. Farah Khan", models.DepartmentGeneralMedicine, 6, 400, afternoonSlots, "sunday"),
		entry("doc-ped-01", "Dr. Latha Menon", models.DepartmentPediatrics, 13, 600, fullDaySlots, "sunday"),
		entry("doc-gyn-01", "Dr. Sunita Reddy", models.DepartmentGynecology, 19, 1000, morningSlots, "sunday", "saturday"),
	}
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := NewCatalog(DefaultEntries())
	if err != nil {
		panic(err)
	}
	return c
}
