package models

// Department is an entry of the hospital's fixed department catalog.
type Department string

const (
	DepartmentCardiology      Department = "Cardiology"
	DepartmentOrthopedics     Department = "Orthopedics"
	DepartmentNeurology       Department = "Neurology"
	DepartmentDermatology     Department = "Dermatology"
	DepartmentENT             Department = "ENT"
	DepartmentGeneralMedicine Department = "General Medicine"
	DepartmentPediatrics      Department = "Pediatrics"
	DepartmentGynecology      Department = "Gynecology"
)

// Departments lists the catalog in matching order.
var Departments = []Department{
	DepartmentCardiology,
	DepartmentOrthopedics,
	DepartmentNeurology,
	DepartmentDermatology,
	DepartmentENT,
	DepartmentGeneralMedicine,
	DepartmentPediatrics,
	DepartmentGynecology,
}

// IsValid reports whether d belongs to the catalog.
func (d Department) IsValid() bool {
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}

// Doctor is a consultant listed in the availability directory.
type Doctor struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Department Department `json:"department" yaml:"department"`
	Experience int        `json:"experience" yaml:"experience"` // years
	Fee        int        `json:"fee" yaml:"fee"`               // whole currency units
}

// MostExperienced returns the doctor with the most years of experience.
// Ties go to the earlier doctor in the list.
func MostExperienced(doctors []Doctor) (Doctor, bool) {
	if len(doctors) == 0 {
		return Doctor{}, false
	}
	best := doctors[0]
	for _, d := range doctors[1:] {
		if d.Experience > best.Experience {
			best = d
		}
	}
	return best, true
}
