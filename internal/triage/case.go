package triage

import "strings"

const (
	// MinPriority is the most urgent priority level.
	MinPriority = 1

	// MaxPriority is the least urgent priority level.
	MaxPriority = 10

	// IntakePriority is assigned to cases imported from the admissions feed,
	// which carries no urgency information of its own.
	IntakePriority = 6

	// MaxCases caps the number of live cases the department tracks at once.
	MaxCases = 100
)

// Case is one pending emergency record.
type Case struct {
	ID            int
	PatientName   string
	EmergencyType string
	Priority      int
}

// Category couples a standard emergency category with its fixed priority.
type Category struct {
	Name     string
	Priority int
}

// Categories lists the standard emergency categories. Anything else is
// treated as a custom type and requires an explicit priority.
var Categories = []Category{
	{Name: "Heart Attack", Priority: 1},
	{Name: "Road Accident", Priority: 2},
	{Name: "Asthma Attack", Priority: 3},
	{Name: "Severe Burn", Priority: 4},
}

// CategoryPriority returns the fixed priority for a standard emergency
// category. The match is case-insensitive.
func CategoryPriority(emergencyType string) (int, bool) {
	for _, c := range Categories {
		if strings.EqualFold(c.Name, emergencyType) {
			return c.Priority, true
		}
	}
	return 0, false
}

// NextID returns the smallest positive integer absent from used. Identifiers
// vacated in the persisted log are reused rather than burned, so the scheme
// stays dense across restarts and external file edits.
func NextID(used map[int]struct{}) int {
	id := 1
	for {
		if _, taken := used[id]; !taken {
			return id
		}
		id++
	}
}
