// Package util provides small helpers shared across departments, mainly the
// demo-data generator behind the seed command.
package util

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Package-level default RNG used when callers pass nil.
var defaultRNG = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))

var (
	firstNames = []string{
		"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael",
		"Linda", "William", "Elizabeth", "David", "Barbara", "Richard", "Susan",
		"Joseph", "Jessica", "Thomas", "Sarah", "Charles", "Karen", "Daniel",
		"Nancy", "Matthew", "Lisa", "Anthony", "Betty", "Mark", "Margaret",
		"Paul", "Sandra", "Steven", "Ashley", "Andrew", "Kimberly", "Joshua",
		"Emily", "Kenneth", "Donna", "Kevin", "Michelle",
	}

	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
		"Davis", "Rodriguez", "Martinez", "Wilson", "Anderson", "Taylor",
		"Thomas", "Moore", "Jackson", "Martin", "Lee", "Thompson", "White",
		"Harris", "Clark", "Lewis", "Robinson", "Walker", "Young", "Allen",
		"King", "Wright", "Scott",
	}

	// conditions are routine intake complaints; urgency is decided later by
	// the emergency department, not at admission.
	conditions = []string{
		"Fever", "Routine Checkup", "Sprained Ankle", "Migraine",
		"Back Pain", "Minor Laceration", "Allergic Reaction", "Flu Symptoms",
		"Abdominal Pain", "Follow-up Visit",
	}
)

// GeneratePatientName returns a random "First Last" display name.
func GeneratePatientName(rng *rand.Rand) string {
	if rng == nil {
		rng = defaultRNG
	}
	return fmt.Sprintf("%s %s",
		firstNames[rng.IntN(len(firstNames))],
		lastNames[rng.IntN(len(lastNames))])
}

// GenerateCondition returns a random admission complaint.
func GenerateCondition(rng *rand.Rand) string {
	if rng == nil {
		rng = defaultRNG
	}
	return conditions[rng.IntN(len(conditions))]
}
