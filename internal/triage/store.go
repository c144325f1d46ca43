package triage

import (
	"sort"
	"strings"
)

// Store is a bounded collection of pending cases kept in ascending priority
// order. Ties keep their relative insertion order: a new case with the same
// priority as an existing run lands after that run.
type Store struct {
	cases    []Case
	capacity int
}

// NewStore returns an empty store bounded at MaxCases.
func NewStore() *Store {
	return &Store{capacity: MaxCases}
}

// Len reports the number of pending cases.
func (s *Store) Len() int { return len(s.cases) }

// Capacity reports the maximum number of live cases.
func (s *Store) Capacity() int { return s.capacity }

// Cases returns a copy of the pending cases in priority order.
func (s *Store) Cases() []Case {
	out := make([]Case, len(s.cases))
	copy(out, s.cases)
	return out
}

// Insert places c so that ascending priority order is preserved, shifting
// less urgent cases toward the rear. Returns ErrCapacity when full.
func (s *Store) Insert(c Case) error {
	if len(s.cases) >= s.capacity {
		return ErrCapacity
	}
	s.cases = append(s.cases, Case{})
	i := len(s.cases) - 2
	for ; i >= 0 && s.cases[i].Priority > c.Priority; i-- {
		s.cases[i+1] = s.cases[i]
	}
	s.cases[i+1] = c
	return nil
}

// PeekFront returns the most urgent case without removing it.
func (s *Store) PeekFront() (Case, bool) {
	if len(s.cases) == 0 {
		return Case{}, false
	}
	return s.cases[0], true
}

// RemoveFront removes and returns the most urgent case.
func (s *Store) RemoveFront() (Case, bool) {
	if len(s.cases) == 0 {
		return Case{}, false
	}
	front := s.cases[0]
	copy(s.cases, s.cases[1:])
	s.cases = s.cases[:len(s.cases)-1]
	return front, true
}

// FindByName returns every case whose patient name equals name,
// case-insensitively.
func (s *Store) FindByName(name string) []Case {
	var out []Case
	for _, c := range s.cases {
		if strings.EqualFold(c.PatientName, name) {
			out = append(out, c)
		}
	}
	return out
}

// FindByType returns every case whose emergency type equals emergencyType,
// case-insensitively.
func (s *Store) FindByType(emergencyType string) []Case {
	var out []Case
	for _, c := range s.cases {
		if strings.EqualFold(c.EmergencyType, emergencyType) {
			out = append(out, c)
		}
	}
	return out
}

// SetPriority changes the priority of the case with the given id and restores
// priority order with a full stable sort. The updated case therefore joins its
// new priority group at the position its old slot sorts to, while untouched
// ties keep their order. Returns ErrNotFound when no case has that id.
func (s *Store) SetPriority(id, priority int) error {
	for i := range s.cases {
		if s.cases[i].ID == id {
			s.cases[i].Priority = priority
			s.resort()
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) resort() {
	sort.SliceStable(s.cases, func(i, j int) bool {
		return s.cases[i].Priority < s.cases[j].Priority
	})
}
