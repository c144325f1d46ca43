package triage

import (
	"fmt"
	"strings"
)

// CaseLog is the persistence boundary for the triage service. caselog.Log is
// the file-backed implementation. Errors from Append and Rewrite do not roll
// back the in-memory change that caused them; the service surfaces them as
// *PersistError instead.
type CaseLog interface {
	Load() (cases []Case, skipped int, err error)
	UsedIDs() map[int]struct{}
	Append(c Case) error
	Rewrite(cases []Case) error
	ReadIntake(feedPath string, existing map[int]struct{}) (imported []Case, skipped int, err error)
}

// Service implements the emergency department's user-facing operations over a
// Store and its CaseLog.
type Service struct {
	store *Store
	log   CaseLog
}

// NewService creates a triage service around an empty or pre-loaded store.
func NewService(store *Store, log CaseLog) *Service {
	return &Service{store: store, log: log}
}

// LoadLog pulls previously logged cases into the store. Cases go through the
// same ordered insert as fresh ones, so the store is correctly ordered even
// when the file is not. Rows beyond capacity count as skipped.
func (s *Service) LoadLog() (loaded, skipped int, err error) {
	cases, skipped, err := s.log.Load()
	for _, c := range cases {
		if s.store.Insert(c) != nil {
			skipped++
			continue
		}
		loaded++
	}
	return loaded, skipped, err
}

// ImportIntake pulls new patients from the admissions feed. Rows whose id is
// already pending are dropped, imported cases get IntakePriority and are
// appended to the case log immediately. Rows rejected for capacity count as
// skipped.
func (s *Service) ImportIntake(feedPath string) (imported, skipped int, err error) {
	existing := make(map[int]struct{}, s.store.Len())
	for _, c := range s.store.Cases() {
		existing[c.ID] = struct{}{}
	}
	candidates, skipped, err := s.log.ReadIntake(feedPath, existing)
	if err != nil {
		return 0, skipped, err
	}
	for _, c := range candidates {
		if s.store.Insert(c) != nil {
			skipped++
			continue
		}
		imported++
		if appendErr := s.log.Append(c); appendErr != nil {
			return imported, skipped, &PersistError{Op: "import intake", Err: appendErr}
		}
	}
	return imported, skipped, nil
}

// LogCase validates and records a new emergency case. Standard categories
// carry their fixed priority; a custom type needs an explicit priority in
// [MinPriority, MaxPriority]. The id is the lowest free slot in the persisted
// log. On a *PersistError the returned case is already in the store.
func (s *Service) LogCase(name, emergencyType string, priority int) (Case, error) {
	name = strings.TrimSpace(name)
	emergencyType = strings.TrimSpace(emergencyType)
	if name == "" {
		return Case{}, &ValidationError{Field: "patient name", Reason: "must not be empty"}
	}
	if strings.Contains(name, ",") {
		return Case{}, &ValidationError{Field: "patient name", Reason: "must not contain commas"}
	}
	if emergencyType == "" {
		return Case{}, &ValidationError{Field: "emergency type", Reason: "must not be empty"}
	}
	if strings.Contains(emergencyType, ",") {
		return Case{}, &ValidationError{Field: "emergency type", Reason: "must not contain commas"}
	}
	if fixed, ok := CategoryPriority(emergencyType); ok {
		priority = fixed
	} else if err := validPriority(priority); err != nil {
		return Case{}, err
	}

	c := Case{
		ID:            NextID(s.log.UsedIDs()),
		PatientName:   name,
		EmergencyType: emergencyType,
		Priority:      priority,
	}
	if err := s.store.Insert(c); err != nil {
		return Case{}, err
	}
	if err := s.log.Append(c); err != nil {
		return c, &PersistError{Op: "log case", Err: err}
	}
	return c, nil
}

// ProcessMostUrgent removes and returns the most urgent pending case, then
// rewrites the log to drop its line. Returns ErrNoPending on an empty store.
func (s *Service) ProcessMostUrgent() (Case, error) {
	c, ok := s.store.RemoveFront()
	if !ok {
		return Case{}, ErrNoPending
	}
	if err := s.log.Rewrite(s.store.Cases()); err != nil {
		return c, &PersistError{Op: "process case", Err: err}
	}
	return c, nil
}

// PendingCases returns all cases in ascending priority order.
func (s *Service) PendingCases() []Case {
	return s.store.Cases()
}

// PendingCount reports how many cases are waiting.
func (s *Service) PendingCount() int { return s.store.Len() }

// SearchByName returns every pending case for the named patient.
func (s *Service) SearchByName(name string) ([]Case, error) {
	matches := s.store.FindByName(strings.TrimSpace(name))
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return matches, nil
}

// SearchByType returns every pending case of the given emergency type.
func (s *Service) SearchByType(emergencyType string) ([]Case, error) {
	matches := s.store.FindByType(strings.TrimSpace(emergencyType))
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return matches, nil
}

// UpdatePriority reprioritizes the case with the given id and rewrites the
// log, since existing lines change.
func (s *Service) UpdatePriority(id, priority int) error {
	if err := validPriority(priority); err != nil {
		return err
	}
	if err := s.store.SetPriority(id, priority); err != nil {
		return err
	}
	if err := s.log.Rewrite(s.store.Cases()); err != nil {
		return &PersistError{Op: "update priority", Err: err}
	}
	return nil
}

// UpdatePriorityByName reprioritizes the most urgent pending case for the
// named patient.
func (s *Service) UpdatePriorityByName(name string, priority int) error {
	matches := s.store.FindByName(strings.TrimSpace(name))
	if len(matches) == 0 {
		return ErrNotFound
	}
	return s.UpdatePriority(matches[0].ID, priority)
}

// UpdatePriorityAt reprioritizes the case at the given 1-based list position,
// as shown by PendingCases.
func (s *Service) UpdatePriorityAt(position, priority int) error {
	cases := s.store.Cases()
	if position < 1 || position > len(cases) {
		return ErrNotFound
	}
	return s.UpdatePriority(cases[position-1].ID, priority)
}

func validPriority(p int) error {
	if p < MinPriority || p > MaxPriority {
		return &ValidationError{
			Field:  "priority",
			Reason: fmt.Sprintf("must be between %d and %d", MinPriority, MaxPriority),
		}
	}
	return nil
}
