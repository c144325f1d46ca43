package triage

import "testing"

func TestInsertKeepsAscendingPriorityOrder(t *testing.T) {
	s := NewStore()
	priorities := []int{7, 2, 9, 2, 1, 5, 2}
	for i, p := range priorities {
		if err := s.Insert(Case{ID: i + 1, PatientName: "P", EmergencyType: "Other", Priority: p}); err != nil {
			t.Fatalf("Insert(priority=%d) failed: %v", p, err)
		}
	}

	cases := s.Cases()
	for i := 1; i < len(cases); i++ {
		if cases[i-1].Priority > cases[i].Priority {
			t.Errorf("order violated at %d: %d > %d", i, cases[i-1].Priority, cases[i].Priority)
		}
	}
}

func TestInsertStableForEqualPriorities(t *testing.T) {
	s := NewStore()
	// Three priority-2 cases logged in order, with other priorities around them.
	ids := []struct{ id, priority int }{
		{1, 5}, {2, 2}, {3, 2}, {4, 1}, {5, 2},
	}
	for _, c := range ids {
		if err := s.Insert(Case{ID: c.id, PatientName: "P", EmergencyType: "Other", Priority: c.priority}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got := s.Cases()
	wantIDs := []int{4, 2, 3, 5, 1}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Errorf("position %d: got id %d, want %d (tie order not preserved)", i, got[i].ID, want)
		}
	}
}

func TestInsertRejectsWhenFull(t *testing.T) {
	s := NewStore()
	for i := 0; i < MaxCases; i++ {
		if err := s.Insert(Case{ID: i + 1, PatientName: "P", EmergencyType: "Other", Priority: 5}); err != nil {
			t.Fatalf("Insert %d failed: %v", i, err)
		}
	}

	if err := s.Insert(Case{ID: MaxCases + 1, PatientName: "P", EmergencyType: "Other", Priority: 1}); err != ErrCapacity {
		t.Fatalf("expected ErrCapacity, got %v", err)
	}
	if s.Len() != MaxCases {
		t.Errorf("store size changed on rejected insert: %d", s.Len())
	}
}

func TestRemoveFrontDrainsInPriorityOrder(t *testing.T) {
	s := NewStore()
	for i, p := range []int{4, 1, 8, 3} {
		if err := s.Insert(Case{ID: i + 1, PatientName: "P", EmergencyType: "Other", Priority: p}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	var got []int
	for {
		c, ok := s.RemoveFront()
		if !ok {
			break
		}
		got = append(got, c.Priority)
	}
	want := []int{1, 3, 4, 8}
	if len(got) != len(want) {
		t.Fatalf("drained %d cases, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("drain order[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if _, ok := s.RemoveFront(); ok {
		t.Error("RemoveFront on empty store reported a case")
	}
}

func TestPeekFrontDoesNotRemove(t *testing.T) {
	s := NewStore()
	if _, ok := s.PeekFront(); ok {
		t.Fatal("PeekFront on empty store reported a case")
	}
	if err := s.Insert(Case{ID: 1, PatientName: "Jane Doe", EmergencyType: "Heart Attack", Priority: 1}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	c, ok := s.PeekFront()
	if !ok || c.ID != 1 {
		t.Fatalf("PeekFront = %+v, %v", c, ok)
	}
	if s.Len() != 1 {
		t.Errorf("PeekFront removed the case")
	}
}

func TestFindIsCaseInsensitiveAndReturnsAllMatches(t *testing.T) {
	s := NewStore()
	seed := []Case{
		{ID: 1, PatientName: "Jane Doe", EmergencyType: "Heart Attack", Priority: 1},
		{ID: 2, PatientName: "JANE DOE", EmergencyType: "Severe Burn", Priority: 4},
		{ID: 3, PatientName: "Sam Lee", EmergencyType: "heart attack", Priority: 1},
	}
	for _, c := range seed {
		if err := s.Insert(c); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	if got := s.FindByName("jane doe"); len(got) != 2 {
		t.Errorf("FindByName matched %d cases, want 2", len(got))
	}
	if got := s.FindByType("HEART ATTACK"); len(got) != 2 {
		t.Errorf("FindByType matched %d cases, want 2", len(got))
	}
	if got := s.FindByName("nobody"); len(got) != 0 {
		t.Errorf("FindByName matched %d cases, want 0", len(got))
	}
}

func TestSetPriorityReordersStore(t *testing.T) {
	s := NewStore()
	for _, c := range []Case{
		{ID: 1, PatientName: "A", EmergencyType: "Other", Priority: 2},
		{ID: 2, PatientName: "B", EmergencyType: "Other", Priority: 5},
		{ID: 3, PatientName: "C", EmergencyType: "Other", Priority: 8},
	} {
		if err := s.Insert(c); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	if err := s.SetPriority(3, 1); err != nil {
		t.Fatalf("SetPriority failed: %v", err)
	}
	front, _ := s.PeekFront()
	if front.ID != 3 {
		t.Errorf("front case id = %d after promotion, want 3", front.ID)
	}
	cases := s.Cases()
	for i := 1; i < len(cases); i++ {
		if cases[i-1].Priority > cases[i].Priority {
			t.Errorf("order violated after update at %d", i)
		}
	}

	if err := s.SetPriority(42, 1); err != ErrNotFound {
		t.Errorf("SetPriority(unknown id) = %v, want ErrNotFound", err)
	}
}

func TestSetPriorityDemotionMovesCaseBack(t *testing.T) {
	s := NewStore()
	for _, c := range []Case{
		{ID: 1, PatientName: "A", EmergencyType: "Other", Priority: 1},
		{ID: 2, PatientName: "B", EmergencyType: "Other", Priority: 3},
		{ID: 3, PatientName: "C", EmergencyType: "Other", Priority: 3},
	} {
		if err := s.Insert(c); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	if err := s.SetPriority(1, 3); err != nil {
		t.Fatalf("SetPriority failed: %v", err)
	}
	// The full stable sort keeps the demoted case at its former slot relative
	// to the other priority-3 cases, so it now leads its new group.
	got := s.Cases()
	wantIDs := []int{1, 2, 3}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Errorf("position %d: got id %d, want %d", i, got[i].ID, want)
		}
	}
}
