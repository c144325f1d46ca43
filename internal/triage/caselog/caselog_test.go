package caselog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mrsinham/wardforge/internal/triage"
)

func tempLog(t *testing.T) *Log {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "emergency.txt"))
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	l := tempLog(t)
	cases, skipped, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cases) != 0 || skipped != 0 {
		t.Errorf("Load = %d cases, %d skipped; want empty", len(cases), skipped)
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	l := tempLog(t)
	content := "1,Jane Doe,Heart Attack,1\n" +
		"not a record\n" +
		"2,Sam Lee,Other\n" + // missing priority
		"x,Bad Id,Other,5\n" +
		"3,Ann Ray,Severe Burn,4\n" +
		"\n"
	if err := os.WriteFile(l.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cases, skipped, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("loaded %d cases, want 2", len(cases))
	}
	if skipped != 3 {
		t.Errorf("skipped %d lines, want 3", skipped)
	}
	if cases[0].PatientName != "Jane Doe" || cases[1].EmergencyType != "Severe Burn" {
		t.Errorf("unexpected cases: %+v", cases)
	}
}

func TestAppendThenLoadRoundTrip(t *testing.T) {
	l := tempLog(t)
	want := []triage.Case{
		{ID: 1, PatientName: "Jane Doe", EmergencyType: "Heart Attack", Priority: 1},
		{ID: 2, PatientName: "Sam Lee", EmergencyType: "Other", Priority: 8},
	}
	for _, c := range want {
		if err := l.Append(c); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, skipped, err := l.Load()
	if err != nil || skipped != 0 {
		t.Fatalf("Load = skipped %d, err %v", skipped, err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d cases, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("case %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRewriteReplacesContents(t *testing.T) {
	l := tempLog(t)
	if err := l.Append(triage.Case{ID: 9, PatientName: "Old", EmergencyType: "Other", Priority: 9}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	want := []triage.Case{
		{ID: 1, PatientName: "Jane Doe", EmergencyType: "Heart Attack", Priority: 1},
	}
	if err := l.Rewrite(want); err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}

	got, _, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("after rewrite got %+v, want %+v", got, want)
	}
}

func TestUsedIDs(t *testing.T) {
	l := tempLog(t)
	if got := l.UsedIDs(); len(got) != 0 {
		t.Errorf("UsedIDs on missing file = %v, want empty", got)
	}

	content := "1,Jane Doe,Heart Attack,1\n" +
		"junk line\n" +
		"7,Sam Lee,Other,8\n"
	if err := os.WriteFile(l.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	used := l.UsedIDs()
	if len(used) != 2 {
		t.Fatalf("UsedIDs = %v, want ids 1 and 7", used)
	}
	for _, id := range []int{1, 7} {
		if _, ok := used[id]; !ok {
			t.Errorf("id %d missing from UsedIDs", id)
		}
	}
	if triage.NextID(used) != 2 {
		t.Errorf("NextID over log = %d, want 2", triage.NextID(used))
	}
}

func TestReadIntakeDedupAndDefaults(t *testing.T) {
	l := tempLog(t)
	feed := filepath.Join(t.TempDir(), "patients.txt")
	content := "5,Jane Doe,Fever\n" +
		"6,Sam Lee,Routine Checkup\n" +
		"6,Sam Lee,Routine Checkup\n" +
		"bad,No Id,Fever\n" +
		"7,Ann Ray\n"
	if err := os.WriteFile(feed, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	existing := map[int]struct{}{5: {}}
	imported, skipped, err := l.ReadIntake(feed, existing)
	if err != nil {
		t.Fatalf("ReadIntake failed: %v", err)
	}
	if len(imported) != 1 {
		t.Fatalf("imported %d rows, want 1: %+v", len(imported), imported)
	}
	if skipped != 4 {
		t.Errorf("skipped %d rows, want 4", skipped)
	}
	got := imported[0]
	if got.ID != 6 || got.Priority != triage.IntakePriority {
		t.Errorf("imported case = %+v, want id 6 at intake priority", got)
	}
	if _, ok := existing[6]; !ok {
		t.Error("accepted id was not recorded in existing set")
	}
}

func TestReadIntakeMissingFeed(t *testing.T) {
	l := tempLog(t)
	imported, skipped, err := l.ReadIntake(filepath.Join(t.TempDir(), "nope.txt"), map[int]struct{}{})
	if err != nil || len(imported) != 0 || skipped != 0 {
		t.Errorf("missing feed: imported=%d skipped=%d err=%v, want all zero", len(imported), skipped, err)
	}
}
