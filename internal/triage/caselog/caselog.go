// Package caselog persists emergency cases as comma-separated lines and reads
// the admissions intake feed. Records append on creation; removals and
// priority changes rewrite the whole file atomically.
package caselog

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/mrsinham/wardforge/internal/triage"
)

// Log reads and writes the emergency case file. One case per line:
// id,name,type,priority. Names and types must not contain commas.
type Log struct {
	path string
}

// New returns a Log over the given file path. The file need not exist yet.
func New(path string) *Log {
	return &Log{path: path}
}

// Path returns the backing file path.
func (l *Log) Path() string { return l.path }

// Load parses the case file. Lines that do not yield all four fields are
// skipped and counted, not fatal. A missing or unreadable file is treated as
// an empty log.
func (l *Log) Load() (cases []triage.Case, skipped int, err error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, 0, nil
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		c, ok := parseCase(line)
		if !ok {
			skipped++
			continue
		}
		cases = append(cases, c)
	}
	if err := sc.Err(); err != nil {
		return cases, skipped, fmt.Errorf("read %s: %w", l.path, err)
	}
	return cases, skipped, nil
}

// UsedIDs collects every identifier that parses from the first field of a
// line in the case file. It reads the file rather than any in-memory state so
// id allocation stays unique across restarts and partial reloads. A missing
// file yields an empty set.
func (l *Log) UsedIDs() map[int]struct{} {
	used := make(map[int]struct{})
	f, err := os.Open(l.path)
	if err != nil {
		return used
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		first, _, _ := strings.Cut(sc.Text(), ",")
		if id, err := strconv.Atoi(strings.TrimSpace(first)); err == nil {
			used[id] = struct{}{}
		}
	}
	return used
}

// Append adds one serialized case to the end of the file, creating it if
// needed.
func (l *Log) Append(c triage.Case) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s for append: %w", l.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatCase(c) + "\n"); err != nil {
		return fmt.Errorf("append to %s: %w", l.path, err)
	}
	return nil
}

// Rewrite replaces the whole file with the given cases. The write is atomic
// so a crash mid-rewrite cannot truncate the log.
func (l *Log) Rewrite(cases []triage.Case) error {
	var b strings.Builder
	for _, c := range cases {
		b.WriteString(formatCase(c))
		b.WriteByte('\n')
	}
	if err := atomic.WriteFile(l.path, strings.NewReader(b.String())); err != nil {
		return fmt.Errorf("rewrite %s: %w", l.path, err)
	}
	return nil
}

// ReadIntake parses the admissions feed at feedPath: three fields per line,
// id,name,condition, no priority. Rows whose id is already in existing are
// dropped, as are later duplicates within the same feed; existing is extended
// with every accepted id. Accepted rows become cases at IntakePriority.
// Unparseable rows are skipped and counted. A missing feed is an empty feed.
func (l *Log) ReadIntake(feedPath string, existing map[int]struct{}) (imported []triage.Case, skipped int, err error) {
	f, err := os.Open(feedPath)
	if err != nil {
		return nil, 0, nil
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 3 {
			skipped++
			continue
		}
		id, convErr := strconv.Atoi(strings.TrimSpace(fields[0]))
		if convErr != nil {
			skipped++
			continue
		}
		if _, dup := existing[id]; dup {
			skipped++
			continue
		}
		existing[id] = struct{}{}
		imported = append(imported, triage.Case{
			ID:            id,
			PatientName:   strings.TrimSpace(fields[1]),
			EmergencyType: strings.TrimSpace(fields[2]),
			Priority:      triage.IntakePriority,
		})
	}
	if err := sc.Err(); err != nil {
		return imported, skipped, fmt.Errorf("read %s: %w", feedPath, err)
	}
	return imported, skipped, nil
}

func parseCase(line string) (triage.Case, bool) {
	fields := strings.Split(line, ",")
	if len(fields) != 4 {
		return triage.Case{}, false
	}
	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return triage.Case{}, false
	}
	priority, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return triage.Case{}, false
	}
	return triage.Case{
		ID:            id,
		PatientName:   strings.TrimSpace(fields[1]),
		EmergencyType: strings.TrimSpace(fields[2]),
		Priority:      priority,
	}, true
}

func formatCase(c triage.Case) string {
	return strconv.Itoa(c.ID) + "," + c.PatientName + "," + c.EmergencyType + "," + strconv.Itoa(c.Priority)
}
