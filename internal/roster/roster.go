// Package roster manages the ambulance duty rotation: a ring of vehicles
// where the head is next up for dispatch and a rotation advances every
// vehicle one step. Shifts are minute-of-day windows and may wrap midnight.
package roster

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
)

// MinutesPerDay is the exclusive upper bound for a minute-of-day clock value.
const MinutesPerDay = 24 * 60

var (
	// ErrEmpty is returned when the roster has no ambulances.
	ErrEmpty = errors.New("no ambulances registered")

	// ErrNotFound is returned when an id lookup matches no ambulance.
	ErrNotFound = errors.New("no ambulance with that id")

	// ErrDuplicate is returned when a vehicle registration already exists.
	ErrDuplicate = errors.New("vehicle registration already on roster")

	// ErrInvalid is returned for rejected registration or shift input.
	ErrInvalid = errors.New("invalid roster input")
)

// Ambulance is one vehicle in the rotation. ShiftStart and ShiftEnd are
// minutes since midnight; both zero means no shift assigned.
type Ambulance struct {
	ID         int
	VehicleReg string
	DriverName string
	Notes      string
	ShiftStart int
	ShiftEnd   int
	OnDuty     bool
}

// Roster is the rotation ring, persisted to a headered CSV file after every
// mutation. Index 0 is the current head.
type Roster struct {
	ring   []Ambulance
	nextID int
	path   string
}

const fileHeader = "ID,Vehicle,Driver,Notes,ShiftStart,ShiftEnd,OnDuty"

// NewRoster returns an empty roster persisted at path.
func NewRoster(path string) *Roster {
	return &Roster{nextID: 1, path: path}
}

// Path returns the backing file path.
func (r *Roster) Path() string { return r.path }

// Len reports the number of ambulances in the rotation.
func (r *Roster) Len() int { return len(r.ring) }

// Load restores the rotation from its file. Malformed lines are skipped and
// counted; a missing file leaves the roster empty. Rows from an older file
// layout without shift fields get an unassigned shift.
func (r *Roster) Load() (loaded, skipped int, err error) {
	f, err := os.Open(r.path)
	if err != nil {
		return 0, 0, nil
	}
	defer f.Close()

	r.ring = r.ring[:0]
	maxID := 0
	first := true
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if first {
			first = false
			if strings.HasPrefix(line, "ID,") {
				continue
			}
		}
		if line == "" {
			continue
		}
		a, ok := parseAmbulance(line)
		if !ok {
			skipped++
			continue
		}
		r.ring = append(r.ring, a)
		loaded++
		if a.ID > maxID {
			maxID = a.ID
		}
	}
	r.nextID = maxID + 1
	if err := sc.Err(); err != nil {
		return loaded, skipped, fmt.Errorf("read %s: %w", r.path, err)
	}
	return loaded, skipped, nil
}

// Register appends a new ambulance to the rear of the rotation. Duplicate
// vehicle registrations are rejected case-insensitively.
func (r *Roster) Register(vehicleReg, driverName, notes string) (Ambulance, error) {
	vehicleReg = strings.TrimSpace(vehicleReg)
	driverName = strings.TrimSpace(driverName)
	notes = strings.TrimSpace(notes)
	if vehicleReg == "" || driverName == "" {
		return Ambulance{}, ErrInvalid
	}
	if strings.ContainsRune(vehicleReg+driverName+notes, ',') {
		return Ambulance{}, ErrInvalid
	}
	for _, a := range r.ring {
		if strings.EqualFold(a.VehicleReg, vehicleReg) {
			return Ambulance{}, ErrDuplicate
		}
	}

	a := Ambulance{ID: r.nextID, VehicleReg: vehicleReg, DriverName: driverName, Notes: notes}
	r.nextID++
	r.ring = append(r.ring, a)
	return a, r.save()
}

// Rotate advances the rotation one step and returns the new head.
func (r *Roster) Rotate() (Ambulance, error) {
	if len(r.ring) == 0 {
		return Ambulance{}, ErrEmpty
	}
	if len(r.ring) > 1 {
		head := r.ring[0]
		copy(r.ring, r.ring[1:])
		r.ring[len(r.ring)-1] = head
	}
	return r.ring[0], r.save()
}

// Head returns the ambulance currently next up for dispatch.
func (r *Roster) Head() (Ambulance, error) {
	if len(r.ring) == 0 {
		return Ambulance{}, ErrEmpty
	}
	return r.ring[0], nil
}

// Schedule returns the rotation in order, head first.
func (r *Roster) Schedule() []Ambulance {
	out := make([]Ambulance, len(r.ring))
	copy(out, r.ring)
	return out
}

// ByShiftTime returns the roster sorted by shift start; vehicles without an
// assigned shift sort last. Rotation order is not changed.
func (r *Roster) ByShiftTime() []Ambulance {
	out := r.Schedule()
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := out[i], out[j]
		if !shiftAssigned(ai) {
			return false
		}
		if !shiftAssigned(aj) {
			return true
		}
		return ai.ShiftStart < aj.ShiftStart
	})
	return out
}

// AssignShift sets the shift window for the given ambulance. Windows may wrap
// midnight (start later than end); start and end must differ and both lie in
// [0, MinutesPerDay).
func (r *Roster) AssignShift(id, start, end int) error {
	if start < 0 || start >= MinutesPerDay || end < 0 || end >= MinutesPerDay || start == end {
		return ErrInvalid
	}
	for i := range r.ring {
		if r.ring[i].ID == id {
			r.ring[i].ShiftStart = start
			r.ring[i].ShiftEnd = end
			return r.save()
		}
	}
	return ErrNotFound
}

// RefreshDuty recomputes every ambulance's on-duty flag against now, a
// minute-of-day clock value, and persists the result.
func (r *Roster) RefreshDuty(now int) error {
	for i := range r.ring {
		r.ring[i].OnDuty = inShift(r.ring[i], now)
	}
	return r.save()
}

// OnDuty returns the ambulances whose duty flag is set, in rotation order.
func (r *Roster) OnDuty() []Ambulance {
	var out []Ambulance
	for _, a := range r.ring {
		if a.OnDuty {
			out = append(out, a)
		}
	}
	return out
}

// IsOnDuty reports the duty flag for the given ambulance.
func (r *Roster) IsOnDuty(id int) (bool, error) {
	for _, a := range r.ring {
		if a.ID == id {
			return a.OnDuty, nil
		}
	}
	return false, ErrNotFound
}

// Remove takes an ambulance out of the rotation.
func (r *Roster) Remove(id int) error {
	for i := range r.ring {
		if r.ring[i].ID == id {
			r.ring = append(r.ring[:i], r.ring[i+1:]...)
			return r.save()
		}
	}
	return ErrNotFound
}

func shiftAssigned(a Ambulance) bool {
	return a.ShiftStart != 0 || a.ShiftEnd != 0
}

// inShift reports whether now falls inside the ambulance's shift window.
// A window with start > end spans midnight.
func inShift(a Ambulance, now int) bool {
	if !shiftAssigned(a) {
		return false
	}
	if a.ShiftStart < a.ShiftEnd {
		return now >= a.ShiftStart && now < a.ShiftEnd
	}
	return now >= a.ShiftStart || now < a.ShiftEnd
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("clock %q: want HH:MM", s)
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("clock %q: bad hour", s)
	}
	minutes, err := strconv.Atoi(m)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock %q: bad minute", s)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	if minutes < 0 || minutes >= MinutesPerDay {
		return "--:--"
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func (r *Roster) save() error {
	var b strings.Builder
	b.WriteString(fileHeader)
	b.WriteByte('\n')
	for _, a := range r.ring {
		onDuty := "0"
		if a.OnDuty {
			onDuty = "1"
		}
		fmt.Fprintf(&b, "%d,%s,%s,%s,%d,%d,%s\n",
			a.ID, a.VehicleReg, a.DriverName, a.Notes, a.ShiftStart, a.ShiftEnd, onDuty)
	}
	if err := atomic.WriteFile(r.path, strings.NewReader(b.String())); err != nil {
		return fmt.Errorf("save %s: %w", r.path, err)
	}
	return nil
}

func parseAmbulance(line string) (Ambulance, bool) {
	fields := strings.Split(line, ",")
	if len(fields) != 7 && len(fields) != 4 {
		return Ambulance{}, false
	}
	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return Ambulance{}, false
	}
	a := Ambulance{
		ID:         id,
		VehicleReg: strings.TrimSpace(fields[1]),
		DriverName: strings.TrimSpace(fields[2]),
		Notes:      strings.TrimSpace(fields[3]),
	}
	if len(fields) == 7 {
		start, err1 := strconv.Atoi(strings.TrimSpace(fields[4]))
		end, err2 := strconv.Atoi(strings.TrimSpace(fields[5]))
		if err1 == nil && err2 == nil {
			a.ShiftStart, a.ShiftEnd = start, end
			a.OnDuty = strings.TrimSpace(fields[6]) == "1"
		}
	}
	return a, true
}
