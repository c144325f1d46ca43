// Package admissions manages the patient intake queue. Admissions are strictly
// first-in first-out: patients are discharged in arrival order, with urgent
// cases handled by the triage module instead. The queue file doubles as the
// triage intake feed.
package admissions

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
)

// Capacity bounds the waiting queue.
const Capacity = 100

var (
	// ErrFull is returned when the queue holds Capacity patients.
	ErrFull = errors.New("admission queue full")

	// ErrEmpty is returned when a discharge finds nobody waiting.
	ErrEmpty = errors.New("admission queue empty")

	// ErrNotFound is returned when an id lookup matches nobody.
	ErrNotFound = errors.New("no patient with that id")

	// ErrInvalid is returned for empty or comma-carrying fields.
	ErrInvalid = errors.New("name and condition must be non-empty and comma-free")
)

// Patient is one waiting admission record.
type Patient struct {
	ID        int
	Name      string
	Condition string
}

// Queue is a bounded circular FIFO of waiting patients, persisted to a file
// of id,name,condition lines after every mutation. Identifiers are monotonic
// within the file's lifetime: load resumes the counter at max id + 1.
type Queue struct {
	slots  [Capacity]Patient
	front  int
	size   int
	nextID int
	path   string
}

// NewQueue returns an empty queue persisted at path.
func NewQueue(path string) *Queue {
	return &Queue{nextID: 1, path: path}
}

// Path returns the backing file path.
func (q *Queue) Path() string { return q.path }

// Len reports how many patients are waiting.
func (q *Queue) Len() int { return q.size }

// NextID reports the id the next admission will receive.
func (q *Queue) NextID() int { return q.nextID }

// Load restores the queue from its file. Malformed lines are skipped and
// counted; a missing file leaves the queue empty.
func (q *Queue) Load() (loaded, skipped int, err error) {
	f, err := os.Open(q.path)
	if err != nil {
		return 0, 0, nil
	}
	defer f.Close()

	q.front, q.size = 0, 0
	maxID := 0
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
		if q.size >= Capacity {
			skipped++
			continue
		}
		q.slots[(q.front+q.size)%Capacity] = Patient{
			ID:        id,
			Name:      strings.TrimSpace(fields[1]),
			Condition: strings.TrimSpace(fields[2]),
		}
		q.size++
		loaded++
		if id > maxID {
			maxID = id
		}
	}
	q.nextID = maxID + 1
	if err := sc.Err(); err != nil {
		return loaded, skipped, fmt.Errorf("read %s: %w", q.path, err)
	}
	return loaded, skipped, nil
}

// Admit enqueues a new patient with an auto-assigned id and persists the
// queue. The admission is kept in memory even if the save fails; the save
// error is returned alongside the admitted patient.
func (q *Queue) Admit(name, condition string) (Patient, error) {
	name = strings.TrimSpace(name)
	condition = strings.TrimSpace(condition)
	if name == "" || condition == "" || strings.ContainsRune(name+condition, ',') {
		return Patient{}, ErrInvalid
	}
	if q.size >= Capacity {
		return Patient{}, ErrFull
	}

	p := Patient{ID: q.nextID, Name: name, Condition: condition}
	q.nextID++
	q.slots[(q.front+q.size)%Capacity] = p
	q.size++
	return p, q.save()
}

// Discharge dequeues the earliest admitted patient and persists the queue.
func (q *Queue) Discharge() (Patient, error) {
	if q.size == 0 {
		return Patient{}, ErrEmpty
	}
	p := q.slots[q.front]
	q.front = (q.front + 1) % Capacity
	q.size--
	return p, q.save()
}

// Patients returns the waiting list in FIFO order, earliest first.
func (q *Queue) Patients() []Patient {
	out := make([]Patient, 0, q.size)
	for i := 0; i < q.size; i++ {
		out = append(out, q.slots[(q.front+i)%Capacity])
	}
	return out
}

// FindByID returns the patient with the given id and their 1-based queue
// position.
func (q *Queue) FindByID(id int) (Patient, int, error) {
	for i := 0; i < q.size; i++ {
		p := q.slots[(q.front+i)%Capacity]
		if p.ID == id {
			return p, i + 1, nil
		}
	}
	return Patient{}, 0, ErrNotFound
}

func (q *Queue) save() error {
	var b strings.Builder
	for _, p := range q.Patients() {
		b.WriteString(strconv.Itoa(p.ID))
		b.WriteByte(',')
		b.WriteString(p.Name)
		b.WriteByte(',')
		b.WriteString(p.Condition)
		b.WriteByte('\n')
	}
	if err := atomic.WriteFile(q.path, strings.NewReader(b.String())); err != nil {
		return fmt.Errorf("save %s: %w", q.path, err)
	}
	return nil
}
