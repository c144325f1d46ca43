// Package inventory tracks medical supply batches as a LIFO stack: using
// stock always takes the most recently added batch.
package inventory

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
)

var (
	// ErrEmpty is returned when there is no stock to use.
	ErrEmpty = errors.New("no supplies in stock")

	// ErrInvalid is returned for a rejected supply record.
	ErrInvalid = errors.New("supply needs a comma-free name and a positive quantity")
)

// Supply is one batch of stock. Notes is free text and may contain commas; it
// is always serialized as the last field so the parser can take the remainder
// of the line.
type Supply struct {
	ID       int
	Name     string
	Quantity int
	Batch    string
	Expiry   string // YYYY-MM-DD
	Notes    string
}

// Stack holds supplies most-recent-first and persists to a file after every
// mutation. On disk the last line is the top of the stack.
type Stack struct {
	items  []Supply // items[len-1] is the top
	nextID int
	path   string
}

// NewStack returns an empty stack persisted at path.
func NewStack(path string) *Stack {
	return &Stack{nextID: 1, path: path}
}

// Path returns the backing file path.
func (s *Stack) Path() string { return s.path }

// Len reports the number of batches in stock.
func (s *Stack) Len() int { return len(s.items) }

// Load restores the stack from its file, pushing in file order so the last
// line ends up on top. Malformed lines are skipped and counted; a missing
// file leaves the stack empty.
func (s *Stack) Load() (loaded, skipped int, err error) {
	f, err := os.Open(s.path)
	if err != nil {
		return 0, 0, nil
	}
	defer f.Close()

	s.items = s.items[:0]
	maxID := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		sup, ok := parseSupply(line)
		if !ok {
			skipped++
			continue
		}
		s.items = append(s.items, sup)
		loaded++
		if sup.ID > maxID {
			maxID = sup.ID
		}
	}
	s.nextID = maxID + 1
	if err := sc.Err(); err != nil {
		return loaded, skipped, fmt.Errorf("read %s: %w", s.path, err)
	}
	return loaded, skipped, nil
}

// Add pushes a new batch with an auto-assigned id and persists the stack.
// The push is kept in memory even if the save fails.
func (s *Stack) Add(name string, quantity int, batch, expiry, notes string) (Supply, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsRune(name, ',') || quantity <= 0 {
		return Supply{}, ErrInvalid
	}
	if strings.ContainsRune(batch+expiry, ',') {
		return Supply{}, ErrInvalid
	}

	sup := Supply{
		ID:       s.nextID,
		Name:     name,
		Quantity: quantity,
		Batch:    strings.TrimSpace(batch),
		Expiry:   strings.TrimSpace(expiry),
		Notes:    strings.TrimSpace(notes),
	}
	s.nextID++
	s.items = append(s.items, sup)
	return sup, s.save()
}

// UseLast pops and returns the most recently added batch, then persists.
func (s *Stack) UseLast() (Supply, error) {
	if len(s.items) == 0 {
		return Supply{}, ErrEmpty
	}
	top := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return top, s.save()
}

// Supplies returns the stock top-down: most recently added first.
func (s *Stack) Supplies() []Supply {
	out := make([]Supply, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		out = append(out, s.items[i])
	}
	return out
}

func (s *Stack) save() error {
	var b strings.Builder
	for _, sup := range s.items { // bottom first, so load restores LIFO order
		fmt.Fprintf(&b, "%d,%s,%d,%s,%s,%s\n", sup.ID, sup.Name, sup.Quantity, sup.Batch, sup.Expiry, sup.Notes)
	}
	if err := atomic.WriteFile(s.path, strings.NewReader(b.String())); err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	return nil
}

// parseSupply reads id,name,quantity,batch,expiry,notes. Notes takes the
// remainder of the line, commas included.
func parseSupply(line string) (Supply, bool) {
	fields := strings.SplitN(line, ",", 6)
	if len(fields) < 6 {
		return Supply{}, false
	}
	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return Supply{}, false
	}
	qty, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return Supply{}, false
	}
	return Supply{
		ID:       id,
		Name:     strings.TrimSpace(fields[1]),
		Quantity: qty,
		Batch:    strings.TrimSpace(fields[3]),
		Expiry:   strings.TrimSpace(fields[4]),
		Notes:    strings.TrimSpace(fields[5]),
	}, true
}
