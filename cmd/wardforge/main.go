// Wardforge keeps a small hospital's operational records: the admissions
// queue, the emergency department's triage cases, supply stock, and the
// ambulance duty rotation. Run with no arguments for the interactive menus,
// or with a command for scripted one-shot use.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/mrsinham/wardforge/cmd/wardforge/menu"
	"github.com/mrsinham/wardforge/internal/admissions"
	"github.com/mrsinham/wardforge/internal/config"
	"github.com/mrsinham/wardforge/internal/inventory"
	"github.com/mrsinham/wardforge/internal/roster"
	"github.com/mrsinham/wardforge/internal/triage"
	"github.com/mrsinham/wardforge/internal/triage/caselog"
	"github.com/mrsinham/wardforge/internal/util"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	command := ""
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}

	switch command {
	case "":
		fs := newFlagSet("wardforge")
		cfg, err := parseConfig(fs, args)
		if err != nil {
			return err
		}
		return menu.Run(cfg, version)
	case "log":
		return runLog(args)
	case "process":
		return runProcess(args)
	case "cases":
		return runCases(args)
	case "search":
		return runSearch(args)
	case "reprioritize":
		return runReprioritize(args)
	case "admit":
		return runAdmit(args)
	case "discharge":
		return runDischarge(args)
	case "queue":
		return runQueue(args)
	case "addstock":
		return runAddStock(args)
	case "usestock":
		return runUseStock(args)
	case "stock":
		return runStock(args)
	case "register":
		return runRegister(args)
	case "rotate":
		return runRotate(args)
	case "shift":
		return runShift(args)
	case "schedule":
		return runSchedule(args)
	case "seed":
		return runSeed(args)
	case "version":
		fmt.Printf("wardforge %s\n", version)
		return nil
	case "help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func usage() {
	fmt.Println(`wardforge - hospital patient care record keeper

Usage:
  wardforge [flags]                 interactive menus
  wardforge <command> [flags]       one-shot operation

Triage:
  log           -name -type [-priority]     log an emergency case
  process                                   handle the most urgent case
  cases                                     list pending cases by urgency
  search        -name | -type               find pending cases
  reprioritize  (-id | -patient | -pos) -priority

Admissions:
  admit         -name -condition            enqueue a patient
  discharge                                 discharge the earliest patient
  queue                                     show the waiting queue

Inventory:
  addstock      -name -qty [-batch -expiry -notes]
  usestock                                  use the last added batch
  stock                                     show current stock

Roster:
  rotate                                    advance the duty rotation
  register      -reg -driver [-notes]       add an ambulance
  shift         -id -start -end             assign a shift (HH:MM)
  schedule      [-by-time] [-on-duty]       show the rotation

Other:
  seed          [-patients N] [-rng-seed S] fabricate demo intake data
  version

Common flags: -data-dir DIR, -config FILE (YAML)`)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.String("data-dir", "", "data directory (overrides config)")
	fs.String("config", "", "YAML config file")
	return fs
}

// parseConfig parses fs and resolves the effective configuration from the
// -config and -data-dir flags, creating the data directory.
func parseConfig(fs *flag.FlagSet, args []string) (config.Config, error) {
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}
	cfg := config.Default()
	if path := fs.Lookup("config").Value.String(); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if dir := fs.Lookup("data-dir").Value.String(); dir != "" {
		cfg.DataDir = dir
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openTriage loads the case log and imports the admissions intake feed,
// reporting both, then returns the ready service.
func openTriage(cfg config.Config) (*triage.Service, error) {
	svc := triage.NewService(triage.NewStore(), caselog.New(cfg.CaseLogPath()))
	loaded, skipped, err := svc.LoadLog()
	if err != nil {
		return nil, err
	}
	fmt.Printf("Loaded %d existing emergency cases (%d lines skipped).\n", loaded, skipped)
	imported, dropped, err := svc.ImportIntake(cfg.IntakePath())
	if err != nil {
		// A failed intake append leaves the store usable; report and go on.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	fmt.Printf("Imported %d new patients from intake (%d rows skipped).\n", imported, dropped)
	return svc, nil
}

func runLog(args []string) error {
	fs := newFlagSet("log")
	name := fs.String("name", "", "patient name")
	emergencyType := fs.String("type", "", "emergency type")
	priority := fs.Int("priority", 0, "priority 1-10 (1 = critical); ignored for standard categories")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	svc, err := openTriage(cfg)
	if err != nil {
		return err
	}

	c, err := svc.LogCase(*name, *emergencyType, *priority)
	if err != nil {
		return err
	}
	fmt.Printf("Logged case %d: %s (%s, priority %d)\n", c.ID, c.PatientName, c.EmergencyType, c.Priority)
	return nil
}

func runProcess(args []string) error {
	fs := newFlagSet("process")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	svc, err := openTriage(cfg)
	if err != nil {
		return err
	}

	c, err := svc.ProcessMostUrgent()
	if err != nil {
		return err
	}
	fmt.Printf("Processing case %d: %s (%s, priority %d)\n", c.ID, c.PatientName, c.EmergencyType, c.Priority)
	return nil
}

func runCases(args []string) error {
	fs := newFlagSet("cases")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	svc, err := openTriage(cfg)
	if err != nil {
		return err
	}

	cases := svc.PendingCases()
	if len(cases) == 0 {
		fmt.Println("No pending cases.")
		return nil
	}
	fmt.Println("No. | ID | Priority | Patient | Type")
	for i, c := range cases {
		fmt.Printf("%3d | %2d | %8d | %s | %s\n", i+1, c.ID, c.Priority, c.PatientName, c.EmergencyType)
	}
	return nil
}

func runSearch(args []string) error {
	fs := newFlagSet("search")
	name := fs.String("name", "", "patient name to search")
	emergencyType := fs.String("type", "", "emergency type to search")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	if (*name == "") == (*emergencyType == "") {
		return fmt.Errorf("search needs exactly one of -name or -type")
	}
	svc, err := openTriage(cfg)
	if err != nil {
		return err
	}

	var matches []triage.Case
	if *name != "" {
		matches, err = svc.SearchByName(*name)
	} else {
		matches, err = svc.SearchByType(*emergencyType)
	}
	if err != nil {
		return err
	}
	for _, c := range matches {
		fmt.Printf("Case %d: %s (%s, priority %d)\n", c.ID, c.PatientName, c.EmergencyType, c.Priority)
	}
	return nil
}

func runReprioritize(args []string) error {
	fs := newFlagSet("reprioritize")
	id := fs.Int("id", 0, "case id")
	patient := fs.String("patient", "", "patient name")
	pos := fs.Int("pos", 0, "1-based list position")
	priority := fs.Int("priority", 0, "new priority 1-10")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	svc, err := openTriage(cfg)
	if err != nil {
		return err
	}

	switch {
	case *id > 0:
		err = svc.UpdatePriority(*id, *priority)
	case *patient != "":
		err = svc.UpdatePriorityByName(*patient, *priority)
	case *pos > 0:
		err = svc.UpdatePriorityAt(*pos, *priority)
	default:
		return fmt.Errorf("reprioritize needs one of -id, -patient or -pos")
	}
	if err != nil {
		return err
	}
	fmt.Println("Priority updated and list reordered.")
	return nil
}

func openQueue(cfg config.Config) (*admissions.Queue, error) {
	q := admissions.NewQueue(cfg.IntakePath())
	if _, _, err := q.Load(); err != nil {
		return nil, err
	}
	return q, nil
}

func runAdmit(args []string) error {
	fs := newFlagSet("admit")
	name := fs.String("name", "", "patient name")
	condition := fs.String("condition", "", "condition type")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	q, err := openQueue(cfg)
	if err != nil {
		return err
	}

	p, err := q.Admit(*name, *condition)
	if err != nil {
		return err
	}
	fmt.Printf("Admitted %s (id %d, %s) at queue position %d.\n", p.Name, p.ID, p.Condition, q.Len())
	return nil
}

func runDischarge(args []string) error {
	fs := newFlagSet("discharge")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	q, err := openQueue(cfg)
	if err != nil {
		return err
	}

	p, err := q.Discharge()
	if err != nil {
		return err
	}
	fmt.Printf("Discharged %s (id %d, %s); %d patients remaining.\n", p.Name, p.ID, p.Condition, q.Len())
	return nil
}

func runQueue(args []string) error {
	fs := newFlagSet("queue")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	q, err := openQueue(cfg)
	if err != nil {
		return err
	}

	patients := q.Patients()
	if len(patients) == 0 {
		fmt.Println("No patients waiting.")
		return nil
	}
	fmt.Println("Pos | ID | Patient | Condition")
	for i, p := range patients {
		fmt.Printf("%3d | %2d | %s | %s\n", i+1, p.ID, p.Name, p.Condition)
	}
	return nil
}

func openStock(cfg config.Config) (*inventory.Stack, error) {
	s := inventory.NewStack(cfg.SupplyPath())
	if _, _, err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

func runAddStock(args []string) error {
	fs := newFlagSet("addstock")
	name := fs.String("name", "", "supply name")
	qty := fs.Int("qty", 0, "quantity")
	batch := fs.String("batch", "", "batch code")
	expiry := fs.String("expiry", "", "expiry date YYYY-MM-DD")
	notes := fs.String("notes", "", "free-text notes")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	s, err := openStock(cfg)
	if err != nil {
		return err
	}

	sup, err := s.Add(*name, *qty, *batch, *expiry, *notes)
	if err != nil {
		return err
	}
	fmt.Printf("Added supply %d: %s x%d\n", sup.ID, sup.Name, sup.Quantity)
	return nil
}

func runUseStock(args []string) error {
	fs := newFlagSet("usestock")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	s, err := openStock(cfg)
	if err != nil {
		return err
	}

	sup, err := s.UseLast()
	if err != nil {
		return err
	}
	fmt.Printf("Used supply %d: %s x%d (last added)\n", sup.ID, sup.Name, sup.Quantity)
	return nil
}

func runStock(args []string) error {
	fs := newFlagSet("stock")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	s, err := openStock(cfg)
	if err != nil {
		return err
	}

	supplies := s.Supplies()
	if len(supplies) == 0 {
		fmt.Println("No supplies in stock.")
		return nil
	}
	fmt.Println("ID | Supply | Qty | Batch | Expiry | Notes")
	for _, sup := range supplies {
		fmt.Printf("%2d | %s | %d | %s | %s | %s\n", sup.ID, sup.Name, sup.Quantity, sup.Batch, sup.Expiry, sup.Notes)
	}
	return nil
}

func openRoster(cfg config.Config) (*roster.Roster, error) {
	r := roster.NewRoster(cfg.RosterPath())
	if _, _, err := r.Load(); err != nil {
		return nil, err
	}
	return r, nil
}

func runRegister(args []string) error {
	fs := newFlagSet("register")
	reg := fs.String("reg", "", "vehicle registration")
	driver := fs.String("driver", "", "driver name")
	notes := fs.String("notes", "", "notes")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	r, err := openRoster(cfg)
	if err != nil {
		return err
	}

	a, err := r.Register(*reg, *driver, *notes)
	if err != nil {
		return err
	}
	fmt.Printf("Registered ambulance %d (%s, driver %s)\n", a.ID, a.VehicleReg, a.DriverName)
	return nil
}

func runRotate(args []string) error {
	fs := newFlagSet("rotate")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	r, err := openRoster(cfg)
	if err != nil {
		return err
	}

	head, err := r.Rotate()
	if err != nil {
		return err
	}
	fmt.Printf("Rotation complete. New head is ambulance %d (%s).\n", head.ID, head.VehicleReg)
	return nil
}

func runShift(args []string) error {
	fs := newFlagSet("shift")
	id := fs.Int("id", 0, "ambulance id")
	start := fs.String("start", "", "shift start HH:MM")
	end := fs.String("end", "", "shift end HH:MM")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	r, err := openRoster(cfg)
	if err != nil {
		return err
	}

	startMin, err := roster.ParseClock(*start)
	if err != nil {
		return err
	}
	endMin, err := roster.ParseClock(*end)
	if err != nil {
		return err
	}
	if err := r.AssignShift(*id, startMin, endMin); err != nil {
		return err
	}
	fmt.Printf("Assigned shift %s-%s to ambulance %d.\n",
		roster.FormatClock(startMin), roster.FormatClock(endMin), *id)
	return nil
}

func runSchedule(args []string) error {
	fs := newFlagSet("schedule")
	byTime := fs.Bool("by-time", false, "sort by shift start instead of rotation order")
	onDuty := fs.Bool("on-duty", false, "show only vehicles currently on duty")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	r, err := openRoster(cfg)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := r.RefreshDuty(now.Hour()*60 + now.Minute()); err != nil {
		return err
	}

	var list []roster.Ambulance
	switch {
	case *onDuty:
		list = r.OnDuty()
	case *byTime:
		list = r.ByShiftTime()
	default:
		list = r.Schedule()
	}
	if len(list) == 0 {
		fmt.Println("No ambulances to show.")
		return nil
	}
	fmt.Println("ID | Vehicle | Driver | Shift | On duty | Notes")
	for _, a := range list {
		shift := "unassigned"
		if a.ShiftStart != 0 || a.ShiftEnd != 0 {
			shift = roster.FormatClock(a.ShiftStart) + "-" + roster.FormatClock(a.ShiftEnd)
		}
		duty := "no"
		if a.OnDuty {
			duty = "yes"
		}
		fmt.Printf("%2d | %s | %s | %s | %s | %s\n", a.ID, a.VehicleReg, a.DriverName, shift, duty, a.Notes)
	}
	return nil
}

func runSeed(args []string) error {
	fs := newFlagSet("seed")
	patients := fs.Int("patients", 10, "number of demo patients to admit")
	rngSeed := fs.Int64("rng-seed", 0, "seed for reproducible demo data (0 = random)")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	if *patients <= 0 {
		return fmt.Errorf("-patients must be positive")
	}
	q, err := openQueue(cfg)
	if err != nil {
		return err
	}

	var rng *rand.Rand
	if *rngSeed != 0 {
		rng = rand.New(rand.NewPCG(uint64(*rngSeed), 0))
	}
	admitted := 0
	for i := 0; i < *patients; i++ {
		if _, err := q.Admit(util.GeneratePatientName(rng), util.GenerateCondition(rng)); err != nil {
			if admitted > 0 {
				break // queue full; keep what fit
			}
			return err
		}
		admitted++
	}
	fmt.Printf("Seeded %d demo patients into %s\n", admitted, q.Path())
	return nil
}
