// Package menu implements the interactive department menus shown when
// wardforge is started without a command.
package menu

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/mrsinham/wardforge/internal/admissions"
	"github.com/mrsinham/wardforge/internal/config"
	"github.com/mrsinham/wardforge/internal/inventory"
	"github.com/mrsinham/wardforge/internal/roster"
	"github.com/mrsinham/wardforge/internal/triage"
	"github.com/mrsinham/wardforge/internal/triage/caselog"
)

// session carries the loaded department state across menu screens.
type session struct {
	cfg    config.Config
	triage *triage.Service
	queue  *admissions.Queue
	stock  *inventory.Stack
	roster *roster.Roster
}

// Run starts the interactive menus and blocks until the user quits or
// cancels. Department records are loaded up front so every screen works
// on the same state.
func Run(cfg config.Config, version string) error {
	fmt.Println(titleStyle.Render("WARDFORGE " + version))
	fmt.Println(subtitleStyle.Render("Hospital patient care record keeper"))

	s := &session{cfg: cfg}
	if err := s.load(); err != nil {
		return err
	}

	for {
		var choice string
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Main Menu").
				Options(
					huh.NewOption("Emergency department (triage)", "triage"),
					huh.NewOption("Patient admissions", "admissions"),
					huh.NewOption("Medical supplies", "inventory"),
					huh.NewOption("Ambulance rotation", "roster"),
					huh.NewOption("Quit", "quit"),
				).
				Value(&choice),
		))
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		var err error
		switch choice {
		case "triage":
			err = s.triageMenu()
		case "admissions":
			err = s.admissionsMenu()
		case "inventory":
			err = s.inventoryMenu()
		case "roster":
			err = s.rosterMenu()
		case "quit":
			fmt.Println("Goodbye.")
			return nil
		}
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
	}
}

func (s *session) load() error {
	s.triage = triage.NewService(triage.NewStore(), caselog.New(s.cfg.CaseLogPath()))
	loaded, skipped, err := s.triage.LoadLog()
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d existing emergency cases (%d lines skipped).\n", loaded, skipped)

	imported, dropped, err := s.triage.ImportIntake(s.cfg.IntakePath())
	if err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("Warning: %v", err)))
	}
	fmt.Printf("Imported %d new patients from intake (%d rows skipped).\n", imported, dropped)

	s.queue = admissions.NewQueue(s.cfg.IntakePath())
	if _, _, err := s.queue.Load(); err != nil {
		return err
	}
	s.stock = inventory.NewStack(s.cfg.SupplyPath())
	if _, _, err := s.stock.Load(); err != nil {
		return err
	}
	s.roster = roster.NewRoster(s.cfg.RosterPath())
	if _, _, err := s.roster.Load(); err != nil {
		return err
	}
	return nil
}

// reportErr renders an operation failure without leaving the menu loop.
func reportErr(err error) {
	fmt.Println(errorStyle.Render(fmt.Sprintf("Error: %v", err)))
}

// pickAction shows a department submenu and returns the chosen action key,
// or "" when the user goes back.
func pickAction(title string, options ...huh.Option[string]) (string, error) {
	options = append(options, huh.NewOption("Back to main menu", ""))
	var choice string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(title).
			Options(options...).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return choice, nil
}

func validateRequired(field string) func(string) error {
	return func(v string) error {
		if v == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func nowMinutes() int {
	now := time.Now()
	return now.Hour()*60 + now.Minute()
}
