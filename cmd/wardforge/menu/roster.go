package menu

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/mrsinham/wardforge/internal/roster"
)

func (s *session) rosterMenu() error {
	for {
		choice, err := pickAction("Ambulance Rotation",
			huh.NewOption("Register an ambulance", "register"),
			huh.NewOption("Advance the rotation", "rotate"),
			huh.NewOption("Assign a shift", "shift"),
			huh.NewOption("Show rotation order", "schedule"),
			huh.NewOption("Show by shift time", "by-time"),
			huh.NewOption("Show on-duty vehicles", "on-duty"),
			huh.NewOption("Remove an ambulance", "remove"),
		)
		if err != nil {
			return err
		}

		switch choice {
		case "":
			return nil
		case "register":
			if err := s.registerForm(); err != nil {
				return err
			}
		case "rotate":
			head, rerr := s.roster.Rotate()
			if rerr != nil {
				reportErr(rerr)
				continue
			}
			fmt.Printf("Rotation complete. New head is ambulance %d (%s).\n", head.ID, head.VehicleReg)
		case "shift":
			if err := s.shiftForm(); err != nil {
				return err
			}
		case "schedule", "by-time", "on-duty":
			if rerr := s.roster.RefreshDuty(nowMinutes()); rerr != nil {
				reportErr(rerr)
				continue
			}
			switch choice {
			case "schedule":
				s.printRoster(s.roster.Schedule())
			case "by-time":
				s.printRoster(s.roster.ByShiftTime())
			case "on-duty":
				s.printRoster(s.roster.OnDuty())
			}
		case "remove":
			if err := s.removeForm(); err != nil {
				return err
			}
		}
	}
}

func (s *session) registerForm() error {
	var reg, driver, notes string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Vehicle Registration").
			Value(&reg).
			Validate(validateRecordField("vehicle registration")),
		huh.NewInput().
			Title("Driver Name").
			Value(&driver).
			Validate(validateRecordField("driver name")),
		huh.NewInput().
			Title("Notes (optional)").
			Value(&notes),
	))
	if err := form.Run(); err != nil {
		return err
	}

	a, err := s.roster.Register(reg, driver, notes)
	if err != nil {
		reportErr(err)
		return nil
	}
	fmt.Printf("Registered ambulance %d (%s, driver %s)\n", a.ID, a.VehicleReg, a.DriverName)
	return nil
}

func (s *session) shiftForm() error {
	id, ok, err := s.pickAmbulance("Ambulance to assign")
	if err != nil || !ok {
		return err
	}

	var start, end string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Shift Start (HH:MM)").
			Value(&start).
			Validate(validateClock),
		huh.NewInput().
			Title("Shift End (HH:MM)").
			Value(&end).
			Validate(validateClock),
	))
	if err := form.Run(); err != nil {
		return err
	}

	startMin, _ := roster.ParseClock(start)
	endMin, _ := roster.ParseClock(end)
	if err := s.roster.AssignShift(id, startMin, endMin); err != nil {
		reportErr(err)
		return nil
	}
	fmt.Printf("Assigned shift %s-%s to ambulance %d.\n",
		roster.FormatClock(startMin), roster.FormatClock(endMin), id)
	return nil
}

func (s *session) removeForm() error {
	id, ok, err := s.pickAmbulance("Ambulance to remove")
	if err != nil || !ok {
		return err
	}
	if rerr := s.roster.Remove(id); rerr != nil {
		reportErr(rerr)
		return nil
	}
	fmt.Printf("Removed ambulance %d from the rotation.\n", id)
	return nil
}

// pickAmbulance lets the user select a vehicle from the current rotation.
// ok is false when the rotation is empty.
func (s *session) pickAmbulance(title string) (id int, ok bool, err error) {
	vehicles := s.roster.Schedule()
	if len(vehicles) == 0 {
		fmt.Println("No ambulances registered.")
		return 0, false, nil
	}
	options := make([]huh.Option[int], 0, len(vehicles))
	for _, a := range vehicles {
		options = append(options, huh.NewOption(
			fmt.Sprintf("%d: %s (driver %s)", a.ID, a.VehicleReg, a.DriverName), a.ID))
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().Title(title).Options(options...).Value(&id),
	))
	if err := form.Run(); err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s *session) printRoster(vehicles []roster.Ambulance) {
	if len(vehicles) == 0 {
		fmt.Println("No ambulances to show.")
		return
	}
	fmt.Println(subtitleStyle.Render("ID | Vehicle | Driver | Shift | On duty | Notes"))
	for _, a := range vehicles {
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
}

func validateClock(v string) error {
	if _, err := roster.ParseClock(v); err != nil {
		return fmt.Errorf("use 24-hour HH:MM")
	}
	return nil
}
