package menu

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/mrsinham/wardforge/internal/triage"
)

func (s *session) triageMenu() error {
	for {
		choice, err := pickAction("Emergency Department",
			huh.NewOption("Log emergency case", "log"),
			huh.NewOption("Process most urgent case", "process"),
			huh.NewOption("Show pending cases", "cases"),
			huh.NewOption("Search by patient name", "search-name"),
			huh.NewOption("Search by emergency type", "search-type"),
			huh.NewOption("Change case priority", "reprioritize"),
		)
		if err != nil {
			return err
		}

		switch choice {
		case "":
			return nil
		case "log":
			err = s.logCaseForm()
		case "process":
			c, perr := s.triage.ProcessMostUrgent()
			if perr != nil {
				reportErr(perr)
				continue
			}
			fmt.Println(urgentStyle.Render(fmt.Sprintf(
				"Processing case %d: %s (%s, priority %d)", c.ID, c.PatientName, c.EmergencyType, c.Priority)))
		case "cases":
			s.printCases(s.triage.PendingCases())
		case "search-name", "search-type":
			err = s.searchForm(choice == "search-name")
		case "reprioritize":
			err = s.reprioritizeForm()
		}
		if err != nil {
			return err
		}
	}
}

func (s *session) logCaseForm() error {
	var name, category, customType, priorityStr string

	options := make([]huh.Option[string], 0, len(triage.Categories)+1)
	for _, cat := range triage.Categories {
		options = append(options, huh.NewOption(
			fmt.Sprintf("%s (priority %d)", cat.Name, cat.Priority), cat.Name))
	}
	options = append(options, huh.NewOption("Other emergency", "other"))

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Patient Name").
				Value(&name).
				Validate(validateRecordField("patient name")),
			huh.NewSelect[string]().
				Title("Emergency Type").
				Options(options...).
				Value(&category),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Describe the emergency").
				Value(&customType).
				Validate(validateRecordField("emergency type")),
			huh.NewInput().
				Title("Priority (1 = critical, 10 = routine)").
				Value(&priorityStr).
				Validate(validatePriority),
		).WithHideFunc(func() bool { return category != "other" }),
	)
	if err := form.Run(); err != nil {
		return err
	}

	emergencyType, priority := category, 0
	if category == "other" {
		emergencyType = customType
		priority, _ = strconv.Atoi(strings.TrimSpace(priorityStr))
	}
	c, err := s.triage.LogCase(name, emergencyType, priority)
	if err != nil {
		reportErr(err)
		return nil
	}
	fmt.Printf("Logged case %d: %s (%s, priority %d)\n", c.ID, c.PatientName, c.EmergencyType, c.Priority)
	return nil
}

func (s *session) searchForm(byName bool) error {
	title := "Emergency type to find"
	if byName {
		title = "Patient name to find"
	}
	var query string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title(title).Value(&query).Validate(validateRequired("search term")),
	))
	if err := form.Run(); err != nil {
		return err
	}

	var matches []triage.Case
	var err error
	if byName {
		matches, err = s.triage.SearchByName(query)
	} else {
		matches, err = s.triage.SearchByType(query)
	}
	if err != nil {
		reportErr(err)
		return nil
	}
	s.printCases(matches)
	return nil
}

func (s *session) reprioritizeForm() error {
	cases := s.triage.PendingCases()
	if len(cases) == 0 {
		fmt.Println("No pending cases.")
		return nil
	}
	s.printCases(cases)

	options := make([]huh.Option[int], 0, len(cases))
	for _, c := range cases {
		options = append(options, huh.NewOption(
			fmt.Sprintf("Case %d: %s (%s, priority %d)", c.ID, c.PatientName, c.EmergencyType, c.Priority),
			c.ID))
	}

	var id int
	var priorityStr string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title("Case to reprioritize").
			Options(options...).
			Value(&id),
		huh.NewInput().
			Title("New priority (1 = critical, 10 = routine)").
			Value(&priorityStr).
			Validate(validatePriority),
	))
	if err := form.Run(); err != nil {
		return err
	}

	priority, _ := strconv.Atoi(strings.TrimSpace(priorityStr))
	if err := s.triage.UpdatePriority(id, priority); err != nil {
		reportErr(err)
		return nil
	}
	fmt.Println("Priority updated and list reordered.")
	return nil
}

func (s *session) printCases(cases []triage.Case) {
	if len(cases) == 0 {
		fmt.Println("No pending cases.")
		return
	}
	fmt.Println(subtitleStyle.Render("No. | ID | Priority | Patient | Type"))
	for i, c := range cases {
		line := fmt.Sprintf("%3d | %2d | %8d | %s | %s", i+1, c.ID, c.Priority, c.PatientName, c.EmergencyType)
		if c.Priority == triage.MinPriority {
			line = urgentStyle.Render(line)
		}
		fmt.Println(line)
	}
}

// validateRecordField rejects empty values and the comma used as the record
// file delimiter.
func validateRecordField(field string) func(string) error {
	return func(v string) error {
		v = strings.TrimSpace(v)
		if v == "" {
			return fmt.Errorf("%s is required", field)
		}
		if strings.Contains(v, ",") {
			return fmt.Errorf("%s must not contain commas", field)
		}
		return nil
	}
}

func validatePriority(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("priority must be a number")
	}
	if n < triage.MinPriority || n > triage.MaxPriority {
		return fmt.Errorf("priority must be between %d and %d", triage.MinPriority, triage.MaxPriority)
	}
	return nil
}
