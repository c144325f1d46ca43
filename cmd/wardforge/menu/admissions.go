package menu

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/mrsinham/wardforge/internal/admissions"
)

func (s *session) admissionsMenu() error {
	for {
		choice, err := pickAction("Patient Admissions",
			huh.NewOption("Admit a patient", "admit"),
			huh.NewOption("Discharge earliest patient", "discharge"),
			huh.NewOption("Show waiting queue", "queue"),
		)
		if err != nil {
			return err
		}

		switch choice {
		case "":
			return nil
		case "admit":
			if err := s.admitForm(); err != nil {
				return err
			}
		case "discharge":
			p, derr := s.queue.Discharge()
			if derr != nil {
				reportErr(derr)
				continue
			}
			fmt.Printf("Discharged %s (id %d, %s); %d patients remaining.\n",
				p.Name, p.ID, p.Condition, s.queue.Len())
		case "queue":
			s.printQueue(s.queue.Patients())
		}
	}
}

func (s *session) admitForm() error {
	var name, condition string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Patient Name").
			Value(&name).
			Validate(validateRecordField("patient name")),
		huh.NewInput().
			Title("Condition").
			Value(&condition).
			Validate(validateRecordField("condition")),
	))
	if err := form.Run(); err != nil {
		return err
	}

	p, err := s.queue.Admit(name, condition)
	if err != nil {
		reportErr(err)
		return nil
	}
	fmt.Printf("Admitted %s (id %d, %s) at queue position %d.\n", p.Name, p.ID, p.Condition, s.queue.Len())
	return nil
}

func (s *session) printQueue(patients []admissions.Patient) {
	if len(patients) == 0 {
		fmt.Println("No patients waiting.")
		return
	}
	fmt.Println(subtitleStyle.Render("Pos | ID | Patient | Condition"))
	for i, p := range patients {
		fmt.Printf("%3d | %2d | %s | %s\n", i+1, p.ID, p.Name, p.Condition)
	}
}
