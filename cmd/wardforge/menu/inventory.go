package menu

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/mrsinham/wardforge/internal/inventory"
)

func (s *session) inventoryMenu() error {
	for {
		choice, err := pickAction("Medical Supplies",
			huh.NewOption("Add stock", "add"),
			huh.NewOption("Use last added batch", "use"),
			huh.NewOption("Show stock", "show"),
		)
		if err != nil {
			return err
		}

		switch choice {
		case "":
			return nil
		case "add":
			if err := s.addStockForm(); err != nil {
				return err
			}
		case "use":
			sup, uerr := s.stock.UseLast()
			if uerr != nil {
				reportErr(uerr)
				continue
			}
			fmt.Printf("Used supply %d: %s x%d (last added)\n", sup.ID, sup.Name, sup.Quantity)
		case "show":
			s.printStock(s.stock.Supplies())
		}
	}
}

func (s *session) addStockForm() error {
	var name, qtyStr, batch, expiry, notes string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Supply Name").
			Value(&name).
			Validate(validateRecordField("supply name")),
		huh.NewInput().
			Title("Quantity").
			Value(&qtyStr).
			Validate(func(v string) error {
				n, err := strconv.Atoi(strings.TrimSpace(v))
				if err != nil || n <= 0 {
					return fmt.Errorf("quantity must be a positive number")
				}
				return nil
			}),
		huh.NewInput().
			Title("Batch Code (optional)").
			Value(&batch),
		huh.NewInput().
			Title("Expiry Date (YYYY-MM-DD, optional)").
			Value(&expiry).
			Validate(func(v string) error {
				if strings.TrimSpace(v) == "" {
					return nil
				}
				if _, err := time.Parse("2006-01-02", strings.TrimSpace(v)); err != nil {
					return fmt.Errorf("invalid date format, use YYYY-MM-DD")
				}
				return nil
			}),
		huh.NewInput().
			Title("Notes (optional)").
			Value(&notes),
	))
	if err := form.Run(); err != nil {
		return err
	}

	qty, _ := strconv.Atoi(strings.TrimSpace(qtyStr))
	sup, err := s.stock.Add(name, qty, batch, expiry, notes)
	if err != nil {
		reportErr(err)
		return nil
	}
	fmt.Printf("Added supply %d: %s x%d\n", sup.ID, sup.Name, sup.Quantity)
	return nil
}

func (s *session) printStock(supplies []inventory.Supply) {
	if len(supplies) == 0 {
		fmt.Println("No supplies in stock.")
		return
	}
	fmt.Println(subtitleStyle.Render("ID | Supply | Qty | Batch | Expiry | Notes"))
	for _, sup := range supplies {
		fmt.Printf("%2d | %s | %d | %s | %s | %s\n",
			sup.ID, sup.Name, sup.Quantity, sup.Batch, sup.Expiry, sup.Notes)
	}
}
