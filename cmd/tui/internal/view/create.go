package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/procurement/internal/purchase"
)

// draftFields backs the new purchase form. The TUI captures a single line
// item; multi-item requests go through the API or a spreadsheet import.
type draftFields struct {
	title      string
	date       string
	department string
	purpose    string
	priority   purchase.Priority

	supplierName    string
	supplierAddress string

	itemName  string
	unit      string
	quantity  string
	unitPrice string
}

func newDraftFields() *draftFields {
	return &draftFields{
		date:     FormatDate(time.Now()),
		priority: purchase.PriorityNormal,
		unit:     "pc",
		quantity: "1",
	}
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

func nonNegativeDecimal(field string) func(string) error {
	return func(s string) error {
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("%s must be a number", field)
		}
		if d.IsNegative() {
			return fmt.Errorf("%s must not be negative", field)
		}
		return nil
	}
}

func validDate(s string) error {
	if _, err := time.Parse(dateLayout, strings.TrimSpace(s)); err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}
	return nil
}

func (d *draftFields) form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("title").Title("Title").Value(&d.title).Validate(required("title")),
			huh.NewInput().Key("date").Title("Request Date").Value(&d.date).Validate(validDate),
			huh.NewInput().Key("department").Title("Department").Value(&d.department),
			huh.NewText().Key("purpose").Title("Purpose").Lines(2).Value(&d.purpose),
			huh.NewSelect[purchase.Priority]().
				Key("priority").
				Title("Priority").
				Options(huh.NewOptions(purchase.Priorities...)...).
				Value(&d.priority),
		),
		huh.NewGroup(
			huh.NewInput().Key("supplier_name").Title("Supplier").Value(&d.supplierName).Validate(required("supplier")),
			huh.NewInput().Key("supplier_address").Title("Supplier Address").Value(&d.supplierAddress),
		),
		huh.NewGroup(
			huh.NewInput().Key("item_name").Title("Item").Value(&d.itemName).Validate(required("item")),
			huh.NewInput().Key("unit").Title("Unit").Value(&d.unit),
			huh.NewInput().Key("quantity").Title("Quantity").Value(&d.quantity).Validate(nonNegativeDecimal("quantity")),
			huh.NewInput().Key("unit_price").Title("Unit Price").Value(&d.unitPrice).Validate(nonNegativeDecimal("unit price")),
		),
	).WithWidth(45).WithShowHelp(false)
}

// params converts the draft into a create request. The item total and the
// request total are both quantity times unit price.
func (d *draftFields) params(createdBy string) (purchase.CreateParams, error) {
	quantity, err := decimal.NewFromString(strings.TrimSpace(d.quantity))
	if err != nil {
		return purchase.CreateParams{}, fmt.Errorf("quantity: %w", err)
	}

	unitPrice, err := decimal.NewFromString(strings.TrimSpace(d.unitPrice))
	if err != nil {
		return purchase.CreateParams{}, fmt.Errorf("unit price: %w", err)
	}

	total := quantity.Mul(unitPrice)

	return purchase.CreateParams{
		Title:      strings.TrimSpace(d.title),
		Date:       strings.TrimSpace(d.date),
		Department: strings.TrimSpace(d.department),
		Purpose:    strings.TrimSpace(d.purpose),
		Priority:   d.priority,
		Supplier1: purchase.Supplier{
			Name:    strings.TrimSpace(d.supplierName),
			Address: strings.TrimSpace(d.supplierAddress),
		},
		Items: []purchase.Item{{
			Number:    1,
			Name:      strings.TrimSpace(d.itemName),
			Unit:      strings.TrimSpace(d.unit),
			Quantity:  quantity,
			UnitPrice: unitPrice,
			Total:     total,
		}},
		TotalAmount: total,
		CreatedBy:   createdBy,
	}, nil
}
