package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/procurement/internal/purchase"
)

// Header is the spreadsheet column order. Files written by older versions
// stop after Created_At; Priority is read only when present.
var Header = []string{
	"ID", "PR_No", "PO_No", "OBR_No", "DV_No",
	"Title", "Date", "Department", "Purpose", "Status",
	"Supplier1_Name", "Supplier1_Address",
	"Supplier2_Name", "Supplier2_Address",
	"Supplier3_Name", "Supplier3_Address",
	"Total_Amount", "Items_JSON", "Created_At", "Priority",
}

const (
	colID = iota
	colPRNo
	colPONo
	colOBRNo
	colDVNo
	colTitle
	colDate
	colDepartment
	colPurpose
	colStatus
	colSupplier1Name
	colSupplier1Address
	colSupplier2Name
	colSupplier2Address
	colSupplier3Name
	colSupplier3Address
	colTotalAmount
	colItems
	colCreatedAt
	colPriority
)

// minColumns is the shortest row accepted on import.
const minColumns = colItems

// itemJSON keeps numbers unquoted in Items_JSON.
type itemJSON struct {
	Number      int         `json:"number"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Unit        string      `json:"unit"`
	Quantity    json.Number `json:"quantity"`
	UnitPrice   json.Number `json:"unitPrice"`
	Total       json.Number `json:"total"`
}

func encodeItems(items []purchase.Item) (string, error) {
	out := make([]itemJSON, len(items))
	for i, it := range items {
		out[i] = itemJSON{
			Number:      it.Number,
			Name:        it.Name,
			Description: it.Description,
			Unit:        it.Unit,
			Quantity:    json.Number(it.Quantity.String()),
			UnitPrice:   json.Number(it.UnitPrice.String()),
			Total:       json.Number(it.Total.String()),
		}
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encoding items: %w", err)
	}

	return string(b), nil
}

func decodeItems(raw string) ([]purchase.Item, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var in []itemJSON
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, fmt.Errorf("invalid items JSON: %w", err)
	}

	items := make([]purchase.Item, len(in))

	for i, it := range in {
		qty, err := parseNumber(string(it.Quantity))
		if err != nil {
			return nil, fmt.Errorf("item %d quantity: %w", i+1, err)
		}

		price, err := parseNumber(string(it.UnitPrice))
		if err != nil {
			return nil, fmt.Errorf("item %d unit price: %w", i+1, err)
		}

		total, err := parseNumber(string(it.Total))
		if err != nil {
			return nil, fmt.Errorf("item %d total: %w", i+1, err)
		}

		number := it.Number
		if number == 0 {
			number = i + 1
		}

		items[i] = purchase.Item{
			Number:      number,
			Name:        it.Name,
			Description: it.Description,
			Unit:        it.Unit,
			Quantity:    qty,
			UnitPrice:   price,
			Total:       total,
		}
	}

	return items, nil
}

// parseNumber treats an empty cell as zero.
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	return decimal.NewFromString(s)
}

func toRow(p *purchase.Purchase) ([]string, error) {
	items, err := encodeItems(p.Items)
	if err != nil {
		return nil, err
	}

	return []string{
		p.ID, p.PRNo, p.PONo, p.OBRNo, p.DVNo,
		p.Title, p.Date, p.Department, p.Purpose, string(p.Status),
		p.Supplier1.Name, p.Supplier1.Address,
		p.Supplier2.Name, p.Supplier2.Address,
		p.Supplier3.Name, p.Supplier3.Address,
		p.TotalAmount.String(), items, p.CreatedAt.Format(time.RFC3339), string(p.Priority),
	}, nil
}

// record is one parsed import row.
type record struct {
	id     string
	params purchase.UpdateParams
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}

	return ""
}

func fromRow(row []string) (record, error) {
	if len(row) < minColumns {
		return record{}, fmt.Errorf("expected at least %d columns, got %d", minColumns, len(row))
	}

	total, err := parseNumber(cell(row, colTotalAmount))
	if err != nil {
		return record{}, fmt.Errorf("invalid total amount %q", cell(row, colTotalAmount))
	}

	items, err := decodeItems(cell(row, colItems))
	if err != nil {
		return record{}, err
	}

	return record{
		id: cell(row, colID),
		params: purchase.UpdateParams{
			Title:       cell(row, colTitle),
			Date:        cell(row, colDate),
			Department:  cell(row, colDepartment),
			Purpose:     cell(row, colPurpose),
			Status:      purchase.Status(cell(row, colStatus)),
			Priority:    purchase.Priority(cell(row, colPriority)),
			Supplier1:   purchase.Supplier{Name: cell(row, colSupplier1Name), Address: cell(row, colSupplier1Address)},
			Supplier2:   purchase.Supplier{Name: cell(row, colSupplier2Name), Address: cell(row, colSupplier2Address)},
			Supplier3:   purchase.Supplier{Name: cell(row, colSupplier3Name), Address: cell(row, colSupplier3Address)},
			Items:       items,
			TotalAmount: total,
		},
	}, nil
}
