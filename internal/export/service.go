package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/procurement/internal/encoding"
	"github.com/MrJamesThe3rd/procurement/internal/purchase"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ImportActor is recorded as the author of imported changes.
const ImportActor = "CSV Import"

const sheetName = "Purchases"

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts "csv" or "xlsx"; empty means csv.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	return "text/csv; charset=utf-8"
}

// FileName is the download name for an export produced at t.
func (f Format) FileName(t time.Time) string {
	return fmt.Sprintf("purchases_%s.%s", t.Format("2006-01-02"), f)
}

// Purchases is the subset of the purchase service used here.
type Purchases interface {
	List(ctx context.Context, filter purchase.ListFilter) ([]*purchase.Purchase, error)
	Get(ctx context.Context, id string) (*purchase.Purchase, error)
	Create(ctx context.Context, params purchase.CreateParams) (*purchase.Purchase, error)
	Update(ctx context.Context, id string, params purchase.UpdateParams) (*purchase.Purchase, error)
}

type Service struct {
	purchases Purchases
}

func NewService(purchases Purchases) *Service {
	return &Service{purchases: purchases}
}

// RowError describes an import row that was skipped. Row is 1-based and
// counts the header.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Errors  []RowError `json:"errors"`
}

// Export writes every purchase matching filter to w.
func (s *Service) Export(ctx context.Context, format Format, filter purchase.ListFilter, w io.Writer) error {
	purchases, err := s.purchases.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing purchases: %w", err)
	}

	rows := make([][]string, 0, len(purchases))

	for _, p := range purchases {
		row, err := toRow(p)
		if err != nil {
			return fmt.Errorf("purchase %s: %w", p.ID, err)
		}

		rows = append(rows, row)
	}

	switch format {
	case FormatXLSX:
		return writeXLSX(w, rows)
	case FormatCSV:
		return writeCSV(w, rows)
	}

	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}

	return nil
}

func writeXLSX(w io.Writer, rows [][]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}

	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}

		// Keep the amount numeric so spreadsheet sums work.
		if amount, err := parseNumber(row[colTotalAmount]); err == nil {
			values[colTotalAmount] = amount.InexactFloat64()
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d cell: %w", i+2, err)
		}

		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

// zipMagic starts every XLSX file.
var zipMagic = []byte("PK\x03\x04")

// Import reads a CSV or XLSX file. Rows whose ID matches a stored purchase
// overwrite it; all other rows are created with fresh identifiers. Bad rows
// are reported in the result and do not stop the import.
func (s *Service) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("reading upload: %w", err)
	}

	var rows [][]string
	if bytes.HasPrefix(data, zipMagic) {
		rows, err = readXLSX(data)
	} else {
		rows, err = readCSV(data)
	}

	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Errors: []RowError{}}

	for i, row := range rows {
		line := i + 1
		if i == 0 && strings.EqualFold(cell(row, colID), Header[colID]) {
			continue
		}

		if isBlank(row) {
			continue
		}

		updated, err := s.importRow(ctx, row)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: line, Message: err.Error()})
			continue
		}

		if updated {
			result.Updated++
		} else {
			result.Created++
		}
	}

	slog.Info("purchases imported",
		"created", result.Created, "updated", result.Updated, "errors", len(result.Errors))

	return result, nil
}

func (s *Service) importRow(ctx context.Context, row []string) (bool, error) {
	rec, err := fromRow(row)
	if err != nil {
		return false, err
	}

	rec.params.UpdatedBy = ImportActor

	if rec.id != "" {
		_, err := s.purchases.Get(ctx, rec.id)
		switch {
		case err == nil:
			if _, err := s.purchases.Update(ctx, rec.id, rec.params); err != nil {
				return false, err
			}

			return true, nil
		case !errors.Is(err, purchase.ErrNotFound):
			return false, err
		}
	}

	p := rec.params
	_, err = s.purchases.Create(ctx, purchase.CreateParams{
		Title:       p.Title,
		Date:        p.Date,
		Department:  p.Department,
		Purpose:     p.Purpose,
		Status:      p.Status,
		Priority:    p.Priority,
		Supplier1:   p.Supplier1,
		Supplier2:   p.Supplier2,
		Supplier3:   p.Supplier3,
		Items:       p.Items,
		TotalAmount: p.TotalAmount,
		CreatedBy:   ImportActor,
	})

	return false, err
}

func readCSV(data []byte) ([][]string, error) {
	r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	slog.Debug("decoding import", "charset", charset)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}

	return rows, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	return rows, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}

	return true
}
