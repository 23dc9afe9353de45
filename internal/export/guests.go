// Package export renders guest lists as xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the guest rows
const SheetName = "Guests"

// ContentType is the MIME type of the generated workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var baseHeaders = []string{
	"Name", "Email", "Phone", "Company", "Ticket", "Status",
	"Checked In At", "Registered At", "Amount Paid",
}

// Filename returns the download name for an export taken at t
func Filename(t time.Time) string {
	return fmt.Sprintf("guests-%s.xlsx", t.Format("2006-01-02"))
}

// customColumn is one custom-field column of the sheet
type customColumn struct {
	id    string
	label string
}

// customColumns collects every custom-field id used by the guests. Known fields
// come first in form order headed by their label; ids without a definition
// follow sorted and headed by the raw id.
func customColumns(guests []*domain.Guest, defs []*domain.FieldDefinition) []customColumn {
	used := map[string]bool{}
	for _, g := range guests {
		for id := range g.CustomFields {
			used[id] = true
		}
	}

	columns := make([]customColumn, 0, len(used))
	for _, d := range domain.SortFields(defs) {
		if used[d.ID] {
			columns = append(columns, customColumn{id: d.ID, label: d.Label})
			delete(used, d.ID)
		}
	}

	orphans := make([]string, 0, len(used))
	for id := range used {
		orphans = append(orphans, id)
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		columns = append(columns, customColumn{id: id, label: id})
	}
	return columns
}

// WriteGuests writes the workbook to w and returns the number of guest rows
func WriteGuests(w io.Writer, guests []*domain.Guest, defs []*domain.FieldDefinition) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}

	columns := customColumns(guests, defs)
	header := make([]interface{}, 0, len(baseHeaders)+len(columns))
	for _, h := range baseHeaders {
		header = append(header, h)
	}
	for _, c := range columns {
		header = append(header, c.label)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return 0, fmt.Errorf("failed to style header: %w", err)
	}

	for i, g := range guests {
		row := []interface{}{
			g.Name(),
			g.Email,
			g.Phone,
			g.CompanyOrIndividual,
			g.TicketType(),
			string(g.Status),
			formatTime(g.CheckedInAt),
			g.RegisteredAt.Format(time.RFC3339),
			g.AmountPaid.StringFixed(2),
		}
		for _, c := range columns {
			row = append(row, formatValue(g.CustomFields[c.id]))
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return i, err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return i, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}
	return len(guests), nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	default:
		return fmt.Sprint(val)
	}
}
