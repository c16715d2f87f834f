// Package export writes the employee directory outside the TUI: as an
// XLSX workbook or as text on stdout.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"onboard/internal/api"
	"onboard/internal/domain"
	appErrors "onboard/internal/errors"
)

const sheetName = "Employees"

// Columns are the exported headers, in order.
var Columns = []string{"Employee ID", "Name", "Email", "Department", "Role", "Location", "Employment Type", "Start Date", "Photo", "Notes"}

// Collect walks every directory page.
func Collect(ctx context.Context, client api.Client, pageSize int) ([]domain.Employee, error) {
	var all []domain.Employee
	for page := 1; ; page++ {
		p, err := client.Employees(ctx, page, pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Items...)
		if !p.HasNext() || len(p.Items) == 0 {
			return all, nil
		}
	}
}

func row(e domain.Employee) []any {
	photo := "no"
	if e.HasPhoto() {
		photo = "yes"
	}
	return []any{
		e.EmployeeID,
		e.Name,
		e.Email,
		e.Department,
		e.Role.Label(),
		e.Location,
		e.EmploymentType.Label(),
		e.StartDate,
		photo,
		e.Notes,
	}
}

// WriteXLSX writes rows as a single-sheet workbook with a styled, frozen
// header and an auto filter.
func WriteXLSX(w io.Writer, rows []domain.Employee) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return exportError("rename sheet", err)
	}
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return exportError("write header", err)
	}
	for i, e := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return exportError("cell name", err)
		}
		values := row(e)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return exportError("write row", err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(Columns))
	if err != nil {
		return exportError("column name", err)
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DCE6F1"}},
	})
	if err != nil {
		return exportError("header style", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", style); err != nil {
		return exportError("apply header style", err)
	}
	if err := f.SetColWidth(sheetName, "A", lastCol, 18); err != nil {
		return exportError("column width", err)
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return exportError("freeze header", err)
	}
	lastRow := len(rows) + 1
	if err := f.AutoFilter(sheetName, fmt.Sprintf("A1:%s%d", lastCol, lastRow), nil); err != nil {
		return exportError("auto filter", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return exportError("write workbook", err)
	}
	return nil
}

// ReadXLSX returns the sheet rows of a workbook written by WriteXLSX,
// header included.
func ReadXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, exportError("open workbook", err)
	}
	defer func() {
		_ = f.Close()
	}()
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, exportError("read rows", err)
	}
	return rows, nil
}

func exportError(op string, err error) error {
	return appErrors.Wrap(appErrors.CodeStorage, op, err)
}
