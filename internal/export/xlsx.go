// Package export writes the explorer's tabular view to spreadsheet files.
package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/openclimatedata/ghgdash/internal/dataset"
)

// WriteXLSX writes one selection's year-by-scenario table to an .xlsx
// workbook. Missing observations stay as empty cells, not zeros.
func WriteXLSX(path string, tbl *dataset.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s, %s, %s [%s]", tbl.Area, tbl.Category, tbl.Entity, tbl.Unit))
	f.SetCellValue(sheet, "A2", "year")
	for ci, scen := range tbl.Scenarios {
		cell, err := excelize.CoordinatesToCellName(ci+2, 2)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		f.SetCellValue(sheet, cell, scen)
	}

	for ri, year := range tbl.Years {
		row := ri + 3
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("year cell: %w", err)
		}
		f.SetCellValue(sheet, cell, year)
		for ci, v := range tbl.Values[ri] {
			if math.IsNaN(v) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(ci+2, row)
			if err != nil {
				return fmt.Errorf("value cell: %w", err)
			}
			f.SetCellValue(sheet, cell, v)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}
