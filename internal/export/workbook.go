package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/limaJavier/evotimetabling/pkg/model"
)

const maxSheetName = 31

var workbookHeader = []any{"Day", "Start", "End", "Course", "Code", "Professor", "Room", "Batch", "Department"}

// WriteWorkbook renders the records as an Excel workbook with one sheet per division. Records keep their
// order within each sheet
func WriteWorkbook(w io.Writer, records []model.Record) error {
	file := excelize.NewFile()
	defer file.Close()

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("cannot create header style: %w", err)
	}

	divisions := lo.Uniq(lo.Map(records, func(record model.Record, _ int) string { return record.Division }))
	if len(divisions) == 0 {
		divisions = []string{"Timetable"}
	}
	byDivision := lo.GroupBy(records, func(record model.Record) string { return record.Division })

	sheets := make(map[string]bool)
	for i, division := range divisions {
		sheet := sheetName(division, sheets)
		sheets[sheet] = true

		if i == 0 {
			if err := file.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("cannot rename default sheet: %w", err)
			}
		} else if _, err := file.NewSheet(sheet); err != nil {
			return fmt.Errorf("cannot create sheet for division %v: %w", division, err)
		}

		if err := writeSheet(file, sheet, byDivision[division], headerStyle); err != nil {
			return err
		}
	}
	file.SetActiveSheet(0)

	if err := file.Write(w); err != nil {
		return fmt.Errorf("cannot write workbook: %w", err)
	}
	return nil
}

func writeSheet(file *excelize.File, sheet string, records []model.Record, headerStyle int) error {
	//** Column widths
	widths := []float64{12, 8, 8, 28, 10, 22, 10, 10, 22}
	for i, width := range widths {
		column, _ := excelize.ColumnNumberToName(i + 1)
		if err := file.SetColWidth(sheet, column, column, width); err != nil {
			return fmt.Errorf("cannot set column width: %w", err)
		}
	}

	//** Header
	if err := file.SetSheetRow(sheet, "A1", &workbookHeader); err != nil {
		return fmt.Errorf("cannot write header of sheet %v: %w", sheet, err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(workbookHeader), 1)
	if err := file.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("cannot style header of sheet %v: %w", sheet, err)
	}

	//** Rows
	for i, record := range records {
		row := []any{
			record.Day,
			record.Start,
			record.End,
			record.Course,
			record.CourseCode,
			record.Professor,
			record.Room,
			record.Batch,
			record.Department,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("cannot write row %d of sheet %v: %w", i+2, sheet, err)
		}
	}
	return nil
}

// sheetName turns a division name into a valid and unused sheet name
func sheetName(division string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(division))
	if name == "" {
		name = "Division"
	}
	name = truncate(name, maxSheetName)

	candidate := name
	for suffix := 2; used[candidate]; suffix++ {
		tag := fmt.Sprintf(" (%d)", suffix)
		candidate = truncate(name, maxSheetName-len(tag)) + tag
	}
	return candidate
}

func truncate(name string, length int) string {
	runes := []rune(name)
	if len(runes) <= length {
		return name
	}
	return string(runes[:length])
}
