// Package pack serializes extracted tasks into the downloadable
// deliverables: an xlsx workbook and a zip archive bundling the
// workbook with the renamed images and a manifest.
package pack

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"taskmill/extract"
)

const (
	tasksSheet = "Tasks"
	toolsSheet = "Tools"
	imtSheet   = "IMT"
)

var taskHeader = []string{"task_no", "type", "eta_sec", "description", "activity", "specification", "attachment"}

// Workbook serializes the task list and its side-tables into an xlsx
// workbook. The Tools and IMT sheets are only created when they have
// rows.
func Workbook(tasks []extract.Task, tools []extract.ToolsRecord, imt []extract.IMTRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", tasksSheet); err != nil {
		return nil, fmt.Errorf("naming task sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	if err := writeHeader(f, tasksSheet, taskHeader, bold); err != nil {
		return nil, err
	}
	for i, t := range tasks {
		row := []any{t.TaskNumber, t.Type, t.ETASec, t.Description, t.Activity, t.Specification, t.Attachment}
		if err := writeRow(f, tasksSheet, i+2, row); err != nil {
			return nil, err
		}
	}
	for _, cw := range []struct {
		col   string
		width float64
	}{
		{"A", 14}, {"B", 12}, {"C", 10}, {"D", 28}, {"E", 60}, {"F", 40}, {"G", 24},
	} {
		if err := f.SetColWidth(tasksSheet, cw.col, cw.col, cw.width); err != nil {
			return nil, fmt.Errorf("sizing column %s: %w", cw.col, err)
		}
	}

	if len(tools) > 0 {
		if _, err := f.NewSheet(toolsSheet); err != nil {
			return nil, fmt.Errorf("creating tools sheet: %w", err)
		}
		if err := writeHeader(f, toolsSheet, []string{"task_no", "tools"}, bold); err != nil {
			return nil, err
		}
		for i, rec := range tools {
			if err := writeRow(f, toolsSheet, i+2, []any{rec.TaskNumber, rec.Tools}); err != nil {
				return nil, err
			}
		}
	}

	if len(imt) > 0 {
		if _, err := f.NewSheet(imtSheet); err != nil {
			return nil, fmt.Errorf("creating imt sheet: %w", err)
		}
		if err := writeHeader(f, imtSheet, []string{"task_no", "imt"}, bold); err != nil {
			return nil, err
		}
		for i, rec := range imt {
			if err := writeRow(f, imtSheet, i+2, []any{rec.TaskNumber, rec.IMT}); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, names []string, style int) error {
	values := make([]any, len(names))
	for i, n := range names {
		values[i] = n
	}
	if err := writeRow(f, sheet, 1, values); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(names), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
