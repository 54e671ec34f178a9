package pack

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"taskmill/extract"
	"taskmill/figures"
)

func TestWorkbook(t *testing.T) {
	tasks := []extract.Task{
		{
			TaskNumber:    "1.0.001",
			Type:          "Operation",
			Description:   "Panel Assembly",
			Activity:      "Open the panel.",
			Specification: "Note: wear gloves",
			Attachment:    "1.0.001",
			HasImage:      true,
		},
		{
			TaskNumber:  "1.0.002",
			Type:        "Operation",
			Description: "Panel Assembly",
			Activity:    "Close the panel.",
		},
	}
	tools := []extract.ToolsRecord{{TaskNumber: "1.0.002", Tools: "screwdriver"}}
	imt := []extract.IMTRecord{{TaskNumber: "1.0.001", IMT: "torque wrench"}}

	data, err := Workbook(tasks, tools, imt)
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	wantSheets := []string{"Tasks", "Tools", "IMT"}
	if len(sheets) != len(wantSheets) {
		t.Fatalf("sheets = %v, want %v", sheets, wantSheets)
	}
	for i, name := range wantSheets {
		if sheets[i] != name {
			t.Errorf("sheets[%d] = %q, want %q", i, sheets[i], name)
		}
	}

	cell := func(sheet, axis string) string {
		v, err := f.GetCellValue(sheet, axis)
		if err != nil {
			t.Fatalf("GetCellValue(%s, %s): %v", sheet, axis, err)
		}
		return v
	}

	if got := cell("Tasks", "A1"); got != "task_no" {
		t.Errorf("Tasks!A1 = %q, want %q", got, "task_no")
	}
	if got := cell("Tasks", "G1"); got != "attachment" {
		t.Errorf("Tasks!G1 = %q, want %q", got, "attachment")
	}
	if got := cell("Tasks", "A2"); got != "1.0.001" {
		t.Errorf("Tasks!A2 = %q, want %q", got, "1.0.001")
	}
	if got := cell("Tasks", "E2"); got != "Open the panel." {
		t.Errorf("Tasks!E2 = %q, want %q", got, "Open the panel.")
	}
	if got := cell("Tasks", "F2"); got != "Note: wear gloves" {
		t.Errorf("Tasks!F2 = %q, want %q", got, "Note: wear gloves")
	}
	if got := cell("Tasks", "G2"); got != "1.0.001" {
		t.Errorf("Tasks!G2 = %q, want %q", got, "1.0.001")
	}
	if got := cell("Tasks", "A3"); got != "1.0.002" {
		t.Errorf("Tasks!A3 = %q, want %q", got, "1.0.002")
	}

	rows, err := f.GetRows("Tasks")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("Tasks rows = %d, want 3", len(rows))
	}

	if got := cell("Tools", "A2"); got != "1.0.002" {
		t.Errorf("Tools!A2 = %q, want %q", got, "1.0.002")
	}
	if got := cell("Tools", "B2"); got != "screwdriver" {
		t.Errorf("Tools!B2 = %q, want %q", got, "screwdriver")
	}
	if got := cell("IMT", "B2"); got != "torque wrench" {
		t.Errorf("IMT!B2 = %q, want %q", got, "torque wrench")
	}
}

func TestWorkbookWithoutSideTables(t *testing.T) {
	tasks := []extract.Task{{TaskNumber: "2.0.001", Type: "Operation", Activity: "Check the valve."}}

	data, err := Workbook(tasks, nil, nil)
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Tasks" {
		t.Errorf("sheets = %v, want [Tasks]", sheets)
	}
}

func TestArchive(t *testing.T) {
	images := []figures.Image{
		{TaskNumber: "1.0.001", Ext: "png", ContentType: "image/png", Data: []byte("png-bytes")},
		{TaskNumber: "1.0.002", Ext: "jpg", ContentType: "image/jpeg", Data: []byte("jpg-bytes")},
	}
	m := Manifest{
		AssemblyName: "Panel Assembly",
		AssemblyID:   "1",
		DocTitle:     "Panel Assembly Procedure",
		GeneratedAt:  time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		Workbook:     "Tasks_Panel_Assembly.xlsx",
		TaskCount:    2,
		ImageCount:   2,
		Strategy:     "paragraph",
		FigureStart:  1,
		FigureEnd:    2,
	}

	data, err := Archive("Tasks_Panel_Assembly.xlsx", []byte("xlsx-bytes"), images, m)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("reopening archive: %v", err)
	}

	entries := make(map[string][]byte, len(zr.File))
	for _, zf := range zr.File {
		rc, err := zf.Open()
		if err != nil {
			t.Fatalf("opening %s: %v", zf.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("reading %s: %v", zf.Name, err)
		}
		entries[zf.Name] = b
	}

	if string(entries["Tasks_Panel_Assembly.xlsx"]) != "xlsx-bytes" {
		t.Error("workbook entry missing or wrong")
	}
	if string(entries["images/1.0.001.png"]) != "png-bytes" {
		t.Error("images/1.0.001.png missing or wrong")
	}
	if string(entries["images/1.0.002.jpg"]) != "jpg-bytes" {
		t.Error("images/1.0.002.jpg missing or wrong")
	}

	var got Manifest
	if err := yaml.Unmarshal(entries["manifest.yaml"], &got); err != nil {
		t.Fatalf("unmarshaling manifest: %v", err)
	}
	if got.AssemblyName != m.AssemblyName || got.TaskCount != m.TaskCount || got.Workbook != m.Workbook {
		t.Errorf("manifest = %+v, want %+v", got, m)
	}
	if got.DocTitle != m.DocTitle {
		t.Errorf("manifest DocTitle = %q, want %q", got.DocTitle, m.DocTitle)
	}
	if got.FigureStart != m.FigureStart || got.FigureEnd != m.FigureEnd {
		t.Errorf("manifest figures = %d..%d, want %d..%d", got.FigureStart, got.FigureEnd, m.FigureStart, m.FigureEnd)
	}
	if !got.GeneratedAt.Equal(m.GeneratedAt) {
		t.Errorf("manifest GeneratedAt = %v, want %v", got.GeneratedAt, m.GeneratedAt)
	}
}

func TestDownloadNames(t *testing.T) {
	tests := []struct {
		name     string
		workbook string
		archive  string
	}{
		{"Panel Assembly", "Tasks_Panel_Assembly.xlsx", "Panel_Assembly_Package.zip"},
		{"pump/overhaul", "Tasks_pump_overhaul.xlsx", "pump_overhaul_Package.zip"},
		{"rev. 2 (final)", "Tasks_rev._2_final.xlsx", "rev._2_final_Package.zip"},
		{"   ", "Tasks_assembly.xlsx", "assembly_Package.zip"},
	}
	for _, tc := range tests {
		if got := WorkbookName(tc.name); got != tc.workbook {
			t.Errorf("WorkbookName(%q) = %q, want %q", tc.name, got, tc.workbook)
		}
		if got := ArchiveName(tc.name); got != tc.archive {
			t.Errorf("ArchiveName(%q) = %q, want %q", tc.name, got, tc.archive)
		}
	}
}
