package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	noticesSheet = "Notices"
)

// WriteXLSX renders r as a workbook with a Summary and a Notices sheet.
func WriteXLSX(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the summary.
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(noticesSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	if err := writeSummary(f, r, bold); err != nil {
		return err
	}
	if err := writeNotices(f, r, bold); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writeSummary(f *excelize.File, r *Report, bold int) error {
	rows := [][]any{
		{"Run ID", r.RunID.String()},
		{"Validated at", r.ValidatedAt.Format(time.RFC3339)},
		{"Current date", r.Options.CurrentDate},
		{"Country code", r.Options.CountryCode},
		{"Valid", r.Summary.Valid},
		{"Errors", r.Summary.Errors},
		{"Warnings", r.Summary.Warnings},
		{"Infos", r.Summary.Infos},
		{},
		{"Code", "Severity", "Count"},
	}
	for i, values := range rows {
		if err := setRow(f, summarySheet, i+1, values...); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}
	header := len(rows)
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", header-2), bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", header), fmt.Sprintf("C%d", header), bold); err != nil {
		return err
	}

	for i, c := range r.CodeSummary {
		if err := setRow(f, summarySheet, header+1+i, c.Code, c.Severity.String(), c.Count); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}
	return f.SetColWidth(summarySheet, "A", "A", 40)
}

func writeNotices(f *excelize.File, r *Report, bold int) error {
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := setRow(f, noticesSheet, 1, header...); err != nil {
		return fmt.Errorf("writing notices: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(noticesSheet, "A1", last, bold); err != nil {
		return err
	}

	for i, n := range r.Notices.Notices() {
		values := make([]any, len(columns))
		for j, s := range noticeToRow(n) {
			values[j] = s
		}
		if n.Row > 0 {
			values[3] = n.Row
		}
		if err := setRow(f, noticesSheet, i+2, values...); err != nil {
			return fmt.Errorf("writing notices: %w", err)
		}
	}
	return f.SetPanes(noticesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
