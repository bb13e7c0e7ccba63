// Package export writes tabular reports as xlsx workbooks.
package export

import (
	"bytes"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// XLSX renders a single-sheet workbook with a bold header row.
func XLSX(sheet Sheet) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("close xlsx workbook")
		}
	}()

	const defaultSheet = "Sheet1"
	row, err := writeHeader(f, defaultSheet, 0, sheet.Headers)
	if err != nil {
		return nil, errors.Wrap(err, "write xlsx header")
	}
	if len(sheet.Rows) != 0 {
		if err := applyDataStyle(f, defaultSheet, row+1, len(sheet.Headers), row+len(sheet.Rows)); err != nil {
			return nil, errors.Wrap(err, "style xlsx rows")
		}
	}
	for _, values := range sheet.Rows {
		row++
		for idx, value := range values {
			if err := writeCell(f, defaultSheet, idx+1, row, value); err != nil {
				return nil, errors.Wrap(err, "write xlsx row")
			}
		}
	}
	if sheet.Name != "" && sheet.Name != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
			return nil, errors.Wrap(err, "rename xlsx sheet")
		}
	}
	return f.WriteToBuffer()
}

func writeCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func writeHeader(f *excelize.File, sheet string, row int, headers []string) (int, error) {
	row++
	if len(headers) == 0 {
		return row, nil
	}
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Font:      &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return row, err
	}
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return row, err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), row)
	if err != nil {
		return row, err
	}
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return row, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return row, err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 22); err != nil {
		return row, err
	}
	for idx, header := range headers {
		if err := writeCell(f, sheet, idx+1, row, header); err != nil {
			return row, err
		}
	}
	return row, nil
}

func applyDataStyle(f *excelize.File, sheet string, rowFrom, colTo, rowTo int) error {
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	first, err := excelize.CoordinatesToCellName(1, rowFrom)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(colTo, rowTo)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}
