// internal/output/excel.go
package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/storylens/storylens/pkg/types"
)

const excelSheet = "Records"

// excelCellLimit is the hard character limit Excel places on one cell.
// Oversized JSON blobs get truncated rather than corrupting the workbook.
const excelCellLimit = 32767

// ExcelWriter writes records to an .xlsx workbook with one row per record.
type ExcelWriter struct {
	filename string
	book     *excelize.File
	nextRow  int
}

// NewExcelWriter creates an Excel writer targeting filename.
func NewExcelWriter(filename string) (*ExcelWriter, error) {
	if filename == "" || filename == "-" {
		return nil, fmt.Errorf("excel output requires a file path")
	}

	book := excelize.NewFile()
	index, err := book.NewSheet(excelSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	book.SetActiveSheet(index)
	if err := book.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	w := &ExcelWriter{
		filename: filename,
		book:     book,
		nextRow:  1,
	}
	if err := w.writeHeader(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *ExcelWriter) writeHeader() error {
	for col, name := range recordColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, w.nextRow)
		if err != nil {
			return err
		}
		if err := w.book.SetCellValue(excelSheet, cell, name); err != nil {
			return err
		}
	}
	w.nextRow++
	return nil
}

// Write appends one row per record.
func (w *ExcelWriter) Write(records []*types.StoryRecord) error {
	for _, r := range records {
		row := recordRow(r)
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, w.nextRow)
			if err != nil {
				return err
			}
			value := cellString(v)
			if len(value) > excelCellLimit {
				value = value[:excelCellLimit]
			}
			if err := w.book.SetCellValue(excelSheet, cell, value); err != nil {
				return err
			}
		}
		w.nextRow++
	}
	return nil
}

// Flush saves the workbook to disk.
func (w *ExcelWriter) Flush() error {
	return w.book.SaveAs(w.filename)
}

// Close saves and releases the workbook.
func (w *ExcelWriter) Close() error {
	if w.book == nil {
		return nil
	}
	if err := w.book.SaveAs(w.filename); err != nil {
		w.book.Close()
		w.book = nil
		return err
	}
	err := w.book.Close()
	w.book = nil
	return err
}
