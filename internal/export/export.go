package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/macrolens/datahunter/internal/domain"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet used by XLSX exports
const SheetName = "Results"

// ErrUnsupportedFormat is returned for output paths that are neither .csv nor .xlsx
var ErrUnsupportedFormat = errors.New("unsupported export format")

// columnWidths sets readable widths for the wide text columns
var columnWidths = map[string]float64{
	"A": 16, // EAN
	"B": 32, // product name
	"E": 48, // image url
	"F": 48, // source
	"G": 64, // ingredients
	"H": 32, // allergens
	"I": 32, // may contain
}

// WriteCSV writes the header and one row per record
func WriteCSV(w io.Writer, records []domain.NutritionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.ExportHeader); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return fmt.Errorf("csv row %s: %w", r.GTIN, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// XLSX returns a workbook with the header and one row per record
func XLSX(records []domain.NutritionRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if index, _ := f.GetSheetIndex(SheetName); index == -1 {
		if _, err := f.NewSheet(SheetName); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(SheetName)
	f.SetActiveSheet(activeIndex)
	_ = f.DeleteSheet("Sheet1")

	write := func(col, row int, v string) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(SheetName, cell, v)
	}

	for i, h := range domain.ExportHeader {
		if err := write(i+1, 1, h); err != nil {
			return nil, fmt.Errorf("xlsx header: %w", err)
		}
	}

	for i, r := range records {
		for j, v := range r.Row() {
			if err := write(j+1, i+2, v); err != nil {
				return nil, fmt.Errorf("xlsx row %s: %w", r.GTIN, err)
			}
		}
	}

	for col, width := range columnWidths {
		_ = f.SetColWidth(SheetName, col, col, width)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile exports records to path, picking the format from its extension
func WriteFile(path string, records []domain.NutritionRecord) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := WriteCSV(file, records); err != nil {
			file.Close()
			return err
		}
		return file.Close()
	case ".xlsx":
		data, err := XLSX(records)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
