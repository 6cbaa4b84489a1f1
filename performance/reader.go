package performance

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook читает книгу, созданную ExportWorkbook, обратно в таблицы
func ReadWorkbook(filename string) ([]Dataset, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	var datasets []Dataset
	for _, sheet := range f.GetSheetList() {
		ds, err := readSheet(f, sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		datasets = append(datasets, ds)
	}

	return datasets, nil
}

func readSheet(f *excelize.File, sheet string) (Dataset, error) {
	ds := Dataset{SheetName: sheet}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return ds, err
	}
	if len(rows) == 0 {
		return ds, fmt.Errorf("%w: sheet has no header row", ErrInvalidDataset)
	}
	if len(rows[0]) > ColumnCount {
		return ds, fmt.Errorf("%w: header has %d columns, expected %d", ErrInvalidDataset, len(rows[0]), ColumnCount)
	}
	copy(ds.Header[:], rows[0])

	if width, err := f.GetColWidth(sheet, "A"); err == nil {
		ds.NameColumnWidth = width
	}

	for i, row := range rows[1:] {
		// GetRows обрезает пустые ячейки в конце строки
		if len(row) == 0 {
			continue
		}
		if len(row) > ColumnCount {
			return ds, fmt.Errorf("%w: row %d has %d columns", ErrInvalidDataset, i+2, len(row))
		}
		rec := Record{Entity: row[0]}
		for m := 0; m < MonthsPerYear && m+1 < len(row); m++ {
			score, err := parseScore(row[m+1])
			if err != nil {
				return ds, fmt.Errorf("row %d column %d: %w", i+2, m+2, err)
			}
			rec.Scores[m] = score
		}
		ds.Records = append(ds.Records, rec)
	}

	return ds, nil
}

func parseScore(raw string) (Score, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Score{}, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Score{}, fmt.Errorf("invalid score %q: %w", raw, err)
	}
	return NewScore(v), nil
}
