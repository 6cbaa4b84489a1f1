package performance

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	headerFillColor = "#4472C4"
	headerFontColor = "#FFFFFF"
	borderColor     = "#000000"
	fontFamily      = "微软雅黑"

	// numFmtTwoDecimals встроенный формат Excel "0.00"
	numFmtTwoDecimals = 2
)

// stylePresets идентификаторы стилей книги для ролей строк
type stylePresets struct {
	header int
	data   int
	score  int
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: borderColor, Style: 1},
		{Type: "right", Color: borderColor, Style: 1},
		{Type: "top", Color: borderColor, Style: 1},
		{Type: "bottom", Color: borderColor, Style: 1},
	}
}

func centered() *excelize.Alignment {
	return &excelize.Alignment{Horizontal: "center", Vertical: "center"}
}

// newStylePresets регистрирует стили заголовка и данных в книге
func newStylePresets(f *excelize.File) (*stylePresets, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: fontFamily, Size: 11, Bold: true, Color: headerFontColor},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFillColor}, Pattern: 1},
		Alignment: centered(),
		Border:    thinBorder(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	data, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: fontFamily, Size: 10},
		Alignment: centered(),
		Border:    thinBorder(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create data style: %w", err)
	}

	score, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: fontFamily, Size: 10},
		Alignment: centered(),
		Border:    thinBorder(),
		NumFmt:    numFmtTwoDecimals,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create score style: %w", err)
	}

	return &stylePresets{header: header, data: data, score: score}, nil
}

// ExportWorkbook сохраняет каждую таблицу на отдельный лист книги filename
func ExportWorkbook(filename string, datasets []Dataset) error {
	if len(datasets) == 0 {
		return fmt.Errorf("%w: nothing to export", ErrInvalidDataset)
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newStylePresets(f)
	if err != nil {
		return err
	}

	// Первый лист переименовываем, остальные создаем
	defaultSheet := f.GetSheetName(0)
	for i := range datasets {
		ds := &datasets[i]
		if err := ds.Validate(); err != nil {
			return err
		}

		if i == 0 {
			if err := f.SetSheetName(defaultSheet, ds.SheetName); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(ds.SheetName); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", ds.SheetName, err)
		}

		if err := writeSheet(f, ds, styles); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", ds.SheetName, err)
		}
	}

	f.SetActiveSheet(0)

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}

func writeSheet(f *excelize.File, ds *Dataset, styles *stylePresets) error {
	sheet := ds.SheetName

	// Заголовки
	for col, title := range ds.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(ColumnCount)
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", styles.header); err != nil {
		return err
	}

	// Данные; пустая оценка остается пустой ячейкой
	for i, rec := range ds.Records {
		row := i + 2
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), rec.Entity); err != nil {
			return err
		}
		for m, score := range rec.Scores {
			if !score.Valid {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(m+2, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, score.Value); err != nil {
				return err
			}
		}
	}

	if len(ds.Records) > 0 {
		lastRow := len(ds.Records) + 1
		if err := f.SetCellStyle(sheet, "A2", fmt.Sprintf("A%d", lastRow), styles.data); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "B2", fmt.Sprintf("%s%d", lastCol, lastRow), styles.score); err != nil {
			return err
		}
	}

	// Ширина колонок
	if err := f.SetColWidth(sheet, "A", "A", ds.nameWidth()); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", lastCol, MonthColumnWidth)
}
