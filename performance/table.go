package performance

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RenderTable рисует таблицу для вывода в терминал; ширина CJK-символов учитывается
func RenderTable(ds Dataset) string {
	rows := make([][]string, 0, len(ds.Records))
	for _, rec := range ds.Records {
		row := make([]string, 0, ColumnCount)
		row = append(row, rec.Entity)
		for _, s := range rec.Scores {
			row = append(row, s.String())
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(ds.Header[:]...).
		Rows(rows...)

	return lipgloss.NewStyle().Bold(true).Render(ds.SheetName) + "\n" + t.String()
}
