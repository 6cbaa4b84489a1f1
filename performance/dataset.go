package performance

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MonthsPerYear количество месячных колонок в таблице
const MonthsPerYear = 12

// ColumnCount название + 12 месяцев
const ColumnCount = MonthsPerYear + 1

// DefaultNameColumnWidth ширина колонки с названием по умолчанию
const DefaultNameColumnWidth = 15.0

// MonthColumnWidth ширина колонок с оценками
const MonthColumnWidth = 8.0

// ErrInvalidDataset ошибка структуры набора данных
var ErrInvalidDataset = errors.New("invalid dataset")

// DatasetKey тип набора данных
type DatasetKey string

const (
	// DatasetExternal внешние подрядчики (外协)
	DatasetExternal DatasetKey = "external"
	// DatasetPurchased поставщики покупных изделий (外购)
	DatasetPurchased DatasetKey = "purchased"
)

// Score месячная оценка; Valid=false означает, что оценки за месяц нет
type Score struct {
	Value float64
	Valid bool
}

// NewScore создает заполненную оценку
func NewScore(v float64) Score {
	return Score{Value: v, Valid: true}
}

// String форматирует оценку с двумя знаками, пустая оценка дает ""
func (s Score) String() string {
	if !s.Valid {
		return ""
	}
	return strconv.FormatFloat(s.Value, 'f', 2, 64)
}

// UnmarshalYAML принимает число, пустую строку или null
func (s *Score) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("score must be a scalar, got node kind %d at line %d", node.Kind, node.Line)
	}
	if node.ShortTag() == "!!null" || strings.TrimSpace(node.Value) == "" {
		*s = Score{}
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(node.Value), 64)
	if err != nil {
		return fmt.Errorf("invalid score %q at line %d: %w", node.Value, node.Line, err)
	}
	*s = NewScore(v)
	return nil
}

// MarshalYAML пишет пустую оценку как ""
func (s Score) MarshalYAML() (interface{}, error) {
	if !s.Valid {
		return "", nil
	}
	return s.Value, nil
}

// Scores оценки за 12 месяцев, индекс 0 = январь
type Scores [MonthsPerYear]Score

// UnmarshalYAML разбирает ровно 12 элементов с сохранением позиций: null и "" дают пустой месяц
func (s *Scores) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("scores must be a sequence, got node kind %d at line %d", node.Kind, node.Line)
	}
	if len(node.Content) != MonthsPerYear {
		return fmt.Errorf("scores at line %d: want %d months, got %d", node.Line, MonthsPerYear, len(node.Content))
	}

	var out Scores
	for i, item := range node.Content {
		if err := out[i].UnmarshalYAML(item); err != nil {
			return fmt.Errorf("month %d: %w", i+1, err)
		}
	}
	*s = out
	return nil
}

// Record строка таблицы: поставщик и 12 месячных оценок
type Record struct {
	Entity string `yaml:"entity"`
	Scores Scores `yaml:"scores"`
}

// Dataset таблица, которая выводится на отдельный лист
type Dataset struct {
	Key             DatasetKey          `yaml:"key"`
	SheetName       string              `yaml:"sheet"`
	Header          [ColumnCount]string `yaml:"header"`
	NameColumnWidth float64             `yaml:"name_column_width"`
	Records         []Record            `yaml:"records"`
}

// Validate проверяет структуру таблицы; значения оценок не проверяются
func (d *Dataset) Validate() error {
	if strings.TrimSpace(d.SheetName) == "" {
		return fmt.Errorf("%w: sheet name is empty", ErrInvalidDataset)
	}
	for i, h := range d.Header {
		if strings.TrimSpace(h) == "" {
			return fmt.Errorf("%w: sheet %q header column %d is empty", ErrInvalidDataset, d.SheetName, i+1)
		}
	}

	seen := make(map[string]struct{}, len(d.Records))
	for i, r := range d.Records {
		name := strings.TrimSpace(r.Entity)
		if name == "" {
			return fmt.Errorf("%w: sheet %q row %d has no entity name", ErrInvalidDataset, d.SheetName, i+2)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: sheet %q has duplicate entity %q", ErrInvalidDataset, d.SheetName, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// nameWidth ширина первой колонки с учетом значения по умолчанию
func (d *Dataset) nameWidth() float64 {
	if d.NameColumnWidth <= 0 {
		return DefaultNameColumnWidth
	}
	return d.NameColumnWidth
}

// Find возвращает запись по имени поставщика
func (d *Dataset) Find(entity string) (Record, bool) {
	for _, r := range d.Records {
		if r.Entity == entity {
			return r, true
		}
	}
	return Record{}, false
}
