// Package diagnostics воспроизводит расчет totalEntities эндпоинта
// /api/evaluations/accumulated/:year прямыми запросами к БД оценок.
package diagnostics

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sqeperf/database"
)

// Store запросы к БД оценок, которые выполняет диагностика
type Store interface {
	CompletedEvaluationsInYear(ctx context.Context, year int) ([]database.Evaluation, error)
	CompletedDetails(ctx context.Context, year int, dataType string) ([]database.EvaluationDetail, error)
	CountCompletedEntities(ctx context.Context, year int, dataType string) (int, error)
	CountAllEntities(ctx context.Context, dataType string) (int, error)
}

// Result результаты всех четырех шагов
type Result struct {
	Year     int    `json:"year"`
	DataType string `json:"dataType"`

	Evaluations   []database.Evaluation       `json:"evaluations"`
	Details       []database.EvaluationDetail `json:"details"`
	TotalEntities int                         `json:"totalEntities"`
	AllEntities   int                         `json:"allEntities"`
}

// Failed true, если API вернет totalEntities = 0
func (r *Result) Failed() bool {
	return r.TotalEntities == 0
}

// Runner выполняет шаги диагностики строго по порядку
type Runner struct {
	store    Store
	out      io.Writer
	year     int
	dataType string
	logger   *zap.Logger
	// summaryLevel уровень итоговой записи "diagnostic finished"
	summaryLevel zapcore.Level
}

// NewRunner создает диагностику для года и типа данных
func NewRunner(store Store, out io.Writer, year int, dataType string, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		store:    store,
		out:      out,
		year:     year,
		dataType: dataType,
		logger:   logger,

		summaryLevel: zapcore.InfoLevel,
	}
}

// WithSummaryLevel меняет уровень итоговой записи; HTTP-обработчик понижает его до Debug,
// access-лог запроса уже есть
func (r *Runner) WithSummaryLevel(level zapcore.Level) *Runner {
	r.summaryLevel = level
	return r
}

// Run выполняет шаги 1-4 и печатает заключение; ошибка любого запроса прерывает выполнение
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	res := &Result{Year: r.year, DataType: r.dataType}

	r.printf("=== Reproducing API query: /api/evaluations/accumulated/%d?type=%s ===\n\n", r.year, r.dataType)

	// Step 1
	r.printf("Step 1: completed evaluations starting in %d\n", r.year)
	evaluations, err := r.store.CompletedEvaluationsInYear(ctx, r.year)
	if err != nil {
		return nil, fmt.Errorf("step 1: %w", err)
	}
	res.Evaluations = evaluations
	r.printf("Found %d completed evaluations:\n", len(evaluations))
	for _, e := range evaluations {
		r.printf("  ID:%d %s | %s~%s\n", e.ID, e.PeriodName, e.StartDate, e.EndDate)
	}
	r.logger.Debug("step 1 finished", zap.Int("evaluations", len(evaluations)))

	// Step 2
	r.printf("\nStep 2: details of these evaluations (data_type=%s)\n", r.dataType)
	details, err := r.store.CompletedDetails(ctx, r.year, r.dataType)
	if err != nil {
		return nil, fmt.Errorf("step 2: %w", err)
	}
	res.Details = details
	r.printf("Found %d detail records\n", len(details))
	r.logger.Debug("step 2 finished", zap.Int("details", len(details)))

	// Step 3
	r.printf("\nStep 3: totalEntities (distinct entity names)\n")
	total, err := r.store.CountCompletedEntities(ctx, r.year, r.dataType)
	if err != nil {
		return nil, fmt.Errorf("step 3: %w", err)
	}
	res.TotalEntities = total
	r.printf("API should return totalEntities = %d\n", total)

	// Step 4
	r.printf("\nStep 4: any %s entities at all\n", r.dataType)
	all, err := r.store.CountAllEntities(ctx, r.dataType)
	if err != nil {
		return nil, fmt.Errorf("step 4: %w", err)
	}
	res.AllEntities = all
	r.printf("All %s entities in database = %d\n", r.dataType, all)

	r.printConclusion(res)

	r.logger.Log(r.summaryLevel, "diagnostic finished",
		zap.Int("year", r.year),
		zap.String("data_type", r.dataType),
		zap.Int("total_entities", res.TotalEntities),
		zap.Int("all_entities", res.AllEntities),
	)

	return res, nil
}

func (r *Runner) printConclusion(res *Result) {
	r.printf("\n%s\n", strings.Repeat("=", 60))
	r.printf("Conclusion:\n")
	if res.Failed() {
		r.printf("✗ API result totalEntities = 0\n")
		r.printf("  Probable cause: completed evaluations have no %s details\n", res.DataType)
		return
	}
	r.printf("✓ API result totalEntities = %d\n", res.TotalEntities)
}

func (r *Runner) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format, args...)
}
