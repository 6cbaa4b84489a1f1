package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Статусы оценки
const (
	StatusDraft      = "draft"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// DataTypePurchase тип данных детализации по умолчанию
const DataTypePurchase = "purchase"

// ErrDatabaseNotFound файл БД отсутствует
var ErrDatabaseNotFound = errors.New("database file not found")

// EvaluationsDB обертка для работы с БД оценок поставщиков
type EvaluationsDB struct {
	conn *sql.DB
}

// Evaluation период оценки (performance_evaluations)
type Evaluation struct {
	ID         int64  `json:"id"`
	PeriodName string `json:"period_name"`
	PeriodType string `json:"period_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Status     string `json:"status"`
}

// EvaluationDetail строка детализации оценки (performance_evaluation_details)
type EvaluationDetail struct {
	ID           int64    `json:"id"`
	EvaluationID int64    `json:"evaluation_id"`
	EntityName   string   `json:"evaluation_entity_name"`
	DataType     string   `json:"data_type"`
	TotalScore   *float64 `json:"total_score,omitempty"`
	Grade        string   `json:"grade,omitempty"`
}

// OpenEvaluationsDB открывает существующую БД только на чтение
func OpenEvaluationsDB(path string) (*EvaluationsDB, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat database file: %w", err)
	}

	dsn, err := fileDSN(path, "ro")
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open evaluations database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping evaluations database: %w", err)
	}

	return &EvaluationsDB{conn: db}, nil
}

// fileDSN URI file: с абсолютным экранированным путем, чтобы ? и # в имени не читались как параметры
func fileDSN(path, mode string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve database path: %w", err)
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		// C:/... на Windows
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p, RawQuery: "mode=" + mode}).String(), nil
}

// CreateEvaluationsDatabase создает или открывает БД оценок на запись и инициализирует схему
func CreateEvaluationsDatabase(path string) (*EvaluationsDB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create evaluations database directory: %w", err)
	}

	dsn, err := fileDSN(path, "rwc")
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open evaluations database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping evaluations database: %w", err)
	}

	if err := InitEvaluationsSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &EvaluationsDB{conn: db}, nil
}

// InitEvaluationsSchema создает таблицы оценок, если их нет
func InitEvaluationsSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS performance_evaluations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		period_name VARCHAR(255) NOT NULL,
		period_type VARCHAR(20) NOT NULL DEFAULT 'monthly', -- monthly, quarterly, yearly, custom
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		status VARCHAR(20) DEFAULT 'draft',                 -- draft, in_progress, completed
		config_snapshot TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS performance_evaluation_details (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		evaluation_id INTEGER NOT NULL,
		evaluation_entity_name VARCHAR(255) NOT NULL,
		data_type VARCHAR(20) DEFAULT 'purchase',
		scores TEXT NOT NULL DEFAULT '{}',
		total_score DECIMAL(5,2),
		grade VARCHAR(20),
		remarks TEXT,
		quality_data_snapshot TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (evaluation_id) REFERENCES performance_evaluations(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_performance_evaluations_status ON performance_evaluations(status);
	CREATE INDEX IF NOT EXISTS idx_performance_evaluation_details_evaluation_id ON performance_evaluation_details(evaluation_id);
	CREATE INDEX IF NOT EXISTS idx_performance_evaluation_details_data_type ON performance_evaluation_details(data_type);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create evaluations schema: %w", err)
	}
	return nil
}

// Close закрывает подключение к БД оценок
func (db *EvaluationsDB) Close() error {
	return db.conn.Close()
}

// Ping проверяет подключение
func (db *EvaluationsDB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// yearRange границы года в формате start_date: [YYYY-01-01, YYYY+1-01-01)
func yearRange(year int) (string, string) {
	return fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-01-01", year+1)
}

// completedInYear подзапрос завершенных оценок года
const completedInYear = `
	SELECT id FROM performance_evaluations
	WHERE status = 'completed'
	  AND start_date >= ?
	  AND start_date < ?`

// CompletedEvaluationsInYear возвращает завершенные оценки, начавшиеся в указанном году
func (db *EvaluationsDB) CompletedEvaluationsInYear(ctx context.Context, year int) ([]Evaluation, error) {
	from, to := yearRange(year)
	// date() оставляет дату строкой: для колонок DATE драйвер возвращает time.Time
	query := `
		SELECT id, period_name, COALESCE(period_type, ''), date(start_date), date(end_date), status
		FROM performance_evaluations
		WHERE status = 'completed'
		  AND start_date >= ?
		  AND start_date < ?
		ORDER BY id
	`

	rows, err := db.conn.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed evaluations: %w", err)
	}
	defer rows.Close()

	evaluations := []Evaluation{}
	for rows.Next() {
		var e Evaluation
		if err := rows.Scan(&e.ID, &e.PeriodName, &e.PeriodType, &e.StartDate, &e.EndDate, &e.Status); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		evaluations = append(evaluations, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate evaluations: %w", err)
	}

	return evaluations, nil
}

// CompletedDetails возвращает детализацию завершенных оценок года с указанным data_type
func (db *EvaluationsDB) CompletedDetails(ctx context.Context, year int, dataType string) ([]EvaluationDetail, error) {
	from, to := yearRange(year)
	query := `
		SELECT ped.id, ped.evaluation_id, ped.evaluation_entity_name,
		       COALESCE(ped.data_type, ''), ped.total_score, COALESCE(ped.grade, '')
		FROM performance_evaluation_details ped
		WHERE ped.evaluation_id IN (` + completedInYear + `)
		  AND ped.data_type = ?
		ORDER BY ped.id
	`

	rows, err := db.conn.QueryContext(ctx, query, from, to, dataType)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluation details: %w", err)
	}
	defer rows.Close()

	details := []EvaluationDetail{}
	for rows.Next() {
		var d EvaluationDetail
		var total sql.NullFloat64
		if err := rows.Scan(&d.ID, &d.EvaluationID, &d.EntityName, &d.DataType, &total, &d.Grade); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation detail: %w", err)
		}
		if total.Valid {
			v := total.Float64
			d.TotalScore = &v
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate evaluation details: %w", err)
	}

	return details, nil
}

// CountCompletedEntities число уникальных поставщиков в детализации завершенных оценок года
func (db *EvaluationsDB) CountCompletedEntities(ctx context.Context, year int, dataType string) (int, error) {
	from, to := yearRange(year)
	query := `
		SELECT COUNT(DISTINCT ped.evaluation_entity_name)
		FROM performance_evaluation_details ped
		WHERE ped.evaluation_id IN (` + completedInYear + `)
		  AND ped.data_type = ?
	`

	var count int
	if err := db.conn.QueryRowContext(ctx, query, from, to, dataType).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count completed entities: %w", err)
	}
	return count, nil
}

// CountAllEntities число уникальных поставщиков с указанным data_type без учета статуса оценки
func (db *EvaluationsDB) CountAllEntities(ctx context.Context, dataType string) (int, error) {
	query := `
		SELECT COUNT(DISTINCT evaluation_entity_name)
		FROM performance_evaluation_details
		WHERE data_type = ?
	`

	var count int
	if err := db.conn.QueryRowContext(ctx, query, dataType).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entities: %w", err)
	}
	return count, nil
}

// InsertEvaluation добавляет период оценки и возвращает его ID
func (db *EvaluationsDB) InsertEvaluation(ctx context.Context, e *Evaluation) (int64, error) {
	periodType := e.PeriodType
	if periodType == "" {
		periodType = "monthly"
	}

	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO performance_evaluations (period_name, period_type, start_date, end_date, status)
		VALUES (?, ?, ?, ?, ?)
	`, e.PeriodName, periodType, e.StartDate, e.EndDate, e.Status)
	if err != nil {
		return 0, fmt.Errorf("failed to insert evaluation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get evaluation id: %w", err)
	}
	e.ID = id
	return id, nil
}

// InsertDetail добавляет строку детализации оценки
func (db *EvaluationsDB) InsertDetail(ctx context.Context, d *EvaluationDetail) (int64, error) {
	var grade interface{}
	if d.Grade != "" {
		grade = d.Grade
	}

	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO performance_evaluation_details (evaluation_id, evaluation_entity_name, data_type, total_score, grade)
		VALUES (?, ?, ?, ?, ?)
	`, d.EvaluationID, d.EntityName, d.DataType, d.TotalScore, grade)
	if err != nil {
		return 0, fmt.Errorf("failed to insert evaluation detail: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get evaluation detail id: %w", err)
	}
	d.ID = id
	return id, nil
}
