package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"rebate_audit/internal/models"
)

// ReportRepository runs externally supplied SQL with :name placeholders.
type ReportRepository interface {
	Run(ctx context.Context, query string, params map[string]interface{}) (*models.ReportResult, error)
}

type reportRepository struct {
	db *sqlx.DB
}

// NewReportRepository shares the gorm connection pool; closing the gorm handle
// closes this one too.
func NewReportRepository(db *gorm.DB) (ReportRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &reportRepository{db: sqlx.NewDb(sqlDB, driverName(db.Dialector.Name()))}, nil
}

func (r *reportRepository) Run(ctx context.Context, query string, params map[string]interface{}) (*models.ReportResult, error) {
	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, params)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &models.ReportResult{Columns: columns, Rows: [][]interface{}{}}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		for i, v := range values {
			values[i] = normalize(v)
		}
		result.Rows = append(result.Rows, values)
	}
	return result, rows.Err()
}

// driverName maps a gorm dialector onto the name sqlx uses to pick a bind style.
func driverName(dialect string) string {
	switch dialect {
	case "sqlite":
		return "sqlite3"
	case "postgres":
		return "pgx"
	default:
		return dialect
	}
}

func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case float32:
		return float64(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return v
	}
}
