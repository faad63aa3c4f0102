package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Columns every audit query must return.
const (
	ColumnOrdersRecv  = "numOrdersRecv"
	ColumnUnitsRecv   = "numUnitsRecv"
	ColumnTotalRebate = "TotalRebate"
)

// DateLayout is the short form accepted for report bounds; TimestampLayout is
// accepted too and compares against stored timestamps the same way.
const DateLayout = "2006-01-02"

// ReportParams are bound into the audit query as :start, :end and :partner.
type ReportParams struct {
	Start   string `json:"start" form:"start" validate:"required,auditdate"`
	End     string `json:"end" form:"end" validate:"required,auditdate"`
	Partner string `json:"partner" form:"partner" validate:"required"`
}

func DefaultReportParams() ReportParams {
	return ReportParams{
		Start:   "2024-04-01",
		End:     "2024-05-01",
		Partner: "teepublicvip",
	}
}

func (p ReportParams) Named() map[string]interface{} {
	return map[string]interface{}{
		"start":   p.Start,
		"end":     p.End,
		"partner": p.Partner,
	}
}

func (p ReportParams) String() string {
	return fmt.Sprintf("start=%s end=%s partner=%s", p.Start, p.End, p.Partner)
}

// AuditSummary is the typed view of one result row.
type AuditSummary struct {
	NumOrdersRecv int64   `json:"numOrdersRecv"`
	NumUnitsRecv  int64   `json:"numUnitsRecv"`
	TotalRebate   float64 `json:"TotalRebate"`
}

// ReportResult holds the query output as returned, column order preserved.
// Values are int64, float64, string, bool or nil.
type ReportResult struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// ZeroResult stands in for a query that matched nothing.
func ZeroResult() *ReportResult {
	return &ReportResult{
		Columns: []string{ColumnOrdersRecv, ColumnUnitsRecv, ColumnTotalRebate},
		Rows:    [][]interface{}{{int64(0), int64(0), float64(0)}},
	}
}

func (r *ReportResult) Empty() bool {
	return len(r.Rows) == 0
}

// MissingColumns lists the required audit columns absent from the result.
func (r *ReportResult) MissingColumns() []string {
	var missing []string
	for _, want := range []string{ColumnOrdersRecv, ColumnUnitsRecv, ColumnTotalRebate} {
		if r.columnIndex(want) < 0 {
			missing = append(missing, want)
		}
	}
	return missing
}

func (r *ReportResult) Summaries() ([]AuditSummary, error) {
	if missing := r.MissingColumns(); len(missing) > 0 {
		return nil, fmt.Errorf("result is missing columns %v", missing)
	}
	oi, ui, ri := r.columnIndex(ColumnOrdersRecv), r.columnIndex(ColumnUnitsRecv), r.columnIndex(ColumnTotalRebate)

	summaries := make([]AuditSummary, 0, len(r.Rows))
	for n, row := range r.Rows {
		orders, err := toInt64(row[oi])
		if err != nil {
			return nil, fmt.Errorf("row %d %s: %w", n, ColumnOrdersRecv, err)
		}
		units, err := toInt64(row[ui])
		if err != nil {
			return nil, fmt.Errorf("row %d %s: %w", n, ColumnUnitsRecv, err)
		}
		rebate, err := toFloat64(row[ri])
		if err != nil {
			return nil, fmt.Errorf("row %d %s: %w", n, ColumnTotalRebate, err)
		}
		summaries = append(summaries, AuditSummary{NumOrdersRecv: orders, NumUnitsRecv: units, TotalRebate: rebate})
	}
	return summaries, nil
}

func (r *ReportResult) columnIndex(name string) int {
	for i, c := range r.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func toInt64(v interface{}) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case float64:
		return int64(x), nil
	case json.Number:
		return x.Int64()
	case string:
		return strconv.ParseInt(x, 10, 64)
	}
	return 0, fmt.Errorf("unexpected value %v (%T)", v, v)
}

func toFloat64(v interface{}) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	case string:
		return strconv.ParseFloat(x, 64)
	}
	return 0, fmt.Errorf("unexpected value %v (%T)", v, v)
}
