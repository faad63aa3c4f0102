// Package render prints audit results for people (a right-aligned table) and
// for tools (CSV with a header row and no index column).
package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"rebate_audit/internal/models"
)

func WriteTable(w io.Writer, result *models.ReportResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	writeLine(tw, result.Columns)
	for _, row := range result.Rows {
		writeLine(tw, formatRow(row))
	}
	return tw.Flush()
}

func writeLine(w io.Writer, cells []string) {
	for _, c := range cells {
		fmt.Fprint(w, c, "\t")
	}
	fmt.Fprintln(w)
}

func WriteCSV(w io.Writer, result *models.ReportResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(result.Columns); err != nil {
		return err
	}
	for _, row := range result.Rows {
		if err := cw.Write(formatRow(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the result to path, replacing any existing file.
func SaveCSV(path string, result *models.ReportResult) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := WriteCSV(f, result); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func formatRow(row []interface{}) []string {
	cells := make([]string, len(row))
	for i, v := range row {
		cells[i] = FormatValue(v)
	}
	return cells
}

// FormatValue renders integral floats with one decimal so monetary columns
// read 0.0 rather than 0.
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatFloat(x, 'f', 1, 64)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(v)
	}
}
