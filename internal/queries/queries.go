package queries

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed report.sql
var defaultReport string

// LoadReport returns the audit query at path, or the built-in one when path
// is empty.
func LoadReport(path string) (string, error) {
	if path == "" {
		return defaultReport, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read report query: %w", err)
	}
	return string(raw), nil
}
