package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebate_audit/internal/models"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{int64(42), "42"},
		{float64(0), "0.0"},
		{12.5, "12.5"},
		{1234.25, "1234.25"},
		{"acme", "acme"},
		{true, "true"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in))
	}
}

func TestWriteCSVZeroResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, models.ZeroResult()))

	assert.Equal(t, "numOrdersRecv,numUnitsRecv,TotalRebate\n0,0,0.0\n", buf.String())
}

func TestWriteCSVQuotesOnlyText(t *testing.T) {
	result := &models.ReportResult{
		Columns: []string{"partner", models.ColumnOrdersRecv},
		Rows:    [][]interface{}{{"acme, inc", int64(3)}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))
	assert.Equal(t, "partner,numOrdersRecv\n\"acme, inc\",3\n", buf.String())
}

func TestWriteTable(t *testing.T) {
	result := &models.ReportResult{
		Columns: []string{models.ColumnOrdersRecv, models.ColumnUnitsRecv, models.ColumnTotalRebate},
		Rows:    [][]interface{}{{int64(215), int64(1398), 1511.5}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, result))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"numOrdersRecv", "numUnitsRecv", "TotalRebate"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"215", "1398", "1511.5"}, strings.Fields(lines[1]))
	assert.Equal(t, len(lines[0]), len(lines[1]), "columns are aligned")
}

func TestSaveCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit_rebate.csv")
	require.NoError(t, SaveCSV(path, models.ZeroResult()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "numOrdersRecv,numUnitsRecv,TotalRebate\n0,0,0.0\n", string(raw))

	err = SaveCSV(filepath.Join(t.TempDir(), "missing", "out.csv"), models.ZeroResult())
	assert.Error(t, err)
}
