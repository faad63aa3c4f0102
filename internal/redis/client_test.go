package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebate_audit/internal/models"
)

func TestReportEncodingKeepsTypes(t *testing.T) {
	in := &models.ReportResult{
		Columns: []string{models.ColumnOrdersRecv, models.ColumnUnitsRecv, models.ColumnTotalRebate, "partner", "note"},
		Rows: [][]interface{}{
			{int64(12), int64(40), float64(0), "acme", nil},
		},
	}

	data, err := EncodeReport(in)
	require.NoError(t, err)
	out, err := DecodeReport(data)
	require.NoError(t, err)

	assert.Equal(t, in, out)
	assert.IsType(t, float64(0), out.Rows[0][2])
}

func TestDecodeReportRejectsGarbage(t *testing.T) {
	_, err := DecodeReport([]byte("not gob"))
	assert.Error(t, err)
}

func TestInitializeRejectsBadURL(t *testing.T) {
	_, err := Initialize("http://not-redis")
	assert.Error(t, err)
}
