package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebate_audit/internal/config"
	"rebate_audit/internal/generator"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DatabaseURL: filepath.Join(t.TempDir(), "app.db"),
		Seed:        21,
		CacheTTL:    60,
		ServerPort:  "0",
		LogLevel:    "error",
		DBLogLevel:  "silent",
	}
}

func TestSeedCommand(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	code := run(context.Background(), cfg, []string{"seed"}, &out)
	require.Equal(t, 0, code, out.String())

	ds, err := generator.Generate(generator.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Seeded fake audit data into "+cfg.DatabaseURL)
	assert.Contains(t, out.String(), "digest="+ds.Digest())

	_, err = os.Stat(cfg.DatabaseURL)
	assert.NoError(t, err)
}

func TestReportCommandCreatesStoreAndCSV(t *testing.T) {
	cfg := testConfig(t)
	csvPath := filepath.Join(t.TempDir(), "audit_rebate.csv")
	var out bytes.Buffer

	code := run(context.Background(), cfg, []string{
		"report", "--start", "2024-03-15", "--end", "2024-03-16", "--partner", "acme", "--out", csvPath,
	}, &out)
	require.Equal(t, 0, code, out.String())

	assert.Contains(t, out.String(), "=== Parameters ===\nstart=2024-03-15 end=2024-03-16 partner=acme")
	assert.Contains(t, out.String(), "=== Audit Result ===")
	assert.Contains(t, out.String(), "Saved CSV to "+csvPath)

	raw, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "numOrdersRecv,numUnitsRecv,TotalRebate", lines[0])
	assert.NotContains(t, lines[1], `"`)
}

func TestReportCommandZeroRowForUnknownPartner(t *testing.T) {
	cfg := testConfig(t)
	csvPath := filepath.Join(t.TempDir(), "out.csv")
	var out bytes.Buffer

	code := run(context.Background(), cfg, []string{"report", "--partner", "nobody", "--out", csvPath}, &out)
	require.Equal(t, 0, code, out.String())

	raw, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "numOrdersRecv,numUnitsRecv,TotalRebate\n0,0,0.0\n", string(raw))
}

func TestReportCommandSkipsCSVWhenOutEmpty(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	code := run(context.Background(), cfg, []string{"report", "--out", ""}, &out)
	require.Equal(t, 0, code, out.String())
	assert.NotContains(t, out.String(), "Saved CSV")
}

func TestReportCommandFailures(t *testing.T) {
	t.Run("bad date", func(t *testing.T) {
		cfg := testConfig(t)
		var out bytes.Buffer

		assert.Equal(t, 1, run(context.Background(), cfg, []string{"report", "--start", "yesterday"}, &out))
		_, err := os.Stat(cfg.DatabaseURL)
		assert.ErrorIs(t, err, os.ErrNotExist, "validation runs before the store is touched")
	})

	t.Run("missing query file", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.ReportSQLPath = filepath.Join(t.TempDir(), "missing.sql")
		var out bytes.Buffer

		assert.Equal(t, 1, run(context.Background(), cfg, []string{"report", "--out", ""}, &out))
	})

	t.Run("unwritable output", func(t *testing.T) {
		cfg := testConfig(t)
		var out bytes.Buffer

		code := run(context.Background(), cfg, []string{"report", "--out", filepath.Join(t.TempDir(), "no", "such", "dir.csv")}, &out)
		assert.Equal(t, 1, code)
	})
}

func TestUsage(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	assert.Equal(t, 2, run(context.Background(), cfg, nil, &out))
	assert.Equal(t, 2, run(context.Background(), cfg, []string{"audit"}, &out))
	assert.Equal(t, 0, run(context.Background(), cfg, []string{"help"}, &out))
	assert.Contains(t, out.String(), "audit report")
}

func TestFlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"unknown report flag", []string{"report", "--bogus"}, 2},
		{"missing flag value", []string{"report", "--start"}, 2},
		{"unknown seed flag", []string{"seed", "--fast"}, 2},
		{"report help", []string{"report", "-h"}, 0},
		{"seed help", []string{"seed", "--help"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			var out bytes.Buffer

			assert.Equal(t, tt.code, run(context.Background(), cfg, tt.args, &out))
			_, err := os.Stat(cfg.DatabaseURL)
			assert.ErrorIs(t, err, os.ErrNotExist, "nothing runs on a bad command line")
		})
	}
}

func TestReportCommandAcceptsTimestampBounds(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	code := run(context.Background(), cfg, []string{
		"report", "--start", "2024-04-01T12:00:00", "--end", "2024-05-01T00:00:00", "--out", "",
	}, &out)
	require.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "start=2024-04-01T12:00:00 end=2024-05-01T00:00:00 partner=teepublicvip")
}

func TestServeStopsWithContext(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	assert.Equal(t, 0, run(ctx, cfg, []string{"serve"}, &out))
}
