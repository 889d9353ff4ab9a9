package writer

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-extractor/internal/models"
)

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&CSVWriter{}).Write(&buf, sampleTransactions()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Description,Amount,Balance", lines[0])
	assert.Equal(t, "01-Jan-2023,Salary Credit,25000.00,3038234.66", lines[1])
	assert.Equal(t, "02-Jan-2023,B/F,,3063234.66", lines[2])
}

func TestCSVWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&CSVWriter{}).Write(&buf, nil))
	assert.Equal(t, "Date,Description,Amount,Balance\n", buf.String())
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		input    decimal.NullDecimal
		expected string
	}{
		{decimal.NewNullDecimal(decimal.RequireFromString("25.99")), "25.99"},
		{decimal.NewNullDecimal(decimal.RequireFromString("2500")), "2500.00"},
		{decimal.NewNullDecimal(decimal.Zero), "0.00"},
		{decimal.NullDecimal{}, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatAmount(tt.input))
	}
}

func TestForPath(t *testing.T) {
	assert.IsType(t, &CSVWriter{}, ForPath("out.CSV"))
	assert.IsType(t, &XLSXWriter{}, ForPath("out.xlsx"))
	assert.IsType(t, &XLSXWriter{}, ForPath("out"))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	require.NoError(t, WriteFile(path, &CSVWriter{}, sampleTransactions()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Date,Description,Amount,Balance"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestWriteFile_ReportIsWorldReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteFile(path, NewXLSXWriter(), sampleTransactions()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

type failingWriter struct{}

func (failingWriter) Write(out io.Writer, _ []models.NormalizedTransaction) error {
	out.Write([]byte("partial"))
	return errors.New("boom")
}

func (failingWriter) Ext() string { return ".bin" }

func TestWriteFile_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")

	err := WriteFile(path, failingWriter{}, sampleTransactions())
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.xlsx")
	err := WriteFile(path, NewXLSXWriter(), sampleTransactions())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
