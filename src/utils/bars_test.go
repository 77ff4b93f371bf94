package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCsv(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

func TestImportBarsFromCsv(t *testing.T) {
	path := writeTempCsv(t, `date,open,high,low,close,volume
2024-01-03,102,104,101,103,1200
2024-01-02,101,103,100,102,1100
2024-01-01,100,102,99,101,1000
`)

	bars, err := ImportBarsFromCsv(path)
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, "2024-01-01", bars[0].Date.Format("2006-01-02"), "series is sorted ascending")
	assert.Equal(t, "2024-01-03", bars[2].Date.Format("2006-01-02"))
	assert.Equal(t, 101.0, bars[0].Close)
	assert.Equal(t, int64(1200), bars[2].Volume)
}

func TestImportBarsFromCsvDeduplicates(t *testing.T) {
	path := writeTempCsv(t, `date,open,high,low,close,volume
2024-01-01,100,102,99,101,1000
2024-01-01,100,103,99,102,1500
`)

	bars, err := ImportBarsFromCsv(path)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 102.0, bars[0].Close, "last row wins")
}

func TestImportBarsFromCsvBadDate(t *testing.T) {
	path := writeTempCsv(t, `date,open,high,low,close,volume
01/02/2024,100,102,99,101,1000
`)

	_, err := ImportBarsFromCsv(path)
	require.Error(t, err)
}

func TestImportBarsFromCsvMissingFile(t *testing.T) {
	_, err := ImportBarsFromCsv(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
