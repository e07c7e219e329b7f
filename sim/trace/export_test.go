package trace

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleRecords = []Record{
	{Period: 0, Inventory: 12, Orders: 0, Backorders: 0, LostSales: 0, Reward: 38.5, Demand: 8, Sales: 8},
	{Period: 1, Inventory: 0, Orders: 25, Backorders: 0, LostSales: 3, Reward: 40, Demand: 15, Sales: 12},
}

func TestWriteCSV_HeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords))

	want := "period,inventory,orders,backorders,lost_sales,reward,demand\n" +
		"0,12,0,0,0,38.5,8\n" +
		"1,0,25,0,3,40,15\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_NoRecordsWritesHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, strings.Join(Header, ",")+"\n", buf.String())
}

func TestWriteFile_PlainCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "result.csv")
	require.NoError(t, WriteFile(path, sampleRecords))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var want bytes.Buffer
	require.NoError(t, WriteCSV(&want, sampleRecords))
	assert.Equal(t, want.String(), string(data))
}

func TestWriteFile_ZstdRoundTrip(t *testing.T) {
	// GIVEN a path with the .zst suffix
	path := filepath.Join(t.TempDir(), "result.csv.zst")

	// WHEN records are written
	require.NoError(t, WriteFile(path, sampleRecords))

	// THEN the file decompresses to the plain CSV
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	zr, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer zr.Close()
	var got bytes.Buffer
	_, err = got.ReadFrom(zr)
	require.NoError(t, err)

	var want bytes.Buffer
	require.NoError(t, WriteCSV(&want, sampleRecords))
	assert.Equal(t, want.String(), got.String())
}
