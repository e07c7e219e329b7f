package trace

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Header is the column layout written by WriteCSV.
var Header = []string{"period", "inventory", "orders", "backorders", "lost_sales", "reward", "demand"}

// WriteCSV writes records as comma-separated rows preceded by Header.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing trace header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Period),
			formatFloat(r.Inventory),
			formatFloat(r.Orders),
			formatFloat(r.Backorders),
			formatFloat(r.LostSales),
			formatFloat(r.Reward),
			formatFloat(r.Demand),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing trace period %d: %w", r.Period, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes records to path, creating parent directories. Paths
// ending in ".zst" are zstd-compressed.
func WriteFile(path string, records []Record) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating trace directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriterSize(f, 64*1024)
	if !strings.HasSuffix(path, ".zst") {
		if err := WriteCSV(bw, records); err != nil {
			return err
		}
		return bw.Flush()
	}

	zw, err := zstd.NewWriter(bw, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	if err := WriteCSV(zw, records); err != nil {
		_ = zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing zstd writer: %w", err)
	}
	return bw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
