// Package marketdata loads daily bar histories from disk. The on-disk
// format is one CSV per symbol: date,open,high,low,close,volume in
// ascending date order.
package marketdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/sepascan/internal/domain"
)

const dateLayout = "2006-01-02"

// LoadDir reads every .csv file in dir into a series, symbol taken from the
// file name. Series come back sorted by symbol so a scan over the same
// directory always sees the same order.
func LoadDir(dir string) ([]domain.Series, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read bars directory: %w", err)
	}

	var out []domain.Series
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		symbol := strings.TrimSuffix(entry.Name(), ".csv")
		s, err := LoadFile(filepath.Join(dir, entry.Name()), symbol)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

// LoadFile reads one symbol's bars. The header row is required. Duplicate
// or out-of-order dates fail the load.
func LoadFile(path, symbol string) (domain.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Series{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 6

	records, err := reader.ReadAll()
	if err != nil {
		return domain.Series{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return domain.Series{}, fmt.Errorf("%s: no bar rows", path)
	}

	bars := make([]domain.Bar, 0, len(records)-1)
	for i, rec := range records[1:] {
		bar, err := parseBar(rec)
		if err != nil {
			return domain.Series{}, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		bars = append(bars, bar)
	}

	s := domain.Series{Symbol: symbol, Bars: bars}
	if err := s.Validate(); err != nil {
		return domain.Series{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func parseBar(rec []string) (domain.Bar, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(rec[0]))
	if err != nil {
		return domain.Bar{}, fmt.Errorf("bad date %q: %w", rec[0], err)
	}

	fields := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
		if err != nil {
			return domain.Bar{}, fmt.Errorf("bad value %q: %w", rec[i+1], err)
		}
		fields[i] = v
	}

	return domain.Bar{
		Date:   date,
		Open:   fields[0],
		High:   fields[1],
		Low:    fields[2],
		Close:  fields[3],
		Volume: fields[4],
	}, nil
}
