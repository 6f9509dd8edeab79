package collector

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"MarketForecast/internal/model"
)

// DefaultCSVColumn is the price column read when none is configured.
const DefaultCSVColumn = "Price_JOD"

// dateLayouts are tried in order for the optional date column.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "01/02/2006", "2006/01/02", time.RFC3339}

// CSVFetcher reads a price history from a CSV file with a header row.
// Rows whose price cell is not a finite positive number are skipped.
type CSVFetcher struct {
	Path       string
	Column     string
	DateColumn string
}

// NewCSVFetcher creates a fetcher for path. An empty column selects DefaultCSVColumn.
func NewCSVFetcher(path, column string) *CSVFetcher {
	if column == "" {
		column = DefaultCSVColumn
	}
	return &CSVFetcher{Path: path, Column: column, DateColumn: "Date"}
}

func (f *CSVFetcher) Name() string { return "csv" }

func (f *CSVFetcher) FetchDailyBars(_ string, days int) ([]model.OHLCV, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	bars, err := f.parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Path, err)
	}
	return trimTail(bars, days), nil
}

func (f *CSVFetcher) parse(r io.Reader) ([]model.OHLCV, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	priceIdx, dateIdx := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch {
		case strings.EqualFold(name, f.Column):
			priceIdx = i
		case f.DateColumn != "" && strings.EqualFold(name, f.DateColumn):
			dateIdx = i
		}
	}
	if priceIdx < 0 {
		return nil, fmt.Errorf("column %q not found in header %v", f.Column, header)
	}

	var bars []model.OHLCV
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if priceIdx >= len(record) {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(record[priceIdx]), 64)
		if err != nil || !(price > 0) || math.IsInf(price, 0) {
			continue
		}
		bar := model.OHLCV{Close: price}
		if dateIdx >= 0 && dateIdx < len(record) {
			bar.Time = parseDate(record[dateIdx])
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
