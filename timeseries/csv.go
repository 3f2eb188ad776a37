package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn     string // Column name for dates (default: "date")
	ValueColumn    string // Column name for values (default: "value")
	CategoryColumn string // Column name for categories (optional)
	DateFormat     string // Date format (default: "2006-01-02")
	Delimiter      rune   // Field delimiter (default: ',')
	SkipRows       int    // Number of rows to skip before the header
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateColumn:  "date",
		ValueColumn: "value",
		DateFormat:  "2006-01-02",
		Delimiter:   ',',
	}
}

// dateFormats are tried after the configured format.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
	"02-Jan-2006",
}

// LoadCSV loads a table of observations from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) ([]Observation, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadTable(file, opts)
}

// LoadTable reads observations from CSV with a header row. Columns other than
// the date, value and category columns are kept in Observation.Extra. Every
// malformed row is reported in the returned error.
func LoadTable(r io.Reader, opts *CSVOptions) ([]Observation, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}

	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.TrimLeadingSpace = true

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	valueIdx, dateIdx, catIdx := -1, -1, -1
	for i, h := range header {
		h = strings.TrimSpace(strings.Trim(h, "\""))
		header[i] = h
		switch h {
		case opts.ValueColumn:
			valueIdx = i
		case opts.DateColumn:
			dateIdx = i
		case opts.CategoryColumn:
			if opts.CategoryColumn != "" {
				catIdx = i
			}
		}
	}

	var errs error
	if valueIdx < 0 {
		errs = multierr.Append(errs, fmt.Errorf("value column %q not found", opts.ValueColumn))
	}
	if dateIdx < 0 {
		errs = multierr.Append(errs, fmt.Errorf("date column %q not found", opts.DateColumn))
	}
	if opts.CategoryColumn != "" && catIdx < 0 {
		errs = multierr.Append(errs, fmt.Errorf("category column %q not found", opts.CategoryColumn))
	}
	if errs != nil {
		return nil, errs
	}

	var obs []Observation
	line := 1 + opts.SkipRows
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, err
		}

		o := Observation{Index: len(obs)}

		valStr := clean(record[valueIdx])
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil || valStr == "" {
			errs = multierr.Append(errs, fmt.Errorf("line %d: invalid value %q", line, valStr))
		}
		o.Value = val

		dateStr := clean(record[dateIdx])
		ts, ok := parseDate(dateStr, opts.DateFormat)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("line %d: invalid date %q", line, dateStr))
		}
		o.Date = ts

		if catIdx >= 0 {
			if name := clean(record[catIdx]); name != "" {
				o.Category = Named(name)
			}
		}

		for i, field := range record {
			if i == valueIdx || i == dateIdx || i == catIdx {
				continue
			}
			if o.Extra == nil {
				o.Extra = make(map[string]string)
			}
			o.Extra[header[i]] = field
		}

		obs = append(obs, o)
	}

	if errs != nil {
		return nil, errs
	}
	if len(obs) == 0 {
		return nil, errors.New("no data rows found in CSV")
	}
	return obs, nil
}

func clean(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\""))
}

func parseDate(s, format string) (time.Time, bool) {
	if format != "" {
		if ts, err := time.Parse(format, s); err == nil {
			return ts, true
		}
	}
	for _, f := range dateFormats {
		if ts, err := time.Parse(f, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
