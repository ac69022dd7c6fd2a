// Package occupancy serves the room-occupancy dataset and its rolling
// outlier analysis.
package occupancy

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the timestamp format of the date column.
const DateLayout = "2006-01-02 15:04:05"

const dateColumn = "date"

// Row is one sample: a timestamp and a value per numeric column.
type Row struct {
	Date   time.Time
	Values map[string]float64
}

// Dataset is an immutable, time-ordered table of samples.
type Dataset struct {
	columns []string
	rows    []Row
}

// Parse reads CSV with a header row. One column must be "date"; the others
// must be numeric. A data row may carry one extra leading field (a row id)
// which is ignored.
func Parse(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dateIdx := -1
	var columns []string
	for i, h := range header {
		h = strings.TrimSpace(h)
		header[i] = h
		if h == dateColumn {
			dateIdx = i
			continue
		}
		columns = append(columns, h)
	}
	if dateIdx < 0 {
		return nil, errors.New("no date column")
	}
	if len(columns) == 0 {
		return nil, errors.New("no value columns")
	}

	ds := &Dataset{columns: columns}
	sort.Strings(ds.columns)

	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		switch len(record) {
		case len(header):
		case len(header) + 1:
			record = record[1:]
		default:
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", line, len(header), len(record))
		}

		row := Row{Values: make(map[string]float64, len(columns))}
		for i, field := range record {
			if i == dateIdx {
				row.Date, err = time.Parse(DateLayout, strings.TrimSpace(field))
				if err != nil {
					return nil, fmt.Errorf("line %d: bad date %q", line, field)
				}
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad %s value %q", line, header[i], field)
			}
			row.Values[header[i]] = v
		}
		ds.rows = append(ds.rows, row)
	}

	if len(ds.rows) == 0 {
		return nil, errors.New("dataset has no rows")
	}

	sort.SliceStable(ds.rows, func(i, j int) bool { return ds.rows[i].Date.Before(ds.rows[j].Date) })
	return ds, nil
}

// Variables returns the numeric column names in sorted order.
func (d *Dataset) Variables() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

func (d *Dataset) HasVariable(name string) bool {
	i := sort.SearchStrings(d.columns, name)
	return i < len(d.columns) && d.columns[i] == name
}

func (d *Dataset) Len() int {
	return len(d.rows)
}

// Start is the earliest timestamp.
func (d *Dataset) Start() time.Time {
	return d.rows[0].Date
}

// Nearest returns the row whose timestamp is closest to t. Ties go to the
// earlier row.
func (d *Dataset) Nearest(t time.Time) Row {
	i := sort.Search(len(d.rows), func(i int) bool { return !d.rows[i].Date.Before(t) })
	switch {
	case i == 0:
		return d.rows[0]
	case i == len(d.rows):
		return d.rows[len(d.rows)-1]
	}
	before, after := d.rows[i-1], d.rows[i]
	if t.Sub(before.Date) <= after.Date.Sub(t) {
		return before
	}
	return after
}

func (d *Dataset) series(variable string) []float64 {
	out := make([]float64, len(d.rows))
	for i, r := range d.rows {
		out[i] = r.Values[variable]
	}
	return out
}
