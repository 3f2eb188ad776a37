// Package timeseries provides core time series data structures and operations.
package timeseries

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Category identifies the group a row belongs to. The zero value is the
// implicit single group used when the input carries no category column.
type Category struct {
	Name  string
	Valid bool
}

// Named returns an explicit category.
func Named(name string) Category {
	return Category{Name: name, Valid: true}
}

// String returns the category name, or "(all)" for the implicit group.
func (c Category) String() string {
	if !c.Valid {
		return "(all)"
	}
	return c.Name
}

// Less orders the implicit group first, then named categories lexicographically.
func (c Category) Less(other Category) bool {
	if c.Valid != other.Valid {
		return !c.Valid
	}
	return c.Name < other.Name
}

// Observation is one input row. Observations are never mutated after ingestion;
// downstream stages copy them.
type Observation struct {
	Date     time.Time
	Value    float64
	Category Category

	// Index is the row's position in the input table.
	Index int

	// Extra holds pass-through columns keyed by column name.
	Extra map[string]string
}

// Series represents a time series with timestamps and values.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
	Category   Category

	// Index maps each point back to its input row. Nil for series built
	// directly from values.
	Index []int
}

// New creates a new daily time series from values, starting 2000-01-01 UTC.
func New(values []float64) *Series {
	timestamps := make([]time.Time, len(values))
	base := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := range timestamps {
		timestamps[i] = base.AddDate(0, 0, i)
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}
}

// Group splits observations into one series per category, each ordered by date
// ascending. Series are returned implicit group first, then by category name.
// Ties on date keep input order so duplicates remain detectable.
func Group(obs []Observation) []*Series {
	byCat := make(map[Category][]Observation)
	var cats []Category
	for _, o := range obs {
		if _, ok := byCat[o.Category]; !ok {
			cats = append(cats, o.Category)
		}
		byCat[o.Category] = append(byCat[o.Category], o)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Less(cats[j]) })

	out := make([]*Series, 0, len(cats))
	for _, c := range cats {
		rows := byCat[c]
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

		s := &Series{
			Timestamps: make([]time.Time, len(rows)),
			Values:     make([]float64, len(rows)),
			Index:      make([]int, len(rows)),
			Name:       c.String(),
			Category:   c,
		}
		for i, o := range rows {
			s.Timestamps[i] = o.Date
			s.Values[i] = o.Value
			s.Index[i] = o.Index
		}
		out = append(out, s)
	}
	return out
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Mean calculates the arithmetic mean of the series. Returns NaN when empty.
// A second pass adds back the rounding error of the first, so a constant
// series has a mean exactly equal to its value.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	m := stat.Mean(s.Values, nil)
	var resid float64
	for _, v := range s.Values {
		resid += v - m
	}
	return m + resid/float64(len(s.Values))
}

// Diff calculates the first difference of the series.
func (s *Series) Diff() *Series {
	if len(s.Values) < 2 {
		return &Series{Values: []float64{}}
	}

	result := make([]float64, len(s.Values)-1)
	for i := 1; i < len(s.Values); i++ {
		result[i-1] = s.Values[i] - s.Values[i-1]
	}

	timestamps := make([]time.Time, len(result))
	if len(s.Timestamps) > 1 {
		copy(timestamps, s.Timestamps[1:])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     result,
		Name:       s.Name + "_diff",
		Category:   s.Category,
	}
}

// MovingRanges returns |x[i] - x[i-1]| for i >= 1.
func (s *Series) MovingRanges() []float64 {
	d := s.Diff().Values
	for i, v := range d {
		d[i] = math.Abs(v)
	}
	return d
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}, Name: s.Name, Category: s.Category}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	timestamps := make([]time.Time, len(values))
	if len(s.Timestamps) >= end {
		copy(timestamps, s.Timestamps[start:end])
	}

	var index []int
	if len(s.Index) >= end {
		index = make([]int, len(values))
		copy(index, s.Index[start:end])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
		Category:   s.Category,
		Index:      index,
	}
}
