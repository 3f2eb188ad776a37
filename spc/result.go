package spc

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/sartorproj/plotthedots/timeseries"
)

// Row is one decorated output row. NaN marks an absent value: undefined
// limits, no target, no trajectory, or no signal in the special-cause columns.
type Row struct {
	Index    int       // Position in the input
	Date     time.Time // x
	Value    float64   // y
	Category timeseries.Category
	Segment  int

	Mean            float64
	MeanMovingRange float64
	UPL             float64
	LPL             float64
	Target          float64
	Trajectory      float64

	RunsAbove int
	RunsBelow int
	Flag      Flag
	Variation Variation

	// SpecialCauseImprovement and SpecialCauseConcern carry Value at flagged
	// points so a renderer can overplot markers directly.
	SpecialCauseImprovement float64
	SpecialCauseConcern     float64

	Extra map[string]string
}

func (r *Row) setSignalColumns() {
	r.SpecialCauseImprovement = math.NaN()
	r.SpecialCauseConcern = math.NaN()
	switch r.Variation {
	case SpecialCauseImprovement:
		r.SpecialCauseImprovement = r.Value
	case SpecialCauseConcern:
		r.SpecialCauseConcern = r.Value
	}
}

type jsonRow struct {
	X                       time.Time         `json:"x"`
	Y                       float64           `json:"y"`
	Category                *string           `json:"category"`
	Segment                 int               `json:"segment"`
	Mean                    *float64          `json:"mean"`
	UPL                     *float64          `json:"upl"`
	LPL                     *float64          `json:"lpl"`
	Target                  *float64          `json:"target"`
	Trajectory              *float64          `json:"trajectory"`
	Flag                    string            `json:"flag"`
	SpecialCauseImprovement *float64          `json:"specialCauseImprovement"`
	SpecialCauseConcern     *float64          `json:"specialCauseConcern"`
	Extra                   map[string]string `json:"extra,omitempty"`
}

// MarshalJSON writes absent values as null.
func (r Row) MarshalJSON() ([]byte, error) {
	out := jsonRow{
		X:                       r.Date,
		Y:                       r.Value,
		Segment:                 r.Segment,
		Mean:                    optional(r.Mean),
		UPL:                     optional(r.UPL),
		LPL:                     optional(r.LPL),
		Target:                  optional(r.Target),
		Trajectory:              optional(r.Trajectory),
		Flag:                    r.Flag.String(),
		SpecialCauseImprovement: optional(r.SpecialCauseImprovement),
		SpecialCauseConcern:     optional(r.SpecialCauseConcern),
		Extra:                   r.Extra,
	}
	if r.Category.Valid {
		name := r.Category.Name
		out.Category = &name
	}
	return json.Marshal(out)
}

func optional(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// Result is the decorated table, ordered by category (implicit group first,
// then by name) and date.
type Result struct {
	Direction Direction
	Rows      []Row
}

// Summary counts signals for one category.
type Summary struct {
	Category    timeseries.Category
	Points      int
	Segments    int
	Improvement int
	Concern     int
}

// Summaries returns one entry per category in row order.
func (r *Result) Summaries() []Summary {
	var out []Summary
	for _, row := range r.Rows {
		if len(out) == 0 || out[len(out)-1].Category != row.Category {
			out = append(out, Summary{Category: row.Category})
		}
		s := &out[len(out)-1]
		s.Points++
		if row.Segment+1 > s.Segments {
			s.Segments = row.Segment + 1
		}
		switch row.Variation {
		case SpecialCauseImprovement:
			s.Improvement++
		case SpecialCauseConcern:
			s.Concern++
		}
	}
	return out
}

var csvColumns = []string{
	"x", "y", "category", "segment", "mean", "upl", "lpl", "target", "trajectory",
	"flag", "specialCauseImprovement", "specialCauseConcern",
}

// WriteCSV writes the table with absent values as empty cells. Pass-through
// columns follow the computed ones in name order. A pass-through column whose
// name is already taken is written as "input_<name>".
func (r *Result) WriteCSV(w io.Writer) error {
	extraSet := make(map[string]struct{})
	for _, row := range r.Rows {
		for k := range row.Extra {
			extraSet[k] = struct{}{}
		}
	}
	extras := make([]string, 0, len(extraSet))
	for k := range extraSet {
		extras = append(extras, k)
	}
	sort.Strings(extras)

	computed := make(map[string]bool, len(csvColumns))
	for _, c := range csvColumns {
		computed[c] = true
	}
	taken := make(map[string]bool, len(csvColumns)+len(extras))
	for _, c := range append(append([]string{}, csvColumns...), extras...) {
		taken[c] = true
	}

	header := append([]string{}, csvColumns...)
	for _, k := range extras {
		name := k
		if computed[k] {
			name = "input_" + k
			for taken[name] {
				name = "input_" + name
			}
			taken[name] = true
		}
		header = append(header, name)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range r.Rows {
		category := ""
		if row.Category.Valid {
			category = row.Category.Name
		}
		record := []string{
			formatDate(row.Date),
			formatFloat(row.Value),
			category,
			strconv.Itoa(row.Segment),
			formatFloat(row.Mean),
			formatFloat(row.UPL),
			formatFloat(row.LPL),
			formatFloat(row.Target),
			formatFloat(row.Trajectory),
			row.Flag.String(),
			formatFloat(row.SpecialCauseImprovement),
			formatFloat(row.SpecialCauseConcern),
		}
		for _, k := range extras {
			record = append(record, row.Extra[k])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatDate(t time.Time) string {
	if h, m, sec := t.Clock(); h == 0 && m == 0 && sec == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
