package timeseries

import (
	"math"
	"testing"
	"time"

	"go.uber.org/multierr"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	s := New(values)

	if s.Len() != 5 {
		t.Errorf("Expected length 5, got %d", s.Len())
	}

	for i, v := range s.Values {
		if v != values[i] {
			t.Errorf("Expected value %f at index %d, got %f", values[i], i, v)
		}
	}
	if err := s.CheckContiguous(); err != nil {
		t.Errorf("Expected contiguous daily series, got %v", err)
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"simple", []float64{1, 2, 3, 4, 5}, 3.0},
		{"single", []float64{5}, 5.0},
		{"negative", []float64{-1, -2, -3}, -2.0},
		{"mixed", []float64{-1, 0, 1}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.values)
			result := s.Mean()
			if math.Abs(result-tt.expected) > 1e-10 {
				t.Errorf("Expected mean %f, got %f", tt.expected, result)
			}
		})
	}

	if !math.IsNaN(New(nil).Mean()) {
		t.Error("Expected NaN mean for empty series")
	}

	for _, c := range []float64{0.1, 0.3, 0.7, 1.1, 19.9} {
		for n := 2; n <= 40; n++ {
			values := make([]float64, n)
			for i := range values {
				values[i] = c
			}
			if got := New(values).Mean(); got != c {
				t.Errorf("Expected constant mean %v for n=%d, got %v", c, n, got)
			}
		}
	}
}

func TestMovingRanges(t *testing.T) {
	s := New([]float64{10, 10, 12, 9, 9})
	expected := []float64{0, 2, 3, 0}

	mr := s.MovingRanges()
	if len(mr) != len(expected) {
		t.Fatalf("Expected %d moving ranges, got %d", len(expected), len(mr))
	}
	for i, v := range expected {
		if mr[i] != v {
			t.Errorf("Moving range %d: expected %f, got %f", i, v, mr[i])
		}
	}

	if len(New([]float64{1}).MovingRanges()) != 0 {
		t.Error("Expected no moving ranges for a single point")
	}
}

func TestSlice(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})
	s.Index = []int{4, 3, 2, 1, 0}

	sub := s.Slice(1, 3)
	if sub.Len() != 2 || sub.Values[0] != 2 || sub.Values[1] != 3 {
		t.Errorf("Unexpected slice values %v", sub.Values)
	}
	if sub.Index[0] != 3 || sub.Index[1] != 2 {
		t.Errorf("Unexpected slice index %v", sub.Index)
	}

	sub.Values[0] = 100
	if s.Values[1] != 2 {
		t.Error("Slice should not share storage with the source")
	}

	if s.Slice(3, 1).Len() != 0 {
		t.Error("Expected empty slice for inverted bounds")
	}
}

func TestGroup(t *testing.T) {
	obs := []Observation{
		{Index: 0, Date: date(2020, 2, 1), Value: 2, Category: Named("b")},
		{Index: 1, Date: date(2020, 1, 1), Value: 1, Category: Named("b")},
		{Index: 2, Date: date(2020, 1, 1), Value: 10, Category: Named("a")},
		{Index: 3, Date: date(2020, 1, 1), Value: 5},
	}

	series := Group(obs)
	if len(series) != 3 {
		t.Fatalf("Expected 3 series, got %d", len(series))
	}

	if series[0].Category.Valid {
		t.Errorf("Expected implicit group first, got %s", series[0].Category)
	}
	if series[1].Category != Named("a") || series[2].Category != Named("b") {
		t.Errorf("Unexpected category order: %s, %s", series[1].Category, series[2].Category)
	}

	b := series[2]
	if b.Values[0] != 1 || b.Values[1] != 2 {
		t.Errorf("Expected b sorted by date, got %v", b.Values)
	}
	if b.Index[0] != 1 || b.Index[1] != 0 {
		t.Errorf("Expected input indices [1 0], got %v", b.Index)
	}
}

func TestCategoryString(t *testing.T) {
	if (Category{}).String() != "(all)" {
		t.Errorf("Unexpected implicit name %q", Category{}.String())
	}
	// A real category may be named like the implicit label without colliding.
	if Named("(all)") == (Category{}) {
		t.Error("Named category must differ from the implicit group")
	}
}

func TestInferStep(t *testing.T) {
	tests := []struct {
		name     string
		ts       []time.Time
		expected Step
	}{
		{"monthly", []time.Time{date(2020, 1, 1), date(2020, 2, 1), date(2020, 3, 1)}, Step{Months: 1}},
		{"month ends", []time.Time{date(2020, 1, 31), date(2020, 2, 29), date(2020, 3, 31)}, Step{Months: 1}},
		{"clamped at short months", []time.Time{date(2021, 1, 30), date(2021, 2, 28), date(2021, 3, 30), date(2021, 4, 30)}, Step{Months: 1}},
		{"quarterly", []time.Time{date(2020, 1, 1), date(2020, 4, 1), date(2020, 7, 1)}, Step{Months: 3}},
		{"weekly", []time.Time{date(2020, 1, 27), date(2020, 2, 3), date(2020, 2, 10)}, Step{Days: 7}},
		{"daily over month end", []time.Time{date(2020, 1, 30), date(2020, 1, 31), date(2020, 2, 1)}, Step{Days: 1}},
		{"hourly", []time.Time{
			time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2020, 1, 1, 1, 0, 0, 0, time.UTC),
		}, Step{Duration: time.Hour}},
		{"most common wins", []time.Time{date(2020, 1, 1), date(2020, 3, 1), date(2020, 4, 1), date(2020, 5, 1)}, Step{Months: 1}},
		{"single", []time.Time{date(2020, 1, 1)}, Step{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferStep(tt.ts)
			if got != tt.expected {
				t.Errorf("Expected step %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestCheckContiguous(t *testing.T) {
	ts := []time.Time{date(2020, 1, 1), date(2020, 2, 1), date(2020, 4, 1), date(2020, 5, 1), date(2020, 5, 1), date(2020, 6, 1)}
	s := &Series{Timestamps: ts, Values: []float64{1, 2, 3, 4, 5, 6}, Category: Named("ward")}

	err := s.CheckContiguous()
	if err == nil {
		t.Fatal("Expected gap and duplicate errors")
	}
	violations := multierr.Errors(err)
	if len(violations) != 2 {
		t.Fatalf("Expected 2 violations, got %d: %v", len(violations), err)
	}
	t.Logf("violations: %v", violations)
}

func TestCheckContiguousClampedMonths(t *testing.T) {
	tests := []struct {
		name string
		ts   []time.Time
	}{
		{"30th", []time.Time{date(2021, 1, 30), date(2021, 2, 28), date(2021, 3, 30), date(2021, 4, 30), date(2021, 5, 30), date(2021, 6, 30)}},
		{"29th", []time.Time{date(2020, 12, 29), date(2021, 1, 29), date(2021, 2, 28), date(2021, 3, 29)}},
		{"31st", []time.Time{date(2021, 1, 31), date(2021, 2, 28), date(2021, 3, 31), date(2021, 4, 30), date(2021, 5, 31)}},
		{"quarterly", []time.Time{date(2020, 11, 30), date(2021, 2, 28), date(2021, 5, 30), date(2021, 8, 30)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Series{Timestamps: tt.ts, Values: make([]float64, len(tt.ts))}
			if err := s.CheckContiguous(); err != nil {
				t.Errorf("Expected contiguous series, got %v", err)
			}
		})
	}

	// A real gap is still reported after a clamped month.
	s := &Series{
		Timestamps: []time.Time{date(2021, 1, 30), date(2021, 2, 28), date(2021, 4, 30), date(2021, 5, 30)},
		Values:     make([]float64, 4),
	}
	if err := s.CheckContiguous(); len(multierr.Errors(err)) != 1 {
		t.Errorf("Expected 1 gap violation, got %v", err)
	}
}
