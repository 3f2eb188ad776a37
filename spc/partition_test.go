package spc

import (
	"testing"
	"time"

	"github.com/sartorproj/plotthedots/timeseries"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func monthlySeries(t *testing.T, start time.Time, values []float64) *timeseries.Series {
	t.Helper()
	ts := make([]time.Time, len(values))
	for i := range ts {
		ts[i] = start.AddDate(0, i, 0)
	}
	return &timeseries.Series{Timestamps: ts, Values: values}
}

func TestPartition(t *testing.T) {
	s := monthlySeries(t, month(2020, 1), make([]float64, 12))

	tests := []struct {
		name     string
		rebase   []time.Time
		expected []Segment
	}{
		{"no rebase", nil, []Segment{{0, 0, 12}}},
		{"middle", []time.Time{month(2020, 7)}, []Segment{{0, 0, 6}, {1, 6, 12}}},
		{"between periods", []time.Time{time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC)}, []Segment{{0, 0, 3}, {1, 3, 12}}},
		{"before start", []time.Time{month(2019, 6), month(2020, 1)}, []Segment{{0, 0, 12}}},
		{"after end", []time.Time{month(2021, 6)}, []Segment{{0, 0, 12}}},
		{"last point", []time.Time{month(2020, 12)}, []Segment{{0, 0, 11}, {1, 11, 12}}},
		{"several", []time.Time{month(2020, 3), month(2020, 5), month(2020, 11)}, []Segment{{0, 0, 2}, {1, 2, 4}, {2, 4, 10}, {3, 10, 12}}},
		{"same start", []time.Time{time.Date(2020, 4, 10, 0, 0, 0, 0, time.UTC), time.Date(2020, 4, 20, 0, 0, 0, 0, time.UTC)}, []Segment{{0, 0, 4}, {1, 4, 12}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Partition(s, tt.rebase)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d segments, got %d: %v", len(tt.expected), len(got), got)
			}
			covered := 0
			for i, seg := range got {
				if seg != tt.expected[i] {
					t.Errorf("Segment %d: expected %+v, got %+v", i, tt.expected[i], seg)
				}
				covered += seg.Len()
			}
			if covered != s.Len() {
				t.Errorf("Segments cover %d of %d points", covered, s.Len())
			}
		})
	}
}

func TestPartitionEmpty(t *testing.T) {
	if segs := Partition(timeseries.New(nil), []time.Time{month(2020, 1)}); segs != nil {
		t.Errorf("Expected no segments, got %v", segs)
	}
}

func TestSegmentOf(t *testing.T) {
	segs := []Segment{{0, 0, 3}, {1, 3, 5}, {2, 5, 9}}
	for i, expected := range []int{0, 0, 0, 1, 1, 2, 2, 2, 2} {
		if got := segmentOf(segs, i).ID; got != expected {
			t.Errorf("Point %d: expected segment %d, got %d", i, expected, got)
		}
	}
}
