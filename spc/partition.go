package spc

import (
	"sort"
	"time"

	"github.com/sartorproj/plotthedots/timeseries"
)

// Segment is a baseline: a half-open range [Start, End) of a series' points
// sharing one set of control limits.
type Segment struct {
	ID    int
	Start int
	End   int
}

// Len returns the number of points in the segment.
func (s Segment) Len() int {
	return s.End - s.Start
}

// Partition splits a date-ordered series into baseline segments. Each rebase
// date starts a new segment at the first point on or after it; dates at or
// before the first point, or after the last, are ignored. rebase must be
// strictly increasing. The segments cover the series with no gaps or overlaps.
func Partition(series *timeseries.Series, rebase []time.Time) []Segment {
	n := series.Len()
	if n == 0 {
		return nil
	}

	starts := []int{0}
	for _, r := range rebase {
		idx := sort.Search(n, func(i int) bool { return !series.Timestamps[i].Before(r) })
		if idx == 0 || idx == n || idx <= starts[len(starts)-1] {
			continue
		}
		starts = append(starts, idx)
	}

	segments := make([]Segment, len(starts))
	for i, start := range starts {
		end := n
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		segments[i] = Segment{ID: i, Start: start, End: end}
	}
	return segments
}

// segmentOf returns the segment containing point i.
func segmentOf(segments []Segment, i int) Segment {
	idx := sort.Search(len(segments), func(k int) bool { return segments[k].End > i })
	return segments[idx]
}
