package spc

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/plotthedots/timeseries"
)

// TargetLine aligns the target to the timestamps. A constant target covers
// every point; a mapping is forward-filled from each entry's date, and points
// before the first entry are NaN.
func TargetLine(timestamps []time.Time, target Target) []float64 {
	line := nanSlice(len(timestamps))
	switch {
	case target.Value != nil:
		for i := range line {
			line[i] = *target.Value
		}
	case len(target.ByDate) > 0:
		dates := make([]time.Time, 0, len(target.ByDate))
		for d := range target.ByDate {
			dates = append(dates, d)
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		next := 0
		current := math.NaN()
		for i, ts := range timestamps {
			for next < len(dates) && !dates[next].After(ts) {
				current = target.ByDate[dates[next]]
				next++
			}
			line[i] = current
		}
	}
	return line
}

// TrajectoryLine extrapolates straight lines from each anchor point. A line
// starts at the first point on or after its anchor and runs until the next
// anchor's start. Its value at the anchor and its slope per period come from a
// least-squares fit over the anchor's baseline segment, unless a slope is
// configured. Points before the first anchor are NaN.
func TrajectoryLine(series *timeseries.Series, segments []Segment, tr Trajectory) []float64 {
	n := series.Len()
	line := nanSlice(n)
	if !tr.Enabled || n == 0 {
		return line
	}

	starts := anchorStarts(series.Timestamps, tr.Anchors)
	for k, a := range starts {
		end := n
		if k+1 < len(starts) {
			end = starts[k+1]
		}

		seg := segmentOf(segments, a)
		origin, slope := fitLine(series.Values[seg.Start:seg.End], seg.Start, a)
		if tr.Slope != nil {
			slope = *tr.Slope
		}
		for i := a; i < end; i++ {
			line[i] = origin + slope*float64(i-a)
		}
	}
	return line
}

// anchorStarts resolves anchor dates to point indices, dropping anchors past
// the end of the series and anchors that land on an earlier anchor's point.
func anchorStarts(timestamps []time.Time, anchors []time.Time) []int {
	if len(anchors) == 0 {
		return []int{0}
	}
	var starts []int
	for _, anchor := range anchors {
		idx := sort.Search(len(timestamps), func(i int) bool { return !timestamps[i].Before(anchor) })
		if idx == len(timestamps) || (len(starts) > 0 && idx <= starts[len(starts)-1]) {
			continue
		}
		starts = append(starts, idx)
	}
	return starts
}

// fitLine regresses values on their period index and returns the fitted value
// at index at and the slope. A single value gives a flat line.
func fitLine(values []float64, offset, at int) (origin, slope float64) {
	if len(values) < 2 {
		return values[0], 0
	}
	xs := make([]float64, len(values))
	floats.Span(xs, float64(offset), float64(offset+len(values)-1))
	alpha, beta := stat.LinearRegression(xs, values, nil, false)
	return alpha + beta*float64(at), beta
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
