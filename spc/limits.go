package spc

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/plotthedots/timeseries"
)

// ControlLimits holds one baseline segment's centre line and natural process
// limits. Undefined values are NaN.
type ControlLimits struct {
	Mean            float64
	MeanMovingRange float64
	UPL             float64
	LPL             float64
}

// Defined reports whether the process limits could be computed.
func (l ControlLimits) Defined() bool {
	return !math.IsNaN(l.UPL) && !math.IsNaN(l.LPL)
}

// CalculateLimits computes the mean and the moving-range process limits of a
// segment:
//
//	UPL = mean + 2.660 * mean(|x[i] - x[i-1]|)
//	LPL = max(mean - 2.660 * mean(|x[i] - x[i-1]|), floor)
//
// With fewer than two values the limits are NaN; the mean is still set for a
// single value so run-length rules keep working. A floor above the mean is
// capped at the mean.
func CalculateLimits(segment *timeseries.Series, floor *float64) ControlLimits {
	nan := math.NaN()
	limits := ControlLimits{Mean: segment.Mean(), MeanMovingRange: nan, UPL: nan, LPL: nan}
	if segment.Len() < 2 {
		return limits
	}

	limits.MeanMovingRange = stat.Mean(segment.MovingRanges(), nil)

	width := LimitMultiplier * limits.MeanMovingRange
	limits.UPL = limits.Mean + width
	limits.LPL = limits.Mean - width
	if floor != nil && *floor > limits.LPL {
		limits.LPL = math.Min(*floor, limits.Mean)
	}
	return limits
}
