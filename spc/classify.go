package spc

// Flag is the raw rule outcome for one point, before the improvement
// direction is applied.
type Flag int

const (
	// FlagNone marks a point no rule fired on.
	FlagNone Flag = iota
	// FlagOutlierHigh marks a point above the upper process limit.
	FlagOutlierHigh
	// FlagOutlierLow marks a point below the lower process limit.
	FlagOutlierLow
	// FlagShiftHigh marks a point in a run above the mean that reached the threshold.
	FlagShiftHigh
	// FlagShiftLow marks a point in a run below the mean that reached the threshold.
	FlagShiftLow
)

var flagNames = [...]string{"none", "outlierHigh", "outlierLow", "shiftHigh", "shiftLow"}

// String returns the flag name used in output columns.
func (f Flag) String() string {
	if f < 0 || int(f) >= len(flagNames) {
		return "unknown"
	}
	return flagNames[f]
}

// High reports whether the flag signals unusually high values.
func (f Flag) High() bool {
	return f == FlagOutlierHigh || f == FlagShiftHigh
}

// Low reports whether the flag signals unusually low values.
func (f Flag) Low() bool {
	return f == FlagOutlierLow || f == FlagShiftLow
}

// Variation is a flag interpreted against the improvement direction.
type Variation int

const (
	// CommonCause is routine variation; no rule fired.
	CommonCause Variation = iota
	// SpecialCauseImprovement is a signal in the improvement direction.
	SpecialCauseImprovement
	// SpecialCauseConcern is a signal against the improvement direction.
	SpecialCauseConcern
)

func (v Variation) String() string {
	switch v {
	case SpecialCauseImprovement:
		return "specialCauseImprovement"
	case SpecialCauseConcern:
		return "specialCauseConcern"
	default:
		return "commonCause"
	}
}

// Variation maps the flag to improvement or concern. High signals are
// improvements when higher is better, concerns otherwise.
func (f Flag) Variation(dir Direction) Variation {
	switch {
	case f.High() && dir == Increase, f.Low() && dir == Decrease:
		return SpecialCauseImprovement
	case f.High(), f.Low():
		return SpecialCauseConcern
	default:
		return CommonCause
	}
}

// Classification is the scan state and outcome for one point.
type Classification struct {
	RunsAbove int
	RunsBelow int
	Flag      Flag
}

// Classify scans one segment's values left to right.
//
// A value above the UPL or below the LPL is an outlier. Once threshold
// consecutive values sit strictly on one side of the mean, the whole run is a
// shift, back to its first point, and every later point of the run too. A value
// equal to the mean ends both runs. Outliers take precedence over shifts.
// Without defined limits only the shift rule applies.
func Classify(values []float64, limits ControlLimits, threshold int) []Classification {
	out := make([]Classification, len(values))
	defined := limits.Defined()
	above, below := 0, 0

	for i, v := range values {
		switch {
		case v > limits.Mean:
			above, below = above+1, 0
		case v < limits.Mean:
			above, below = 0, below+1
		default:
			above, below = 0, 0
		}
		out[i].RunsAbove = above
		out[i].RunsBelow = below

		if defined {
			switch {
			case v > limits.UPL:
				out[i].Flag = FlagOutlierHigh
			case v < limits.LPL:
				out[i].Flag = FlagOutlierLow
			}
		}

		switch {
		case above == threshold:
			markShift(out[i-above+1:i+1], FlagShiftHigh)
		case above > threshold:
			markShift(out[i:i+1], FlagShiftHigh)
		case below == threshold:
			markShift(out[i-below+1:i+1], FlagShiftLow)
		case below > threshold:
			markShift(out[i:i+1], FlagShiftLow)
		}
	}
	return out
}

func markShift(run []Classification, flag Flag) {
	for i := range run {
		if run[i].Flag == FlagNone {
			run[i].Flag = flag
		}
	}
}
