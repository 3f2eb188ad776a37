package spc

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/multierr"
)

// LimitMultiplier converts the average moving range into an approximate
// three-sigma natural process limit for an individuals chart.
const LimitMultiplier = 2.660

// DefaultRunLengthThreshold is the number of consecutive points on one side of
// the mean that signals a shift.
const DefaultRunLengthThreshold = 7

// Direction states which way a metric improves.
type Direction int

const (
	// Increase means higher values are better.
	Increase Direction = 1
	// Decrease means lower values are better.
	Decrease Direction = -1
)

// String returns "increase" or "decrease".
func (d Direction) String() string {
	switch d {
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection accepts "increase" or "decrease", case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "increase":
		return Increase, nil
	case "decrease":
		return Decrease, nil
	default:
		return 0, fmt.Errorf("improvementDirection must be increase or decrease, got %q", s)
	}
}

// Target is the fixed reference line. Set either Value for a constant target or
// ByDate for targets that change over time; each ByDate entry applies from its
// date until the next entry.
type Target struct {
	Value  *float64
	ByDate map[time.Time]float64
}

// ConstantTarget returns a target that applies to every period.
func ConstantTarget(v float64) Target {
	return Target{Value: &v}
}

// IsSet reports whether any target was configured.
func (t Target) IsSet() bool {
	return t.Value != nil || len(t.ByDate) > 0
}

// Trajectory configures the extrapolated trend line.
type Trajectory struct {
	Enabled bool

	// Anchors start a new line at the first observation on or after each date.
	// Enabled with no anchors starts a single line at the series start.
	Anchors []time.Time

	// Slope per reporting period. Nil fits a least-squares slope to the
	// baseline segment containing each anchor.
	Slope *float64
}

// Config holds the SPC engine settings.
type Config struct {
	ImprovementDirection Direction   // Which way is better (default: Increase)
	RebaseDates          []time.Time // Dates starting a new baseline, strictly increasing
	Target               Target      // Reference target line (default: none)
	Trajectory           Trajectory  // Extrapolated trend line (default: disabled)
	RunLengthThreshold   int         // Points in a run that signal a shift (default: 7)
	DomainFloor          *float64    // Lower bound for the LPL, e.g. 0 for counts (default: none)
}

// DefaultConfig returns the default SPC configuration.
func DefaultConfig() *Config {
	return &Config{
		ImprovementDirection: Increase,
		RunLengthThreshold:   DefaultRunLengthThreshold,
	}
}

// Validate checks every field and returns a *ConfigurationError listing all
// violations, or nil.
func (c *Config) Validate() error {
	return newConfigurationError(c.validate())
}

func (c *Config) validate() error {
	var err error

	if c.ImprovementDirection != Increase && c.ImprovementDirection != Decrease {
		err = multierr.Append(err, fmt.Errorf("improvementDirection must be increase or decrease, got %s", c.ImprovementDirection))
	}
	if c.RunLengthThreshold < 1 {
		err = multierr.Append(err, fmt.Errorf("runLengthThreshold must be at least 1, got %d", c.RunLengthThreshold))
	}
	err = multierr.Append(err, checkIncreasing("rebaseDates", c.RebaseDates))
	err = multierr.Append(err, checkIncreasing("trajectory anchors", c.Trajectory.Anchors))

	if c.Target.Value != nil && len(c.Target.ByDate) > 0 {
		err = multierr.Append(err, fmt.Errorf("target must be a constant or a per-period mapping, not both"))
	}
	if c.Target.Value != nil && !isFinite(*c.Target.Value) {
		err = multierr.Append(err, fmt.Errorf("target must be finite, got %v", *c.Target.Value))
	}
	for d, v := range c.Target.ByDate {
		if !isFinite(v) {
			err = multierr.Append(err, fmt.Errorf("target for %s must be finite, got %v", d.Format("2006-01-02"), v))
		}
	}
	if c.Trajectory.Slope != nil && !isFinite(*c.Trajectory.Slope) {
		err = multierr.Append(err, fmt.Errorf("trajectory slope must be finite, got %v", *c.Trajectory.Slope))
	}
	if c.DomainFloor != nil && !isFinite(*c.DomainFloor) {
		err = multierr.Append(err, fmt.Errorf("domainFloor must be finite, got %v", *c.DomainFloor))
	}

	return err
}

func checkIncreasing(field string, dates []time.Time) error {
	var err error
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			err = multierr.Append(err, fmt.Errorf("%s must be strictly increasing: %s is not after %s",
				field, dates[i].Format("2006-01-02"), dates[i-1].Format("2006-01-02")))
		}
	}
	return err
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
