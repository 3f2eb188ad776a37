package spc

import (
	"fmt"
	"runtime"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/plotthedots/timeseries"
)

// Engine runs the SPC pipeline: partition each category into baselines,
// compute limits and reference lines, classify points and merge the rows.
type Engine struct {
	cfg         Config
	logger      *zap.SugaredLogger
	parallelism int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithParallelism caps how many categories are computed at once. Values below
// one mean GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		e.parallelism = n
	}
}

// New validates cfg and returns an Engine. A nil cfg uses DefaultConfig.
func New(cfg *Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    *cfg,
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.parallelism < 1 {
		e.parallelism = runtime.GOMAXPROCS(0)
	}
	return e, nil
}

// Compute runs a one-off Engine over obs.
func Compute(obs []timeseries.Observation, cfg *Config) (*Result, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return e.Run(obs)
}

// Run validates the input and computes the decorated table. Observation.Index
// is reassigned to each row's position in obs. On a *ConfigurationError no
// rows are returned.
func (e *Engine) Run(obs []timeseries.Observation) (*Result, error) {
	input := make([]timeseries.Observation, len(obs))
	copy(input, obs)

	var err error
	for i := range input {
		input[i].Index = i
		if !isFinite(input[i].Value) {
			err = multierr.Append(err, fmt.Errorf("row %d: value must be finite, got %v", i, input[i].Value))
		}
		if input[i].Date.IsZero() {
			err = multierr.Append(err, fmt.Errorf("row %d: missing date", i))
		}
	}

	series := timeseries.Group(input)
	for _, s := range series {
		err = multierr.Append(err, s.CheckContiguous())
	}
	if err := newConfigurationError(err); err != nil {
		return nil, err
	}

	parts := make([][]Row, len(series))
	g := new(errgroup.Group)
	g.SetLimit(e.parallelism)
	for i, s := range series {
		i, s := i, s
		g.Go(func() error {
			parts[i] = e.runSeries(s, input)
			return nil
		})
	}
	// Workers never fail.
	_ = g.Wait()

	result := &Result{Direction: e.cfg.ImprovementDirection, Rows: make([]Row, 0, len(input))}
	for _, rows := range parts {
		result.Rows = append(result.Rows, rows...)
	}

	e.logger.Debugw("spc computed", "rows", len(result.Rows), "categories", len(series))
	return result, nil
}

// runSeries computes every row of one category. It reads input but never
// writes to it.
func (e *Engine) runSeries(series *timeseries.Series, input []timeseries.Observation) []Row {
	segments := Partition(series, e.cfg.RebaseDates)
	target := TargetLine(series.Timestamps, e.cfg.Target)
	trajectory := TrajectoryLine(series, segments, e.cfg.Trajectory)

	rows := make([]Row, 0, series.Len())
	for _, seg := range segments {
		part := series.Slice(seg.Start, seg.End)
		limits := CalculateLimits(part, e.cfg.DomainFloor)
		classes := Classify(part.Values, limits, e.cfg.RunLengthThreshold)

		signals := 0
		for j, c := range classes {
			i := seg.Start + j
			row := Row{
				Index:           series.Index[i],
				Date:            series.Timestamps[i],
				Value:           series.Values[i],
				Category:        series.Category,
				Segment:         seg.ID,
				Mean:            limits.Mean,
				MeanMovingRange: limits.MeanMovingRange,
				UPL:             limits.UPL,
				LPL:             limits.LPL,
				Target:          target[i],
				Trajectory:      trajectory[i],
				RunsAbove:       c.RunsAbove,
				RunsBelow:       c.RunsBelow,
				Flag:            c.Flag,
				Variation:       c.Flag.Variation(e.cfg.ImprovementDirection),
				Extra:           input[series.Index[i]].Extra,
			}
			row.setSignalColumns()
			if row.Variation != CommonCause {
				signals++
			}
			rows = append(rows, row)
		}

		e.logger.Debugw("segment computed",
			"category", series.Name,
			"segment", seg.ID,
			"points", seg.Len(),
			"mean", limits.Mean,
			"upl", limits.UPL,
			"lpl", limits.LPL,
			"signals", signals,
		)
	}
	return rows
}
