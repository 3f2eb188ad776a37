// Package spc implements "plot the dots" statistical process control.
//
// Given a date-ordered series of measurements, optionally split by category,
// the engine computes a baseline mean and natural process limits, then labels
// every point as common-cause or special-cause variation. The output is a
// decorated table a chart renderer can draw without further logic.
//
// # Basic Usage
//
//	cfg := spc.DefaultConfig()
//	cfg.ImprovementDirection = spc.Decrease
//	result, err := spc.Compute(observations, cfg)
//	if err != nil {
//	    var cerr *spc.ConfigurationError
//	    if errors.As(err, &cerr) {
//	        for _, v := range cerr.Violations() {
//	            log.Println(v)
//	        }
//	    }
//	    return err
//	}
//	for _, row := range result.Rows {
//	    fmt.Println(row.Date, row.Value, row.Mean, row.UPL, row.LPL, row.Variation)
//	}
//
// # Pipeline
//
//   - Partition: each category's series is cut into baseline segments at the
//     configured rebase dates.
//   - CalculateLimits: per segment, mean, average moving range, and
//     UPL/LPL = mean ± 2.660 × average moving range, with an optional floor.
//     Segments with fewer than two points get NaN limits.
//   - TargetLine and TrajectoryLine: reference lines independent of the limits.
//   - Classify: outliers beyond the limits, and shifts of RunLengthThreshold
//     (default 7) consecutive points strictly on one side of the mean.
//     Outliers win over shifts.
//   - Flags become improvement or concern according to ImprovementDirection.
//
// Categories are computed concurrently; the merged rows are always ordered by
// category and date, whatever order the work finishes in.
//
// # Options Files
//
// ParseOptions and LoadOptions read YAML:
//
//	improvementDirection: decrease
//	rebaseDates: [2021-04-01]
//	target: {2020-01-01: 90, 2021-01-01: 95}
//	trajectory: {anchor: 2021-04-01}
//	runLengthThreshold: 7
//	domainFloor: 0
//
// Unknown keys are ignored. All malformed values are reported together in a
// *ConfigurationError, and nothing is computed.
package spc
