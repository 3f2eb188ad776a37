// Package plotthedots provides "plot the dots" statistical process control.
//
// Plotthedots turns a date-ordered series of measurements into an annotated
// table ready for an SPC chart: a baseline mean, natural process limits, target
// and trajectory reference lines, and a label on every point saying whether its
// variation is common-cause or a special-cause improvement or concern.
//
// # Features
//
//   - Individuals (XmR) limits from the average moving range (mean ± 2.660 × mR)
//   - Baseline rebasing at given dates, with independent limits per baseline
//   - Outlier and run-length shift rules, outliers taking precedence
//   - Improvement direction mapping (higher or lower is better)
//   - Optional categories computed independently and in parallel
//   - Constant or time-varying targets and fitted trajectories
//   - YAML options with all-at-once validation
//
// # Quick Start
//
//	obs, _ := timeseries.LoadCSV("admissions.csv", timeseries.DefaultCSVOptions())
//	cfg, _ := spc.LoadOptions("options.yaml")
//	result, _ := spc.Compute(obs, cfg)
//	result.WriteCSV(os.Stdout)
//
// # Packages
//
//   - spc: configuration, baselines, limits, classification and results
//   - timeseries: observations, categories, series and CSV loading
//
// # References
//
//   - NHS England (2019). Making Data Count: Getting Started
//   - Wheeler, D. J. (2000). Understanding Variation: The Key to Managing Chaos
package plotthedots
