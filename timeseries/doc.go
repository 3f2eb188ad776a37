// Package timeseries provides time series data structures and utilities.
//
// This package holds the input side of the SPC engine: observations read from a
// table, the explicit Category key, and the Series type used to hold one
// category's points in date order.
//
// # Loading a Table
//
// Name the columns explicitly. Columns not named are passed through untouched:
//
//	opts := timeseries.DefaultCSVOptions()
//	opts.DateColumn = "month"
//	opts.ValueColumn = "admissions"
//	opts.CategoryColumn = "site"
//	obs, err := timeseries.LoadCSV("data.csv", opts)
//
// An empty category cell, or no category column at all, places the row in the
// implicit group (the zero Category). No sentinel name is ever used.
//
// # Grouping
//
// Split observations into per-category series ordered by date:
//
//	for _, s := range timeseries.Group(obs) {
//	    fmt.Println(s.Category, s.Len(), s.Mean())
//	}
//
// # Reporting Periods
//
// A category's series must be contiguous. InferStep finds the dominant spacing,
// either whole calendar months, whole days, or a fixed duration, and
// CheckContiguous reports every duplicate date and gap:
//
//	if err := s.CheckContiguous(); err != nil {
//	    for _, v := range multierr.Errors(err) {
//	        fmt.Println(v)
//	    }
//	}
//
// # Basic Operations
//
//	mean := series.Mean()
//	mr := series.MovingRanges() // |x[i] - x[i-1]|
//	head := series.Slice(0, 12)
package timeseries
