// Package report computes the LinkedIn analytics summary from a workbook.
//
// The pipeline reads each sheet named by a Schema, reduces it (monthly
// follower growth, weekday histograms, ranked demographics) and returns a
// Bundle of metric cards, tables and renderer-neutral chart specs. Nothing
// here draws or writes files; see the render and exporter packages.
package report
