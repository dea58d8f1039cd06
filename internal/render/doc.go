// Package render draws report chart specs as SVG with go-chart and renders
// the upload, report and error pages from embedded html/template files.
package render
