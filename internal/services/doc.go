// Package services sits between the HTTP handlers and the report pipeline.
//
// ReportService accepts an uploaded workbook, validates it, runs the report
// generator and renders the result in any export format. Failures come back
// as *errors.AppError values typed by cause, so handlers only translate them
// into responses. HealthService aggregates readiness checks registered by
// the application.
package services
