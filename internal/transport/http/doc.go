// Package http holds the HTTP handlers of the report service.
//
// Handlers parse requests, call into the services package and write
// responses; they hold no report logic of their own. API endpoints answer
// errors with RFC 7807 problem documents through errors.ErrorHandler. The
// browser form at /report renders the same problem as an HTML page.
//
// Routes:
//
//	GET  /                    upload form
//	POST /report              multipart upload, HTML report or error page
//	POST /api/reports         multipart upload, ?format=html|json|csv|xlsx|pdf&table=
//	GET  /api/health          liveness summary
//	GET  /api/health/ready    readiness, 503 when a component is not ready
//	GET  /api/health/live     runtime details
//	GET  /api/version         build information
package http
