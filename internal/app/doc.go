// Package app wires the report service together and runs it.
//
// New builds, in order: OpenTelemetry providers and business metrics, the
// report generator from the configured schema, the report and health
// services, the chi router with its middleware chain, and the HTTP server.
// Run serves until SIGINT or SIGTERM and then shuts down within the
// configured timeout.
package app
