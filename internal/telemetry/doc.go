// Package telemetry provides OpenTelemetry initialization and helpers
// for tracing recipe fetches, backend calls and document ingestion.
//
// Traces and logs are exported over OTLP HTTP. Any OTLP collector works;
// Grafana Cloud style "/otlp" base paths are supported.
package telemetry
