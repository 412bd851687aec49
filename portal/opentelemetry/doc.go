// Package opentelemetry sets up tracing, metrics and log export for the
// portal gateway and holds the span helpers used by the backend client.
//
// With telemetry disabled the providers are still created, without
// exporters, so instrumented code never needs a nil check.
package opentelemetry
