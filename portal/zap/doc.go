// Package zap adapts go.uber.org/zap to the portal log.Logger contract.
//
// Logs carry trace_id/span_id when the context holds an active span, and a
// tee'd otelzap core forwards every entry to the OpenTelemetry log pipeline.
package zap
