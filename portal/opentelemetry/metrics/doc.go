// Package metrics provides a lazily-populated OpenTelemetry instrument cache
// and the portal's predefined wizard and backend metrics.
package metrics
