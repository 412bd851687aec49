// Package backoff provides retry delays with exponential growth and full jitter.
//
// Retry runs an operation under a Policy and is meant for safe, read-only
// backend calls. Commits carry an idempotency key and are never retried here.
package backoff
