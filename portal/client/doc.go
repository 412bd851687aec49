// Package client talks to the portal REST backend.
//
// Every call carries the bearer token, a request id and the W3C trace
// context, and runs through the "portal-api" circuit breaker. Reads are
// retried with jittered backoff. Commits send the Idempotence-Key header and
// are never retried by the client: retrying a commit is a user decision.
//
// DrawBackend and PrepaymentBackend adapt the client to wizard.Backend.
package client
