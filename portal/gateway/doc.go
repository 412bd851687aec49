// Package gateway is the backend-for-frontend HTTP surface of the portal SPA.
//
// It keeps one wizard.Session per open drawer, keyed by an opaque session id,
// and exposes the read-only account and table endpoints with server-side
// pagination over the backend's small arrays.
package gateway
