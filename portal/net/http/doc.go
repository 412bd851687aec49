// Package http holds the fiber plumbing shared by portal HTTP surfaces:
// JSON responses and errors, access logging with request ids, server spans,
// CORS for the SPA, and list query parsing.
package http
