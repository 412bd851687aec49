// Package portal holds the shared helpers of the merchant portal core.
//
// The package includes context helpers, the business error adapter and the
// environment-driven configuration loader. Domain behavior lives in
// subpackages: idempotency, wizard, amount, client and gateway.
//
// Typical usage at request ingress:
//
//	ctx = portal.ContextWithLogger(ctx, logger)
//	ctx = portal.ContextWithHeaderID(ctx, requestID)
package portal
