// Package log defines the portal logging interface and typed logging fields.
//
// Adapters (such as the zap package) implement Logger so the wizard, the
// backend client and the gateway log through one contract regardless of backend.
package log
