// Package server provides the gateway's fiber app and its lifecycle.
//
// Use this package to assemble the middleware chain, coordinate signal
// handling and run ordered resource cleanup on shutdown.
package server
