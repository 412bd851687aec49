// Package constant provides shared constant values used across the portal packages.
//
// Keep this package free of runtime behavior.
package constant
